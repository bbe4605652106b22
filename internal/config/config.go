// Package config holds the immutable run configuration. It is loaded once at
// startup and passed explicitly into the loader, the analytics runner and
// every renderer; nothing reads configuration from package-level state.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete configuration for one analytics run.
type Config struct {
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Analytics AnalyticsConfig `yaml:"analytics" envconfig:"ANALYTICS"`
	Charts    ChartConfig     `yaml:"charts" envconfig:"CHARTS"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
}

// DataConfig describes the input file and output destination.
type DataConfig struct {
	File      string `yaml:"file" envconfig:"FILE" default:"stock_data.xlsx"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"reports"`
}

// AnalyticsConfig carries every tunable the analytics modules read.
type AnalyticsConfig struct {
	RiskFreeRate       float64 `yaml:"risk_free_rate" envconfig:"RISK_FREE_RATE" default:"0.02" validate:"gte=0,lte=1"`
	TradingDaysPerYear int     `yaml:"trading_days_per_year" envconfig:"TRADING_DAYS_PER_YEAR" default:"252" validate:"gt=0"`
	LookbackPeriods    []int   `yaml:"lookback_periods" envconfig:"LOOKBACK_PERIODS" default:"20,50,200" validate:"min=1,dive,gt=0"`
	RSIWindow          int     `yaml:"rsi_window" envconfig:"RSI_WINDOW" default:"14" validate:"gt=1"`
	VaRConfidence      float64 `yaml:"var_confidence" envconfig:"VAR_CONFIDENCE" default:"0.95" validate:"gt=0,lt=1"`
	VolatilityWindow   int     `yaml:"volatility_window" envconfig:"VOLATILITY_WINDOW" default:"20" validate:"gt=1"`
	ShortMAWindow      int     `yaml:"short_ma_window" envconfig:"SHORT_MA_WINDOW" default:"50" validate:"gt=0"`
	LongMAWindow       int     `yaml:"long_ma_window" envconfig:"LONG_MA_WINDOW" default:"200" validate:"gt=0"`
	// Strategy windows default to 1/20: a one-day short MA is the close
	// itself, so the backtest goes long whenever the close is above the
	// 20-day average.
	StrategyShortWindow int `yaml:"strategy_short_window" envconfig:"STRATEGY_SHORT_WINDOW" default:"1" validate:"gt=0"`
	StrategyLongWindow  int `yaml:"strategy_long_window" envconfig:"STRATEGY_LONG_WINDOW" default:"20" validate:"gt=0"`
}

// ChartConfig controls PNG chart rendering.
type ChartConfig struct {
	Width  int `yaml:"width" envconfig:"WIDTH" default:"1280" validate:"gt=0"`
	Height int `yaml:"height" envconfig:"HEIGHT" default:"720" validate:"gt=0"`
	DPI    int `yaml:"dpi" envconfig:"DPI" default:"300" validate:"gt=0"`
}

// ServerConfig configures the optional dashboard server.
type ServerConfig struct {
	Addr string `yaml:"addr" envconfig:"ADDR" default:":8080"`
}

// LoggingConfig controls slog setup in the entry points.
type LoggingConfig struct {
	Level string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
}

// Load builds configuration with precedence defaults < YAML file <
// STOCKLENS_* environment variables, then validates the result.
// An empty path skips the file stage.
func Load(path string) (*Config, error) {
	var cfg Config

	// Defaults and environment first. envconfig writes a field's default
	// tag whenever its variable is unset, so it cannot run after the file
	// stage without clobbering file-configured values.
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
		// The file overwrote any env-configured fields it also sets;
		// re-assert the variables that are genuinely present.
		if err := applyEnv(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

const envPrefix = "STOCKLENS"

// applyEnv copies set STOCKLENS_* variables over cfg, field by field, so env
// wins over the file without the default tags riding along.
func applyEnv(cfg *Config) error {
	var env Config
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return fmt.Errorf("load config from env: %w", err)
	}

	overlay := func(name string, apply func()) {
		if _, ok := os.LookupEnv(envPrefix + "_" + name); ok {
			apply()
		}
	}

	overlay("DATA_FILE", func() { cfg.Data.File = env.Data.File })
	overlay("DATA_OUTPUT_DIR", func() { cfg.Data.OutputDir = env.Data.OutputDir })
	overlay("ANALYTICS_RISK_FREE_RATE", func() { cfg.Analytics.RiskFreeRate = env.Analytics.RiskFreeRate })
	overlay("ANALYTICS_TRADING_DAYS_PER_YEAR", func() { cfg.Analytics.TradingDaysPerYear = env.Analytics.TradingDaysPerYear })
	overlay("ANALYTICS_LOOKBACK_PERIODS", func() { cfg.Analytics.LookbackPeriods = env.Analytics.LookbackPeriods })
	overlay("ANALYTICS_RSI_WINDOW", func() { cfg.Analytics.RSIWindow = env.Analytics.RSIWindow })
	overlay("ANALYTICS_VAR_CONFIDENCE", func() { cfg.Analytics.VaRConfidence = env.Analytics.VaRConfidence })
	overlay("ANALYTICS_VOLATILITY_WINDOW", func() { cfg.Analytics.VolatilityWindow = env.Analytics.VolatilityWindow })
	overlay("ANALYTICS_SHORT_MA_WINDOW", func() { cfg.Analytics.ShortMAWindow = env.Analytics.ShortMAWindow })
	overlay("ANALYTICS_LONG_MA_WINDOW", func() { cfg.Analytics.LongMAWindow = env.Analytics.LongMAWindow })
	overlay("ANALYTICS_STRATEGY_SHORT_WINDOW", func() { cfg.Analytics.StrategyShortWindow = env.Analytics.StrategyShortWindow })
	overlay("ANALYTICS_STRATEGY_LONG_WINDOW", func() { cfg.Analytics.StrategyLongWindow = env.Analytics.StrategyLongWindow })
	overlay("CHARTS_WIDTH", func() { cfg.Charts.Width = env.Charts.Width })
	overlay("CHARTS_HEIGHT", func() { cfg.Charts.Height = env.Charts.Height })
	overlay("CHARTS_DPI", func() { cfg.Charts.DPI = env.Charts.DPI })
	overlay("SERVER_ADDR", func() { cfg.Server.Addr = env.Server.Addr })
	overlay("LOGGING_LEVEL", func() { cfg.Logging.Level = env.Logging.Level })

	return nil
}

// Default returns the built-in configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			File:      "stock_data.xlsx",
			OutputDir: "reports",
		},
		Analytics: AnalyticsConfig{
			RiskFreeRate:        0.02,
			TradingDaysPerYear:  252,
			LookbackPeriods:     []int{20, 50, 200},
			RSIWindow:           14,
			VaRConfidence:       0.95,
			VolatilityWindow:    20,
			ShortMAWindow:       50,
			LongMAWindow:        200,
			StrategyShortWindow: 1,
			StrategyLongWindow:  20,
		},
		Charts: ChartConfig{
			Width:  1280,
			Height: 720,
			DPI:    300,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks field constraints and the cross-field rules the tag
// language cannot express.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}

	if !sort.IntsAreSorted(c.Analytics.LookbackPeriods) {
		return fmt.Errorf("lookback_periods must be in ascending order: %v", c.Analytics.LookbackPeriods)
	}
	for i := 1; i < len(c.Analytics.LookbackPeriods); i++ {
		if c.Analytics.LookbackPeriods[i] == c.Analytics.LookbackPeriods[i-1] {
			return fmt.Errorf("lookback_periods contains duplicate window %d", c.Analytics.LookbackPeriods[i])
		}
	}

	if c.Analytics.ShortMAWindow >= c.Analytics.LongMAWindow {
		return fmt.Errorf("short_ma_window (%d) must be less than long_ma_window (%d)",
			c.Analytics.ShortMAWindow, c.Analytics.LongMAWindow)
	}
	if c.Analytics.StrategyShortWindow >= c.Analytics.StrategyLongWindow {
		return fmt.Errorf("strategy_short_window (%d) must be less than strategy_long_window (%d)",
			c.Analytics.StrategyShortWindow, c.Analytics.StrategyLongWindow)
	}

	return nil
}

// ChartsDir returns the directory chart PNGs are written to.
func (c *Config) ChartsDir() string {
	return filepath.Join(c.Data.OutputDir, "charts")
}

// EnsureOutputDirs creates the output and chart directories.
func (c *Config) EnsureOutputDirs() error {
	for _, dir := range []string{c.Data.OutputDir, c.ChartsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}
	return nil
}
