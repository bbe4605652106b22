package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0.02, cfg.Analytics.RiskFreeRate)
	assert.Equal(t, []int{20, 50, 200}, cfg.Analytics.LookbackPeriods)
	assert.Equal(t, 14, cfg.Analytics.RSIWindow)
	assert.Equal(t, 0.95, cfg.Analytics.VaRConfidence)
	assert.Equal(t, filepath.Join("reports", "charts"), cfg.ChartsDir())
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
data:
  file: custom.xlsx
  output_dir: out
analytics:
  risk_free_rate: 0.03
  lookback_periods: [10, 30]
  short_ma_window: 10
  long_ma_window: 30
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "custom.xlsx", cfg.Data.File)
	assert.Equal(t, "out", cfg.Data.OutputDir)
	assert.Equal(t, 0.03, cfg.Analytics.RiskFreeRate)
	assert.Equal(t, []int{10, 30}, cfg.Analytics.LookbackPeriods)
	// Untouched fields fall back to struct defaults.
	assert.Equal(t, 14, cfg.Analytics.RSIWindow)
	assert.Equal(t, 252, cfg.Analytics.TradingDaysPerYear)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analytics:\n  rsi_window: 21\n"), 0o644))

	t.Setenv("STOCKLENS_ANALYTICS_RSI_WINDOW", "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Analytics.RSIWindow)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
data:
  output_dir: from_file
analytics:
  risk_free_rate: 0.05
  rsi_window: 21
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("STOCKLENS_ANALYTICS_RSI_WINDOW", "7")

	cfg, err := Load(path)
	require.NoError(t, err)

	// Env beats file, file beats default, untouched fields keep defaults.
	assert.Equal(t, 7, cfg.Analytics.RSIWindow)
	assert.Equal(t, 0.05, cfg.Analytics.RiskFreeRate)
	assert.Equal(t, "from_file", cfg.Data.OutputDir)
	assert.Equal(t, "stock_data.xlsx", cfg.Data.File)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative risk-free rate", func(c *Config) { c.Analytics.RiskFreeRate = -0.01 }},
		{"confidence above one", func(c *Config) { c.Analytics.VaRConfidence = 1.5 }},
		{"unsorted lookbacks", func(c *Config) { c.Analytics.LookbackPeriods = []int{50, 20} }},
		{"duplicate lookbacks", func(c *Config) { c.Analytics.LookbackPeriods = []int{20, 20, 50} }},
		{"short MA not below long MA", func(c *Config) { c.Analytics.ShortMAWindow = 200 }},
		{"zero chart width", func(c *Config) { c.Charts.Width = 0 }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
