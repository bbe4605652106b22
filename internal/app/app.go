// Package app wires the pipeline for the command-line binaries: config,
// logging, the loader and the analytics runner.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"stocklens/internal/analytics"
	"stocklens/internal/config"
	"stocklens/internal/loader"
	"stocklens/internal/series"
)

// Options are the flag values shared by every binary. Zero values defer to
// the configuration file and environment.
type Options struct {
	ConfigPath string
	DataFile   string
	OutputDir  string
}

// App holds the bootstrapped pipeline dependencies.
type App struct {
	Config *config.Config
	Logger *slog.Logger
}

// Bootstrap loads configuration, applies flag overrides and installs the
// process logger.
func Bootstrap(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	if opts.DataFile != "" {
		cfg.Data.File = opts.DataFile
	}
	if opts.OutputDir != "" {
		cfg.Data.OutputDir = opts.OutputDir
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.Logging.Level),
	}))
	slog.SetDefault(logger)

	return &App{Config: cfg, Logger: logger}, nil
}

// LoadAndRun reads the input file and runs every analytics module against it.
func (a *App) LoadAndRun(ctx context.Context) (*series.PriceSeries, *analytics.Results, error) {
	s, report, err := loader.New(a.Logger).Load(a.Config.Data.File)
	if err != nil {
		return nil, nil, err
	}
	a.Logger.Info("data loaded",
		"file", a.Config.Data.File,
		"rows", report.LoadedRows,
		"dropped", report.DroppedRows,
		"duplicates", report.DuplicateRows)

	res := analytics.NewRunner(a.Config.Analytics, a.Logger).Run(ctx, s)
	return s, res, nil
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
