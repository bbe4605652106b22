// Command excel loads the stock data file, runs every analytics module and
// writes the styled per-module workbooks plus the consolidated summary
// workbook.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"stocklens/internal/app"
	"stocklens/internal/report"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	dataFile := flag.String("data", "", "input .xlsx or .csv file (overrides config)")
	outDir := flag.String("out", "", "output directory (overrides config)")
	flag.Parse()

	a, err := app.Bootstrap(app.Options{
		ConfigPath: *configPath,
		DataFile:   *dataFile,
		OutputDir:  *outDir,
	})
	if err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}

	_, res, err := a.LoadAndRun(context.Background())
	if err != nil {
		a.Logger.Error("load failed", "file", a.Config.Data.File, "error", err)
		os.Exit(1)
	}

	if err := report.NewExcelWriter(a.Config, a.Logger).WriteAll(res); err != nil {
		a.Logger.Error("workbook writing failed", "error", err)
		os.Exit(1)
	}

	a.Logger.Info("workbooks written", "dir", a.Config.Data.OutputDir, "run_id", res.RunID)
}
