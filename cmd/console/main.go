// Command console loads the stock data file, runs every analytics module and
// prints all sections to the terminal.
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
	// The console writes nothing to disk; -out exists so every entry point
	// takes the same flags.
	outputDir := flag.String("out", "", "output directory (overrides config)")
	flag.Parse()

	a, err := app.Bootstrap(app.Options{
		ConfigPath: *configPath,
		DataFile:   *dataFile,
		OutputDir:  *outputDir,
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

	report.NewConsolePrinter(os.Stdout).Print(res)
}
