// Command web loads the stock data file, runs every analytics module and
// serves the results over the dashboard JSON API until interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"stocklens/internal/app"
	"stocklens/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	dataFile := flag.String("data", "", "input .xlsx or .csv file (overrides config)")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	a, err := app.Bootstrap(app.Options{ConfigPath: *configPath, DataFile: *dataFile})
	if err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}
	if *addr != "" {
		a.Config.Server.Addr = *addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, res, err := a.LoadAndRun(ctx)
	if err != nil {
		a.Logger.Error("load failed", "file", a.Config.Data.File, "error", err)
		os.Exit(1)
	}

	srv := server.New(a.Config, a.Logger)
	srv.SetResults(res)

	if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.Logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
