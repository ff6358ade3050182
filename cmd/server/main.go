package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/StandardsTable/internal/config"
	"github.com/JonMunkholm/StandardsTable/internal/core"
	"github.com/JonMunkholm/StandardsTable/internal/dataset"
	"github.com/JonMunkholm/StandardsTable/internal/logging"
	"github.com/JonMunkholm/StandardsTable/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Overload lets a local .env win over inherited variables.
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg := config.MustLoad()

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"dataset_source", cfg.Dataset.Source(),
		"matcher", cfg.Search.Matcher,
		"export_mode", cfg.Export.CSVMode,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("configuration", "config", cfg.String())

	ds, err := dataset.Open(context.Background(), cfg.Dataset.Loader())
	if err != nil {
		slog.Error("failed to load dataset", "error", err, "code", core.MapError(err).Code)
		os.Exit(1)
	}

	service, err := core.NewService(ds, cfg.Service())
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(service, cfg)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	server.StartBackground(jobCtx)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr(), "records", ds.Len())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
