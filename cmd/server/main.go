package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travelmap-service/internal/api"
	"travelmap-service/internal/bootstrap"
	"travelmap-service/internal/config"
	"travelmap-service/internal/platform/logger"
)

// main is the application composition root.
// It wires concrete adapters (dataset files or a database, boundaries, tile caches)
// behind ports, loads the datasets once and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	logger.Setup()
	if err != nil {
		slog.Error("config_invalid", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := bootstrap.Open(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "err", err)
		os.Exit(1)
	}
	defer deps.Close()

	// Required data must load before serving; boundaries may degrade.
	if _, err := deps.App.Reload(ctx); err != nil {
		slog.Error("dataset_load_failed", "err", err)
		deps.Close()
		os.Exit(1)
	}

	router := api.NewRouter(deps.App, deps.Tiles)

	// Tile renders at high zoom are CPU bound; the write timeout leaves room for them.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("shutdown_failed", "err", err)
		}
	}()

	slog.Info("server_listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server_failed", "err", err)
		deps.Close()
		os.Exit(1)
	}
	slog.Info("server_stopped")
}
