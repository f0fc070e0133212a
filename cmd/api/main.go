package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"advisory-backend/internal/bootstrap"
	"advisory-backend/internal/shared/config"
	"advisory-backend/internal/shared/server"
	"advisory-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		telemetry.Error("bootstrap.failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		// Staged copies would otherwise outlive the process.
		if n := app.Revokes.Flush(); n > 0 {
			telemetry.Info("server.revokes.flushed", map[string]any{"ran": n})
		}
	}()

	telemetry.Info("server.start", map[string]any{
		"addr":    srv.Addr,
		"env":     cfg.Env,
		"records": cfg.StoreBackend(),
		"objects": cfg.ObjectStoreType,
	})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		telemetry.Error("server.error", map[string]any{"error": err})
		os.Exit(1)
	}
	<-drained
}
