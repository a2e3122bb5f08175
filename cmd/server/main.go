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

	"github.com/futurenote/futurenote/internal/app"
	"github.com/futurenote/futurenote/internal/config"
	"github.com/futurenote/futurenote/internal/logger"
	"github.com/futurenote/futurenote/internal/routes"
	"github.com/futurenote/futurenote/internal/scheduler"
)

func main() {
	cfg := config.Load()

	flush := logger.Init(logger.Options{
		IsDev:       cfg.IsDevelopment(),
		SentryDSN:   cfg.SentryDSN,
		Environment: cfg.AppEnv,
	})
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, cfg)
	if err != nil {
		slog.Error("server failed", "error", err)
		flush()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	app, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := app.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	jobs, err := scheduler.New()
	if err != nil {
		return err
	}
	err = jobs.AddReminderSweep(app.ReminderService, cfg.ReminderSweepInterval)
	if err != nil {
		return err
	}
	err = jobs.AddLimiterPrune(app.Limiter, cfg.LimiterPruneInterval)
	if err != nil {
		return err
	}
	jobs.Start()
	defer func() {
		shutdownErr := jobs.Shutdown()
		if shutdownErr != nil {
			slog.Error("failed to stop scheduler", "error", shutdownErr)
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRoutes(app),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "url", cfg.AppURL)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
