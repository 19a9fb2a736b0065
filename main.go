package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"products/internal/config"
	"products/pkg/logger"

	"golang.org/x/sync/errgroup"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Config{Env: "development"})
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	// --- Start HTTP Server ---
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.App.Port).Str("store", cfg.Store.Driver).Msg("Starting server")
		return app.fiber.Listen(cfg.App.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")
		return app.fiber.ShutdownWithTimeout(cfg.App.ShutdownTimeout)
	})

	exitCode := 0
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		exitCode = 1
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := app.close(closeCtx); err != nil {
		log.Error().Err(err).Msg("Error releasing resources")
		exitCode = 1
	}

	log.Info().Msg("Server gracefully stopped")
	if exitCode != 0 {
		stop()
		cancel()
		os.Exit(exitCode)
	}
}
