package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fenix-certificates/internal/config"
	"fenix-certificates/internal/interfaces/router"
	"fenix-certificates/internal/pkg/logging"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}
	logging.Setup(cfg.LogLevel, !cfg.IsProduction())

	app, deps, err := router.CreateApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("app create")
	}
	defer deps.Close()

	if deps.Rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := deps.Rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("Redis connection failed")
		}
		log.Info().Msg("Redis connected")
	}
	log.Info().
		Str("store", cfg.StoreDriver).
		Int("certificates", len(deps.Store.List())).
		Bool("crm_configured", cfg.KeyCRMAPIKey != "").
		Msg("Certificate store ready")

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Info().Msg("Shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Info().Str("port", cfg.Port).Msgf("Health check: http://localhost:%s/health/json", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("listen")
	}
}
