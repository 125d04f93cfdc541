package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"kepler-responder-go/internal/api"
	"kepler-responder-go/internal/config"
	"kepler-responder-go/internal/logging"
	"kepler-responder-go/internal/services"
)

// @title Kepler Responder API
// @version 1.0.0
// @description Emergency response recommendations for crowd-safety alerts
// @BasePath /
func main() {
	// Load configuration
	cfg := config.Load()

	// Setup structured logging, tee'd into Logdy when enabled
	if w, _ := logging.StartLogdy(cfg); w != nil {
		logging.Setup(cfg, w)
	} else {
		logging.Setup(cfg)
	}

	log.Info().
		Str("worker_id", cfg.WorkerID).
		Str("version", cfg.Version).
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Int("grpc_port", cfg.GRPCPort).
		Bool("generator_configured", cfg.GeneratorAPIKey != "").
		Str("generator_model", cfg.GeneratorModel).
		Bool("nats_enabled", cfg.NatsEnabled).
		Msg("Starting Kepler Responder")

	container, err := services.NewServiceContainer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create services")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := container.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start services")
	}

	server := api.NewServer(cfg, container)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	go func() {
		if err := container.Health.ListenAndServe(cfg.GRPCPort); err != nil {
			log.Fatal().Err(err).Msg("gRPC health server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	if err := container.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Services forced to shutdown")
	} else {
		log.Info().Msg("Shutdown complete")
	}
}
