package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"kepler-responder-go/internal/config"
	"kepler-responder-go/internal/logging"
	"kepler-responder-go/internal/metrics"
	"kepler-responder-go/internal/services/dispatch"
	"kepler-responder-go/internal/services/emergency"
	"kepler-responder-go/internal/services/healthcheck"
	"kepler-responder-go/internal/services/messaging"
)

const healthPollInterval = 5 * time.Second

// ServiceContainer holds all services
type ServiceContainer struct {
	Config    *config.Config
	Metrics   *metrics.Recorder
	Engine    *emergency.Engine
	Health    *healthcheck.Service
	Messaging *messaging.Service // nil when NATS is disabled or unreachable
	Dispatch  *dispatch.Service  // nil when Messaging is nil

	stopWatch context.CancelFunc
}

// NewEngine builds the recommendation engine from configuration. Without an
// API key the engine runs in fallback-only mode.
func NewEngine(cfg *config.Config, observer emergency.Observer) *emergency.Engine {
	logger := logging.NewServiceLogger(cfg, "emergency")

	var factory emergency.GeneratorFactory
	if cfg.GeneratorAPIKey != "" {
		factory = emergency.NewOpenAIFactory(emergency.OpenAIConfig{
			APIKey:    cfg.GeneratorAPIKey,
			BaseURL:   cfg.GeneratorBaseURL,
			Model:     cfg.GeneratorModel,
			MaxTokens: cfg.GeneratorMaxTokens,
		})
	} else {
		log.Warn().Msg("No generator API key configured, recommendations will use the fallback classifier")
	}

	return emergency.NewEngine(emergency.NewHandle(factory, logger), observer, logger)
}

// NewServiceContainer creates a new service container
func NewServiceContainer(cfg *config.Config) (*ServiceContainer, error) {
	recorder := metrics.NewRecorder()

	sc := &ServiceContainer{
		Config:  cfg,
		Metrics: recorder,
		Engine:  NewEngine(cfg, recorder),
		Health:  healthcheck.NewService(),
	}

	if !cfg.NatsEnabled {
		log.Info().Msg("NATS disabled, alert intake available over HTTP only")
		return sc, nil
	}

	msgSvc, err := messaging.NewService(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("NATS unavailable, alert intake available over HTTP only")
		return sc, nil
	}
	sc.Messaging = msgSvc

	dispatchSvc, err := dispatch.NewService(cfg, sc.Engine, msgSvc, recorder, logging.NewServiceLogger(cfg, "dispatch"))
	if err != nil {
		if shutdownErr := msgSvc.Shutdown(context.Background()); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("Messaging shutdown failed")
		}
		return nil, fmt.Errorf("create dispatch service: %w", err)
	}
	sc.Dispatch = dispatchSvc

	return sc, nil
}

// Start subscribes the dispatcher to the alerts subject and begins health polling
func (sc *ServiceContainer) Start(ctx context.Context) error {
	watchCtx, cancel := context.WithCancel(ctx)
	sc.stopWatch = cancel

	if sc.Messaging == nil {
		sc.Health.SetServing(healthcheck.ServiceMessaging, false)
		return nil
	}

	if _, err := sc.Messaging.QueueSubscribe(sc.Config.AlertsSubject, sc.Config.ResponseQueue, sc.Dispatch.HandleMessage); err != nil {
		return fmt.Errorf("subscribe to %s: %w", sc.Config.AlertsSubject, err)
	}

	log.Info().
		Str("subject", sc.Config.AlertsSubject).
		Str("queue", sc.Config.ResponseQueue).
		Msg("Subscribed to alert stream")

	sc.Health.Watch(watchCtx, healthcheck.ServiceMessaging, healthPollInterval, sc.Messaging.IsConnected)
	return nil
}

// MessagingConnected reports whether the NATS connection is up
func (sc *ServiceContainer) MessagingConnected() bool {
	return sc.Messaging != nil && sc.Messaging.IsConnected()
}

// Shutdown gracefully shuts down all services
func (sc *ServiceContainer) Shutdown(ctx context.Context) error {
	if sc.stopWatch != nil {
		sc.stopWatch()
	}

	if sc.Messaging != nil {
		// Drain also flushes the queue subscription
		if err := sc.Messaging.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Messaging shutdown failed")
		}
	}

	if sc.Dispatch != nil {
		sc.Dispatch.Shutdown()
	}

	if sc.Health != nil {
		if err := sc.Health.Shutdown(ctx); err != nil {
			return err
		}
	}

	return nil
}

// GeneratorState reports the generator handle lifecycle state
func (sc *ServiceContainer) GeneratorState() string {
	return sc.Engine.GeneratorState().String()
}
