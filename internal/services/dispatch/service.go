package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"kepler-responder-go/internal/config"
	"kepler-responder-go/internal/logging"
	"kepler-responder-go/internal/models"
)

const transportNATS = "nats"

// Outcomes recorded for every inbound alert
const (
	OutcomeProcessed     = "processed"
	OutcomeInvalid       = "invalid"
	OutcomeCooldown      = "cooldown"
	OutcomePublishFailed = "publish_failed"
)

var (
	ErrInvalidAlert = errors.New("invalid alert envelope")
	ErrCooldown     = errors.New("alert is in cooldown")
)

// Recommender produces a recommendation for an alert. *emergency.Engine satisfies it.
type Recommender interface {
	Generate(ctx context.Context, alert models.Alert, rc models.ResponseContext) models.Recommendation
}

// AlertCounter records intake outcomes. *metrics.Recorder satisfies it.
type AlertCounter interface {
	AlertReceived(transport, outcome string)
}

// Service consumes alert envelopes, runs them through the recommender and
// publishes the resulting recommendation envelopes
type Service struct {
	cfg         *config.Config
	recommender Recommender
	publisher   models.MessagePublisher
	counter     AlertCounter
	logger      zerolog.Logger

	cooldownMu sync.Mutex
	lastSent   map[string]time.Time
	cooldown   time.Duration

	now func() time.Time
}

func NewService(cfg *config.Config, recommender Recommender, publisher models.MessagePublisher, counter AlertCounter, logger zerolog.Logger) (*Service, error) {
	if recommender == nil {
		return nil, fmt.Errorf("recommender is required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("message publisher is required")
	}

	s := &Service{
		cfg:         cfg,
		recommender: recommender,
		publisher:   publisher,
		counter:     counter,
		logger:      logger,
		lastSent:    make(map[string]time.Time),
		cooldown:    cfg.AlertsCooldown,
		now:         time.Now,
	}

	logger.Info().
		Str("subject", cfg.AlertsSubject).
		Str("queue", cfg.ResponseQueue).
		Str("publish_subject", cfg.RecommendationsSubject).
		Dur("cooldown", s.cooldown).
		Dur("generator_timeout", cfg.GeneratorTimeout).
		Msg("Dispatch service initialized")

	return s, nil
}

// HandleMessage is the NATS callback. Errors are logged and the message dropped.
func (s *Service) HandleMessage(data []byte) {
	if _, err := s.Process(context.Background(), data); err != nil {
		if errors.Is(err, ErrCooldown) {
			s.logger.Debug().Err(err).Msg("Alert skipped")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to process alert message")
	}
}

// Process decodes one alert envelope, generates its recommendation and publishes it
func (s *Service) Process(ctx context.Context, data []byte) (models.RecommendationEnvelope, error) {
	env, err := decodeEnvelope(data)
	if err != nil {
		s.record(OutcomeInvalid)
		return models.RecommendationEnvelope{}, err
	}

	logger := logging.WithAlert(s.logger, env.Alert.ID)

	if !s.claim(env.Alert.ID) {
		s.record(OutcomeCooldown)
		return models.RecommendationEnvelope{}, fmt.Errorf("%w: %s", ErrCooldown, env.Alert.ID)
	}

	if s.cfg.GeneratorTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.GeneratorTimeout)
		defer cancel()
	}

	rec := s.recommender.Generate(ctx, env.Alert, env.ResponseContext)

	out := models.RecommendationEnvelope{
		ID:             uuid.NewString(),
		AlertID:        env.Alert.ID,
		Location:       env.Alert.Location,
		Recommendation: rec,
		Source:         string(rec.Source),
		GeneratedAt:    s.now().UTC(),
	}

	if err := s.publisher.Publish(s.cfg.RecommendationsSubject, out); err != nil {
		s.record(OutcomePublishFailed)
		return out, fmt.Errorf("publish recommendation for alert %s: %w", env.Alert.ID, err)
	}

	s.record(OutcomeProcessed)
	logger.Info().
		Str("recommendation_id", out.ID).
		Str("source", out.Source).
		Str("unit", rec.UnitOrEmpty()).
		Msg("Recommendation published")

	return out, nil
}

// Shutdown logs the stop. Messages in flight are drained by the messaging service.
func (s *Service) Shutdown() {
	s.logger.Info().Msg("Dispatch service shutdown")
}

func decodeEnvelope(data []byte) (models.AlertEnvelope, error) {
	var env models.AlertEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return env, fmt.Errorf("%w: %v", ErrInvalidAlert, err)
	}

	if strings.TrimSpace(env.Alert.ID) == "" {
		return env, fmt.Errorf("%w: missing alert id", ErrInvalidAlert)
	}

	level, err := models.ParseRiskLevel(string(env.Alert.RiskLevel))
	if err != nil {
		return env, fmt.Errorf("%w: %v", ErrInvalidAlert, err)
	}
	env.Alert.RiskLevel = level

	if err := env.ResponseContext.Validate(); err != nil {
		return env, fmt.Errorf("%w: %v", ErrInvalidAlert, err)
	}
	return env, nil
}

func (s *Service) record(outcome string) {
	if s.counter != nil {
		s.counter.AlertReceived(transportNATS, outcome)
	}
}

// claim stamps alertID and reports true unless it was already stamped within
// the cooldown. Expired entries are dropped on the way.
func (s *Service) claim(alertID string) bool {
	s.cooldownMu.Lock()
	defer s.cooldownMu.Unlock()

	now := s.now()
	for id, t := range s.lastSent {
		if now.Sub(t) >= s.cooldown {
			delete(s.lastSent, id)
		}
	}

	if _, active := s.lastSent[alertID]; active {
		return false
	}
	s.lastSent[alertID] = now
	return true
}
