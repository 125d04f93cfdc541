// Package emergency derives emergency-response recommendations for crowd-safety
// alerts. An external text generator is tried first; the deterministic
// classifier in fallback.go answers whenever the generator is unavailable,
// fails, or returns an incomplete response.
package emergency

import (
	"context"

	"github.com/rs/zerolog"

	"kepler-responder-go/internal/models"
)

const ineligibleReason = "Recommendation only generated for MEDIUM and HIGH-risk events"

// Observer receives the outcome of every Generate call for metrics.
type Observer interface {
	OnRecommendation(rec models.Recommendation)
	OnGenerationFailure(kind ErrorKind)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnRecommendation(models.Recommendation) {}
func (NoopObserver) OnGenerationFailure(ErrorKind)          {}

// Engine produces recommendations. It holds no per-alert state; the only shared
// state is the generator handle.
type Engine struct {
	handle   *Handle
	observer Observer
	logger   zerolog.Logger
}

// NewEngine creates an engine around a generator handle. A nil handle means
// fallback-only mode.
func NewEngine(handle *Handle, observer Observer, logger zerolog.Logger) *Engine {
	if handle == nil {
		handle = NewHandle(nil, logger)
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Engine{
		handle:   handle,
		observer: observer,
		logger:   logger,
	}
}

// GeneratorState reports the lifecycle state of the generator handle
func (e *Engine) GeneratorState() HandleState {
	return e.handle.State()
}

// Generate returns a recommendation for the alert. It never fails: generator
// problems of any kind route the call to the deterministic classifier.
func (e *Engine) Generate(ctx context.Context, alert models.Alert, rc models.ResponseContext) models.Recommendation {
	if !alert.RiskLevel.Eligible() {
		rec := ineligible(alert)
		e.observer.OnRecommendation(rec)
		return rec
	}

	rec, err := e.attemptGeneration(ctx, alert, rc)
	if shouldFallback(err) {
		kind := kindOf(err)
		e.observer.OnGenerationFailure(kind)

		event := e.logger.Warn()
		if kind == KindUnavailable {
			event = e.logger.Debug()
		}
		event.
			Err(err).
			Str("alert_id", alert.ID).
			Str("kind", string(kind)).
			Msg("Using fallback classifier")

		rec = Fallback(alert, rc)
	}

	e.observer.OnRecommendation(rec)

	e.logger.Info().
		Str("alert_id", alert.ID).
		Str("risk_level", rec.RiskLevel).
		Str("unit", rec.UnitOrEmpty()).
		Str("urgency", rec.UrgencyOrEmpty()).
		Str("source", string(rec.Source)).
		Msg("Recommendation generated")

	return rec
}

// attemptGeneration runs the external path and classifies any failure
func (e *Engine) attemptGeneration(ctx context.Context, alert models.Alert, rc models.ResponseContext) (models.Recommendation, error) {
	gen, err := e.handle.Get()
	if err != nil {
		return models.Recommendation{}, newGenerationError(KindUnavailable, err)
	}

	prompt := BuildPrompt(alert, rc)

	text, err := gen.Generate(ctx, prompt)
	if err != nil {
		return models.Recommendation{}, newGenerationError(KindCall, err)
	}

	rec, err := ParseResponse(text, alert)
	if err != nil {
		return models.Recommendation{}, newGenerationError(KindMalformed, err)
	}
	return rec, nil
}

func ineligible(alert models.Alert) models.Recommendation {
	return models.Recommendation{
		Time:      alert.IncidentTime(),
		RiskLevel: alert.RiskLevel.String(),
		Reasoning: []string{ineligibleReason},
		Source:    models.SourceGate,
	}
}
