package emergency

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kepler-responder-go/internal/models"
)

// stubGenerator returns canned responses and records prompts
type stubGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	prompts []string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	return s.text, s.err
}

func (s *stubGenerator) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

// recordingObserver captures engine events
type recordingObserver struct {
	sources  []models.RecommendationSource
	failures []ErrorKind
}

func (o *recordingObserver) OnRecommendation(rec models.Recommendation) {
	o.sources = append(o.sources, rec.Source)
}

func (o *recordingObserver) OnGenerationFailure(kind ErrorKind) {
	o.failures = append(o.failures, kind)
}

func engineWith(gen Generator, obs Observer) *Engine {
	factory := func() (Generator, error) { return gen, nil }
	return NewEngine(NewHandle(factory, zerolog.Nop()), obs, zerolog.Nop())
}

func TestEngine_GateRejectsLowRisk(t *testing.T) {
	gen := &stubGenerator{text: "Unit: X\nAction: Y\nUrgency: High"}
	obs := &recordingObserver{}
	engine := engineWith(gen, obs)

	for _, level := range []models.RiskLevel{models.RiskLevelNone, models.RiskLevelLow} {
		rec := engine.Generate(context.Background(), testAlert(level, "fire"), models.ResponseContext{})

		assert.Nil(t, rec.Unit)
		assert.Nil(t, rec.Action)
		assert.Nil(t, rec.Urgency)
		assert.Equal(t, []string{"Recommendation only generated for MEDIUM and HIGH-risk events"}, rec.Reasoning)
		assert.Equal(t, "18:42:07", rec.Time)
		assert.Equal(t, string(level), rec.RiskLevel)
	}

	assert.Zero(t, gen.calls())
	assert.Equal(t, StateUninitialized, engine.GeneratorState(), "gate must not initialize the generator")
	assert.Equal(t, []models.RecommendationSource{models.SourceGate, models.SourceGate}, obs.sources)
}

func TestEngine_UsesGeneratorResponse(t *testing.T) {
	gen := &stubGenerator{text: "Unit: Fire Safety Team\nAction: Evacuate\nUrgency: Immediate\nReasoning:\n- a\n- b"}
	obs := &recordingObserver{}
	engine := engineWith(gen, obs)

	rec := engine.Generate(context.Background(), testAlert(models.RiskLevelHigh, "fire"), models.ResponseContext{
		AreaAffected: models.StringPtr("Stage left"),
	})

	assert.Equal(t, "Fire Safety Team", *rec.Unit)
	assert.Equal(t, "Evacuate", *rec.Action)
	assert.Equal(t, []string{"a", "b"}, rec.Reasoning)
	assert.Equal(t, models.SourceGenerator, rec.Source)
	require.Equal(t, 1, gen.calls())
	assert.Contains(t, gen.prompts[0], "- Area Affected: Stage left")
	assert.Empty(t, obs.failures)
}

func TestEngine_MalformedResponseFallsBackWithContext(t *testing.T) {
	gen := &stubGenerator{text: "Unit: Fire Safety Team\nUrgency: Immediate"}
	obs := &recordingObserver{}
	engine := engineWith(gen, obs)

	alert := testAlert(models.RiskLevelMedium, "traffic")
	rc := models.ResponseContext{EscalationTrend: models.StringPtr(models.TrendIncreasing)}

	rec := engine.Generate(context.Background(), alert, rc)

	assert.Equal(t, Fallback(alert, rc), rec)
	assert.Equal(t, models.UrgencyImmediate, *rec.Urgency)
	assert.Equal(t, []ErrorKind{KindMalformed}, obs.failures)
}

func TestEngine_CallFailureFallsBackWithoutDisabling(t *testing.T) {
	gen := &stubGenerator{err: errors.New("503 service unavailable")}
	obs := &recordingObserver{}
	engine := engineWith(gen, obs)

	alert := testAlert(models.RiskLevelHigh, "medical")
	first := engine.Generate(context.Background(), alert, models.ResponseContext{})
	assert.Equal(t, models.SourceFallback, first.Source)
	assert.Equal(t, models.UnitEmergencyMedical, *first.Unit)

	gen.mu.Lock()
	gen.err = nil
	gen.text = "Unit: Emergency Medical Services\nAction: Stage ambulances\nUrgency: High"
	gen.mu.Unlock()

	second := engine.Generate(context.Background(), alert, models.ResponseContext{})
	assert.Equal(t, models.SourceGenerator, second.Source)
	assert.Equal(t, "Stage ambulances", *second.Action)

	assert.Equal(t, 2, gen.calls())
	assert.Equal(t, StateReady, engine.GeneratorState())
	assert.Equal(t, []ErrorKind{KindCall}, obs.failures)
}

func TestEngine_FallbackOnlyMode(t *testing.T) {
	obs := &recordingObserver{}
	engine := NewEngine(nil, obs, zerolog.Nop())

	for _, level := range []models.RiskLevel{models.RiskLevelMedium, models.RiskLevelHigh} {
		for _, cause := range []string{"density", "panic", "fire", "medical", "traffic", "anomaly", "", "other"} {
			rec := engine.Generate(context.Background(), testAlert(level, cause), models.ResponseContext{})
			require.NotNil(t, rec.Unit)
			require.NotNil(t, rec.Action)
			require.NotNil(t, rec.Urgency)
			assert.NotEmpty(t, *rec.Action)
			assert.GreaterOrEqual(t, len(rec.Reasoning), 2, "%s/%s", level, cause)
		}
	}

	assert.Equal(t, StateDisabled, engine.GeneratorState())
	for _, kind := range obs.failures {
		assert.Equal(t, KindUnavailable, kind)
	}
}

func TestEngine_FireScenarioWithoutGenerator(t *testing.T) {
	engine := NewEngine(NewHandle(NewOpenAIFactory(OpenAIConfig{Model: "gemini-2.5-flash-lite"}), zerolog.Nop()), nil, zerolog.Nop())

	alert := testAlert(models.RiskLevelHigh, "fire detected near stage")
	alert.RiskScore = 0.95
	alert.Confidence = 0.88
	alert.SupportingFactors = []string{"smoke visible"}

	rec := engine.Generate(context.Background(), alert, models.ResponseContext{})

	assert.Equal(t, models.UnitFireSafety, *rec.Unit)
	assert.Equal(t, "Immediate evacuation, secure fire exits, crowd dispersal", *rec.Action)
	assert.Equal(t, models.UrgencyImmediate, *rec.Urgency)
	assert.Equal(t, []string{
		"Fire hazard detected - immediate evacuation required",
		"Risk score 0.9500 exceeds HIGH threshold",
	}, rec.Reasoning)
}

func TestShouldFallback(t *testing.T) {
	assert.False(t, shouldFallback(nil))
	assert.True(t, shouldFallback(newGenerationError(KindUnavailable, ErrNoCredential)))
	assert.True(t, shouldFallback(newGenerationError(KindCall, errors.New("timeout"))))
	assert.True(t, shouldFallback(newGenerationError(KindMalformed, ErrMalformedResponse)))
	assert.True(t, shouldFallback(errors.New("unclassified")))
	assert.True(t, shouldFallback(newGenerationError(ErrorKind("future"), errors.New("x"))))
}

func TestGenerationError_Unwrap(t *testing.T) {
	err := newGenerationError(KindMalformed, ErrMalformedResponse)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Equal(t, KindMalformed, kindOf(err))
	assert.Equal(t, KindCall, kindOf(errors.New("plain")))
}
