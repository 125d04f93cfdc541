package emergency

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kepler-responder-go/internal/models"
)

func testAlert(level models.RiskLevel, cause string) models.Alert {
	return models.Alert{
		ID:           "alert-1",
		CreatedAt:    time.Date(2025, 6, 14, 18, 42, 7, 0, time.UTC),
		UserEmail:    "ops@example.com",
		Location:     "North Gate",
		RiskLevel:    level,
		RiskScore:    0.8123,
		Confidence:   0.91,
		PrimaryCause: cause,
	}
}

func TestFallback_CauseRules(t *testing.T) {
	tests := []struct {
		name    string
		level   models.RiskLevel
		cause   string
		unit    string
		action  string
		urgency string
		reason  string
	}{
		{"density high", models.RiskLevelHigh, "crowd density", models.UnitCrowdControlPolice,
			"Restrict entry points, manage crowd flow, establish buffer zones", models.UrgencyImmediate,
			"High crowd density requires immediate intervention"},
		{"overcrowding medium", models.RiskLevelMedium, "Overcrowding at gate", models.UnitCrowdControlPolice,
			"Monitor crowd density, prepare flow control measures", models.UrgencyMedium,
			"Elevated crowd density detected - monitoring required"},
		{"stampede", models.RiskLevelMedium, "STAMPEDE", models.UnitTacticalResponse,
			"Create evacuation corridors, establish safe zones, prevent crushing", models.UrgencyImmediate,
			"Panic or stampede risk - life-threatening situation"},
		{"smoke", models.RiskLevelMedium, "smoke near stage", models.UnitFireSafety,
			"Immediate evacuation, secure fire exits, crowd dispersal", models.UrgencyImmediate,
			"Fire hazard detected - immediate evacuation required"},
		{"medical high", models.RiskLevelHigh, "medical emergency", models.UnitEmergencyMedical,
			"Clear path for medical access, crowd separation, triage area setup", models.UrgencyImmediate,
			"Medical situation requires prompt response"},
		{"injury medium", models.RiskLevelMedium, "injury reported", models.UnitEmergencyMedical,
			"Position medical team on standby, monitor situation", models.UrgencyHigh,
			"Medical situation requires prompt response"},
		{"traffic high", models.RiskLevelHigh, "traffic", models.UnitTrafficControl,
			"Redirect traffic, establish pedestrian barriers, secure area", models.UrgencyHigh,
			"Traffic-related crowd safety issue"},
		{"vehicle medium", models.RiskLevelMedium, "vehicle in crowd", models.UnitTrafficControl,
			"Redirect traffic, establish pedestrian barriers, secure area", models.UrgencyMedium,
			"Traffic-related crowd safety issue"},
		{"anomaly high keeps baseline unit", models.RiskLevelHigh, "motion anomaly", models.UnitCrowdControlPolice,
			"Deploy surveillance team, assess escalation potential, prepare response", models.UrgencyHigh,
			"Sustained anomaly detected requiring attention"},
		{"persistence medium", models.RiskLevelMedium, "risk persistence", models.UnitCrowdControlPolice,
			"Increase monitoring, document patterns, alert response teams", models.UrgencyMedium,
			"Sustained anomaly detected requiring attention"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Fallback(testAlert(tt.level, tt.cause), models.ResponseContext{})

			require.NotNil(t, rec.Unit)
			require.NotNil(t, rec.Action)
			require.NotNil(t, rec.Urgency)
			assert.Equal(t, tt.unit, *rec.Unit)
			assert.Equal(t, tt.action, *rec.Action)
			assert.Equal(t, tt.urgency, *rec.Urgency)
			require.Len(t, rec.Reasoning, 2)
			assert.Equal(t, tt.reason, rec.Reasoning[0])
			assert.Equal(t, models.SourceFallback, rec.Source)
		})
	}
}

func TestFallback_NoRuleMatchUsesBaseline(t *testing.T) {
	high := Fallback(testAlert(models.RiskLevelHigh, "unclassified"), models.ResponseContext{})
	assert.Equal(t, models.UnitCrowdControlPolice, *high.Unit)
	assert.Equal(t, "Restrict entry points, manage flow, establish control zones", *high.Action)
	assert.Equal(t, models.UrgencyImmediate, *high.Urgency)
	assert.Equal(t, []string{
		"Risk score 0.8123 exceeds HIGH threshold",
		"Detection confidence 91.00% supports HIGH-risk classification",
	}, high.Reasoning)

	medium := Fallback(testAlert(models.RiskLevelMedium, ""), models.ResponseContext{})
	assert.Equal(t, "Monitor situation closely, prepare for potential intervention", *medium.Action)
	assert.Equal(t, models.UrgencyMedium, *medium.Urgency)
	assert.Equal(t, "Risk score 0.8123 indicates MEDIUM-level concern", medium.Reasoning[0])
	assert.Len(t, medium.Reasoning, 2)
}

func TestFallback_KeywordPriority(t *testing.T) {
	rec := Fallback(testAlert(models.RiskLevelHigh, "panic and fire"), models.ResponseContext{})
	assert.Equal(t, models.UnitTacticalResponse, *rec.Unit)

	rec = Fallback(testAlert(models.RiskLevelHigh, "panic in dense crowd"), models.ResponseContext{})
	assert.Equal(t, models.UnitTacticalResponse, *rec.Unit)

	rec = Fallback(testAlert(models.RiskLevelHigh, "density and panic"), models.ResponseContext{})
	assert.Equal(t, models.UnitCrowdControlPolice, *rec.Unit)
	assert.Equal(t, "High crowd density requires immediate intervention", rec.Reasoning[0])
}

func TestFallback_EscalationOverridesUrgency(t *testing.T) {
	causes := []string{"density", "panic", "fire", "medical", "traffic", "anomaly", "unknown"}
	for _, level := range []models.RiskLevel{models.RiskLevelMedium, models.RiskLevelHigh} {
		for _, cause := range causes {
			rec := Fallback(testAlert(level, cause), models.ResponseContext{
				EscalationTrend: models.StringPtr(models.TrendIncreasing),
			})
			assert.Equal(t, models.UrgencyImmediate, *rec.Urgency, "%s/%s", level, cause)
			assert.Contains(t, rec.Reasoning, "Escalating risk trend requires immediate intervention")
		}
	}

	rec := Fallback(testAlert(models.RiskLevelMedium, "traffic"), models.ResponseContext{
		EscalationTrend: models.StringPtr(models.TrendStable),
	})
	assert.Equal(t, models.UrgencyMedium, *rec.Urgency)
}

func TestFallback_DurationBoundary(t *testing.T) {
	const line = "Risk persistence over 31s indicates sustained threat"

	rec := Fallback(testAlert(models.RiskLevelHigh, "density"), models.ResponseContext{
		DurationSeconds: models.Float64Ptr(31),
	})
	assert.Contains(t, rec.Reasoning, line)
	assert.Len(t, rec.Reasoning, 2)

	rec = Fallback(testAlert(models.RiskLevelHigh, "density"), models.ResponseContext{
		DurationSeconds: models.Float64Ptr(30),
	})
	for _, r := range rec.Reasoning {
		assert.NotContains(t, r, "Risk persistence")
	}

	rec = Fallback(testAlert(models.RiskLevelHigh, "density"), models.ResponseContext{
		DurationSeconds: models.Float64Ptr(95.9),
	})
	assert.Contains(t, rec.Reasoning, "Risk persistence over 95s indicates sustained threat")
}

func TestFallback_NegativeDurationClamped(t *testing.T) {
	rec := Fallback(testAlert(models.RiskLevelHigh, "fire"), models.ResponseContext{
		DurationSeconds: models.Float64Ptr(-120),
	})
	for _, r := range rec.Reasoning {
		assert.NotContains(t, r, "Risk persistence")
	}
}

func TestFallback_HugeDurationClamped(t *testing.T) {
	for _, d := range []float64{1e20, math.Inf(1)} {
		rec := Fallback(testAlert(models.RiskLevelHigh, "fire"), models.ResponseContext{
			DurationSeconds: models.Float64Ptr(d),
		})
		assert.Contains(t, rec.Reasoning, "Risk persistence over 315360000s indicates sustained threat")
	}

	rec := Fallback(testAlert(models.RiskLevelHigh, "fire"), models.ResponseContext{
		DurationSeconds: models.Float64Ptr(math.NaN()),
	})
	for _, r := range rec.Reasoning {
		assert.NotContains(t, r, "Risk persistence")
	}
}

func TestWholeSeconds(t *testing.T) {
	assert.Equal(t, "95", wholeSeconds(95.9))
	assert.Equal(t, "100000000000000000000", wholeSeconds(1e20))
}

func TestFallback_DirectionalChaos(t *testing.T) {
	alert := testAlert(models.RiskLevelHigh, "density")
	alert.SupportingFactors = []string{"Directional Chaos", "high velocity"}

	rec := Fallback(alert, models.ResponseContext{
		DurationSeconds: models.Float64Ptr(45),
		EscalationTrend: models.StringPtr(models.TrendIncreasing),
	})

	assert.Equal(t, []string{
		"High crowd density requires immediate intervention",
		"Directional chaos indicates potential loss of crowd control",
		"Risk persistence over 45s indicates sustained threat",
		"Escalating risk trend requires immediate intervention",
	}, rec.Reasoning)
}

func TestFallback_Idempotent(t *testing.T) {
	alert := testAlert(models.RiskLevelMedium, "medical")
	alert.SupportingFactors = []string{"directional chaos"}
	rc := models.ResponseContext{
		AreaAffected:    models.StringPtr("Food court"),
		DurationSeconds: models.Float64Ptr(61),
	}

	first := Fallback(alert, rc)
	second := Fallback(alert, rc)
	assert.Equal(t, first, second)
}

func TestFallback_FireScenario(t *testing.T) {
	alert := testAlert(models.RiskLevelHigh, "fire detected near stage")
	alert.RiskScore = 0.95
	alert.Confidence = 0.88
	alert.SupportingFactors = []string{"smoke visible"}

	rec := Fallback(alert, models.ResponseContext{})

	assert.Equal(t, "18:42:07", rec.Time)
	assert.Equal(t, "HIGH", rec.RiskLevel)
	assert.Equal(t, models.UnitFireSafety, *rec.Unit)
	assert.Equal(t, "Immediate evacuation, secure fire exits, crowd dispersal", *rec.Action)
	assert.Equal(t, models.UrgencyImmediate, *rec.Urgency)
	assert.Equal(t, []string{
		"Fire hazard detected - immediate evacuation required",
		"Risk score 0.9500 exceeds HIGH threshold",
	}, rec.Reasoning)
}
