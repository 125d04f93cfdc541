package models

import (
	"fmt"
	"math"
	"time"
)

// MaxDurationSeconds bounds how long a risk may be reported to have persisted (ten years)
const MaxDurationSeconds = 10 * 365 * 24 * 60 * 60

// Response unit vocabulary
const (
	UnitCrowdControlPolice = "Crowd Control Police"
	UnitTacticalResponse   = "Tactical Response Team"
	UnitEmergencyMedical   = "Emergency Medical Services"
	UnitFireSafety         = "Fire Safety Team"
	UnitTrafficControl     = "Traffic Control Unit"
)

// ResponseUnits lists the unit types in the order they are offered to the generator
var ResponseUnits = []string{
	UnitCrowdControlPolice,
	UnitTacticalResponse,
	UnitEmergencyMedical,
	UnitFireSafety,
	UnitTrafficControl,
}

// Urgency vocabulary
const (
	UrgencyImmediate = "Immediate"
	UrgencyHigh      = "High"
	UrgencyMedium    = "Medium"
)

// Escalation trend vocabulary
const (
	TrendIncreasing = "increasing"
	TrendStable     = "stable"
	TrendDecreasing = "decreasing"
)

// RecommendationSource identifies which path produced a recommendation
type RecommendationSource string

const (
	SourceGate      RecommendationSource = "gate"
	SourceGenerator RecommendationSource = "generator"
	SourceFallback  RecommendationSource = "fallback"
)

// Recommendation is the structured emergency-response guidance for one alert.
// Unit, Action and Urgency are nil when the alert is not eligible.
type Recommendation struct {
	Time      string   `json:"time"`
	RiskLevel string   `json:"risk_level"`
	Unit      *string  `json:"unit"`
	Action    *string  `json:"action"`
	Urgency   *string  `json:"urgency"`
	Reasoning []string `json:"reasoning"`

	Source RecommendationSource `json:"-"`
}

// UnitOrEmpty dereferences Unit for logging
func (r Recommendation) UnitOrEmpty() string {
	if r.Unit == nil {
		return ""
	}
	return *r.Unit
}

// UrgencyOrEmpty dereferences Urgency for logging
func (r Recommendation) UrgencyOrEmpty() string {
	if r.Urgency == nil {
		return ""
	}
	return *r.Urgency
}

// ResponseContext carries the optional per-call signals that refine a recommendation
type ResponseContext struct {
	AreaAffected    *string  `json:"area_affected,omitempty"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty"` // how long the risk has persisted
	EscalationTrend *string  `json:"escalation_trend,omitempty"` // increasing, stable, decreasing
}

// Validate rejects inputs the engine cannot interpret
func (c ResponseContext) Validate() error {
	if c.DurationSeconds != nil {
		d := *c.DurationSeconds
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return fmt.Errorf("duration_seconds must be finite, got %v", d)
		}
		if d < 0 {
			return fmt.Errorf("duration_seconds must be non-negative, got %v", d)
		}
		if d > MaxDurationSeconds {
			return fmt.Errorf("duration_seconds must not exceed %d, got %v", MaxDurationSeconds, d)
		}
	}
	if c.EscalationTrend != nil {
		switch *c.EscalationTrend {
		case TrendIncreasing, TrendStable, TrendDecreasing:
		default:
			return fmt.Errorf("unknown escalation_trend %q", *c.EscalationTrend)
		}
	}
	return nil
}

// Normalized clamps the duration into [0, MaxDurationSeconds]. NaN becomes zero.
func (c ResponseContext) Normalized() ResponseContext {
	if c.DurationSeconds == nil {
		return c
	}
	d := ClampDuration(*c.DurationSeconds)
	c.DurationSeconds = &d
	return c
}

// ClampDuration bounds a duration into [0, MaxDurationSeconds]; NaN becomes zero
func ClampDuration(d float64) float64 {
	switch {
	case math.IsNaN(d), d < 0:
		return 0
	case d > MaxDurationSeconds:
		return MaxDurationSeconds
	}
	return d
}

// AlertEnvelope is the inbound message carrying an alert and its context
type AlertEnvelope struct {
	Alert Alert `json:"alert"`
	ResponseContext
}

// RecommendationEnvelope is the outbound message carrying a generated recommendation
type RecommendationEnvelope struct {
	ID             string         `json:"id"`
	AlertID        string         `json:"alert_id"`
	Location       string         `json:"location"`
	Recommendation Recommendation `json:"recommendation"`
	Source         string         `json:"source"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// Float64Ptr returns a pointer to f
func Float64Ptr(f float64) *float64 {
	return &f
}
