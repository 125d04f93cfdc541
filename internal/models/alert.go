package models

import (
	"fmt"
	"strings"
	"time"
)

// RiskLevel represents the severity category assigned to a crowd-safety alert
type RiskLevel string

const (
	RiskLevelNone   RiskLevel = "NONE"
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
)

// Severity orders risk levels: NONE < LOW < MEDIUM < HIGH. Unknown levels sort below NONE.
func (r RiskLevel) Severity() int {
	switch r {
	case RiskLevelNone:
		return 0
	case RiskLevelLow:
		return 1
	case RiskLevelMedium:
		return 2
	case RiskLevelHigh:
		return 3
	default:
		return -1
	}
}

// Eligible reports whether a recommendation may be generated for this level
func (r RiskLevel) Eligible() bool {
	return r == RiskLevelMedium || r == RiskLevelHigh
}

func (r RiskLevel) String() string {
	return string(r)
}

// ParseRiskLevel converts a case-insensitive name into a RiskLevel
func ParseRiskLevel(s string) (RiskLevel, error) {
	level := RiskLevel(strings.ToUpper(strings.TrimSpace(s)))
	if level.Severity() < 0 {
		return "", fmt.Errorf("unknown risk level %q", s)
	}
	return level, nil
}

// Alert represents one detected crowd-safety incident
type Alert struct {
	// Identity
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserEmail string    `json:"user_email"`
	Location  string    `json:"location"`

	// Risk data
	RiskLevel  RiskLevel `json:"risk_level"`
	RiskScore  float64   `json:"risk_score"`
	Confidence float64   `json:"confidence"` // 0..1

	// Source clip the incident was detected in
	FileName         string  `json:"file_name,omitempty"`
	EventTimeSeconds float64 `json:"event_time_seconds,omitempty"`

	// Explanatory data
	PrimaryCause      string   `json:"primary_cause"`
	SupportingFactors []string `json:"supporting_factors,omitempty"`
	Explanation       string   `json:"explanation"`

	// Lifecycle
	AcknowledgedAt    *time.Time      `json:"acknowledged_at,omitempty"`
	EmergencyResponse *Recommendation `json:"emergency_response,omitempty"`
}

// IncidentTime renders the alert creation time as HH:MM:SS
func (a Alert) IncidentTime() string {
	return a.CreatedAt.Format("15:04:05")
}

// WithRecommendation returns a copy of the alert with the recommendation cached on it
func (a Alert) WithRecommendation(rec Recommendation) Alert {
	a.EmergencyResponse = &rec
	return a
}
