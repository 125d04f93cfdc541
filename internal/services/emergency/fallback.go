package emergency

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"kepler-responder-go/internal/models"
)

// outcome is what a matched rule contributes. An empty Unit keeps the baseline unit.
type outcome struct {
	Unit    string
	Action  string
	Urgency string
	Reason  string
}

// rule matches when the lowercased primary cause contains any keyword
type rule struct {
	name     string
	keywords []string
	apply    func(level models.RiskLevel) outcome
}

func (r rule) matches(cause string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(cause, kw) {
			return true
		}
	}
	return false
}

// causeRules is evaluated in order; the first matching rule wins
var causeRules = []rule{
	{
		name:     "density",
		keywords: []string{"density", "overcrowding"},
		apply: func(level models.RiskLevel) outcome {
			if level == models.RiskLevelHigh {
				return outcome{
					Unit:    models.UnitCrowdControlPolice,
					Action:  "Restrict entry points, manage crowd flow, establish buffer zones",
					Urgency: models.UrgencyImmediate,
					Reason:  "High crowd density requires immediate intervention",
				}
			}
			return outcome{
				Unit:    models.UnitCrowdControlPolice,
				Action:  "Monitor crowd density, prepare flow control measures",
				Urgency: models.UrgencyMedium,
				Reason:  "Elevated crowd density detected - monitoring required",
			}
		},
	},
	{
		name:     "panic",
		keywords: []string{"panic", "stampede"},
		apply: func(models.RiskLevel) outcome {
			return outcome{
				Unit:    models.UnitTacticalResponse,
				Action:  "Create evacuation corridors, establish safe zones, prevent crushing",
				Urgency: models.UrgencyImmediate,
				Reason:  "Panic or stampede risk - life-threatening situation",
			}
		},
	},
	{
		name:     "fire",
		keywords: []string{"fire", "smoke"},
		apply: func(models.RiskLevel) outcome {
			return outcome{
				Unit:    models.UnitFireSafety,
				Action:  "Immediate evacuation, secure fire exits, crowd dispersal",
				Urgency: models.UrgencyImmediate,
				Reason:  "Fire hazard detected - immediate evacuation required",
			}
		},
	},
	{
		name:     "medical",
		keywords: []string{"medical", "injury"},
		apply: func(level models.RiskLevel) outcome {
			o := outcome{
				Unit:   models.UnitEmergencyMedical,
				Reason: "Medical situation requires prompt response",
			}
			if level == models.RiskLevelHigh {
				o.Action = "Clear path for medical access, crowd separation, triage area setup"
				o.Urgency = models.UrgencyImmediate
			} else {
				o.Action = "Position medical team on standby, monitor situation"
				o.Urgency = models.UrgencyHigh
			}
			return o
		},
	},
	{
		name:     "traffic",
		keywords: []string{"traffic", "vehicle"},
		apply: func(level models.RiskLevel) outcome {
			urgency := models.UrgencyMedium
			if level == models.RiskLevelHigh {
				urgency = models.UrgencyHigh
			}
			return outcome{
				Unit:    models.UnitTrafficControl,
				Action:  "Redirect traffic, establish pedestrian barriers, secure area",
				Urgency: urgency,
				Reason:  "Traffic-related crowd safety issue",
			}
		},
	},
	{
		name:     "anomaly",
		keywords: []string{"anomaly", "persistence"},
		apply: func(level models.RiskLevel) outcome {
			if level == models.RiskLevelHigh {
				return outcome{
					Action:  "Deploy surveillance team, assess escalation potential, prepare response",
					Urgency: models.UrgencyHigh,
					Reason:  "Sustained anomaly detected requiring attention",
				}
			}
			return outcome{
				Action:  "Increase monitoring, document patterns, alert response teams",
				Urgency: models.UrgencyMedium,
				Reason:  "Sustained anomaly detected requiring attention",
			}
		},
	},
}

// baseline is the response used before any cause rule is consulted
func baseline(level models.RiskLevel) outcome {
	if level == models.RiskLevelHigh {
		return outcome{
			Unit:    models.UnitCrowdControlPolice,
			Action:  "Restrict entry points, manage flow, establish control zones",
			Urgency: models.UrgencyImmediate,
		}
	}
	return outcome{
		Unit:    models.UnitCrowdControlPolice,
		Action:  "Monitor situation closely, prepare for potential intervention",
		Urgency: models.UrgencyMedium,
	}
}

// matchRule returns the first rule whose keywords appear in the primary cause
func matchRule(primaryCause string) (rule, bool) {
	cause := strings.ToLower(primaryCause)
	for _, r := range causeRules {
		if r.matches(cause) {
			return r, true
		}
	}
	return rule{}, false
}

// Fallback is the deterministic classifier. It is a pure function of its
// inputs and always yields unit, action, urgency and at least two reasons.
func Fallback(alert models.Alert, rc models.ResponseContext) models.Recommendation {
	rc = rc.Normalized()
	level := alert.RiskLevel

	result := baseline(level)
	reasoning := make([]string, 0, 4)

	if r, ok := matchRule(alert.PrimaryCause); ok {
		o := r.apply(level)
		if o.Unit != "" {
			result.Unit = o.Unit
		}
		result.Action = o.Action
		result.Urgency = o.Urgency
		reasoning = append(reasoning, o.Reason)
	}

	factors := strings.ToLower(strings.Join(alert.SupportingFactors, " "))
	if strings.Contains(factors, "directional chaos") {
		reasoning = append(reasoning, "Directional chaos indicates potential loss of crowd control")
	}

	if rc.DurationSeconds != nil && *rc.DurationSeconds > 30 {
		reasoning = append(reasoning, fmt.Sprintf("Risk persistence over %ss indicates sustained threat", wholeSeconds(*rc.DurationSeconds)))
	}

	if rc.EscalationTrend != nil && *rc.EscalationTrend == models.TrendIncreasing {
		reasoning = append(reasoning, "Escalating risk trend requires immediate intervention")
		result.Urgency = models.UrgencyImmediate
	}

	if len(reasoning) < 2 {
		if level == models.RiskLevelHigh {
			reasoning = append(reasoning, fmt.Sprintf("Risk score %.4f exceeds HIGH threshold", alert.RiskScore))
		} else {
			reasoning = append(reasoning, fmt.Sprintf("Risk score %.4f indicates MEDIUM-level concern", alert.RiskScore))
		}
	}

	if len(reasoning) < 2 {
		reasoning = append(reasoning, fmt.Sprintf("Detection confidence %s supports %s-risk classification", formatPercent(alert.Confidence), level))
	}

	return models.Recommendation{
		Time:      alert.IncidentTime(),
		RiskLevel: level.String(),
		Unit:      models.StringPtr(result.Unit),
		Action:    models.StringPtr(result.Action),
		Urgency:   models.StringPtr(result.Urgency),
		Reasoning: reasoning,
		Source:    models.SourceFallback,
	}
}

// wholeSeconds truncates toward zero without an integer conversion
func wholeSeconds(seconds float64) string {
	return strconv.FormatFloat(math.Trunc(seconds), 'f', 0, 64)
}
