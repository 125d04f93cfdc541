package emergency

import (
	"fmt"
	"strings"

	"kepler-responder-go/internal/models"
)

const (
	unitMarker      = "Unit:"
	actionMarker    = "Action:"
	urgencyMarker   = "Urgency:"
	reasoningMarker = "Reasoning:"
	bulletMarker    = "-"
)

// ParseResponse extracts a recommendation from the generator's line grammar.
// Unrecognized lines are ignored; a missing unit, action or urgency is an
// ErrMalformedResponse. Reasoning may be empty.
func ParseResponse(text string, alert models.Alert) (models.Recommendation, error) {
	var (
		unit, action, urgency string
		reasoning             = []string{}
		inReasoning           bool
	)

	for _, raw := range strings.Split(strings.TrimSpace(text), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, unitMarker):
			unit = strings.TrimSpace(strings.TrimPrefix(line, unitMarker))
		case strings.HasPrefix(line, actionMarker):
			action = strings.TrimSpace(strings.TrimPrefix(line, actionMarker))
		case strings.HasPrefix(line, urgencyMarker):
			urgency = strings.TrimSpace(strings.TrimPrefix(line, urgencyMarker))
		case strings.HasPrefix(line, reasoningMarker):
			inReasoning = true
		case inReasoning && strings.HasPrefix(line, bulletMarker):
			reasoning = append(reasoning, strings.TrimSpace(strings.TrimPrefix(line, bulletMarker)))
		}
	}

	var missing []string
	if unit == "" {
		missing = append(missing, "unit")
	}
	if action == "" {
		missing = append(missing, "action")
	}
	if urgency == "" {
		missing = append(missing, "urgency")
	}
	if len(missing) > 0 {
		return models.Recommendation{}, fmt.Errorf("%w: missing %s", ErrMalformedResponse, strings.Join(missing, ", "))
	}

	return models.Recommendation{
		Time:      alert.IncidentTime(),
		RiskLevel: alert.RiskLevel.String(),
		Unit:      models.StringPtr(unit),
		Action:    models.StringPtr(action),
		Urgency:   models.StringPtr(urgency),
		Reasoning: reasoning,
		Source:    models.SourceGenerator,
	}, nil
}
