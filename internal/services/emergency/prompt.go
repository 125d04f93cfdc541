package emergency

import (
	"fmt"
	"strings"

	"kepler-responder-go/internal/models"
)

// responseInstructions fixes the output grammar the parser understands and the
// vocabulary the generator must choose from
var responseInstructions = `
Provide your recommendation in EXACTLY this format (no additional text):

Unit: [Type of response unit needed]
Action: [Primary action to take]
Urgency: [Immediate/High/Medium]
Reasoning:
- [First reasoning point]
- [Second reasoning point]

GUIDELINES:
- Unit types: ` + strings.Join(models.ResponseUnits, ", ") + `
- Action must be specific and actionable
- Urgency levels:
  * "Immediate" for HIGH-risk life-threatening situations requiring instant response
  * "High" for HIGH-risk events with potential for rapid escalation
  * "Medium" for MEDIUM-risk events requiring prompt but measured response
- Reasoning must reference specific data points from the incident
- Keep responses concise and professional
- For MEDIUM risk events, focus on monitoring and preventive measures
- For HIGH risk events, focus on immediate intervention and crowd control
`

// BuildPrompt renders the incident and its context into the generator prompt
func BuildPrompt(alert models.Alert, rc models.ResponseContext) string {
	rc = rc.Normalized()

	var sb strings.Builder
	sb.WriteString("You are an emergency response advisor for crowd safety incidents.\n\n")
	fmt.Fprintf(&sb, "Analyze this %s-risk crowd safety incident and provide a specific, actionable response recommendation.\n\n", alert.RiskLevel)

	sb.WriteString("INCIDENT DATA:\n")
	fmt.Fprintf(&sb, "- Time: %s\n", alert.IncidentTime())
	fmt.Fprintf(&sb, "- Location: %s\n", alert.Location)
	fmt.Fprintf(&sb, "- Risk Level: %s\n", alert.RiskLevel)
	fmt.Fprintf(&sb, "- Risk Score: %.4f\n", alert.RiskScore)
	fmt.Fprintf(&sb, "- Confidence: %s\n", formatPercent(alert.Confidence))
	fmt.Fprintf(&sb, "- Primary Cause: %s\n", alert.PrimaryCause)
	fmt.Fprintf(&sb, "- Supporting Factors: %s\n", strings.Join(alert.SupportingFactors, ", "))
	fmt.Fprintf(&sb, "- Explanation: %s\n", alert.Explanation)

	if rc.AreaAffected != nil && *rc.AreaAffected != "" {
		fmt.Fprintf(&sb, "- Area Affected: %s\n", *rc.AreaAffected)
	}
	if rc.DurationSeconds != nil && *rc.DurationSeconds > 0 {
		fmt.Fprintf(&sb, "- Duration: %s\n", formatDuration(*rc.DurationSeconds))
	}
	if rc.EscalationTrend != nil && *rc.EscalationTrend != "" {
		fmt.Fprintf(&sb, "- Escalation Trend: %s\n", *rc.EscalationTrend)
	}

	sb.WriteString(responseInstructions)
	return sb.String()
}

// formatDuration renders seconds as "<m>m <s>s", or "<s>s" under one minute.
// Input is clamped into [0, MaxDurationSeconds] first.
func formatDuration(seconds float64) string {
	total := int64(models.ClampDuration(seconds))
	minutes := total / 60
	secs := total % 60
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, secs)
	}
	return fmt.Sprintf("%ds", secs)
}

// formatPercent renders a 0..1 ratio as a percentage with two decimals
func formatPercent(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*100)
}
