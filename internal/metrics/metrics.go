package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"kepler-responder-go/internal/models"
	"kepler-responder-go/internal/services/emergency"
)

// Recorder exposes recommendation counters and implements emergency.Observer
type Recorder struct {
	registry *prometheus.Registry

	recommendations    *prometheus.CounterVec
	generationFailures *prometheus.CounterVec
	alertsReceived     *prometheus.CounterVec
}

// NewRecorder registers the counters on a fresh registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "responder",
			Name:      "recommendations_total",
			Help:      "Recommendations produced, by source and urgency.",
		}, []string{"source", "urgency"}),
		generationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "responder",
			Name:      "generation_failures_total",
			Help:      "External generation attempts replaced by the fallback classifier, by kind.",
		}, []string{"kind"}),
		alertsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "responder",
			Name:      "alerts_received_total",
			Help:      "Alerts received by transport and outcome.",
		}, []string{"transport", "outcome"}),
	}

	r.registry.MustRegister(
		r.recommendations,
		r.generationFailures,
		r.alertsReceived,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry returns the registry backing /metrics
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) OnRecommendation(rec models.Recommendation) {
	urgency := rec.UrgencyOrEmpty()
	if urgency == "" {
		urgency = "none"
	}
	r.recommendations.WithLabelValues(string(rec.Source), urgency).Inc()
}

func (r *Recorder) OnGenerationFailure(kind emergency.ErrorKind) {
	r.generationFailures.WithLabelValues(string(kind)).Inc()
}

// AlertReceived counts an inbound alert. Outcome is e.g. "processed", "invalid", "cooldown".
func (r *Recorder) AlertReceived(transport, outcome string) {
	r.alertsReceived.WithLabelValues(transport, outcome).Inc()
}

var _ emergency.Observer = (*Recorder)(nil)
