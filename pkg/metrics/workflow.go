package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WorkflowMetrics records the moderation workload: how many requests are
// waiting per kind and how operators are deciding them.
type WorkflowMetrics struct {
	pending   *prometheus.GaugeVec
	decisions *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewWorkflowMetrics registers the workflow metrics on the provided registerer.
func NewWorkflowMetrics(reg prometheus.Registerer) *WorkflowMetrics {
	if reg == nil {
		return &WorkflowMetrics{}
	}
	pending := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wallet_requests_pending",
		Help: "Requests currently awaiting an operator decision.",
	}, []string{"kind"})
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_request_decisions_total",
		Help: "Operator decisions on wallet requests.",
	}, []string{"kind", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wallet_request_decision_seconds",
		Help:    "Time from submission to decision in seconds.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	}, []string{"kind"})
	reg.MustRegister(pending, decisions, duration)
	return &WorkflowMetrics{
		pending:   pending,
		decisions: decisions,
		duration:  duration,
	}
}

// SetPending records the current pending backlog for the given kind.
func (w *WorkflowMetrics) SetPending(kind string, count int64) {
	if w == nil || w.pending == nil {
		return
	}
	w.pending.WithLabelValues(normalizeLabel(kind)).Set(float64(count))
}

// IncDecision counts one operator decision.
func (w *WorkflowMetrics) IncDecision(kind, outcome string) {
	if w == nil || w.decisions == nil {
		return
	}
	w.decisions.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Inc()
}

// ObserveDecisionLatency records submission-to-decision latency.
func (w *WorkflowMetrics) ObserveDecisionLatency(kind string, d time.Duration) {
	if w == nil || w.duration == nil {
		return
	}
	w.duration.WithLabelValues(normalizeLabel(kind)).Observe(d.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
