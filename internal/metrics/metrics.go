package metrics

import (
	"time"

	"github.com/alexanderramin/hedgehog/internal/llm"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for completion calls and suggestion runs.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Completion call latency by model
	CallLatency *prometheus.HistogramVec

	// Completion call results by model and error code ("ok" on success)
	CallOutcome *prometheus.CounterVec

	// Confirmation decisions: accepted, rejected
	Decisions *prometheus.CounterVec

	// Terminal outcome of each suggestion run
	RunOutcome *prometheus.CounterVec
}

// New creates a Metrics instance registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CallLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hedgehog_llm_call_duration_seconds",
			Help:    "Duration of completion requests to the inference server",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"model"}),

		CallOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hedgehog_llm_calls_total",
			Help: "Total completion requests by model and result",
		}, []string{"model", "result"}),

		Decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hedgehog_decisions_total",
			Help: "Total confirmation decisions",
		}, []string{"decision"}),

		RunOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hedgehog_runs_total",
			Help: "Total suggestion runs by terminal outcome",
		}, []string{"outcome"}),
	}
}

// OnCallComplete makes Metrics an llm.Observer.
func (m *Metrics) OnCallComplete(e llm.CallEvent) {
	if m == nil {
		return
	}
	result := "ok"
	if !e.Success {
		result = e.ErrorCode
	}
	m.CallLatency.WithLabelValues(e.Model).Observe((time.Duration(e.LatencyMs) * time.Millisecond).Seconds())
	m.CallOutcome.WithLabelValues(e.Model, result).Inc()
}

// IncrementDecision records one confirmation decision.
func (m *Metrics) IncrementDecision(decision string) {
	if m != nil {
		m.Decisions.WithLabelValues(decision).Inc()
	}
}

// IncrementOutcome records the terminal outcome of a run.
func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.RunOutcome.WithLabelValues(outcome).Inc()
	}
}
