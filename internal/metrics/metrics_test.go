package metrics

import (
	"testing"

	"github.com/alexanderramin/hedgehog/internal/llm"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_OnCallComplete(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.OnCallComplete(llm.CallEvent{Model: "codegemma", LatencyMs: 1200, Success: true})
	m.OnCallComplete(llm.CallEvent{Model: "codegemma", ErrorCode: "TIMEOUT"})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CallOutcome.WithLabelValues("codegemma", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CallOutcome.WithLabelValues("codegemma", "TIMEOUT")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.CallLatency))
}

func TestMetrics_DecisionsAndOutcomes(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementDecision("accepted")
	m.IncrementDecision("accepted")
	m.IncrementDecision("rejected")
	m.IncrementOutcome("applied")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Decisions.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Decisions.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunOutcome.WithLabelValues("applied")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.OnCallComplete(llm.CallEvent{Model: "x"})
		m.IncrementDecision("accepted")
		m.IncrementOutcome("applied")
	})
}

func TestMetrics_SatisfiesObserver(t *testing.T) {
	var _ llm.Observer = New(prometheus.NewRegistry())
}
