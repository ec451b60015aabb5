package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func newTestMetrics() *PipelineMetrics {
	return NewPipelineMetricsWithRegisterer(prometheus.NewRegistry())
}

func TestPipelineMetrics_RecordRequestIncrementsByEndpointAndOutcome(t *testing.T) {
	m := newTestMetrics()

	m.RecordRequest("A", "ok")
	m.RecordRequest("A", "ok")
	m.RecordRequest("B", "error")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("A", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("B", "error")))
}

func TestPipelineMetrics_ObserveStageRecordsDuration(t *testing.T) {
	m := newTestMetrics()

	m.ObserveStage("allocate", 0.25)

	assert.Equal(t, uint64(1), testutil.CollectAndCount(m.stageDuration))
}

func TestPipelineMetrics_ObservePoisInAndScheduled(t *testing.T) {
	m := newTestMetrics()

	m.ObservePoisIn("A", 42)
	m.ObservePoisScheduled("A", 10)

	assert.Equal(t, uint64(1), testutil.CollectAndCount(m.poisIn))
	assert.Equal(t, uint64(1), testutil.CollectAndCount(m.poisScheduled))
}

func TestPipelineMetrics_RecordDistanceMatrixErrorIncrementsCounter(t *testing.T) {
	m := newTestMetrics()

	m.RecordDistanceMatrixError()
	m.RecordDistanceMatrixError()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.distanceErrors))
}

func TestPipelineMetrics_NilReceiverMethodsAreNoOps(t *testing.T) {
	var m *PipelineMetrics

	assert.NotPanics(t, func() {
		m.RecordRequest("A", "ok")
		m.ObserveStage("allocate", 1)
		m.ObservePoisIn("A", 1)
		m.ObservePoisScheduled("A", 1)
		m.RecordDistanceMatrixError()
	})
}
