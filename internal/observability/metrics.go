// Package observability wires Prometheus metrics and OpenTelemetry
// tracing around the optimization pipeline.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records request counts, stage latency, and pipeline
// outcome sizes for both endpoints.
type PipelineMetrics struct {
	requests       *prometheus.CounterVec
	stageDuration  *prometheus.HistogramVec
	poisIn         *prometheus.HistogramVec
	poisScheduled  *prometheus.HistogramVec
	distanceErrors prometheus.Counter
}

// NewPipelineMetricsWithRegisterer registers pipeline metrics against
// reg, so tests can use a private prometheus.NewRegistry().
func NewPipelineMetricsWithRegisterer(reg prometheus.Registerer) *PipelineMetrics {
	m := &PipelineMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tourflow_requests_total",
			Help: "Total optimize requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tourflow_stage_duration_seconds",
			Help:    "Duration of each pipeline stage.",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
		poisIn: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tourflow_pois_submitted",
			Help:    "Number of POIs submitted per request.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}, []string{"endpoint"}),
		poisScheduled: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tourflow_pois_scheduled",
			Help:    "Number of POIs scheduled per response.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}, []string{"endpoint"}),
		distanceErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tourflow_distance_matrix_errors_total",
			Help: "External distance-matrix call failures, always falling back to haversine.",
		}),
	}
	reg.MustRegister(m.requests, m.stageDuration, m.poisIn, m.poisScheduled, m.distanceErrors)
	return m
}

func (m *PipelineMetrics) RecordRequest(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, outcome).Inc()
}

func (m *PipelineMetrics) ObserveStage(stage string, seconds float64) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(seconds)
}

func (m *PipelineMetrics) ObservePoisIn(endpoint string, n int) {
	if m == nil {
		return
	}
	m.poisIn.WithLabelValues(endpoint).Observe(float64(n))
}

func (m *PipelineMetrics) ObservePoisScheduled(endpoint string, n int) {
	if m == nil {
		return
	}
	m.poisScheduled.WithLabelValues(endpoint).Observe(float64(n))
}

func (m *PipelineMetrics) RecordDistanceMatrixError() {
	if m == nil {
		return
	}
	m.distanceErrors.Inc()
}
