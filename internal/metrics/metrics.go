// Package metrics exposes Prometheus instruments for snapshot loads,
// evaluation passes, the report cache, and the HTTP API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the workflow projection and its API.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	// Snapshot read latency by source description
	SnapshotLoadLatency *prometheus.HistogramVec

	// Snapshot reads that failed outright
	SnapshotLoadFailures prometheus.Counter

	// Evaluation latency over a loaded snapshot
	EvaluateLatency prometheus.Histogram

	// Records produced by the latest pass, by stage
	WorkflowRecords *prometheus.GaugeVec

	// Report cache lookups by report and result (hit, miss, error)
	CacheLookups *prometheus.CounterVec

	// HTTP requests by route pattern and status code
	HTTPRequests *prometheus.CounterVec

	// HTTP latency by route pattern
	HTTPLatency *prometheus.HistogramVec
}

// New creates a Metrics instance registered on a fresh registry that also
// carries the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		SnapshotLoadLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gisflow_snapshot_load_duration_seconds",
			Help:    "Duration of full snapshot reads by source",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),

		SnapshotLoadFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "gisflow_snapshot_load_failures_total",
			Help: "Total snapshot reads that failed",
		}),

		EvaluateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gisflow_evaluate_duration_seconds",
			Help:    "Duration of one evaluation pass over a loaded snapshot",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),

		WorkflowRecords: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gisflow_workflow_records",
			Help: "Documents in each workflow stage as of the latest evaluation",
		}, []string{"stage"}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gisflow_report_cache_lookups_total",
			Help: "Report cache lookups by report and result",
		}, []string{"report", "result"}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gisflow_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"route", "code"}),

		HTTPLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gisflow_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// ObserveSnapshotLoad records one successful snapshot read.
func (m *Metrics) ObserveSnapshotLoad(source string, d time.Duration) {
	if m != nil {
		m.SnapshotLoadLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}

// IncrementSnapshotFailure records a failed snapshot read.
func (m *Metrics) IncrementSnapshotFailure() {
	if m != nil {
		m.SnapshotLoadFailures.Inc()
	}
}

// ObserveEvaluation records one evaluation pass and the per-stage totals it
// produced. Stages absent from counts are reset to zero.
func (m *Metrics) ObserveEvaluation(d time.Duration, counts map[string]int, stages []string) {
	if m == nil {
		return
	}
	m.EvaluateLatency.Observe(d.Seconds())
	for _, stage := range stages {
		m.WorkflowRecords.WithLabelValues(stage).Set(float64(counts[stage]))
	}
}

// IncrementCacheLookup records a report cache lookup result.
func (m *Metrics) IncrementCacheLookup(report, result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(report, result).Inc()
	}
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, statusText(code)).Inc()
	m.HTTPLatency.WithLabelValues(route).Observe(d.Seconds())
}

func statusText(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
