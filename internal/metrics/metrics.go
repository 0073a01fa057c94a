// Package metrics exposes Prometheus instrumentation for the checking
// pipeline. All collectors live on a private registry so tests and embedded
// servers never collide with the global default.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "prosecheck"

// checkBuckets cover a check round trip, dominated by LLM latency.
var checkBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// requestBuckets cover a single annotator API call.
var requestBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15, 30}

// Metrics holds every collector the pipeline records into. A nil *Metrics is
// safe to use; all record methods become no-ops.
type Metrics struct {
	registry *prometheus.Registry

	checksTotal          *prometheus.CounterVec
	chunksTotal          prometheus.Counter
	annotatorRequests    *prometheus.CounterVec
	annotatorSeconds     *prometheus.HistogramVec
	resolveOutcomesTotal *prometheus.CounterVec
	errorsReportedTotal  *prometheus.CounterVec
	checkSeconds         prometheus.Histogram
}

// New creates the metric set on a fresh private registry.
func New() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.checksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checks_total",
		Help:      "Total number of check operations by surface and status.",
	}, []string{"surface", "status"})

	m.chunksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chunks_total",
		Help:      "Total number of chunks processed.",
	})

	m.annotatorRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "annotator_requests_total",
		Help:      "Total number of annotator invocations by provider and status.",
	}, []string{"provider", "status"})

	m.annotatorSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "annotator_request_seconds",
		Help:      "Histogram of annotator invocation latency in seconds.",
		Buckets:   requestBuckets,
	}, []string{"provider"})

	m.resolveOutcomesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resolve_outcomes_total",
		Help:      "Total number of offset resolutions by outcome.",
	}, []string{"outcome"})

	m.errorsReportedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "errors_reported_total",
		Help:      "Total number of text errors reported by type.",
	}, []string{"type"})

	m.checkSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "check_seconds",
		Help:      "Histogram of whole-document check duration in seconds.",
		Buckets:   checkBuckets,
	})

	collectors := []prometheus.Collector{
		m.checksTotal,
		m.chunksTotal,
		m.annotatorRequests,
		m.annotatorSeconds,
		m.resolveOutcomesTotal,
		m.errorsReportedTotal,
		m.checkSeconds,
	}
	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Handler returns the scrape endpoint for the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for additional collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordCheck counts one completed check operation.
func (m *Metrics) RecordCheck(surface, status string, seconds float64) {
	if m == nil {
		return
	}
	m.checksTotal.WithLabelValues(surface, status).Inc()
	m.checkSeconds.Observe(seconds)
}

// RecordChunks counts chunks entering the pipeline.
func (m *Metrics) RecordChunks(n int) {
	if m == nil {
		return
	}
	m.chunksTotal.Add(float64(n))
}

// RecordAnnotatorRequest counts one annotator invocation.
func (m *Metrics) RecordAnnotatorRequest(provider, status string, seconds float64) {
	if m == nil {
		return
	}
	m.annotatorRequests.WithLabelValues(provider, status).Inc()
	m.annotatorSeconds.WithLabelValues(provider).Observe(seconds)
}

// RecordResolveOutcome counts one offset resolution by outcome.
func (m *Metrics) RecordResolveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.resolveOutcomesTotal.WithLabelValues(outcome).Inc()
}

// RecordErrorsReported counts final text errors by type.
func (m *Metrics) RecordErrorsReported(types map[string]int) {
	if m == nil {
		return
	}
	for t, n := range types {
		m.errorsReportedTotal.WithLabelValues(t).Add(float64(n))
	}
}
