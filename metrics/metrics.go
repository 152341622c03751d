// Package metrics exposes Prometheus instrumentation for the analysis
// pipeline. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sitecompare"

// Metrics owns a private registry and the collectors registered on it.
type Metrics struct {
	registry *prometheus.Registry

	pagesAnalyzed   *prometheus.CounterVec
	analyzeDuration prometheus.Histogram
	probeFailures   *prometheus.CounterVec
	robotsDenials   prometheus.Counter
	comparisons     *prometheus.CounterVec
}

// New creates the collectors along with the Go runtime and process
// collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		pagesAnalyzed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_analyzed_total",
			Help:      "Pages analyzed, by outcome.",
		}, []string{"outcome"}),
		analyzeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analyze_duration_seconds",
			Help:      "Wall time of a single page analysis.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		}),
		probeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probe_failures_total",
			Help:      "Network probe failures, by probe.",
		}, []string{"probe"}),
		robotsDenials: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "robots_denials_total",
			Help:      "URLs refused by robots.txt policy.",
		}),
		comparisons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comparisons_total",
			Help:      "Comparison batches, by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.pagesAnalyzed,
		m.analyzeDuration,
		m.probeFailures,
		m.robotsDenials,
		m.comparisons,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// PageAnalyzed records one page analysis and how long it took.
func (m *Metrics) PageAnalyzed(ok bool, d time.Duration) {
	if m == nil {
		return
	}
	m.pagesAnalyzed.WithLabelValues(outcome(ok)).Inc()
	m.analyzeDuration.Observe(d.Seconds())
}

// ProbeFailed records a failed network probe, e.g. "http_info".
func (m *Metrics) ProbeFailed(probe string) {
	if m == nil {
		return
	}
	m.probeFailures.WithLabelValues(probe).Inc()
}

// RobotsDenied records n URLs refused by robots policy.
func (m *Metrics) RobotsDenied(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.robotsDenials.Add(float64(n))
}

// ComparisonDone records one finished comparison batch.
func (m *Metrics) ComparisonDone(ok bool) {
	if m == nil {
		return
	}
	m.comparisons.WithLabelValues(outcome(ok)).Inc()
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
