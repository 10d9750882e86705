// Package metrics holds the Prometheus collectors for the ingestion pipeline.
// All Record methods are safe on a nil *Metrics so callers never need a guard.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	oracleRequestsTotal  *prometheus.CounterVec
	oracleDuration       *prometheus.HistogramVec
	normalizerOutcomes   *prometheus.CounterVec
	postsIngestedTotal   *prometheus.CounterVec
	productsCreatedTotal prometheus.Counter
	jobRunsTotal         *prometheus.CounterVec
}

// New registers the pipeline collectors on registry. A nil registry gets a
// fresh one with the Go runtime collectors attached.
func New(registry *prometheus.Registry) (*Metrics, error) {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m := &Metrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.oracleRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_requests_total",
			Help: "Total number of oracle calls",
		},
		[]string{"oracle", "status"},
	)

	m.oracleDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oracle_request_duration_seconds",
			Help:    "Time taken by oracle calls",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"oracle"},
	)

	m.normalizerOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "normalizer_outcomes_total",
			Help: "Classification responses by decode outcome",
		},
		[]string{"outcome"},
	)

	m.postsIngestedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_posts_ingested_total",
			Help: "Total number of stored social posts",
		},
		[]string{"source"},
	)

	m.productsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "products_created_total",
			Help: "Total number of products created by the resolver",
		},
	)

	m.jobRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_runs_total",
			Help: "Total number of scheduled job runs",
		},
		[]string{"job", "status"},
	)
}

// Describe implements the Collector interface
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.oracleRequestsTotal.Describe(ch)
	m.oracleDuration.Describe(ch)
	m.normalizerOutcomes.Describe(ch)
	m.postsIngestedTotal.Describe(ch)
	m.productsCreatedTotal.Describe(ch)
	m.jobRunsTotal.Describe(ch)
}

// Collect implements the Collector interface
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.oracleRequestsTotal.Collect(ch)
	m.oracleDuration.Collect(ch)
	m.normalizerOutcomes.Collect(ch)
	m.postsIngestedTotal.Collect(ch)
	m.productsCreatedTotal.Collect(ch)
	m.jobRunsTotal.Collect(ch)
}

func (m *Metrics) RecordOracleRequest(oracle, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.oracleRequestsTotal.WithLabelValues(oracle, status).Inc()
	m.oracleDuration.WithLabelValues(oracle).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordNormalizerOutcome(outcome string) {
	if m == nil {
		return
	}
	m.normalizerOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordPostIngested(source string) {
	if m == nil {
		return
	}
	m.postsIngestedTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) RecordProductCreated() {
	if m == nil {
		return
	}
	m.productsCreatedTotal.Inc()
}

func (m *Metrics) RecordJobRun(job, status string) {
	if m == nil {
		return
	}
	m.jobRunsTotal.WithLabelValues(job, status).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
