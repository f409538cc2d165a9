// Package prometheus defines and registers the application's Prometheus
// metrics.  All metric names share the "molforge" namespace so dashboards can
// scope queries to this service.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "molforge"

// Metrics bundles every collector the application emits.  A single instance
// is created at startup and shared via dependency injection.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP surface.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Pipeline.
	PipelineRunsTotal      *prometheus.CounterVec
	PipelineDuration       *prometheus.HistogramVec
	TokensExtractedTotal   prometheus.Counter
	StructuresValidated    *prometheus.CounterVec
	EnrichmentResultsTotal *prometheus.CounterVec
	BatchRecordCount       prometheus.Histogram

	// External engines.
	ChemEngineRequestDuration *prometheus.HistogramVec
	CompletionRequestDuration prometheus.Histogram
	CacheOperationsTotal      *prometheus.CounterVec
}

// NewMetrics constructs a Metrics instance backed by a fresh registry.  The
// registry also carries the standard Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed, labelled by method, route and status code.",
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),

		PipelineRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Pipeline executions, labelled by kind (generate/optimize) and outcome.",
		}, []string{"kind", "outcome"}),

		PipelineDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "End-to-end pipeline latency, labelled by kind.",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"kind"}),

		TokensExtractedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_extracted_total",
			Help:      "Candidate structure tokens produced by the extractor.",
		}),

		StructuresValidated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "structures_validated_total",
			Help:      "Structure validation attempts, labelled by result (valid/invalid/error).",
		}, []string{"result"}),

		EnrichmentResultsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrichment_results_total",
			Help:      "Property enrichment outcomes per category, labelled by category and result.",
		}, []string{"category", "result"}),

		BatchRecordCount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_record_count",
			Help:      "Number of molecule records per completed batch.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),

		ChemEngineRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chem_engine_request_duration_seconds",
			Help:      "Latency of chemistry engine calls, labelled by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),

		CompletionRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_request_duration_seconds",
			Help:      "Latency of language-model completion calls.",
			Buckets:   []float64{.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),

		CacheOperationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Cache operations, labelled by operation (get/set) and result (hit/miss/error/ok).",
		}, []string{"operation", "result"}),
	}

	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.PipelineRunsTotal,
		m.PipelineDuration,
		m.TokensExtractedTotal,
		m.StructuresValidated,
		m.EnrichmentResultsTotal,
		m.BatchRecordCount,
		m.ChemEngineRequestDuration,
		m.CompletionRequestDuration,
		m.CacheOperationsTotal,
	)

	return m
}

// Handler returns the HTTP handler that serves the /metrics endpoint from
// this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for components that register
// their own collectors (e.g., database pool stats).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObservePipeline records the outcome and duration of one pipeline run.
func (m *Metrics) ObservePipeline(kind, outcome string, elapsed time.Duration) {
	m.PipelineRunsTotal.WithLabelValues(kind, outcome).Inc()
	m.PipelineDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}
