// Package metrics provides Prometheus metrics export for the research
// pipeline and intent routing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter collects research pipeline metrics in Prometheus format.
type Exporter struct {
	registry *prometheus.Registry

	// Intent routing metrics
	intentDetected  *prometheus.CounterVec
	contextualHits  prometheus.Counter
	researchRuns    *prometheus.CounterVec
	researchLatency prometheus.Histogram

	// Source metrics
	sourceResults *prometheus.CounterVec
	sourceErrors  *prometheus.CounterVec

	// LLM token metrics
	llmTokens  *prometheus.CounterVec
	llmLatency prometheus.Histogram
}

// Config configures the exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64
}

// DefaultConfig returns default exporter configuration. Research runs
// chain several LLM and API calls, so buckets run well past a minute.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
	}
}

// NewExporter creates a metrics exporter with its own registry unless
// one is supplied.
func NewExporter(cfg Config) *Exporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &Exporter{registry: registry}

	e.intentDetected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scholard",
			Subsystem: "routing",
			Name:      "intent_total",
			Help:      "Detected query intents",
		},
		[]string{"intent"},
	)

	e.contextualHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "scholard",
			Subsystem: "routing",
			Name:      "contextual_responses_total",
			Help:      "Queries answered from session context without new research",
		},
	)

	e.researchRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scholard",
			Subsystem: "research",
			Name:      "runs_total",
			Help:      "Full research pipeline runs",
		},
		[]string{"status"},
	)

	e.researchLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "scholard",
			Subsystem: "research",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of research pipeline runs",
			Buckets:   cfg.LatencyBuckets,
		},
	)

	e.sourceResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scholard",
			Subsystem: "search",
			Name:      "source_results_total",
			Help:      "Papers returned per search source",
		},
		[]string{"source"},
	)

	e.sourceErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scholard",
			Subsystem: "search",
			Name:      "source_errors_total",
			Help:      "Failed source queries per search source",
		},
		[]string{"source"},
	)

	e.llmTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scholard",
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Total LLM tokens consumed",
		},
		[]string{"token_type"},
	)

	e.llmLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "scholard",
			Subsystem: "llm",
			Name:      "latency_seconds",
			Help:      "LLM request latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
	)

	registry.MustRegister(
		e.intentDetected,
		e.contextualHits,
		e.researchRuns,
		e.researchLatency,
		e.sourceResults,
		e.sourceErrors,
		e.llmTokens,
		e.llmLatency,
	)

	return e
}

func (e *Exporter) RecordIntent(intent string) {
	e.intentDetected.WithLabelValues(intent).Inc()
}

func (e *Exporter) RecordContextualResponse() {
	e.contextualHits.Inc()
}

func (e *Exporter) RecordResearchRun(d time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	e.researchRuns.WithLabelValues(status).Inc()
	if success {
		e.researchLatency.Observe(d.Seconds())
	}
}

func (e *Exporter) RecordSourceResults(source string, count int) {
	e.sourceResults.WithLabelValues(source).Add(float64(count))
}

func (e *Exporter) RecordSourceError(source string) {
	e.sourceErrors.WithLabelValues(source).Inc()
}

func (e *Exporter) RecordLLMUsage(promptTokens, completionTokens int, latency time.Duration) {
	e.llmTokens.WithLabelValues("prompt").Add(float64(promptTokens))
	e.llmTokens.WithLabelValues("completion").Add(float64(completionTokens))
	e.llmLatency.Observe(latency.Seconds())
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}
