// Package metrics exposes Prometheus collectors for the classification pipeline.
// Collectors live on a private registry so tests can build as many as they like.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "labellens"

// Metrics holds all service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Classifications *prometheus.CounterVec
	Tokens          prometheus.Counter
	Matches         *prometheus.CounterVec
	OCRDuration     prometheus.Histogram
	LookupDuration  prometheus.Histogram
	DatasetSize     prometheus.Gauge
	DatasetReloads  *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Classifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Classification runs by input kind and outcome",
		}, []string{"input", "outcome"}),
		Tokens: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_total",
			Help:      "Candidate tokens extracted from label text",
		}),
		Matches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_total",
			Help:      "Recognized ingredients by match source",
		}, []string{"source"}),
		OCRDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ocr_duration_seconds",
			Help:      "Time spent in the OCR engine",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		LookupDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reference_lookup_duration_seconds",
			Help:      "Time spent in reference-table lookups",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		DatasetSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_ingredients",
			Help:      "Ingredients in the currently loaded dataset",
		}),
		DatasetReloads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_reloads_total",
			Help:      "Dataset reload attempts by result",
		}, []string{"result"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry exposes the underlying registry (used by tests)
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveClassification(input, outcome string) {
	if m == nil {
		return
	}
	m.Classifications.WithLabelValues(input, outcome).Inc()
}

func (m *Metrics) AddTokens(n int) {
	if m == nil {
		return
	}
	m.Tokens.Add(float64(n))
}

func (m *Metrics) ObserveMatch(source string) {
	if m == nil {
		return
	}
	m.Matches.WithLabelValues(source).Inc()
}

func (m *Metrics) ObserveOCR(d time.Duration) {
	if m == nil {
		return
	}
	m.OCRDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveLookup(d time.Duration) {
	if m == nil {
		return
	}
	m.LookupDuration.Observe(d.Seconds())
}

// ObserveReload records a reload attempt and, on success, the new dataset size
func (m *Metrics) ObserveReload(size int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.DatasetReloads.WithLabelValues("error").Inc()
		return
	}
	m.DatasetReloads.WithLabelValues("ok").Inc()
	m.DatasetSize.Set(float64(size))
}

func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
