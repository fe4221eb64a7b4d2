// Package metrics provides Prometheus metrics for the podium data service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Load metrics
	usersLoaded  prometheus.Counter
	scoresLoaded prometheus.Counter
	linesSkipped *prometheus.CounterVec
	loadDuration prometheus.Histogram

	// Store metrics
	storeErrors  *prometheus.CounterVec
	queryLatency *prometheus.HistogramVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "podium",
		subsystem:        "store",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.usersLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "users_loaded_total",
		Help:      "Total number of user records written during loads",
	})

	m.scoresLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scores_loaded_total",
		Help:      "Total number of score entries written during loads",
	})

	m.linesSkipped = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "lines_skipped_total",
			Help:      "Total number of input lines skipped during loads, by reason",
		},
		[]string{"reason"},
	)

	m.loadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "load_duration_milliseconds",
		Help:      "Duration of whole-file load operations in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_errors_total",
			Help:      "Total number of store operation failures, by operation",
		},
		[]string{"op"},
	)

	m.queryLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "query_latency_milliseconds",
			Help:      "Query latency in milliseconds, by query",
			Buckets:   m.histogramBuckets,
		},
		[]string{"query"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// Package-level helpers recording against the global manager.

// RecordUserLoaded increments the loaded-user counter.
func RecordUserLoaded() {
	globalManager.usersLoaded.Inc()
}

// RecordScoreLoaded increments the loaded-score counter.
func RecordScoreLoaded() {
	globalManager.scoresLoaded.Inc()
}

// RecordLineSkipped increments the skipped-line counter for a skip reason.
func RecordLineSkipped(reason string) {
	globalManager.linesSkipped.WithLabelValues(reason).Inc()
}

// RecordLoadDuration records a whole-file load duration.
func RecordLoadDuration(durationMs float64) {
	globalManager.loadDuration.Observe(durationMs)
}

// RecordStoreError increments the store error counter for an operation.
func RecordStoreError(op string) {
	globalManager.storeErrors.WithLabelValues(op).Inc()
}

// RecordQueryLatency records how long a named query took.
func RecordQueryLatency(query string, latencyMs float64) {
	globalManager.queryLatency.WithLabelValues(query).Observe(latencyMs)
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records an HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
