// Package metrics provides Prometheus metrics for the recommendation
// service.
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
	registry         prometheus.Registerer

	// Core business metrics
	recommendationsServed prometheus.Counter
	recommendationErrors  *prometheus.CounterVec
	recommendationLatency prometheus.Histogram
	recommendationRows    prometheus.Histogram

	// Build-time metrics
	catalogSize        prometheus.Gauge
	vocabularySize     prometheus.Gauge
	userCount          prometheus.Gauge
	indexBuildDuration prometheus.Histogram

	// Batch metrics
	batchUsersProcessed prometheus.Counter
	batchDuplicateUsers prometheus.Counter
	batchRunDuration    prometheus.Histogram
	batchWorkerCount    prometheus.Gauge

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "butaca",
		subsystem:        "recommender",
		histogramBuckets: prometheus.DefBuckets,
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

	m.recommendationsServed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendations_served_total",
		Help:      "Total number of recommendation requests answered successfully",
	})

	m.recommendationErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "recommendation_errors_total",
			Help:      "Total number of failed recommendation requests by surface",
		},
		[]string{"surface"},
	)

	m.recommendationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendation_latency_milliseconds",
		Help:      "Histogram of per-request recommendation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.recommendationRows = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendation_rows",
		Help:      "Histogram of rows returned per recommendation request",
		Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
	})

	m.catalogSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_size",
		Help:      "Number of movies in the active catalog",
	})

	m.vocabularySize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "vocabulary_size",
		Help:      "Width of the genre feature vectors",
	})

	m.userCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "user_count",
		Help:      "Number of loaded user profiles",
	})

	m.indexBuildDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "index_build_duration_milliseconds",
		Help:      "Histogram of similarity index build time in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.batchUsersProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_users_processed_total",
		Help:      "Total number of users evaluated by batch runs",
	})

	m.batchDuplicateUsers = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_duplicate_users_total",
		Help:      "Total number of duplicate user ids skipped by batch runs",
	})

	m.batchRunDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_run_duration_milliseconds",
		Help:      "Histogram of whole batch run duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.batchWorkerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_worker_count",
		Help:      "Number of workers used by the latest batch run",
	})

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

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Global helpers mirror the manager's metrics for use across packages.

// RecordRecommendationServed counts one successful request.
func RecordRecommendationServed() {
	globalManager.recommendationsServed.Inc()
}

// RecordRecommendationError counts one failed request for a surface
// ("http" or "batch").
func RecordRecommendationError(surface string) {
	globalManager.recommendationErrors.WithLabelValues(surface).Inc()
}

// ObserveRecommendationLatency records one request's latency.
func ObserveRecommendationLatency(ms float64) {
	globalManager.recommendationLatency.Observe(ms)
}

// ObserveRecommendationRows records how many rows a request returned.
func ObserveRecommendationRows(n int) {
	globalManager.recommendationRows.Observe(float64(n))
}

// UpdateCatalogSize sets the active catalog size.
func UpdateCatalogSize(n int) {
	globalManager.catalogSize.Set(float64(n))
}

// UpdateVocabularySize sets the feature vector width.
func UpdateVocabularySize(n int) {
	globalManager.vocabularySize.Set(float64(n))
}

// UpdateUserCount sets the number of loaded profiles.
func UpdateUserCount(n int) {
	globalManager.userCount.Set(float64(n))
}

// ObserveIndexBuildDuration records one index build.
func ObserveIndexBuildDuration(ms float64) {
	globalManager.indexBuildDuration.Observe(ms)
}

// RecordBatchUser counts one user evaluated by a batch run.
func RecordBatchUser() {
	globalManager.batchUsersProcessed.Inc()
}

// RecordBatchDuplicate counts one duplicate user id skipped.
func RecordBatchDuplicate() {
	globalManager.batchDuplicateUsers.Inc()
}

// ObserveBatchRunDuration records one whole batch run.
func ObserveBatchRunDuration(ms float64) {
	globalManager.batchRunDuration.Observe(ms)
}

// UpdateBatchWorkerCount sets the worker count of the latest run.
func UpdateBatchWorkerCount(n int) {
	globalManager.batchWorkerCount.Set(float64(n))
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records one HTTP request's duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}
