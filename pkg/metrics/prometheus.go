// Package metrics provides Prometheus metrics for the tribunal rating service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the tribunal service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ingestion metrics
	votesAccepted   prometheus.Counter
	votesDuplicate  prometheus.Counter
	votesInvalid    prometheus.Counter
	submissions     prometheus.Counter
	ingestLatency   prometheus.Histogram
	ingestRollbacks prometheus.Counter

	// Aggregation metrics
	aggregations       prometheus.Counter
	aggregationLatency prometheus.Histogram
	unscoredReads      prometheus.Counter

	// Derived-view cache metrics
	cacheFresh         *prometheus.CounterVec
	cacheStaleFallback *prometheus.CounterVec
	cacheRefreshErrors *prometheus.CounterVec
	cacheInvalidations prometheus.Counter
	cacheSnapshots     prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Operational gauges
	ledgerRows           prometheus.Gauge
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:        "tribunal",
		subsystem:        "ratings",
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

	m.votesAccepted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "votes_accepted_total",
		Help:      "Total number of vote rows appended to the ledger",
	})

	m.votesDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "votes_duplicate_total",
		Help:      "Total number of submitted votes skipped as idempotent duplicates",
	})

	m.votesInvalid = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "votes_invalid_total",
		Help:      "Total number of submitted votes rejected for an out-of-domain value",
	})

	m.submissions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_total",
		Help:      "Total number of vote submission batches received",
	})

	m.ingestLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_latency_milliseconds",
		Help:      "Histogram of vote batch ingestion latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.ingestRollbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_rollbacks_total",
		Help:      "Total number of vote batches rolled back on storage fault",
	})

	m.aggregations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregations_total",
		Help:      "Total number of attribute score computations",
	})

	m.aggregationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregation_latency_milliseconds",
		Help:      "Histogram of score aggregation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.unscoredReads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unscored_reads_total",
		Help:      "Total number of score reads answered with the unscored state",
	})

	m.cacheFresh = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "cache_fresh_total",
			Help:      "Total number of cached view reads served fresh",
		},
		[]string{"key"},
	)

	m.cacheStaleFallback = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "cache_stale_fallback_total",
			Help:      "Total number of cached view reads served from a stale snapshot",
		},
		[]string{"key"},
	)

	m.cacheRefreshErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "cache_refresh_errors_total",
			Help:      "Total number of failed view refreshes",
		},
		[]string{"key"},
	)

	m.cacheInvalidations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_invalidations_total",
		Help:      "Total number of snapshot invalidations triggered by ingestion",
	})

	m.cacheSnapshots = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_snapshots",
		Help:      "Current number of stored view snapshots",
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

	m.ledgerRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ledger_rows",
		Help:      "Current number of immutable vote rows in the ledger",
	})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})
}

// RecordVotesAccepted adds n to the accepted votes counter.
func RecordVotesAccepted(n int) {
	globalManager.votesAccepted.Add(float64(n))
}

// RecordVotesDuplicate adds n to the duplicate votes counter.
func RecordVotesDuplicate(n int) {
	globalManager.votesDuplicate.Add(float64(n))
}

// RecordVotesInvalid adds n to the invalid votes counter.
func RecordVotesInvalid(n int) {
	globalManager.votesInvalid.Add(float64(n))
}

// RecordSubmission increments the submission batches counter.
func RecordSubmission() {
	globalManager.submissions.Inc()
}

// RecordIngestLatency records batch ingestion latency in milliseconds.
func RecordIngestLatency(latencyMs float64) {
	globalManager.ingestLatency.Observe(latencyMs)
}

// RecordIngestRollback increments the rolled-back batches counter.
func RecordIngestRollback() {
	globalManager.ingestRollbacks.Inc()
}

// RecordAggregation increments the score computation counter.
func RecordAggregation() {
	globalManager.aggregations.Inc()
}

// RecordAggregationLatency records aggregation latency in milliseconds.
func RecordAggregationLatency(latencyMs float64) {
	globalManager.aggregationLatency.Observe(latencyMs)
}

// RecordUnscoredRead increments the unscored-state read counter.
func RecordUnscoredRead() {
	globalManager.unscoredReads.Inc()
}

// RecordCacheFresh increments the fresh cache read counter for key.
func RecordCacheFresh(key string) {
	globalManager.cacheFresh.WithLabelValues(key).Inc()
}

// RecordCacheStaleFallback increments the stale-fallback counter for key.
func RecordCacheStaleFallback(key string) {
	globalManager.cacheStaleFallback.WithLabelValues(key).Inc()
}

// RecordCacheRefreshError increments the refresh error counter for key.
func RecordCacheRefreshError(key string) {
	globalManager.cacheRefreshErrors.WithLabelValues(key).Inc()
}

// RecordCacheInvalidation adds n to the invalidations counter.
func RecordCacheInvalidation(n int) {
	globalManager.cacheInvalidations.Add(float64(n))
}

// UpdateCacheSnapshots sets the stored snapshot count.
func UpdateCacheSnapshots(count int64) {
	globalManager.cacheSnapshots.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateLedgerRows sets the ledger row count gauge.
func UpdateLedgerRows(count int64) {
	globalManager.ledgerRows.Set(float64(count))
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
