// Package metrics provides Prometheus metrics for the league history service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Identity resolution
	identitiesRegistered prometheus.Counter
	identityMerges       prometheus.Counter
	resolveHits          prometheus.Counter
	resolveMisses        prometheus.Counter

	// Reconciliation
	rowsReconciled   prometheus.Counter
	rowsUnresolved   prometheus.Counter
	cohortsAnnotated prometheus.Counter
	reconcileLatency prometheus.Histogram

	// Ingest queue
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueues    prometheus.Counter
	queueDequeues    prometheus.Counter
	queueErrors      *prometheus.CounterVec

	// Workers
	workerActive  prometheus.Gauge
	workerLatency prometheus.Histogram
	workerErrors  prometheus.Counter

	// Repository and session state
	repositoryRecords prometheus.Gauge
	repositoryShards  prometheus.Gauge
	seasonsLoaded     prometheus.Gauge
	totalPlayers      prometheus.Gauge
	totalOwners       prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPause        prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "league",
		subsystem:        "history",
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

func (m *Manager) initializeMetrics() {
	if !m.enabled {
		return
	}

	factory := promauto.With(m.registry)

	m.identitiesRegistered = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "identities_registered_total",
		Help: "Total canonical player identities created.",
	})
	m.identityMerges = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "identity_merges_total",
		Help: "Total identity merges triggered by co-occurring ids.",
	})
	m.resolveHits = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "resolve_hits_total",
		Help: "Total successful identity resolutions.",
	})
	m.resolveMisses = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "resolve_misses_total",
		Help: "Total identity lookups that returned not-found.",
	})

	m.rowsReconciled = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "rows_reconciled_total",
		Help: "Total weekly rows emitted by the reconciler.",
	})
	m.rowsUnresolved = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "rows_unresolved_total",
		Help: "Total weekly rows emitted without a canonical player id.",
	})
	m.cohortsAnnotated = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "cohorts_annotated_total",
		Help: "Total positional cohorts annotated with derived metrics.",
	})
	m.reconcileLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "reconcile_latency_ms",
		Help:    "Latency of reconciling one (season, week) payload in milliseconds.",
		Buckets: m.histogramBuckets,
	})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "ingest_queue_size",
		Help: "Current number of queued ingest tasks.",
	})
	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "ingest_queue_capacity",
		Help: "Configured capacity of the ingest queue.",
	})
	m.queueUtilization = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "ingest_queue_utilization",
		Help: "Ingest queue utilization ratio (0-1).",
	})
	m.queueEnqueues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "ingest_queue_enqueues_total",
		Help: "Total tasks enqueued for ingest.",
	})
	m.queueDequeues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "ingest_queue_dequeues_total",
		Help: "Total tasks dequeued by workers.",
	})
	m.queueErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "ingest_queue_errors_total",
		Help: "Total enqueue failures by reason.",
	}, []string{"reason"})

	m.workerActive = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_active_count",
		Help: "Number of active ingest workers.",
	})
	m.workerLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "worker_processing_latency_ms",
		Help:    "Latency of processing one ingest task in milliseconds.",
		Buckets: m.histogramBuckets,
	})
	m.workerErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_errors_total",
		Help: "Total ingest task failures.",
	})

	m.repositoryRecords = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "repository_records",
		Help: "Total reconciled rows held in the repository.",
	})
	m.repositoryShards = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "repository_shards",
		Help: "Number of shards in the row repository.",
	})
	m.seasonsLoaded = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "seasons_loaded",
		Help: "Number of seasons loaded this session.",
	})
	m.totalPlayers = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "total_players",
		Help: "Number of canonical player identities in the index.",
	})
	m.totalOwners = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "total_owners",
		Help: "Number of canonical franchise owners.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total",
		Help: "Total HTTP requests by endpoint, method, and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds.",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.systemMemoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_memory_bytes",
		Help: "Current heap allocation in bytes.",
	})
	m.systemGoroutineCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_goroutines",
		Help: "Current number of goroutines.",
	})
	m.systemGCPause = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "system_gc_pause_ms",
		Help:    "Average garbage collection pause time in milliseconds.",
		Buckets: m.histogramBuckets,
	})
}

// GetRegistry returns the custom registry metrics are registered with.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers recording against the global manager.

func RecordIdentityRegistered() { globalManager.identitiesRegistered.Inc() }
func RecordIdentityMerge()      { globalManager.identityMerges.Inc() }
func RecordResolveHit()         { globalManager.resolveHits.Inc() }
func RecordResolveMiss()        { globalManager.resolveMisses.Inc() }

func RecordRowsReconciled(n int) { globalManager.rowsReconciled.Add(float64(n)) }
func RecordRowUnresolved()       { globalManager.rowsUnresolved.Inc() }
func RecordCohortAnnotated()     { globalManager.cohortsAnnotated.Inc() }
func RecordReconcileLatency(ms float64) {
	globalManager.reconcileLatency.Observe(ms)
}

func UpdateQueueSize(n int)            { globalManager.queueSize.Set(float64(n)) }
func UpdateQueueCapacity(n int)        { globalManager.queueCapacity.Set(float64(n)) }
func UpdateQueueUtilization(r float64) { globalManager.queueUtilization.Set(r) }
func RecordQueueEnqueue()              { globalManager.queueEnqueues.Inc() }
func RecordQueueDequeue()              { globalManager.queueDequeues.Inc() }
func RecordQueueError(reason string)   { globalManager.queueErrors.WithLabelValues(reason).Inc() }
func UpdateWorkerActiveCount(n int)    { globalManager.workerActive.Set(float64(n)) }
func RecordWorkerLatency(ms float64)   { globalManager.workerLatency.Observe(ms) }
func RecordWorkerError()               { globalManager.workerErrors.Inc() }
func UpdateRepositoryRecords(n int)    { globalManager.repositoryRecords.Set(float64(n)) }
func UpdateRepositoryShards(n int)     { globalManager.repositoryShards.Set(float64(n)) }
func UpdateSeasonsLoaded(n int)        { globalManager.seasonsLoaded.Set(float64(n)) }
func UpdateTotalPlayers(n int)         { globalManager.totalPlayers.Set(float64(n)) }
func UpdateTotalOwners(n int)          { globalManager.totalOwners.Set(float64(n)) }

func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }
func UpdateSystemGoroutineCount(n int)     { globalManager.systemGoroutineCount.Set(float64(n)) }
func RecordSystemGCPauseTime(ms float64)   { globalManager.systemGCPause.Observe(ms) }

// RecordHTTPRequest records one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records the duration of one HTTP request.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}
