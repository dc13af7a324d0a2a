// Package metrics provides Prometheus metrics for the FounderBleed audit
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Business metrics: audits moving through the pipeline.
	auditsSubmitted prometheus.Counter
	auditsProcessed prometheus.Counter
	auditsFailed    prometheus.Counter
	eventsDuplicate prometheus.Counter

	// Pipeline metrics.
	eventsClassified prometheus.Counter
	leaveDetected    prometheus.Counter
	pipelineLatency  prometheus.Histogram
	rolesGenerated   prometheus.Counter
	roleMutations    *prometheus.CounterVec
	eventOverrides   prometheus.Counter

	// Operational health.
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueues    prometheus.Counter
	queueDequeues    prometheus.Counter
	queueEnqueueErrs prometheus.Counter
	workerCount      prometheus.Gauge
	workerErrors     prometheus.Counter
	workerLatency    prometheus.Histogram
	totalAudits      prometheus.Gauge

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking.
	errorsByComponent *prometheus.CounterVec

	// System metrics.
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager on a custom registry, so default Go collectors do
// not duplicate the curated system metrics.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "founderbleed",
		subsystem:        "audit",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.auditsSubmitted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "audits_submitted_total", Help: "Audits accepted for processing.",
	})
	m.auditsProcessed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "audits_processed_total", Help: "Audits whose pipeline run completed.",
	})
	m.auditsFailed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "audits_failed_total", Help: "Audits whose pipeline run failed.",
	})
	m.eventsDuplicate = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "events_duplicate_total", Help: "Calendar events dropped as duplicates at intake.",
	})

	m.eventsClassified = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "events_classified_total", Help: "Calendar events run through the classifier.",
	})
	m.leaveDetected = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "leave_events_total", Help: "Events flagged as leave.",
	})
	m.pipelineLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "pipeline_latency_ms", Help: "Full pipeline latency per audit in milliseconds.",
		Buckets: m.histogramBuckets,
	})
	m.rolesGenerated = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "roles_generated_total", Help: "Role recommendations generated.",
	})
	m.roleMutations = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "role_mutations_total", Help: "Role list mutations by kind.",
	}, []string{"kind"})
	m.eventOverrides = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "event_overrides_total", Help: "User classification overrides applied.",
	})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_size", Help: "Audit jobs currently queued.",
	})
	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_capacity", Help: "Maximum queued audit jobs.",
	})
	m.queueUtilization = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_utilization", Help: "Queue fill ratio 0-1.",
	})
	m.queueEnqueues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueues_total", Help: "Successful job enqueues.",
	})
	m.queueDequeues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_dequeues_total", Help: "Jobs handed to workers.",
	})
	m.queueEnqueueErrs = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueue_errors_total", Help: "Rejected enqueues (backpressure, closed).",
	})
	m.workerCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_count", Help: "Workers in the pool.",
	})
	m.workerErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_errors_total", Help: "Worker processing errors.",
	})
	m.workerLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_latency_ms", Help: "Per-job worker latency in milliseconds.",
		Buckets: m.histogramBuckets,
	})
	m.totalAudits = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "audits_tracked", Help: "Audits held in the store.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total", Help: "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_request_duration_ms", Help: "HTTP request duration in milliseconds.",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.errorsByComponent = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "errors_total", Help: "Errors by component and type.",
	}, []string{"component", "type"})

	m.systemMemoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "system",
		Name: "memory_bytes", Help: "Heap bytes allocated.",
	})
	m.systemGoroutineCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "system",
		Name: "goroutines", Help: "Current goroutine count.",
	})
	m.systemGCPauseTime = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "system",
		Name: "gc_pause_ms", Help: "Average GC pause in milliseconds.",
		Buckets: m.histogramBuckets,
	})
}

// Package-level helpers recording against the global manager.

func RecordAuditSubmitted() { globalManager.auditsSubmitted.Inc() }
func RecordAuditProcessed() { globalManager.auditsProcessed.Inc() }
func RecordAuditFailed()    { globalManager.auditsFailed.Inc() }
func RecordEventDuplicate() { globalManager.eventsDuplicate.Inc() }

func RecordEventsClassified(n int) { globalManager.eventsClassified.Add(float64(n)) }
func RecordLeaveDetected()         { globalManager.leaveDetected.Inc() }
func RecordPipelineLatency(ms float64) {
	globalManager.pipelineLatency.Observe(ms)
}
func RecordRolesGenerated(n int) { globalManager.rolesGenerated.Add(float64(n)) }
func RecordRoleMutation(kind string) {
	globalManager.roleMutations.WithLabelValues(kind).Inc()
}
func RecordEventOverride() { globalManager.eventOverrides.Inc() }

func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}
func UpdateQueueUtilization(u float64) {
	globalManager.queueUtilization.Set(u)
}
func RecordQueueEnqueue()      { globalManager.queueEnqueues.Inc() }
func RecordQueueDequeue()      { globalManager.queueDequeues.Inc() }
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrs.Inc() }

func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }
func RecordWorkerError()          { globalManager.workerErrors.Inc() }
func RecordWorkerProcessingLatency(ms float64) {
	globalManager.workerLatency.Observe(ms)
}
func UpdateTotalAudits(count int) { globalManager.totalAudits.Set(float64(count)) }

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom registry for exposition handlers.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
