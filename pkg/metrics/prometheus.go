// Package metrics provides Prometheus metrics for the gradient service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Engine
	analyses          *prometheus.CounterVec
	analysisLatency   prometheus.Histogram
	keywordCoverage   prometheus.Histogram
	similarityCalls   prometheus.Counter
	predictions       *prometheus.CounterVec
	recommendations   *prometheus.CounterVec
	scheduledEvents   prometheus.Counter
	unplacedEvents    prometheus.Counter
	scheduleRejects   prometheus.Counter
	engineOpLatency   *prometheus.HistogramVec
	engineDegradation *prometheus.CounterVec

	// Job pipeline
	jobsAccepted     prometheus.Counter
	jobsDuplicate    prometheus.Counter
	jobsCompleted    prometheus.Counter
	jobsStored       prometheus.Gauge
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueEnqueue     prometheus.Counter
	queueDequeue     prometheus.Counter
	queueEnqueueErrs *prometheus.CounterVec
	workerCount      prometheus.Gauge
	workerLatency    prometheus.Histogram
	workerErrors     prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System
	memoryUsage    prometheus.Gauge
	goroutineCount prometheus.Gauge
	gcPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // avoids default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "gradient",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: m.histogramBuckets, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.analyses = m.counterVec("analyses_total", "Submission analyses by result status", "status")
	m.analysisLatency = m.histogram("analysis_latency_milliseconds", "Submission analysis latency in milliseconds", m.histogramBuckets)
	m.keywordCoverage = m.histogram("keyword_coverage_ratio", "Distribution of instruction keyword coverage", prometheus.LinearBuckets(0, 0.1, 11))
	m.similarityCalls = m.counter("similarity_calls_total", "Standalone text similarity computations")
	m.predictions = m.counterVec("predictions_total", "Performance predictions by result status", "status")
	m.recommendations = m.counterVec("recommendations_total", "Recommendations emitted by type", "type")
	m.scheduledEvents = m.counter("scheduled_events_total", "Events placed into a time slot")
	m.unplacedEvents = m.counter("unplaced_events_total", "Events dropped because no slot fit")
	m.scheduleRejects = m.counter("schedule_rejects_total", "Schedule requests rejected for invalid events")
	m.engineOpLatency = m.histogramVec("operation_latency_milliseconds", "Engine operation latency in milliseconds", "operation")
	m.engineDegradation = m.counterVec("degraded_results_total", "Sentinel results returned instead of a real answer", "operation", "status")

	m.jobsAccepted = m.counter("jobs_accepted_total", "Batch analysis jobs accepted")
	m.jobsDuplicate = m.counter("jobs_duplicate_total", "Batch analysis jobs rejected as duplicates")
	m.jobsCompleted = m.counter("jobs_completed_total", "Batch analysis jobs completed")
	m.jobsStored = m.gauge("jobs_stored", "Job records currently retained")
	m.queueSize = m.gauge("queue_size", "Current size of the job queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum job queue capacity")
	m.queueEnqueue = m.counter("queue_enqueue_total", "Jobs enqueued")
	m.queueDequeue = m.counter("queue_dequeue_total", "Jobs dequeued")
	m.queueEnqueueErrs = m.counterVec("queue_enqueue_errors_total", "Failed enqueues by reason", "reason")
	m.workerCount = m.gauge("worker_count", "Number of job workers")
	m.workerLatency = m.histogram("worker_job_latency_milliseconds", "Time spent analyzing one job", m.histogramBuckets)
	m.workerErrors = m.counter("worker_errors_total", "Worker failures while processing a job")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")
	m.httpErrors = m.counterVec("http_errors_total", "HTTP error responses by endpoint and type", "endpoint", "error_type")

	m.memoryUsage = m.gauge("system_memory_bytes", "Heap bytes allocated")
	m.goroutineCount = m.gauge("system_goroutines", "Number of goroutines")
	m.gcPauseTime = m.histogram("system_gc_pause_milliseconds", "Average GC pause in milliseconds", m.histogramBuckets)
}

// RecordAnalysis counts an analysis by status and observes its latency.
func RecordAnalysis(status string, latencyMs float64) {
	globalManager.analyses.WithLabelValues(status).Inc()
	globalManager.analysisLatency.Observe(latencyMs)
}

// RecordKeywordCoverage observes a keyword coverage ratio.
func RecordKeywordCoverage(coverage float64) {
	globalManager.keywordCoverage.Observe(coverage)
}

// RecordSimilarityCall counts a standalone similarity computation.
func RecordSimilarityCall() {
	globalManager.similarityCalls.Inc()
}

// RecordPrediction counts a prediction by status.
func RecordPrediction(status string) {
	globalManager.predictions.WithLabelValues(status).Inc()
}

// RecordRecommendation counts one emitted recommendation.
func RecordRecommendation(kind string) {
	globalManager.recommendations.WithLabelValues(kind).Inc()
}

// RecordSchedule counts placed and dropped events of one optimization.
func RecordSchedule(placed, dropped int) {
	globalManager.scheduledEvents.Add(float64(placed))
	globalManager.unplacedEvents.Add(float64(dropped))
}

// RecordScheduleReject counts a request refused for a contract violation.
func RecordScheduleReject() {
	globalManager.scheduleRejects.Inc()
}

// RecordOperationLatency observes the latency of an engine operation.
func RecordOperationLatency(operation string, latencyMs float64) {
	globalManager.engineOpLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordDegraded counts a sentinel result.
func RecordDegraded(operation, status string) {
	globalManager.engineDegradation.WithLabelValues(operation, status).Inc()
}

// RecordJobAccepted counts an accepted batch job.
func RecordJobAccepted() {
	globalManager.jobsAccepted.Inc()
}

// RecordJobDuplicate counts a duplicate batch job submission.
func RecordJobDuplicate() {
	globalManager.jobsDuplicate.Inc()
}

// RecordJobCompleted counts a finished job and observes its processing time.
func RecordJobCompleted(latencyMs float64) {
	globalManager.jobsCompleted.Inc()
	globalManager.workerLatency.Observe(latencyMs)
}

// UpdateJobsStored sets the number of retained job records.
func UpdateJobsStored(n int) {
	globalManager.jobsStored.Set(float64(n))
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueue.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeue.Inc()
}

// RecordQueueEnqueueError counts a failed enqueue.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrs.WithLabelValues(reason).Inc()
}

// UpdateWorkerCount sets the number of workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordHTTPRequest records one HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError records an HTTP error response.
func RecordHTTPError(endpoint, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the allocated heap size.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.memoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.goroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes an average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.gcPauseTime.Observe(pauseMs)
}

// GetRegistry returns the Prometheus registry holding the service metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
