// Package metrics provides Prometheus metrics for the G-DAX diagnosis service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Diagnosis
	reportsGenerated   *prometheus.CounterVec
	employmentIssues   *prometheus.CounterVec
	validationFailures prometheus.Counter
	reportLatency      prometheus.Histogram

	// Surveys
	surveysSubmitted  prometheus.Counter
	surveysDuplicate  prometheus.Counter
	storeQueryLatency *prometheus.HistogramVec
	storeErrors       *prometheus.CounterVec

	// Notification pipeline
	queueSize            prometheus.Gauge
	queueCapacity        prometheus.Gauge
	queueEnqueueErrors   *prometheus.CounterVec
	notificationsSent    *prometheus.CounterVec
	notificationsFailed  *prometheus.CounterVec
	workerCount          prometheus.Gauge
	workerProcessLatency prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "gdax",
		subsystem:        "diagnosis",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: m.histogramBuckets}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.reportsGenerated = auto.NewCounterVec(
		m.counterOpts("reports_generated_total", "Reports generated by diagnosis type and generation mode"),
		[]string{"diagnosis_type", "mode"},
	)
	m.employmentIssues = auto.NewCounterVec(
		m.counterOpts("employment_issues_total", "Employment issues flagged by kind and severity"),
		[]string{"kind", "severity"},
	)
	m.validationFailures = auto.NewCounter(
		m.counterOpts("validation_failures_total", "Surveys rejected because of malformed Likert answers"),
	)
	m.reportLatency = auto.NewHistogram(
		m.histogramOpts("report_latency_milliseconds", "Time to load a survey and assemble its report"),
	)

	m.surveysSubmitted = auto.NewCounter(m.counterOpts("surveys_submitted_total", "Surveys stored"))
	m.surveysDuplicate = auto.NewCounter(m.counterOpts("surveys_duplicate_total", "Submissions rejected as duplicates"))
	m.storeQueryLatency = auto.NewHistogramVec(
		m.histogramOpts("store_query_latency_milliseconds", "Survey store latency by operation"),
		[]string{"operation"},
	)
	m.storeErrors = auto.NewCounterVec(
		m.counterOpts("store_errors_total", "Survey store errors by operation"),
		[]string{"operation"},
	)

	m.queueSize = auto.NewGauge(m.gaugeOpts("notify_queue_size", "Pending notification jobs"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("notify_queue_capacity", "Notification queue capacity"))
	m.queueEnqueueErrors = auto.NewCounterVec(
		m.counterOpts("notify_enqueue_errors_total", "Notification jobs rejected by reason"),
		[]string{"reason"},
	)
	m.notificationsSent = auto.NewCounterVec(
		m.counterOpts("notifications_sent_total", "Notifications handed to the notifier by mode"),
		[]string{"mode"},
	)
	m.notificationsFailed = auto.NewCounterVec(
		m.counterOpts("notifications_failed_total", "Notification jobs that failed by stage"),
		[]string{"stage"},
	)
	m.workerCount = auto.NewGauge(m.gaugeOpts("notify_worker_count", "Notification workers running"))
	m.workerProcessLatency = auto.NewHistogram(
		m.histogramOpts("notify_job_latency_milliseconds", "Time to process a notification job"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpErrors = auto.NewCounterVec(
		m.counterOpts("http_errors_total", "HTTP error responses by endpoint and error type"),
		[]string{"endpoint", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Goroutines running"))
}

// RecordReportGenerated counts a generated report.
func RecordReportGenerated(diagnosisType, mode string) {
	globalManager.reportsGenerated.WithLabelValues(diagnosisType, mode).Inc()
}

// RecordEmploymentIssue counts a flagged employment issue.
func RecordEmploymentIssue(kind, severity string) {
	globalManager.employmentIssues.WithLabelValues(kind, severity).Inc()
}

// IssueLabels names one flagged employment issue of a report.
type IssueLabels struct {
	Kind     string
	Severity string
}

// RecordReport counts a generated report together with its flagged issues.
func RecordReport(diagnosisType, mode string, issues ...IssueLabels) {
	RecordReportGenerated(diagnosisType, mode)
	for _, issue := range issues {
		RecordEmploymentIssue(issue.Kind, issue.Severity)
	}
}

// RecordValidationFailure counts a survey rejected by the engine.
func RecordValidationFailure() {
	globalManager.validationFailures.Inc()
}

// RecordReportLatency observes report assembly latency.
func RecordReportLatency(latencyMs float64) {
	globalManager.reportLatency.Observe(latencyMs)
}

// RecordSurveySubmitted counts a stored survey.
func RecordSurveySubmitted() {
	globalManager.surveysSubmitted.Inc()
}

// RecordSurveyDuplicate counts a rejected duplicate submission.
func RecordSurveyDuplicate() {
	globalManager.surveysDuplicate.Inc()
}

// RecordStoreQueryLatency observes a store operation.
func RecordStoreQueryLatency(operation string, latencyMs float64) {
	globalManager.storeQueryLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordStoreError counts a failed store operation.
func RecordStoreError(operation string) {
	globalManager.storeErrors.WithLabelValues(operation).Inc()
}

// UpdateQueueSize sets the pending notification job count.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the notification queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueueError counts a rejected notification job.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// RecordNotificationSent counts a delivered notification.
func RecordNotificationSent(mode string) {
	globalManager.notificationsSent.WithLabelValues(mode).Inc()
}

// RecordNotificationFailed counts a failed notification job.
func RecordNotificationFailed(stage string) {
	globalManager.notificationsFailed.WithLabelValues(stage).Inc()
}

// UpdateWorkerCount sets the number of notification workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency observes a notification job.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessLatency.Observe(latencyMs)
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordHTTPError counts an HTTP error response.
func RecordHTTPError(endpoint, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, errorType).Inc()
}

// UpdateSystemMemoryUsage sets heap usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
