// Package metrics provides Prometheus metrics for the perfscope service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upload outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Manager manages all Prometheus metrics for the perfscope service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Ingestion Metrics
	uploadsProcessed    *prometheus.CounterVec
	processingLatency   prometheus.Histogram
	workbookReadLatency *prometheus.HistogramVec
	sheetsDetected      *prometheus.CounterVec
	diagnostics         *prometheus.CounterVec
	rowsSkipped         prometheus.Counter

	// Dataset Metrics
	lastEmployees    prometheus.Gauge
	lastEvaluations  prometheus.Gauge
	evaluationsTotal prometheus.Counter

	// Session Metrics
	sessionsStored  prometheus.Gauge
	sessionsEvicted prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
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
		namespace:        "perfscope",
		subsystem:        "ingest",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	// Ingestion Metrics
	m.uploadsProcessed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "uploads_processed_total",
		Help:        "Total number of workbook pairs processed by outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.processingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "processing_latency_milliseconds",
		Help:        "Histogram of end-to-end processing latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.workbookReadLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "workbook_read_latency_milliseconds",
		Help:        "Workbook decoding latency in milliseconds by workbook role",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"workbook"})

	m.sheetsDetected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "sheets_detected_total",
		Help:        "Total number of evaluation sheets by detection outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.diagnostics = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "diagnostics_total",
		Help:        "Total number of diagnostics emitted by severity",
		ConstLabels: labels,
	}, []string{"severity"})

	m.rowsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_skipped_total",
		Help:        "Total number of evaluation rows dropped as blank or unnamed",
		ConstLabels: labels,
	})

	// Dataset Metrics
	m.lastEmployees = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_upload_employees",
		Help:        "Number of employees in the most recent successful upload",
		ConstLabels: labels,
	})

	m.lastEvaluations = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_upload_evaluations",
		Help:        "Number of evaluations in the most recent successful upload",
		ConstLabels: labels,
	})

	m.evaluationsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "evaluations_total",
		Help:        "Total number of evaluation records produced",
		ConstLabels: labels,
	})

	// Session Metrics
	m.sessionsStored = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "sessions_stored",
		Help:        "Current number of upload sessions held in memory",
		ConstLabels: labels,
	})

	m.sessionsEvicted = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "sessions_evicted_total",
		Help:        "Total number of sessions evicted to respect capacity",
		ConstLabels: labels,
	})

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Error Metrics
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_component_total",
			Help:        "Total number of errors by component",
			ConstLabels: labels,
		},
		[]string{"component", "error_type"},
	)
}

// RecordUpload records one processed upload by outcome.
func RecordUpload(outcome string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.uploadsProcessed.WithLabelValues(outcome).Inc()
	}
}

// RecordProcessingLatency records end-to-end processing time.
func RecordProcessingLatency(latencyMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.processingLatency.Observe(latencyMs)
	}
}

// RecordWorkbookReadLatency records how long a workbook took to decode.
func RecordWorkbookReadLatency(workbook string, latencyMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.workbookReadLatency.WithLabelValues(workbook).Observe(latencyMs)
	}
}

// RecordSheet records the detection outcome of one sheet.
func RecordSheet(outcome string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.sheetsDetected.WithLabelValues(outcome).Inc()
	}
}

// RecordDiagnostics adds n diagnostics of a severity.
func RecordDiagnostics(severity string, n int) {
	if globalManager != nil && globalManager.enabled && n > 0 {
		globalManager.diagnostics.WithLabelValues(severity).Add(float64(n))
	}
}

// RecordRowsSkipped adds n dropped rows.
func RecordRowsSkipped(n int) {
	if globalManager != nil && globalManager.enabled && n > 0 {
		globalManager.rowsSkipped.Add(float64(n))
	}
}

// RecordDataset records the size of a successfully processed dataset.
func RecordDataset(employees, evaluations int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.lastEmployees.Set(float64(employees))
		globalManager.lastEvaluations.Set(float64(evaluations))
		if evaluations > 0 {
			globalManager.evaluationsTotal.Add(float64(evaluations))
		}
	}
}

// UpdateSessionsStored sets the number of sessions in memory.
func UpdateSessionsStored(count int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.sessionsStored.Set(float64(count))
	}
}

// RecordSessionEvicted records one evicted session.
func RecordSessionEvicted() {
	if globalManager != nil && globalManager.enabled {
		globalManager.sessionsEvicted.Inc()
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// RecordErrorByComponent records an error for a component.
func RecordErrorByComponent(component, errorType string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
