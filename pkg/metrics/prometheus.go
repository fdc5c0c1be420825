// Package metrics provides Prometheus metrics for the Mergington activities service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Roster activity
	signups         *prometheus.CounterVec
	removals        *prometheus.CounterVec
	rejections      *prometheus.CounterVec
	enrollment      *prometheus.GaugeVec
	capacity        *prometheus.GaugeVec
	activitiesTotal prometheus.Gauge
	registryLatency *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// Notification pipeline
	notifyQueueSize     prometheus.Gauge
	notifyQueueCapacity prometheus.Gauge
	notifyEnqueued      prometheus.Counter
	notifyDropped       *prometheus.CounterVec
	notifyDelivered     prometheus.Counter
	notifyFailed        prometheus.Counter
	notifyWorkers       prometheus.Gauge

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // package-level helpers record onto it

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "mergington",
		subsystem:        "activities",
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// RefreshInterval is how often gauge updaters should poll.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of collectors
	auto := promauto.With(m.registry)

	m.signups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "signups_total",
		Help:      "Participants added to an activity roster",
	}, []string{"activity"})

	m.removals = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "removals_total",
		Help:      "Participants removed from an activity roster",
	}, []string{"activity"})

	m.rejections = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rejections_total",
		Help:      "Roster mutations refused, by operation and reason",
	}, []string{"operation", "reason"})

	m.enrollment = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "enrollment",
		Help:      "Current roster size per activity",
	}, []string{"activity"})

	m.capacity = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "capacity",
		Help:      "Advertised max_participants per activity",
	}, []string{"activity"})

	m.activitiesTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "activities",
		Help:      "Number of activities in the registry",
	})

	m.registryLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "registry_operation_duration_milliseconds",
		Help:      "Time spent inside the registry critical section",
		Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"operation"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_errors_total",
		Help:      "HTTP responses with a 4xx or 5xx status, by error class",
	}, []string{"endpoint", "method", "error_type", "severity"})

	m.notifyQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notify_queue_size",
		Help:      "Roster change events waiting for delivery",
	})

	m.notifyQueueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notify_queue_capacity",
		Help:      "Maximum roster change events held in memory",
	})

	m.notifyEnqueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notify_enqueued_total",
		Help:      "Roster change events accepted by the queue",
	})

	m.notifyDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notify_dropped_total",
		Help:      "Roster change events dropped before delivery",
	}, []string{"reason"})

	m.notifyDelivered = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notify_delivered_total",
		Help:      "Roster change events handed to the sink",
	})

	m.notifyFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notify_failed_total",
		Help:      "Roster change events the sink rejected",
	})

	m.notifyWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notify_workers",
		Help:      "Running notification workers",
	})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "Heap bytes allocated",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "Average GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordSignup counts a successful signup.
func RecordSignup(activity string) {
	globalManager.signups.WithLabelValues(activity).Inc()
}

// RecordRemoval counts a successful removal.
func RecordRemoval(activity string) {
	globalManager.removals.WithLabelValues(activity).Inc()
}

// RecordRejection counts a refused mutation. Reason is a short stable token
// such as "activity_not_found" or "already_signed_up".
func RecordRejection(operation, reason string) {
	globalManager.rejections.WithLabelValues(operation, reason).Inc()
}

// UpdateEnrollment sets the roster size of one activity.
func UpdateEnrollment(activity string, size int) {
	globalManager.enrollment.WithLabelValues(activity).Set(float64(size))
}

// UpdateCapacity sets the advertised capacity of one activity.
func UpdateCapacity(activity string, max int) {
	globalManager.capacity.WithLabelValues(activity).Set(float64(max))
}

// UpdateActivitiesTotal sets the number of activities.
func UpdateActivitiesTotal(count int) {
	globalManager.activitiesTotal.Set(float64(count))
}

// RecordRegistryLatency observes time spent in a registry operation.
func RecordRegistryLatency(operation string, latencyMs float64) {
	globalManager.registryLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordHTTPError counts a failed HTTP response.
func RecordHTTPError(endpoint, method, errorType, severity string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType, severity).Inc()
}

// UpdateNotifyQueueSize sets the pending notification count.
func UpdateNotifyQueueSize(size int) {
	globalManager.notifyQueueSize.Set(float64(size))
}

// UpdateNotifyQueueCapacity sets the notification queue bound.
func UpdateNotifyQueueCapacity(capacity int) {
	globalManager.notifyQueueCapacity.Set(float64(capacity))
}

// RecordNotifyEnqueued counts an accepted notification.
func RecordNotifyEnqueued() {
	globalManager.notifyEnqueued.Inc()
}

// RecordNotifyDropped counts a notification that never reached a worker.
func RecordNotifyDropped(reason string) {
	globalManager.notifyDropped.WithLabelValues(reason).Inc()
}

// RecordNotifyDelivered counts a notification accepted by the sink.
func RecordNotifyDelivered() {
	globalManager.notifyDelivered.Inc()
}

// RecordNotifyFailed counts a notification the sink returned an error for.
func RecordNotifyFailed() {
	globalManager.notifyFailed.Inc()
}

// UpdateNotifyWorkers sets the number of running notification workers.
func UpdateNotifyWorkers(count int) {
	globalManager.notifyWorkers.Set(float64(count))
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// DefaultRefreshInterval is the polling interval of the global manager.
func DefaultRefreshInterval() time.Duration {
	return globalManager.RefreshInterval()
}
