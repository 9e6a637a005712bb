// Package metrics provides Prometheus metrics for the gwbadge service.
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
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Evaluation
	evaluations       *prometheus.CounterVec
	evaluationLatency prometheus.Histogram
	unlockedLast      prometheus.Gauge
	pendingLast       prometheus.Gauge
	newlyUnlocked     prometheus.Counter
	celebrations      prometheus.Counter
	malformedPlayers  prometheus.Counter
	rulePanics        prometheus.Counter

	// Unlock set persistence
	storeErrors *prometheus.CounterVec

	// History queue and workers
	historyQueueSize     prometheus.Gauge
	historyQueueCapacity prometheus.Gauge
	historyEnqueueErrors prometheus.Counter
	historyRecorded      prometheus.Counter
	historyRecordErrors  prometheus.Counter
	historyWorkers       prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "gwbadge",
		subsystem:        "achievements",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100},
		enabled:          true,
		customLabels:     map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of collectors
	auto := promauto.With(m.registry)

	m.evaluations = auto.NewCounterVec(m.counterOpts("evaluations_total",
		"Evaluation cycles by outcome status (ready or no_data)"), []string{"status"})
	m.evaluationLatency = auto.NewHistogram(m.histogramOpts("evaluation_latency_milliseconds",
		"Time spent evaluating the rule catalog against one snapshot"))
	m.unlockedLast = auto.NewGauge(m.gaugeOpts("unlocked_last",
		"Unlocked achievements in the most recent evaluation"))
	m.pendingLast = auto.NewGauge(m.gaugeOpts("pending_last",
		"Pending achievements in the most recent evaluation"))
	m.newlyUnlocked = auto.NewCounter(m.counterOpts("newly_unlocked_total",
		"Achievements detected as newly unlocked"))
	m.celebrations = auto.NewCounter(m.counterOpts("celebrations_total",
		"Celebration pulses emitted"))
	m.malformedPlayers = auto.NewCounter(m.counterOpts("malformed_players_total",
		"Player entries that could not be decoded and were zeroed"))
	m.rulePanics = auto.NewCounter(m.counterOpts("rule_panics_total",
		"Rule predicates that panicked and were reported as locked"))

	m.storeErrors = auto.NewCounterVec(m.counterOpts("store_errors_total",
		"Persisted unlock set failures by operation"), []string{"op"})

	m.historyQueueSize = auto.NewGauge(m.gaugeOpts("history_queue_size",
		"Gameweek summaries waiting to be recorded"))
	m.historyQueueCapacity = auto.NewGauge(m.gaugeOpts("history_queue_capacity",
		"Capacity of the gameweek summary queue"))
	m.historyEnqueueErrors = auto.NewCounter(m.counterOpts("history_enqueue_errors_total",
		"Gameweek summaries dropped because the queue was full or closed"))
	m.historyRecorded = auto.NewCounter(m.counterOpts("history_recorded_total",
		"Gameweek summaries written to the store"))
	m.historyRecordErrors = auto.NewCounter(m.counterOpts("history_record_errors_total",
		"Gameweek summary writes that failed"))
	m.historyWorkers = auto.NewGauge(m.gaugeOpts("history_workers",
		"Running history workers"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"HTTP requests by endpoint, method and status code"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds"), []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_total",
		"Errors by component and type"), []string{"component", "error_type"})
}

// RecordEvaluation counts one evaluation cycle and its latency.
func RecordEvaluation(status string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.evaluations.WithLabelValues(status).Inc()
	globalManager.evaluationLatency.Observe(latencyMs)
}

// UpdateLastEvaluation publishes unlocked and pending counts of the latest run.
func UpdateLastEvaluation(unlocked, pending int) {
	if !globalManager.enabled {
		return
	}
	globalManager.unlockedLast.Set(float64(unlocked))
	globalManager.pendingLast.Set(float64(pending))
}

// RecordNewlyUnlocked adds n newly unlocked achievements.
func RecordNewlyUnlocked(n int) {
	if !globalManager.enabled || n <= 0 {
		return
	}
	globalManager.newlyUnlocked.Add(float64(n))
}

// RecordCelebration counts one celebration pulse.
func RecordCelebration() {
	if !globalManager.enabled {
		return
	}
	globalManager.celebrations.Inc()
}

// RecordMalformedPlayers adds n zeroed player entries.
func RecordMalformedPlayers(n int) {
	if !globalManager.enabled || n <= 0 {
		return
	}
	globalManager.malformedPlayers.Add(float64(n))
}

// RecordRulePanic counts one recovered predicate panic.
func RecordRulePanic() {
	if !globalManager.enabled {
		return
	}
	globalManager.rulePanics.Inc()
	globalManager.errorsByComponent.WithLabelValues("evaluator", "rule_panic").Inc()
}

// RecordStoreError counts one unlock set read or write failure.
func RecordStoreError(op string) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeErrors.WithLabelValues(op).Inc()
	globalManager.errorsByComponent.WithLabelValues("tracker", "store_"+op).Inc()
}

// UpdateHistoryQueue publishes queue length and capacity.
func UpdateHistoryQueue(size, capacity int) {
	if !globalManager.enabled {
		return
	}
	globalManager.historyQueueSize.Set(float64(size))
	globalManager.historyQueueCapacity.Set(float64(capacity))
}

// RecordHistoryEnqueueError counts one dropped summary.
func RecordHistoryEnqueueError(reason string) {
	if !globalManager.enabled {
		return
	}
	globalManager.historyEnqueueErrors.Inc()
	globalManager.errorsByComponent.WithLabelValues("queue", reason).Inc()
}

// RecordHistoryRecorded counts one summary written by a worker.
func RecordHistoryRecorded() {
	if !globalManager.enabled {
		return
	}
	globalManager.historyRecorded.Inc()
}

// RecordHistoryRecordError counts one failed summary write.
func RecordHistoryRecordError() {
	if !globalManager.enabled {
		return
	}
	globalManager.historyRecordErrors.Inc()
	globalManager.errorsByComponent.WithLabelValues("worker", "record_error").Inc()
}

// UpdateHistoryWorkers publishes the running worker count.
func UpdateHistoryWorkers(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.historyWorkers.Set(float64(n))
}

// RecordHTTPRequest counts one HTTP request and observes its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent counts an error attributed to a component.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom registry for the scrape handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
