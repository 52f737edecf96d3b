// Package metrics provides Prometheus metrics for the rondo matchmaking service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the rondo service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Replay Metrics - league snapshot rebuilds
	replaysTotal   prometheus.Counter
	replayErrors   prometheus.Counter
	replayDuration prometheus.Histogram
	gamesReplayed  prometheus.Gauge
	trackedPlayers prometheus.Gauge

	// Balancer Metrics - team split search
	balanceDuration   prometheus.Histogram
	balancePartitions prometheus.Histogram
	gamesCreated      prometheus.Counter

	// Queue Metrics - waiting set churn
	queueJoins     prometheus.Counter
	queueLeaves    prometheus.Counter
	queueOccupancy prometheus.Gauge

	// Game Store Metrics - external API health
	storeRequests        *prometheus.CounterVec
	storeRequestDuration *prometheus.HistogramVec

	// HTTP Performance Metrics
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
		namespace:        "rondo",
		subsystem:        "matchmaking",
		histogramBuckets: prometheus.DefBuckets,
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
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Replay Metrics
	m.replaysTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "replays_total",
		Help:      "Total number of league snapshot rebuilds from the game log",
	})

	m.replayErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "replay_errors_total",
		Help:      "Total number of failed snapshot rebuilds (previous snapshot kept)",
	})

	m.replayDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "replay_duration_milliseconds",
		Help:      "Histogram of full game-log replay duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.gamesReplayed = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "games_replayed",
		Help:      "Number of games consumed by the most recent replay",
	})

	m.trackedPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracked_players",
		Help:      "Number of players in the current league snapshot",
	})

	// Balancer Metrics
	m.balanceDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "balance_duration_milliseconds",
		Help:      "Histogram of team split search duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.balancePartitions = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "balance_partitions_searched",
		Help:      "Histogram of candidate bipartitions evaluated per balance call",
		Buckets:   []float64{1, 3, 10, 35, 126, 462, 1716, 6435},
	})

	m.gamesCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "games_created_total",
		Help:      "Total number of games created from a full queue",
	})

	// Queue Metrics
	m.queueJoins = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_joins_total",
		Help:      "Total number of successful queue joins",
	})

	m.queueLeaves = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_leaves_total",
		Help:      "Total number of successful queue leaves",
	})

	m.queueOccupancy = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_occupancy",
		Help:      "Current number of players waiting in the queue",
	})

	// Game Store Metrics
	m.storeRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_requests_total",
			Help:      "Total number of game store requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	m.storeRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_request_duration_milliseconds",
			Help:      "Game store request duration in milliseconds by operation",
			Buckets:   m.histogramBuckets,
		},
		[]string{"operation"},
	)

	// HTTP Performance Metrics
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

// RecordReplay records a completed replay and its duration in milliseconds.
func RecordReplay(durationMs float64) {
	globalManager.replaysTotal.Inc()
	globalManager.replayDuration.Observe(durationMs)
}

// RecordReplayError increments the replay error counter.
func RecordReplayError() {
	globalManager.replayErrors.Inc()
}

// UpdateGamesReplayed sets the number of games consumed by the last replay.
func UpdateGamesReplayed(count int) {
	globalManager.gamesReplayed.Set(float64(count))
}

// UpdateTrackedPlayers sets the number of players in the current snapshot.
func UpdateTrackedPlayers(count int) {
	globalManager.trackedPlayers.Set(float64(count))
}

// RecordBalance records a balance call with its duration and search size.
func RecordBalance(durationMs float64, partitions int) {
	globalManager.balanceDuration.Observe(durationMs)
	globalManager.balancePartitions.Observe(float64(partitions))
}

// RecordGameCreated increments the created games counter.
func RecordGameCreated() {
	globalManager.gamesCreated.Inc()
}

// RecordQueueJoin increments the queue join counter.
func RecordQueueJoin() {
	globalManager.queueJoins.Inc()
}

// RecordQueueLeave increments the queue leave counter.
func RecordQueueLeave() {
	globalManager.queueLeaves.Inc()
}

// UpdateQueueOccupancy sets the current queue occupancy.
func UpdateQueueOccupancy(size int) {
	globalManager.queueOccupancy.Set(float64(size))
}

// RecordStoreRequest records a game store request outcome.
func RecordStoreRequest(operation, outcome string) {
	globalManager.storeRequests.WithLabelValues(operation, outcome).Inc()
}

// RecordStoreRequestDuration records game store request duration.
func RecordStoreRequestDuration(operation string, durationMs float64) {
	globalManager.storeRequestDuration.WithLabelValues(operation).Observe(durationMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
