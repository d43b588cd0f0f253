// Package metrics provides Prometheus metrics for the red packet simulator.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// participantBuckets spread over typical group sizes.
var participantBuckets = []float64{1, 2, 3, 5, 10, 20, 50, 100, 200} //nolint:gochecknoglobals // bucket layout

// Manager manages all Prometheus metrics for the simulator.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         *prometheus.Registry

	// Partition metrics
	drawsTotal          prometheus.Counter
	sharesTotal         prometheus.Counter
	zeroSharesTotal     prometheus.Counter
	negativeSharesTotal prometheus.Counter
	participants        prometheus.Histogram
	drawLatency         prometheus.Histogram

	// Input metrics
	validationErrors *prometheus.CounterVec

	// History metrics
	historyRecords    prometheus.Gauge
	historySaves      prometheus.Counter
	historySaveErrors prometheus.Counter
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
		namespace:        "redpacket",
		subsystem:        "simulator",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.NewRegistry(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics on m.registry.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.drawsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "draws_total",
		Help:        "Total number of partitions drawn",
		ConstLabels: labels,
	})

	m.sharesTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "shares_total",
		Help:        "Total number of shares handed out",
		ConstLabels: labels,
	})

	m.zeroSharesTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "zero_shares_total",
		Help:        "Shares that rounded to 0.00",
		ConstLabels: labels,
	})

	m.negativeSharesTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "negative_shares_total",
		Help:        "Shares below zero after earlier draws overshot the total",
		ConstLabels: labels,
	})

	m.participants = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "participants",
		Help:        "Number of participants per draw",
		Buckets:     participantBuckets,
		ConstLabels: labels,
	})

	m.drawLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "draw_latency_milliseconds",
		Help:        "Time spent computing one partition in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.validationErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "validation_errors_total",
		Help:        "Rejected draw requests by reason",
		ConstLabels: labels,
	}, []string{"reason"})

	m.historyRecords = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "history_records",
		Help:        "Records currently held in the session history",
		ConstLabels: labels,
	})

	m.historySaves = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "history_saves_total",
		Help:        "Successful history saves",
		ConstLabels: labels,
	})

	m.historySaveErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "history_save_errors_total",
		Help:        "Failed history saves",
		ConstLabels: labels,
	})
}

// RecordDraw records one partition of participants shares.
func (m *Manager) RecordDraw(participants, zeroShares, negativeShares int, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.drawsTotal.Inc()
	m.sharesTotal.Add(float64(participants))
	m.zeroSharesTotal.Add(float64(zeroShares))
	m.negativeSharesTotal.Add(float64(negativeShares))
	m.participants.Observe(float64(participants))
	m.drawLatency.Observe(latencyMs)
}

// RecordValidationError counts a rejected request.
func (m *Manager) RecordValidationError(reason string) {
	if !m.enabled {
		return
	}
	m.validationErrors.WithLabelValues(reason).Inc()
}

// UpdateHistoryRecords sets the history length gauge.
func (m *Manager) UpdateHistoryRecords(count int) {
	if !m.enabled {
		return
	}
	m.historyRecords.Set(float64(count))
}

// RecordHistorySave counts a save attempt.
func (m *Manager) RecordHistorySave(err error) {
	if !m.enabled {
		return
	}
	if err != nil {
		m.historySaveErrors.Inc()
		return
	}
	m.historySaves.Inc()
}

// Registry returns the registry the manager's metrics live on.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile dumps the manager's metrics in the Prometheus text format,
// for the node-exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}

// Package-level helpers over the global manager.

func RecordDraw(participants, zeroShares, negativeShares int, latencyMs float64) {
	globalManager.RecordDraw(participants, zeroShares, negativeShares, latencyMs)
}

func RecordValidationError(reason string) { globalManager.RecordValidationError(reason) }

func UpdateHistoryRecords(count int) { globalManager.UpdateHistoryRecords(count) }

func RecordHistorySave(err error) { globalManager.RecordHistorySave(err) }

// WriteTextfile dumps the global metrics to path.
func WriteTextfile(path string) error { return globalManager.WriteTextfile(path) }

// GetRegistry returns the custom registry.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Global returns the process-wide manager.
func Global() *Manager { return globalManager }
