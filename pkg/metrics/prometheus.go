// Package metrics provides Prometheus metrics for the analytics engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Pipeline throughput
	eventsNormalized prometheus.Counter
	eventsSkipped    prometheus.Counter
	reportRuns       prometheus.Counter

	// Analyzer performance
	analyzerDuration *prometheus.HistogramVec

	// Merge quality
	unresolvedIdentities prometheus.Gauge
	mergedPersons        prometheus.Gauge

	// Contact population
	contactsTracked  prometheus.Gauge
	contactsExcluded prometheus.Gauge
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
		namespace:        "wrapped",
		subsystem:        "engine",
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

	m.eventsNormalized = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_normalized_total",
		Help:      "Eligible one-to-one events admitted into timelines.",
	})
	m.eventsSkipped = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_skipped_total",
		Help:      "Structurally invalid events dropped during normalization.",
	})
	m.reportRuns = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "report_runs_total",
		Help:      "Completed end-to-end report computations.",
	})
	m.analyzerDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "analyzer_duration_seconds",
		Help:      "Wall time per analyzer pass.",
		Buckets:   m.histogramBuckets,
	}, []string{"analyzer"})
	m.unresolvedIdentities = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unresolved_identities",
		Help:      "Cross-platform identities without a canonical mapping in the last run.",
	})
	m.mergedPersons = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "merged_persons",
		Help:      "Canonical persons produced by the last merge.",
	})
	m.contactsTracked = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "contacts_tracked",
		Help:      "Contact timelines in the last normalized input.",
	})
	m.contactsExcluded = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "contacts_excluded",
		Help:      "Contacts removed by the exclusion predicate in the last run.",
	})
}

// Registry returns the registry backing the global manager, for exposition.
func Registry() *prometheus.Registry {
	return customRegistry
}

// Package-level recorders against the global manager.

// AddEventsNormalized counts admitted events.
func AddEventsNormalized(n int) {
	globalManager.eventsNormalized.Add(float64(n))
}

// AddEventsSkipped counts dropped invalid events.
func AddEventsSkipped(n int) {
	globalManager.eventsSkipped.Add(float64(n))
}

// RecordReportRun counts one completed pipeline run.
func RecordReportRun() {
	globalManager.reportRuns.Inc()
}

// ObserveAnalyzerDuration records one analyzer pass duration in seconds.
func ObserveAnalyzerDuration(analyzer string, seconds float64) {
	globalManager.analyzerDuration.WithLabelValues(analyzer).Observe(seconds)
}

// UpdateUnresolvedIdentities sets the unresolved identity count.
func UpdateUnresolvedIdentities(n int) {
	globalManager.unresolvedIdentities.Set(float64(n))
}

// UpdateMergedPersons sets the merged person count.
func UpdateMergedPersons(n int) {
	globalManager.mergedPersons.Set(float64(n))
}

// UpdateContactsTracked sets the tracked contact count.
func UpdateContactsTracked(n int) {
	globalManager.contactsTracked.Set(float64(n))
}

// UpdateContactsExcluded sets the excluded contact count.
func UpdateContactsExcluded(n int) {
	globalManager.contactsExcluded.Set(float64(n))
}
