// Package metrics provides Prometheus metrics for brainmatch scoring runs.
package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcome label values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Manager owns the Prometheus collectors for one process. A scoring run is a
// batch job, so collectors live on a private registry that is flushed to a
// node-exporter textfile instead of being scraped.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	registry       *prometheus.Registry

	// Input size
	projects     prometheus.Gauge
	contributors prometheus.Gauge

	// Scoring
	pairsScored    prometheus.Counter
	scoringErrors  *prometheus.CounterVec
	rowLatency     prometheus.Histogram
	scoreHistogram prometheus.Histogram

	// Validation
	validationFailures *prometheus.CounterVec

	// Run
	runs            *prometheus.CounterVec
	runDuration     prometheus.Gauge
	lastSuccessUnix prometheus.Gauge

	// Workers
	workerCount prometheus.Gauge
}

var (
	defaultOnce    sync.Once //nolint:gochecknoglobals // guards defaultManager
	defaultManager *Manager  //nolint:gochecknoglobals // process-wide default manager
)

// Default returns the process-wide manager, creating it on first use. It is
// safe for concurrent use.
func Default() *Manager {
	defaultOnce.Do(func() {
		defaultManager = NewManager()
	})
	return defaultManager
}

// NewManager creates a metrics manager on its own registry unless one is supplied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "brainmatch",
		subsystem:      "match",
		latencyBuckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50, 100},
		registry:       prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for all collectors
	auto := promauto.With(m.registry)

	m.projects = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "projects",
		Help:      "Number of projects scored in the last run (after event filtering)",
	})

	m.contributors = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "contributors",
		Help:      "Number of contributors scored in the last run",
	})

	m.pairsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pairs_scored_total",
		Help:      "Total number of (contributor, project) pairs scored",
	})

	m.scoringErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "scoring_errors_total",
			Help:      "Total number of scoring errors by kind",
		},
		[]string{"kind"},
	)

	m.rowLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "row_latency_milliseconds",
		Help:      "Time to score one contributor against every project",
		Buckets:   m.latencyBuckets,
	})

	m.scoreHistogram = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score",
		Help:      "Distribution of normalized match scores",
		Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
	})

	m.validationFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "validation_failures_total",
			Help:      "Total number of input validation failures by kind",
		},
		[]string{"kind"},
	)

	m.runs = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "runs_total",
			Help:      "Total number of scoring runs by outcome",
		},
		[]string{"status"},
	)

	m.runDuration = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_seconds",
		Help:      "Wall time of the last scoring run",
	})

	m.lastSuccessUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_success_unix",
		Help:      "Unix timestamp of the last successful scoring run",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Number of workers used to build the match table",
	})
}

// SetInputSize records how many projects and contributors a run scores.
func (m *Manager) SetInputSize(projects, contributors int) {
	m.projects.Set(float64(projects))
	m.contributors.Set(float64(contributors))
}

// RecordPairScored counts one scored pair and observes its score.
func (m *Manager) RecordPairScored(score float64) {
	m.pairsScored.Inc()
	m.scoreHistogram.Observe(score)
}

// RecordScoringError counts a scoring failure of the given kind.
func (m *Manager) RecordScoringError(kind string) {
	m.scoringErrors.WithLabelValues(kind).Inc()
}

// RecordRowLatency observes the time spent scoring one contributor row.
func (m *Manager) RecordRowLatency(d time.Duration) {
	m.rowLatency.Observe(float64(d.Microseconds()) / 1000)
}

// RecordValidationFailure counts an input validation failure of the given kind.
func (m *Manager) RecordValidationFailure(kind string) {
	m.validationFailures.WithLabelValues(kind).Inc()
}

// UpdateWorkerCount sets the number of table-building workers.
func (m *Manager) UpdateWorkerCount(count int) {
	m.workerCount.Set(float64(count))
}

// RecordRun records the outcome and duration of a scoring run.
func (m *Manager) RecordRun(status string, d time.Duration) {
	m.runs.WithLabelValues(status).Inc()
	m.runDuration.Set(d.Seconds())
	if status == StatusSuccess {
		m.lastSuccessUnix.SetToCurrentTime()
	}
}

// Registry returns the registry the manager's collectors live on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes every collected metric to path in the text exposition
// format, atomically, for the node exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteTextfile, path, err)
	}
	return nil
}
