package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/claude/fittrack/internal/workout"
)

type Manager struct {
	// counters
	CounterRequests      *prometheus.CounterVec
	CounterCompleted     prometheus.Counter
	CounterLoadSkipped   prometheus.Counter
	CounterCatalogSaves  *prometheus.CounterVec
	CounterHandlerPanics prometheus.Counter

	// gauges
	GaugeExercises prometheus.Gauge
	GaugeRoutine   prometheus.Gauge

	// histograms
	HistRequestDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("fittrack", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fittrack", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "requests_total",
		Help:      "The total number of API requests",
	}, []string{"method", "status"})
	counterCompleted := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "routine_completed_total",
		Help:      "Routine exercises marked complete",
	})
	counterLoadSkipped := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "load_skipped_total",
		Help:      "Stored records skipped while loading the catalog",
	})
	counterCatalogSaves := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "catalog_saves_total",
		Help:      "Catalog saves by result",
	}, []string{"result"})
	counterHandlerPanics := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handler_panics_total",
		Help:      "Recovered handler panics",
	})

	gaugeExercises := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "catalog_exercises",
		Help:      "Exercises currently in the catalog",
	})
	gaugeRoutine := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "routine_exercises",
		Help:      "Exercises left in the daily routine",
	})

	histReqDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Duration of API requests in seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	return &Manager{
		CounterRequests:      counterRequests,
		CounterCompleted:     counterCompleted,
		CounterLoadSkipped:   counterLoadSkipped,
		CounterCatalogSaves:  counterCatalogSaves,
		CounterHandlerPanics: counterHandlerPanics,
		GaugeExercises:       gaugeExercises,
		GaugeRoutine:         gaugeRoutine,
		HistRequestDuration:  histReqDuration,
	}
}

// Observe sets the size gauges from a tracker snapshot.
func (m *Manager) Observe(s workout.Stats) {
	m.GaugeExercises.Set(float64(s.Exercises))
	m.GaugeRoutine.Set(float64(s.Routine))
}

// ObserveSave counts a catalog save attempt.
func (m *Manager) ObserveSave(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.CounterCatalogSaves.WithLabelValues(result).Inc()
}
