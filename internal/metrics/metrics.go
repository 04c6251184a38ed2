// Package metrics provides Prometheus metrics for simulation runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/joshuapare/memfit/mem/alloc"
)

// Metrics holds per-strategy simulation metrics on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	// Outcome metrics
	OutcomesTotal *prometheus.CounterVec
	RequestUnits  *prometheus.HistogramVec

	// Quick Fit index effectiveness
	QuickFitTotal *prometheus.CounterVec

	// Region state after the latest outcome / at end of run
	UnitsUsed        *prometheus.GaugeVec
	LargestFreeRun   *prometheus.GaugeVec
	ExternalFragment *prometheus.GaugeVec
}

// New creates a new Metrics instance with all simulation metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		OutcomesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "memsim_outcomes_total",
				Help: "Engine outcomes by strategy and kind (allocated, nospace, released)",
			},
			[]string{"strategy", "outcome"},
		),
		RequestUnits: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "memsim_request_units",
				Help:    "Size in units of placement requests",
				Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
			},
			[]string{"strategy"},
		),
		QuickFitTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "memsim_quickfit_placements_total",
				Help: "Quick Fit placements by source (index, fallback)",
			},
			[]string{"source"},
		),
		UnitsUsed: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "memsim_units_used",
				Help: "Occupied units after the most recent outcome",
			},
			[]string{"strategy"},
		),
		LargestFreeRun: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "memsim_largest_free_run_units",
				Help: "Largest free run at the end of the run",
			},
			[]string{"strategy"},
		),
		ExternalFragment: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "memsim_external_fragmentation_ratio",
				Help: "1 - largest free run / free units at the end of the run",
			},
			[]string{"strategy"},
		),
	}
}

// Observe implements alloc.Observer.
func (m *Metrics) Observe(ev alloc.Event) {
	strategy := ev.Strategy.Short()

	m.OutcomesTotal.WithLabelValues(strategy, ev.Kind.String()).Inc()
	m.UnitsUsed.WithLabelValues(strategy).Set(float64(ev.Used))

	if ev.Kind == alloc.EventReleased {
		return
	}
	m.RequestUnits.WithLabelValues(strategy).Observe(float64(ev.Size))

	if ev.Kind == alloc.EventPlaced && ev.Strategy == alloc.QuickFit {
		source := "fallback"
		if ev.FromIndex {
			source = "index"
		}
		m.QuickFitTotal.WithLabelValues(source).Inc()
	}
}

// RecordFragmentation stores the end-of-run fragmentation for a strategy.
func (m *Metrics) RecordFragmentation(k alloc.Kind, f alloc.Fragmentation) {
	m.LargestFreeRun.WithLabelValues(k.Short()).Set(float64(f.LargestFreeRun))
	m.ExternalFragment.WithLabelValues(k.Short()).Set(f.External)
}

// WriteTextfile writes every metric in Prometheus text format to path.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
