// Package metrics exports the progress of search runs as prometheus metrics.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sbst-go/sbst/pkg/search/framework"
)

const (
	namespace = "sbst"
	subsystem = "search"
)

var labels = []string{"algorithm", "subject"}

// Listener updates the metrics on every lifecycle notification.
type Listener struct {
	runs        *prometheus.CounterVec
	iterations  *prometheus.CounterVec
	evaluations *prometheus.GaugeVec
	covered     *prometheus.GaugeVec
	objectives  *prometheus.GaugeVec
	current     *prometheus.GaugeVec
	budget      *prometheus.GaugeVec
	coverage    *prometheus.HistogramVec
}

var _ framework.Listener = &Listener{}

// NewListener registers the search metrics with reg.
func NewListener(reg prometheus.Registerer) *Listener {
	factory := promauto.With(reg)
	return &Listener{
		// runs counts search runs by lifecycle phase.
		// Labels: algorithm, subject, phase (started, completed, failed)
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "runs_total",
			Help:      "Search runs by phase",
		}, []string{"algorithm", "subject", "phase"}),
		iterations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "iterations_total",
			Help:      "Completed search iterations",
		}, labels),
		evaluations: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "evaluations",
			Help:      "Encodings executed in the current run",
		}, labels),
		covered: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "covered_objectives",
			Help:      "Objectives covered in the current run",
		}, labels),
		objectives: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "objectives",
			Help:      "Objectives known in the current run, exceptions included",
		}, labels),
		current: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "current_objectives",
			Help:      "Objectives the search is currently working on",
		}, labels),
		budget: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "budget_remaining_ratio",
			Help:      "Smallest remaining fraction over all budgets",
		}, labels),
		coverage: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "final_coverage_ratio",
			Help:      "Coverage reached by completed runs",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 1.0},
		}, labels),
	}
}

func (l *Listener) SearchStarted(_ context.Context, p framework.SearchProgress) {
	l.runs.WithLabelValues(p.Algorithm, p.Subject, "started").Inc()
	l.set(p)
}

func (l *Listener) IterationCompleted(_ context.Context, p framework.SearchProgress) {
	l.iterations.WithLabelValues(p.Algorithm, p.Subject).Inc()
	l.set(p)
}

func (l *Listener) SearchCompleted(_ context.Context, p framework.SearchProgress) {
	l.set(p)
	if p.Err != nil {
		l.runs.WithLabelValues(p.Algorithm, p.Subject, "failed").Inc()
		return
	}
	l.runs.WithLabelValues(p.Algorithm, p.Subject, "completed").Inc()
	l.coverage.WithLabelValues(p.Algorithm, p.Subject).Observe(p.Coverage())
}

func (l *Listener) set(p framework.SearchProgress) {
	l.evaluations.WithLabelValues(p.Algorithm, p.Subject).Set(float64(p.Evaluations))
	l.covered.WithLabelValues(p.Algorithm, p.Subject).Set(float64(p.CoveredObjectives))
	l.objectives.WithLabelValues(p.Algorithm, p.Subject).Set(float64(p.TotalObjectives))
	l.current.WithLabelValues(p.Algorithm, p.Subject).Set(float64(p.CurrentObjectives))
	l.budget.WithLabelValues(p.Algorithm, p.Subject).Set(p.BudgetRemaining)
}
