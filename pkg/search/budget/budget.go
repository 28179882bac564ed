// Package budget bounds a search run. Every budget follows the run lifecycle
// and reports how much of its allowance is left.
package budget

import (
	"github.com/sbst-go/sbst/pkg/search/framework"
)

// Budget is a named allowance consumed monotonically over one run.
type Budget interface {
	Name() string
	// Total is the full allowance, Remaining what is left of it. Both are in
	// the unit of the budget (iterations, evaluations, seconds).
	Total() float64
	Remaining() float64
	Used() float64

	InitializationStarted()
	InitializationStopped()
	SearchStarted()
	SearchStopped()
	Iteration(progress framework.SearchProgress)
	Evaluation()
}

// Budget names used in configuration.
const (
	IterationBudgetName  = "iterations"
	EvaluationBudgetName = "evaluations"
	SearchTimeBudgetName = "search-time"
	TotalTimeBudgetName  = "total-time"
	StagnationBudgetName = "stagnation"
)

// lifecycle implements every hook as a no-op.
type lifecycle struct{}

func (lifecycle) InitializationStarted()             {}
func (lifecycle) InitializationStopped()             {}
func (lifecycle) SearchStarted()                     {}
func (lifecycle) SearchStopped()                     {}
func (lifecycle) Iteration(framework.SearchProgress) {}
func (lifecycle) Evaluation()                        {}

// counter is the shared bookkeeping of count-based budgets.
type counter struct {
	total    int
	used     int
	tracking bool
}

func (c *counter) Total() float64 {
	return float64(c.total)
}

func (c *counter) Used() float64 {
	return float64(c.used)
}

func (c *counter) Remaining() float64 {
	if c.used >= c.total {
		return 0
	}
	return float64(c.total - c.used)
}

func (c *counter) consume() {
	if c.tracking && c.used < c.total {
		c.used++
	}
}

// IterationBudget counts search iterations. Initialization is not an iteration.
type IterationBudget struct {
	lifecycle
	counter
}

var _ Budget = &IterationBudget{}

func NewIterationBudget(iterations int) *IterationBudget {
	return &IterationBudget{counter: counter{total: iterations}}
}

func (b *IterationBudget) Name() string { return IterationBudgetName }

func (b *IterationBudget) SearchStarted() { b.tracking = true }
func (b *IterationBudget) SearchStopped() { b.tracking = false }

func (b *IterationBudget) Iteration(framework.SearchProgress) {
	b.consume()
}

// EvaluationBudget counts executions of encodings, including those of the
// initial population.
type EvaluationBudget struct {
	lifecycle
	counter
}

var _ Budget = &EvaluationBudget{}

func NewEvaluationBudget(evaluations int) *EvaluationBudget {
	return &EvaluationBudget{counter: counter{total: evaluations}}
}

func (b *EvaluationBudget) Name() string { return EvaluationBudgetName }

func (b *EvaluationBudget) InitializationStarted() { b.tracking = true }
func (b *EvaluationBudget) SearchStopped()         { b.tracking = false }

func (b *EvaluationBudget) Evaluation() {
	b.consume()
}

// StagnationBudget runs out after a number of consecutive iterations in which
// the number of covered objectives did not grow.
type StagnationBudget struct {
	lifecycle
	counter
	best int
}

var _ Budget = &StagnationBudget{}

func NewStagnationBudget(iterations int) *StagnationBudget {
	return &StagnationBudget{counter: counter{total: iterations}, best: -1}
}

func (b *StagnationBudget) Name() string { return StagnationBudgetName }

func (b *StagnationBudget) SearchStarted() { b.tracking = true }
func (b *StagnationBudget) SearchStopped() { b.tracking = false }

func (b *StagnationBudget) Iteration(progress framework.SearchProgress) {
	if !b.tracking {
		return
	}
	if progress.CoveredObjectives > b.best {
		b.best = progress.CoveredObjectives
		b.used = 0
		return
	}
	b.consume()
}
