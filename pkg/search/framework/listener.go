package framework

import (
	"context"
)

// SearchProgress is a snapshot of a running search handed to listeners and
// budgets. It is a value: holders cannot reach back into the search.
type SearchProgress struct {
	RunID     string
	Algorithm string
	Subject   string

	Iteration   int
	Evaluations int

	CurrentObjectives int
	CoveredObjectives int
	TotalObjectives   int
	ArchiveSize       int

	// BudgetRemaining is the smallest remaining fraction over all budgets.
	BudgetRemaining float64

	// Err is the error that ended the run, if any. Only set on completion.
	Err error
}

// Coverage is the covered share of the known objectives.
func (p SearchProgress) Coverage() float64 {
	if p.TotalObjectives == 0 {
		return 0
	}
	return float64(p.CoveredObjectives) / float64(p.TotalObjectives)
}

// Listener receives lifecycle notifications. Calls are fire-and-forget: the
// search never looks at anything a listener does. Every run that was started
// is completed, also when it fails.
type Listener interface {
	SearchStarted(ctx context.Context, progress SearchProgress)
	IterationCompleted(ctx context.Context, progress SearchProgress)
	SearchCompleted(ctx context.Context, progress SearchProgress)
}
