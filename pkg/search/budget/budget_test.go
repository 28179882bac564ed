package budget_test

import (
	"errors"
	"testing"
	"time"

	clocktesting "k8s.io/utils/clock/testing"

	"github.com/sbst-go/sbst/pkg/search/budget"
	"github.com/sbst-go/sbst/pkg/search/framework"
)

func TestIterationBudgetIgnoresInitialization(t *testing.T) {
	b := budget.NewIterationBudget(2)
	m := budget.NewManager(b)

	m.InitializationStarted()
	m.Iteration(framework.SearchProgress{})
	m.InitializationStopped()
	if b.Used() != 0 {
		t.Fatalf("iterations before the search started must not count, used %v", b.Used())
	}

	m.SearchStarted()
	m.Iteration(framework.SearchProgress{})
	if !m.HasBudgetLeft() {
		t.Fatalf("one of two iterations used, budget must be left")
	}
	m.Iteration(framework.SearchProgress{})
	if m.HasBudgetLeft() {
		t.Fatalf("budget must be exhausted after two iterations")
	}
	m.Iteration(framework.SearchProgress{})
	if b.Remaining() != 0 || b.Used() != 2 {
		t.Errorf("remaining %v used %v, want 0 and 2", b.Remaining(), b.Used())
	}
}

func TestEvaluationBudgetCountsInitialization(t *testing.T) {
	b := budget.NewEvaluationBudget(3)
	m := budget.NewManager(b)

	m.Evaluation()
	if b.Used() != 0 {
		t.Fatalf("evaluations before the run must not count")
	}
	m.InitializationStarted()
	m.Evaluation()
	m.Evaluation()
	m.InitializationStopped()
	m.SearchStarted()
	m.Evaluation()
	if m.HasBudgetLeft() {
		t.Errorf("three evaluations must exhaust the budget")
	}
}

func TestTimeBudgets(t *testing.T) {
	clock := clocktesting.NewFakePassiveClock(time.Unix(0, 0))
	search := budget.NewSearchTimeBudget(10*time.Second, clock)
	total := budget.NewTotalTimeBudget(15*time.Second, clock)
	m := budget.NewManager(search, total)

	m.InitializationStarted()
	clock.SetTime(clock.Now().Add(4 * time.Second))
	m.InitializationStopped()
	m.SearchStarted()

	if got := search.Remaining(); got != 10 {
		t.Errorf("search time remaining = %v, want 10", got)
	}
	if got := total.Remaining(); got != 11 {
		t.Errorf("total time remaining = %v, want 11", got)
	}

	clock.SetTime(clock.Now().Add(11 * time.Second))
	if m.HasBudgetLeft() {
		t.Errorf("total time budget must be exhausted")
	}
	if got := search.Remaining(); got != 0 {
		t.Errorf("search time remaining = %v, want 0", got)
	}

	m.SearchStopped()
	clock.SetTime(clock.Now().Add(time.Hour))
	if got := search.Used(); got != 10 {
		t.Errorf("used time must freeze when the search stops, got %v", got)
	}
}

func TestStagnationBudget(t *testing.T) {
	b := budget.NewStagnationBudget(2)
	m := budget.NewManager(b)
	m.SearchStarted()

	steps := []struct {
		covered  int
		wantLeft bool
	}{
		{covered: 1, wantLeft: true},
		{covered: 1, wantLeft: true},
		{covered: 2, wantLeft: true},
		{covered: 2, wantLeft: true},
		{covered: 2, wantLeft: false},
	}
	for i, step := range steps {
		m.Iteration(framework.SearchProgress{CoveredObjectives: step.covered})
		if got := m.HasBudgetLeft(); got != step.wantLeft {
			t.Fatalf("step %d: HasBudgetLeft = %v, want %v", i, got, step.wantLeft)
		}
	}
}

func TestHasBudgetLeftIsConjunction(t *testing.T) {
	iterations := budget.NewIterationBudget(1)
	evaluations := budget.NewEvaluationBudget(100)
	m := budget.NewManager(iterations, evaluations)
	m.InitializationStarted()
	m.SearchStarted()

	if !m.HasBudgetLeft() {
		t.Fatalf("fresh budgets must be left")
	}
	m.Iteration(framework.SearchProgress{})
	if m.HasBudgetLeft() {
		t.Errorf("one exhausted budget must stop the search")
	}
	if evaluations.Remaining() <= 0 {
		t.Errorf("the other budget is untouched")
	}
}

func TestGetBudget(t *testing.T) {
	iterations := budget.NewIterationBudget(3)
	evaluations := budget.NewEvaluationBudget(8)
	m := budget.NewManager(iterations, evaluations)
	m.InitializationStarted()
	m.SearchStarted()

	if got := m.GetBudget(); got != 1 {
		t.Errorf("GetBudget = %v, want 1", got)
	}
	m.Evaluation()
	m.Iteration(framework.SearchProgress{})
	// iterations 2/3 = 0.666..., evaluations 7/8 = 0.875
	if got := m.GetBudget(); got != 0.67 {
		t.Errorf("GetBudget = %v, want 0.67", got)
	}
}

func TestManagerLookup(t *testing.T) {
	m := budget.NewManager(budget.NewIterationBudget(1))

	if _, err := m.Get(budget.IterationBudgetName); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := m.Get(budget.EvaluationBudgetName); !errors.Is(err, budget.ErrBudgetNotFound) {
		t.Errorf("Get: expected ErrBudgetNotFound, got %v", err)
	}
	if err := m.Remove(budget.SearchTimeBudgetName); !errors.Is(err, budget.ErrBudgetNotFound) {
		t.Errorf("Remove: expected ErrBudgetNotFound, got %v", err)
	}
	if err := m.Remove(budget.IterationBudgetName); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Budgets()) != 0 {
		t.Errorf("budget was not removed")
	}
}
