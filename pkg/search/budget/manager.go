package budget

import (
	"errors"
	"fmt"
	"math"

	"github.com/sbst-go/sbst/pkg/search/framework"
)

// ErrBudgetNotFound is returned when a budget name is not registered.
var ErrBudgetNotFound = errors.New("budget not found")

// Manager composes the budgets of a run. Budgets are kept in registration
// order and every lifecycle call reaches all of them.
type Manager struct {
	order   []string
	budgets map[string]Budget
}

func NewManager(budgets ...Budget) *Manager {
	m := &Manager{budgets: make(map[string]Budget, len(budgets))}
	for _, b := range budgets {
		m.Add(b)
	}
	return m
}

// Add registers b, replacing a budget with the same name.
func (m *Manager) Add(b Budget) {
	if _, ok := m.budgets[b.Name()]; !ok {
		m.order = append(m.order, b.Name())
	}
	m.budgets[b.Name()] = b
}

func (m *Manager) Remove(name string) error {
	if _, ok := m.budgets[name]; !ok {
		return fmt.Errorf("%w: %q", ErrBudgetNotFound, name)
	}
	delete(m.budgets, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Manager) Get(name string) (Budget, error) {
	b, ok := m.budgets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBudgetNotFound, name)
	}
	return b, nil
}

// Budgets returns the registered budgets in registration order.
func (m *Manager) Budgets() []Budget {
	out := make([]Budget, 0, len(m.order))
	for _, n := range m.order {
		out = append(out, m.budgets[n])
	}
	return out
}

// HasBudgetLeft is false as soon as one budget is exhausted.
func (m *Manager) HasBudgetLeft() bool {
	for _, b := range m.budgets {
		if b.Remaining() <= 0 {
			return false
		}
	}
	return true
}

// GetBudget returns the smallest remaining fraction over all budgets rounded
// to two decimals. It is meant for progress reporting only.
func (m *Manager) GetBudget() float64 {
	fraction := 1.0
	for _, b := range m.budgets {
		if b.Total() <= 0 {
			fraction = 0
			continue
		}
		fraction = math.Min(fraction, b.Remaining()/b.Total())
	}
	return math.Round(fraction*100) / 100
}

func (m *Manager) InitializationStarted() {
	for _, b := range m.Budgets() {
		b.InitializationStarted()
	}
}

func (m *Manager) InitializationStopped() {
	for _, b := range m.Budgets() {
		b.InitializationStopped()
	}
}

func (m *Manager) SearchStarted() {
	for _, b := range m.Budgets() {
		b.SearchStarted()
	}
}

func (m *Manager) SearchStopped() {
	for _, b := range m.Budgets() {
		b.SearchStopped()
	}
}

func (m *Manager) Iteration(progress framework.SearchProgress) {
	for _, b := range m.Budgets() {
		b.Iteration(progress)
	}
}

func (m *Manager) Evaluation() {
	for _, b := range m.Budgets() {
		b.Evaluation()
	}
}
