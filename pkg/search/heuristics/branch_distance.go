package heuristics

import (
	"errors"
	"fmt"
	"math"

	"github.com/sbst-go/sbst/pkg/search/framework"
)

var (
	// ErrIndistinguishableCondition means a condition reported the same
	// distance for both outcomes, so it cannot discriminate between them.
	ErrIndistinguishableCondition = errors.New("condition has identical true and false distance")
	ErrUnsupportedOpcode          = errors.New("unsupported opcode")
	ErrNoSamples                  = errors.New("condition has no operand samples")
)

// Normalize maps a non-negative distance into [0, 1).
func Normalize(x float64) float64 {
	return x / (x + 1)
}

// BranchDistance measures how close a condition came to evaluating to an outcome.
type BranchDistance struct{}

// Calculate returns the normalized distance needed to flip the condition, that
// is the larger of the distances to true and to false. Variables provide the
// samples of operands given by name.
func (b BranchDistance) Calculate(conditionAST string, condition *framework.Condition, variables map[string][]float64) (float64, error) {
	if condition == nil {
		return 0, fmt.Errorf("%w: %q", ErrNoSamples, conditionAST)
	}
	left, right := operands(condition, variables)

	trueDistance, err := b.Distance(condition.Opcode, left, right, true)
	if err != nil {
		return 0, fmt.Errorf("condition %q: %w", conditionAST, err)
	}
	falseDistance, err := b.Distance(condition.Opcode, left, right, false)
	if err != nil {
		return 0, fmt.Errorf("condition %q: %w", conditionAST, err)
	}
	if trueDistance == falseDistance {
		return 0, fmt.Errorf("%w: %q (%v)", ErrIndistinguishableCondition, conditionAST, trueDistance)
	}
	return math.Max(trueDistance, falseDistance), nil
}

func operands(condition *framework.Condition, variables map[string][]float64) ([]float64, []float64) {
	left, right := condition.Left, condition.Right
	if len(left) == 0 && condition.LeftVariable != "" {
		left = variables[condition.LeftVariable]
	}
	if len(right) == 0 && condition.RightVariable != "" {
		right = variables[condition.RightVariable]
	}
	return left, right
}

// Distance returns the normalized distance for the condition to evaluate to
// target over paired samples left[i], right[i]. The smallest distance over all
// samples is used.
func (BranchDistance) Distance(opcode framework.Opcode, left, right []float64, target bool) (float64, error) {
	n := min(len(left), len(right))
	if n == 0 {
		return 0, ErrNoSamples
	}

	var raw float64
	switch opcode {
	case framework.OpEQ:
		if target {
			raw = minOver(n, func(i int) float64 { return math.Abs(left[i] - right[i]) })
		} else {
			raw = anyDifferent(n, left, right)
		}
	case framework.OpNEQ:
		if target {
			raw = anyDifferent(n, left, right)
		} else {
			raw = minOver(n, func(i int) float64 { return math.Abs(left[i] - right[i]) })
		}
	case framework.OpGT:
		if target {
			raw = minOver(n, func(i int) float64 {
				if left[i] > right[i] {
					return 0
				}
				return right[i] - left[i] + 1
			})
		} else {
			raw = minOver(n, func(i int) float64 {
				if left[i] <= right[i] {
					return 0
				}
				return left[i] - right[i]
			})
		}
	case framework.OpLT:
		if target {
			raw = minOver(n, func(i int) float64 {
				if left[i] < right[i] {
					return 0
				}
				return left[i] - right[i] + 1
			})
		} else {
			raw = minOver(n, func(i int) float64 {
				if left[i] >= right[i] {
					return 0
				}
				return right[i] - left[i]
			})
		}
	case framework.OpGE:
		if target {
			raw = minOver(n, func(i int) float64 {
				if left[i] >= right[i] {
					return 0
				}
				return right[i] - left[i]
			})
		} else {
			raw = minOver(n, func(i int) float64 {
				if left[i] < right[i] {
					return 0
				}
				return left[i] - right[i] + 1
			})
		}
	case framework.OpLE:
		if target {
			raw = minOver(n, func(i int) float64 {
				if left[i] <= right[i] {
					return 0
				}
				return left[i] - right[i]
			})
		} else {
			raw = minOver(n, func(i int) float64 {
				if left[i] > right[i] {
					return 0
				}
				return right[i] - left[i] + 1
			})
		}
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedOpcode, opcode)
	}
	return Normalize(raw), nil
}

func minOver(n int, f func(i int) float64) float64 {
	best := math.Inf(1)
	for i := 0; i < n; i++ {
		best = math.Min(best, f(i))
	}
	return best
}

// anyDifferent is 0 when some sample pair differs and 1 otherwise.
func anyDifferent(n int, left, right []float64) float64 {
	for i := 0; i < n; i++ {
		if left[i] != right[i] {
			return 0
		}
	}
	return 1
}
