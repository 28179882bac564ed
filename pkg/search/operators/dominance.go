// Package operators holds the population-level building blocks shared by the
// evolutionary algorithms: Pareto dominance, non-dominated sorting, crowding
// distance, tournament selection and procreation.
package operators

import (
	"errors"
	"math"

	"github.com/sbst-go/sbst/pkg/search/framework"
)

// ErrNoObjectives is returned when dominance is asked for over no objectives.
var ErrNoObjectives = errors.New("dominance over an empty objective set")

// Distance returns the distance of e for objective. A distance that was not
// recorded is derived from the execution result of e and recorded. Encodings
// that were never executed are as far away as possible.
func Distance(e framework.Encoding, objective framework.ObjectiveFunction) float64 {
	if d, ok := e.Distance(objective.ID()); ok {
		return d
	}
	if e.ExecutionResult() == nil {
		return math.MaxFloat64
	}
	d, err := objective.Distance(e)
	if err != nil {
		return math.MaxFloat64
	}
	e.SetDistance(objective.ID(), d)
	return d
}

// Compare returns -1 when a dominates b, 1 when b dominates a and 0 when
// neither does. Distances are minimized.
func Compare(a, b framework.Encoding, objectives []framework.ObjectiveFunction) (int, error) {
	if len(objectives) == 0 {
		return 0, ErrNoObjectives
	}
	aBetter, bBetter := false, false
	for _, o := range objectives {
		da, db := Distance(a, o), Distance(b, o)
		if da < db {
			aBetter = true
		} else if db < da {
			bBetter = true
		}
		if aBetter && bBetter {
			return 0, nil
		}
	}
	switch {
	case aBetter:
		return -1, nil
	case bBetter:
		return 1, nil
	default:
		return 0, nil
	}
}

// Point returns the position of e in the objective space.
func Point(e framework.Encoding, objectives []framework.ObjectiveFunction) framework.ObjectiveSpacePoint {
	p := make(framework.ObjectiveSpacePoint, len(objectives))
	for i, o := range objectives {
		p[i] = Distance(e, o)
	}
	return p
}
