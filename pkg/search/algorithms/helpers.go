package algorithms

import (
	"github.com/sbst-go/sbst/pkg/search/framework"
	"github.com/sbst-go/sbst/pkg/search/operators"
)

// ParetoFront extracts the first non-dominated front of population as points
// in the objective space.
func ParetoFront(population []framework.Encoding, objectives []framework.ObjectiveFunction) ([]framework.ObjectiveSpacePoint, error) {
	if len(population) == 0 {
		return nil, nil
	}

	fronts, err := operators.FastNonDominatedSort(population, objectives)
	if err != nil {
		return nil, err
	}
	if len(fronts) == 0 || len(fronts[0]) == 0 {
		return nil, nil
	}

	paretoFront := make([]framework.ObjectiveSpacePoint, len(fronts[0]))
	for i, e := range fronts[0] {
		paretoFront[i] = operators.Point(e, objectives)
	}
	return paretoFront, nil
}
