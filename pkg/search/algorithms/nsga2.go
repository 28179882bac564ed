package algorithms

import (
	"context"
	"slices"

	"github.com/sbst-go/sbst/pkg/search/framework"
	"github.com/sbst-go/sbst/pkg/search/operators"
)

// NSGAII is the generational non-dominated sorting genetic algorithm. The
// objectives are those the objective manager currently searches.
type NSGAII struct {
	loop
	procreation *operators.Procreation
	population  []framework.Encoding
}

var _ framework.Algorithm = &NSGAII{}

func (n *NSGAII) Search(ctx context.Context, subject framework.SearchSubject) (framework.ArchiveView, error) {
	return n.run(ctx, subject, n)
}

// Population returns the current population.
func (n *NSGAII) Population() []framework.Encoding {
	return slices.Clone(n.population)
}

func (n *NSGAII) initialize(ctx context.Context) error {
	n.population = n.sample(n.opts.PopulationSize)
	if _, err := n.opts.Manager.EvaluateMany(ctx, n.population); err != nil {
		return err
	}
	if err := n.opts.Manager.Rescore(ctx, n.population); err != nil {
		return err
	}
	selected, err := EnvironmentalSelection(n.population, n.opts.Manager.SearchObjectives(), n.opts.PopulationSize)
	if err != nil {
		return err
	}
	n.population = selected
	return nil
}

func (n *NSGAII) iterate(ctx context.Context) error {
	offspring := n.procreation.Generate(n.population)
	if _, err := n.opts.Manager.EvaluateMany(ctx, offspring); err != nil {
		return err
	}
	merged := append(slices.Clone(n.population), offspring...)
	if err := n.opts.Manager.Rescore(ctx, merged); err != nil {
		return err
	}
	selected, err := EnvironmentalSelection(merged, n.opts.Manager.SearchObjectives(), n.opts.PopulationSize)
	if err != nil {
		return err
	}
	n.population = selected
	return nil
}

// EnvironmentalSelection keeps the best size encodings of population: whole
// fronts while they fit, then the most isolated members of the first front
// that does not.
func EnvironmentalSelection(population []framework.Encoding, objectives []framework.ObjectiveFunction, size int) ([]framework.Encoding, error) {
	if len(objectives) == 0 {
		return population[:min(size, len(population))], nil
	}
	fronts, err := operators.FastNonDominatedSort(population, objectives)
	if err != nil {
		return nil, err
	}
	return fill(fronts, objectives, size), nil
}

// fill takes fronts in order until size encodings are selected. Crowding
// distances are computed for every front so tournaments can use them.
func fill(fronts [][]framework.Encoding, objectives []framework.ObjectiveFunction, size int) []framework.Encoding {
	next := make([]framework.Encoding, 0, size)
	for _, front := range fronts {
		operators.CrowdingDistance(front, objectives)
		if len(next) >= size {
			continue
		}
		if len(next)+len(front) <= size {
			next = append(next, front...)
			continue
		}
		rest := slices.Clone(front)
		operators.SortByCrowding(rest)
		next = append(next, rest[:size-len(next)]...)
	}
	return next
}
