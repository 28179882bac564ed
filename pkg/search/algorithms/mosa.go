package algorithms

import (
	"context"
	"slices"

	"github.com/sbst-go/sbst/pkg/search/framework"
	"github.com/sbst-go/sbst/pkg/search/operators"
)

// MOSA ranks on the objectives the manager currently searches and always
// keeps the closest encoding for each of them in the first front. Backed by
// the structural objective manager it is DynaMOSA.
type MOSA struct {
	NSGAII
}

var _ framework.Algorithm = &MOSA{}

func (m *MOSA) Search(ctx context.Context, subject framework.SearchSubject) (framework.ArchiveView, error) {
	return m.run(ctx, subject, m)
}

func (m *MOSA) initialize(ctx context.Context) error {
	m.population = m.sample(m.opts.PopulationSize)
	if _, err := m.opts.Manager.EvaluateMany(ctx, m.population); err != nil {
		return err
	}
	if err := m.opts.Manager.Rescore(ctx, m.population); err != nil {
		return err
	}
	return m.selectNext(m.population)
}

func (m *MOSA) iterate(ctx context.Context) error {
	offspring := m.procreation.Generate(m.population)
	if _, err := m.opts.Manager.EvaluateMany(ctx, offspring); err != nil {
		return err
	}
	merged := append(slices.Clone(m.population), offspring...)
	if err := m.opts.Manager.Rescore(ctx, merged); err != nil {
		return err
	}
	return m.selectNext(merged)
}

func (m *MOSA) selectNext(population []framework.Encoding) error {
	objectives := m.opts.Manager.SearchObjectives()
	if len(objectives) == 0 {
		m.population = population[:min(m.opts.PopulationSize, len(population))]
		return nil
	}
	fronts, err := PreferenceSort(population, objectives)
	if err != nil {
		return err
	}
	m.population = fill(fronts, objectives, m.opts.PopulationSize)
	return nil
}

// PreferenceSort puts the closest encoding of every objective in front 0 and
// sorts the others by non-dominance into the following fronts. Ties on
// distance go to the shorter encoding, then to the earlier one.
func PreferenceSort(population []framework.Encoding, objectives []framework.ObjectiveFunction) ([][]framework.Encoding, error) {
	preferred := make(map[string]bool)
	var first []framework.Encoding
	for _, o := range objectives {
		var best framework.Encoding
		for _, e := range population {
			if best == nil || closer(e, best, o) {
				best = e
			}
		}
		if best != nil && !preferred[best.ID()] {
			preferred[best.ID()] = true
			first = append(first, best)
		}
	}

	rest := make([]framework.Encoding, 0, len(population)-len(first))
	for _, e := range population {
		if !preferred[e.ID()] {
			rest = append(rest, e)
		}
	}
	for _, e := range first {
		e.SetRank(0)
	}

	fronts, err := operators.FastNonDominatedSort(rest, objectives)
	if err != nil {
		return nil, err
	}
	for i, front := range fronts {
		for _, e := range front {
			e.SetRank(i + 1)
		}
	}
	if len(first) == 0 {
		return fronts, nil
	}
	return append([][]framework.Encoding{first}, fronts...), nil
}

func closer(a, b framework.Encoding, o framework.ObjectiveFunction) bool {
	da, db := operators.Distance(a, o), operators.Distance(b, o)
	if da != db {
		return da < db
	}
	la, ok1 := a.(framework.Lengther)
	lb, ok2 := b.(framework.Lengther)
	return ok1 && ok2 && la.Length() < lb.Length()
}
