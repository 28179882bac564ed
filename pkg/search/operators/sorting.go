package operators

import (
	"slices"

	"github.com/sbst-go/sbst/pkg/search/framework"
)

// FastNonDominatedSort splits population into fronts. Front 0 holds the
// non-dominated encodings, and every encoding gets the index of its front as
// rank.
func FastNonDominatedSort(population []framework.Encoding, objectives []framework.ObjectiveFunction) ([][]framework.Encoding, error) {
	if len(population) == 0 {
		return nil, nil
	}
	dominated := make([][]int, len(population))
	domCount := make([]int, len(population))

	for i := 0; i < len(population); i++ {
		for j := i + 1; j < len(population); j++ {
			c, err := Compare(population[i], population[j], objectives)
			if err != nil {
				return nil, err
			}
			switch c {
			case -1:
				dominated[i] = append(dominated[i], j)
				domCount[j]++
			case 1:
				dominated[j] = append(dominated[j], i)
				domCount[i]++
			}
		}
	}

	var fronts [][]framework.Encoding
	var current []int
	for i := range population {
		if domCount[i] == 0 {
			current = append(current, i)
		}
	}

	for rank := 0; len(current) > 0; rank++ {
		front := make([]framework.Encoding, 0, len(current))
		var next []int
		for _, idx := range current {
			population[idx].SetRank(rank)
			front = append(front, population[idx])
			for _, d := range dominated[idx] {
				domCount[d]--
				if domCount[d] == 0 {
					next = append(next, d)
				}
			}
		}
		slices.Sort(next)
		fronts = append(fronts, front)
		current = next
	}
	return fronts, nil
}
