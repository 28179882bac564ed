package algorithms

import (
	"cmp"
	"context"
	"errors"
	"math"
	"slices"

	"github.com/sbst-go/sbst/pkg/search/framework"
	"github.com/sbst-go/sbst/pkg/search/operators"
)

// StrengthStrategy selects how SPEA2 computes the raw fitness of an encoding.
type StrengthStrategy string

const (
	// StrengthClassic sums the strengths of all dominators, the strength of
	// an encoding being the number of encodings it dominates.
	StrengthClassic StrengthStrategy = "classic"
	// StrengthCount counts the dominators.
	StrengthCount StrengthStrategy = "count"
	// StrengthObjectiveWise counts, per objective, the encodings that are
	// strictly closer, and sums over the objectives.
	StrengthObjectiveWise StrengthStrategy = "objective-wise"
	// StrengthUncovered is classic strength over the objectives no encoding
	// of the population covers yet.
	StrengthUncovered StrengthStrategy = "uncovered"
	// StrengthPreference is classic strength, except that the closest
	// encoding of any objective has a raw fitness of zero.
	StrengthPreference StrengthStrategy = "preference"
)

var ErrUnknownStrength = errors.New("unknown SPEA2 strength strategy")

// StrengthStrategies lists the valid strategies.
var StrengthStrategies = []StrengthStrategy{StrengthClassic, StrengthCount, StrengthObjectiveWise, StrengthUncovered, StrengthPreference}

func (s StrengthStrategy) valid() bool {
	return slices.Contains(StrengthStrategies, s)
}

// SPEA2 keeps a fixed-size external archive of the fittest encodings and
// breeds from it.
type SPEA2 struct {
	loop
	procreation *operators.Procreation
	population  []framework.Encoding
	archive     []framework.Encoding
}

var _ framework.Algorithm = &SPEA2{}

func (s *SPEA2) Search(ctx context.Context, subject framework.SearchSubject) (framework.ArchiveView, error) {
	return s.run(ctx, subject, s)
}

// Population returns the external archive of the algorithm.
func (s *SPEA2) Population() []framework.Encoding {
	return slices.Clone(s.archive)
}

func (s *SPEA2) initialize(ctx context.Context) error {
	s.population = s.sample(s.opts.PopulationSize)
	if _, err := s.opts.Manager.EvaluateMany(ctx, s.population); err != nil {
		return err
	}
	if err := s.opts.Manager.Rescore(ctx, s.population); err != nil {
		return err
	}
	next, err := s.environmentalSelection(s.population)
	if err != nil {
		return err
	}
	s.archive = next
	return nil
}

func (s *SPEA2) iterate(ctx context.Context) error {
	s.population = s.procreation.Generate(s.archive)
	if _, err := s.opts.Manager.EvaluateMany(ctx, s.population); err != nil {
		return err
	}
	merged := append(slices.Clone(s.population), s.archive...)
	if err := s.opts.Manager.Rescore(ctx, merged); err != nil {
		return err
	}
	next, err := s.environmentalSelection(merged)
	if err != nil {
		return err
	}
	s.archive = next
	return nil
}

func (s *SPEA2) environmentalSelection(population []framework.Encoding) ([]framework.Encoding, error) {
	objectives := s.opts.Manager.SearchObjectives()
	// Once nothing is left to search the answers live in the archive only.
	if len(objectives) == 0 {
		return population[:min(s.opts.ArchiveSize, len(population))], nil
	}
	return SPEA2Selection(population, objectives, s.opts.ArchiveSize, s.opts.Strength)
}

// SPEA2Selection selects size encodings: every encoding with a fitness below
// one, back-filled by ascending fitness or truncated by repeatedly removing
// the encoding closest to its neighbours. Selected encodings get their raw
// fitness as rank and their k-th nearest neighbour distance as crowding
// distance, which is what tournaments compare.
func SPEA2Selection(population []framework.Encoding, objectives []framework.ObjectiveFunction, size int, strategy StrengthStrategy) ([]framework.Encoding, error) {
	raw, err := rawFitness(population, objectives, strategy)
	if err != nil {
		return nil, err
	}
	points := make([]framework.ObjectiveSpacePoint, len(population))
	for i, e := range population {
		points[i] = operators.Point(e, objectives)
	}

	k := int(math.Sqrt(float64(len(population))))
	fitness := make([]float64, len(population))
	for i := range population {
		sigma := kthNearest(points, i, k)
		fitness[i] = raw[i] + 1/(sigma+2)
		population[i].SetRank(int(raw[i]))
		population[i].SetCrowdingDistance(sigma)
	}

	var selected, rest []int
	for i := range population {
		if fitness[i] < 1 {
			selected = append(selected, i)
		} else {
			rest = append(rest, i)
		}
	}

	if len(selected) < size {
		slices.SortStableFunc(rest, func(a, b int) int {
			return cmp.Compare(fitness[a], fitness[b])
		})
		selected = append(selected, rest[:min(size-len(selected), len(rest))]...)
	} else if len(selected) > size {
		selected = truncate(selected, points, size)
	}

	out := make([]framework.Encoding, len(selected))
	for i, idx := range selected {
		out[i] = population[idx]
	}
	return out, nil
}

func rawFitness(population []framework.Encoding, objectives []framework.ObjectiveFunction, strategy StrengthStrategy) ([]float64, error) {
	n := len(population)
	raw := make([]float64, n)

	switch strategy {
	case StrengthObjectiveWise:
		for _, o := range objectives {
			for i := range population {
				di := operators.Distance(population[i], o)
				for j := range population {
					if operators.Distance(population[j], o) < di {
						raw[i]++
					}
				}
			}
		}
		return raw, nil
	case StrengthUncovered:
		var open []framework.ObjectiveFunction
		for _, o := range objectives {
			if !slices.ContainsFunc(population, func(e framework.Encoding) bool { return operators.Distance(e, o) == 0 }) {
				open = append(open, o)
			}
		}
		if len(open) > 0 {
			objectives = open
		}
	}

	dominates := make([][]bool, n)
	strength := make([]float64, n)
	for i := range population {
		dominates[i] = make([]bool, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			c, err := operators.Compare(population[i], population[j], objectives)
			if err != nil {
				return nil, err
			}
			switch c {
			case -1:
				dominates[i][j] = true
				strength[i]++
			case 1:
				dominates[j][i] = true
				strength[j]++
			}
		}
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if !dominates[j][i] {
				continue
			}
			if strategy == StrengthCount {
				raw[i]++
			} else {
				raw[i] += strength[j]
			}
		}
	}

	if strategy == StrengthPreference {
		for _, o := range objectives {
			best := 0
			for i := range population {
				if operators.Distance(population[i], o) < operators.Distance(population[best], o) {
					best = i
				}
			}
			raw[best] = 0
		}
	}
	return raw, nil
}

func euclidean(a, b framework.ObjectiveSpacePoint) float64 {
	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// kthNearest returns the distance of point i to its k-th nearest neighbour,
// or zero without neighbours.
func kthNearest(points []framework.ObjectiveSpacePoint, i, k int) float64 {
	distances := make([]float64, 0, len(points)-1)
	for j := range points {
		if j != i {
			distances = append(distances, euclidean(points[i], points[j]))
		}
	}
	if len(distances) == 0 {
		return 0
	}
	slices.Sort(distances)
	k = max(1, min(k, len(distances)))
	return distances[k-1]
}

// truncate removes the index whose sorted neighbour distances are
// lexicographically smallest until size remain.
func truncate(selected []int, points []framework.ObjectiveSpacePoint, size int) []int {
	selected = slices.Clone(selected)
	for len(selected) > size {
		var victim int
		var victimDistances []float64
		for a, i := range selected {
			distances := make([]float64, 0, len(selected)-1)
			for _, j := range selected {
				if j != i {
					distances = append(distances, euclidean(points[i], points[j]))
				}
			}
			slices.Sort(distances)
			if victimDistances == nil || slices.Compare(distances, victimDistances) < 0 {
				victim, victimDistances = a, distances
			}
		}
		selected = slices.Delete(selected, victim, victim+1)
	}
	return selected
}
