package operators

import (
	"github.com/sbst-go/sbst/pkg/search/framework"
	"github.com/sbst-go/sbst/pkg/search/prng"
)

// TournamentSelect draws size contestants and returns the one with the lowest
// rank, breaking ties by the larger crowding distance.
func TournamentSelect(population []framework.Encoding, size int, stream *prng.Stream) framework.Encoding {
	if size < 2 {
		size = 2
	}
	best := prng.Pick(stream, population)
	for i := 1; i < size; i++ {
		contestant := prng.Pick(stream, population)
		if contestant.Rank() < best.Rank() ||
			(contestant.Rank() == best.Rank() && contestant.CrowdingDistance() > best.CrowdingDistance()) {
			best = contestant
		}
	}
	return best
}

// Procreation creates the offspring of a generation.
type Procreation struct {
	Crossover            framework.Crossover
	Sampler              framework.EncodingSampler
	Stream               *prng.Stream
	CrossoverProbability float64
	TournamentSize       int
	PopulationSize       int
}

// Generate selects parent pairs by tournament until PopulationSize children
// exist. A pair is recombined with the crossover probability, otherwise both
// parents are copied and mutated. One freshly sampled encoding is appended.
// Parents are never modified.
func (p *Procreation) Generate(population []framework.Encoding) []framework.Encoding {
	offspring := make([]framework.Encoding, 0, p.PopulationSize+1)
	for len(population) > 0 && len(offspring) < p.PopulationSize {
		parent1 := TournamentSelect(population, p.TournamentSize, p.Stream)
		parent2 := TournamentSelect(population, p.TournamentSize, p.Stream)

		var child1, child2 framework.Encoding
		if p.Crossover != nil && p.Stream.Bool(p.CrossoverProbability) {
			child1, child2 = p.Crossover.Crossover(parent1, parent2)
		} else {
			child1, child2 = parent1.Copy(), parent2.Copy()
			child1.Mutate(p.Sampler)
			child2.Mutate(p.Sampler)
		}

		offspring = append(offspring, child1)
		if len(offspring) < p.PopulationSize {
			offspring = append(offspring, child2)
		}
	}
	return append(offspring, p.Sampler.Sample())
}
