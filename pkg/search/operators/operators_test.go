package operators_test

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sbst-go/sbst/pkg/search/framework"
	"github.com/sbst-go/sbst/pkg/search/operators"
	"github.com/sbst-go/sbst/pkg/search/prng"
)

type objective int

func (o objective) ID() string                    { return framework.ObjectiveID(o.Kind(), o.TargetID()) }
func (o objective) Kind() framework.ObjectiveKind { return framework.BranchObjective }
func (o objective) TargetID() string              { return strconv.Itoa(int(o)) }
func (o objective) Distance(e framework.Encoding) (float64, error) {
	return operators.Distance(e, o), nil
}

func objectiveSet(n int) []framework.ObjectiveFunction {
	out := make([]framework.ObjectiveFunction, n)
	for i := range out {
		out[i] = objective(i)
	}
	return out
}

// point is an encoding whose distances are given directly.
type point struct {
	framework.EncodingMeta
	values  []float64
	mutated int
}

func newPoint(values ...float64) *point {
	p := &point{EncodingMeta: framework.NewEncodingMeta(), values: values}
	for i, v := range values {
		p.SetDistance(objective(i).ID(), v)
	}
	return p
}

func (p *point) Copy() framework.Encoding {
	return newPoint(slices.Clone(p.values)...)
}

func (p *point) Mutate(framework.EncodingSampler) {
	p.mutated++
}

func population(points ...*point) []framework.Encoding {
	out := make([]framework.Encoding, len(points))
	for i, p := range points {
		out[i] = p
	}
	return out
}

func TestCompare(t *testing.T) {
	objs := objectiveSet(2)
	tests := []struct {
		name string
		a, b *point
		want int
	}{
		{name: "a dominates", a: newPoint(1, 1), b: newPoint(2, 1), want: -1},
		{name: "b dominates", a: newPoint(3, 3), b: newPoint(1, 2), want: 1},
		{name: "trade-off", a: newPoint(1, 3), b: newPoint(3, 1), want: 0},
		{name: "equal", a: newPoint(2, 2), b: newPoint(2, 2), want: 0},
		{name: "missing distance is worst", a: newPoint(5), b: newPoint(5, 100), want: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := operators.Compare(tc.a, tc.b, objs)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("Compare = %d, want %d", got, tc.want)
			}
		})
	}

	if _, err := operators.Compare(newPoint(1), newPoint(2), nil); !errors.Is(err, operators.ErrNoObjectives) {
		t.Errorf("expected ErrNoObjectives, got %v", err)
	}
}

func TestFastNonDominatedSort(t *testing.T) {
	stream := prng.New(7)
	objs := objectiveSet(3)
	var pop []framework.Encoding
	for i := 0; i < 40; i++ {
		pop = append(pop, newPoint(float64(stream.Intn(10)), float64(stream.Intn(10)), float64(stream.Intn(10))))
	}

	fronts, err := operators.FastNonDominatedSort(pop, objs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	total := 0
	for rank, front := range fronts {
		total += len(front)
		for _, e := range front {
			if e.Rank() != rank {
				t.Errorf("encoding in front %d has rank %d", rank, e.Rank())
			}
		}
	}
	if total != len(pop) {
		t.Fatalf("fronts hold %d encodings, want %d", total, len(pop))
	}

	// nothing in the population dominates a member of the first front
	for _, f := range fronts[0] {
		for _, e := range pop {
			if c, _ := operators.Compare(e, f, objs); c == -1 {
				t.Errorf("front 0 member %v is dominated by %v", operators.Point(f, objs), operators.Point(e, objs))
			}
		}
	}

	// every later member is dominated by someone in the previous front
	for rank := 1; rank < len(fronts); rank++ {
		for _, e := range fronts[rank] {
			dominated := false
			for _, p := range fronts[rank-1] {
				if c, _ := operators.Compare(p, e, objs); c == -1 {
					dominated = true
					break
				}
			}
			if !dominated {
				t.Errorf("member of front %d is not dominated by front %d", rank, rank-1)
			}
		}
	}

	if _, err := operators.FastNonDominatedSort(pop, nil); !errors.Is(err, operators.ErrNoObjectives) {
		t.Errorf("expected ErrNoObjectives, got %v", err)
	}
}

func TestCrowdingDistance(t *testing.T) {
	objs := objectiveSet(3)

	single := population(newPoint(1, 1, 1))
	operators.CrowdingDistance(single, objs)
	if got := single[0].CrowdingDistance(); got != operators.BoundaryCrowdingDistance {
		t.Errorf("single member crowding = %v, want sentinel", got)
	}

	pair := population(newPoint(1, 2, 0), newPoint(2, 1, 0))
	operators.CrowdingDistance(pair, objs)
	for _, e := range pair {
		if e.CrowdingDistance() != operators.BoundaryCrowdingDistance {
			t.Errorf("pair member crowding = %v, want sentinel", e.CrowdingDistance())
		}
	}

	// the third objective is constant and must not contribute
	front := population(newPoint(1, 2, 3), newPoint(0, 4, 3), newPoint(4, 0, 3), newPoint(2, 1, 3))
	operators.CrowdingDistance(front, objs)
	got := make([]float64, len(front))
	for i, e := range front {
		got[i] = e.CrowdingDistance()
		if math.IsNaN(got[i]) {
			t.Fatalf("crowding distance is NaN")
		}
	}
	want := []float64{1.25, 2, 2, 1.25}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("crowding distances mismatch (-want +got):\n%s", diff)
	}

	operators.SortByCrowding(front)
	if front[0].CrowdingDistance() != operators.BoundaryCrowdingDistance || front[3].CrowdingDistance() != 1.25 {
		t.Errorf("front not sorted by descending crowding distance")
	}
}

func TestTournamentSelect(t *testing.T) {
	pop := population(newPoint(1), newPoint(2), newPoint(3))
	for i, e := range pop {
		e.SetRank(i)
	}
	best := operators.TournamentSelect(pop, 60, prng.New(1))
	if best.ID() != pop[0].ID() {
		t.Errorf("a large tournament must select the best ranked encoding")
	}

	tied := population(newPoint(1), newPoint(2))
	tied[0].SetCrowdingDistance(0.1)
	tied[1].SetCrowdingDistance(1.5)
	if got := operators.TournamentSelect(tied, 60, prng.New(1)); got.ID() != tied[1].ID() {
		t.Errorf("ties on rank must go to the larger crowding distance")
	}
}

type countingSampler struct{ sampled int }

func (s *countingSampler) Sample() framework.Encoding {
	s.sampled++
	return newPoint(9, 9)
}

type countingCrossover struct{ calls int }

func (c *countingCrossover) Crossover(p1, p2 framework.Encoding) (framework.Encoding, framework.Encoding) {
	c.calls++
	return p2.Copy(), p1.Copy()
}

func TestProcreationGenerate(t *testing.T) {
	tests := []struct {
		name          string
		probability   float64
		wantCrossover int
		wantMutated   int
	}{
		{name: "always crossover", probability: 1, wantCrossover: 3, wantMutated: 0},
		{name: "never crossover", probability: 0, wantCrossover: 0, wantMutated: 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parents := population(newPoint(1, 2), newPoint(2, 1), newPoint(3, 3))
			sampler := &countingSampler{}
			crossover := &countingCrossover{}
			p := &operators.Procreation{
				Crossover:            crossover,
				Sampler:              sampler,
				Stream:               prng.New(3),
				CrossoverProbability: tc.probability,
				TournamentSize:       2,
				PopulationSize:       5,
			}

			offspring := p.Generate(parents)
			if len(offspring) != 6 {
				t.Fatalf("got %d children, want population size plus one", len(offspring))
			}
			if sampler.sampled != 1 {
				t.Errorf("exactly one fresh encoding must be sampled, got %d", sampler.sampled)
			}
			if crossover.calls != tc.wantCrossover {
				t.Errorf("crossover calls = %d, want %d", crossover.calls, tc.wantCrossover)
			}

			mutated := 0
			for _, child := range offspring {
				for _, parent := range parents {
					if child.ID() == parent.ID() {
						t.Fatalf("children must be new encodings")
					}
				}
				mutated += child.(*point).mutated
			}
			// the sixth child of the last pair is dropped after mutation
			if mutated != tc.wantMutated {
				t.Errorf("mutated children = %d, want %d", mutated, tc.wantMutated)
			}
			for _, parent := range parents {
				if parent.(*point).mutated != 0 {
					t.Errorf("parents must not be mutated")
				}
			}
		})
	}
}
