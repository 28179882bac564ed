package benchmarks

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sbst-go/sbst/pkg/search/framework"
	"github.com/sbst-go/sbst/pkg/search/prng"
)

var ErrUnknownCrossover = errors.New("unknown crossover")

// Crossover names used in configuration.
const (
	OnePoint = "one-point"
	TwoPoint = "two-point"
	Uniform  = "uniform"
	KPoint   = "k-point"
)

// CrossoverFunc recombines two integer chromosomes of equal length.
type CrossoverFunc func(stream *prng.Stream, p1, p2 []int) (child1, child2 []int)

// OnePointCrossover creates offspring by selecting a random cut point
func OnePointCrossover(stream *prng.Stream, p1, p2 []int) ([]int, []int) {
	child1 := make([]int, len(p1))
	child2 := make([]int, len(p2))

	point := stream.Intn(len(p1))

	for i := 0; i < point; i++ {
		child1[i] = p1[i]
		child2[i] = p2[i]
	}
	for i := point; i < len(p1); i++ {
		child1[i] = p2[i]
		child2[i] = p1[i]
	}

	return child1, child2
}

// TwoPointCrossover swaps the genes between two random cut points
func TwoPointCrossover(stream *prng.Stream, p1, p2 []int) ([]int, []int) {
	child1 := make([]int, len(p1))
	child2 := make([]int, len(p2))

	point1 := stream.Intn(len(p1))
	point2 := stream.Intn(len(p1))
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	for i := 0; i < len(p1); i++ {
		if i < point1 || i >= point2 {
			child1[i] = p1[i]
			child2[i] = p2[i]
		} else {
			child1[i] = p2[i]
			child2[i] = p1[i]
		}
	}

	return child1, child2
}

// UniformCrossover picks every gene from either parent with equal chance
func UniformCrossover(stream *prng.Stream, p1, p2 []int) ([]int, []int) {
	child1 := make([]int, len(p1))
	child2 := make([]int, len(p2))

	for i := range p1 {
		if stream.Bool(0.5) {
			child1[i] = p1[i]
			child2[i] = p2[i]
		} else {
			child1[i] = p2[i]
			child2[i] = p1[i]
		}
	}

	return child1, child2
}

// KPointCrossover alternates parents between k distinct cut points. k is
// capped at len-1.
func KPointCrossover(stream *prng.Stream, p1, p2 []int, k int) ([]int, []int) {
	if len(p1) < 2 {
		return slices.Clone(p1), slices.Clone(p2)
	}
	k = max(1, min(k, len(p1)-1))
	child1 := make([]int, len(p1))
	child2 := make([]int, len(p2))

	points := make([]int, 0, k+2)
	points = append(points, 0)
	used := make(map[int]bool)
	for len(points) < k+1 {
		point := 1 + stream.Intn(len(p1)-1)
		if !used[point] {
			used[point] = true
			points = append(points, point)
		}
	}
	points = append(points, len(p1))
	slices.Sort(points)

	swap := false
	for i := 0; i < k+1; i++ {
		for j := points[i]; j < points[i+1]; j++ {
			if swap {
				child1[j] = p2[j]
				child2[j] = p1[j]
			} else {
				child1[j] = p1[j]
				child2[j] = p2[j]
			}
		}
		swap = !swap
	}

	return child1, child2
}

// VectorCrossover applies a CrossoverFunc to vector encodings.
type VectorCrossover struct {
	name   string
	stream *prng.Stream
	fn     CrossoverFunc
}

var _ framework.Crossover = &VectorCrossover{}

// NewCrossover resolves a crossover by name. k is used by k-point only.
func NewCrossover(name string, stream *prng.Stream, k int) (*VectorCrossover, error) {
	var fn CrossoverFunc
	switch name {
	case OnePoint:
		fn = OnePointCrossover
	case TwoPoint:
		fn = TwoPointCrossover
	case Uniform:
		fn = UniformCrossover
	case KPoint:
		fn = func(stream *prng.Stream, p1, p2 []int) ([]int, []int) {
			return KPointCrossover(stream, p1, p2, k)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCrossover, name)
	}
	return &VectorCrossover{name: name, stream: stream, fn: fn}, nil
}

func (c *VectorCrossover) Name() string {
	return c.name
}

// Crossover returns two new encodings. Parents of another encoding type or
// of different length are copied unchanged.
func (c *VectorCrossover) Crossover(parent1, parent2 framework.Encoding) (framework.Encoding, framework.Encoding) {
	v1, ok1 := parent1.(*VectorEncoding)
	v2, ok2 := parent2.(*VectorEncoding)
	if !ok1 || !ok2 || len(v1.values) != len(v2.values) || len(v1.values) == 0 {
		return parent1.Copy(), parent2.Copy()
	}
	c1, c2 := c.fn(c.stream, v1.values, v2.values)
	return NewVectorEncoding(c1...), NewVectorEncoding(c2...)
}
