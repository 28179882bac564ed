package benchmarks

import (
	"slices"

	"github.com/sbst-go/sbst/pkg/search/framework"
	"github.com/sbst-go/sbst/pkg/search/prng"
)

// VectorEncoding is a fixed-length vector of integer arguments.
type VectorEncoding struct {
	framework.EncodingMeta
	values []int
}

var (
	_ framework.Encoding = &VectorEncoding{}
	_ framework.Lengther = &VectorEncoding{}
)

func NewVectorEncoding(values ...int) *VectorEncoding {
	return &VectorEncoding{EncodingMeta: framework.NewEncodingMeta(), values: slices.Clone(values)}
}

func (v *VectorEncoding) Values() []int {
	return slices.Clone(v.values)
}

func (v *VectorEncoding) Copy() framework.Encoding {
	return NewVectorEncoding(v.values...)
}

// Length counts the non-zero arguments, so simpler inputs are preferred.
func (v *VectorEncoding) Length() int {
	n := 0
	for _, x := range v.values {
		if x != 0 {
			n++
		}
	}
	return n
}

// Mutate changes each argument with probability 1/n. Samplers of other
// encodings leave the vector unchanged.
func (v *VectorEncoding) Mutate(sampler framework.EncodingSampler) {
	s, ok := sampler.(*VectorSampler)
	if !ok || len(v.values) == 0 {
		return
	}
	p := 1 / float64(len(v.values))
	changed := false
	for i := range v.values {
		if s.stream.Bool(p) {
			v.values[i] = s.mutate(v.values[i])
			changed = true
		}
	}
	if !changed {
		i := s.stream.Intn(len(v.values))
		v.values[i] = s.mutate(v.values[i])
	}
}

// VectorSampler draws vectors with values in [Min, Max].
type VectorSampler struct {
	stream   *prng.Stream
	arity    int
	min, max int
}

var _ framework.EncodingSampler = &VectorSampler{}

func NewVectorSampler(stream *prng.Stream, arity, lo, hi int) *VectorSampler {
	return &VectorSampler{stream: stream, arity: arity, min: lo, max: hi}
}

// SamplerFor returns a sampler matching the arguments of program.
func SamplerFor(program *Program, stream *prng.Stream) *VectorSampler {
	return NewVectorSampler(stream, program.arity, program.min, program.max)
}

func (s *VectorSampler) Sample() framework.Encoding {
	values := make([]int, s.arity)
	for i := range values {
		values[i] = s.value()
	}
	return NewVectorEncoding(values...)
}

// value favours the boundaries and zero, which conditions often compare with.
func (s *VectorSampler) value() int {
	switch r := s.stream.Float64(); {
	case r < 0.05:
		return s.min
	case r < 0.1:
		return s.max
	case r < 0.15 && s.min <= 0 && s.max >= 0:
		return 0
	default:
		return s.stream.IntRange(s.min, s.max)
	}
}

// mutate either resamples the value or takes a small gaussian step.
func (s *VectorSampler) mutate(x int) int {
	if s.stream.Bool(0.2) {
		return s.value()
	}
	step := int(s.stream.NormFloat64() * 3)
	if step == 0 {
		step = 1
		if s.stream.Bool(0.5) {
			step = -1
		}
	}
	return min(s.max, max(s.min, x+step))
}
