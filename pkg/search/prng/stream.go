// Package prng is the single source of randomness of a search run. A Stream is
// seeded when it is constructed and has no way to be reseeded afterwards, so a
// run is reproducible from its seed alone.
package prng

import (
	"hash/fnv"

	"golang.org/x/exp/rand"
)

// Stream is a seeded pseudo random stream. It is not safe for concurrent use;
// a search run is single threaded.
type Stream struct {
	seed uint64
	rng  *rand.Rand
}

// New returns a stream seeded with seed.
func New(seed uint64) *Stream {
	return &Stream{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// FromString derives the seed from an arbitrary string, e.g. a seed given on
// the command line.
func FromString(seed string) *Stream {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	return New(h.Sum64())
}

// Seed returns the seed the stream was created with.
func (s *Stream) Seed() uint64 {
	return s.seed
}

// Float64 returns a number in [0, 1).
func (s *Stream) Float64() float64 {
	return s.rng.Float64()
}

// Intn returns a number in [0, n). It panics if n <= 0.
func (s *Stream) Intn(n int) int {
	return s.rng.Intn(n)
}

// IntRange returns a number in [lo, hi].
func (s *Stream) IntRange(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}

// Bool returns true with probability p.
func (s *Stream) Bool(p float64) bool {
	return s.rng.Float64() < p
}

// NormFloat64 returns a standard normal sample.
func (s *Stream) NormFloat64() float64 {
	return s.rng.NormFloat64()
}

// Shuffle permutes n elements through swap.
func (s *Stream) Shuffle(n int, swap func(i, j int)) {
	s.rng.Shuffle(n, swap)
}

// Pick returns a uniformly chosen element. It panics on an empty slice.
func Pick[T any](s *Stream, items []T) T {
	return items[s.Intn(len(items))]
}
