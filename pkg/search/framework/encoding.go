package framework

import (
	"github.com/google/uuid"
)

// Encoding is a candidate test case. Identity is immutable, content is not:
// operators always Copy before they Mutate, so two live holders never share
// a mutable encoding.
type Encoding interface {
	ID() string

	// Copy returns a deep clone with a new identity. Bookkeeping (distances,
	// rank, crowding distance, execution result) is not carried over.
	Copy() Encoding
	// Mutate changes the content in place using the sampler for new values.
	Mutate(sampler EncodingSampler)

	Distance(objectiveID string) (float64, bool)
	SetDistance(objectiveID string, distance float64)

	Rank() int
	SetRank(rank int)
	CrowdingDistance() float64
	SetCrowdingDistance(distance float64)

	ExecutionResult() *ExecutionResult
	SetExecutionResult(result *ExecutionResult)
}

// Lengther is implemented by encodings that can report their size. It is used
// by the length secondary objective.
type Lengther interface {
	Length() int
}

// EncodingMeta carries identity and search bookkeeping. Concrete encodings
// embed it and only implement Copy and Mutate.
type EncodingMeta struct {
	id        string
	distances map[string]float64
	rank      int
	crowding  float64
	result    *ExecutionResult
}

// NewEncodingMeta returns bookkeeping with a fresh identity.
func NewEncodingMeta() EncodingMeta {
	return EncodingMeta{
		id:        uuid.NewString(),
		distances: make(map[string]float64),
	}
}

func (m *EncodingMeta) ID() string {
	return m.id
}

func (m *EncodingMeta) Distance(objectiveID string) (float64, bool) {
	d, ok := m.distances[objectiveID]
	return d, ok
}

func (m *EncodingMeta) SetDistance(objectiveID string, distance float64) {
	if m.distances == nil {
		m.distances = make(map[string]float64)
	}
	m.distances[objectiveID] = distance
}

func (m *EncodingMeta) Rank() int {
	return m.rank
}

func (m *EncodingMeta) SetRank(rank int) {
	m.rank = rank
}

func (m *EncodingMeta) CrowdingDistance() float64 {
	return m.crowding
}

func (m *EncodingMeta) SetCrowdingDistance(distance float64) {
	m.crowding = distance
}

func (m *EncodingMeta) ExecutionResult() *ExecutionResult {
	return m.result
}

// SetExecutionResult stores the result and drops distances computed for a
// previous execution.
func (m *EncodingMeta) SetExecutionResult(result *ExecutionResult) {
	m.result = result
	m.distances = make(map[string]float64)
}
