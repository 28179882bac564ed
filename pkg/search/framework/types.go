package framework

import (
	"context"
)

// ObjectiveKind names the coverage criterion an objective belongs to.
type ObjectiveKind string

const (
	BranchObjective         ObjectiveKind = "branch"
	FunctionObjective       ObjectiveKind = "function"
	LineObjective           ObjectiveKind = "line"
	PathObjective           ObjectiveKind = "path"
	ExceptionObjective      ObjectiveKind = "exception"
	ImplicitBranchObjective ObjectiveKind = "implicit-branch"
)

// ObjectiveFunction is a single coverage target expressed as a distance.
// Distance is zero iff the encoding covers the target and is never negative.
type ObjectiveFunction interface {
	// ID is the stable key "<kind>:<target>" used by every map in the search.
	ID() string
	Kind() ObjectiveKind
	TargetID() string
	Distance(encoding Encoding) (float64, error)
}

// ObjectiveID derives the stable key of an objective from its kind and target.
func ObjectiveID(kind ObjectiveKind, target string) string {
	return string(kind) + ":" + target
}

// ObjectiveSpacePoint represents an N-dimensional point in the objective space.
// For objectives o1..oN the point of an encoding e is [o1(e), ..., oN(e)].
type ObjectiveSpacePoint []float64

// SearchSubject is the unit under test as seen by the search: a stable
// identity, its control-flow graph and the objectives derived from it.
type SearchSubject interface {
	Name() string
	CFG() ControlFlowGraph
	Objectives() []ObjectiveFunction
}

// EncodingRunner executes an encoding against the subject. Exceptions raised by
// the candidate are reported in the result, a non-nil error means the runner
// itself failed.
type EncodingRunner interface {
	Execute(ctx context.Context, subject SearchSubject, encoding Encoding) (*ExecutionResult, error)
}

// EncodingSampler creates fresh random encodings and supplies values while mutating.
type EncodingSampler interface {
	Sample() Encoding
}

// Crossover recombines two parents into two new children. Parents are never modified.
type Crossover interface {
	Crossover(parent1, parent2 Encoding) (Encoding, Encoding)
}

// TerminationTrigger reports an external request to stop the search.
type TerminationTrigger interface {
	IsTriggered() bool
}

// Algorithm describes the contract a search algorithm implements.
type Algorithm interface {
	Name() string
	Search(ctx context.Context, subject SearchSubject) (ArchiveView, error)
}

// ArchiveView is the read-only side of the archive handed to callers.
type ArchiveView interface {
	Size() int
	Has(objective ObjectiveFunction) bool
	Get(objective ObjectiveFunction) (Encoding, bool)
	Objectives() []ObjectiveFunction
	Encodings() []Encoding
}
