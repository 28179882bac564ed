package framework

import (
	"slices"
	"time"
)

// ExecutionStatus is the outcome of running an encoding.
type ExecutionStatus string

const (
	StatusPassed  ExecutionStatus = "passed"
	StatusFailed  ExecutionStatus = "failed"
	StatusTimeout ExecutionStatus = "timeout"
)

// TraceType tells what kind of instrumented element a trace belongs to.
type TraceType string

const (
	BranchTrace         TraceType = "branch"
	FunctionTrace       TraceType = "function"
	StatementTrace      TraceType = "statement"
	PathTrace           TraceType = "path"
	ImplicitBranchTrace TraceType = "implicit-branch"
)

// Opcode is the comparison a branch condition evaluated.
type Opcode string

const (
	OpEQ  Opcode = "EQ"
	OpNEQ Opcode = "NEQ"
	OpGT  Opcode = "GT"
	OpLT  Opcode = "LT"
	OpGE  Opcode = "GE"
	OpLE  Opcode = "LE"
)

// Condition holds the operand samples a branch condition was evaluated with.
// Left[i] and Right[i] belong to the same evaluation. When a side is empty its
// samples are looked up in the trace variables under LeftVariable or
// RightVariable.
type Condition struct {
	Opcode        Opcode
	Left          []float64
	Right         []float64
	LeftVariable  string
	RightVariable string
}

// Trace is one instrumented element of the subject after an execution. IDs
// are unique within one result.
type Trace struct {
	ID           string
	Line         int
	Type         TraceType
	Hits         int
	Condition    *Condition
	ConditionAST string
	Variables    map[string][]float64
}

// ExecutionResult is what a runner reports for one encoding.
type ExecutionResult struct {
	Status   ExecutionStatus
	Traces   []Trace
	Duration time.Duration
	// Exception is the text of an exception the candidate raised, if any.
	Exception string
	// ExceptionID is the hash key of Exception, set by the objective manager.
	ExceptionID string
}

// CoversID reports whether the trace with the given id was hit, or whether the
// id is the hash of the exception this execution raised.
func (r *ExecutionResult) CoversID(id string) bool {
	if r == nil {
		return false
	}
	if r.ExceptionID != "" && r.ExceptionID == id {
		return true
	}
	t, ok := r.TraceByID(id)
	return ok && t.Hits > 0
}

// CoversLine reports whether any hit trace sits on the given line.
func (r *ExecutionResult) CoversLine(line int) bool {
	if r == nil {
		return false
	}
	return slices.ContainsFunc(r.Traces, func(t Trace) bool {
		return t.Line == line && t.Hits > 0
	})
}

// HasException reports whether the candidate raised an exception.
func (r *ExecutionResult) HasException() bool {
	return r != nil && r.Exception != ""
}

// TraceByID returns the trace with the given id.
func (r *ExecutionResult) TraceByID(id string) (Trace, bool) {
	if r == nil {
		return Trace{}, false
	}
	for _, t := range r.Traces {
		if t.ID == id {
			return t, true
		}
	}
	return Trace{}, false
}
