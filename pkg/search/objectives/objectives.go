// Package objectives implements the coverage objectives of the search. Every
// objective is keyed by its kind and target id and is stateless apart from the
// control-flow graph and heuristics it is built with.
package objectives

import (
	"errors"
	"fmt"

	"github.com/sbst-go/sbst/pkg/search/framework"
	"github.com/sbst-go/sbst/pkg/search/heuristics"
)

var (
	// ErrUnreachableTarget means no covered ancestor of a target exists in the
	// control-flow graph although every target is reachable from the entry.
	// It points at a broken graph and ends the run.
	ErrUnreachableTarget = errors.New("no covered ancestor for target")
	ErrNotExecuted       = errors.New("encoding has no execution result")
)

// Anchored is implemented by objectives tied to a node of the control-flow
// graph. The structural objective manager derives dependencies from it.
type Anchored interface {
	AnchorNode() (string, bool)
}

// structural computes approach level plus normalized branch distance.
type structural struct {
	graph    framework.ControlFlowGraph
	approach heuristics.ApproachLevel
	branch   heuristics.BranchDistance
}

// distanceTo returns approachLevel + branchDistance for an uncovered node.
// Without a recorded condition the branch distance is that of a raw distance of one.
func (s structural) distanceTo(node string, result *framework.ExecutionResult, useCondition bool) (float64, error) {
	level, ok := s.approach.Calculate(s.graph, node, result.Traces)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnreachableTarget, node)
	}

	trace := level.ClosestCoveredBranch
	if !useCondition || trace.Condition == nil {
		return float64(level.Level) + heuristics.Normalize(1), nil
	}
	bd, err := s.branch.Calculate(trace.ConditionAST, trace.Condition, trace.Variables)
	if err != nil {
		return 0, fmt.Errorf("branch distance at %s: %w", trace.ID, err)
	}
	return float64(level.Level) + bd, nil
}

func executed(e framework.Encoding, id string) (*framework.ExecutionResult, error) {
	r := e.ExecutionResult()
	if r == nil {
		return nil, fmt.Errorf("%w: %s for objective %s", ErrNotExecuted, e.ID(), id)
	}
	return r, nil
}

// Branch targets the node a branch edge leads to.
type Branch struct {
	structural
	target string
}

var _ framework.ObjectiveFunction = &Branch{}

// NewBranch creates the objective for the branch successor node.
func NewBranch(graph framework.ControlFlowGraph, node string) *Branch {
	return &Branch{structural: structural{graph: graph}, target: node}
}

func (b *Branch) ID() string                    { return framework.ObjectiveID(b.Kind(), b.target) }
func (b *Branch) Kind() framework.ObjectiveKind { return framework.BranchObjective }
func (b *Branch) TargetID() string              { return b.target }
func (b *Branch) AnchorNode() (string, bool)    { return b.target, true }

func (b *Branch) Distance(e framework.Encoding) (float64, error) {
	r, err := executed(e, b.ID())
	if err != nil {
		return 0, err
	}
	if r.CoversID(b.target) {
		return 0, nil
	}
	return b.distanceTo(b.target, r, true)
}

// ImplicitBranch targets the outcome of a statement that may raise, for which
// no condition is instrumented.
type ImplicitBranch struct {
	structural
	target string
}

var _ framework.ObjectiveFunction = &ImplicitBranch{}

func NewImplicitBranch(graph framework.ControlFlowGraph, node string) *ImplicitBranch {
	return &ImplicitBranch{structural: structural{graph: graph}, target: node}
}

func (b *ImplicitBranch) ID() string                    { return framework.ObjectiveID(b.Kind(), b.target) }
func (b *ImplicitBranch) Kind() framework.ObjectiveKind { return framework.ImplicitBranchObjective }
func (b *ImplicitBranch) TargetID() string              { return b.target }
func (b *ImplicitBranch) AnchorNode() (string, bool)    { return b.target, true }

func (b *ImplicitBranch) Distance(e framework.Encoding) (float64, error) {
	r, err := executed(e, b.ID())
	if err != nil {
		return 0, err
	}
	if r.CoversID(b.target) {
		return 0, nil
	}
	return b.distanceTo(b.target, r, false)
}

// Function targets the entry of a function. Calls are not part of the
// intraprocedural graph so an uncovered function is at distance one.
type Function struct {
	graph  framework.ControlFlowGraph
	target string
}

var _ framework.ObjectiveFunction = &Function{}

func NewFunction(graph framework.ControlFlowGraph, entry string) *Function {
	return &Function{graph: graph, target: entry}
}

func (f *Function) ID() string                    { return framework.ObjectiveID(f.Kind(), f.target) }
func (f *Function) Kind() framework.ObjectiveKind { return framework.FunctionObjective }
func (f *Function) TargetID() string              { return f.target }

func (f *Function) AnchorNode() (string, bool) {
	_, ok := f.graph.NodeByID(f.target)
	return f.target, ok
}

func (f *Function) Distance(e framework.Encoding) (float64, error) {
	r, err := executed(e, f.ID())
	if err != nil {
		return 0, err
	}
	if r.CoversID(f.target) {
		return 0, nil
	}
	return 1, nil
}
