// Package benchmarks provides small instrumented subjects together with an
// integer vector encoding, its sampler and crossovers, and a runner that
// executes them. It exercises the search end to end without a language front
// end.
package benchmarks

import (
	"errors"
	"fmt"

	"github.com/sbst-go/sbst/pkg/search/cfg"
	"github.com/sbst-go/sbst/pkg/search/framework"
	"github.com/sbst-go/sbst/pkg/search/objectives"
)

var (
	ErrUnknownSubject      = errors.New("unknown benchmark subject")
	ErrUnsupportedEncoding = errors.New("encoding is not a vector encoding")
	ErrUnsupportedSubject  = errors.New("subject is not a benchmark program")
)

// Block is a node of a program together with the source text of its
// condition, if it branches.
type Block struct {
	framework.Node
	Condition string
}

// Program is an instrumented function over an integer vector. Body reports
// the blocks it enters and the conditions it evaluates through the probe.
// A panic in Body is an exception raised by the subject.
type Program struct {
	name       string
	arity      int
	min, max   int
	graph      *cfg.Graph
	conditions map[string]string
	objectives []framework.ObjectiveFunction
	body       func(p *Probe, args []int)
}

var _ framework.SearchSubject = &Program{}

// NewProgram builds the graph of a program and derives its objectives: one
// function objective for the entry, one branch objective per successor of a
// branch block and one line objective per source line.
func NewProgram(name string, arity, lo, hi int, blocks []Block, edges []framework.Edge, body func(p *Probe, args []int)) (*Program, error) {
	p := &Program{
		name:       name,
		arity:      arity,
		min:        lo,
		max:        hi,
		graph:      cfg.NewGraph(),
		conditions: make(map[string]string),
		body:       body,
	}
	for _, b := range blocks {
		if err := p.graph.AddNode(b.Node); err != nil {
			return nil, fmt.Errorf("program %s: %w", name, err)
		}
		if b.Condition != "" {
			p.conditions[b.ID] = b.Condition
		}
	}
	for _, e := range edges {
		if err := p.graph.AddEdge(e.Source, e.Target, e.Label); err != nil {
			return nil, fmt.Errorf("program %s: %w", name, err)
		}
	}

	seen := make(map[string]bool)
	add := func(o framework.ObjectiveFunction) {
		if !seen[o.ID()] {
			seen[o.ID()] = true
			p.objectives = append(p.objectives, o)
		}
	}
	for _, n := range p.graph.Nodes() {
		if n.Type == framework.EntryNode {
			add(objectives.NewFunction(p.graph, n.ID))
		}
	}
	for _, n := range p.graph.Nodes() {
		if !cfg.IsBranchPoint(p.graph, n.ID) {
			continue
		}
		for _, e := range p.graph.OutgoingEdges(n.ID) {
			add(objectives.NewBranch(p.graph, e.Target))
		}
	}
	for _, n := range p.graph.Nodes() {
		for _, line := range n.Lines {
			add(objectives.NewLine(p.graph, line))
		}
	}
	return p, nil
}

func (p *Program) Name() string                              { return p.name }
func (p *Program) CFG() framework.ControlFlowGraph           { return p.graph }
func (p *Program) Objectives() []framework.ObjectiveFunction { return p.objectives }

// Arity is the number of integer arguments the program takes.
func (p *Program) Arity() int { return p.arity }

// Bounds returns the inclusive range of every argument.
func (p *Program) Bounds() (int, int) { return p.min, p.max }

// Probe records what one execution of a program does.
type Probe struct {
	hits       map[string]int
	conditions map[string]*framework.Condition
}

func newProbe() *Probe {
	return &Probe{
		hits:       make(map[string]int),
		conditions: make(map[string]*framework.Condition),
	}
}

// Enter marks a block as executed.
func (p *Probe) Enter(id string) {
	p.hits[id]++
}

// Branch marks a branch block as executed, records the operands of its
// condition and returns the outcome.
func (p *Probe) Branch(id string, op framework.Opcode, left, right int) bool {
	p.hits[id]++
	c, ok := p.conditions[id]
	if !ok {
		c = &framework.Condition{Opcode: op}
		p.conditions[id] = c
	}
	l, r := float64(left), float64(right)
	c.Left = append(c.Left, l)
	c.Right = append(c.Right, r)

	switch op {
	case framework.OpEQ:
		return l == r
	case framework.OpNEQ:
		return l != r
	case framework.OpGT:
		return l > r
	case framework.OpLT:
		return l < r
	case framework.OpGE:
		return l >= r
	case framework.OpLE:
		return l <= r
	default:
		panic(fmt.Sprintf("unsupported opcode %s", op))
	}
}

// traces turns the probe into one trace per block of the program.
func (p *Probe) traces(program *Program) []framework.Trace {
	nodes := program.graph.Nodes()
	out := make([]framework.Trace, 0, len(nodes))
	for _, n := range nodes {
		t := framework.Trace{ID: n.ID, Hits: p.hits[n.ID], Type: framework.StatementTrace}
		if len(n.Lines) > 0 {
			t.Line = n.Lines[0]
		}
		switch {
		case n.Type == framework.EntryNode:
			t.Type = framework.FunctionTrace
		case cfg.IsBranchPoint(program.graph, n.ID):
			t.Type = framework.BranchTrace
			t.ConditionAST = program.conditions[n.ID]
			t.Condition = p.conditions[n.ID]
		}
		out = append(out, t)
	}
	return out
}
