// Package cfg provides an in-memory control-flow graph that satisfies
// framework.ControlFlowGraph. Static analysis front ends build one per subject.
package cfg

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sbst-go/sbst/pkg/search/framework"
)

var (
	ErrDuplicateNode = errors.New("duplicate node")
	ErrUnknownNode   = errors.New("unknown node")
)

// Graph is an adjacency-list control-flow graph. Nodes and edges keep their
// insertion order so that every traversal is deterministic.
type Graph struct {
	order    []string
	nodes    map[string]*framework.Node
	incoming map[string][]framework.Edge
	outgoing map[string][]framework.Edge
}

var _ framework.ControlFlowGraph = &Graph{}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:    make(map[string]*framework.Node),
		incoming: make(map[string][]framework.Edge),
		outgoing: make(map[string][]framework.Edge),
	}
}

// AddNode registers a node.
func (g *Graph) AddNode(node framework.Node) error {
	if _, ok := g.nodes[node.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, node.ID)
	}
	n := node
	n.Lines = slices.Clone(node.Lines)
	g.nodes[node.ID] = &n
	g.order = append(g.order, node.ID)
	return nil
}

// AddEdge connects two registered nodes.
func (g *Graph) AddEdge(source, target, label string) error {
	if _, ok := g.nodes[source]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, source)
	}
	if _, ok := g.nodes[target]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, target)
	}
	e := framework.Edge{Source: source, Target: target, Label: label}
	g.outgoing[source] = append(g.outgoing[source], e)
	g.incoming[target] = append(g.incoming[target], e)
	return nil
}

func (g *Graph) NodeByID(id string) (*framework.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

func (g *Graph) IncomingEdges(id string) []framework.Edge {
	return g.incoming[id]
}

func (g *Graph) OutgoingEdges(id string) []framework.Edge {
	return g.outgoing[id]
}

// FilterNodesByLineNumbers returns the nodes spanning any of the lines, in
// insertion order.
func (g *Graph) FilterNodesByLineNumbers(lines ...int) []*framework.Node {
	var out []*framework.Node
	for _, id := range g.order {
		n := g.nodes[id]
		for _, l := range n.Lines {
			if slices.Contains(lines, l) {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

// Nodes returns every node in insertion order.
func (g *Graph) Nodes() []*framework.Node {
	out := make([]*framework.Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// IsBranchPoint reports whether a node has more than one outgoing edge.
func IsBranchPoint(graph framework.ControlFlowGraph, id string) bool {
	return len(graph.OutgoingEdges(id)) > 1
}
