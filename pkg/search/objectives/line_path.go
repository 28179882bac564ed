package objectives

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/sbst-go/sbst/pkg/search/framework"
)

// Line targets a source line (statement coverage).
type Line struct {
	structural
	line int
}

var _ framework.ObjectiveFunction = &Line{}

func NewLine(graph framework.ControlFlowGraph, line int) *Line {
	return &Line{structural: structural{graph: graph}, line: line}
}

func (l *Line) ID() string                    { return framework.ObjectiveID(l.Kind(), l.TargetID()) }
func (l *Line) Kind() framework.ObjectiveKind { return framework.LineObjective }
func (l *Line) TargetID() string              { return strconv.Itoa(l.line) }
func (l *Line) LineNumber() int               { return l.line }

func (l *Line) AnchorNode() (string, bool) {
	nodes := l.graph.FilterNodesByLineNumbers(l.line)
	if len(nodes) == 0 {
		return "", false
	}
	return nodes[0].ID, true
}

func (l *Line) Distance(e framework.Encoding) (float64, error) {
	r, err := executed(e, l.ID())
	if err != nil {
		return 0, err
	}
	if r.CoversLine(l.line) {
		return 0, nil
	}
	node, ok := l.AnchorNode()
	if !ok {
		return 1, nil
	}
	// the node spans several lines, only its first one is traced
	if r.CoversID(node) {
		return 0, nil
	}
	return l.distanceTo(node, r, true)
}

// Path targets a sequence of nodes that all have to be executed.
type Path struct {
	structural
	id    string
	nodes []string
}

var _ framework.ObjectiveFunction = &Path{}

// NewPath creates a path objective. An empty id is derived from the nodes.
func NewPath(graph framework.ControlFlowGraph, id string, nodes []string) *Path {
	if id == "" {
		id = strings.Join(nodes, "->")
	}
	return &Path{structural: structural{graph: graph}, id: id, nodes: slices.Clone(nodes)}
}

func (p *Path) ID() string                    { return framework.ObjectiveID(p.Kind(), p.id) }
func (p *Path) Kind() framework.ObjectiveKind { return framework.PathObjective }
func (p *Path) TargetID() string              { return p.id }
func (p *Path) Nodes() []string               { return slices.Clone(p.nodes) }

func (p *Path) AnchorNode() (string, bool) {
	if len(p.nodes) == 0 {
		return "", false
	}
	return p.nodes[0], true
}

// Distance is zero when every node of the path was hit. Otherwise it is the
// number of missed nodes after the first one plus the structural distance to
// the first missed node.
func (p *Path) Distance(e framework.Encoding) (float64, error) {
	r, err := executed(e, p.ID())
	if err != nil {
		return 0, err
	}
	if r.CoversID(p.id) {
		return 0, nil
	}

	missing := 0
	first := ""
	for _, n := range p.nodes {
		if !r.CoversID(n) {
			if missing == 0 {
				first = n
			}
			missing++
		}
	}
	if missing == 0 {
		return 0, nil
	}

	d, err := p.distanceTo(first, r, true)
	if errors.Is(err, ErrUnreachableTarget) {
		d = 1
	} else if err != nil {
		return 0, err
	}
	return float64(missing-1) + d, nil
}
