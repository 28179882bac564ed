package objectivemanager

import (
	"github.com/sbst-go/sbst/pkg/search/framework"
	"github.com/sbst-go/sbst/pkg/search/objectives"
)

// policy decides which objectives are searched and what a covered objective
// unlocks.
type policy interface {
	name() string
	// load returns the ids of the objectives that start as current.
	load(graph framework.ControlFlowGraph, objs []framework.ObjectiveFunction) []string
	// children returns the ids unlocked by covering id.
	children(id string) []string
	// keepCovered reports whether covered objectives stay part of the ranking.
	keepCovered() bool
}

func allIDs(objs []framework.ObjectiveFunction) []string {
	ids := make([]string, 0, len(objs))
	for _, o := range objs {
		ids = append(ids, o.ID())
	}
	return ids
}

// simple searches every objective, covered or not, so that secondary
// objectives keep improving archived encodings.
type simple struct{}

func (simple) name() string { return SimpleManager }
func (simple) load(_ framework.ControlFlowGraph, objs []framework.ObjectiveFunction) []string {
	return allIDs(objs)
}
func (simple) children(string) []string { return nil }
func (simple) keepCovered() bool        { return true }

// uncovered searches every objective until it is covered.
type uncovered struct{}

func (uncovered) name() string { return UncoveredManager }
func (uncovered) load(_ framework.ControlFlowGraph, objs []framework.ObjectiveFunction) []string {
	return allIDs(objs)
}
func (uncovered) children(string) []string { return nil }
func (uncovered) keepCovered() bool        { return false }

// structural only searches objectives whose structural parents are covered.
// An objective's parents are the objectives anchored at the nearest nodes
// above it in the control-flow graph that carry any objective.
type structural struct {
	parents  map[string][]string
	childIDs map[string][]string
}

func newStructural() *structural {
	return &structural{}
}

func (s *structural) name() string      { return StructuralManager }
func (s *structural) keepCovered() bool { return false }

func (s *structural) children(id string) []string {
	return s.childIDs[id]
}

func (s *structural) load(graph framework.ControlFlowGraph, objs []framework.ObjectiveFunction) []string {
	s.parents = make(map[string][]string, len(objs))
	s.childIDs = make(map[string][]string, len(objs))

	anchors := make(map[string]string, len(objs))
	byNode := make(map[string][]string)
	for _, o := range objs {
		a, ok := o.(objectives.Anchored)
		if !ok {
			continue
		}
		node, ok := a.AnchorNode()
		if !ok {
			continue
		}
		anchors[o.ID()] = node
		byNode[node] = append(byNode[node], o.ID())
	}

	for _, o := range objs {
		node, ok := anchors[o.ID()]
		if !ok {
			continue
		}
		for _, p := range nearestAnchored(graph, node, byNode) {
			s.parents[o.ID()] = append(s.parents[o.ID()], p)
			s.childIDs[p] = append(s.childIDs[p], o.ID())
		}
	}

	var roots []string
	for _, o := range objs {
		if len(s.parents[o.ID()]) == 0 {
			roots = append(roots, o.ID())
		}
	}

	// Objectives that only depend on each other through a loop are not
	// reachable from any root; they become roots themselves.
	reached := make(map[string]bool, len(objs))
	reach := func(id string) {
		queue := []string{id}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			if reached[current] {
				continue
			}
			reached[current] = true
			queue = append(queue, s.childIDs[current]...)
		}
	}
	for _, r := range roots {
		reach(r)
	}
	for _, o := range objs {
		if !reached[o.ID()] {
			roots = append(roots, o.ID())
			reach(o.ID())
		}
	}
	return roots
}

// nearestAnchored walks the graph backwards from node and collects the
// objectives anchored at the first nodes that carry any. Node itself does not
// count.
func nearestAnchored(graph framework.ControlFlowGraph, node string, byNode map[string][]string) []string {
	var found []string
	visited := map[string]bool{node: true}
	queue := []string{node}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, e := range graph.IncomingEdges(current) {
			if visited[e.Source] {
				continue
			}
			visited[e.Source] = true
			if ids, ok := byNode[e.Source]; ok {
				found = append(found, ids...)
				continue
			}
			queue = append(queue, e.Source)
		}
	}
	return found
}
