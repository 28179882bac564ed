package heuristics

import (
	"github.com/sbst-go/sbst/pkg/search/framework"
)

// ApproachLevelResult is the outcome of an approach level calculation.
type ApproachLevelResult struct {
	// Level counts the branch points between the closest covered node and the target.
	Level int
	// ClosestCoveredBranch is the trace of the node the execution diverged at.
	ClosestCoveredBranch framework.Trace
}

// ApproachLevel measures how far an execution stayed from a target node in
// terms of control-dependent branch points.
type ApproachLevel struct{}

type queued struct {
	id    string
	level int
}

// Calculate runs a reverse breadth-first search from target over incoming
// edges. A transition counts towards the level only when its source has more
// than one outgoing edge. The first covered source discovered wins; nodes are
// marked visited on discovery so the shortest path is returned. ok is false
// when no covered ancestor is reachable.
func (ApproachLevel) Calculate(graph framework.ControlFlowGraph, target string, traces []framework.Trace) (ApproachLevelResult, bool) {
	covered := make(map[string]framework.Trace, len(traces))
	for _, t := range traces {
		if t.Hits > 0 {
			if _, seen := covered[t.ID]; !seen {
				covered[t.ID] = t
			}
		}
	}

	visited := map[string]bool{target: true}
	queue := []queued{{id: target}}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, edge := range graph.IncomingEdges(current.id) {
			if visited[edge.Source] {
				continue
			}
			visited[edge.Source] = true

			level := current.level
			if len(graph.OutgoingEdges(edge.Source)) > 1 {
				level++
			}
			if trace, ok := covered[edge.Source]; ok {
				return ApproachLevelResult{Level: level, ClosestCoveredBranch: trace}, true
			}
			queue = append(queue, queued{id: edge.Source, level: level})
		}
	}
	return ApproachLevelResult{}, false
}
