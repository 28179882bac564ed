package heuristics_test

import (
	"errors"
	"math"
	"testing"

	"github.com/sbst-go/sbst/pkg/search/cfg"
	"github.com/sbst-go/sbst/pkg/search/framework"
	"github.com/sbst-go/sbst/pkg/search/heuristics"
)

func buildGraph(t *testing.T, nodes []string, edges [][2]string) *cfg.Graph {
	t.Helper()
	g := cfg.NewGraph()
	for _, n := range nodes {
		if err := g.AddNode(framework.Node{ID: n}); err != nil {
			t.Fatalf("AddNode(%s): %v", n, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1], ""); err != nil {
			t.Fatalf("AddEdge(%v): %v", e, err)
		}
	}
	return g
}

func hits(ids ...string) []framework.Trace {
	out := make([]framework.Trace, 0, len(ids))
	for _, id := range ids {
		out = append(out, framework.Trace{ID: id, Hits: 1})
	}
	return out
}

func TestApproachLevel(t *testing.T) {
	diamond := [][2]string{{"ROOT", "1"}, {"1", "2"}, {"1", "3"}}
	chain := [][2]string{
		{"ROOT", "A"}, {"ROOT", "X"},
		{"A", "B"},
		{"B", "C"}, {"B", "D"},
	}

	tests := []struct {
		name      string
		nodes     []string
		edges     [][2]string
		traces    []framework.Trace
		target    string
		wantOK    bool
		wantLevel int
		wantNode  string
	}{
		{
			name:      "diverged at direct parent",
			nodes:     []string{"ROOT", "1", "2", "3"},
			edges:     diamond,
			traces:    hits("ROOT", "1", "3"),
			target:    "2",
			wantOK:    true,
			wantLevel: 1,
			wantNode:  "1",
		},
		{
			name:      "single exit nodes do not count",
			nodes:     []string{"ROOT", "A", "X", "B", "C", "D"},
			edges:     chain,
			traces:    hits("ROOT", "X"),
			target:    "C",
			wantOK:    true,
			wantLevel: 2,
			wantNode:  "ROOT",
		},
		{
			name:   "no covered ancestor",
			nodes:  []string{"ROOT", "1", "2", "3"},
			edges:  diamond,
			traces: []framework.Trace{{ID: "ROOT", Hits: 0}},
			target: "2",
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := buildGraph(t, tc.nodes, tc.edges)
			got, ok := heuristics.ApproachLevel{}.Calculate(g, tc.target, tc.traces)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if got.Level != tc.wantLevel {
				t.Errorf("level = %d, want %d", got.Level, tc.wantLevel)
			}
			if got.ClosestCoveredBranch.ID != tc.wantNode {
				t.Errorf("closest covered = %s, want %s", got.ClosestCoveredBranch.ID, tc.wantNode)
			}
		})
	}
}

func TestBranchDistanceOpcodes(t *testing.T) {
	tests := []struct {
		name   string
		opcode framework.Opcode
		left   []float64
		right  []float64
		target bool
		want   float64
	}{
		{name: "EQ true satisfied", opcode: framework.OpEQ, left: []float64{10, 11}, right: []float64{10, 12}, target: true, want: 0},
		{name: "EQ false all equal", opcode: framework.OpEQ, left: []float64{10, 11}, right: []float64{10, 11}, target: false, want: 0.5},
		{name: "EQ true off by four", opcode: framework.OpEQ, left: []float64{1}, right: []float64{5}, target: true, want: 0.8},
		{name: "NEQ true all equal", opcode: framework.OpNEQ, left: []float64{2}, right: []float64{2}, target: true, want: 0.5},
		{name: "NEQ false", opcode: framework.OpNEQ, left: []float64{2}, right: []float64{5}, target: false, want: 0.75},
		{name: "GT true", opcode: framework.OpGT, left: []float64{3}, right: []float64{5}, target: true, want: 0.75},
		{name: "GT false", opcode: framework.OpGT, left: []float64{5}, right: []float64{3}, target: false, want: 2.0 / 3.0},
		{name: "LT true", opcode: framework.OpLT, left: []float64{5}, right: []float64{5}, target: true, want: 0.5},
		{name: "LT false", opcode: framework.OpLT, left: []float64{1}, right: []float64{4}, target: false, want: 0.75},
		{name: "GE true", opcode: framework.OpGE, left: []float64{1}, right: []float64{2}, target: true, want: 0.5},
		{name: "LE false", opcode: framework.OpLE, left: []float64{2}, right: []float64{2}, target: false, want: 0.5},
		{name: "minimum over samples", opcode: framework.OpGT, left: []float64{0, 4}, right: []float64{9, 5}, target: true, want: 2.0 / 3.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := heuristics.BranchDistance{}.Distance(tc.opcode, tc.left, tc.right, tc.target)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("distance = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBranchDistanceCalculate(t *testing.T) {
	bd := heuristics.BranchDistance{}

	got, err := bd.Calculate("a > b", &framework.Condition{Opcode: framework.OpGT, Left: []float64{3}, Right: []float64{5}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-0.75) > 1e-9 {
		t.Errorf("Calculate = %v, want 0.75", got)
	}

	vars := map[string][]float64{"a": {3}, "b": {5}}
	got, err = bd.Calculate("a > b", &framework.Condition{Opcode: framework.OpGT, LeftVariable: "a", RightVariable: "b"}, vars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-0.75) > 1e-9 {
		t.Errorf("Calculate with variables = %v, want 0.75", got)
	}

	_, err = bd.Calculate("a == b", &framework.Condition{Opcode: framework.OpEQ, Left: []float64{1, 2}, Right: []float64{1, 3}}, nil)
	if !errors.Is(err, heuristics.ErrIndistinguishableCondition) {
		t.Errorf("expected ErrIndistinguishableCondition, got %v", err)
	}

	_, err = bd.Calculate("a ~ b", &framework.Condition{Opcode: "XOR", Left: []float64{1}, Right: []float64{2}}, nil)
	if !errors.Is(err, heuristics.ErrUnsupportedOpcode) {
		t.Errorf("expected ErrUnsupportedOpcode, got %v", err)
	}

	_, err = bd.Calculate("a < b", &framework.Condition{Opcode: framework.OpLT}, nil)
	if !errors.Is(err, heuristics.ErrNoSamples) {
		t.Errorf("expected ErrNoSamples, got %v", err)
	}
}

func TestNormalizeBounds(t *testing.T) {
	for _, x := range []float64{0, 0.1, 1, 10, 1e9} {
		n := heuristics.Normalize(x)
		if n < 0 || n >= 1 {
			t.Errorf("Normalize(%v) = %v, want [0,1)", x, n)
		}
	}
}
