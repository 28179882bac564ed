package framework

// NodeType classifies control-flow graph nodes.
type NodeType string

const (
	EntryNode  NodeType = "entry"
	ExitNode   NodeType = "exit"
	NormalNode NodeType = "normal"
	BranchNode NodeType = "branch"
)

// Node is a basic block of the subject.
type Node struct {
	ID    string
	Type  NodeType
	Lines []int
}

// Edge connects two nodes. Label is "true"/"false" for branch edges.
type Edge struct {
	Source string
	Target string
	Label  string
}

// ControlFlowGraph is the accessor the heuristics and the structural objective
// manager need. Edges are returned in insertion order.
type ControlFlowGraph interface {
	NodeByID(id string) (*Node, bool)
	IncomingEdges(id string) []Edge
	OutgoingEdges(id string) []Edge
	FilterNodesByLineNumbers(lines ...int) []*Node
}
