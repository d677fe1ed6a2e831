package diagram

// NodeKind classifies a node by the shape delimiters used in the diagram.
type NodeKind string

const (
	KindStep     NodeKind = "step"     // A[Label]
	KindLLMCall  NodeKind = "llm-call" // A([Label])
	KindTool     NodeKind = "tool"     // A[[Label]]
	KindDecision NodeKind = "decision" // A{Label}
)

// SourceRef is provenance metadata attached to a node from the metadata
// block. All fields are optional; a node without a metadata record has a
// zero SourceRef.
type SourceRef struct {
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Function string `json:"function,omitempty"`
}

// Node is a single step in the extracted workflow.
type Node struct {
	ID     string    `json:"id"`
	Label  string    `json:"label"`
	Kind   NodeKind  `json:"kind"`
	Source SourceRef `json:"source"`
}

// Edge is a directed transition between two declared nodes.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// Graph is the extracted workflow graph. Nodes and edges keep their
// declaration order. An empty graph is a valid result: the analyzed code
// makes no LLM calls.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Empty reports whether the graph declares no nodes.
func (g *Graph) Empty() bool { return g == nil || len(g.Nodes) == 0 }

// NodeByID returns the node with the given id, if declared.
func (g *Graph) NodeByID(id string) (*Node, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}
