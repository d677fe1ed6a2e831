package diagram

import (
	"errors"
	"testing"
)

func TestParseEmptyReply(t *testing.T) {
	for _, text := range []string{"", "   \n\n", "flowchart TD\n---\n"} {
		g, err := Parse(text)
		if err != nil {
			t.Fatalf("parse %q: %v", text, err)
		}
		if !g.Empty() {
			t.Fatalf("expected empty graph for %q, got %d nodes", text, len(g.Nodes))
		}
	}
}

func TestParseNodeKindsFromShapes(t *testing.T) {
	text := "flowchart TD\n" +
		"A[Load input]\n" +
		"B([Call model])\n" +
		"C[[Search tool]]\n" +
		"D{Retry?}\n" +
		"---\n"
	g, err := Parse(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := map[string]NodeKind{
		"A": KindStep,
		"B": KindLLMCall,
		"C": KindTool,
		"D": KindDecision,
	}
	if len(g.Nodes) != len(want) {
		t.Fatalf("expected %d nodes, got %d", len(want), len(g.Nodes))
	}
	for id, kind := range want {
		node, ok := g.NodeByID(id)
		if !ok {
			t.Fatalf("node %q not declared", id)
		}
		if node.Kind != kind {
			t.Fatalf("node %q: got kind %q want %q", id, node.Kind, kind)
		}
	}
}

func TestParseEdgeChain(t *testing.T) {
	text := "A[First] --> B([Second]) -->|yes| C[Third]\n---\n"
	g, err := Parse(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(g.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(g.Edges))
	}
	if g.Edges[0].From != "A" || g.Edges[0].To != "B" || g.Edges[0].Label != "" {
		t.Fatalf("unexpected first edge: %+v", g.Edges[0])
	}
	if g.Edges[1].From != "B" || g.Edges[1].To != "C" || g.Edges[1].Label != "yes" {
		t.Fatalf("unexpected second edge: %+v", g.Edges[1])
	}
}

func TestParseBareReferenceAfterDeclaration(t *testing.T) {
	text := "A[Start]\nB{Branch}\nA --> B\nB -->|no| A\n---\n"
	g, err := Parse(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(g.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(g.Nodes))
	}
	if len(g.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(g.Edges))
	}
}

func TestParseDuplicateID(t *testing.T) {
	_, err := Parse("A[One]\nA[Two]\n---\n")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestParseDanglingEdge(t *testing.T) {
	_, err := Parse("A[One] --> Missing\nA[dup]\n---\n")
	if err == nil {
		t.Fatalf("expected error for duplicate, got nil")
	}
	_, err = Parse("A[One] --> B\n---\n")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError for dangling edge, got %v", err)
	}
}

func TestParseMissingSeparator(t *testing.T) {
	_, err := Parse("A[One]\nB[Two]\nA --> B\n")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError for missing separator, got %v", err)
	}
}

func TestParseMetadataAdditive(t *testing.T) {
	text := "A[Load] --> B([Ask])\n" +
		"---\n" +
		"A: {file: \"loader.py\", line: 12, function: \"load\", type: \"step\"}\n" +
		"Ghost: {file: \"nowhere.py\", line: 1}\n"
	g, err := Parse(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	a, _ := g.NodeByID("A")
	if a.Source.File != "loader.py" || a.Source.Line != 12 || a.Source.Function != "load" {
		t.Fatalf("unexpected source ref: %+v", a.Source)
	}
	b, _ := g.NodeByID("B")
	if b.Source != (SourceRef{}) {
		t.Fatalf("node without record should keep zero source, got %+v", b.Source)
	}
	// Ghost names no declared node and must not create one.
	if len(g.Nodes) != 2 {
		t.Fatalf("metadata created a node: %d nodes", len(g.Nodes))
	}
}

func TestParseMetadataUnknownField(t *testing.T) {
	text := "A[Load]\n---\nA: {file: \"a.py\", wat: 3}\n"
	var perr *ParseError
	if _, err := Parse(text); !errors.As(err, &perr) {
		t.Fatalf("expected ParseError for unknown field, got nil")
	}
}

func TestParseSkipsFramingAndComments(t *testing.T) {
	text := "flowchart TD\n" +
		"%% generated\n" +
		"subgraph main\n" +
		"A[Only]\n" +
		"end\n" +
		"---\n"
	g, err := Parse(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(g.Nodes) != 1 || g.Nodes[0].ID != "A" {
		t.Fatalf("unexpected nodes: %+v", g.Nodes)
	}
}

func TestParseFramingPrefixNotGreedy(t *testing.T) {
	// "endNode" starts with a framing keyword but is a real id.
	text := "endNode[Finish]\n---\n"
	g, err := Parse(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, ok := g.NodeByID("endNode"); !ok {
		t.Fatalf("endNode not declared: %+v", g.Nodes)
	}
}

func TestParseQuotedLabel(t *testing.T) {
	g, err := Parse("A[\"Fetch, then parse\"]\n---\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if g.Nodes[0].Label != "Fetch, then parse" {
		t.Fatalf("unexpected label: %q", g.Nodes[0].Label)
	}
}

func TestParseTwoDiagramsOneMetadataBlock(t *testing.T) {
	text := "flowchart TD\n" +
		"A[Load config] --> B([Call LLM])\n" +
		"\n" +
		"flowchart TD\n" +
		"C[Save result]\n" +
		"---\n" +
		"B: {file: \"agent.py\", line: 40, function: \"ask\"}\n"
	g, err := Parse(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(g.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(g.Nodes))
	}
	if len(g.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(g.Edges))
	}
	b, _ := g.NodeByID("B")
	if b.Kind != KindLLMCall || b.Source.File != "agent.py" || b.Source.Line != 40 {
		t.Fatalf("unexpected B: %+v", b)
	}
}
