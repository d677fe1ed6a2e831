package diagram

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParseError reports a structural problem in the model's reply. The
// Diagnostic string names the offending line or id and is safe to embed
// into a corrective re-prompt.
type ParseError struct {
	Diagnostic string
}

func (e *ParseError) Error() string { return "diagram: " + e.Diagnostic }

func parseErrorf(format string, args ...any) error {
	return &ParseError{Diagnostic: fmt.Sprintf(format, args...)}
}

// Separator divides the diagram section from the metadata section.
const Separator = "---"

var (
	// reEdge splits "a -->|label| b" and "a -> b" relations. The label
	// between pipes is optional.
	reEdge = regexp.MustCompile(`--?>(?:\|([^|]*)\|)?`)

	// reNodeDecl matches "id<open>label<close>" with the shape delimiters
	// captured separately. Longer delimiters must be tried before their
	// single-character prefixes.
	reNodeDecl = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*)\s*(\(\[|\[\[|\[|\{|\()\s*(.*?)\s*(\]\)|\]\]|\]|\}|\))$`)

	reBareID = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

	// reMetaRecord matches one "id: {field: value, ...}" metadata record.
	reMetaRecord = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*)\s*:\s*\{(.*)\}\s*,?$`)

	reMetaField = regexp.MustCompile(`(\w+)\s*:\s*(?:"([^"]*)"|'([^']*)'|([^,}]+))`)
)

// framing keywords opening or closing a mermaid-style flowchart block.
// Lines led by one of these carry no node or edge content.
var framingKeywords = map[string]struct{}{
	"flowchart": {}, "graph": {}, "subgraph": {}, "end": {},
	"direction": {}, "classdef": {}, "class": {}, "style": {},
	"linkstyle": {},
}

// shapeKinds maps an open/close delimiter pair to the node kind it
// encodes.
var shapeKinds = map[string]NodeKind{
	"[]":   KindStep,
	"([])": KindLLMCall,
	"[[]]": KindTool,
	"{}":   KindDecision,
}

// Parse turns a normalized model reply into a Graph.
//
// The reply is one or more flow diagrams, a separator line, and a
// metadata block of "id: {file: ..., line: ..., function: ..., type: ...}"
// records. A reply declaring zero nodes yields an empty graph and no
// error; that is the documented no-LLM-calls outcome. Every structural
// violation returns a *ParseError and leaves no partial state behind.
func Parse(text string) (Graph, error) {
	diagramPart, metaPart, hasSep := splitSections(text)

	var g Graph
	declared := map[string]int{}

	for _, raw := range strings.Split(diagramPart, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || isComment(line) || isFraming(line) {
			continue
		}
		if err := parseDiagramLine(line, &g, declared); err != nil {
			return Graph{}, err
		}
	}

	if len(g.Nodes) == 0 {
		// No declarations at all: empty graph, metadata (if any) is moot.
		return Graph{}, nil
	}
	if !hasSep {
		return Graph{}, parseErrorf("missing %q separator before the metadata block", Separator)
	}

	if err := parseMetadata(metaPart, &g, declared); err != nil {
		return Graph{}, err
	}

	for _, e := range g.Edges {
		if _, ok := declared[e.From]; !ok {
			return Graph{}, parseErrorf("edge references undeclared node id %q", e.From)
		}
		if _, ok := declared[e.To]; !ok {
			return Graph{}, parseErrorf("edge references undeclared node id %q", e.To)
		}
	}
	return g, nil
}

// splitSections divides the reply at the first separator line.
func splitSections(text string) (diagrams, meta string, found bool) {
	lines := strings.Split(text, "\n")
	for i, raw := range lines {
		if strings.TrimSpace(raw) == Separator {
			return strings.Join(lines[:i], "\n"), strings.Join(lines[i+1:], "\n"), true
		}
	}
	return text, "", false
}

func isComment(line string) bool {
	return strings.HasPrefix(line, "%%") || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#")
}

func isFraming(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	_, ok := framingKeywords[strings.ToLower(fields[0])]
	return ok
}

// parseDiagramLine handles one content line: a node declaration, an edge
// chain, or both ("A[Load] --> B([Ask])" declares two nodes and one edge).
func parseDiagramLine(line string, g *Graph, declared map[string]int) error {
	matches := reEdge.FindAllStringSubmatchIndex(line, -1)

	// Endpoints around each arrow token: "A[x] --> B --> C" yields the
	// segments A[x], B, C and two pending edges.
	segStart := 0
	for _, m := range matches {
		seg := strings.TrimSpace(line[segStart:m[0]])
		id, err := parseEndpoint(seg, line, g, declared)
		if err != nil {
			return err
		}
		label := ""
		if m[2] >= 0 {
			label = strings.TrimSpace(line[m[2]:m[3]])
		}
		g.Edges = append(g.Edges, Edge{From: id, Label: label})
		segStart = m[1]
	}

	last := strings.TrimSpace(line[segStart:])
	if len(matches) == 0 {
		if last == "" {
			return nil
		}
		_, err := parseEndpoint(last, line, g, declared)
		return err
	}

	id, err := parseEndpoint(last, line, g, declared)
	if err != nil {
		return err
	}
	// Each pending edge points at the endpoint that follows its arrow.
	first := len(g.Edges) - len(matches)
	for i := first; i < len(g.Edges)-1; i++ {
		g.Edges[i].To = g.Edges[i+1].From
	}
	g.Edges[len(g.Edges)-1].To = id
	return nil
}

// parseEndpoint parses one arrow endpoint: either a full node declaration
// or a bare reference to an id declared elsewhere.
func parseEndpoint(seg, line string, g *Graph, declared map[string]int) (string, error) {
	if seg == "" {
		return "", parseErrorf("dangling arrow on line %q", line)
	}
	if reBareID.MatchString(seg) {
		return seg, nil
	}
	m := reNodeDecl.FindStringSubmatch(seg)
	if m == nil {
		return "", parseErrorf("unparseable node declaration %q on line %q", seg, line)
	}
	id, opener, label, closer := m[1], m[2], m[3], m[4]
	kind, ok := shapeKinds[opener+closer]
	if !ok {
		return "", parseErrorf("unrecognized shape delimiters %q...%q on line %q", opener, closer, line)
	}
	if _, dup := declared[id]; dup {
		return "", parseErrorf("duplicate node id %q", id)
	}
	declared[id] = len(g.Nodes)
	g.Nodes = append(g.Nodes, Node{ID: id, Label: unquoteLabel(label), Kind: kind})
	return id, nil
}

func unquoteLabel(label string) string {
	if len(label) >= 2 && label[0] == '"' && label[len(label)-1] == '"' {
		return label[1 : len(label)-1]
	}
	return label
}

// parseMetadata applies "id: {field: value}" records to declared nodes.
// Records naming undeclared ids are ignored; metadata is additive and
// never creates nodes.
func parseMetadata(part string, g *Graph, declared map[string]int) error {
	for _, raw := range strings.Split(part, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || line == Separator || isComment(line) {
			continue
		}
		m := reMetaRecord.FindStringSubmatch(line)
		if m == nil {
			return parseErrorf("unparseable metadata record %q", line)
		}
		id, body := m[1], m[2]
		idx, ok := declared[id]
		if !ok {
			continue
		}
		src := &g.Nodes[idx].Source
		for _, f := range reMetaField.FindAllStringSubmatch(body, -1) {
			key := f[1]
			val := firstNonEmpty(f[2], f[3], strings.TrimSpace(f[4]))
			switch key {
			case "file":
				src.File = val
			case "function":
				src.Function = val
			case "line":
				if n, err := strconv.Atoi(val); err == nil {
					src.Line = n
				}
			case "type":
				// Advisory only; node kind comes from the shape delimiters.
			default:
				return parseErrorf("unknown metadata field %q in record for %q", key, id)
			}
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
