package workflow

import (
	"bytes"
	"fmt"

	"flowsight/internal/diagram"
)

// SystemInstruction pins the model to the diagram wire format the parser
// accepts.
const SystemInstruction = `You are a static-analysis assistant. Given source code, extract the
control flow through its LLM-invoking functions as a flow diagram.

Output rules, follow them exactly:
- Emit one flowchart per independent entry point, using only these node
  shapes: id[Label] for a plain step, id([Label]) for an LLM call,
  id[[Label]] for a tool or function call, id{Label} for a decision.
- Connect nodes with "-->"; an optional transition label goes between
  pipes: A -->|tool name| B.
- Node ids are short tokens (A, B, C1, ...), unique across all diagrams.
- After the last diagram emit a line containing exactly "` + diagram.Separator + `",
  then one metadata record per node:
  id: {file: "path", line: N, function: "name", type: "kind"}
- If the code performs no LLM calls, emit nothing but an empty diagram.
- No prose, no explanations, no markdown fences.`

// formatReminder restates the wire format with a minimal worked example.
// It is embedded into every correction prompt.
const formatReminder = `Reminder of the required format. A complete, valid reply looks like:

flowchart TD
  A[Load input] --> B([Call LLM])
  B -->|parse| C{Valid?}
` + diagram.Separator + `
A: {file: "main.py", line: 3, function: "load", type: "step"}
B: {file: "main.py", line: 9, function: "ask", type: "llm"}
C: {file: "main.py", line: 14, function: "check", type: "decision"}

Use only the four node shapes, declare every id before the "` + diagram.Separator + `"
separator, and reference only declared ids in edges and metadata.`

// FunctionMeta is optional caller-supplied provenance for a source
// function, forwarded to the model to anchor the metadata block.
type FunctionMeta struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Function string `json:"function"`
}

// BuildUserPrompt assembles the analysis request for one source payload.
func BuildUserPrompt(req Request) string {
	var buf bytes.Buffer
	if req.FrameworkHint != "" {
		fmt.Fprintf(&buf, "The code appears to use the %q framework.\n\n", req.FrameworkHint)
	}
	buf.WriteString("Analyze the following code and produce the workflow diagram.\n\n")
	buf.WriteString("<code>\n")
	buf.WriteString(req.Code)
	buf.WriteString("\n</code>\n")
	if len(req.Metadata) > 0 {
		buf.WriteString("\nKnown function locations, use them in the metadata block:\n")
		for _, m := range req.Metadata {
			fmt.Fprintf(&buf, "- %s (%s:%d)\n", m.Function, m.File, m.Line)
		}
	}
	return buf.String()
}

// BuildCorrectionPrompt turns a parse diagnostic into a corrective
// instruction. It is appended to the original user prompt so the
// analysis intent is preserved; the correction is additive.
func BuildCorrectionPrompt(diagnostic string) string {
	var buf bytes.Buffer
	buf.WriteString("Your previous reply could not be parsed: ")
	buf.WriteString(diagnostic)
	buf.WriteString("\n\nReproduce your analysis in valid form. ")
	buf.WriteString(formatReminder)
	return buf.String()
}
