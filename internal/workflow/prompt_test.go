package workflow

import (
	"strings"
	"testing"
)

func TestBuildUserPrompt(t *testing.T) {
	p := BuildUserPrompt(Request{
		Code:          "from openai import OpenAI\n",
		FrameworkHint: "langgraph",
		Metadata: []FunctionMeta{
			{File: "agent.py", Line: 12, Function: "run"},
		},
	})
	for _, want := range []string{
		`"langgraph"`,
		"<code>",
		"from openai import OpenAI",
		"run (agent.py:12)",
	} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestBuildUserPromptWithoutOptionalParts(t *testing.T) {
	p := BuildUserPrompt(Request{Code: "x = 1"})
	if strings.Contains(p, "framework") {
		t.Fatalf("unexpected framework line:\n%s", p)
	}
	if strings.Contains(p, "Known function locations") {
		t.Fatalf("unexpected metadata section:\n%s", p)
	}
}

func TestBuildCorrectionPrompt(t *testing.T) {
	p := BuildCorrectionPrompt(`duplicate node id "A"`)
	if !strings.Contains(p, `duplicate node id "A"`) {
		t.Fatalf("diagnostic missing:\n%s", p)
	}
	if !strings.Contains(p, "flowchart TD") {
		t.Fatalf("worked example missing:\n%s", p)
	}
}
