package analyzer

import "regexp"

// Rule tables are data, not branches: adding a provider or framework is
// an additive edit here and nowhere else. All patterns are compiled once
// at package init and scanned a bounded number of times per input.

// clientImportPatterns match per-provider SDK import idioms.
var clientImportPatterns = compileAll(
	// OpenAI
	`from\s+openai\s+import`,
	`import\s+openai`,
	`OpenAI\s*\(`,
	`import\s+.*from\s+['"]openai['"]`,

	// Anthropic
	`from\s+anthropic\s+import`,
	`import\s+anthropic`,
	`Anthropic\s*\(`,
	`import\s+.*from\s+['"]@anthropic-ai/sdk['"]`,

	// Google Gemini
	`import\s+google\.generativeai`,
	`genai\.configure`,
	`genai\.GenerativeModel`,
	`from\s+['"]@google/generative-ai['"]`,
	`GoogleGenerativeAI`,

	// Groq
	`from\s+groq\s+import`,
	`import\s+groq`,
	`Groq\s*\(`,
	`import\s+.*from\s+['"]groq-sdk['"]`,

	// Ollama
	`from\s+ollama\s+import`,
	`import\s+ollama`,
	`import\s+.*from\s+['"]ollama['"]`,

	// Cohere
	`import\s+cohere`,
	`cohere\.Client`,
	`from\s+['"]cohere-ai['"]`,

	// Hugging Face
	`from\s+huggingface_hub\s+import`,
	`InferenceClient`,
	`from\s+['"]@huggingface/inference['"]`,
)

// callPatterns match method-call shapes characteristic of a generation
// request. A client import alone is not enough; the file must also call.
var callPatterns = compileAll(
	`\.chat\.completions\.create`,
	`\.completions\.create`,
	`\.messages\.create`,
	`\.generate_content`,
	`\.generateContent`,
	`\.chat\(`,
	`\.generate\(`,
)

// frameworkRule names an orchestration framework and the symbols that
// identify it unambiguously.
type frameworkRule struct {
	Tag      string
	Patterns []*regexp.Regexp
}

// frameworkRules are checked in order; the first match wins.
var frameworkRules = []frameworkRule{
	{Tag: "langgraph", Patterns: compileAll(
		`from\s+langgraph`,
		`import\s+.*from\s+['"]@langchain/langgraph['"]`,
		`StateGraph|MessageGraph`,
	)},
	{Tag: "mastra", Patterns: compileAll(
		`from\s+mastra`,
		`import\s+.*from\s+['"]mastra['"]`,
		`@mastra/`,
	)},
	{Tag: "langchain", Patterns: compileAll(
		`from\s+langchain`,
		`import\s+.*from\s+['"]@langchain`,
		`LLMChain|SequentialChain`,
	)},
	{Tag: "crewai", Patterns: compileAll(
		`from\s+crewai`,
		`import\s+.*from\s+['"]crewai['"]`,
		`Crew\s*\(`,
	)},
}

// providerRule identifies a raw client by its import signature alone,
// used as a framework-tag fallback when no named framework matches.
type providerRule struct {
	Tag     string
	Pattern *regexp.Regexp
}

var providerRules = []providerRule{
	{Tag: "openai", Pattern: regexp.MustCompile(`from\s+openai\s+import|import\s+openai|OpenAI\s*\(`)},
	{Tag: "anthropic", Pattern: regexp.MustCompile(`from\s+anthropic\s+import|import\s+anthropic|Anthropic\s*\(`)},
	{Tag: "gemini", Pattern: regexp.MustCompile(`import\s+google\.generativeai|genai\.|GoogleGenerativeAI`)},
	{Tag: "groq", Pattern: regexp.MustCompile(`from\s+groq\s+import|import\s+groq|Groq\s*\(`)},
	{Tag: "ollama", Pattern: regexp.MustCompile(`from\s+ollama\s+import|import\s+ollama`)},
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(e))
	}
	return out
}
