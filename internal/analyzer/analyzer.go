package analyzer

import (
	"regexp"
	"strings"
)

// TagGenericLLM is returned when a file is a workflow candidate but no
// named framework or single provider could be pinned down.
const TagGenericLLM = "generic-llm"

// IsWorkflowCandidate reports whether source text looks like it drives
// an LLM workflow. Raw client usage needs both an SDK import and a
// generation call; merely mentioning a provider is not enough. A named
// framework match is sufficient on its own because framework symbols are
// unambiguous.
func IsWorkflowCandidate(src string) bool {
	if anyRule(frameworkRules, src) {
		return true
	}
	return anyMatch(clientImportPatterns, src) && anyMatch(callPatterns, src)
}

// DetectFramework returns the framework tag for the source text:
// a named framework first, then a single provider by its client-import
// signature, then TagGenericLLM for otherwise-qualifying files.
func DetectFramework(src string) (string, bool) {
	for _, r := range frameworkRules {
		if anyMatch(r.Patterns, src) {
			return r.Tag, true
		}
	}
	for _, r := range providerRules {
		if r.Pattern.MatchString(src) {
			return r.Tag, true
		}
	}
	if IsWorkflowCandidate(src) {
		return TagGenericLLM, true
	}
	return "", false
}

// analyzableExts are the source extensions worth sending to the model.
var analyzableExts = map[string]struct{}{
	".py": {}, ".ts": {}, ".js": {}, ".tsx": {}, ".jsx": {},
}

// ShouldAnalyzeFile reports whether the file's extension is one the
// pipeline understands.
func ShouldAnalyzeFile(path string) bool {
	path = strings.ToLower(strings.TrimSpace(path))
	if i := strings.LastIndex(path, "."); i >= 0 {
		_, ok := analyzableExts[path[i:]]
		return ok
	}
	return false
}

func anyMatch(patterns []*regexp.Regexp, src string) bool {
	for _, p := range patterns {
		if p.MatchString(src) {
			return true
		}
	}
	return false
}

func anyRule(rules []frameworkRule, src string) bool {
	for _, r := range rules {
		if anyMatch(r.Patterns, src) {
			return true
		}
	}
	return false
}
