package diagram

import "strings"

// Normalize strips the generation artifacts models habitually wrap a
// reply in: one leading fenced-code delimiter (with or without a
// language tag) and one trailing delimiter, plus surrounding whitespace.
// It is idempotent and never fails.
func Normalize(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	// The opening fence may carry a language tag ("```mermaid"); the whole
	// first line goes.
	lines = lines[1:]
	if n := len(lines); n > 0 && strings.TrimSpace(lines[n-1]) == "```" {
		lines = lines[:n-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
