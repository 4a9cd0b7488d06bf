package llm

import (
	"regexp"
	"strings"
)

var reCodeFence = regexp.MustCompile("```(?:json)?\n?|\n?```")

// StripCodeFences removes Markdown code-fence wrappers some models emit around
// JSON output when strict mode is unavailable.
func StripCodeFences(s string) string {
	return strings.TrimSpace(reCodeFence.ReplaceAllString(s, ""))
}
