package llm

import "strings"

// SanitizeCompletion unwraps a completion the model fenced as one big code
// block and trims surrounding blank space. Models asked for raw markdown
// still wrap the whole document now and then.
func SanitizeCompletion(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	i := strings.IndexByte(s, '\n')
	if i < 0 {
		return s
	}
	fence := strings.TrimSpace(s[3:i])
	if fence != "" && fence != "markdown" && fence != "md" {
		return s
	}
	return strings.TrimSpace(s[i+1 : len(s)-3])
}
