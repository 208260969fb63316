package meta

import (
	"regexp"
	"strings"
)

var stripRules = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile("`([^`]+)`"), "${1}"},
	{regexp.MustCompile(`\*\*([^*]+)\*\*`), "${1}"},
	{regexp.MustCompile(`\*([^*]+)\*`), "${1}"},
	{regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`), ""},
	{regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`), "${1}"},
	{regexp.MustCompile(`(?m)^#{1,6}\s+`), ""},
	{regexp.MustCompile(`(?m)^>\s?`), ""},
	{regexp.MustCompile(`(?m)^[-*+]\s+`), ""},
	{regexp.MustCompile(`(?m)^\d+\.\s+`), ""},
	{regexp.MustCompile(`[\r\n]+`), " "},
}

// Strip removes markdown syntax from a paragraph, leaving plain text. Images
// are dropped and links are replaced by their label.
func Strip(md string) string {
	out := md
	for _, r := range stripRules {
		out = r.re.ReplaceAllString(out, r.repl)
	}
	return strings.TrimSpace(out)
}
