package markdown

import (
	"regexp"
	"strings"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// span rewrites are applied in slice order. Bold has to run before italic or
// the single-asterisk pattern would eat half of every `**` pair.
var spans = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`\*\*([^*]+)\*\*`), "<strong>${1}</strong>"},
	{regexp.MustCompile(`\*([^*]+)\*`), "<em>${1}</em>"},
	{regexp.MustCompile("`([^`]+)`"), "<code>${1}</code>"},
	{regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`), `<a href="${2}">${1}</a>`},
}

// Escape replaces the HTML-sensitive characters &, <, >, " and '.
func Escape(text string) string {
	return escaper.Replace(text)
}

// Inline escapes text and converts bold, italic, code and link spans to HTML.
func Inline(text string) string {
	out := Escape(text)
	for _, s := range spans {
		out = s.re.ReplaceAllString(out, s.repl)
	}
	return out
}
