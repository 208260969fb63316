// Package frontmatter splits the metadata block at the top of a journal entry
// from its markdown body.
package frontmatter

import (
	"strings"

	"github.com/Bitlatte/quill/internal/model"
)

// Delimiter opens and closes a front-matter block.
const Delimiter = "---"

// Dialect selects how the block between the delimiters is decoded.
type Dialect string

const (
	Simple Dialect = "simple"
	YAML   Dialect = "yaml"
)

// Valid reports whether d names a supported dialect.
func (d Dialect) Valid() bool {
	switch d {
	case Simple, YAML:
		return true
	}
	return false
}

// Split parses text with the given dialect. Unknown dialects fall back to
// Simple.
func Split(d Dialect, text string) (model.FrontMatter, string) {
	if d == YAML {
		return ParseYAML(text)
	}
	return Parse(text)
}

// Parse extracts `key: value` lines from a `---` delimited block at the very
// start of text. When the opening or closing delimiter is missing the whole
// text is returned as body with empty front matter.
func Parse(text string) (model.FrontMatter, string) {
	lines, body, ok := block(text)
	if !ok {
		return model.FrontMatter{}, text
	}

	fm := model.FrontMatter{}
	for _, line := range lines {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		fm[key] = strings.TrimSpace(value)
	}
	return fm, body
}

// block returns the raw lines between the delimiters and the remaining body.
func block(text string) ([]string, string, bool) {
	first, rest, found := strings.Cut(text, "\n")
	if !found || strings.TrimSuffix(first, "\r") != Delimiter {
		return nil, "", false
	}

	var lines []string
	for rest != "" {
		line, next, more := strings.Cut(rest, "\n")
		line = strings.TrimSuffix(line, "\r")
		if line == Delimiter {
			if !more {
				return lines, "", true
			}
			return lines, next, true
		}
		lines = append(lines, line)
		if !more {
			break
		}
		rest = next
	}
	return nil, "", false
}
