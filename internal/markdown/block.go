package markdown

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	lineBreak   = regexp.MustCompile(`\r?\n`)
	headingLine = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	listLine    = regexp.MustCompile(`^[-*]\s+(.+)$`)
)

// blockWriter holds the state of one Blocks call: the pending paragraph
// lines and whether a <ul> is currently open.
type blockWriter struct {
	out       []string
	paragraph []string
	inList    bool
}

func (w *blockWriter) flushParagraph() {
	if len(w.paragraph) == 0 {
		return
	}
	w.out = append(w.out, "<p>"+Inline(strings.Join(w.paragraph, " "))+"</p>")
	w.paragraph = w.paragraph[:0]
}

func (w *blockWriter) closeList() {
	if !w.inList {
		return
	}
	w.out = append(w.out, "</ul>")
	w.inList = false
}

// Blocks converts a markdown body into headings, unordered lists and
// paragraphs. Every emitted tag sits on its own line and the result always
// ends with a newline.
func Blocks(body string) string {
	w := &blockWriter{}

	for _, raw := range lineBreak.Split(body, -1) {
		line := strings.TrimSpace(raw)

		if line == "" {
			w.flushParagraph()
			w.closeList()
			continue
		}

		if m := headingLine.FindStringSubmatch(line); m != nil {
			w.flushParagraph()
			w.closeList()
			level := len(m[1])
			w.out = append(w.out, fmt.Sprintf("<h%d>%s</h%d>", level, Inline(m[2]), level))
			continue
		}

		if m := listLine.FindStringSubmatch(line); m != nil {
			w.flushParagraph()
			if !w.inList {
				w.out = append(w.out, "<ul>")
				w.inList = true
			}
			w.out = append(w.out, "<li>"+Inline(m[1])+"</li>")
			continue
		}

		w.paragraph = append(w.paragraph, line)
	}

	w.flushParagraph()
	w.closeList()

	return strings.Join(w.out, "\n") + "\n"
}
