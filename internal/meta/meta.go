// Package meta derives the display metadata of a post: title, excerpt, date
// and publish flag.
package meta

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Bitlatte/quill/internal/errs"
	"github.com/Bitlatte/quill/internal/model"
)

// ExcerptLimit is the maximum excerpt length in runes, ellipsis included.
const ExcerptLimit = 100

const ellipsis = "..."

var (
	firstH1      = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	slugDate     = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-`)
	paragraphGap = regexp.MustCompile(`\n\s*\n`)
)

// Options controls the non-deterministic parts of derivation.
type Options struct {
	// Now supplies the build date used when neither front matter nor slug
	// carries one. Defaults to time.Now.
	Now func() time.Time
	// StrictDates refuses the build-date fallback.
	StrictDates bool
}

// Derive computes the metadata of doc. Explicit front-matter values always
// win over derived ones.
func Derive(doc *model.Document, opts Options) (*model.Post, error) {
	date, err := Date(doc.Slug, doc.FrontMatter.Get("date"), opts)
	if err != nil {
		return nil, err
	}

	title := doc.FrontMatter.Get("title")
	if title == "" {
		title = Title(doc.Body, doc.Slug)
	}

	excerpt := doc.FrontMatter.Get("excerpt")
	if excerpt == "" {
		excerpt = Excerpt(doc.Body)
	}

	return &model.Post{
		Slug:      doc.Slug,
		Title:     title,
		Date:      date,
		Excerpt:   excerpt,
		Published: Published(doc.FrontMatter),
	}, nil
}

// Title returns the first level-1 heading of body, or a title built from the
// slug when there is none.
func Title(body, slug string) string {
	if m := firstH1.FindStringSubmatch(body); m != nil {
		if t := strings.TrimSpace(m[1]); t != "" {
			return t
		}
	}
	return TitleFromSlug(slug)
}

// TitleFromSlug drops a leading YYYY-MM-DD- prefix, turns hyphens into spaces
// and upper-cases the first letter of every word. The rest of each word is
// left as written, so "2nd" and "iOS" survive.
func TitleFromSlug(slug string) string {
	words := strings.Split(strings.ReplaceAll(slugDate.ReplaceAllString(slug, ""), "-", " "), " ")
	upper := cases.Upper(language.Und)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = upper.String(string(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// Date returns the front-matter date, else the slug's date prefix, else the
// current build date.
func Date(slug, explicit string, opts Options) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if m := slugDate.FindStringSubmatch(slug); m != nil {
		return m[1], nil
	}
	if opts.StrictDates {
		return "", errs.Validation(
			fmt.Errorf("%s: no date in front matter or slug", slug),
			"post date required", errs.DateRequired)
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	return now().Format("2006-01-02"), nil
}

// Published reports whether the front matter marks the document for
// publishing.
func Published(fm model.FrontMatter) bool {
	switch strings.ToLower(fm.Get("publish")) {
	case "true", "yes", "1":
		return true
	}
	return false
}

// Excerpt strips the first non-heading paragraph of body down to plain text
// and cuts it to ExcerptLimit runes.
func Excerpt(body string) string {
	for _, p := range paragraphGap.Split(body, -1) {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		return truncate(Strip(p))
	}
	return ""
}

func truncate(plain string) string {
	runes := []rune(plain)
	if len(runes) <= ExcerptLimit {
		return plain
	}
	return string(runes[:ExcerptLimit-len(ellipsis)]) + ellipsis
}
