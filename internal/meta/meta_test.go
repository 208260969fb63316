package meta

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bitlatte/quill/internal/errs"
	"github.com/Bitlatte/quill/internal/model"
)

func fixedNow() time.Time {
	return time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name string
		body string
		slug string
		want string
	}{
		{"first h1", "intro\n\n#   Morning walk  \n\n# Second", "2024-05-01-x", "Morning walk"},
		{"h2 ignored", "## Not this\n\ntext", "2024-05-01-hello-world", "Hello World"},
		{"slug fallback", "no heading", "2024-05-01-hello-world", "Hello World"},
		{"slug without date", "", "notes-from-kyoto", "Notes From Kyoto"},
		{"slug keeps inner capitals", "", "my-iOS-setup", "My IOS Setup"},
		{"digits do not start a word", "", "post-2nd-try", "Post 2nd Try"},
		{"decade suffix", "", "2024-01-01-best-of-the-90s", "Best Of The 90s"},
		{"underscore is not a separator", "", "hello_world", "Hello_world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Title(tt.body, tt.slug))
		})
	}
}

func TestStrip(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"some `code` and **bold** and *em*", "some code and bold and em"},
		{"see ![alt](img.png) the [docs](https://x.dev) page", "see  the docs page"},
		{"> quoted\n> twice", "quoted twice"},
		{"- one\n+ two\n1. three", "one two three"},
		{"### heading text", "heading text"},
		{"line one\r\nline two", "line one line two"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Strip(tt.in), tt.in)
	}
}

func TestExcerpt(t *testing.T) {
	t.Run("first non heading paragraph", func(t *testing.T) {
		body := "# Title\n\n## Sub\n\nFirst **real**\nparagraph.\n\nSecond."
		assert.Equal(t, "First real paragraph.", Excerpt(body))
	})

	t.Run("blank lines with spaces separate paragraphs", func(t *testing.T) {
		assert.Equal(t, "one", Excerpt("one\n   \ntwo"))
	})

	t.Run("crlf line endings", func(t *testing.T) {
		body := "# Title\r\n\r\nline one\r\nline two\r\n\r\nnext"
		assert.Equal(t, "line one line two", Excerpt(body))
	})

	t.Run("empty body", func(t *testing.T) {
		assert.Equal(t, "", Excerpt("# Only a heading\n"))
	})

	t.Run("exactly at limit", func(t *testing.T) {
		text := strings.Repeat("a", ExcerptLimit)
		assert.Equal(t, text, Excerpt(text))
	})

	t.Run("truncated", func(t *testing.T) {
		text := strings.Repeat("b", 250)
		got := Excerpt(text)
		assert.True(t, strings.HasSuffix(got, "..."))
		assert.Equal(t, ExcerptLimit, utf8.RuneCountInString(got))
		assert.LessOrEqual(t, utf8.RuneCountInString(got), 103)
	})

	t.Run("counts runes", func(t *testing.T) {
		text := strings.Repeat("日", 120)
		got := Excerpt(text)
		assert.Equal(t, strings.Repeat("日", 97)+"...", got)
	})
}

func TestDate(t *testing.T) {
	opts := Options{Now: fixedNow}

	got, err := Date("2024-05-01-hello", "2023-12-31", opts)
	require.NoError(t, err)
	assert.Equal(t, "2023-12-31", got)

	got, err = Date("2024-05-01-hello", "", opts)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", got)

	got, err = Date("2024-05-01", "", opts)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-18", got, "a bare date slug has no trailing hyphen")

	got, err = Date("undated", "", opts)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-18", got)

	_, err = Date("undated", "", Options{Now: fixedNow, StrictDates: true})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestPublished(t *testing.T) {
	assert.True(t, Published(model.FrontMatter{"publish": "true"}))
	assert.True(t, Published(model.FrontMatter{"publish": "Yes"}))
	assert.False(t, Published(model.FrontMatter{"publish": "false"}))
	assert.False(t, Published(nil))
}

func TestDerive(t *testing.T) {
	doc := &model.Document{
		Slug:        "2024-05-01-hello-world",
		FrontMatter: model.FrontMatter{"title": "Test"},
		Body:        "# Heading\n\nFirst paragraph text.\n\n- item one\n- item two\n",
	}

	post, err := Derive(doc, Options{Now: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, "Test", post.Title)
	assert.Equal(t, "2024-05-01", post.Date)
	assert.Equal(t, "First paragraph text.", post.Excerpt)
	assert.Equal(t, doc.Slug, post.Slug)
	assert.False(t, post.Published)

	doc.FrontMatter = model.FrontMatter{"excerpt": "Hand written.", "date": "2020-01-02"}
	post, err = Derive(doc, Options{Now: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, "Heading", post.Title)
	assert.Equal(t, "Hand written.", post.Excerpt)
	assert.Equal(t, "2020-01-02", post.Date)
}
