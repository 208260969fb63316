package markdown

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

const (
	BasicRenderer    = "basic"
	GoldmarkRenderer = "goldmark"
)

// Renderer turns a markdown body into an HTML fragment.
type Renderer interface {
	Name() string
	Render(body string) ([]byte, error)
}

// NewRenderer returns the renderer registered under name. sanitize only
// affects the goldmark renderer; the basic one escapes everything already.
func NewRenderer(name string, sanitize bool) (Renderer, error) {
	switch name {
	case "", BasicRenderer:
		return Basic{}, nil
	case GoldmarkRenderer:
		return NewGoldmark(sanitize), nil
	default:
		return nil, fmt.Errorf("unknown renderer %q", name)
	}
}

// Basic is the line-oriented renderer implemented by Blocks.
type Basic struct{}

func (Basic) Name() string { return BasicRenderer }

func (Basic) Render(body string) ([]byte, error) {
	return []byte(Blocks(body)), nil
}

// Goldmark renders full CommonMark with GFM extensions.
type Goldmark struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewGoldmark builds a goldmark renderer. Raw HTML in the source is passed
// through unless sanitize is set, in which case the output is filtered with
// the bluemonday UGC policy.
func NewGoldmark(sanitize bool) *Goldmark {
	g := &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				gmhtml.WithUnsafe(),
			),
		),
	}
	if sanitize {
		g.policy = bluemonday.UGCPolicy()
	}
	return g
}

func (g *Goldmark) Name() string {
	if g.policy != nil {
		return GoldmarkRenderer + "+sanitize"
	}
	return GoldmarkRenderer
}

func (g *Goldmark) Render(body string) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(body), &buf); err != nil {
		return nil, fmt.Errorf("goldmark convert: %w", err)
	}
	if g.policy == nil {
		return buf.Bytes(), nil
	}
	return g.policy.SanitizeBytes(buf.Bytes()), nil
}
