// Package publish runs one build: every journal entry is converted (or
// skipped when the publish cache says it is unchanged) and the site index is
// rewritten from the full source set.
package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Bitlatte/quill/internal/cache"
	"github.com/Bitlatte/quill/internal/config"
	"github.com/Bitlatte/quill/internal/errs"
	"github.com/Bitlatte/quill/internal/frontmatter"
	"github.com/Bitlatte/quill/internal/index"
	"github.com/Bitlatte/quill/internal/logging"
	"github.com/Bitlatte/quill/internal/markdown"
	"github.com/Bitlatte/quill/internal/meta"
	"github.com/Bitlatte/quill/internal/model"
)

const sourceExt = ".md"

// Publisher converts a journal directory into HTML fragments and an index.
type Publisher struct {
	cfg      config.Config
	renderer markdown.Renderer
	log      logging.Logger
	now      func() time.Time
}

// Option customises a Publisher.
type Option func(*Publisher)

// WithLogger sets the logger. The default discards output.
func WithLogger(l logging.Logger) Option {
	return func(p *Publisher) {
		if l != nil {
			p.log = l
		}
	}
}

// WithClock overrides the clock used for cache timestamps and undated posts.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		if now != nil {
			p.now = now
		}
	}
}

// New validates cfg and prepares a Publisher.
func New(cfg config.Config, opts ...Option) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r, err := markdown.NewRenderer(cfg.Renderer, cfg.Sanitize)
	if err != nil {
		return nil, errs.Validation(err, "invalid configuration", errs.ConfigInvalid)
	}
	p := &Publisher{
		cfg:      cfg,
		renderer: r,
		log:      logging.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Build runs a full publish pass. The first I/O failure aborts the run;
// outputs written before it are left in place.
func (p *Publisher) Build(ctx context.Context) (model.BuildResult, error) {
	result := model.BuildResult{
		BuildID:   uuid.NewString(),
		IndexPath: p.cfg.IndexPath,
	}
	log := p.log
	log.Info("build started", "build_id", result.BuildID, "source", p.cfg.SourceDir,
		"output", p.cfg.OutputDir, "renderer", p.renderer.Name())

	cachePath := p.cfg.ResolvedCachePath()
	if !p.cfg.KeepCache {
		if err := cache.Reset(cachePath); err != nil {
			return result, errs.Step(err, "failed to reset publish cache", errs.CacheFailed)
		}
	}
	store, err := cache.Open(p.cfg.CacheDriver, cachePath)
	if err != nil {
		return result, errs.Step(err, "failed to open publish cache", errs.CacheFailed)
	}

	result, err = p.run(ctx, store, result)
	if cerr := store.Close(); cerr != nil && err == nil {
		err = errs.Step(cerr, "failed to save publish cache", errs.CacheFailed)
	}
	if err != nil {
		log.Error("build failed", "build_id", result.BuildID, "error", err)
		return result, err
	}

	log.Info("build finished", "build_id", result.BuildID, "converted", result.Converted,
		"skipped", result.Skipped, "unpublished", result.Unpublished,
		"pruned", result.Pruned, "index", result.IndexPath)
	return result, nil
}

func (p *Publisher) run(ctx context.Context, store cache.Store, result model.BuildResult) (model.BuildResult, error) {
	names, err := p.sources()
	if err != nil {
		return result, errs.Step(err, "failed to list journal sources", errs.SourceReadFailed)
	}
	if err := os.MkdirAll(p.cfg.OutputDir, os.ModePerm); err != nil {
		return result, errs.Step(err, "failed to create output directory", errs.OutputWriteFailed)
	}

	entries := make([]model.IndexEntry, 0, len(names))
	seen := make(map[string]struct{}, len(names))

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return result, errs.Cancelled(err)
		}
		seen[name] = struct{}{}

		doc, err := p.load(name)
		if err != nil {
			return result, err
		}
		if p.cfg.RequirePublish && !meta.Published(doc.FrontMatter) {
			p.log.Debug("skipping unpublished entry", "file", name)
			if err := store.Remove(name); err != nil {
				return result, errs.Step(err, "failed to update publish cache", errs.CacheFailed)
			}
			result.Unpublished++
			continue
		}

		post, err := meta.Derive(doc, meta.Options{Now: p.now, StrictDates: p.cfg.StrictDates})
		if err != nil {
			return result, err
		}

		converted, err := p.publish(store, doc, post, result.BuildID)
		if err != nil {
			return result, err
		}
		if converted {
			result.Converted++
		} else {
			result.Skipped++
		}
		entries = append(entries, post.Entry())
	}

	pruned, err := prune(store, seen)
	if err != nil {
		return result, errs.Step(err, "failed to prune publish cache", errs.CacheFailed)
	}
	result.Pruned = pruned

	if err := index.Write(p.cfg.IndexPath, entries); err != nil {
		return result, errs.Step(err, "failed to write site index", errs.IndexWriteFailed)
	}
	result.Entries = entries
	return result, nil
}

// sources lists the markdown files at the top level of SourceDir in
// directory-listing order.
func (p *Publisher) sources() ([]string, error) {
	dirEntries, err := os.ReadDir(p.cfg.SourceDir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, d := range dirEntries {
		if !d.Type().IsRegular() || !strings.HasSuffix(d.Name(), sourceExt) {
			continue
		}
		names = append(names, d.Name())
	}
	return names, nil
}

func (p *Publisher) load(name string) (*model.Document, error) {
	path := filepath.Join(p.cfg.SourceDir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Step(err, fmt.Sprintf("failed to read '%s'", path), errs.SourceReadFailed)
	}
	text := string(raw)
	fm, body := frontmatter.Split(frontmatter.Dialect(p.cfg.FrontMatter), text)
	return &model.Document{
		Slug:        strings.TrimSuffix(name, sourceExt),
		FileName:    name,
		SourcePath:  path,
		Raw:         text,
		FrontMatter: fm,
		Body:        body,
		Hash:        cache.Hash(raw),
	}, nil
}

// publish writes the HTML for doc unless the cache already holds an
// identical conversion. It reports whether a conversion happened.
func (p *Publisher) publish(store cache.Store, doc *model.Document, post *model.Post, buildID string) (bool, error) {
	out := OutputPath(p.cfg.OutputDir, doc.Slug)

	entry, ok, err := store.Lookup(doc.FileName)
	if err != nil {
		return false, errs.Step(err, "failed to read publish cache", errs.CacheFailed)
	}
	if ok && entry.Fresh(doc.Hash, p.renderer.Name()) && exists(out) {
		p.log.Debug("unchanged, skipping", "file", doc.FileName)
		if dir := p.cfg.OutMarkdownDir; dir != "" && !exists(MarkdownPath(dir, doc.Slug)) {
			if err := writeMarkdown(dir, doc); err != nil {
				return false, errs.Step(err, "failed to write markdown copy", errs.OutputWriteFailed)
			}
		}
		return false, nil
	}

	html, err := p.renderer.Render(doc.Body)
	if err != nil {
		return false, errs.Step(err, fmt.Sprintf("failed to render '%s'", doc.SourcePath), errs.OutputWriteFailed)
	}
	post.HTML = html
	if err := os.WriteFile(out, html, 0o644); err != nil {
		return false, errs.Step(err, fmt.Sprintf("failed to write '%s'", out), errs.OutputWriteFailed)
	}

	if dir := p.cfg.OutMarkdownDir; dir != "" {
		if err := writeMarkdown(dir, doc); err != nil {
			return false, errs.Step(err, "failed to write markdown copy", errs.OutputWriteFailed)
		}
	}

	err = store.Record(doc.FileName, cache.Entry{
		Hash:        doc.Hash,
		Renderer:    p.renderer.Name(),
		Slug:        doc.Slug,
		Output:      out,
		PublishedAt: p.now().UTC(),
		BuildID:     buildID,
	})
	if err != nil {
		return false, errs.Step(err, "failed to update publish cache", errs.CacheFailed)
	}
	p.log.Info("converted", "file", doc.FileName, "output", out, "title", post.Title)
	return true, nil
}

// OutputPath is where the HTML fragment for slug is written.
func OutputPath(outputDir, slug string) string {
	return filepath.Join(outputDir, slug+".html")
}

// MarkdownPath is where the front-matter-free copy of slug is written.
func MarkdownPath(dir, slug string) string {
	return filepath.Join(dir, slug+sourceExt)
}

func writeMarkdown(dir string, doc *model.Document) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(MarkdownPath(dir, doc.Slug), []byte(doc.Body), 0o644)
}

// prune drops cache entries whose source file was not seen in this run.
func prune(store cache.Store, seen map[string]struct{}) (int, error) {
	names, err := store.Names()
	if err != nil {
		return 0, err
	}
	pruned := 0
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		if err := store.Remove(name); err != nil {
			return pruned, err
		}
		pruned++
	}
	return pruned, nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
