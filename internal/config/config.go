package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Bitlatte/quill/internal/cache"
	"github.com/Bitlatte/quill/internal/errs"
	"github.com/Bitlatte/quill/internal/frontmatter"
	"github.com/Bitlatte/quill/internal/logging"
	"github.com/Bitlatte/quill/internal/markdown"
)

// Cache files created inside OutputDir when CachePath is not set, one per
// cache driver.
const (
	DefaultCacheName     = ".publish-cache.json"
	DefaultBoltCacheName = ".publish-cache.db"
)

type Config struct {
	SourceDir      string         `mapstructure:"sourceDir"`
	OutputDir      string         `mapstructure:"outputDir"`
	IndexPath      string         `mapstructure:"indexPath"`
	CachePath      string         `mapstructure:"cachePath"`
	CacheDriver    string         `mapstructure:"cacheDriver"`
	KeepCache      bool           `mapstructure:"keepCache"`
	RequirePublish bool           `mapstructure:"requirePublish"`
	Renderer       string         `mapstructure:"renderer"`
	Sanitize       bool           `mapstructure:"sanitize"`
	FrontMatter    string         `mapstructure:"frontMatter"`
	StrictDates    bool           `mapstructure:"strictDates"`
	OutMarkdownDir string         `mapstructure:"outMarkdownDir"`
	Log            logging.Config `mapstructure:"log"`
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() Config {
	return Config{
		SourceDir:   "journal",
		OutputDir:   "generated",
		IndexPath:   filepath.Join("data", "posts.json"),
		CacheDriver: cache.DriverJSON,
		Renderer:    markdown.BasicRenderer,
		FrontMatter: string(frontmatter.Simple),
		Log: logging.Config{
			Level:  "info",
			Format: logging.FormatAuto,
		},
	}
}

// ResolvedCachePath returns CachePath, or the default cache file for the
// configured driver inside OutputDir.
func (c Config) ResolvedCachePath() string {
	if strings.TrimSpace(c.CachePath) != "" {
		return c.CachePath
	}
	if c.CacheDriver == cache.DriverBolt {
		return filepath.Join(c.OutputDir, DefaultBoltCacheName)
	}
	return filepath.Join(c.OutputDir, DefaultCacheName)
}

// Validate checks required paths and enumerated options.
func (c Config) Validate() error {
	var problems []error

	if strings.TrimSpace(c.SourceDir) == "" {
		problems = append(problems, errors.New("sourceDir is required"))
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		problems = append(problems, errors.New("outputDir is required"))
	}
	if strings.TrimSpace(c.IndexPath) == "" {
		problems = append(problems, errors.New("indexPath is required"))
	}
	switch c.CacheDriver {
	case "", cache.DriverJSON, cache.DriverBolt:
	default:
		problems = append(problems, fmt.Errorf("cacheDriver %q is not one of json, bolt", c.CacheDriver))
	}
	switch c.Renderer {
	case "", markdown.BasicRenderer, markdown.GoldmarkRenderer:
	default:
		problems = append(problems, fmt.Errorf("renderer %q is not one of basic, goldmark", c.Renderer))
	}
	if c.FrontMatter != "" && !frontmatter.Dialect(c.FrontMatter).Valid() {
		problems = append(problems, fmt.Errorf("frontMatter %q is not one of simple, yaml", c.FrontMatter))
	}
	if !logging.ValidFormat(c.Log.Format) {
		problems = append(problems, fmt.Errorf("log.format %q is not one of auto, console, json, pretty", c.Log.Format))
	}

	if len(problems) == 0 {
		return nil
	}
	return errs.Validation(errors.Join(problems...), "invalid configuration", errs.ConfigInvalid)
}
