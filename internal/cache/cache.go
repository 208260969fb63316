// Package cache records which journal sources have already been converted so
// unchanged files can be skipped on the next build.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/Bitlatte/quill/internal/errs"
)

const (
	DriverJSON = "json"
	DriverBolt = "bolt"
)

// Entry is the processed state of one source file.
type Entry struct {
	Hash        string    `json:"hash"`
	Renderer    string    `json:"renderer"`
	Slug        string    `json:"slug"`
	Output      string    `json:"output"`
	PublishedAt time.Time `json:"publishedAt"`
	BuildID     string    `json:"buildId,omitempty"`
}

// Fresh reports whether e still describes content with the given hash
// rendered by the given renderer.
func (e Entry) Fresh(hash, renderer string) bool {
	return e.Hash == hash && e.Renderer == renderer
}

// Store is a publish cache keyed by source file name.
type Store interface {
	Lookup(name string) (Entry, bool, error)
	Record(name string, e Entry) error
	Remove(name string) error
	Names() ([]string, error)
	Close() error
}

// Open opens the cache at path with the named driver.
func Open(driver, path string) (Store, error) {
	switch driver {
	case "", DriverJSON:
		return OpenJSON(path)
	case DriverBolt:
		return OpenBolt(path)
	default:
		return nil, errs.Validation(fmt.Errorf("cache driver %q", driver),
			"unknown cache driver", errs.CacheDriverUnknown)
	}
}

// Reset deletes the cache file at path. A missing file is not an error.
func Reset(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache '%s': %w", path, err)
	}
	return nil
}

// Hash returns the hex SHA-256 of content.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
