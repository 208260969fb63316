// Package index writes the site manifest consumed by the post list pages.
package index

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Bitlatte/quill/internal/model"
)

// dateLayouts are tried in order when ordering entries.
var dateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses an index date. The zero time is returned for anything it
// does not understand, which places the entry last.
func ParseDate(value string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Sort orders entries newest first. Entries with equal dates keep their
// relative order.
func Sort(entries []model.IndexEntry) {
	dates := make(map[string]time.Time, len(entries))
	for _, e := range entries {
		if _, ok := dates[e.Date]; !ok {
			dates[e.Date] = ParseDate(e.Date)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return dates[entries[i].Date].After(dates[entries[j].Date])
	})
}

// Encode sorts entries and renders them as an indented JSON array followed
// by a newline.
func Encode(entries []model.IndexEntry) ([]byte, error) {
	if entries == nil {
		entries = []model.IndexEntry{}
	}
	Sort(entries)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, fmt.Errorf("encode index: %w", err)
	}
	return buf.Bytes(), nil
}

// Write replaces the index file at path with the sorted entries.
func Write(path string, entries []model.IndexEntry) error {
	data, err := Encode(entries)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create index directory for '%s': %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write index '%s': %w", path, err)
	}
	return nil
}

// Read loads a previously written index.
func Read(path string) ([]model.IndexEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []model.IndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode index '%s': %w", path, err)
	}
	return entries, nil
}
