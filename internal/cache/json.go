package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// JSONStore keeps the whole cache in memory and writes it back as a single
// JSON object on Close.
type JSONStore struct {
	path    string
	entries map[string]Entry
	dirty   bool
}

// OpenJSON loads the cache file at path. A missing file yields an empty
// cache.
func OpenJSON(path string) (*JSONStore, error) {
	s := &JSONStore{path: path, entries: map[string]Entry{}}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache '%s': %w", path, err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("failed to decode cache '%s': %w", path, err)
	}
	if s.entries == nil {
		s.entries = map[string]Entry{}
	}
	return s, nil
}

func (s *JSONStore) Lookup(name string) (Entry, bool, error) {
	e, ok := s.entries[name]
	return e, ok, nil
}

func (s *JSONStore) Record(name string, e Entry) error {
	s.entries[name] = e
	s.dirty = true
	return nil
}

func (s *JSONStore) Remove(name string) error {
	if _, ok := s.entries[name]; ok {
		delete(s.entries, name)
		s.dirty = true
	}
	return nil
}

func (s *JSONStore) Names() ([]string, error) {
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Close writes the cache if anything changed. The file is replaced through a
// rename so a crash never leaves half a cache behind.
func (s *JSONStore) Close() error {
	if !s.dirty {
		return nil
	}
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create cache directory '%s': %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".publish-cache-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace cache '%s': %w", s.path, err)
	}
	s.dirty = false
	return nil
}
