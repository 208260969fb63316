package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bitlatte/quill/internal/errs"
)

func exerciseStore(t *testing.T, driver string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "cache")

	st, err := Open(driver, path)
	require.NoError(t, err)

	_, ok, err := st.Lookup("a.md")
	require.NoError(t, err)
	assert.False(t, ok)

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	entry := Entry{Hash: "h1", Renderer: "basic", Slug: "a", Output: "out/a.html", PublishedAt: at}
	require.NoError(t, st.Record("b.md", Entry{Hash: "h2"}))
	require.NoError(t, st.Record("a.md", entry))
	require.NoError(t, st.Close())

	st, err = Open(driver, path)
	require.NoError(t, err)
	defer st.Close()

	got, ok, err := st.Lookup("a.md")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry.Hash, got.Hash)
	assert.Equal(t, entry.Output, got.Output)
	assert.True(t, at.Equal(got.PublishedAt))

	names, err := st.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "b.md"}, names)

	require.NoError(t, st.Remove("b.md"))
	require.NoError(t, st.Remove("missing.md"))
	names, err = st.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md"}, names)
}

func TestJSONStore(t *testing.T) {
	exerciseStore(t, DriverJSON)
}

func TestBoltStore(t *testing.T) {
	exerciseStore(t, DriverBolt)
}

func TestJSONStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".publish-cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := OpenJSON(path)
	assert.Error(t, err)
}

func TestJSONStoreUnchangedIsNotWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".publish-cache.json")
	st, err := OpenJSON(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("redis", filepath.Join(t.TempDir(), "c"))
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".publish-cache.json")
	require.NoError(t, Reset(path))

	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	require.NoError(t, Reset(path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestEntryFresh(t *testing.T) {
	e := Entry{Hash: Hash([]byte("hello")), Renderer: "basic"}
	assert.True(t, e.Fresh(Hash([]byte("hello")), "basic"))
	assert.False(t, e.Fresh(Hash([]byte("hello!")), "basic"))
	assert.False(t, e.Fresh(e.Hash, "goldmark"))
}
