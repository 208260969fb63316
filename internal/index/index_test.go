package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bitlatte/quill/internal/model"
)

func slugs(entries []model.IndexEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Slug)
	}
	return out
}

func TestSortNewestFirst(t *testing.T) {
	entries := []model.IndexEntry{
		{Slug: "jan", Date: "2024-01-01"},
		{Slug: "mar", Date: "2024-03-01"},
		{Slug: "feb", Date: "2024-02-01"},
	}
	Sort(entries)
	if diff := cmp.Diff([]string{"mar", "feb", "jan"}, slugs(entries)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortStableAndInvalidLast(t *testing.T) {
	entries := []model.IndexEntry{
		{Slug: "bad", Date: "someday"},
		{Slug: "a", Date: "2024-02-01"},
		{Slug: "empty", Date: ""},
		{Slug: "b", Date: "2024-02-01"},
		{Slug: "timed", Date: "2024-02-01T08:00:00Z"},
		{Slug: "c", Date: "2024-02-01"},
	}
	Sort(entries)
	want := []string{"timed", "a", "b", "c", "bad", "empty"}
	if diff := cmp.Diff(want, slugs(entries)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDate(t *testing.T) {
	assert.True(t, ParseDate("nope").IsZero())
	assert.Equal(t, 2024, ParseDate("2024-05-01").Year())
	assert.Equal(t, 15, ParseDate("2024-05-01 15:04:05").Hour())
	assert.Equal(t, 15, ParseDate("2024-05-01T15:04:05").Hour())
}

func TestEncode(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	data, err = Encode([]model.IndexEntry{
		{Title: "A <b> & c", Date: "2024-01-01", Slug: "a", Excerpt: "x"},
	})
	require.NoError(t, err)
	want := "[\n" +
		"  {\n" +
		"    \"title\": \"A <b> & c\",\n" +
		"    \"date\": \"2024-01-01\",\n" +
		"    \"slug\": \"a\",\n" +
		"    \"excerpt\": \"x\"\n" +
		"  }\n" +
		"]\n"
	assert.Equal(t, want, string(data))
}

func TestWriteOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "posts.json")

	first := []model.IndexEntry{
		{Title: "Old", Date: "2023-01-01", Slug: "old"},
		{Title: "Older", Date: "2022-01-01", Slug: "older"},
	}
	require.NoError(t, Write(path, first))

	second := []model.IndexEntry{
		{Title: "Jan", Date: "2024-01-01", Slug: "jan"},
		{Title: "Mar", Date: "2024-03-01", Slug: "mar"},
		{Title: "Feb", Date: "2024-02-01", Slug: "feb"},
	}
	require.NoError(t, Write(path, second))

	got, err := Read(path)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"mar", "feb", "jan"}, slugs(got)); diff != "" {
		t.Fatalf("index mismatch (-want +got):\n%s", diff)
	}

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), raw[len(raw)-1])
}
