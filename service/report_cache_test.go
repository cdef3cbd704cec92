package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/dsastcheck/domain"
)

func TestReportCache_HitAndInvalidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "A.tsx")
	require.NoError(t, os.WriteFile(path, []byte("export const A = 1"), 0644))

	cache, err := NewReportCache(4)
	require.NoError(t, err)

	report := &domain.FileReport{File: domain.SourceFile{RelPath: "A.tsx"}}
	cache.Put(path, report)

	got, ok := cache.Get(path)
	require.True(t, ok)
	assert.Same(t, report, got)

	// a content change with a new mtime invalidates the entry
	require.NoError(t, os.WriteFile(path, []byte("export const A = 22"), 0644))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	_, ok = cache.Get(path)
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestReportCache_RemovedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "B.tsx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	cache, err := NewReportCache(4)
	require.NoError(t, err)
	cache.Put(path, &domain.FileReport{})

	require.NoError(t, os.Remove(path))
	_, ok := cache.Get(path)
	assert.False(t, ok)
}

func TestReportCache_Eviction(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewReportCache(2)
	require.NoError(t, err)

	for _, name := range []string{"a.ts", "b.ts", "c.ts"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(name), 0644))
		cache.Put(path, &domain.FileReport{})
	}

	assert.Equal(t, 2, cache.Len())
	_, ok := cache.Get(filepath.Join(dir, "a.ts"))
	assert.False(t, ok, "least recently used entry should be evicted")

	cache.Invalidate(filepath.Join(dir, "b.ts"))
	cache.Purge()
	assert.Equal(t, 0, cache.Len())
}

func TestNewReportCache_InvalidSize(t *testing.T) {
	_, err := NewReportCache(0)
	assert.Error(t, err)
}
