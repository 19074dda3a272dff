package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSQLiteCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.db")
	c, err := NewSQLiteCache(path)
	require.NoError(t, err)
	defer c.Close()

	vec := []float32{0.25, -1.5, 3.0}
	require.NoError(t, c.Put("mock", "mock-embed-3", "USA", vec))

	got, ok := c.Get("mock", "mock-embed-3", "USA")
	require.True(t, ok)
	require.Equal(t, vec, got)

	_, ok = c.Get("mock", "mock-embed-3", "China")
	require.False(t, ok)
}

func TestSQLiteCacheReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.db")
	c, err := NewSQLiteCache(path)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Put("mock", "m", "x", []float32{1}))
	require.NoError(t, c.Put("mock", "m", "x", []float32{2}))
	got, ok := c.Get("mock", "m", "x")
	require.True(t, ok)
	require.Equal(t, []float32{2}, got)
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	require.NoError(t, c.Put("p", "m", "t", []float32{1, 2}))
	got, ok := c.Get("p", "m", "t")
	require.True(t, ok)
	require.Equal(t, []float32{1, 2}, got)
}
