package kb

import (
	"context"
	"sync"
	"testing"

	"podium/internal/dataset"
	"podium/internal/providers"
	"podium/internal/storage"

	"github.com/stretchr/testify/require"
)

func testDataset() (*dataset.Dataset, dataset.Profile) {
	d := dataset.New(
		[]string{"Team", "Year", "City", "Gold"},
		[][]string{
			{"USA", "2020", "Tokyo", "39"},
			{"China", "2020", "Tokyo", "38"},
			{"USA", "2016", "Rio", "46"},
		},
	)
	return d, dataset.ProfileSchema(d, nil)
}

func TestBuildDistinctFirstSeenOrder(t *testing.T) {
	d, prof := testDataset()
	k, err := Build(context.Background(), d, prof, providers.NewMockProvider(32), BuildOptions{Dimension: 32})
	require.NoError(t, err)

	require.Equal(t, []string{"USA", "China"}, k.Values(dataset.RoleCountry))
	require.Equal(t, []string{"Tokyo", "Rio"}, k.Values(dataset.RoleCity))
	require.Equal(t, []string{"2020", "2016"}, k.Values(dataset.RoleYear))
}

func TestBuildIdempotent(t *testing.T) {
	d, prof := testDataset()
	m := providers.NewMockProvider(32)
	a, err := Build(context.Background(), d, prof, m, BuildOptions{Dimension: 32})
	require.NoError(t, err)
	b, err := Build(context.Background(), d, prof, m, BuildOptions{Dimension: 32})
	require.NoError(t, err)

	require.Equal(t, a.Values(dataset.RoleCountry), b.Values(dataset.RoleCountry))
	require.Equal(t, a.roles[dataset.RoleCountry].Vectors, b.roles[dataset.RoleCountry].Vectors)
}

func TestBuildParallelSlices(t *testing.T) {
	d, prof := testDataset()
	k, err := Build(context.Background(), d, prof, providers.NewMockProvider(16), BuildOptions{Dimension: 16})
	require.NoError(t, err)
	for _, role := range dataset.SemanticRoles {
		c := k.roles[role]
		if c == nil {
			continue
		}
		require.Len(t, c.Vectors, len(c.Values))
	}
}

func TestBuildMissingRole(t *testing.T) {
	d := dataset.New([]string{"Gold"}, [][]string{{"1"}})
	prof := dataset.ProfileSchema(d, nil)
	k, err := Build(context.Background(), d, prof, providers.NewMockProvider(8), BuildOptions{Dimension: 8})
	require.NoError(t, err)
	require.Nil(t, k.Values(dataset.RoleCountry))
}

// countingEmbedder wraps the mock and counts inputs actually embedded.
type countingEmbedder struct {
	inner providers.EmbeddingProvider
	mu    sync.Mutex
	n     int
}

func (c *countingEmbedder) Embed(ctx context.Context, req providers.EmbedRequest) ([][]float32, providers.ProviderInfo, error) {
	c.mu.Lock()
	c.n += len(req.Inputs)
	c.mu.Unlock()
	return c.inner.Embed(ctx, req)
}

func TestBuildUsesCache(t *testing.T) {
	d, prof := testDataset()
	ce := &countingEmbedder{inner: providers.NewMockProvider(16)}
	opts := BuildOptions{
		Cache:         storage.NewMemoryCache(),
		CacheProvider: "mock",
		CacheModel:    "mock-16",
		Dimension:     16,
	}

	_, err := Build(context.Background(), d, prof, ce, opts)
	require.NoError(t, err)
	first := ce.n

	_, err = Build(context.Background(), d, prof, ce, opts)
	require.NoError(t, err)
	require.Equal(t, first, ce.n, "second build should be served from cache")
}

func TestBestSameStringIsPerfectMatch(t *testing.T) {
	d, prof := testDataset()
	m := providers.NewMockProvider(32)
	k, err := Build(context.Background(), d, prof, m, BuildOptions{Dimension: 32})
	require.NoError(t, err)

	vecs, _, err := m.Embed(context.Background(), providers.EmbedRequest{Inputs: []string{"USA"}, Dimension: 32})
	require.NoError(t, err)

	val, score, ok := k.Best(dataset.RoleCountry, vecs[0])
	require.True(t, ok)
	require.Equal(t, "USA", val)
	require.InDelta(t, 1.0, score, 1e-5)
}

func TestBestEmptyRole(t *testing.T) {
	k := &KnowledgeBase{roles: map[dataset.Role]*Candidates{}}
	_, _, ok := k.Best(dataset.RoleCountry, []float32{1})
	require.False(t, ok)
}

func TestCosine(t *testing.T) {
	require.InDelta(t, 1.0, Cosine([]float32{1, 0}, []float32{2, 0}), 1e-9)
	require.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	require.Equal(t, 0.0, Cosine([]float32{1}, []float32{1, 2}))
}

func TestStoreSwap(t *testing.T) {
	var s Store
	require.Nil(t, s.Current())

	d, prof := testDataset()
	snap := &Snapshot{Dataset: d, Profile: prof, KB: &KnowledgeBase{roles: map[dataset.Role]*Candidates{}}}
	s.Swap(snap)
	require.Same(t, snap, s.Current())
}
