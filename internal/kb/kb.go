package kb

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"podium/internal/dataset"
	"podium/internal/providers"
	"podium/internal/storage"
)

// MedalVocabulary is fixed knowledge, not learned from the dataset. Order
// matters: the first substring hit in this order wins during extraction.
var MedalVocabulary = []string{"gold", "silver", "bronze", "total"}

// Candidates holds the distinct known values for one role and, for semantic
// roles, their embedding vectors in a parallel slice.
type Candidates struct {
	Values  []string
	Vectors [][]float32
}

// KnowledgeBase is the per-dataset universe of known entity values. It is
// built once per dataset load and read-only afterwards.
type KnowledgeBase struct {
	DatasetID string
	roles     map[dataset.Role]*Candidates
}

// BuildOptions controls embedding during a build. Cache is optional; when set,
// values already embedded under (CacheProvider, CacheModel) are not re-sent to
// the provider.
type BuildOptions struct {
	Cache         storage.EmbedCache
	CacheProvider string
	CacheModel    string
	Dimension     int
}

// Build extracts distinct values per present role and embeds the semantic
// ones. Rebuilding on the same dataset with a deterministic embedder
// reproduces the same value order and vectors.
func Build(ctx context.Context, d *dataset.Dataset, prof dataset.Profile, embedder providers.EmbeddingProvider, opts BuildOptions) (*KnowledgeBase, error) {
	k := &KnowledgeBase{roles: make(map[dataset.Role]*Candidates)}
	if d == nil {
		return k, nil
	}
	k.DatasetID = d.ID

	for _, role := range dataset.SemanticRoles {
		if !prof.Has(role) {
			continue
		}
		values := distinctValues(d, prof.Column(role))
		vectors, err := embedValues(ctx, embedder, values, opts)
		if err != nil {
			return nil, fmt.Errorf("embed %s values: %w", role, err)
		}
		k.roles[role] = &Candidates{Values: values, Vectors: vectors}
	}

	if prof.Has(dataset.RoleYear) {
		k.roles[dataset.RoleYear] = &Candidates{Values: distinctYears(d, prof.Column(dataset.RoleYear))}
	}

	return k, nil
}

// Values returns the known values for a role, nil when the role is absent.
func (k *KnowledgeBase) Values(role dataset.Role) []string {
	c, ok := k.roles[role]
	if !ok {
		return nil
	}
	return c.Values
}

// Best returns the candidate with the highest cosine similarity to the query
// vector. ok is false when the role has no embedded candidates.
func (k *KnowledgeBase) Best(role dataset.Role, query []float32) (string, float64, bool) {
	c, ok := k.roles[role]
	if !ok || len(c.Values) == 0 || len(c.Vectors) == 0 {
		return "", 0, false
	}
	bestIdx := 0
	bestScore := math.Inf(-1)
	for i, vec := range c.Vectors {
		if s := Cosine(query, vec); s > bestScore {
			bestScore = s
			bestIdx = i
		}
	}
	return c.Values[bestIdx], bestScore, true
}

// Cosine returns the cosine similarity of two vectors, 0 for mismatched or
// zero-length input.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func distinctValues(d *dataset.Dataset, column string) []string {
	seen := make(map[string]bool)
	var out []string
	for i := 0; i < d.Len(); i++ {
		v := d.Value(i, column)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// distinctYears parses whole numbers and renders them back as strings so
// "2020.0" and "2020" collapse to the same value.
func distinctYears(d *dataset.Dataset, column string) []string {
	seen := make(map[int]bool)
	var out []string
	for i := 0; i < d.Len(); i++ {
		v := d.Value(i, column)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		y := int(f)
		if seen[y] {
			continue
		}
		seen[y] = true
		out = append(out, strconv.Itoa(y))
	}
	return out
}

func embedValues(ctx context.Context, embedder providers.EmbeddingProvider, values []string, opts BuildOptions) ([][]float32, error) {
	if len(values) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, len(values))
	var missing []string
	var missingIdx []int
	for i, v := range values {
		if opts.Cache != nil {
			if vec, ok := opts.Cache.Get(opts.CacheProvider, opts.CacheModel, v); ok {
				vectors[i] = vec
				continue
			}
		}
		missing = append(missing, v)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return vectors, nil
	}

	embedded, _, err := embedder.Embed(ctx, providers.EmbedRequest{
		Operation: "kb_build",
		Inputs:    missing,
		Dimension: opts.Dimension,
	})
	if err != nil {
		return nil, err
	}
	if len(embedded) != len(missing) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d inputs", len(embedded), len(missing))
	}
	for j, vec := range embedded {
		vectors[missingIdx[j]] = vec
		if opts.Cache != nil {
			if err := opts.Cache.Put(opts.CacheProvider, opts.CacheModel, missing[j], vec); err != nil {
				return nil, fmt.Errorf("cache embedding: %w", err)
			}
		}
	}
	return vectors, nil
}
