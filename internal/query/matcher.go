package query

import (
	"context"
	"fmt"

	"podium/internal/dataset"
	"podium/internal/kb"
	"podium/internal/providers"
	"podium/internal/util"
)

// SemanticMatcher embeds the normalized query once and picks, per role, the
// candidate with the highest cosine similarity. A best score at or below the
// threshold means the role is absent, not an error.
type SemanticMatcher struct {
	embedder  providers.EmbeddingProvider
	threshold float64
	dim       int
}

func NewSemanticMatcher(embedder providers.EmbeddingProvider, threshold float64, dim int) *SemanticMatcher {
	return &SemanticMatcher{embedder: embedder, threshold: threshold, dim: dim}
}

func (m *SemanticMatcher) Resolve(ctx context.Context, normalized string, k *kb.KnowledgeBase) (map[dataset.Role]string, error) {
	out := make(map[dataset.Role]string)
	if k == nil || normalized == "" {
		return out, nil
	}

	// Nothing embedded for any semantic role: skip the query embedding too.
	any := false
	for _, role := range dataset.SemanticRoles {
		if len(k.Values(role)) > 0 {
			any = true
			break
		}
	}
	if !any {
		return out, nil
	}

	vecs, _, err := m.embedder.Embed(ctx, providers.EmbedRequest{
		Operation: "query_match",
		Inputs:    []string{normalized},
		Dimension: m.dim,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", util.ErrEmbeddingUnavailable, err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("%w: empty query embedding", util.ErrEmbeddingUnavailable)
	}
	qvec := vecs[0]

	for _, role := range dataset.SemanticRoles {
		value, score, ok := k.Best(role, qvec)
		if ok && score > m.threshold {
			out[role] = value
		}
	}
	return out, nil
}

// FuzzyMatcher is the lexical alternative, selected through configuration. It
// scores candidates with a token-set ratio and never calls a model.
type FuzzyMatcher struct {
	minRatio int
}

func NewFuzzyMatcher(minRatio int) *FuzzyMatcher {
	if minRatio <= 0 {
		minRatio = 70
	}
	return &FuzzyMatcher{minRatio: minRatio}
}

func (m *FuzzyMatcher) Resolve(_ context.Context, normalized string, k *kb.KnowledgeBase) (map[dataset.Role]string, error) {
	out := make(map[dataset.Role]string)
	if k == nil || normalized == "" {
		return out, nil
	}
	for _, role := range dataset.SemanticRoles {
		best := ""
		bestScore := 0
		for _, cand := range k.Values(role) {
			if s := util.TokenSetRatio(normalized, cand); s > bestScore {
				best = cand
				bestScore = s
			}
		}
		if bestScore >= m.minRatio {
			out[role] = best
		}
	}
	return out, nil
}
