package query

import (
	"context"
	"fmt"

	"podium/internal/kb"
	"podium/internal/providers"
	"podium/internal/util"
)

type Intent string

const (
	IntentRanking    Intent = "ranking"
	IntentMedalCount Intent = "medal_count"
	IntentFilter     Intent = "filter"
	IntentAnalysis   Intent = "analysis"
)

// Canonical intent exemplars. Order is the tie-break, so it is fixed.
var intentExemplars = []struct {
	Intent Intent
	Text   string
}{
	{IntentRanking, "Show top countries or athletes"},
	{IntentMedalCount, "How many medals did someone win"},
	{IntentFilter, "Tell me about an athlete or event"},
	{IntentAnalysis, "Analyze performance or compare stats"},
}

// Classifier scores queries against the canonical exemplars, embedded once at
// construction. Construction fails when the embedder does, so a missing model
// surfaces at startup rather than per query.
type Classifier struct {
	embedder  providers.EmbeddingProvider
	threshold float64
	dim       int
	vectors   [][]float32
}

func NewClassifier(ctx context.Context, embedder providers.EmbeddingProvider, threshold float64, dim int) (*Classifier, error) {
	texts := make([]string, len(intentExemplars))
	for i, ex := range intentExemplars {
		texts[i] = ex.Text
	}
	vecs, _, err := embedder.Embed(ctx, providers.EmbedRequest{
		Operation: "intent_exemplars",
		Inputs:    texts,
		Dimension: dim,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: embed intent exemplars: %v", util.ErrEmbeddingUnavailable, err)
	}
	if len(vecs) != len(intentExemplars) {
		return nil, fmt.Errorf("%w: expected %d exemplar vectors, got %d", util.ErrEmbeddingUnavailable, len(intentExemplars), len(vecs))
	}
	return &Classifier{embedder: embedder, threshold: threshold, dim: dim, vectors: vecs}, nil
}

// Classify returns the best-scoring intent, or IntentFilter when the best
// score is at or below the threshold.
func (c *Classifier) Classify(ctx context.Context, query string) (Intent, error) {
	vecs, _, err := c.embedder.Embed(ctx, providers.EmbedRequest{
		Operation: "intent_classify",
		Inputs:    []string{query},
		Dimension: c.dim,
	})
	if err != nil {
		return IntentFilter, fmt.Errorf("%w: embed query: %v", util.ErrEmbeddingUnavailable, err)
	}
	if len(vecs) == 0 {
		return IntentFilter, fmt.Errorf("%w: empty query embedding", util.ErrEmbeddingUnavailable)
	}

	best := IntentFilter
	bestScore := -1.0
	for i, ex := range intentExemplars {
		if s := kb.Cosine(vecs[0], c.vectors[i]); s > bestScore {
			bestScore = s
			best = ex.Intent
		}
	}
	if bestScore <= c.threshold {
		return IntentFilter, nil
	}
	return best, nil
}
