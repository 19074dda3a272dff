package providers

import (
	"context"
	"testing"
)

func TestMockEmbedDeterministic(t *testing.T) {
	m := NewMockProvider(64)
	a, _, err := m.Embed(context.Background(), EmbedRequest{Inputs: []string{"USA"}})
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	b, _, err := m.Embed(context.Background(), EmbedRequest{Inputs: []string{"USA"}})
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(a) != 1 || len(a[0]) != 64 {
		t.Fatalf("unexpected vector shape %d x %d", len(a), len(a[0]))
	}
	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatalf("vectors differ at %d: %f vs %f", i, a[0][i], b[0][i])
		}
	}
}

func TestMockEmbedUnitNorm(t *testing.T) {
	m := NewMockProvider(32)
	vecs, _, _ := m.Embed(context.Background(), EmbedRequest{Inputs: []string{"China"}})
	var sum float64
	for _, x := range vecs[0] {
		sum += float64(x) * float64(x)
	}
	if sum < 0.99 || sum > 1.01 {
		t.Fatalf("expected unit norm, got squared sum %f", sum)
	}
}
