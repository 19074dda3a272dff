package query

import (
	"context"
	"testing"

	"podium/internal/dataset"
	"podium/internal/kb"
	"podium/internal/providers"

	"github.com/stretchr/testify/require"
)

func buildKB(t *testing.T) *kb.KnowledgeBase {
	t.Helper()
	d := dataset.New(
		[]string{"Team", "Year", "City", "Name", "Gold"},
		[][]string{
			{"USA", "2020", "Tokyo", "Caeleb Dressel", "39"},
			{"China", "2020", "Tokyo", "Ma Long", "38"},
		},
	)
	prof := dataset.ProfileSchema(d, nil)
	k, err := kb.Build(context.Background(), d, prof, providers.NewMockProvider(64), kb.BuildOptions{Dimension: 64})
	require.NoError(t, err)
	return k
}

func newSemanticExtractor() *Extractor {
	return NewExtractor(NewSemanticMatcher(providers.NewMockProvider(64), 0.6, 64))
}

func TestExtractYearFourDigit(t *testing.T) {
	e := newSemanticExtractor()
	ents, err := e.Extract(context.Background(), "usa gold medals in 2020", "USA gold medals in 2020", buildKB(t))
	require.NoError(t, err)
	require.Equal(t, "2020", ents.Year)
	require.Nil(t, ents.Quantity)
}

func TestExtractBareIntegerAsYear(t *testing.T) {
	e := newSemanticExtractor()
	ents, err := e.Extract(context.Background(), "medals in 1950", "medals in 1950", buildKB(t))
	require.NoError(t, err)
	require.Equal(t, "1950", ents.Year)
}

func TestExtractQuantity(t *testing.T) {
	e := newSemanticExtractor()
	ents, err := e.Extract(context.Background(), "show top 2 countries by gold", "Show top 2 countries by gold", buildKB(t))
	require.NoError(t, err)
	require.NotNil(t, ents.Quantity)
	require.Equal(t, 2, *ents.Quantity)
	require.Empty(t, ents.Year)
}

func TestExtractMedalVocabularyOrder(t *testing.T) {
	e := newSemanticExtractor()
	ents, err := e.Extract(context.Background(), "silver and gold medals", "silver and gold medals", buildKB(t))
	require.NoError(t, err)
	// vocabulary order wins over position in the query
	require.Equal(t, "gold", ents.MedalType)
}

func TestExtractAnalysisFlag(t *testing.T) {
	e := newSemanticExtractor()
	ents, err := e.Extract(context.Background(), "analyze china performance", "Analyze China performance", buildKB(t))
	require.NoError(t, err)
	require.True(t, ents.Analysis)
}

func TestExtractComparisonReserved(t *testing.T) {
	e := newSemanticExtractor()
	ents, err := e.Extract(context.Background(), "usa versus china", "USA versus China", buildKB(t))
	require.NoError(t, err)
	require.Nil(t, ents.Comparison)
}

func TestSemanticRoundTripVerbatimValue(t *testing.T) {
	// The mock embedder maps identical strings to identical vectors, so a
	// query that is exactly a known value must resolve to it.
	m := NewSemanticMatcher(providers.NewMockProvider(64), 0.6, 64)
	resolved, err := m.Resolve(context.Background(), "USA", buildKB(t))
	require.NoError(t, err)
	require.Equal(t, "USA", resolved[dataset.RoleCountry])
}

func TestSemanticNoMatchBelowThreshold(t *testing.T) {
	m := NewSemanticMatcher(providers.NewMockProvider(64), 0.6, 64)
	resolved, err := m.Resolve(context.Background(), "brazil football", buildKB(t))
	require.NoError(t, err)
	_, ok := resolved[dataset.RoleCountry]
	require.False(t, ok, "unrelated query must not resolve a country")
}

func TestSemanticIdempotent(t *testing.T) {
	m := NewSemanticMatcher(providers.NewMockProvider(64), 0.6, 64)
	k := buildKB(t)
	a, err := m.Resolve(context.Background(), "USA", k)
	require.NoError(t, err)
	b, err := m.Resolve(context.Background(), "USA", k)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestSemanticEmptyKnowledgeBase(t *testing.T) {
	d := dataset.New([]string{"Gold"}, [][]string{{"1"}})
	prof := dataset.ProfileSchema(d, nil)
	k, err := kb.Build(context.Background(), d, prof, providers.NewMockProvider(64), kb.BuildOptions{Dimension: 64})
	require.NoError(t, err)

	e := newSemanticExtractor()
	ents, err := e.Extract(context.Background(), "usa in 2020", "USA in 2020", k)
	require.NoError(t, err)
	require.Empty(t, ents.Country)
	require.Equal(t, "2020", ents.Year, "regex roles still resolve without candidates")
}

func TestFuzzyMatcherResolvesContainedValue(t *testing.T) {
	m := NewFuzzyMatcher(70)
	resolved, err := m.Resolve(context.Background(), "how many medals usa win", buildKB(t))
	require.NoError(t, err)
	require.Equal(t, "USA", resolved[dataset.RoleCountry])
}

func TestFuzzyMatcherRejectsUnknown(t *testing.T) {
	m := NewFuzzyMatcher(70)
	resolved, err := m.Resolve(context.Background(), "brazil", buildKB(t))
	require.NoError(t, err)
	_, ok := resolved[dataset.RoleCountry]
	require.False(t, ok)
}
