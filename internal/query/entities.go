package query

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"podium/internal/dataset"
	"podium/internal/kb"
)

// Entities is the per-query extraction result. Fields are resolved
// independently; an unresolved role stays at its zero value.
type Entities struct {
	Country    string  `json:"country,omitempty"`
	Year       string  `json:"year,omitempty"`
	MedalType  string  `json:"medal_type,omitempty"`
	City       string  `json:"city,omitempty"`
	Athlete    string  `json:"athlete,omitempty"`
	Quantity   *int    `json:"quantity,omitempty"`
	Comparison *string `json:"comparison,omitempty"` // reserved, never set
	Analysis   bool    `json:"analysis"`
}

// Matcher resolves the semantic roles (country, city, athlete) of a query
// against a knowledge base. Implementations: SemanticMatcher, FuzzyMatcher.
type Matcher interface {
	Resolve(ctx context.Context, normalized string, k *kb.KnowledgeBase) (map[dataset.Role]string, error)
}

var (
	yearRe    = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	integerRe = regexp.MustCompile(`\b\d+\b`)
)

var analysisTerms = []string{"analyze", "summary", "statistics"}

type Extractor struct {
	matcher Matcher
}

func NewExtractor(m Matcher) *Extractor {
	return &Extractor{matcher: m}
}

// Extract resolves every role of the entity set. Regex rules scan the
// normalized query; the medal and analysis rules scan the lowered original so
// tokenization can never hide a substring.
func (e *Extractor) Extract(ctx context.Context, normalized, original string, k *kb.KnowledgeBase) (Entities, error) {
	var ents Entities

	resolved, err := e.matcher.Resolve(ctx, normalized, k)
	if err != nil {
		return Entities{}, err
	}
	ents.Country = resolved[dataset.RoleCountry]
	ents.City = resolved[dataset.RoleCity]
	ents.Athlete = resolved[dataset.RoleAthlete]

	if m := yearRe.FindString(normalized); m != "" {
		ents.Year = m
	}
	// A bare integer is a year when it plausibly is one, otherwise a quantity.
	if m := integerRe.FindString(normalized); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			if n > 1800 && n < 2050 {
				ents.Year = m
			} else {
				ents.Quantity = &n
			}
		}
	}

	lower := strings.ToLower(original)
	for _, medal := range kb.MedalVocabulary {
		if strings.Contains(lower, medal) {
			ents.MedalType = medal
			break
		}
	}
	for _, term := range analysisTerms {
		if strings.Contains(lower, term) {
			ents.Analysis = true
			break
		}
	}

	return ents, nil
}
