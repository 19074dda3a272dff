package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"podium/internal/answer"
	"podium/internal/config"
	"podium/internal/dataset"
	"podium/internal/kb"
	"podium/internal/providers"
	"podium/internal/query"
	"podium/internal/search"
	"podium/internal/storage"
)

// Session owns one dataset at a time and everything derived from it. Queries
// read an atomically swapped snapshot, so a re-upload mid-query is never
// partially observed.
type Session struct {
	cfg        config.Config
	manager    *providers.Manager
	cache      storage.EmbedCache
	store      kb.Store
	extractor  *query.Extractor
	classifier *query.Classifier
	gen        *answer.Generator
	cands      dataset.Candidates

	loadMu sync.Mutex
}

// Outcome is the full structured evidence for one query, handed to callers
// alongside the generated answer.
type Outcome struct {
	Query        string         `json:"query"`
	Normalized   string         `json:"normalized_query"`
	Entities     query.Entities `json:"entities"`
	Intent       query.Intent   `json:"intent"`
	Plan         query.Plan     `json:"plan"`
	Result       search.Result  `json:"result"`
	Answer       string         `json:"answer"`
	ProcessingMS int64          `json:"processing_ms"`
}

// NewSession wires providers, matcher, classifier and the optional embedding
// cache. It fails when the embedding capability cannot be established; the
// pipeline is useless without it and must not degrade silently.
func NewSession(ctx context.Context, cfg config.Config) (*Session, error) {
	manager, err := providers.NewManager(cfg)
	if err != nil {
		return nil, fmt.Errorf("build providers: %w", err)
	}

	var cache storage.EmbedCache
	if cfg.EmbedCachePath != "" {
		cache, err = storage.NewSQLiteCache(cfg.EmbedCachePath)
		if err != nil {
			return nil, err
		}
	}

	var matcher query.Matcher
	switch cfg.Matcher {
	case "fuzzy":
		matcher = query.NewFuzzyMatcher(cfg.FuzzyRatio)
	default:
		matcher = query.NewSemanticMatcher(manager.FirstEmbedProvider(), cfg.MatchThreshold, cfg.EmbedDim)
	}

	classifier, err := query.NewClassifier(ctx, manager.FirstEmbedProvider(), cfg.IntentThreshold, cfg.EmbedDim)
	if err != nil {
		if cache != nil {
			cache.Close()
		}
		return nil, err
	}

	var cands dataset.Candidates
	if cfg.RolesFile != "" {
		cands, err = dataset.LoadCandidates(cfg.RolesFile)
		if err != nil {
			if cache != nil {
				cache.Close()
			}
			return nil, err
		}
	}

	return &Session{
		cfg:        cfg,
		manager:    manager,
		cache:      cache,
		extractor:  query.NewExtractor(matcher),
		classifier: classifier,
		gen:        answer.NewGenerator(manager.FirstLLMProvider(), cfg.MaxPromptRows),
		cands:      cands,
	}, nil
}

// LoadDataset parses a CSV, profiles it, builds the knowledge base and swaps
// both in together. The previous snapshot stays visible until the new one is
// complete.
func (s *Session) LoadDataset(ctx context.Context, r io.Reader) (*kb.Snapshot, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	d, err := dataset.LoadCSV(r)
	if err != nil {
		return nil, err
	}
	prof := dataset.ProfileSchema(d, s.cands)

	ref := s.manager.FirstEmbedRef()
	k, err := kb.Build(ctx, d, prof, s.manager.FirstEmbedProvider(), kb.BuildOptions{
		Cache:         s.cache,
		CacheProvider: ref.Name,
		CacheModel:    fmt.Sprintf("%s/%d", ref.Raw, s.cfg.EmbedDim),
		Dimension:     s.cfg.EmbedDim,
	})
	if err != nil {
		return nil, fmt.Errorf("build knowledge base: %w", err)
	}

	snap := &kb.Snapshot{Dataset: d, Profile: prof, KB: k}
	s.store.Swap(snap)
	return snap, nil
}

// Current returns the active snapshot, nil before the first load.
func (s *Session) Current() *kb.Snapshot {
	return s.store.Current()
}

// Process runs one query through extraction, classification, planning,
// retrieval and answer generation. The snapshot is captured once at the top;
// everything after reads only that capture.
func (s *Session) Process(ctx context.Context, userQuery string) (Outcome, error) {
	start := time.Now()

	snap := s.store.Current()
	var (
		d    *dataset.Dataset
		prof dataset.Profile
		k    *kb.KnowledgeBase
	)
	if snap != nil {
		d = snap.Dataset
		prof = snap.Profile
		k = snap.KB
	}

	normalized := query.Normalize(userQuery)

	ents, err := s.extractor.Extract(ctx, normalized, userQuery, k)
	if err != nil {
		return Outcome{}, err
	}
	intent, err := s.classifier.Classify(ctx, userQuery)
	if err != nil {
		return Outcome{}, err
	}

	plan := query.BuildPlan(intent, ents, s.cfg.DefaultLimit)
	res := search.Search(d, prof, plan)

	ans, err := s.gen.Answer(ctx, userQuery, res, ents, intent)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{
		Query:        userQuery,
		Normalized:   normalized,
		Entities:     ents,
		Intent:       intent,
		Plan:         plan,
		Result:       res,
		Answer:       ans,
		ProcessingMS: time.Since(start).Milliseconds(),
	}, nil
}

// Close releases the embedding cache, if any.
func (s *Session) Close() error {
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}
