package kb

import (
	"sync/atomic"

	"podium/internal/dataset"
)

// Snapshot binds a dataset, its schema profile and the knowledge base built
// from it. Queries read one snapshot for their whole lifetime.
type Snapshot struct {
	Dataset *dataset.Dataset
	Profile dataset.Profile
	KB      *KnowledgeBase
}

// Store holds the active snapshot. A rebuild is installed with one Swap, so a
// concurrent query can never observe a half-built knowledge base.
type Store struct {
	p atomic.Pointer[Snapshot]
}

func (s *Store) Swap(snap *Snapshot) {
	s.p.Store(snap)
}

// Current returns the active snapshot, nil when no dataset has been loaded.
func (s *Store) Current() *Snapshot {
	return s.p.Load()
}
