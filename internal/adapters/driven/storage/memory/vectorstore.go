package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore using
// exact brute-force cosine scoring.
type VectorStore struct {
	mu      sync.RWMutex
	entries map[string]domain.VectorEntry
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		entries: make(map[string]domain.VectorEntry),
	}
}

// Upsert inserts or overwrites entries by id.
func (s *VectorStore) Upsert(_ context.Context, entries []domain.VectorEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range entries {
		if entry.ID == "" {
			return domain.ErrInvalidInput
		}
		stored := entry
		stored.Vector = append([]float32(nil), entry.Vector...)
		stored.Metadata = copyConfig(entry.Metadata)
		s.entries[entry.ID] = stored
	}
	return nil
}

// Delete removes entries by id. Missing ids are ignored.
func (s *VectorStore) Delete(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.entries, id)
	}
	return nil
}

// DeleteBySemanticUnitID removes all entries for the given unit.
func (s *VectorStore) DeleteBySemanticUnitID(_ context.Context, unitID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.entries {
		if entry.SemanticUnitID == unitID {
			delete(s.entries, id)
		}
	}
	return nil
}

// Search returns up to topK entries ranked by descending cosine similarity.
func (s *VectorStore) Search(_ context.Context, query []float32, topK int, filter map[string]any) ([]domain.VectorHit, error) {
	if topK <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]domain.VectorHit, 0, len(s.entries))
	for _, entry := range s.entries {
		if !matchesFilter(entry.Metadata, filter) {
			continue
		}
		hits = append(hits, domain.VectorHit{
			Entry: entry,
			Score: domain.CosineSimilarity(query, entry.Vector),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Count returns the number of stored entries.
func (s *VectorStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// matchesFilter reports whether metadata satisfies every exact-match
// condition in filter.
func matchesFilter(metadata, filter map[string]any) bool {
	for key, want := range filter {
		got, ok := metadata[key]
		if !ok || got != want {
			return false
		}
	}
	return true
}
