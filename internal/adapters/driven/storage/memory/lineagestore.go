package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
)

// Ensure LineageStore implements the interface.
var _ driven.LineageStore = (*LineageStore)(nil)

// LineageStore is an in-memory implementation of driven.LineageStore.
type LineageStore struct {
	mu       sync.RWMutex
	lineages map[string]domain.KnowledgeLineage
}

// NewLineageStore creates a new in-memory lineage store.
func NewLineageStore() *LineageStore {
	return &LineageStore{
		lineages: make(map[string]domain.KnowledgeLineage),
	}
}

// Save stores or updates a lineage record.
func (s *LineageStore) Save(_ context.Context, lineage *domain.KnowledgeLineage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *lineage
	stored.Transformations = append([]domain.Transformation(nil), lineage.Transformations...)
	stored.Traces = append([]domain.Trace(nil), lineage.Traces...)
	s.lineages[lineage.SemanticUnitID] = stored
	return nil
}

// Get retrieves the lineage for a unit.
func (s *LineageStore) Get(_ context.Context, unitID string) (*domain.KnowledgeLineage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lineage, ok := s.lineages[unitID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	lineage.Transformations = append([]domain.Transformation(nil), lineage.Transformations...)
	lineage.Traces = append([]domain.Trace(nil), lineage.Traces...)
	return &lineage, nil
}
