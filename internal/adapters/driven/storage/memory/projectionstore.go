package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
)

// Ensure ProjectionStore implements the interface.
var _ driven.ProjectionStore = (*ProjectionStore)(nil)

// ProjectionStore is an in-memory implementation of driven.ProjectionStore.
type ProjectionStore struct {
	mu          sync.RWMutex
	projections map[string]domain.SemanticProjection
}

// NewProjectionStore creates a new in-memory projection store.
func NewProjectionStore() *ProjectionStore {
	return &ProjectionStore{
		projections: make(map[string]domain.SemanticProjection),
	}
}

// Save stores or updates a projection.
func (s *ProjectionStore) Save(_ context.Context, projection *domain.SemanticProjection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *projection
	stored.EventRecorder = domain.EventRecorder{}
	s.projections[projection.ID] = stored
	return nil
}

// Get retrieves a projection by ID.
func (s *ProjectionStore) Get(_ context.Context, id string) (*domain.SemanticProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	projection, ok := s.projections[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &projection, nil
}

// ListBySemanticUnitID returns all projections for a unit.
func (s *ProjectionStore) ListBySemanticUnitID(_ context.Context, unitID string) ([]domain.SemanticProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.SemanticProjection
	for _, projection := range s.projections {
		if projection.SemanticUnitID == unitID {
			result = append(result, projection)
		}
	}
	return result, nil
}
