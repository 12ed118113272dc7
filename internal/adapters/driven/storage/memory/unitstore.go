package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
)

// Ensure SemanticUnitStore implements the interface.
var _ driven.SemanticUnitStore = (*SemanticUnitStore)(nil)

// SemanticUnitStore is an in-memory implementation of driven.SemanticUnitStore.
type SemanticUnitStore struct {
	mu    sync.RWMutex
	units map[string]domain.SemanticUnit
}

// NewSemanticUnitStore creates a new in-memory unit store.
func NewSemanticUnitStore() *SemanticUnitStore {
	return &SemanticUnitStore{
		units: make(map[string]domain.SemanticUnit),
	}
}

// Save stores or updates a unit.
func (s *SemanticUnitStore) Save(_ context.Context, unit *domain.SemanticUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units[unit.ID] = cloneUnit(unit)
	return nil
}

// Get retrieves a unit by ID.
func (s *SemanticUnitStore) Get(_ context.Context, id string) (*domain.SemanticUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	unit, ok := s.units[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cloned := cloneUnit(&unit)
	return &cloned, nil
}

// List returns all units.
func (s *SemanticUnitStore) List(_ context.Context) ([]domain.SemanticUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.SemanticUnit, 0, len(s.units))
	for _, unit := range s.units {
		result = append(result, cloneUnit(&unit))
	}
	return result, nil
}

// ListBySourceID returns units with a contributing source.
func (s *SemanticUnitStore) ListBySourceID(_ context.Context, sourceID string) ([]domain.SemanticUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.SemanticUnit
	for _, unit := range s.units {
		if unit.SourceFor(sourceID) != nil {
			result = append(result, cloneUnit(&unit))
		}
	}
	return result, nil
}

// cloneUnit copies a unit so callers never share slices with the store.
func cloneUnit(unit *domain.SemanticUnit) domain.SemanticUnit {
	cloned := *unit
	cloned.EventRecorder = domain.EventRecorder{}
	cloned.Sources = append([]domain.UnitSource(nil), unit.Sources...)
	cloned.Versions = make([]domain.UnitVersion, len(unit.Versions))
	for i, v := range unit.Versions {
		cloned.Versions[i] = v
		cloned.Versions[i].SourceSnapshots = make([]domain.VersionSourceSnapshot, len(v.SourceSnapshots))
		for j, snap := range v.SourceSnapshots {
			cloned.Versions[i].SourceSnapshots[j] = snap
			cloned.Versions[i].SourceSnapshots[j].ProjectionIDs = append([]string(nil), snap.ProjectionIDs...)
		}
	}
	return cloned
}
