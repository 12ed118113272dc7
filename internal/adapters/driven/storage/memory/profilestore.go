package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
)

// Ensure ProfileStore implements the interface.
var _ driven.ProfileStore = (*ProfileStore)(nil)

// ProfileStore is an in-memory implementation of driven.ProfileStore.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]domain.ProcessingProfile
}

// NewProfileStore creates a new in-memory profile store.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		profiles: make(map[string]domain.ProcessingProfile),
	}
}

// Save stores or updates a profile.
func (s *ProfileStore) Save(_ context.Context, profile *domain.ProcessingProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *profile
	stored.EventRecorder = domain.EventRecorder{}
	stored.Config = copyConfig(profile.Config)
	s.profiles[profile.ID] = stored
	return nil
}

// Get retrieves a profile by ID.
func (s *ProfileStore) Get(_ context.Context, id string) (*domain.ProcessingProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	profile.Config = copyConfig(profile.Config)
	return &profile, nil
}

// List returns all profiles.
func (s *ProfileStore) List(_ context.Context) ([]domain.ProcessingProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.ProcessingProfile, 0, len(s.profiles))
	for _, profile := range s.profiles {
		result = append(result, profile)
	}
	return result, nil
}

// copyConfig creates a shallow copy of a config map.
func copyConfig(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
