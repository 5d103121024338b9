package memory

import (
	"context"
	"sync"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driven"
)

// Ensure PullStateStore implements the interface.
var _ driven.PullStateStore = (*PullStateStore)(nil)

// PullStateStore is an in-memory implementation of driven.PullStateStore.
type PullStateStore struct {
	mu     sync.RWMutex
	states map[string]domain.PullState
}

// NewPullStateStore creates a new in-memory pull state store.
func NewPullStateStore() *PullStateStore {
	return &PullStateStore{
		states: make(map[string]domain.PullState),
	}
}

// Save stores or updates pull state.
func (s *PullStateStore) Save(_ context.Context, state domain.PullState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.SourceID] = state
	return nil
}

// Get retrieves pull state for a source.
func (s *PullStateStore) Get(_ context.Context, sourceID string) (*domain.PullState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[sourceID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &state, nil
}

// Delete removes pull state for a source.
func (s *PullStateStore) Delete(_ context.Context, sourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sourceID)
	return nil
}
