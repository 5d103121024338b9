package driven

import (
	"context"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

// PullStateStore persists pull progress per source.
type PullStateStore interface {
	// Save stores or updates pull state.
	Save(ctx context.Context, state domain.PullState) error

	// Get retrieves pull state for a source.
	Get(ctx context.Context, sourceID string) (*domain.PullState, error)

	// Delete removes pull state for a source.
	Delete(ctx context.Context, sourceID string) error
}
