package driven

import (
	"context"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

// ExclusionStore persists file exclusions.
// Excluded paths are skipped during pull and processing.
type ExclusionStore interface {
	// Add creates a new exclusion.
	Add(ctx context.Context, exclusion *domain.Exclusion) error

	// Remove deletes an exclusion by ID.
	Remove(ctx context.Context, id string) error

	// GetBySourceID returns all exclusions for a source.
	GetBySourceID(ctx context.Context, sourceID string) ([]domain.Exclusion, error)

	// IsExcluded checks if a path is excluded for a source.
	// Global exclusions (empty source ID) match every source.
	IsExcluded(ctx context.Context, sourceID, path string) (bool, error)

	// List returns all exclusions.
	List(ctx context.Context) ([]domain.Exclusion, error)
}
