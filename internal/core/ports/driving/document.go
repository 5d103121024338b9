package driving

import (
	"context"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

// DocumentService manages stored extracted documents.
type DocumentService interface {
	// Get retrieves a full document record by ID.
	Get(ctx context.Context, documentID string) (*domain.DocumentRecord, error)

	// ListBySource returns lightweight rows for a source's documents.
	// An empty sourceID lists documents across all sources.
	ListBySource(ctx context.Context, sourceID string) ([]domain.SearchResult, error)

	// Delete removes a stored document.
	Delete(ctx context.Context, documentID string) error

	// Exclude removes a document and marks its file path to skip during
	// future pulls and processing runs.
	Exclude(ctx context.Context, documentID, reason string) error
}
