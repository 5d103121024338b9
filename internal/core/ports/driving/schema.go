package driving

import (
	"context"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

// SchemaService discovers field usage across stored documents and manages
// canonical field mappings per cluster.
type SchemaService interface {
	// FieldStatistics computes per-field usage across stored documents.
	// A non-nil clusterID restricts the scan to one cluster's documents.
	// Results are ordered by occurrence count descending.
	FieldStatistics(ctx context.Context, clusterID *int64) ([]domain.FieldStats, error)

	// SuggestCanonical proposes a canonical name for a raw field name.
	SuggestCanonical(field string) string

	// SaveMappings replaces the source-to-canonical mappings for a cluster.
	SaveMappings(ctx context.Context, clusterID int64, mappings []domain.FieldMapping) error

	// Mappings returns the stored mappings for a cluster.
	Mappings(ctx context.Context, clusterID int64) ([]domain.FieldMapping, error)

	// Apply flattens a document's key-value sections and renames fields
	// through its cluster's mappings. Unmapped fields keep their names.
	Apply(ctx context.Context, documentID string) (map[string]any, error)
}
