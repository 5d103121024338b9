package driving

import (
	"context"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

// ClusterService groups stored documents by structural fingerprint.
type ClusterService interface {
	// Recluster recomputes all clusters from the stored documents,
	// replaces the persisted cluster set and reassigns documents.
	Recluster(ctx context.Context) ([]domain.PatternCluster, error)

	// List returns all clusters ordered by document count descending.
	List(ctx context.Context) ([]domain.PatternCluster, error)

	// Get retrieves a cluster by ID.
	Get(ctx context.Context, id int64) (*domain.PatternCluster, error)
}
