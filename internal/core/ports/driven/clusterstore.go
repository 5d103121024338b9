package driven

import (
	"context"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

// ClusterStore persists pattern clusters and per-cluster field mappings.
type ClusterStore interface {
	// SaveCluster stores or updates a cluster. A zero ID is assigned
	// on insert and written back to the cluster.
	SaveCluster(ctx context.Context, cluster *domain.PatternCluster) error

	// GetCluster retrieves a cluster by ID.
	GetCluster(ctx context.Context, id int64) (*domain.PatternCluster, error)

	// ListClusters returns all clusters ordered by document count descending.
	ListClusters(ctx context.Context) ([]domain.PatternCluster, error)

	// ReplaceClusters atomically replaces the full cluster set.
	// Used by reclustering, which recomputes groups from scratch.
	ReplaceClusters(ctx context.Context, clusters []*domain.PatternCluster) error

	// SaveMappings replaces the field mappings for a cluster.
	SaveMappings(ctx context.Context, clusterID int64, mappings []domain.FieldMapping) error

	// GetMappings returns the field mappings for a cluster.
	GetMappings(ctx context.Context, clusterID int64) ([]domain.FieldMapping, error)
}
