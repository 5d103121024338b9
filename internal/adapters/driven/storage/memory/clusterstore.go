package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driven"
)

// Ensure ClusterStore implements the interface.
var _ driven.ClusterStore = (*ClusterStore)(nil)

// ClusterStore is an in-memory implementation of driven.ClusterStore.
type ClusterStore struct {
	mu       sync.RWMutex
	clusters map[int64]domain.PatternCluster
	mappings map[int64][]domain.FieldMapping
	nextID   int64
}

// NewClusterStore creates a new in-memory cluster store.
func NewClusterStore() *ClusterStore {
	return &ClusterStore{
		clusters: make(map[int64]domain.PatternCluster),
		mappings: make(map[int64][]domain.FieldMapping),
		nextID:   1,
	}
}

// SaveCluster stores or updates a cluster, assigning an ID on insert.
func (s *ClusterStore) SaveCluster(_ context.Context, cluster *domain.PatternCluster) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cluster.ID == 0 {
		cluster.ID = s.nextID
		s.nextID++
	} else if cluster.ID >= s.nextID {
		s.nextID = cluster.ID + 1
	}
	s.clusters[cluster.ID] = *cluster
	return nil
}

// GetCluster retrieves a cluster by ID.
func (s *ClusterStore) GetCluster(_ context.Context, id int64) (*domain.PatternCluster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cluster, ok := s.clusters[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &cluster, nil
}

// ListClusters returns all clusters ordered by document count descending.
func (s *ClusterStore) ListClusters(_ context.Context) ([]domain.PatternCluster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.PatternCluster, 0, len(s.clusters))
	for _, cluster := range s.clusters {
		result = append(result, cluster)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].DocumentCount != result[j].DocumentCount {
			return result[i].DocumentCount > result[j].DocumentCount
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// ReplaceClusters atomically replaces the full cluster set.
func (s *ClusterStore) ReplaceClusters(_ context.Context, clusters []*domain.PatternCluster) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clusters = make(map[int64]domain.PatternCluster, len(clusters))
	s.mappings = make(map[int64][]domain.FieldMapping)
	s.nextID = 1
	for _, cluster := range clusters {
		if cluster.ID == 0 {
			cluster.ID = s.nextID
		}
		if cluster.ID >= s.nextID {
			s.nextID = cluster.ID + 1
		}
		s.clusters[cluster.ID] = *cluster
	}
	return nil
}

// SaveMappings replaces the field mappings for a cluster.
func (s *ClusterStore) SaveMappings(_ context.Context, clusterID int64, mappings []domain.FieldMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]domain.FieldMapping, len(mappings))
	copy(copied, mappings)
	s.mappings[clusterID] = copied
	return nil
}

// GetMappings returns the field mappings for a cluster.
func (s *ClusterStore) GetMappings(_ context.Context, clusterID int64) ([]domain.FieldMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mappings := s.mappings[clusterID]
	result := make([]domain.FieldMapping, len(mappings))
	copy(result, mappings)
	return result, nil
}
