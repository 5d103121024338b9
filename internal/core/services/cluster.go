package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driven"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driving"
	"github.com/naveenbxyz/spexplorer/internal/logger"
)

// Ensure ClusterService implements the interface.
var _ driving.ClusterService = (*ClusterService)(nil)

// maxSummarySample is how many member documents feed a cluster summary.
const maxSummarySample = 10

// ClusterService groups stored documents by structural fingerprint.
// Documents land in the same cluster exactly when their signatures match.
type ClusterService struct {
	docStore     driven.DocumentStore
	clusterStore driven.ClusterStore
	archive      driven.ClusterArchive
}

// NewClusterService creates a new cluster service. The archive is
// optional; reclustering skips the JSON export when it is nil.
func NewClusterService(docStore driven.DocumentStore, clusterStore driven.ClusterStore, archive driven.ClusterArchive) *ClusterService {
	return &ClusterService{
		docStore:     docStore,
		clusterStore: clusterStore,
		archive:      archive,
	}
}

// Recluster rebuilds all pattern clusters from the stored documents and
// writes the assignments back to the index.
func (s *ClusterService) Recluster(ctx context.Context) ([]domain.PatternCluster, error) {
	if s.docStore == nil || s.clusterStore == nil {
		return nil, fmt.Errorf("recluster: %w", domain.ErrNotImplemented)
	}

	records, err := s.docStore.ListDocuments(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	// Group successful documents by fingerprint, preserving first-seen order
	groups := make(map[string][]domain.DocumentRecord)
	var order []string
	for _, rec := range records {
		if rec.Document.Failed() || rec.Document.Fingerprint == "" {
			continue
		}
		fp := rec.Document.Fingerprint
		if _, seen := groups[fp]; !seen {
			order = append(order, fp)
		}
		groups[fp] = append(groups[fp], rec)
	}

	// Largest clusters first; equal sizes keep first-seen order
	sort.SliceStable(order, func(i, j int) bool {
		return len(groups[order[i]]) > len(groups[order[j]])
	})

	now := time.Now()
	clusters := make([]*domain.PatternCluster, 0, len(order))
	for i, fp := range order {
		members := groups[fp]
		cluster := &domain.PatternCluster{
			Name:          fmt.Sprintf("Cluster %d", i+1),
			Fingerprint:   fp,
			DocumentCount: len(members),
			Summary:       summarizeMembers(members),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		for _, rec := range members[:min(len(members), 5)] {
			cluster.ExampleIDs = append(cluster.ExampleIDs, rec.ID)
		}
		clusters = append(clusters, cluster)
	}

	if err := s.clusterStore.ReplaceClusters(ctx, clusters); err != nil {
		return nil, fmt.Errorf("replace clusters: %w", err)
	}

	// Write assignments back to the document index
	for i, fp := range order {
		for _, rec := range groups[fp] {
			if err := s.docStore.AssignCluster(ctx, rec.ID, clusters[i].ID); err != nil {
				return nil, fmt.Errorf("assign cluster %d to %s: %w", clusters[i].ID, rec.ID, err)
			}
		}
	}

	result := make([]domain.PatternCluster, len(clusters))
	for i, c := range clusters {
		result[i] = *c
	}

	if s.archive != nil {
		if err := s.archive.SaveClusters(ctx, result); err != nil {
			logger.Warn("Cluster export failed: %v", err)
		}
	}

	logger.Info("Clustered %d documents into %d patterns", len(records), len(clusters))
	return result, nil
}

// List returns all pattern clusters, largest first.
func (s *ClusterService) List(ctx context.Context) ([]domain.PatternCluster, error) {
	if s.clusterStore == nil {
		return nil, fmt.Errorf("list clusters: %w", domain.ErrNotImplemented)
	}
	clusters, err := s.clusterStore.ListClusters(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clusters: %w", err)
	}
	return clusters, nil
}

// Get returns one pattern cluster by ID.
func (s *ClusterService) Get(ctx context.Context, id int64) (*domain.PatternCluster, error) {
	if s.clusterStore == nil {
		return nil, fmt.Errorf("get cluster: %w", domain.ErrNotImplemented)
	}
	cluster, err := s.clusterStore.GetCluster(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get cluster %d: %w", id, err)
	}
	return cluster, nil
}

// summarizeMembers describes the structure shared by a cluster's members,
// sampled from the first few documents.
func summarizeMembers(members []domain.DocumentRecord) domain.ClusterSummary {
	sheetNames := newCounter()
	fields := newCounter()
	sectionTypes := make(map[domain.SectionType]int)

	for _, rec := range members[:min(len(members), maxSummarySample)] {
		for _, sheet := range rec.Document.Sheets {
			sheetNames.Add(sheet.Name)
			for i := range sheet.Sections {
				section := &sheet.Sections[i]
				sectionTypes[section.Type]++
				for _, field := range section.FieldNames() {
					fields.Add(field)
				}
			}
		}
	}

	return domain.ClusterSummary{
		SheetNames:   sheetNames.MostCommon(5),
		SectionTypes: sectionTypes,
		CommonFields: fields.MostCommon(20),
	}
}

// counter tallies string occurrences preserving first-seen order for ties.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) Add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) Count(key string) int {
	return c.counts[key]
}

// All returns every key, most frequent first.
func (c *counter) All() []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	sort.SliceStable(keys, func(i, j int) bool {
		return c.counts[keys[i]] > c.counts[keys[j]]
	})
	return keys
}

// MostCommon returns up to n keys, most frequent first.
func (c *counter) MostCommon(n int) []string {
	keys := c.All()
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
