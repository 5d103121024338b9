package mcp

import (
	"context"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	stats   *domain.IndexStatistics
	filter  domain.SearchFilter
	err     error
}

func (m *mockSearchService) Search(
	_ context.Context,
	filter domain.SearchFilter,
) ([]domain.SearchResult, error) {
	m.filter = filter
	return m.results, m.err
}

func (m *mockSearchService) Statistics(_ context.Context) (*domain.IndexStatistics, error) {
	return m.stats, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	record  *domain.DocumentRecord
	listing []domain.SearchResult
	err     error
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.DocumentRecord, error) {
	return m.record, m.err
}

func (m *mockDocumentService) ListBySource(_ context.Context, _ string) ([]domain.SearchResult, error) {
	return m.listing, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockDocumentService) Exclude(_ context.Context, _, _ string) error {
	return m.err
}

// mockClusterService is a mock implementation of driving.ClusterService.
type mockClusterService struct {
	clusters []domain.PatternCluster
	cluster  *domain.PatternCluster
	err      error
}

func (m *mockClusterService) Recluster(_ context.Context) ([]domain.PatternCluster, error) {
	return m.clusters, m.err
}

func (m *mockClusterService) List(_ context.Context) ([]domain.PatternCluster, error) {
	return m.clusters, m.err
}

func (m *mockClusterService) Get(_ context.Context, _ int64) (*domain.PatternCluster, error) {
	return m.cluster, m.err
}
