package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driven"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driving"
	"github.com/naveenbxyz/spexplorer/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService queries the stored document index.
type SearchService struct {
	docStore driven.DocumentStore
}

// NewSearchService creates a new search service.
func NewSearchService(docStore driven.DocumentStore) *SearchService {
	return &SearchService{docStore: docStore}
}

// Search finds stored documents matching the filter.
func (s *SearchService) Search(ctx context.Context, filter domain.SearchFilter) ([]domain.SearchResult, error) {
	if s.docStore == nil {
		return nil, fmt.Errorf("search: %w", domain.ErrNotImplemented)
	}

	filter.Query = strings.TrimSpace(filter.Query)
	logger.Debug("Search: query=%q country=%q product=%q", filter.Query, filter.Country, filter.Product)

	results, err := s.docStore.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}

	logger.Debug("Search returned %d results", len(results))
	return results, nil
}

// Statistics summarises the document index.
func (s *SearchService) Statistics(ctx context.Context) (*domain.IndexStatistics, error) {
	if s.docStore == nil {
		return nil, fmt.Errorf("statistics: %w", domain.ErrNotImplemented)
	}

	stats, err := s.docStore.Statistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("get statistics: %w", err)
	}
	return stats, nil
}
