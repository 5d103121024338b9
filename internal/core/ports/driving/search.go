package driving

import (
	"context"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

// SearchService queries the stored document index.
type SearchService interface {
	// Search returns result rows matching the filter.
	Search(ctx context.Context, filter domain.SearchFilter) ([]domain.SearchResult, error)

	// Statistics returns aggregate counts over the index.
	Statistics(ctx context.Context) (*domain.IndexStatistics, error)
}
