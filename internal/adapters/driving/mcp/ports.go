package mcp

import (
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search queries the stored document index.
	Search driving.SearchService

	// Document retrieves stored extraction results.
	Document driving.DocumentService

	// Cluster exposes pattern clusters.
	Cluster driving.ClusterService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Document and Cluster are optional; their tools and resources
	// degrade to not-found when absent.
	return nil
}
