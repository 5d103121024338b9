// Package tui provides the interactive terminal browser over the
// extracted document index. It is a driving adapter: every service it
// touches comes in through a port.
package tui

import (
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search queries the stored document index.
	Search driving.SearchService

	// Document retrieves and manages stored documents.
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
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	// Cluster is optional; the clusters view reports its absence.
	return nil
}
