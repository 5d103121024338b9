// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

// FilterChanged is sent when the filter input changes.
type FilterChanged struct {
	Query string
}

// SearchCompleted carries document search results back to the model.
type SearchCompleted struct {
	Results []domain.SearchResult
	Err     error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewDocuments is the filterable document list view.
	ViewDocuments
	// ViewDocContent shows a document's extracted structure.
	ViewDocContent
	// ViewDocDetails shows document metadata.
	ViewDocDetails
	// ViewClusters is the pattern cluster browser.
	ViewClusters
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewDocuments:
		return "documents"
	case ViewDocContent:
		return "doc_content"
	case ViewDocDetails:
		return "doc_details"
	case ViewClusters:
		return "clusters"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DocumentSelected signals a document was chosen for the structure view.
type DocumentSelected struct {
	DocumentID string
}

// DocumentLoaded carries a full document record for the structure view.
type DocumentLoaded struct {
	DocumentID string
	Record     *domain.DocumentRecord
	Err        error
}

// DocumentDetailsLoaded carries a document record for the details view.
type DocumentDetailsLoaded struct {
	DocumentID string
	Record     *domain.DocumentRecord
	Err        error
}

// DocumentExcluded signals a document was excluded from the index.
type DocumentExcluded struct {
	DocumentID string
	Err        error
}

// ClustersLoaded carries the list of pattern clusters.
type ClustersLoaded struct {
	Clusters []domain.PatternCluster
	Err      error
}
