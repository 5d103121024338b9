package driven

import (
	"context"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

// DocumentStore persists extracted documents and serves queries over them.
// Backed by SQLite for the primary index.
type DocumentStore interface {
	// SaveDocument stores or updates an extracted document record.
	// Existing records with the same ID are replaced, including their
	// section rows.
	SaveDocument(ctx context.Context, rec *domain.DocumentRecord) error

	// GetDocument retrieves a document record by ID.
	GetDocument(ctx context.Context, id string) (*domain.DocumentRecord, error)

	// DeleteDocument removes a document record and its section rows.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns all document records for a source.
	// An empty sourceID returns records for every source.
	ListDocuments(ctx context.Context, sourceID string) ([]domain.DocumentRecord, error)

	// Search returns lightweight result rows matching the filter.
	Search(ctx context.Context, filter domain.SearchFilter) ([]domain.SearchResult, error)

	// Statistics returns aggregate counts over the index.
	Statistics(ctx context.Context) (*domain.IndexStatistics, error)

	// AssignCluster sets the pattern cluster for a document.
	AssignCluster(ctx context.Context, documentID string, clusterID int64) error

	// Close releases resources.
	Close() error
}

// DocumentArchive writes a secondary copy of extracted documents, one JSON
// file per document grouped by country, with a rebuildable metadata index.
// Optional; the processor skips archiving when nil.
type DocumentArchive interface {
	// Archive writes the document's JSON file and updates the metadata index.
	Archive(ctx context.Context, rec *domain.DocumentRecord) error

	// Load reads an archived document back by ID.
	Load(ctx context.Context, id string) (*domain.DocumentRecord, error)

	// RebuildIndex rescans the archive directory and rewrites the
	// metadata index from the documents found on disk.
	RebuildIndex(ctx context.Context) (int, error)
}

// ClusterArchive persists the pattern cluster set as a standalone JSON
// file alongside the document archive. Optional; reclustering skips the
// export when nil.
type ClusterArchive interface {
	// SaveClusters writes the full cluster set to the archive.
	SaveClusters(ctx context.Context, clusters []domain.PatternCluster) error

	// LoadClusters reads the archived cluster set. Returns nil with no
	// error when no cluster file exists.
	LoadClusters(ctx context.Context) ([]domain.PatternCluster, error)
}
