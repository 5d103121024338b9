package services

import (
	"context"
	"fmt"
	"time"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driven"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages stored extracted documents.
type DocumentService struct {
	docStore       driven.DocumentStore
	exclusionStore driven.ExclusionStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	docStore driven.DocumentStore,
	exclusionStore driven.ExclusionStore,
) *DocumentService {
	return &DocumentService{
		docStore:       docStore,
		exclusionStore: exclusionStore,
	}
}

// Get retrieves a full document record by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.DocumentRecord, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.docStore.GetDocument(ctx, documentID)
}

// ListBySource returns lightweight rows for a source's documents.
func (s *DocumentService) ListBySource(ctx context.Context, sourceID string) ([]domain.SearchResult, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}

	records, err := s.docStore.ListDocuments(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(records))
	for _, rec := range records {
		results = append(results, domain.SearchResult{
			ID:           rec.ID,
			Client:       rec.File.Client,
			Country:      rec.File.Country,
			Product:      rec.File.Product,
			Filename:     rec.File.Filename,
			Fingerprint:  rec.Document.Fingerprint,
			ClusterID:    rec.ClusterID,
			Status:       rec.Document.Status,
			SectionCount: rec.Document.SectionCount(),
		})
	}
	return results, nil
}

// Delete removes a stored document.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	if s.docStore == nil {
		return domain.ErrNotImplemented
	}
	return s.docStore.DeleteDocument(ctx, documentID)
}

// Exclude removes a document and marks its file path to skip during
// future pulls and processing runs.
func (s *DocumentService) Exclude(ctx context.Context, documentID, reason string) error {
	if s.docStore == nil {
		return domain.ErrNotImplemented
	}

	// Get document first to capture its file path
	rec, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}

	if s.exclusionStore != nil {
		exclusion := &domain.Exclusion{
			ID:         fmt.Sprintf("excl-%s", documentID),
			SourceID:   rec.SourceID,
			Path:       rec.File.Path,
			Reason:     reason,
			ExcludedAt: time.Now(),
		}
		if err := s.exclusionStore.Add(ctx, exclusion); err != nil {
			return fmt.Errorf("failed to add exclusion: %w", err)
		}
	}

	return s.docStore.DeleteDocument(ctx, documentID)
}
