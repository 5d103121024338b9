package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu      sync.RWMutex
	records map[string]domain.DocumentRecord
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		records: make(map[string]domain.DocumentRecord),
	}
}

// SaveDocument stores or updates a document record.
func (s *DocumentStore) SaveDocument(_ context.Context, rec *domain.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = *rec
	return nil
}

// GetDocument retrieves a document record by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// DeleteDocument removes a document record.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

// ListDocuments returns records for a source, all records when sourceID
// is empty. Results are ordered by ID for determinism.
func (s *DocumentStore) ListDocuments(_ context.Context, sourceID string) ([]domain.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.DocumentRecord
	for _, id := range s.sortedIDs() {
		rec := s.records[id]
		if sourceID == "" || rec.SourceID == sourceID {
			result = append(result, rec)
		}
	}
	return result, nil
}

// Search returns lightweight result rows matching the filter.
func (s *DocumentStore) Search(_ context.Context, filter domain.SearchFilter) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.SearchResult
	for _, id := range s.sortedIDs() {
		rec := s.records[id]
		if !matches(&rec, filter) {
			continue
		}
		matched = append(matched, domain.SearchResult{
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

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// Statistics returns aggregate counts over the index.
func (s *DocumentStore) Statistics(_ context.Context) (*domain.IndexStatistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &domain.IndexStatistics{
		TotalDocuments: len(s.records),
		ByStatus:       make(map[domain.ProcessingStatus]int),
		ByCountry:      make(map[string]int),
	}

	fingerprints := make(map[string]bool)
	clusters := make(map[int64]bool)
	for _, rec := range s.records {
		stats.ByStatus[rec.Document.Status]++
		if rec.File.Country != "" {
			stats.ByCountry[rec.File.Country]++
		}
		if rec.Document.Fingerprint != "" {
			fingerprints[rec.Document.Fingerprint] = true
		}
		if rec.ClusterID != nil {
			clusters[*rec.ClusterID] = true
		}
	}
	stats.DistinctFingerprints = len(fingerprints)
	stats.ClusterCount = len(clusters)
	return stats, nil
}

// AssignCluster sets the pattern cluster for a document.
func (s *DocumentStore) AssignCluster(_ context.Context, documentID string, clusterID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[documentID]
	if !ok {
		return domain.ErrNotFound
	}
	rec.ClusterID = &clusterID
	s.records[documentID] = rec
	return nil
}

// Close releases resources (no-op for memory store).
func (s *DocumentStore) Close() error {
	return nil
}

// sortedIDs returns record IDs in lexical order. Callers hold the lock.
func (s *DocumentStore) sortedIDs() []string {
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// matches applies every filter clause to one record.
func matches(rec *domain.DocumentRecord, filter domain.SearchFilter) bool {
	if filter.Query != "" {
		q := strings.ToLower(filter.Query)
		if !strings.Contains(strings.ToLower(rec.ID), q) &&
			!strings.Contains(strings.ToLower(rec.File.Client), q) &&
			!strings.Contains(strings.ToLower(rec.File.Filename), q) {
			return false
		}
	}
	if filter.Country != "" && rec.File.Country != filter.Country {
		return false
	}
	if filter.Product != "" && rec.File.Product != filter.Product {
		return false
	}
	if filter.ClusterID != nil {
		if rec.ClusterID == nil || *rec.ClusterID != *filter.ClusterID {
			return false
		}
	}
	if filter.Status != "" && rec.Document.Status != filter.Status {
		return false
	}
	if filter.HasField != "" && !hasField(rec, filter.HasField) {
		return false
	}
	return true
}

func hasField(rec *domain.DocumentRecord, field string) bool {
	for _, sheet := range rec.Document.Sheets {
		for i := range sheet.Sections {
			for _, name := range sheet.Sections[i].FieldNames() {
				if name == field {
					return true
				}
			}
		}
	}
	return false
}
