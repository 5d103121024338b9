package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driven"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driving"
)

// Ensure SchemaService implements the interface.
var _ driving.SchemaService = (*SchemaService)(nil)

// maxFieldSamples is how many example values are kept per field.
const maxFieldSamples = 3

// canonicalSuffixes are generic trailing terms stripped when deriving a
// canonical field name ("registration number" and "registration id" both
// reduce to "Registration").
var canonicalSuffixes = map[string]bool{
	"name":   true,
	"id":     true,
	"number": true,
	"code":   true,
	"date":   true,
	"amount": true,
	"value":  true,
	"type":   true,
}

var (
	fieldSeparators = regexp.MustCompile(`[_\-\s]+`)
	fieldNonAlnum   = regexp.MustCompile(`[^a-z0-9\s]`)
)

// SchemaService discovers field usage across stored documents and manages
// canonical field mappings per cluster.
type SchemaService struct {
	docStore     driven.DocumentStore
	clusterStore driven.ClusterStore
}

// NewSchemaService creates a new schema service.
func NewSchemaService(docStore driven.DocumentStore, clusterStore driven.ClusterStore) *SchemaService {
	return &SchemaService{
		docStore:     docStore,
		clusterStore: clusterStore,
	}
}

// FieldStatistics computes per-field usage across stored documents.
// A non-nil clusterID restricts the scan to that cluster's members.
func (s *SchemaService) FieldStatistics(ctx context.Context, clusterID *int64) ([]domain.FieldStats, error) {
	if s.docStore == nil {
		return nil, fmt.Errorf("field statistics: %w", domain.ErrNotImplemented)
	}

	records, err := s.docStore.ListDocuments(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	occurrences := newCounter()
	sections := make(map[string][]domain.SectionType)
	samples := make(map[string][]any)
	scanned := 0

	for _, rec := range records {
		if clusterID != nil && (rec.ClusterID == nil || *rec.ClusterID != *clusterID) {
			continue
		}
		scanned++

		for _, sheet := range rec.Document.Sheets {
			for i := range sheet.Sections {
				section := &sheet.Sections[i]
				for _, field := range section.FieldNames() {
					occurrences.Add(field)
					if !containsType(sections[field], section.Type) {
						sections[field] = append(sections[field], section.Type)
					}
				}
				// Sample values from key-value payloads only
				if section.Type == domain.SectionKeyValue && section.KeyValue != nil && section.KeyValue.Data != nil {
					for _, key := range section.KeyValue.Data.Keys() {
						value, _ := section.KeyValue.Data.Get(key)
						if value == nil || len(samples[key]) >= maxFieldSamples {
							continue
						}
						samples[key] = append(samples[key], value)
					}
				}
			}
		}
	}

	names := occurrences.All()
	stats := make([]domain.FieldStats, 0, len(names))
	for _, name := range names {
		count := occurrences.Count(name)
		frequency := 0.0
		if scanned > 0 {
			frequency = float64(count) / float64(scanned)
		}
		stats = append(stats, domain.FieldStats{
			Name:         name,
			Occurrences:  count,
			Frequency:    frequency,
			SectionTypes: sections[name],
			Samples:      samples[name],
			Canonical:    s.SuggestCanonical(name),
		})
	}
	return stats, nil
}

// SuggestCanonical proposes a canonical name for a raw field name.
// The name is normalised, generic suffixes are stripped and the
// remaining terms are joined Title_Case ("customer ref number" becomes
// "Customer_Ref").
func (s *SchemaService) SuggestCanonical(field string) string {
	normalized := normalizeFieldName(field)
	if normalized == "" {
		return ""
	}

	words := strings.Fields(normalized)
	key := words
	if len(words) > 1 {
		kept := make([]string, 0, len(words))
		for _, w := range words {
			if !canonicalSuffixes[w] {
				kept = append(kept, w)
			}
		}
		if len(kept) > 0 {
			key = kept
		} else {
			key = words[:1]
		}
	}

	parts := make([]string, len(key))
	for i, w := range key {
		parts[i] = capitalize(w)
	}
	return strings.Join(parts, "_")
}

// SaveMappings replaces the source-to-canonical mappings for a cluster.
func (s *SchemaService) SaveMappings(ctx context.Context, clusterID int64, mappings []domain.FieldMapping) error {
	if s.clusterStore == nil {
		return fmt.Errorf("save mappings: %w", domain.ErrNotImplemented)
	}
	for i := range mappings {
		mappings[i].ClusterID = clusterID
	}
	if err := s.clusterStore.SaveMappings(ctx, clusterID, mappings); err != nil {
		return fmt.Errorf("save mappings: %w", err)
	}
	return nil
}

// Mappings returns the stored mappings for a cluster.
func (s *SchemaService) Mappings(ctx context.Context, clusterID int64) ([]domain.FieldMapping, error) {
	if s.clusterStore == nil {
		return nil, fmt.Errorf("get mappings: %w", domain.ErrNotImplemented)
	}
	mappings, err := s.clusterStore.GetMappings(ctx, clusterID)
	if err != nil {
		return nil, fmt.Errorf("get mappings: %w", err)
	}
	return mappings, nil
}

// Apply flattens a document's key-value sections into one map, renaming
// fields through the document's cluster mappings. Unmapped fields keep
// their extracted names. Later sheets overwrite duplicate keys.
func (s *SchemaService) Apply(ctx context.Context, documentID string) (map[string]any, error) {
	if s.docStore == nil {
		return nil, fmt.Errorf("apply mappings: %w", domain.ErrNotImplemented)
	}

	rec, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}

	rename := make(map[string]string)
	if rec.ClusterID != nil && s.clusterStore != nil {
		mappings, err := s.clusterStore.GetMappings(ctx, *rec.ClusterID)
		if err != nil {
			return nil, fmt.Errorf("get mappings: %w", err)
		}
		for _, m := range mappings {
			rename[m.SourceField] = m.CanonicalField
		}
	}

	flat := make(map[string]any)
	for _, sheet := range rec.Document.Sheets {
		for i := range sheet.Sections {
			section := &sheet.Sections[i]
			if section.Type != domain.SectionKeyValue || section.KeyValue == nil || section.KeyValue.Data == nil {
				continue
			}
			for _, key := range section.KeyValue.Data.Keys() {
				value, _ := section.KeyValue.Data.Get(key)
				name := key
				if canonical, ok := rename[key]; ok {
					name = canonical
				}
				flat[name] = value
			}
		}
	}
	return flat, nil
}

// normalizeFieldName lowercases a field name, collapses separators to
// single spaces and drops other punctuation.
func normalizeFieldName(field string) string {
	normalized := strings.ToLower(field)
	normalized = fieldSeparators.ReplaceAllString(normalized, " ")
	normalized = fieldNonAlnum.ReplaceAllString(normalized, "")
	return strings.TrimSpace(normalized)
}

// capitalize uppercases the first letter and lowercases the rest.
func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}

func containsType(types []domain.SectionType, t domain.SectionType) bool {
	for _, existing := range types {
		if existing == t {
			return true
		}
	}
	return false
}
