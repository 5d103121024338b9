package json

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driven"
)

// Ensure Archive implements the archive ports.
var (
	_ driven.DocumentArchive = (*Archive)(nil)
	_ driven.ClusterArchive  = (*Archive)(nil)
)

const (
	indexVersion = "1.0"
	indexFile    = "metadata_index.json"
	clustersFile = "pattern_clusters.json"
	documentsDir = "documents"
)

// Archive writes one JSON file per document under documents/<country>/
// and maintains a metadata index for lookups and rebuilds.
type Archive struct {
	basePath string

	mu    sync.Mutex
	index *metadataIndex
}

// metadataIndex is the persisted shape of metadata_index.json.
type metadataIndex struct {
	Version        string                `json:"version"`
	LastUpdated    time.Time             `json:"last_updated"`
	TotalDocuments int                   `json:"total_documents"`
	Documents      map[string]indexEntry `json:"documents"`
}

// indexEntry summarises one archived document.
type indexEntry struct {
	ID           string                  `json:"document_id"`
	Client       string                  `json:"client_name,omitempty"`
	Country      string                  `json:"country,omitempty"`
	Product      string                  `json:"product,omitempty"`
	FilePath     string                  `json:"file_path"`
	Fingerprint  string                  `json:"pattern_signature,omitempty"`
	ClusterID    *int64                  `json:"pattern_cluster_id,omitempty"`
	Status       domain.ProcessingStatus `json:"processing_status"`
	ProcessedAt  time.Time               `json:"processed_at"`
	SheetCount   int                     `json:"sheet_count"`
	SectionCount int                     `json:"section_count"`
	Fields       []string                `json:"fields,omitempty"`
}

// clusterExport is the persisted shape of pattern_clusters.json.
type clusterExport struct {
	Version       string                  `json:"version"`
	GeneratedAt   time.Time               `json:"generated_at"`
	TotalClusters int                     `json:"total_clusters"`
	Clusters      []domain.PatternCluster `json:"clusters"`
}

// NewArchive opens or creates an archive rooted at basePath.
// If basePath is empty, defaults to ~/.spexplorer/extracted.
func NewArchive(basePath string) (*Archive, error) {
	if basePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		basePath = filepath.Join(home, ".spexplorer", "extracted")
	}

	if err := os.MkdirAll(filepath.Join(basePath, documentsDir), 0700); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	a := &Archive{basePath: basePath}
	if err := a.loadIndex(); err != nil {
		return nil, err
	}
	return a, nil
}

// Path returns the archive root directory.
func (a *Archive) Path() string {
	return a.basePath
}

// Archive writes the document's JSON file and updates the metadata index.
func (a *Archive) Archive(ctx context.Context, rec *domain.DocumentRecord) error {
	if rec == nil || rec.ID == "" {
		return domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	country := rec.File.Country
	if country == "" {
		country = "unknown"
	}

	dir := filepath.Join(a.basePath, documentsDir, sanitizeFilename(country))
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating country directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling document: %w", err)
	}

	path := filepath.Join(dir, sanitizeFilename(rec.ID)+".json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.index.Documents[rec.ID] = buildEntry(rec, a.relativePath(path))
	return a.saveIndexLocked()
}

// Load reads an archived document back by ID.
func (a *Archive) Load(ctx context.Context, id string) (*domain.DocumentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.Lock()
	entry, ok := a.index.Documents[id]
	a.mu.Unlock()
	if !ok {
		return nil, domain.ErrNotFound
	}

	data, err := os.ReadFile(filepath.Join(a.basePath, filepath.FromSlash(entry.FilePath)))
	if os.IsNotExist(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	var rec domain.DocumentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return &rec, nil
}

// RebuildIndex rescans the documents directory and rewrites the metadata
// index from the files found on disk. Returns the number of documents
// indexed.
func (a *Archive) RebuildIndex(ctx context.Context) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.index = &metadataIndex{
		Version:   indexVersion,
		Documents: make(map[string]indexEntry),
	}

	root := filepath.Join(a.basePath, documentsDir)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil // skip unreadable files
		}
		var rec domain.DocumentRecord
		if err := json.Unmarshal(data, &rec); err != nil || rec.ID == "" {
			return nil // skip files that are not archived documents
		}

		a.index.Documents[rec.ID] = buildEntry(&rec, a.relativePath(path))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scanning archive: %w", err)
	}

	if err := a.saveIndexLocked(); err != nil {
		return 0, err
	}
	return len(a.index.Documents), nil
}

// SaveClusters writes the full cluster set to pattern_clusters.json.
func (a *Archive) SaveClusters(ctx context.Context, clusters []domain.PatternCluster) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	export := clusterExport{
		Version:       indexVersion,
		GeneratedAt:   time.Now().UTC(),
		TotalClusters: len(clusters),
		Clusters:      clusters,
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling clusters: %w", err)
	}
	if err := os.WriteFile(filepath.Join(a.basePath, clustersFile), data, 0600); err != nil {
		return fmt.Errorf("writing clusters: %w", err)
	}
	return nil
}

// LoadClusters reads the archived cluster set. Returns nil with no error
// when no cluster file has been written yet.
func (a *Archive) LoadClusters(ctx context.Context) ([]domain.PatternCluster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(a.basePath, clustersFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading clusters: %w", err)
	}

	var export clusterExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("parsing clusters: %w", err)
	}
	return export.Clusters, nil
}

// loadIndex reads metadata_index.json, starting fresh when absent.
func (a *Archive) loadIndex() error {
	a.index = &metadataIndex{
		Version:   indexVersion,
		Documents: make(map[string]indexEntry),
	}

	data, err := os.ReadFile(filepath.Join(a.basePath, indexFile))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading metadata index: %w", err)
	}

	if err := json.Unmarshal(data, a.index); err != nil {
		return fmt.Errorf("parsing metadata index: %w", err)
	}
	if a.index.Documents == nil {
		a.index.Documents = make(map[string]indexEntry)
	}
	return nil
}

// saveIndexLocked writes the metadata index. Callers hold a.mu.
func (a *Archive) saveIndexLocked() error {
	a.index.LastUpdated = time.Now().UTC()
	a.index.TotalDocuments = len(a.index.Documents)

	data, err := json.MarshalIndent(a.index, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling metadata index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(a.basePath, indexFile), data, 0600); err != nil {
		return fmt.Errorf("writing metadata index: %w", err)
	}
	return nil
}

// relativePath returns path relative to the archive root in slash form.
func (a *Archive) relativePath(path string) string {
	rel, err := filepath.Rel(a.basePath, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

// buildEntry summarises a record for the metadata index.
func buildEntry(rec *domain.DocumentRecord, relPath string) indexEntry {
	return indexEntry{
		ID:           rec.ID,
		Client:       rec.File.Client,
		Country:      rec.File.Country,
		Product:      rec.File.Product,
		FilePath:     relPath,
		Fingerprint:  rec.Document.Fingerprint,
		ClusterID:    rec.ClusterID,
		Status:       rec.Document.Status,
		ProcessedAt:  rec.ProcessedAt,
		SheetCount:   len(rec.Document.Sheets),
		SectionCount: rec.Document.SectionCount(),
		Fields:       collectFields(&rec.Document),
	}
}

// collectFields returns the sorted unique field names across all sections.
func collectFields(doc *domain.Document) []string {
	seen := make(map[string]struct{})
	for _, sheet := range doc.Sheets {
		for i := range sheet.Sections {
			for _, field := range sheet.Sections[i].FieldNames() {
				seen[field] = struct{}{}
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}

	fields := make([]string, 0, len(seen))
	for field := range seen {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// sanitizeFilename replaces characters that are invalid in file names
// and collapses the resulting runs of underscores.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(`<>:"/\|?*`, r) {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(r)
	}

	s := b.String()
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}
