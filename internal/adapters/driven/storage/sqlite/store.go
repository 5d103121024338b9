package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/naveenbxyz/spexplorer/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driven"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.spexplorer/data/index.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".spexplorer", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SourceStore returns a SourceStore interface backed by this store.
func (s *Store) SourceStore() driven.SourceStore {
	return &sourceStore{store: s}
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// ClusterStore returns a ClusterStore interface backed by this store.
func (s *Store) ClusterStore() driven.ClusterStore {
	return &clusterStore{store: s}
}

// PullStateStore returns a PullStateStore interface backed by this store.
func (s *Store) PullStateStore() driven.PullStateStore {
	return &pullStateStore{store: s}
}

// ExclusionStore returns an ExclusionStore interface backed by this store.
func (s *Store) ExclusionStore() driven.ExclusionStore {
	return &exclusionStore{store: s}
}

// SchedulerStore returns a SchedulerStore interface backed by this store.
func (s *Store) SchedulerStore() driven.SchedulerStore {
	return &schedulerStore{store: s}
}

// CredentialsStore returns a CredentialsStore interface backed by this store.
func (s *Store) CredentialsStore() driven.CredentialsStore {
	return &credentialsStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Source Store ====================

// sourceStore implements driven.SourceStore.
type sourceStore struct {
	store *Store
}

var _ driven.SourceStore = (*sourceStore)(nil)

// Save stores or updates a source.
func (s *sourceStore) Save(ctx context.Context, source domain.Source) error {
	configJSON, err := json.Marshal(source.Config)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	now := time.Now().UTC()
	if source.CreatedAt.IsZero() {
		source.CreatedAt = now
	}
	source.UpdatedAt = now

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO sources (id, type, name, config, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			name = excluded.name,
			config = excluded.config,
			updated_at = excluded.updated_at
	`, source.ID, source.Type, source.Name, string(configJSON),
		source.CreatedAt, source.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving source: %w", err)
	}
	return nil
}

// Get retrieves a source by ID.
func (s *sourceStore) Get(ctx context.Context, id string) (*domain.Source, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, type, name, config, created_at, updated_at
		FROM sources WHERE id = ?
	`, id)

	var source domain.Source
	var configJSON string
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&source.ID, &source.Type, &source.Name, &configJSON,
		&createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning source: %w", err)
	}

	if err := json.Unmarshal([]byte(configJSON), &source.Config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if createdAt.Valid {
		source.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		source.UpdatedAt = updatedAt.Time
	}

	return &source, nil
}

// Delete removes a source.
func (s *sourceStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM sources WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting source: %w", err)
	}
	return nil
}

// List returns all configured sources.
func (s *sourceStore) List(ctx context.Context) ([]domain.Source, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, type, name, config, created_at, updated_at
		FROM sources ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.Source //nolint:prealloc // size unknown from query
	for rows.Next() {
		var source domain.Source
		var configJSON string
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&source.ID, &source.Type, &source.Name, &configJSON,
			&createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}

		if err := json.Unmarshal([]byte(configJSON), &source.Config); err != nil {
			return nil, fmt.Errorf("unmarshaling config: %w", err)
		}

		if createdAt.Valid {
			source.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			source.UpdatedAt = updatedAt.Time
		}
		sources = append(sources, source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}

	return sources, nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores or updates a document record and its section rows.
// Query columns are denormalised from the record; the extraction result
// itself lives in full_json.
func (s *documentStore) SaveDocument(ctx context.Context, rec *domain.DocumentRecord) error {
	if rec == nil || rec.ID == "" {
		return domain.ErrInvalidInput
	}

	fullJSON, err := json.Marshal(rec.Document)
	if err != nil {
		return fmt.Errorf("marshalling document: %w", err)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents
			(id, source_id, country, client_name, product, filename, file_path,
			 relative_folder, extracted_date, is_latest, form_variant,
			 pattern_signature, cluster_id, status, error, section_count,
			 full_json, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_id = excluded.source_id,
			country = excluded.country,
			client_name = excluded.client_name,
			product = excluded.product,
			filename = excluded.filename,
			file_path = excluded.file_path,
			relative_folder = excluded.relative_folder,
			extracted_date = excluded.extracted_date,
			is_latest = excluded.is_latest,
			form_variant = excluded.form_variant,
			pattern_signature = excluded.pattern_signature,
			cluster_id = excluded.cluster_id,
			status = excluded.status,
			error = excluded.error,
			section_count = excluded.section_count,
			full_json = excluded.full_json,
			processed_at = excluded.processed_at
	`, rec.ID, nullString(rec.SourceID), nullString(rec.File.Country),
		nullString(rec.File.Client), nullString(rec.File.Product),
		rec.File.Filename, rec.File.Path, nullString(rec.File.RelativeFolder),
		formatNullableDate(rec.File.ExtractedDate), boolToInt(rec.File.IsLatest),
		nullString(rec.File.FormVariant), nullString(rec.Document.Fingerprint),
		nullInt64(rec.ClusterID), string(rec.Document.Status),
		nullString(rec.Document.ErrorMessage), rec.Document.SectionCount(),
		string(fullJSON), rec.ProcessedAt)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	// Replace the section rows wholesale; a re-extraction may change
	// the section count and order.
	if _, err := tx.ExecContext(ctx, "DELETE FROM sections WHERE document_id = ?", rec.ID); err != nil {
		return fmt.Errorf("clearing sections: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sections
			(document_id, sheet_name, section_index, section_type, section_header, confidence, key_fields)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing section insert: %w", err)
	}
	defer stmt.Close()

	for _, sheet := range rec.Document.Sheets {
		for i := range sheet.Sections {
			section := &sheet.Sections[i]
			fieldsJSON, err := json.Marshal(section.FieldNames())
			if err != nil {
				return fmt.Errorf("marshalling section fields: %w", err)
			}
			if _, err := stmt.ExecContext(ctx, rec.ID, sheet.Name, i,
				string(section.Type), nullString(section.Header),
				section.Confidence, string(fieldsJSON)); err != nil {
				return fmt.Errorf("saving section: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetDocument retrieves a document record by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.DocumentRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source_id, country, client_name, product, filename, file_path,
		       relative_folder, extracted_date, is_latest, form_variant,
		       cluster_id, full_json, processed_at
		FROM documents WHERE id = ?
	`, id)

	return scanDocumentRecord(row)
}

// DeleteDocument removes a document record and its section rows.
func (s *documentStore) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// ListDocuments returns records for a source, all records when sourceID
// is empty.
func (s *documentStore) ListDocuments(ctx context.Context, sourceID string) ([]domain.DocumentRecord, error) {
	query := `
		SELECT id, source_id, country, client_name, product, filename, file_path,
		       relative_folder, extracted_date, is_latest, form_variant,
		       cluster_id, full_json, processed_at
		FROM documents`
	var args []interface{}
	if sourceID != "" {
		query += " WHERE source_id = ?"
		args = append(args, sourceID)
	}
	query += " ORDER BY id"

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var records []domain.DocumentRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanDocumentRecordRows(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return records, nil
}

// Search returns lightweight result rows matching the filter.
func (s *documentStore) Search(ctx context.Context, filter domain.SearchFilter) ([]domain.SearchResult, error) {
	query := `
		SELECT id, client_name, country, product, filename,
		       pattern_signature, cluster_id, status, section_count
		FROM documents`

	var conds []string
	var args []interface{}

	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + q + "%"
		conds = append(conds, "(id LIKE ? OR client_name LIKE ? OR filename LIKE ?)")
		args = append(args, like, like, like)
	}
	if filter.Country != "" {
		conds = append(conds, "country = ?")
		args = append(args, filter.Country)
	}
	if filter.Product != "" {
		conds = append(conds, "product = ?")
		args = append(args, filter.Product)
	}
	if filter.ClusterID != nil {
		conds = append(conds, "cluster_id = ?")
		args = append(args, *filter.ClusterID)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.HasField != "" {
		conds = append(conds, "id IN (SELECT document_id FROM sections WHERE key_fields LIKE ?)")
		args = append(args, `%"`+filter.HasField+`"%`)
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	} else if filter.Offset > 0 {
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var results []domain.SearchResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		var result domain.SearchResult
		var client, country, product, fingerprint sql.NullString
		var clusterID sql.NullInt64
		var status string
		if err := rows.Scan(&result.ID, &client, &country, &product, &result.Filename,
			&fingerprint, &clusterID, &status, &result.SectionCount); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		result.Client = client.String
		result.Country = country.String
		result.Product = product.String
		result.Fingerprint = fingerprint.String
		if clusterID.Valid {
			id := clusterID.Int64
			result.ClusterID = &id
		}
		result.Status = domain.ProcessingStatus(status)
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}

	return results, nil
}

// Statistics returns aggregate counts over the index.
func (s *documentStore) Statistics(ctx context.Context) (*domain.IndexStatistics, error) {
	stats := &domain.IndexStatistics{
		ByStatus:  make(map[domain.ProcessingStatus]int),
		ByCountry: make(map[string]int),
	}

	if err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents").Scan(&stats.TotalDocuments); err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}

	statusRows, err := s.store.db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM documents GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("counting by status: %w", err)
	}
	defer statusRows.Close()
	for statusRows.Next() {
		var status string
		var count int
		if err := statusRows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scanning status count: %w", err)
		}
		stats.ByStatus[domain.ProcessingStatus(status)] = count
	}
	if err := statusRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status counts: %w", err)
	}

	countryRows, err := s.store.db.QueryContext(ctx, `
		SELECT country, COUNT(*) FROM documents
		WHERE country IS NOT NULL AND country != ''
		GROUP BY country
	`)
	if err != nil {
		return nil, fmt.Errorf("counting by country: %w", err)
	}
	defer countryRows.Close()
	for countryRows.Next() {
		var country string
		var count int
		if err := countryRows.Scan(&country, &count); err != nil {
			return nil, fmt.Errorf("scanning country count: %w", err)
		}
		stats.ByCountry[country] = count
	}
	if err := countryRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating country counts: %w", err)
	}

	if err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT cluster_id) FROM documents WHERE cluster_id IS NOT NULL",
	).Scan(&stats.ClusterCount); err != nil {
		return nil, fmt.Errorf("counting clusters: %w", err)
	}

	if err := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT pattern_signature) FROM documents
		WHERE pattern_signature IS NOT NULL AND pattern_signature != ''
	`).Scan(&stats.DistinctFingerprints); err != nil {
		return nil, fmt.Errorf("counting fingerprints: %w", err)
	}

	return stats, nil
}

// AssignCluster sets the pattern cluster for a document.
func (s *documentStore) AssignCluster(ctx context.Context, documentID string, clusterID int64) error {
	result, err := s.store.db.ExecContext(ctx,
		"UPDATE documents SET cluster_id = ? WHERE id = ?", clusterID, documentID)
	if err != nil {
		return fmt.Errorf("assigning cluster: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking cluster assignment: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Close closes the underlying database.
func (s *documentStore) Close() error {
	return s.store.Close()
}

// ==================== Cluster Store ====================

// clusterStore implements driven.ClusterStore.
type clusterStore struct {
	store *Store
}

var _ driven.ClusterStore = (*clusterStore)(nil)

// SaveCluster stores or updates a cluster. A zero ID is assigned on
// insert and written back to the cluster.
func (s *clusterStore) SaveCluster(ctx context.Context, cluster *domain.PatternCluster) error {
	if cluster == nil {
		return domain.ErrInvalidInput
	}

	summaryJSON, examplesJSON, err := marshalCluster(cluster)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if cluster.CreatedAt.IsZero() {
		cluster.CreatedAt = now
	}
	cluster.UpdatedAt = now

	if cluster.ID == 0 {
		result, err := s.store.db.ExecContext(ctx, `
			INSERT INTO pattern_clusters
				(name, pattern_signature, document_count, summary, example_ids, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, cluster.Name, cluster.Fingerprint, cluster.DocumentCount,
			summaryJSON, examplesJSON, cluster.CreatedAt, cluster.UpdatedAt)
		if err != nil {
			return fmt.Errorf("inserting cluster: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading cluster id: %w", err)
		}
		cluster.ID = id
		return nil
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO pattern_clusters
			(id, name, pattern_signature, document_count, summary, example_ids, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			pattern_signature = excluded.pattern_signature,
			document_count = excluded.document_count,
			summary = excluded.summary,
			example_ids = excluded.example_ids,
			updated_at = excluded.updated_at
	`, cluster.ID, cluster.Name, cluster.Fingerprint, cluster.DocumentCount,
		summaryJSON, examplesJSON, cluster.CreatedAt, cluster.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving cluster: %w", err)
	}
	return nil
}

// GetCluster retrieves a cluster by ID.
func (s *clusterStore) GetCluster(ctx context.Context, id int64) (*domain.PatternCluster, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, pattern_signature, document_count, summary, example_ids, created_at, updated_at
		FROM pattern_clusters WHERE id = ?
	`, id)

	return scanCluster(row)
}

// ListClusters returns all clusters ordered by document count descending.
func (s *clusterStore) ListClusters(ctx context.Context) ([]domain.PatternCluster, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, pattern_signature, document_count, summary, example_ids, created_at, updated_at
		FROM pattern_clusters
		ORDER BY document_count DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying clusters: %w", err)
	}
	defer rows.Close()

	var clusters []domain.PatternCluster //nolint:prealloc // size unknown from query
	for rows.Next() {
		cluster, err := scanClusterRows(rows)
		if err != nil {
			return nil, err
		}
		clusters = append(clusters, *cluster)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating clusters: %w", err)
	}

	return clusters, nil
}

// ReplaceClusters atomically replaces the full cluster set, including
// field mappings. Reclustering recomputes groups from scratch.
func (s *clusterStore) ReplaceClusters(ctx context.Context, clusters []*domain.PatternCluster) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM field_mappings"); err != nil {
		return fmt.Errorf("clearing field mappings: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM pattern_clusters"); err != nil {
		return fmt.Errorf("clearing clusters: %w", err)
	}

	now := time.Now().UTC()
	for _, cluster := range clusters {
		summaryJSON, examplesJSON, err := marshalCluster(cluster)
		if err != nil {
			return err
		}
		if cluster.CreatedAt.IsZero() {
			cluster.CreatedAt = now
		}
		cluster.UpdatedAt = now

		if cluster.ID == 0 {
			result, err := tx.ExecContext(ctx, `
				INSERT INTO pattern_clusters
					(name, pattern_signature, document_count, summary, example_ids, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, cluster.Name, cluster.Fingerprint, cluster.DocumentCount,
				summaryJSON, examplesJSON, cluster.CreatedAt, cluster.UpdatedAt)
			if err != nil {
				return fmt.Errorf("inserting cluster: %w", err)
			}
			id, err := result.LastInsertId()
			if err != nil {
				return fmt.Errorf("reading cluster id: %w", err)
			}
			cluster.ID = id
			continue
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pattern_clusters
				(id, name, pattern_signature, document_count, summary, example_ids, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, cluster.ID, cluster.Name, cluster.Fingerprint, cluster.DocumentCount,
			summaryJSON, examplesJSON, cluster.CreatedAt, cluster.UpdatedAt); err != nil {
			return fmt.Errorf("inserting cluster: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// SaveMappings replaces the field mappings for a cluster.
func (s *clusterStore) SaveMappings(ctx context.Context, clusterID int64, mappings []domain.FieldMapping) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM field_mappings WHERE cluster_id = ?", clusterID); err != nil {
		return fmt.Errorf("clearing field mappings: %w", err)
	}

	for _, mapping := range mappings {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO field_mappings (cluster_id, source_field, canonical_field)
			VALUES (?, ?, ?)
		`, clusterID, mapping.SourceField, mapping.CanonicalField); err != nil {
			return fmt.Errorf("saving field mapping: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetMappings returns the field mappings for a cluster.
func (s *clusterStore) GetMappings(ctx context.Context, clusterID int64) ([]domain.FieldMapping, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT cluster_id, source_field, canonical_field
		FROM field_mappings WHERE cluster_id = ?
		ORDER BY source_field
	`, clusterID)
	if err != nil {
		return nil, fmt.Errorf("querying field mappings: %w", err)
	}
	defer rows.Close()

	var mappings []domain.FieldMapping //nolint:prealloc // size unknown from query
	for rows.Next() {
		var mapping domain.FieldMapping
		if err := rows.Scan(&mapping.ClusterID, &mapping.SourceField, &mapping.CanonicalField); err != nil {
			return nil, fmt.Errorf("scanning field mapping: %w", err)
		}
		mappings = append(mappings, mapping)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating field mappings: %w", err)
	}

	return mappings, nil
}

// ==================== Pull State Store ====================

// pullStateStore implements driven.PullStateStore.
type pullStateStore struct {
	store *Store
}

var _ driven.PullStateStore = (*pullStateStore)(nil)

// Save stores or updates pull state.
func (s *pullStateStore) Save(ctx context.Context, state domain.PullState) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO pull_states (source_id, cursor, last_pull)
		VALUES (?, ?, ?)
		ON CONFLICT(source_id) DO UPDATE SET
			cursor = excluded.cursor,
			last_pull = excluded.last_pull
	`, state.SourceID, state.Cursor, state.LastPull)

	if err != nil {
		return fmt.Errorf("saving pull state: %w", err)
	}
	return nil
}

// Get retrieves pull state for a source.
func (s *pullStateStore) Get(ctx context.Context, sourceID string) (*domain.PullState, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT source_id, cursor, last_pull
		FROM pull_states WHERE source_id = ?
	`, sourceID)

	var state domain.PullState
	var lastPull sql.NullTime
	if err := row.Scan(&state.SourceID, &state.Cursor, &lastPull); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning pull state: %w", err)
	}

	if lastPull.Valid {
		state.LastPull = lastPull.Time
	}

	return &state, nil
}

// Delete removes pull state for a source.
func (s *pullStateStore) Delete(ctx context.Context, sourceID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM pull_states WHERE source_id = ?", sourceID)
	if err != nil {
		return fmt.Errorf("deleting pull state: %w", err)
	}
	return nil
}

// ==================== Exclusion Store ====================

// exclusionStore implements driven.ExclusionStore.
type exclusionStore struct {
	store *Store
}

var _ driven.ExclusionStore = (*exclusionStore)(nil)

// Add creates a new exclusion.
func (s *exclusionStore) Add(ctx context.Context, exclusion *domain.Exclusion) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO exclusions (id, source_id, path, reason, excluded_at)
		VALUES (?, ?, ?, ?, ?)
	`, exclusion.ID, exclusion.SourceID, exclusion.Path, exclusion.Reason, exclusion.ExcludedAt)

	if err != nil {
		return fmt.Errorf("adding exclusion: %w", err)
	}
	return nil
}

// Remove deletes an exclusion by ID.
func (s *exclusionStore) Remove(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM exclusions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("removing exclusion: %w", err)
	}
	return nil
}

// GetBySourceID returns all exclusions for a source.
func (s *exclusionStore) GetBySourceID(ctx context.Context, sourceID string) ([]domain.Exclusion, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, source_id, path, reason, excluded_at
		FROM exclusions WHERE source_id = ?
	`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("querying exclusions: %w", err)
	}
	defer rows.Close()

	return scanExclusions(rows)
}

// IsExcluded checks if a path is excluded for a source. Global
// exclusions (empty source ID) match every source.
func (s *exclusionStore) IsExcluded(ctx context.Context, sourceID, path string) (bool, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM exclusions
		WHERE (source_id = ? OR source_id = '' OR source_id IS NULL) AND path = ?
	`, sourceID, path).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking exclusion: %w", err)
	}
	return count > 0, nil
}

// List returns all exclusions.
func (s *exclusionStore) List(ctx context.Context) ([]domain.Exclusion, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, source_id, path, reason, excluded_at
		FROM exclusions
	`)
	if err != nil {
		return nil, fmt.Errorf("querying exclusions: %w", err)
	}
	defer rows.Close()

	return scanExclusions(rows)
}

// ==================== Credentials Store ====================

// credentialsStore implements driven.CredentialsStore.
type credentialsStore struct {
	store *Store
}

var _ driven.CredentialsStore = (*credentialsStore)(nil)

// Save stores or updates credentials.
func (s *credentialsStore) Save(ctx context.Context, creds domain.Credentials) error {
	if creds.ID == "" || creds.SourceID == "" {
		return domain.ErrInvalidInput
	}

	tokenJSON, err := json.Marshal(creds.Token)
	if err != nil {
		return fmt.Errorf("marshalling token credentials: %w", err)
	}

	clientJSON, err := json.Marshal(creds.Client)
	if err != nil {
		return fmt.Errorf("marshalling client credentials: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO credentials
			(id, source_id, account, token, client, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_id = excluded.source_id,
			account = excluded.account,
			token = excluded.token,
			client = excluded.client,
			updated_at = excluded.updated_at
	`, creds.ID, creds.SourceID, creds.Account,
		string(tokenJSON), string(clientJSON), creds.CreatedAt, creds.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}

// Get retrieves credentials by ID.
func (s *credentialsStore) Get(ctx context.Context, id string) (*domain.Credentials, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source_id, account, token, client, created_at, updated_at
		FROM credentials WHERE id = ?
	`, id)

	return scanCredentials(row)
}

// GetBySourceID retrieves credentials for a specific source.
func (s *credentialsStore) GetBySourceID(ctx context.Context, sourceID string) (*domain.Credentials, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source_id, account, token, client, created_at, updated_at
		FROM credentials WHERE source_id = ?
	`, sourceID)

	creds, err := scanCredentials(row)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil // No credentials for this source is valid
	}
	return creds, err
}

// Delete removes credentials by ID.
func (s *credentialsStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM credentials WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting credentials: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// scanDocumentRecord scans a single document row.
func scanDocumentRecord(row *sql.Row) (*domain.DocumentRecord, error) {
	var rec domain.DocumentRecord
	var sourceID, country, client, product, relFolder, formVariant sql.NullString
	var extractedDate sql.NullString
	var isLatest int
	var clusterID sql.NullInt64
	var fullJSON string
	var processedAt sql.NullTime

	if err := row.Scan(&rec.ID, &sourceID, &country, &client, &product,
		&rec.File.Filename, &rec.File.Path, &relFolder, &extractedDate,
		&isLatest, &formVariant, &clusterID, &fullJSON, &processedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	fillDocumentRecord(&rec, sourceID, country, client, product, relFolder,
		formVariant, extractedDate, isLatest, clusterID, processedAt)

	if err := json.Unmarshal([]byte(fullJSON), &rec.Document); err != nil {
		return nil, fmt.Errorf("unmarshaling document: %w", err)
	}

	return &rec, nil
}

// scanDocumentRecordRows scans a document from *sql.Rows.
func scanDocumentRecordRows(rows *sql.Rows) (*domain.DocumentRecord, error) {
	var rec domain.DocumentRecord
	var sourceID, country, client, product, relFolder, formVariant sql.NullString
	var extractedDate sql.NullString
	var isLatest int
	var clusterID sql.NullInt64
	var fullJSON string
	var processedAt sql.NullTime

	if err := rows.Scan(&rec.ID, &sourceID, &country, &client, &product,
		&rec.File.Filename, &rec.File.Path, &relFolder, &extractedDate,
		&isLatest, &formVariant, &clusterID, &fullJSON, &processedAt); err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	fillDocumentRecord(&rec, sourceID, country, client, product, relFolder,
		formVariant, extractedDate, isLatest, clusterID, processedAt)

	if err := json.Unmarshal([]byte(fullJSON), &rec.Document); err != nil {
		return nil, fmt.Errorf("unmarshaling document: %w", err)
	}

	return &rec, nil
}

// fillDocumentRecord copies scanned nullable columns into the record.
func fillDocumentRecord(rec *domain.DocumentRecord,
	sourceID, country, client, product, relFolder, formVariant sql.NullString,
	extractedDate sql.NullString, isLatest int, clusterID sql.NullInt64,
	processedAt sql.NullTime,
) {
	rec.SourceID = sourceID.String
	rec.File.Country = country.String
	rec.File.Client = client.String
	rec.File.Product = product.String
	rec.File.RelativeFolder = relFolder.String
	rec.File.FormVariant = formVariant.String
	rec.File.IsLatest = isLatest == 1

	if extractedDate.Valid && extractedDate.String != "" {
		if t, err := time.Parse(time.RFC3339, extractedDate.String); err == nil {
			rec.File.ExtractedDate = &t
		}
	}
	if clusterID.Valid {
		id := clusterID.Int64
		rec.ClusterID = &id
	}
	if processedAt.Valid {
		rec.ProcessedAt = processedAt.Time
	}
}

// marshalCluster marshals a cluster's JSON columns.
func marshalCluster(cluster *domain.PatternCluster) (summaryJSON, examplesJSON string, err error) {
	summary, err := json.Marshal(cluster.Summary)
	if err != nil {
		return "", "", fmt.Errorf("marshalling cluster summary: %w", err)
	}
	examples, err := json.Marshal(cluster.ExampleIDs)
	if err != nil {
		return "", "", fmt.Errorf("marshalling cluster examples: %w", err)
	}
	return string(summary), string(examples), nil
}

// scanCluster scans a single cluster row.
func scanCluster(row *sql.Row) (*domain.PatternCluster, error) {
	var cluster domain.PatternCluster
	var summaryJSON, examplesJSON sql.NullString
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&cluster.ID, &cluster.Name, &cluster.Fingerprint,
		&cluster.DocumentCount, &summaryJSON, &examplesJSON, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning cluster: %w", err)
	}

	if err := unmarshalCluster(&cluster, summaryJSON, examplesJSON); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		cluster.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		cluster.UpdatedAt = updatedAt.Time
	}

	return &cluster, nil
}

// scanClusterRows scans a cluster from *sql.Rows.
func scanClusterRows(rows *sql.Rows) (*domain.PatternCluster, error) {
	var cluster domain.PatternCluster
	var summaryJSON, examplesJSON sql.NullString
	var createdAt, updatedAt sql.NullTime

	if err := rows.Scan(&cluster.ID, &cluster.Name, &cluster.Fingerprint,
		&cluster.DocumentCount, &summaryJSON, &examplesJSON, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scanning cluster: %w", err)
	}

	if err := unmarshalCluster(&cluster, summaryJSON, examplesJSON); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		cluster.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		cluster.UpdatedAt = updatedAt.Time
	}

	return &cluster, nil
}

// unmarshalCluster decodes a cluster's JSON columns.
func unmarshalCluster(cluster *domain.PatternCluster, summaryJSON, examplesJSON sql.NullString) error {
	if summaryJSON.Valid && summaryJSON.String != "" && summaryJSON.String != jsonNull {
		if err := json.Unmarshal([]byte(summaryJSON.String), &cluster.Summary); err != nil {
			return fmt.Errorf("unmarshalling cluster summary: %w", err)
		}
	}
	if examplesJSON.Valid && examplesJSON.String != "" && examplesJSON.String != jsonNull {
		if err := json.Unmarshal([]byte(examplesJSON.String), &cluster.ExampleIDs); err != nil {
			return fmt.Errorf("unmarshalling cluster examples: %w", err)
		}
	}
	return nil
}

// scanExclusions scans multiple exclusion rows.
func scanExclusions(rows *sql.Rows) ([]domain.Exclusion, error) {
	var exclusions []domain.Exclusion //nolint:prealloc // size unknown from query
	for rows.Next() {
		var e domain.Exclusion
		var sourceID, reason sql.NullString
		var excludedAt sql.NullTime
		if err := rows.Scan(&e.ID, &sourceID, &e.Path, &reason, &excludedAt); err != nil {
			return nil, fmt.Errorf("scanning exclusion: %w", err)
		}
		e.SourceID = sourceID.String
		e.Reason = reason.String
		if excludedAt.Valid {
			e.ExcludedAt = excludedAt.Time
		}
		exclusions = append(exclusions, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating exclusions: %w", err)
	}

	return exclusions, nil
}

// scanCredentials scans a single credentials row.
func scanCredentials(row *sql.Row) (*domain.Credentials, error) {
	var creds domain.Credentials
	var account sql.NullString
	var tokenJSON, clientJSON sql.NullString

	if err := row.Scan(&creds.ID, &creds.SourceID, &account,
		&tokenJSON, &clientJSON, &creds.CreatedAt, &creds.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning credentials: %w", err)
	}

	creds.Account = account.String

	if tokenJSON.Valid && tokenJSON.String != jsonNull {
		var token domain.TokenCredentials
		if err := json.Unmarshal([]byte(tokenJSON.String), &token); err != nil {
			return nil, fmt.Errorf("unmarshalling token credentials: %w", err)
		}
		creds.Token = &token
	}

	if clientJSON.Valid && clientJSON.String != jsonNull {
		var client domain.ClientCredentials
		if err := json.Unmarshal([]byte(clientJSON.String), &client); err != nil {
			return nil, fmt.Errorf("unmarshalling client credentials: %w", err)
		}
		creds.Client = &client
	}

	return &creds, nil
}

// formatNullableDate formats an optional date to RFC3339, or nil.
func formatNullableDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

// nullInt64 returns nil for a nil pointer, otherwise the value.
func nullInt64(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
