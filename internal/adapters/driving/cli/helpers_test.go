package cli

import (
	"context"
	"errors"
	"time"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driving"
)

// setupTestServices swaps every injected service for a happy-path mock
// and returns a restore func.
func setupTestServices() func() {
	oldSource := sourceService
	oldCredentials := credentialsService
	oldPull := pullOrchestrator
	oldProcess := processService
	oldExtraction := extractionService
	oldSearch := searchService
	oldDocument := documentService
	oldCluster := clusterService
	oldSchema := schemaService
	oldSettings := settingsService

	sourceService = &mockSourceService{}
	credentialsService = &mockCredentialsService{}
	pullOrchestrator = &mockPullOrchestrator{}
	processService = &mockProcessService{}
	extractionService = &mockExtractionService{}
	searchService = &mockSearchService{}
	documentService = &mockDocumentService{}
	clusterService = &mockClusterService{}
	schemaService = &mockSchemaService{}
	settingsService = &mockSettingsService{}

	return func() {
		sourceService = oldSource
		credentialsService = oldCredentials
		pullOrchestrator = oldPull
		processService = oldProcess
		extractionService = oldExtraction
		searchService = oldSearch
		documentService = oldDocument
		clusterService = oldCluster
		schemaService = oldSchema
		settingsService = oldSettings
	}
}

// Fixtures

func testDocument() domain.Document {
	kv := domain.NewOrderedMap()
	kv.Set("client_name", "Acme Ltd")
	kv.Set("base_currency", "USD")

	return domain.Document{
		Sheets: []domain.Sheet{
			{
				Name: "Account Details",
				Sections: []domain.Section{
					{
						Type:       domain.SectionKeyValue,
						Header:     "Client Information",
						Bounds:     domain.Bounds{StartRow: 1, EndRow: 3, StartCol: 1, EndCol: 2},
						Confidence: 0.95,
						KeyValue:   &domain.KeyValuePayload{Data: kv},
					},
					{
						Type:       domain.SectionTable,
						Bounds:     domain.Bounds{StartRow: 5, EndRow: 8, StartCol: 1, EndCol: 3},
						Confidence: 0.88,
						Table: &domain.TablePayload{
							Headers: []string{"account_number", "currency", "balance"},
							Rows: []domain.Record{
								{"account_number": "100-1", "currency": "USD", "balance": "1500.00"},
								{"account_number": "100-2", "currency": "EUR", "balance": "320.50"},
							},
						},
					},
				},
			},
		},
		Status:      domain.StatusSuccess,
		Fingerprint: "3f8a2c9d41b7e650",
	}
}

func testRecord(id string) *domain.DocumentRecord {
	fileDate := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	clusterID := int64(1)
	return &domain.DocumentRecord{
		ID:       id,
		SourceID: "src-1",
		File: domain.FileRecord{
			Path:          "/data/downloads/us/acme/custody/acme_2024-03-31.xlsx",
			Filename:      "acme_2024-03-31.xlsx",
			Country:       "us",
			Client:        "acme",
			Product:       "custody",
			ExtractedDate: &fileDate,
			IsLatest:      true,
		},
		Document:    testDocument(),
		ClusterID:   &clusterID,
		ProcessedAt: time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC),
	}
}

func testSearchResults() []domain.SearchResult {
	clusterID := int64(1)
	return []domain.SearchResult{
		{
			ID:           "us_acme_custody",
			Client:       "acme",
			Country:      "us",
			Product:      "custody",
			Filename:     "acme_2024-03-31.xlsx",
			Fingerprint:  "3f8a2c9d41b7e650",
			ClusterID:    &clusterID,
			Status:       domain.StatusSuccess,
			SectionCount: 2,
		},
		{
			ID:           "uk_globex_lending",
			Client:       "globex",
			Country:      "uk",
			Product:      "lending",
			Filename:     "globex_q1.xlsx",
			Fingerprint:  "9c1d5e7f20a84b36",
			Status:       domain.StatusSuccess,
			SectionCount: 3,
		},
	}
}

func testClusters() []domain.PatternCluster {
	return []domain.PatternCluster{
		{
			ID:            1,
			Name:          "Cluster 1",
			Fingerprint:   "3f8a2c9d41b7e650",
			DocumentCount: 12,
			Summary: domain.ClusterSummary{
				SheetNames: []string{"Account Details", "Balances"},
				SectionTypes: map[domain.SectionType]int{
					domain.SectionKeyValue: 12,
					domain.SectionTable:    24,
				},
				CommonFields: []string{"client_name", "base_currency", "account_number"},
			},
			ExampleIDs: []string{"us_acme_custody", "uk_globex_custody"},
		},
		{
			ID:            2,
			Name:          "Cluster 2",
			Fingerprint:   "9c1d5e7f20a84b36",
			DocumentCount: 4,
			Summary: domain.ClusterSummary{
				SheetNames:   []string{"Summary"},
				SectionTypes: map[domain.SectionType]int{domain.SectionTable: 4},
				CommonFields: []string{"loan_id", "principal"},
			},
		},
	}
}

// Source service mocks

type mockSourceService struct{}

func (m *mockSourceService) Add(_ context.Context, _ domain.Source) error {
	return nil
}

func (m *mockSourceService) Get(_ context.Context, id string) (*domain.Source, error) {
	return &domain.Source{
		ID:     id,
		Type:   "filesystem",
		Name:   "Test Source",
		Config: map[string]string{"path": "/data/spreadsheets"},
	}, nil
}

func (m *mockSourceService) List(_ context.Context) ([]domain.Source, error) {
	return []domain.Source{
		{
			ID:     "src-1",
			Type:   "filesystem",
			Name:   "Test Source",
			Config: map[string]string{"path": "/data/spreadsheets"},
		},
	}, nil
}

func (m *mockSourceService) Update(_ context.Context, _ domain.Source) error {
	return nil
}

func (m *mockSourceService) Remove(_ context.Context, _ string) error {
	return nil
}

func (m *mockSourceService) Types(_ context.Context) ([]domain.ConnectorType, error) {
	return []domain.ConnectorType{
		{
			ID:          "filesystem",
			Name:        "Local Filesystem",
			Description: "Spreadsheets in a local directory",
			ConfigKeys: []domain.ConfigKey{
				{Key: "path", Label: "Directory path", Required: true},
			},
		},
		{
			ID:           "github",
			Name:         "GitHub Repository",
			Description:  "Spreadsheets in a GitHub repository",
			RequiresAuth: true,
			ConfigKeys: []domain.ConfigKey{
				{Key: "owner", Label: "Repository owner", Required: true},
				{Key: "repo", Label: "Repository name", Required: true},
				{Key: "branch", Label: "Branch", Default: "main"},
			},
		},
	}, nil
}

func (m *mockSourceService) ValidateConfig(_ context.Context, _ string, _ map[string]string) error {
	return nil
}

type mockSourceServiceEmpty struct {
	mockSourceService
}

func (m *mockSourceServiceEmpty) List(_ context.Context) ([]domain.Source, error) {
	return []domain.Source{}, nil
}

func (m *mockSourceServiceEmpty) Types(_ context.Context) ([]domain.ConnectorType, error) {
	return []domain.ConnectorType{}, nil
}

type mockSourceServiceError struct{}

func (m *mockSourceServiceError) Add(_ context.Context, _ domain.Source) error {
	return errors.New("store unavailable")
}

func (m *mockSourceServiceError) Get(_ context.Context, _ string) (*domain.Source, error) {
	return nil, errors.New("store unavailable")
}

func (m *mockSourceServiceError) List(_ context.Context) ([]domain.Source, error) {
	return nil, errors.New("store unavailable")
}

func (m *mockSourceServiceError) Update(_ context.Context, _ domain.Source) error {
	return errors.New("store unavailable")
}

func (m *mockSourceServiceError) Remove(_ context.Context, _ string) error {
	return errors.New("store unavailable")
}

func (m *mockSourceServiceError) Types(_ context.Context) ([]domain.ConnectorType, error) {
	return nil, errors.New("store unavailable")
}

func (m *mockSourceServiceError) ValidateConfig(_ context.Context, _ string, _ map[string]string) error {
	return errors.New("store unavailable")
}

// Credentials service mocks

type mockCredentialsService struct{}

func (m *mockCredentialsService) Save(_ context.Context, _ domain.Credentials) error {
	return nil
}

func (m *mockCredentialsService) Get(_ context.Context, id string) (*domain.Credentials, error) {
	creds := testCredentials("src-1")
	creds.ID = id
	return creds, nil
}

func (m *mockCredentialsService) GetBySourceID(_ context.Context, sourceID string) (*domain.Credentials, error) {
	return testCredentials(sourceID), nil
}

func (m *mockCredentialsService) Delete(_ context.Context, _ string) error {
	return nil
}

func testCredentials(sourceID string) *domain.Credentials {
	return &domain.Credentials{
		ID:        "cred-1",
		SourceID:  sourceID,
		Account:   "svc-account",
		Token:     &domain.TokenCredentials{Token: "ghp_1234567890abcdef"},
		CreatedAt: time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC),
	}
}

type mockCredentialsServiceEmpty struct {
	mockCredentialsService
}

func (m *mockCredentialsServiceEmpty) GetBySourceID(_ context.Context, _ string) (*domain.Credentials, error) {
	return nil, nil
}

type mockCredentialsServiceError struct{}

func (m *mockCredentialsServiceError) Save(_ context.Context, _ domain.Credentials) error {
	return errors.New("keyring unavailable")
}

func (m *mockCredentialsServiceError) Get(_ context.Context, _ string) (*domain.Credentials, error) {
	return nil, errors.New("keyring unavailable")
}

func (m *mockCredentialsServiceError) GetBySourceID(_ context.Context, _ string) (*domain.Credentials, error) {
	return nil, errors.New("keyring unavailable")
}

func (m *mockCredentialsServiceError) Delete(_ context.Context, _ string) error {
	return errors.New("keyring unavailable")
}

// Pull orchestrator mocks

type mockPullOrchestrator struct{}

func (m *mockPullOrchestrator) Pull(_ context.Context, _ string) error {
	return nil
}

func (m *mockPullOrchestrator) PullAll(_ context.Context) error {
	return nil
}

func (m *mockPullOrchestrator) Status(_ context.Context, sourceID string) (*driving.PullStatus, error) {
	return &driving.PullStatus{SourceID: sourceID, FilesFetched: 3}, nil
}

func (m *mockPullOrchestrator) Watch(_ context.Context, _ string, onFile func(string)) error {
	if onFile != nil {
		onFile("/data/downloads/us/acme/custody/acme_2024-04-30.xlsx")
	}
	return nil
}

type mockPullOrchestratorError struct{}

func (m *mockPullOrchestratorError) Pull(_ context.Context, _ string) error {
	return errors.New("connector unavailable")
}

func (m *mockPullOrchestratorError) PullAll(_ context.Context) error {
	return errors.New("connector unavailable")
}

func (m *mockPullOrchestratorError) Status(_ context.Context, _ string) (*driving.PullStatus, error) {
	return nil, errors.New("connector unavailable")
}

func (m *mockPullOrchestratorError) Watch(_ context.Context, _ string, _ func(string)) error {
	return errors.New("connector unavailable")
}

// Process service mocks

type mockProcessService struct{}

func (m *mockProcessService) Process(_ context.Context, opts driving.ProcessOptions) (*driving.ProcessReport, error) {
	if opts.Progress != nil {
		opts.Progress(driving.ProgressEvent{
			Phase: driving.PhaseStart, Total: 3,
			Message: "Processing 3 files with 4 workers",
		})
		opts.Progress(driving.ProgressEvent{
			Phase: driving.PhaseProcessing, File: "/data/a.xlsx", Current: 1, Total: 3,
		})
		opts.Progress(driving.ProgressEvent{Phase: driving.PhaseCompleted, Current: 3, Total: 3})
	}
	finished := time.Now()
	return &driving.ProcessReport{
		TotalFiles: 3,
		Processed:  2,
		Skipped:    1,
		StartedAt:  finished.Add(-2 * time.Second),
		FinishedAt: finished,
	}, nil
}

type mockProcessServiceError struct{}

func (m *mockProcessServiceError) Process(_ context.Context, _ driving.ProcessOptions) (*driving.ProcessReport, error) {
	return nil, errors.New("worker pool failed")
}

// Extraction service mocks

type mockExtractionService struct{}

func (m *mockExtractionService) ExtractFile(_ context.Context, _ string) (*domain.Document, error) {
	doc := testDocument()
	return &doc, nil
}

func (m *mockExtractionService) ExtractBytes(_ context.Context, _ []byte) (*domain.Document, error) {
	doc := testDocument()
	return &doc, nil
}

type mockExtractionServiceError struct{}

func (m *mockExtractionServiceError) ExtractFile(_ context.Context, _ string) (*domain.Document, error) {
	return nil, errors.New("unreadable workbook")
}

func (m *mockExtractionServiceError) ExtractBytes(_ context.Context, _ []byte) (*domain.Document, error) {
	return nil, errors.New("unreadable workbook")
}

// Search service mocks

type mockSearchService struct{}

func (m *mockSearchService) Search(_ context.Context, _ domain.SearchFilter) ([]domain.SearchResult, error) {
	return testSearchResults(), nil
}

func (m *mockSearchService) Statistics(_ context.Context) (*domain.IndexStatistics, error) {
	return &domain.IndexStatistics{
		TotalDocuments:       2,
		ByStatus:             map[domain.ProcessingStatus]int{domain.StatusSuccess: 2},
		ByCountry:            map[string]int{"uk": 1, "us": 1},
		ClusterCount:         2,
		DistinctFingerprints: 2,
	}, nil
}

type mockSearchServiceEmpty struct{}

func (m *mockSearchServiceEmpty) Search(_ context.Context, _ domain.SearchFilter) ([]domain.SearchResult, error) {
	return []domain.SearchResult{}, nil
}

func (m *mockSearchServiceEmpty) Statistics(_ context.Context) (*domain.IndexStatistics, error) {
	return &domain.IndexStatistics{}, nil
}

type mockSearchServiceError struct{}

func (m *mockSearchServiceError) Search(_ context.Context, _ domain.SearchFilter) ([]domain.SearchResult, error) {
	return nil, errors.New("index unavailable")
}

func (m *mockSearchServiceError) Statistics(_ context.Context) (*domain.IndexStatistics, error) {
	return nil, errors.New("index unavailable")
}

// Document service mocks

type mockDocumentService struct{}

func (m *mockDocumentService) Get(_ context.Context, documentID string) (*domain.DocumentRecord, error) {
	return testRecord(documentID), nil
}

func (m *mockDocumentService) ListBySource(_ context.Context, _ string) ([]domain.SearchResult, error) {
	return testSearchResults(), nil
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return nil
}

func (m *mockDocumentService) Exclude(_ context.Context, _, _ string) error {
	return nil
}

type mockDocumentServiceError struct{}

func (m *mockDocumentServiceError) Get(_ context.Context, _ string) (*domain.DocumentRecord, error) {
	return nil, errors.New("index unavailable")
}

func (m *mockDocumentServiceError) ListBySource(_ context.Context, _ string) ([]domain.SearchResult, error) {
	return nil, errors.New("index unavailable")
}

func (m *mockDocumentServiceError) Delete(_ context.Context, _ string) error {
	return errors.New("index unavailable")
}

func (m *mockDocumentServiceError) Exclude(_ context.Context, _, _ string) error {
	return errors.New("index unavailable")
}

// Cluster service mocks

type mockClusterService struct{}

func (m *mockClusterService) Recluster(_ context.Context) ([]domain.PatternCluster, error) {
	return testClusters(), nil
}

func (m *mockClusterService) List(_ context.Context) ([]domain.PatternCluster, error) {
	return testClusters(), nil
}

func (m *mockClusterService) Get(_ context.Context, id int64) (*domain.PatternCluster, error) {
	clusters := testClusters()
	cluster := clusters[0]
	cluster.ID = id
	return &cluster, nil
}

type mockClusterServiceEmpty struct{}

func (m *mockClusterServiceEmpty) Recluster(_ context.Context) ([]domain.PatternCluster, error) {
	return []domain.PatternCluster{}, nil
}

func (m *mockClusterServiceEmpty) List(_ context.Context) ([]domain.PatternCluster, error) {
	return []domain.PatternCluster{}, nil
}

func (m *mockClusterServiceEmpty) Get(_ context.Context, _ int64) (*domain.PatternCluster, error) {
	return nil, domain.ErrNotFound
}

type mockClusterServiceError struct{}

func (m *mockClusterServiceError) Recluster(_ context.Context) ([]domain.PatternCluster, error) {
	return nil, errors.New("index unavailable")
}

func (m *mockClusterServiceError) List(_ context.Context) ([]domain.PatternCluster, error) {
	return nil, errors.New("index unavailable")
}

func (m *mockClusterServiceError) Get(_ context.Context, _ int64) (*domain.PatternCluster, error) {
	return nil, errors.New("index unavailable")
}

// Schema service mocks

type mockSchemaService struct{}

func (m *mockSchemaService) FieldStatistics(_ context.Context, _ *int64) ([]domain.FieldStats, error) {
	return []domain.FieldStats{
		{
			Name:         "client_name",
			Occurrences:  12,
			Frequency:    1.0,
			SectionTypes: []domain.SectionType{domain.SectionKeyValue},
			Samples:      []any{"Acme Ltd", "Globex Plc"},
			Canonical:    "client_name",
		},
		{
			Name:         "ccy",
			Occurrences:  9,
			Frequency:    0.75,
			SectionTypes: []domain.SectionType{domain.SectionTable},
			Samples:      []any{"USD"},
			Canonical:    "currency",
		},
	}, nil
}

func (m *mockSchemaService) SuggestCanonical(field string) string {
	return field
}

func (m *mockSchemaService) SaveMappings(_ context.Context, _ int64, _ []domain.FieldMapping) error {
	return nil
}

func (m *mockSchemaService) Mappings(_ context.Context, clusterID int64) ([]domain.FieldMapping, error) {
	return []domain.FieldMapping{
		{ClusterID: clusterID, SourceField: "ccy", CanonicalField: "currency"},
		{ClusterID: clusterID, SourceField: "client_name", CanonicalField: "client_name"},
	}, nil
}

func (m *mockSchemaService) Apply(_ context.Context, _ string) (map[string]any, error) {
	return map[string]any{
		"client_name": "Acme Ltd",
		"currency":    "USD",
	}, nil
}

type mockSchemaServiceEmpty struct {
	mockSchemaService
}

func (m *mockSchemaServiceEmpty) FieldStatistics(_ context.Context, _ *int64) ([]domain.FieldStats, error) {
	return []domain.FieldStats{}, nil
}

func (m *mockSchemaServiceEmpty) Mappings(_ context.Context, _ int64) ([]domain.FieldMapping, error) {
	return []domain.FieldMapping{}, nil
}

type mockSchemaServiceError struct{}

func (m *mockSchemaServiceError) FieldStatistics(_ context.Context, _ *int64) ([]domain.FieldStats, error) {
	return nil, errors.New("index unavailable")
}

func (m *mockSchemaServiceError) SuggestCanonical(field string) string {
	return field
}

func (m *mockSchemaServiceError) SaveMappings(_ context.Context, _ int64, _ []domain.FieldMapping) error {
	return errors.New("index unavailable")
}

func (m *mockSchemaServiceError) Mappings(_ context.Context, _ int64) ([]domain.FieldMapping, error) {
	return nil, errors.New("index unavailable")
}

func (m *mockSchemaServiceError) Apply(_ context.Context, _ string) (map[string]any, error) {
	return nil, errors.New("index unavailable")
}

// Settings service mocks

type mockSettingsService struct{}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	return &domain.Settings{
		Processing: domain.ProcessingSettings{
			Workers:        4,
			TimeoutSeconds: 60,
			MaxRetries:     2,
		},
		Storage: domain.StorageSettings{
			DataDir:     "/data",
			DocumentDir: "/data/documents",
			DownloadDir: "/data/downloads",
		},
	}, nil
}

func (m *mockSettingsService) Save(_ *domain.Settings) error {
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.Settings {
	return domain.Settings{}
}

func (m *mockSettingsService) Validate() error {
	return nil
}

type mockSettingsServiceError struct {
	mockSettingsService
}

func (m *mockSettingsServiceError) Get() (*domain.Settings, error) {
	return nil, errors.New("config unreadable")
}
