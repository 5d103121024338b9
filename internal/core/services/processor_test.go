package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenbxyz/spexplorer/internal/adapters/driven/storage/memory"
	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driven"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driving"
)

// --- Fake reader for processor testing ---

// fakeSheetData is an in-memory worksheet grid.
type fakeSheetData struct {
	rows [][]domain.CellValue
}

func (f *fakeSheetData) Extents() (int, int) {
	maxCol := 0
	for _, row := range f.rows {
		if len(row) > maxCol {
			maxCol = len(row)
		}
	}
	return len(f.rows), maxCol
}

func (f *fakeSheetData) Value(row, col int) domain.CellValue {
	if row < 1 || row > len(f.rows) {
		return domain.EmptyValue()
	}
	r := f.rows[row-1]
	if col < 1 || col > len(r) {
		return domain.EmptyValue()
	}
	return r[col-1]
}

func (f *fakeSheetData) MergeRanges() ([]domain.MergeRange, error) {
	return nil, nil
}

func (f *fakeSheetData) Style(_, _ int) domain.CellStyle {
	return domain.CellStyle{}
}

// fakeWorkbook holds one sheet named "Data".
type fakeWorkbook struct {
	data *fakeSheetData
}

func (f *fakeWorkbook) SheetNames() []string { return []string{"Data"} }

func (f *fakeWorkbook) Sheet(name string) (driven.SheetData, error) {
	if name != "Data" {
		return nil, domain.ErrSheetUnreadable
	}
	return f.data, nil
}

func (f *fakeWorkbook) Close() error { return nil }

// fakeReader serves canned workbooks by path.
type fakeReader struct {
	mu       sync.Mutex
	failures map[string]error
	opened   []string
}

func newFakeReader() *fakeReader {
	return &fakeReader{failures: make(map[string]error)}
}

func (r *fakeReader) Open(path string) (driven.SheetDocument, error) {
	r.mu.Lock()
	r.opened = append(r.opened, path)
	failure := r.failures[path]
	r.mu.Unlock()

	if failure != nil {
		return nil, failure
	}
	return &fakeWorkbook{data: &fakeSheetData{rows: [][]domain.CellValue{
		{domain.StringValue("client_name"), domain.StringValue("Acme")},
		{domain.StringValue("policy_number"), domain.StringValue("P-1")},
	}}}, nil
}

func (r *fakeReader) OpenBytes(_ []byte) (driven.SheetDocument, error) {
	return r.Open("")
}

// --- Tests ---

// writeTestFile creates an empty placeholder under root; the fake reader
// never reads the bytes.
func writeTestFile(t *testing.T, root string, parts ...string) string {
	t.Helper()
	p := filepath.Join(append([]string{root}, parts...)...)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	return p
}

func TestProcessor_Process(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeTestFile(t, root, "UK", "Acme", "Pension", "report_2024-01-15.xlsx")
	writeTestFile(t, root, "DE", "Globex", "Bonds", "report_2024-02-01.xlsx")

	docStore := memory.NewDocumentStore()
	processor := NewProcessor(NewSelector(), newFakeReader(), docStore, nil, nil, domain.Settings{})

	report, err := processor.Process(ctx, driving.ProcessOptions{
		Root:     root,
		SourceID: "src-1",
		Workers:  2,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalFiles)
	assert.Equal(t, 2, report.Processed)
	assert.Zero(t, report.Failed)
	assert.Zero(t, report.Skipped)

	rec, err := docStore.GetDocument(ctx, "UK_Acme_Pension")
	require.NoError(t, err)
	assert.Equal(t, "src-1", rec.SourceID)
	assert.Equal(t, domain.StatusSuccess, rec.Document.Status)
	assert.NotEmpty(t, rec.Document.Fingerprint)
	require.Len(t, rec.Document.Sheets, 1)
	assert.Equal(t, "Data", rec.Document.Sheets[0].Name)
	assert.NotEmpty(t, rec.Document.Sheets[0].Sections)
}

func TestProcessor_Process_UnreadableFile(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	bad := writeTestFile(t, root, "UK", "Acme", "Pension", "report.xlsx")

	reader := newFakeReader()
	reader.failures[bad] = domain.ErrDocumentUnreadable

	docStore := memory.NewDocumentStore()
	processor := NewProcessor(NewSelector(), reader, docStore, nil, nil, domain.Settings{})

	report, err := processor.Process(ctx, driving.ProcessOptions{Root: root})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Zero(t, report.Processed)

	// The failure is still recorded so it shows up in the index.
	rec, err := docStore.GetDocument(ctx, "UK_Acme_Pension")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, rec.Document.Status)
	assert.NotEmpty(t, rec.Document.ErrorMessage)
	assert.Empty(t, rec.Document.Sheets)

	// Out of attempts, so the file is reported as stuck.
	assert.Equal(t, []string{bad}, report.StuckFiles)
	assert.Zero(t, report.Timeouts)
}

func TestProcessor_Process_RetryRecovers(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	flaky := writeTestFile(t, root, "UK", "Acme", "Pension", "report.xlsx")

	// Fails once, then succeeds on the retry pass.
	reader := newFakeReader()
	reader.failures[flaky] = errors.New("transient read failure")

	docStore := memory.NewDocumentStore()
	processor := NewProcessor(NewSelector(), reader, docStore, nil, nil, domain.Settings{})

	var once sync.Once
	progress := func(event driving.ProgressEvent) {
		if event.Phase == driving.PhaseProcessing && event.Message != "" {
			once.Do(func() {
				reader.mu.Lock()
				delete(reader.failures, flaky)
				reader.mu.Unlock()
			})
		}
	}

	report, err := processor.Process(ctx, driving.ProcessOptions{
		Root:       root,
		MaxRetries: 2,
		Progress:   progress,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Processed)
	assert.Zero(t, report.Failed)
	assert.Equal(t, 1, report.Retried)
	assert.Empty(t, report.StuckFiles)

	rec, err := docStore.GetDocument(ctx, "UK_Acme_Pension")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, rec.Document.Status)
}

func TestProcessor_Process_TimeoutsAndStuckFiles(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	slow := writeTestFile(t, root, "UK", "Acme", "Pension", "report.xlsx")

	docStore := memory.NewDocumentStore()
	processor := NewProcessor(NewSelector(), newFakeReader(), docStore, nil, nil, domain.Settings{})

	// A deadline this tight expires before extraction starts, so every
	// attempt times out.
	report, err := processor.Process(ctx, driving.ProcessOptions{
		Root:       root,
		Timeout:    time.Nanosecond,
		MaxRetries: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Zero(t, report.Processed)
	assert.Equal(t, 2, report.Retried)

	// One timeout per attempt: the initial pass plus both retries.
	assert.Equal(t, 3, report.Timeouts)
	assert.Equal(t, []string{slow}, report.StuckFiles)
}

func TestProcessor_Process_SkipsAlreadySuccessful(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeTestFile(t, root, "UK", "Acme", "Pension", "report.xlsx")

	docStore := memory.NewDocumentStore()
	require.NoError(t, docStore.SaveDocument(ctx, &domain.DocumentRecord{
		ID:       "UK_Acme_Pension",
		Document: domain.Document{Status: domain.StatusSuccess},
	}))

	reader := newFakeReader()
	processor := NewProcessor(NewSelector(), reader, docStore, nil, nil, domain.Settings{})

	t.Run("skipped by default", func(t *testing.T) {
		report, err := processor.Process(ctx, driving.ProcessOptions{Root: root})
		require.NoError(t, err)
		assert.Equal(t, 1, report.Skipped)
		assert.Zero(t, report.Processed)
		assert.Empty(t, reader.opened)
	})

	t.Run("reprocess forces extraction", func(t *testing.T) {
		report, err := processor.Process(ctx, driving.ProcessOptions{Root: root, Reprocess: true})
		require.NoError(t, err)
		assert.Equal(t, 1, report.Processed)
		assert.Zero(t, report.Skipped)
	})
}

func TestProcessor_Process_Exclusions(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	excluded := writeTestFile(t, root, "UK", "Acme", "Pension", "report.xlsx")

	exclusions := memory.NewExclusionStore()
	require.NoError(t, exclusions.Add(ctx, &domain.Exclusion{
		ID:       "exc-1",
		SourceID: "src-1",
		Path:     excluded,
	}))

	docStore := memory.NewDocumentStore()
	processor := NewProcessor(NewSelector(), newFakeReader(), docStore, nil, exclusions, domain.Settings{})

	report, err := processor.Process(ctx, driving.ProcessOptions{Root: root, SourceID: "src-1"})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Skipped)
	assert.Zero(t, report.Processed)
}

func TestProcessor_Process_ProgressPhases(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeTestFile(t, root, "UK", "Acme", "Pension", "report.xlsx")

	var (
		mu     sync.Mutex
		phases []driving.ProcessPhase
	)
	progress := func(event driving.ProgressEvent) {
		mu.Lock()
		phases = append(phases, event.Phase)
		mu.Unlock()
	}

	processor := NewProcessor(NewSelector(), newFakeReader(), memory.NewDocumentStore(), nil, nil, domain.Settings{})

	_, err := processor.Process(ctx, driving.ProcessOptions{Root: root, Progress: progress})
	require.NoError(t, err)

	assert.Contains(t, phases, driving.PhaseDiscovery)
	assert.Contains(t, phases, driving.PhaseStart)
	assert.Contains(t, phases, driving.PhaseProcessing)
	assert.Equal(t, driving.PhaseCompleted, phases[len(phases)-1])
}

func TestProcessor_Process_MissingRoot(t *testing.T) {
	processor := NewProcessor(NewSelector(), newFakeReader(), memory.NewDocumentStore(), nil, nil, domain.Settings{})

	report, err := processor.Process(context.Background(), driving.ProcessOptions{
		Root: filepath.Join(t.TempDir(), "nope"),
	})

	assert.Error(t, err)
	require.NotNil(t, report)
	assert.Zero(t, report.TotalFiles)
}

func TestProcessor_Process_NotWired(t *testing.T) {
	processor := NewProcessor(NewSelector(), nil, nil, nil, nil, domain.Settings{})

	_, err := processor.Process(context.Background(), driving.ProcessOptions{Root: t.TempDir()})
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}
