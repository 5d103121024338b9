package doccontent

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/messages"
	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/styles"
	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

// mockDocumentService returns a fixed record.
type mockDocumentService struct {
	record *domain.DocumentRecord
	err    error
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.DocumentRecord, error) {
	return m.record, m.err
}

func (m *mockDocumentService) ListBySource(_ context.Context, _ string) ([]domain.SearchResult, error) {
	return nil, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockDocumentService) Exclude(_ context.Context, _, _ string) error {
	return m.err
}

func sampleRecord() *domain.DocumentRecord {
	kv := domain.NewOrderedMap()
	kv.Set("client_name", "Acme")
	kv.Set("policy_number", "P-123")

	return &domain.DocumentRecord{
		ID: "uk_acme_pension",
		Document: domain.Document{
			Status:      domain.StatusSuccess,
			Fingerprint: "abc123",
			Sheets: []domain.Sheet{
				{
					Name: "Summary",
					Sections: []domain.Section{
						{
							Type:       domain.SectionKeyValue,
							Bounds:     domain.Bounds{StartRow: 1, EndRow: 2, StartCol: 1, EndCol: 4},
							Confidence: 0.9,
							KeyValue:   &domain.KeyValuePayload{Data: kv},
						},
						{
							Type:       domain.SectionTable,
							Header:     "Members",
							Bounds:     domain.Bounds{StartRow: 5, EndRow: 9, StartCol: 1, EndCol: 4},
							Confidence: 0.8,
							Table: &domain.TablePayload{
								Headers: []string{"name", "age"},
								Rows:    []domain.Record{{"name": "a", "age": 1}},
							},
						},
					},
				},
			},
		},
	}
}

func TestSetDocument_LoadsRecord(t *testing.T) {
	svc := &mockDocumentService{record: sampleRecord()}
	view := NewView(styles.DefaultStyles(), svc)

	cmd := view.SetDocument("uk_acme_pension")
	require.NotNil(t, cmd)

	msg := cmd()
	loaded, ok := msg.(messages.DocumentLoaded)
	require.True(t, ok)
	require.NoError(t, loaded.Err)
	assert.Equal(t, "uk_acme_pension", loaded.DocumentID)

	view, _ = view.Update(loaded)
	require.NotNil(t, view.Record())
	assert.Equal(t, "uk_acme_pension", view.Record().ID)
	assert.NotEmpty(t, view.Lines())
}

func TestSetDocument_LoadFailure(t *testing.T) {
	svc := &mockDocumentService{err: errors.New("not found")}
	view := NewView(styles.DefaultStyles(), svc)

	cmd := view.SetDocument("missing")
	msg := cmd()
	loaded, ok := msg.(messages.DocumentLoaded)
	require.True(t, ok)
	require.Error(t, loaded.Err)

	view, _ = view.Update(loaded)
	assert.Error(t, view.Err())
}

func TestBuildOutline(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &mockDocumentService{})
	view.record = sampleRecord()
	lines := view.buildOutline()

	joined := ""
	for _, l := range lines {
		joined += l + "\n"
	}

	assert.Contains(t, joined, `Sheet "Summary" (2 sections)`)
	assert.Contains(t, joined, "[key_value] rows 1-2")
	assert.Contains(t, joined, "client_name = Acme")
	assert.Contains(t, joined, "[table] rows 5-9")
	assert.Contains(t, joined, "Members")
	assert.Contains(t, joined, "columns: name, age")
	assert.Contains(t, joined, "Fingerprint: abc123")
}

func TestScrolling(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &mockDocumentService{})
	view.SetDimensions(80, 10)
	for i := 0; i < 20; i++ {
		view.lines = append(view.lines, "line")
	}

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 1, view.scrollOffset)

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	assert.Equal(t, view.maxScrollOffset(), view.scrollOffset)

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	assert.Equal(t, 0, view.scrollOffset)
}

func TestEscReturnsToDocuments(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &mockDocumentService{})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	msg := cmd()
	changed, ok := msg.(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewDocuments, changed.View)
}

func TestView_States(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &mockDocumentService{})
	view.SetDimensions(80, 24)

	t.Run("empty", func(t *testing.T) {
		assert.Contains(t, view.View(), "(No structure)")
	})

	t.Run("loading", func(t *testing.T) {
		view.loading = true
		assert.Contains(t, view.View(), "Loading document...")
		view.loading = false
	})

	t.Run("error", func(t *testing.T) {
		view.err = errors.New("boom")
		assert.Contains(t, view.View(), "boom")
	})
}

func TestPreviewList(t *testing.T) {
	assert.Equal(t, "a, b", previewList([]string{"a", "b"}))

	long := []string{"c1", "c2", "c3", "c4", "c5", "c6", "c7", "c8", "c9", "c10"}
	assert.Contains(t, previewList(long), "... 2 more")
}
