package docdetails

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/messages"
	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/styles"
	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

func sampleRecord() *domain.DocumentRecord {
	clusterID := int64(2)
	fileDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	return &domain.DocumentRecord{
		ID:       "uk_acme_pension",
		SourceID: "src-1",
		File: domain.FileRecord{
			Path:          "/downloads/UK/Acme/Pension/acme_2024-03-01.xlsx",
			Filename:      "acme_2024-03-01.xlsx",
			Country:       "UK",
			Client:        "Acme",
			Product:       "Pension",
			ExtractedDate: &fileDate,
		},
		Document: domain.Document{
			Status:      domain.StatusSuccess,
			Fingerprint: "abc123",
			Warnings:    []string{"sheet 'Notes' defied classification"},
			Sheets:      []domain.Sheet{{Name: "Summary"}},
		},
		ClusterID:   &clusterID,
		ProcessedAt: time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestSetRecord(t *testing.T) {
	view := NewView(styles.DefaultStyles())
	view.SetRecord(sampleRecord())

	require.NotNil(t, view.Record())
	assert.Equal(t, "uk_acme_pension", view.Record().ID)
	assert.NoError(t, view.Err())
}

func TestBuildContent(t *testing.T) {
	view := NewView(styles.DefaultStyles())
	view.SetRecord(sampleRecord())

	lines := view.buildContent()
	joined := ""
	for _, l := range lines {
		joined += l + "\n"
	}

	assert.Contains(t, joined, "ID: uk_acme_pension")
	assert.Contains(t, joined, "Source: src-1")
	assert.Contains(t, joined, "Country: UK")
	assert.Contains(t, joined, "Client: Acme")
	assert.Contains(t, joined, "Product: Pension")
	assert.Contains(t, joined, "File date: 2024-03-01")
	assert.Contains(t, joined, "Status: success")
	assert.Contains(t, joined, "Fingerprint: abc123")
	assert.Contains(t, joined, "Cluster: 2")
	assert.Contains(t, joined, "Warning: sheet 'Notes' defied classification")
}

func TestBuildContent_NoRecord(t *testing.T) {
	view := NewView(styles.DefaultStyles())
	assert.Empty(t, view.buildContent())
}

func TestView_States(t *testing.T) {
	view := NewView(styles.DefaultStyles())
	view.SetDimensions(80, 24)

	t.Run("empty", func(t *testing.T) {
		assert.Contains(t, view.View(), "(No document selected)")
	})

	t.Run("with record", func(t *testing.T) {
		view.SetRecord(sampleRecord())
		out := view.View()
		assert.Contains(t, out, "uk_acme_pension")
		assert.Contains(t, out, "Sections: 0")
	})

	t.Run("error", func(t *testing.T) {
		view.SetError(errors.New("boom"))
		assert.Contains(t, view.View(), "boom")
	})
}

func TestEscReturnsToDocuments(t *testing.T) {
	view := NewView(styles.DefaultStyles())

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	msg := cmd()
	changed, ok := msg.(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewDocuments, changed.View)
}

func TestScrolling(t *testing.T) {
	view := NewView(styles.DefaultStyles())
	view.SetRecord(sampleRecord())
	view.SetDimensions(80, 8)

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 1, view.scrollOffset)

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	assert.Equal(t, 0, view.scrollOffset)

	// Cannot scroll above the top
	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	assert.Equal(t, 0, view.scrollOffset)
}
