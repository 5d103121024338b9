package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/styles"
	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

func keyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func testResults() []domain.SearchResult {
	clusterID := int64(3)
	return []domain.SearchResult{
		{
			ID:           "us_acme_custody",
			Client:       "acme",
			Country:      "us",
			Product:      "custody",
			Filename:     "acme_2024-03-31.xlsx",
			Status:       domain.StatusSuccess,
			SectionCount: 4,
			ClusterID:    &clusterID,
		},
		{
			ID:           "uk_globex_lending",
			Client:       "globex",
			Country:      "uk",
			Product:      "lending",
			Filename:     "globex_q1.xlsx",
			Status:       domain.StatusSuccess,
			SectionCount: 2,
		},
		{
			ID:           "de_initech_custody",
			Client:       "initech",
			Country:      "de",
			Product:      "custody",
			Filename:     "initech.xlsx",
			Status:       domain.StatusFailed,
			SectionCount: 0,
		},
	}
}

// TestNewResultList tests creating a result list.
func TestNewResultList(t *testing.T) {
	list := NewResultList(styles.DefaultStyles())

	assert.NotNil(t, list)
	assert.True(t, list.IsEmpty())
	assert.Equal(t, 0, list.Count())
	assert.Equal(t, 0, list.Selected())
}

// TestNewResultList_NilStyles tests that nil styles fall back to defaults.
func TestNewResultList_NilStyles(t *testing.T) {
	list := NewResultList(nil)

	assert.NotNil(t, list)
	assert.NotNil(t, list.styles)
}

// TestResultList_SetResults tests setting results.
func TestResultList_SetResults(t *testing.T) {
	list := NewResultList(styles.DefaultStyles())

	list.SetResults(testResults())

	assert.Equal(t, 3, list.Count())
	assert.False(t, list.IsEmpty())
	assert.Equal(t, 0, list.Selected())
}

// TestResultList_SetResults_ResetsSelection tests that new results reset the cursor.
func TestResultList_SetResults_ResetsSelection(t *testing.T) {
	list := NewResultList(styles.DefaultStyles())
	list.SetResults(testResults())
	list.MoveDown()
	list.MoveDown()

	assert.Equal(t, 2, list.Selected())

	list.SetResults(testResults()[:1])

	assert.Equal(t, 0, list.Selected())
}

// TestResultList_MoveDown tests downward navigation.
func TestResultList_MoveDown(t *testing.T) {
	list := NewResultList(styles.DefaultStyles())
	list.SetResults(testResults())

	list.MoveDown()
	assert.Equal(t, 1, list.Selected())

	list.MoveDown()
	assert.Equal(t, 2, list.Selected())

	// At the bottom, stays put
	list.MoveDown()
	assert.Equal(t, 2, list.Selected())
}

// TestResultList_MoveUp tests upward navigation.
func TestResultList_MoveUp(t *testing.T) {
	list := NewResultList(styles.DefaultStyles())
	list.SetResults(testResults())
	list.MoveDown()
	list.MoveDown()

	list.MoveUp()
	assert.Equal(t, 1, list.Selected())

	list.MoveUp()
	assert.Equal(t, 0, list.Selected())

	// At the top, stays put
	list.MoveUp()
	assert.Equal(t, 0, list.Selected())
}

// TestResultList_SelectedResult tests retrieving the selected result.
func TestResultList_SelectedResult(t *testing.T) {
	list := NewResultList(styles.DefaultStyles())
	list.SetResults(testResults())

	result := list.SelectedResult()

	assert.NotNil(t, result)
	assert.Equal(t, "us_acme_custody", result.ID)

	list.MoveDown()
	result = list.SelectedResult()

	assert.NotNil(t, result)
	assert.Equal(t, "uk_globex_lending", result.ID)
}

// TestResultList_SelectedResult_Empty tests selection on an empty list.
func TestResultList_SelectedResult_Empty(t *testing.T) {
	list := NewResultList(styles.DefaultStyles())

	assert.Nil(t, list.SelectedResult())
}

// TestResultList_SetSelected tests setting the selection directly.
func TestResultList_SetSelected(t *testing.T) {
	list := NewResultList(styles.DefaultStyles())
	list.SetResults(testResults())

	list.SetSelected(2)
	assert.Equal(t, 2, list.Selected())

	// Out of range is ignored
	list.SetSelected(10)
	assert.Equal(t, 2, list.Selected())

	list.SetSelected(-1)
	assert.Equal(t, 2, list.Selected())
}

// TestResultList_View_Empty tests the empty state rendering.
func TestResultList_View_Empty(t *testing.T) {
	list := NewResultList(styles.DefaultStyles())

	view := list.View()

	assert.Contains(t, view, "No documents")
}

// TestResultList_View_WithResults tests rendering with results.
func TestResultList_View_WithResults(t *testing.T) {
	list := NewResultList(styles.DefaultStyles())
	list.SetDimensions(100, 24)
	list.SetResults(testResults())

	view := list.View()

	assert.Contains(t, view, "Documents (3)")
	assert.Contains(t, view, "us_acme_custody")
	assert.Contains(t, view, "us/acme/custody")
	assert.Contains(t, view, "acme_2024-03-31.xlsx")
	assert.Contains(t, view, "4 sections")
	assert.Contains(t, view, "cluster 3")
}

// TestResultList_View_FailedDocument tests that failed documents are marked.
func TestResultList_View_FailedDocument(t *testing.T) {
	list := NewResultList(styles.DefaultStyles())
	list.SetDimensions(100, 24)
	list.SetResults(testResults())

	view := list.View()

	assert.Contains(t, view, "failed")
}

// TestResultList_View_Windowing tests that only visible results render.
func TestResultList_View_Windowing(t *testing.T) {
	list := NewResultList(styles.DefaultStyles())
	list.SetDimensions(100, 8)

	results := make([]domain.SearchResult, 10)
	for i := range results {
		results[i] = domain.SearchResult{
			ID:       string(rune('a'+i)) + "_doc",
			Filename: "file.xlsx",
			Status:   domain.StatusSuccess,
		}
	}
	list.SetResults(results)

	// Move past the window so it scrolls
	for i := 0; i < 9; i++ {
		list.MoveDown()
	}

	view := list.View()

	assert.Contains(t, view, "j_doc")
	assert.NotContains(t, view, "a_doc")
}

// TestResultList_Update_Keys tests key-driven navigation.
func TestResultList_Update_Keys(t *testing.T) {
	list := NewResultList(styles.DefaultStyles())
	list.SetResults(testResults())

	list, _ = list.Update(keyMsg("j"))
	assert.Equal(t, 1, list.Selected())

	list, _ = list.Update(keyMsg("j"))
	assert.Equal(t, 2, list.Selected())

	list, _ = list.Update(keyMsg("k"))
	assert.Equal(t, 1, list.Selected())
}

// TestResultList_SetDimensions tests dimension updates.
func TestResultList_SetDimensions(t *testing.T) {
	list := NewResultList(styles.DefaultStyles())

	list.SetDimensions(120, 40)

	assert.Equal(t, 120, list.Width())
	assert.Equal(t, 40, list.Height())
}

// TestResultList_Init tests initialisation.
func TestResultList_Init(t *testing.T) {
	list := NewResultList(styles.DefaultStyles())

	assert.Nil(t, list.Init())
}
