package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/messages"
	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/styles"
)

func keyMsg(key string) tea.KeyMsg {
	if key == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// TestNewView tests creating a menu view.
func TestNewView(t *testing.T) {
	view := NewView(styles.DefaultStyles())

	assert.NotNil(t, view)
	assert.Equal(t, 0, view.Selected())
	assert.Len(t, view.Items(), 4)
}

// TestNewView_NilStyles tests that nil styles fall back to defaults.
func TestNewView_NilStyles(t *testing.T) {
	view := NewView(nil)

	assert.NotNil(t, view)
	assert.NotNil(t, view.styles)
}

// TestView_Items tests the menu entries.
func TestView_Items(t *testing.T) {
	view := NewView(styles.DefaultStyles())
	items := view.Items()

	assert.Equal(t, "Documents", items[0].Label)
	assert.Equal(t, messages.ViewDocuments, items[0].View)
	assert.Equal(t, "Clusters", items[1].Label)
	assert.Equal(t, messages.ViewClusters, items[1].View)
	assert.Equal(t, "Help", items[2].Label)
	assert.Equal(t, messages.ViewHelp, items[2].View)
	assert.Equal(t, "Quit", items[3].Label)
	assert.True(t, items[3].Quit)
}

// TestView_Navigation tests moving the cursor.
func TestView_Navigation(t *testing.T) {
	view := NewView(styles.DefaultStyles())

	view, _ = view.Update(keyMsg("j"))
	assert.Equal(t, 1, view.Selected())

	view, _ = view.Update(keyMsg("j"))
	assert.Equal(t, 2, view.Selected())

	view, _ = view.Update(keyMsg("k"))
	assert.Equal(t, 1, view.Selected())
}

// TestView_Navigation_Bounds tests that the cursor stays in range.
func TestView_Navigation_Bounds(t *testing.T) {
	view := NewView(styles.DefaultStyles())

	// At the top, up is ignored
	view, _ = view.Update(keyMsg("k"))
	assert.Equal(t, 0, view.Selected())

	// Move to the bottom
	for i := 0; i < 10; i++ {
		view, _ = view.Update(keyMsg("j"))
	}
	assert.Equal(t, 3, view.Selected())
}

// TestView_Select tests selecting an entry.
func TestView_Select(t *testing.T) {
	view := NewView(styles.DefaultStyles())

	view, cmd := view.Update(keyMsg("enter"))

	require.NotNil(t, cmd)
	msg := cmd()
	changed, ok := msg.(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewDocuments, changed.View)
	assert.Equal(t, 0, view.Selected())
}

// TestView_SelectClusters tests selecting the clusters entry.
func TestView_SelectClusters(t *testing.T) {
	view := NewView(styles.DefaultStyles())
	view, _ = view.Update(keyMsg("j"))

	_, cmd := view.Update(keyMsg("enter"))

	require.NotNil(t, cmd)
	msg := cmd()
	changed, ok := msg.(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewClusters, changed.View)
}

// TestView_SelectQuit tests that the quit entry quits.
func TestView_SelectQuit(t *testing.T) {
	view := NewView(styles.DefaultStyles())
	for i := 0; i < 3; i++ {
		view, _ = view.Update(keyMsg("j"))
	}

	_, cmd := view.Update(keyMsg("enter"))

	require.NotNil(t, cmd)
	msg := cmd()
	assert.IsType(t, tea.QuitMsg{}, msg)
}

// TestView_View tests rendering.
func TestView_View(t *testing.T) {
	view := NewView(styles.DefaultStyles())
	view.SetDimensions(80, 24)

	output := view.View()

	assert.Contains(t, output, "spexplorer")
	assert.Contains(t, output, "Spreadsheet Structure Explorer")
	assert.Contains(t, output, "Documents")
	assert.Contains(t, output, "Clusters")
	assert.Contains(t, output, "Help")
	assert.Contains(t, output, "Quit")
	assert.Contains(t, output, "Navigate")
}

// TestView_Init tests initialisation.
func TestView_Init(t *testing.T) {
	view := NewView(styles.DefaultStyles())

	assert.Nil(t, view.Init())
}
