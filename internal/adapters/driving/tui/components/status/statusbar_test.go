package status

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/styles"
)

// TestNewStatusBar tests creating a status bar.
func TestNewStatusBar(t *testing.T) {
	bar := NewStatusBar(styles.DefaultStyles())

	assert.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
}

// TestNewStatusBar_NilStyles tests that nil styles fall back to defaults.
func TestNewStatusBar_NilStyles(t *testing.T) {
	bar := NewStatusBar(nil)

	assert.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
}

// TestStatusBar_Set tests setting state and message.
func TestStatusBar_Set(t *testing.T) {
	bar := NewStatusBar(styles.DefaultStyles())

	bar.Set(StateError, "index unavailable")

	assert.Equal(t, StateError, bar.State())
	assert.Equal(t, "index unavailable", bar.Message())
}

// TestStatusBar_Clear tests resetting to the ready state.
func TestStatusBar_Clear(t *testing.T) {
	bar := NewStatusBar(styles.DefaultStyles())
	bar.Set(StateResults, "")
	bar.SetResultCount(5)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
}

// TestStatusBar_View_Ready tests the ready state rendering.
func TestStatusBar_View_Ready(t *testing.T) {
	bar := NewStatusBar(styles.DefaultStyles())
	bar.SetWidth(80)

	view := bar.View()

	assert.Contains(t, view, "Ready")
}

// TestStatusBar_View_ReadyWithMessage tests a custom ready message.
func TestStatusBar_View_ReadyWithMessage(t *testing.T) {
	bar := NewStatusBar(styles.DefaultStyles())
	bar.SetWidth(80)
	bar.Set(StateReady, "Document excluded")

	view := bar.View()

	assert.Contains(t, view, "Document excluded")
}

// TestStatusBar_View_Loading tests the loading state rendering.
func TestStatusBar_View_Loading(t *testing.T) {
	bar := NewStatusBar(styles.DefaultStyles())
	bar.SetWidth(80)
	bar.Set(StateLoading, "")

	view := bar.View()

	assert.Contains(t, view, "Loading")
}

// TestStatusBar_View_Error tests the error state rendering.
func TestStatusBar_View_Error(t *testing.T) {
	bar := NewStatusBar(styles.DefaultStyles())
	bar.SetWidth(80)
	bar.Set(StateError, "connection refused")

	view := bar.View()

	assert.Contains(t, view, "Error")
	assert.Contains(t, view, "connection refused")
}

// TestStatusBar_View_Results tests the results state rendering.
func TestStatusBar_View_Results(t *testing.T) {
	bar := NewStatusBar(styles.DefaultStyles())
	bar.SetWidth(120)
	bar.Set(StateResults, "")
	bar.SetResultCount(12)

	view := bar.View()

	assert.Contains(t, view, "12 documents")
}

// TestStatusBar_View_NoResults tests the empty results rendering.
func TestStatusBar_View_NoResults(t *testing.T) {
	bar := NewStatusBar(styles.DefaultStyles())
	bar.SetWidth(80)
	bar.Set(StateResults, "")
	bar.SetResultCount(0)

	view := bar.View()

	assert.Contains(t, view, "No documents")
}

// TestStatusBar_View_HintsChangeWithResults tests that list hints appear with results.
func TestStatusBar_View_HintsChangeWithResults(t *testing.T) {
	bar := NewStatusBar(styles.DefaultStyles())
	bar.SetWidth(160)

	readyView := bar.View()
	assert.Contains(t, readyView, "quit")

	bar.Set(StateResults, "")
	bar.SetResultCount(3)
	resultsView := bar.View()

	assert.Contains(t, resultsView, "filter")
}

// TestStatusBar_SetWidth tests width updates.
func TestStatusBar_SetWidth(t *testing.T) {
	bar := NewStatusBar(styles.DefaultStyles())

	bar.SetWidth(100)

	assert.Equal(t, 100, bar.Width())
}
