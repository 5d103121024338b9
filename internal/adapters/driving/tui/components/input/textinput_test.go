package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/styles"
)

func TestNewFilterInput(t *testing.T) {
	s := styles.DefaultStyles()
	input := NewFilterInput(s)

	require.NotNil(t, input)
	assert.Equal(t, "", input.Value())
	// The list starts in navigation mode, so the filter is not focused
	assert.False(t, input.Focused())
}

func TestNewFilterInput_NilStyles(t *testing.T) {
	input := NewFilterInput(nil)

	require.NotNil(t, input)
	assert.NotNil(t, input.styles)
}

func TestFilterInput_Init(t *testing.T) {
	input := NewFilterInput(nil)

	cmd := input.Init()

	// Blink command should be returned
	assert.NotNil(t, cmd)
}

func TestFilterInput_Update(t *testing.T) {
	input := NewFilterInput(nil)
	input.Focus()

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}
	updated, cmd := input.Update(msg)

	assert.Equal(t, input, updated)
	// textinput returns nil cmd for regular key presses
	_ = cmd
	assert.Equal(t, "a", input.Value())
}

func TestFilterInput_View(t *testing.T) {
	input := NewFilterInput(nil)

	view := input.View()

	assert.NotEmpty(t, view)
	assert.Contains(t, view, "Filter")
}

func TestFilterInput_SetValue(t *testing.T) {
	input := NewFilterInput(nil)

	input.SetValue("acme")

	assert.Equal(t, "acme", input.Value())
}

func TestFilterInput_Focus(t *testing.T) {
	input := NewFilterInput(nil)

	assert.False(t, input.Focused())

	cmd := input.Focus()

	assert.NotNil(t, cmd)
	assert.True(t, input.Focused())
}

func TestFilterInput_Blur(t *testing.T) {
	input := NewFilterInput(nil)
	input.Focus()

	assert.True(t, input.Focused())

	input.Blur()

	assert.False(t, input.Focused())
}

func TestFilterInput_SetWidth(t *testing.T) {
	input := NewFilterInput(nil)

	input.SetWidth(100)

	assert.Equal(t, 100, input.Width())
}

func TestFilterInput_SetWidth_Minimum(t *testing.T) {
	input := NewFilterInput(nil)

	input.SetWidth(10) // Very small, should use minimum

	assert.Equal(t, 10, input.Width())
	// Internal textinput width should be at least 20
}

func TestFilterInput_Width(t *testing.T) {
	input := NewFilterInput(nil)

	assert.Equal(t, 50, input.Width()) // Default width
}

func TestFilterInput_Reset(t *testing.T) {
	input := NewFilterInput(nil)
	input.SetValue("some text")

	input.Reset()

	assert.Equal(t, "", input.Value())
}

func TestFilterInput_Update_MultipleKeys(t *testing.T) {
	input := NewFilterInput(nil)
	input.Focus()

	keys := []rune{'a', 'c', 'm', 'e'}
	for _, k := range keys {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{k}}
		input.Update(msg)
	}

	assert.Equal(t, "acme", input.Value())
}

func TestFilterInput_Update_Backspace(t *testing.T) {
	input := NewFilterInput(nil)
	input.Focus()
	input.SetValue("test")

	msg := tea.KeyMsg{Type: tea.KeyBackspace}
	input.Update(msg)

	assert.Equal(t, "tes", input.Value())
}
