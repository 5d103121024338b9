// Package status provides the status bar component for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/keymap"
	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/styles"
)

// State represents the current status bar state.
type State string

const (
	// StateReady indicates the bar shows an idle message.
	StateReady State = "ready"
	// StateLoading indicates an operation is in flight.
	StateLoading State = "loading"
	// StateError indicates the bar shows an error message.
	StateError State = "error"
	// StateResults indicates the bar shows a document count.
	StateResults State = "results"
)

// StatusBar displays state and key hints at the bottom of the screen.
type StatusBar struct {
	state       State
	message     string
	resultCount int
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	width       int
}

// NewStatusBar creates a new status bar component.
func NewStatusBar(s *styles.Styles) *StatusBar {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &StatusBar{
		state:  StateReady,
		styles: s,
		keymap: keymap.DefaultKeyMap(),
		width:  80,
	}
}

// View renders the status bar.
func (s *StatusBar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)

	padding := s.width - leftWidth - rightWidth - 2
	if padding < 1 {
		padding = 1
	}

	bar := left + strings.Repeat(" ", padding) + right

	return s.styles.StatusBar.Width(s.width).Render(bar)
}

// renderLeft renders the state message.
func (s *StatusBar) renderLeft() string {
	switch s.state {
	case StateLoading:
		return s.styles.Warning.Render("Loading...")
	case StateError:
		return s.styles.Error.Render("Error: " + s.message)
	case StateResults:
		if s.resultCount == 0 {
			return s.styles.Muted.Render("No documents")
		}
		return s.styles.Success.Render(fmt.Sprintf("%d documents", s.resultCount))
	case StateReady:
		if s.message != "" {
			return s.styles.Normal.Render(s.message)
		}
		return s.styles.Muted.Render("Ready")
	default:
		return s.styles.Muted.Render("Ready")
	}
}

// renderRight renders the key hints for the current state.
func (s *StatusBar) renderRight() string {
	var bindings []key.Binding
	if s.state == StateResults && s.resultCount > 0 {
		bindings = s.keymap.ListHelp()
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("[%s] %s", h.Key, h.Desc))
	}

	return s.styles.Help.Render(strings.Join(hints, "  "))
}

// Set updates the state and message.
func (s *StatusBar) Set(state State, message string) {
	s.state = state
	s.message = message
}

// SetResultCount updates the document count shown in the results state.
func (s *StatusBar) SetResultCount(count int) {
	s.resultCount = count
}

// State returns the current state.
func (s *StatusBar) State() State {
	return s.state
}

// Message returns the current message.
func (s *StatusBar) Message() string {
	return s.message
}

// Clear resets the status bar to the ready state.
func (s *StatusBar) Clear() {
	s.state = StateReady
	s.message = ""
	s.resultCount = 0
}

// SetWidth sets the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *StatusBar) Width() int {
	return s.width
}
