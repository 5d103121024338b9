// Package documents provides the document browser view for the TUI.
//
// The view combines a filter input, a navigable result list, and an
// action menu overlay for opening, inspecting, or excluding a document.
package documents

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/components/input"
	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/components/list"
	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/components/status"
	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/keymap"
	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/messages"
	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/styles"
	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driving"
)

// listLimit caps how many documents a single filter round-trip returns.
const listLimit = 200

// ActionOption identifies an entry in the action menu overlay.
type ActionOption int

const (
	// ActionShowStructure opens the structural outline of the document.
	ActionShowStructure ActionOption = iota
	// ActionShowDetails opens the document metadata pane.
	ActionShowDetails
	// ActionExclude removes the document from the index.
	ActionExclude
	// ActionCancel dismisses the menu.
	ActionCancel
)

// View is the document browser view.
type View struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	input           *input.FilterInput
	list            *list.ResultList
	statusBar       *status.StatusBar
	searchService   driving.SearchService
	documentService driving.DocumentService
	ctx             context.Context
	width           int
	height          int
	loading         bool
	focusInput      bool
	showingMenu     bool
	menuSelected    int
	err             error
}

// NewView creates a new document browser view.
func NewView(s *styles.Styles, searchService driving.SearchService, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:          s,
		keymap:          keymap.DefaultKeyMap(),
		input:           input.NewFilterInput(s),
		list:            list.NewResultList(s),
		statusBar:       status.NewStatusBar(s),
		searchService:   searchService,
		documentService: documentService,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the initial document list.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.statusBar.Set(status.StateLoading, "")
	return tea.Batch(v.input.Init(), v.loadDocuments())
}

// Update handles messages for the document browser.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)
	case messages.SearchCompleted:
		return v.handleSearchCompleted(msg)
	case messages.DocumentExcluded:
		return v.handleExcluded(msg)
	}

	if v.focusInput {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	return v, nil
}

// handleKey routes keys based on which part of the view has focus.
func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.showingMenu {
		return v.handleMenuKey(msg)
	}
	if v.focusInput {
		return v.handleFilterKey(msg)
	}
	return v.handleListKey(msg)
}

// handleFilterKey handles keys while the filter input is focused.
func (v *View) handleFilterKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.focusInput = false
		v.input.Blur()
		return v, nil
	case "enter":
		v.focusInput = false
		v.input.Blur()
		v.loading = true
		v.statusBar.Set(status.StateLoading, "")
		return v, v.loadDocuments()
	default:
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
}

// handleListKey handles keys while the list has focus.
func (v *View) handleListKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "/":
		v.focusInput = true
		return v, v.input.Focus()
	case "up", "k":
		v.list.MoveUp()
	case "down", "j":
		v.list.MoveDown()
	case "enter":
		if !v.list.IsEmpty() {
			v.showingMenu = true
			v.menuSelected = 0
		}
	case "r":
		v.loading = true
		v.statusBar.Set(status.StateLoading, "")
		return v, v.loadDocuments()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "q":
		return v, tea.Quit
	}
	return v, nil
}

// handleMenuKey handles keys while the action menu overlay is open.
func (v *View) handleMenuKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.menuSelected > 0 {
			v.menuSelected--
		}
	case "down", "j":
		if v.menuSelected < int(ActionCancel) {
			v.menuSelected++
		}
	case "esc":
		v.showingMenu = false
	case "enter":
		return v.handleMenuSelect()
	}
	return v, nil
}

// handleMenuSelect executes the chosen action for the selected document.
func (v *View) handleMenuSelect() (*View, tea.Cmd) {
	v.showingMenu = false

	result := v.list.SelectedResult()
	if result == nil {
		return v, nil
	}

	switch ActionOption(v.menuSelected) {
	case ActionShowStructure:
		documentID := result.ID
		return v, func() tea.Msg {
			return messages.DocumentSelected{DocumentID: documentID}
		}
	case ActionShowDetails:
		return v, v.loadDetails(result.ID)
	case ActionExclude:
		return v, v.excludeDocument(result.ID)
	case ActionCancel:
		return v, nil
	}

	return v, nil
}

// loadDocuments fetches documents matching the current filter.
func (v *View) loadDocuments() tea.Cmd {
	ctx := v.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	query := v.input.Value()

	return func() tea.Msg {
		results, err := v.searchService.Search(ctx, domain.SearchFilter{
			Query: query,
			Limit: listLimit,
		})
		return messages.SearchCompleted{Results: results, Err: err}
	}
}

// loadDetails fetches the full record for the metadata pane.
func (v *View) loadDetails(documentID string) tea.Cmd {
	ctx := v.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	return func() tea.Msg {
		record, err := v.documentService.Get(ctx, documentID)
		return messages.DocumentDetailsLoaded{DocumentID: documentID, Record: record, Err: err}
	}
}

// excludeDocument removes the document from the index.
func (v *View) excludeDocument(documentID string) tea.Cmd {
	ctx := v.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	return func() tea.Msg {
		err := v.documentService.Exclude(ctx, documentID, "excluded from browser")
		return messages.DocumentExcluded{DocumentID: documentID, Err: err}
	}
}

// handleSearchCompleted applies filter results to the list.
func (v *View) handleSearchCompleted(msg messages.SearchCompleted) (*View, tea.Cmd) {
	v.loading = false

	if msg.Err != nil {
		v.err = msg.Err
		v.statusBar.Set(status.StateError, msg.Err.Error())
		return v, nil
	}

	v.err = nil
	v.list.SetResults(msg.Results)
	v.statusBar.Set(status.StateResults, "")
	v.statusBar.SetResultCount(len(msg.Results))
	return v, nil
}

// handleExcluded reloads the list after an exclusion.
func (v *View) handleExcluded(msg messages.DocumentExcluded) (*View, tea.Cmd) {
	if msg.Err != nil {
		v.err = msg.Err
		v.statusBar.Set(status.StateError, msg.Err.Error())
		return v, nil
	}

	v.statusBar.Set(status.StateReady, "Excluded "+msg.DocumentID)
	v.loading = true
	return v, v.loadDocuments()
}

// View renders the document browser.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Documents") + "\n\n")
	b.WriteString(v.input.View() + "\n\n")

	switch {
	case v.showingMenu:
		b.WriteString(v.renderActionMenu())
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	default:
		b.WriteString(v.list.View())
	}

	b.WriteString("\n\n")
	b.WriteString(v.statusBar.View())

	return b.String()
}

// renderActionMenu renders the overlay for the selected document.
func (v *View) renderActionMenu() string {
	result := v.list.SelectedResult()
	if result == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render(result.ID) + "\n\n")

	options := []string{"Show structure", "Show details", "Exclude document", "Cancel"}
	for i, option := range options {
		cursor := "  "
		style := v.styles.Normal
		if i == v.menuSelected {
			cursor = "> "
			style = v.styles.Selected
		}
		b.WriteString(cursor + style.Render(option) + "\n")
	}

	return b.String()
}

// Reset clears the filter, results, and overlay state.
func (v *View) Reset() {
	v.input.Reset()
	v.input.Blur()
	v.focusInput = false
	v.showingMenu = false
	v.menuSelected = 0
	v.loading = false
	v.err = nil
	v.list.SetResults(nil)
	v.statusBar.Clear()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)

	// Reserve rows for the title, input, and status bar
	listHeight := height - 8
	if listHeight < 4 {
		listHeight = 4
	}
	v.list.SetDimensions(width, listHeight)
	v.statusBar.SetWidth(width)
}

// Results returns the current document list.
func (v *View) Results() []domain.SearchResult {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected document.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// SelectedResult returns the selected document, or nil if none.
func (v *View) SelectedResult() *domain.SearchResult {
	return v.list.SelectedResult()
}

// FilterValue returns the current filter text.
func (v *View) FilterValue() string {
	return v.input.Value()
}

// InputFocused returns whether the filter input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// ShowingMenu returns whether the action menu overlay is open.
func (v *View) ShowingMenu() bool {
	return v.showingMenu
}

// MenuSelected returns the selected action menu index.
func (v *View) MenuSelected() int {
	return v.menuSelected
}

// Loading returns whether a fetch is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}
