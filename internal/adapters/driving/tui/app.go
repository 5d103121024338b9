package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/messages"
	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/styles"
	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/views/clusters"
	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/views/doccontent"
	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/views/docdetails"
	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/views/documents"
	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/views/menu"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// menuView is the main navigation menu.
	menuView *menu.View

	// documentsView is the filterable document list.
	documentsView *documents.View

	// docContentView shows a document's extracted structure.
	docContentView *doccontent.View

	// docDetailsView shows a document's metadata.
	docDetailsView *docdetails.View

	// clustersView is the pattern cluster browser.
	clustersView *clusters.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()

	return &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		menuView:       menu.NewView(s),
		documentsView:  documents.NewView(s, ports.Search, ports.Document),
		docContentView: doccontent.NewView(s, ports.Document),
		docDetailsView: docdetails.NewView(s),
		clustersView:   clusters.NewView(s, ports.Cluster),
		currentView:    messages.ViewMenu, // Start with menu
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.documentsView.WithContext(ctx)
	a.docContentView.WithContext(ctx)
	a.clustersView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("spexplorer - Spreadsheet Structure Explorer"),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// Forward to all views for proper sizing
		a.menuView.SetDimensions(msg.Width, msg.Height)
		a.documentsView.SetDimensions(msg.Width, msg.Height)
		a.docContentView.SetDimensions(msg.Width, msg.Height)
		a.docDetailsView.SetDimensions(msg.Width, msg.Height)
		a.clustersView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		if a.currentView == messages.ViewHelp {
			// Esc from help goes to menu
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
				return a, nil
			}
			return a, nil
		}

		return a, a.forward(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		// Initialise views when switching to them
		switch msg.View {
		case messages.ViewDocuments:
			a.documentsView.Reset()
			return a, a.documentsView.Init()
		case messages.ViewClusters:
			return a, a.clustersView.Init()
		case messages.ViewMenu, messages.ViewDocContent,
			messages.ViewDocDetails, messages.ViewHelp:
			// Other views don't need special initialisation
		}
		return a, nil

	case messages.DocumentSelected:
		// Navigate from documents to the structure view
		a.currentView = messages.ViewDocContent
		return a, a.docContentView.SetDocument(msg.DocumentID)

	case messages.DocumentDetailsLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.docDetailsView.SetRecord(msg.Record)
		a.currentView = messages.ViewDocDetails
		return a, nil

	case messages.SearchCompleted, messages.DocumentExcluded:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.DocumentLoaded:
		a.docContentView, cmd = a.docContentView.Update(msg)
		return a, cmd

	case messages.ClustersLoaded:
		a.clustersView, cmd = a.clustersView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.forward(msg)

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages to the active view
	return a, a.forward(msg)
}

// forward routes a message to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewDocContent:
		a.docContentView, cmd = a.docContentView.Update(msg)
	case messages.ViewDocDetails:
		a.docDetailsView, cmd = a.docDetailsView.Update(msg)
	case messages.ViewClusters:
		a.clustersView, cmd = a.clustersView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't handle messages
	}

	return cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewDocContent:
		return a.docContentView.View()
	case messages.ViewDocDetails:
		return a.docDetailsView.View()
	case messages.ViewClusters:
		return a.clustersView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Documents:
  /           Filter the list
  enter       Open the action menu
  r           Reload
  esc         Back to Menu

Structure / Details:
  j/k, ↑/↓    Scroll
  esc         Back to Documents

Clusters:
  j/k, ↑/↓    Navigate clusters
  r           Reload
  esc         Back to Menu

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.documentsView.SetDimensions(width, height)
}
