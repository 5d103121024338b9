// Package clusters provides the pattern cluster browser for the TUI.
// It lists clusters largest-first and shows the structural summary of
// the selected cluster.
package clusters

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/messages"
	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/styles"
	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driving"
)

// fingerprintWidth is how many fingerprint characters the list shows.
const fingerprintWidth = 12

// View is the pattern cluster browser.
type View struct {
	styles         *styles.Styles
	clusterService driving.ClusterService
	ctx            context.Context

	clusters []domain.PatternCluster
	selected int
	width    int
	height   int
	loading  bool
	err      error
}

// NewView creates a new cluster browser view.
func NewView(s *styles.Styles, clusterService driving.ClusterService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:         s,
		clusterService: clusterService,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the cluster list.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.selected = 0
	return v.loadClusters()
}

// loadClusters returns a command that fetches all clusters.
func (v *View) loadClusters() tea.Cmd {
	ctx := v.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	return func() tea.Msg {
		if v.clusterService == nil {
			return messages.ClustersLoaded{Err: fmt.Errorf("cluster service not available")}
		}
		clusters, err := v.clusterService.List(ctx)
		return messages.ClustersLoaded{Clusters: clusters, Err: err}
	}
}

// Update handles messages for the cluster browser.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ClustersLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.clusters = msg.Clusters
		if v.selected >= len(v.clusters) {
			v.selected = 0
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.clusters)-1 {
			v.selected++
		}
	case "r":
		v.loading = true
		return v, v.loadClusters()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "q":
		return v, tea.Quit
	}

	return v, nil
}

// View renders the cluster browser.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Pattern Clusters"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading clusters..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.clusters) == 0:
		b.WriteString(v.styles.Muted.Render("No clusters yet. Run 'spexplorer clusters rebuild' first."))
	default:
		b.WriteString(v.renderList())
		b.WriteString("\n")
		b.WriteString(v.renderSummary())
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [r] reload  [esc] back"))

	return b.String()
}

// renderList renders one line per cluster.
func (v *View) renderList() string {
	var b strings.Builder

	for i := range v.clusters {
		c := &v.clusters[i]
		cursor := "  "
		style := v.styles.Normal
		if i == v.selected {
			cursor = "> "
			style = v.styles.Selected
		}

		fp := c.Fingerprint
		if len(fp) > fingerprintWidth {
			fp = fp[:fingerprintWidth]
		}
		line := fmt.Sprintf("%-12s %4d docs  %s", c.Name, c.DocumentCount, fp)
		b.WriteString(cursor + style.Render(line) + "\n")
	}

	return b.String()
}

// renderSummary renders the selected cluster's structural summary.
func (v *View) renderSummary() string {
	if v.selected < 0 || v.selected >= len(v.clusters) {
		return ""
	}
	c := &v.clusters[v.selected]

	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render(c.Name) + "\n")

	if len(c.Summary.SheetNames) > 0 {
		b.WriteString(v.styles.Muted.Render("Sheets: ") +
			strings.Join(c.Summary.SheetNames, ", ") + "\n")
	}
	if len(c.Summary.SectionTypes) > 0 {
		types := make([]string, 0, len(c.Summary.SectionTypes))
		for st, n := range c.Summary.SectionTypes {
			types = append(types, fmt.Sprintf("%s:%d", st, n))
		}
		sort.Strings(types)
		b.WriteString(v.styles.Muted.Render("Sections: ") +
			strings.Join(types, "  ") + "\n")
	}
	if len(c.Summary.CommonFields) > 0 {
		b.WriteString(v.styles.Muted.Render("Fields: ") +
			strings.Join(c.Summary.CommonFields, ", ") + "\n")
	}
	if len(c.ExampleIDs) > 0 {
		b.WriteString(v.styles.Muted.Render("Examples: ") +
			strings.Join(c.ExampleIDs, ", ") + "\n")
	}

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Clusters returns the loaded cluster list.
func (v *View) Clusters() []domain.PatternCluster {
	return v.clusters
}

// Selected returns the selected cluster index.
func (v *View) Selected() int {
	return v.selected
}

// SelectedCluster returns the selected cluster, or nil if none.
func (v *View) SelectedCluster() *domain.PatternCluster {
	if v.selected < 0 || v.selected >= len(v.clusters) {
		return nil
	}
	return &v.clusters[v.selected]
}

// Loading returns whether a fetch is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
