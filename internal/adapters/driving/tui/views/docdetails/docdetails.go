// Package docdetails shows a stored document's metadata: file selection
// details, processing outcome, and index bookkeeping.
package docdetails

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/messages"
	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/styles"
	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

// View is the document details view.
type View struct {
	styles *styles.Styles

	record       *domain.DocumentRecord
	scrollOffset int
	width        int
	height       int
	err          error
}

// NewView creates a new document details view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
	}
}

// SetRecord sets the record to display.
func (v *View) SetRecord(record *domain.DocumentRecord) {
	v.record = record
	v.scrollOffset = 0
	v.err = nil
}

// SetError sets an error to display.
func (v *View) SetError(err error) {
	v.err = err
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the details view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

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
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDocuments}
		}
	case "q":
		return v, tea.Quit
	}

	return v, nil
}

// visibleLines returns the number of lines that can be displayed.
func (v *View) visibleLines() int {
	// Reserve lines for title, separator, help, and padding
	reserved := 6
	available := v.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// maxScrollOffset returns the maximum scroll offset.
func (v *View) maxScrollOffset() int {
	maxOffset := len(v.buildContent()) - v.visibleLines()
	if maxOffset < 0 {
		maxOffset = 0
	}
	return maxOffset
}

// buildContent builds the content lines for display.
func (v *View) buildContent() []string {
	if v.record == nil {
		return nil
	}

	rec := v.record
	lines := make([]string, 0, 20)

	lines = append(lines, "ID: "+rec.ID)
	if rec.SourceID != "" {
		lines = append(lines, "Source: "+rec.SourceID)
	}
	lines = append(lines, "")
	lines = append(lines, "File: "+rec.File.Path)
	if rec.File.Country != "" {
		lines = append(lines, "Country: "+rec.File.Country)
	}
	if rec.File.Client != "" {
		lines = append(lines, "Client: "+rec.File.Client)
	}
	if rec.File.Product != "" {
		lines = append(lines, "Product: "+rec.File.Product)
	}
	if rec.File.ExtractedDate != nil {
		lines = append(lines, "File date: "+rec.File.ExtractedDate.Format("2006-01-02"))
	}
	if rec.File.FormVariant != "" {
		lines = append(lines, "Variant: "+rec.File.FormVariant)
	}
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("Status: %s", rec.Document.Status))
	if rec.Document.ErrorMessage != "" {
		lines = append(lines, "Error: "+rec.Document.ErrorMessage)
	}
	lines = append(lines, fmt.Sprintf("Sheets: %d", len(rec.Document.Sheets)))
	lines = append(lines, fmt.Sprintf("Sections: %d", rec.Document.SectionCount()))
	lines = append(lines, "Fingerprint: "+rec.Document.Fingerprint)
	if rec.ClusterID != nil {
		lines = append(lines, fmt.Sprintf("Cluster: %d", *rec.ClusterID))
	}
	if !rec.ProcessedAt.IsZero() {
		lines = append(lines, "Processed: "+rec.ProcessedAt.Format("2006-01-02 15:04:05"))
	}
	for _, w := range rec.Document.Warnings {
		lines = append(lines, "Warning: "+w)
	}

	return lines
}

// View renders the details view.
func (v *View) View() string {
	var b strings.Builder

	title := "Document Details"
	if v.record != nil {
		title = v.record.ID
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", minInt(v.width-4, 60)))
	b.WriteString("\n\n")

	lines := v.buildContent()
	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(lines) == 0:
		b.WriteString(v.styles.Muted.Render("(No document selected)"))
	default:
		visible := v.visibleLines()
		for i := v.scrollOffset; i < len(lines) && i < v.scrollOffset+visible; i++ {
			b.WriteString(v.styles.Normal.Render(lines[i]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] scroll  [esc] back"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Record returns the displayed record.
func (v *View) Record() *domain.DocumentRecord {
	return v.record
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
