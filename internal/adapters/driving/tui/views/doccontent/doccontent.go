// Package doccontent renders a stored document's extracted structure:
// every sheet, its classified sections, and a preview of each payload.
package doccontent

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/messages"
	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui/styles"
	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driving"
)

// previewFields caps how many fields a section preview lists.
const previewFields = 8

// View is the document structure view.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService
	ctx             context.Context

	documentID   string
	record       *domain.DocumentRecord
	lines        []string
	scrollOffset int
	width        int
	height       int
	loading      bool
	err          error
}

// NewView creates a new document structure view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		documentService: documentService,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetDocument selects the document and starts loading its record.
func (v *View) SetDocument(documentID string) tea.Cmd {
	v.documentID = documentID
	v.record = nil
	v.lines = nil
	v.scrollOffset = 0
	v.err = nil
	v.loading = true
	return v.loadRecord()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// loadRecord returns a command that fetches the full record.
func (v *View) loadRecord() tea.Cmd {
	ctx := v.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	documentID := v.documentID

	return func() tea.Msg {
		if documentID == "" {
			return messages.DocumentLoaded{Err: fmt.Errorf("no document selected")}
		}
		record, err := v.documentService.Get(ctx, documentID)
		return messages.DocumentLoaded{DocumentID: documentID, Record: record, Err: err}
	}
}

// Update handles messages for the structure view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.record = msg.Record
		v.lines = v.buildOutline()
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
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "pgup", "ctrl+u":
		v.scrollOffset -= v.visibleLines()
		if v.scrollOffset < 0 {
			v.scrollOffset = 0
		}
	case "pgdown", "ctrl+d":
		maxOffset := v.maxScrollOffset()
		v.scrollOffset += v.visibleLines()
		if v.scrollOffset > maxOffset {
			v.scrollOffset = maxOffset
		}
	case "home", "g":
		v.scrollOffset = 0
	case "end", "G":
		v.scrollOffset = v.maxScrollOffset()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDocuments}
		}
	case "q":
		return v, tea.Quit
	}

	return v, nil
}

// buildOutline flattens the record into display lines.
func (v *View) buildOutline() []string {
	if v.record == nil {
		return nil
	}

	doc := v.record.Document
	lines := make([]string, 0, 16)

	lines = append(lines, fmt.Sprintf("Status: %s", doc.Status))
	if doc.ErrorMessage != "" {
		lines = append(lines, "Error: "+doc.ErrorMessage)
	}
	lines = append(lines, "Fingerprint: "+doc.Fingerprint)
	for _, w := range doc.Warnings {
		lines = append(lines, "Warning: "+w)
	}
	lines = append(lines, "")

	for _, sheet := range doc.Sheets {
		lines = append(lines, fmt.Sprintf("Sheet %q (%d sections)", sheet.Name, len(sheet.Sections)))
		for i := range sheet.Sections {
			lines = append(lines, v.sectionLines(&sheet.Sections[i])...)
		}
		lines = append(lines, "")
	}

	return lines
}

// sectionLines renders one section's header line and payload preview.
func (v *View) sectionLines(sec *domain.Section) []string {
	head := fmt.Sprintf("  [%s] rows %d-%d (%.2f)",
		sec.Type, sec.Bounds.StartRow, sec.Bounds.EndRow, sec.Confidence)
	if sec.Header != "" {
		head += " " + sec.Header
	}
	lines := []string{head}

	switch sec.Type {
	case domain.SectionKeyValue:
		if sec.KeyValue != nil && sec.KeyValue.Data != nil {
			for i, key := range sec.KeyValue.Data.Keys() {
				if i == previewFields {
					lines = append(lines, fmt.Sprintf("    ... %d more", sec.KeyValue.Data.Len()-previewFields))
					break
				}
				value, _ := sec.KeyValue.Data.Get(key)
				lines = append(lines, fmt.Sprintf("    %s = %v", key, value))
			}
		}
	case domain.SectionTable:
		if sec.Table != nil {
			lines = append(lines, "    columns: "+previewList(sec.Table.Headers))
			lines = append(lines, fmt.Sprintf("    %d rows", len(sec.Table.Rows)))
		}
	case domain.SectionComplexHeader:
		if sec.ComplexHeader != nil {
			lines = append(lines, fmt.Sprintf("    %d header levels", sec.ComplexHeader.HeaderLevels))
			lines = append(lines, "    columns: "+previewList(sec.ComplexHeader.FinalColumns))
			lines = append(lines, fmt.Sprintf("    %d rows", len(sec.ComplexHeader.Rows)))
		}
	case domain.SectionRaw:
		if sec.Raw != nil {
			cols := 0
			if len(sec.Raw.Matrix) > 0 {
				cols = len(sec.Raw.Matrix[0])
			}
			lines = append(lines, fmt.Sprintf("    %dx%d matrix", len(sec.Raw.Matrix), cols))
		}
	}

	return lines
}

// previewList joins up to previewFields names, eliding the rest.
func previewList(names []string) string {
	if len(names) <= previewFields {
		return strings.Join(names, ", ")
	}
	return strings.Join(names[:previewFields], ", ") +
		fmt.Sprintf(", ... %d more", len(names)-previewFields)
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
	maxOffset := len(v.lines) - v.visibleLines()
	if maxOffset < 0 {
		maxOffset = 0
	}
	return maxOffset
}

// View renders the structure view.
func (v *View) View() string {
	var b strings.Builder

	title := "Document Structure"
	if v.documentID != "" {
		title = v.documentID
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", minInt(v.width-4, 60)))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading document..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.lines) == 0:
		b.WriteString(v.styles.Muted.Render("(No structure)"))
	default:
		visible := v.visibleLines()
		for i := v.scrollOffset; i < len(v.lines) && i < v.scrollOffset+visible; i++ {
			b.WriteString(v.styles.Normal.Render(v.lines[i]))
			b.WriteString("\n")
		}
		if len(v.lines) > visible {
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  Line %d-%d of %d",
				v.scrollOffset+1,
				minInt(v.scrollOffset+visible, len(v.lines)),
				len(v.lines))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Record returns the loaded record.
func (v *View) Record() *domain.DocumentRecord {
	return v.record
}

// Lines returns the rendered outline lines.
func (v *View) Lines() []string {
	return v.lines
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
