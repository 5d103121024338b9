package excelize

import (
	"strconv"
	"strings"
	"time"

	xlsx "github.com/xuri/excelize/v2"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

// isoLayouts are the layouts ISO-typed date cells are stored in.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// sheetData serves one worksheet's cells to the engine. Formatted and
// raw row snapshots are taken when the sheet is opened; type and style
// resolution go back to the workbook on demand.
type sheetData struct {
	file      *xlsx.File
	name      string
	formatted [][]string
	raw       [][]string
	merges    []domain.MergeRange
	maxRow    int
	maxCol    int

	// dateStyles memoises which style indexes carry a date number format.
	dateStyles map[int]bool
}

func newSheetData(file *xlsx.File, name string, formatted, raw [][]string, merges []domain.MergeRange) *sheetData {
	s := &sheetData{
		file:       file,
		name:       name,
		formatted:  formatted,
		raw:        raw,
		merges:     merges,
		dateStyles: make(map[int]bool),
	}

	s.maxRow = len(formatted)
	for _, row := range formatted {
		if len(row) > s.maxCol {
			s.maxCol = len(row)
		}
	}

	// Merge ranges may extend past the last stored cell; the logical
	// sheet includes the full merged area.
	for _, m := range merges {
		if m.MaxRow > s.maxRow {
			s.maxRow = m.MaxRow
		}
		if m.MaxCol > s.maxCol {
			s.maxCol = m.MaxCol
		}
	}
	return s
}

// Extents returns the sheet dimensions. An empty sheet reports (0, 0).
func (s *sheetData) Extents() (int, int) {
	return s.maxRow, s.maxCol
}

// MergeRanges returns the sheet's merged cell ranges.
func (s *sheetData) MergeRanges() ([]domain.MergeRange, error) {
	return s.merges, nil
}

// Value resolves the typed value at (row, col). Numbers, booleans and
// dates keep their native types; everything else is text. Unpopulated
// coordinates and merged non-anchor cells resolve to the empty value.
func (s *sheetData) Value(row, col int) domain.CellValue {
	rawVal := cellAt(s.raw, row, col)
	fmtVal := cellAt(s.formatted, row, col)
	if rawVal == "" && fmtVal == "" {
		return domain.EmptyValue()
	}

	cell, err := xlsx.CoordinatesToCellName(col, row)
	if err != nil {
		return domain.StringValue(fmtVal)
	}
	cellType, err := s.file.GetCellType(s.name, cell)
	if err != nil {
		cellType = xlsx.CellTypeUnset
	}

	switch cellType {
	case xlsx.CellTypeBool:
		return domain.BoolValue(rawVal == "1" || strings.EqualFold(rawVal, "true"))
	case xlsx.CellTypeDate:
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, rawVal); err == nil {
				return domain.DateValue(t)
			}
		}
		return domain.StringValue(fmtVal)
	case xlsx.CellTypeSharedString, xlsx.CellTypeInlineString, xlsx.CellTypeFormula, xlsx.CellTypeError:
		return domain.StringValue(fmtVal)
	}

	// Untyped cells store numbers. A date number format marks the value
	// as a serial date rather than a plain number.
	if serial, err := strconv.ParseFloat(rawVal, 64); err == nil {
		if s.hasDateFormat(cell) {
			if t, err := xlsx.ExcelDateToTime(serial, false); err == nil {
				return domain.DateValue(t)
			}
		}
		return domain.NumberValue(serial)
	}
	return domain.StringValue(fmtVal)
}

// Style returns the formatting at (row, col). Cells without a
// resolvable style report the zero value.
func (s *sheetData) Style(row, col int) domain.CellStyle {
	cell, err := xlsx.CoordinatesToCellName(col, row)
	if err != nil {
		return domain.CellStyle{}
	}
	idx, err := s.file.GetCellStyle(s.name, cell)
	if err != nil {
		return domain.CellStyle{}
	}
	style, err := s.file.GetStyle(idx)
	if err != nil || style == nil {
		return domain.CellStyle{}
	}

	var out domain.CellStyle
	if style.Font != nil {
		out.Bold = style.Font.Bold
	}
	if style.Fill.Pattern > 0 && len(style.Fill.Color) > 0 {
		out.FillColor = style.Fill.Color[0]
	}
	for _, border := range style.Border {
		if border.Style > 0 {
			out.HasBorder = true
			break
		}
	}
	if style.Alignment != nil {
		out.Alignment = style.Alignment.Horizontal
	}
	return out
}

// hasDateFormat reports whether the cell's number format renders serial
// numbers as dates.
func (s *sheetData) hasDateFormat(cell string) bool {
	idx, err := s.file.GetCellStyle(s.name, cell)
	if err != nil {
		return false
	}
	if known, ok := s.dateStyles[idx]; ok {
		return known
	}

	style, err := s.file.GetStyle(idx)
	isDate := err == nil && style != nil && dateFormat(style)
	s.dateStyles[idx] = isDate
	return isDate
}

// dateFormat reports whether a style uses a date or time number format.
// Builtin formats 14-22, 27-36, 45-47 and 50-58 are the date and time
// families; custom formats count when they use date placeholders.
func dateFormat(style *xlsx.Style) bool {
	id := style.NumFmt
	if (id >= 14 && id <= 22) || (id >= 27 && id <= 36) ||
		(id >= 45 && id <= 47) || (id >= 50 && id <= 58) {
		return true
	}
	if style.CustomNumFmt == nil {
		return false
	}
	return hasDateToken(*style.CustomNumFmt)
}

// hasDateToken scans a custom number format for date or time
// placeholders, skipping quoted literals and bracketed sections.
func hasDateToken(format string) bool {
	inQuote := false
	for i := 0; i < len(format); i++ {
		switch c := format[i]; {
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '\\':
			i++
		case c == '[':
			for i < len(format) && format[i] != ']' {
				i++
			}
		case c == 'y' || c == 'm' || c == 'd' || c == 'h' || c == 's' ||
			c == 'Y' || c == 'M' || c == 'D' || c == 'H' || c == 'S':
			return true
		}
	}
	return false
}

// cellAt reads the stored string at 1-based (row, col) from a row
// snapshot, returning "" outside the stored area.
func cellAt(rows [][]string, row, col int) string {
	if row < 1 || row > len(rows) {
		return ""
	}
	cells := rows[row-1]
	if col < 1 || col > len(cells) {
		return ""
	}
	return cells[col-1]
}
