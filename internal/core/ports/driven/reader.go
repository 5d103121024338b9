package driven

import "github.com/naveenbxyz/spexplorer/internal/core/domain"

// SpreadsheetReader opens spreadsheet sources for structural extraction.
// Implementations decode the underlying binary format; the extraction
// engine never touches bytes itself.
type SpreadsheetReader interface {
	// Open decodes a spreadsheet from a local path.
	// Returns domain.ErrDocumentUnreadable (wrapped) when the source
	// cannot be decoded at all.
	Open(path string) (SheetDocument, error)

	// OpenBytes decodes a spreadsheet from in-memory content.
	OpenBytes(content []byte) (SheetDocument, error)
}

// SheetDocument is read-only access to one open spreadsheet.
type SheetDocument interface {
	// SheetNames returns the worksheet names in file order.
	SheetNames() []string

	// Sheet returns the grid source for one worksheet.
	// Returns an error when that single sheet cannot be read; sibling
	// sheets remain readable.
	Sheet(name string) (SheetData, error)

	// Close releases resources held by the open file.
	Close() error
}

// SheetData exposes one worksheet's raw grid to the engine.
// Values are the physically stored, pre-merge cells; merged ranges are
// reported separately and resolved by the engine's grid builder.
type SheetData interface {
	// Extents returns the sheet's reported dimensions.
	// A completely empty sheet reports (0, 0).
	Extents() (maxRow, maxCol int)

	// Value returns the stored value at (row, col), 1-based.
	// Unpopulated coordinates and merged non-anchor cells return the
	// empty value.
	Value(row, col int) domain.CellValue

	// MergeRanges returns the sheet's merged cell ranges.
	MergeRanges() ([]domain.MergeRange, error)

	// Style returns the formatting attributes at (row, col).
	// Readers without style support return the zero value.
	Style(row, col int) domain.CellStyle
}
