// Package excelize implements the spreadsheet reader port on top of the
// excelize library. It decodes Office Open XML workbooks and exposes
// typed cell values, merge ranges and cell styles to the extraction
// engine.
package excelize

import (
	"bytes"
	"fmt"

	xlsx "github.com/xuri/excelize/v2"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.SpreadsheetReader = (*Reader)(nil)

// Reader decodes .xlsx workbooks. The zero value is ready to use; a
// single Reader is safe for concurrent use because every Open call
// returns an independent document handle.
type Reader struct{}

// NewReader creates a spreadsheet reader.
func NewReader() *Reader {
	return &Reader{}
}

// Open decodes the workbook at path.
func (r *Reader) Open(path string) (driven.SheetDocument, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDocumentUnreadable, path, err)
	}
	return &document{file: f}, nil
}

// OpenBytes decodes a workbook held in memory.
func (r *Reader) OpenBytes(content []byte) (driven.SheetDocument, error) {
	f, err := xlsx.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentUnreadable, err)
	}
	return &document{file: f}, nil
}

// document wraps one open workbook.
type document struct {
	file *xlsx.File
}

// SheetNames returns the worksheet names in workbook order.
func (d *document) SheetNames() []string {
	return d.file.GetSheetList()
}

// Sheet loads one worksheet. Cell values are snapshotted eagerly so
// later Value calls cannot fail; styles stay lazy because most cells
// are never probed.
func (d *document) Sheet(name string) (driven.SheetData, error) {
	formatted, err := d.file.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrSheetUnreadable, name, err)
	}
	raw, err := d.file.GetRows(name, xlsx.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrSheetUnreadable, name, err)
	}
	merges, err := mergeRanges(d.file, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrSheetUnreadable, name, err)
	}
	return newSheetData(d.file, name, formatted, raw, merges), nil
}

// Close releases the open workbook.
func (d *document) Close() error {
	return d.file.Close()
}

// mergeRanges reads a sheet's merged regions in grid coordinates.
func mergeRanges(file *xlsx.File, sheet string) ([]domain.MergeRange, error) {
	cells, err := file.GetMergeCells(sheet)
	if err != nil {
		return nil, err
	}

	ranges := make([]domain.MergeRange, 0, len(cells))
	for _, mc := range cells {
		startCol, startRow, err := xlsx.CellNameToCoordinates(mc.GetStartAxis())
		if err != nil {
			return nil, fmt.Errorf("merge range start %q: %w", mc.GetStartAxis(), err)
		}
		endCol, endRow, err := xlsx.CellNameToCoordinates(mc.GetEndAxis())
		if err != nil {
			return nil, fmt.Errorf("merge range end %q: %w", mc.GetEndAxis(), err)
		}
		ranges = append(ranges, domain.MergeRange{
			MinRow: min(startRow, endRow),
			MaxRow: max(startRow, endRow),
			MinCol: min(startCol, endCol),
			MaxCol: max(startCol, endCol),
		})
	}
	return ranges, nil
}
