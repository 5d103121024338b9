package domain

import "time"

// SectionType identifies the structural shape assigned to a region.
type SectionType string

const (
	// SectionKeyValue is a two-column label/value block.
	SectionKeyValue SectionType = "key_value"

	// SectionTable is a flat table with a single header row.
	SectionTable SectionType = "table"

	// SectionComplexHeader is a table whose column names are flattened
	// from stacked header rows.
	SectionComplexHeader SectionType = "complex_header"

	// SectionRaw is the fallback shape: an uninterpreted matrix.
	SectionRaw SectionType = "raw"
)

// RowNumberField is the synthetic field added to every table record,
// holding the 1-based grid row the record came from.
const RowNumberField = "_row_number"

// Bounds is a region's bounding box within its sheet, 1-based inclusive.
type Bounds struct {
	StartRow int `json:"start_row"`
	EndRow   int `json:"end_row"`
	StartCol int `json:"start_col"`
	EndCol   int `json:"end_col"`
}

// RowCount returns the number of rows the bounds cover.
func (b Bounds) RowCount() int {
	return b.EndRow - b.StartRow + 1
}

// Record is one materialized table row: column name to serialized value,
// plus the RowNumberField traceability entry.
type Record map[string]any

// KeyValuePayload holds a key-value section's ordered field map.
type KeyValuePayload struct {
	// Data maps normalised keys to serialized values in sheet order.
	Data *OrderedMap `json:"data"`
}

// TablePayload holds a flat table's headers and row records.
type TablePayload struct {
	// Headers are the normalised column names in sheet order.
	Headers []string `json:"headers"`

	// Rows are the data records keyed by header.
	Rows []Record `json:"rows"`
}

// ComplexHeaderPayload holds a table materialized under flattened
// multi-row headers.
type ComplexHeaderPayload struct {
	// HeaderLevels is how many leading rows were consumed as headers.
	HeaderLevels int `json:"header_levels"`

	// FinalColumns are the flattened compound column names.
	FinalColumns []string `json:"final_columns"`

	// Rows are the data records keyed by final column name.
	Rows []Record `json:"rows"`
}

// RawPayload holds an uninterpreted region matrix.
type RawPayload struct {
	// Matrix is every cell of the region, serialized, row by row.
	Matrix [][]any `json:"matrix"`
}

// Section is one classified region of a sheet.
// Exactly one payload pointer is non-nil, matching Type.
type Section struct {
	// Type is the winning shape hypothesis.
	Type SectionType `json:"section_type"`

	// Header is the section label lifted from a single-cell leading row,
	// empty when the region had none.
	Header string `json:"section_header,omitempty"`

	// Bounds is the region's bounding box in grid coordinates.
	Bounds Bounds `json:"bounds"`

	// Confidence is the classifier's score for Type, in [0,1].
	Confidence float64 `json:"confidence"`

	KeyValue      *KeyValuePayload      `json:"key_value,omitempty"`
	Table         *TablePayload         `json:"table,omitempty"`
	ComplexHeader *ComplexHeaderPayload `json:"complex_header,omitempty"`
	Raw           *RawPayload           `json:"raw,omitempty"`
}

// FieldNames returns the section's field identifiers: key-value keys or
// column names. Raw sections have none.
func (s *Section) FieldNames() []string {
	switch s.Type {
	case SectionKeyValue:
		if s.KeyValue != nil && s.KeyValue.Data != nil {
			return s.KeyValue.Data.Keys()
		}
	case SectionTable:
		if s.Table != nil {
			return s.Table.Headers
		}
	case SectionComplexHeader:
		if s.ComplexHeader != nil {
			return s.ComplexHeader.FinalColumns
		}
	}
	return nil
}

// Sheet is one parsed worksheet: a name and its ordered sections.
type Sheet struct {
	// Name is the worksheet name as reported by the file.
	Name string `json:"sheet_name"`

	// Sections are the classified regions in top-to-bottom order.
	Sections []Section `json:"sections"`
}

// ProcessingStatus is the document-level outcome of one parse.
type ProcessingStatus string

const (
	// StatusSuccess means the document was read and parsed, possibly
	// with per-sheet warnings.
	StatusSuccess ProcessingStatus = "success"

	// StatusFailed means the source could not be decoded at all.
	StatusFailed ProcessingStatus = "failed"
)

// Document is the engine's output for one source file.
// Callers always receive a Document value; partial or ambiguous
// structure surfaces as warnings, never as an error return.
type Document struct {
	// Sheets are the parsed worksheets in file order.
	Sheets []Sheet `json:"sheets"`

	// Status is success unless the source was unreadable.
	Status ProcessingStatus `json:"status"`

	// ErrorMessage captures the read failure when Status is failed.
	ErrorMessage string `json:"error,omitempty"`

	// Warnings lists non-fatal anomalies recorded during the parse.
	Warnings []string `json:"warnings,omitempty"`

	// Fingerprint is the value-independent structural signature.
	Fingerprint string `json:"pattern_signature"`
}

// Failed reports whether the source could not be read.
func (d *Document) Failed() bool {
	return d.Status == StatusFailed
}

// SectionCount returns the total number of sections across all sheets.
func (d *Document) SectionCount() int {
	n := 0
	for _, sh := range d.Sheets {
		n += len(sh.Sections)
	}
	return n
}

// DocumentRecord is a stored extraction result: the engine output plus
// the file selection metadata and index bookkeeping.
type DocumentRecord struct {
	// ID is the deterministic identifier derived from the file's
	// country/client/product path.
	ID string `json:"document_id"`

	// SourceID links to the Source the file came from, empty for
	// files processed directly from disk.
	SourceID string `json:"source_id,omitempty"`

	// File is the selection metadata for the source file.
	File FileRecord `json:"file_info"`

	// Document is the extraction result.
	Document Document `json:"document"`

	// ClusterID is the assigned pattern cluster, nil before clustering.
	ClusterID *int64 `json:"pattern_cluster_id,omitempty"`

	// ProcessedAt is when the extraction ran.
	ProcessedAt time.Time `json:"processed_at"`
}
