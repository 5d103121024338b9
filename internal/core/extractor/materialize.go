package extractor

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

// maxHeaderLevels is how many leading body rows a complex-header
// section may consume as stacked header rows.
const maxHeaderLevels = 3

// materialize converts a classified region into its typed section.
// The payload is built from the data body; the full region bounds are
// kept for traceability.
func materialize(verdict classification, region domain.Bounds, grid *domain.Grid) domain.Section {
	section := domain.Section{
		Type:       verdict.sectionType,
		Header:     verdict.label,
		Bounds:     region,
		Confidence: verdict.confidence,
	}

	switch verdict.sectionType {
	case domain.SectionKeyValue:
		section.KeyValue = buildKeyValue(verdict.bodyStart, region, grid)
	case domain.SectionTable:
		section.Table = buildTable(verdict.bodyStart, region, grid)
	case domain.SectionComplexHeader:
		// A short body cannot spare rows for stacked headers; it
		// materializes as a flat table instead.
		if region.EndRow-verdict.bodyStart+1 < maxHeaderLevels {
			section.Type = domain.SectionTable
			section.Table = buildTable(verdict.bodyStart, region, grid)
		} else {
			section.ComplexHeader = buildComplexHeader(verdict.bodyStart, region, grid)
		}
	default:
		section.Raw = buildRaw(region, grid)
	}

	return section
}

// buildKeyValue reads the body as label/value pairs: column one
// normalised into a key, column two serialized as its value. Later
// duplicates overwrite earlier ones while keeping the first position.
func buildKeyValue(bodyStart int, region domain.Bounds, grid *domain.Grid) *domain.KeyValuePayload {
	data := domain.NewOrderedMap()

	if region.EndCol-region.StartCol+1 >= 2 {
		for row := bodyStart; row <= region.EndRow; row++ {
			keyCell := grid.Value(row, region.StartCol)
			if keyCell.IsBlank() {
				continue
			}
			key := normalizeKey(keyText(keyCell))
			if key == "" {
				continue
			}
			data.Set(key, grid.Value(row, region.StartCol+1).Serialize())
		}
	}

	return &domain.KeyValuePayload{Data: data}
}

// buildTable reads the first body row as the header row and every row
// below it as a record.
func buildTable(bodyStart int, region domain.Bounds, grid *domain.Grid) *domain.TablePayload {
	headers := make([]string, 0, region.EndCol-region.StartCol+1)
	for col := region.StartCol; col <= region.EndCol; col++ {
		headers = append(headers, headerName(grid.Value(bodyStart, col), col-region.StartCol))
	}

	return &domain.TablePayload{
		Headers: headers,
		Rows:    buildRecords(headers, bodyStart+1, region, grid),
	}
}

// buildComplexHeader flattens up to maxHeaderLevels leading body rows
// into compound column names, then reads the remaining rows as records.
// Merge propagation has already fanned each header anchor across its
// range, so per-column token deduplication recovers the hierarchy.
func buildComplexHeader(bodyStart int, region domain.Bounds, grid *domain.Grid) *domain.ComplexHeaderPayload {
	levels := maxHeaderLevels
	if bodyRows := region.EndRow - bodyStart + 1; bodyRows-1 < levels {
		levels = bodyRows - 1
	}

	finals := make([]string, 0, region.EndCol-region.StartCol+1)
	for col := region.StartCol; col <= region.EndCol; col++ {
		var parts []string
		for row := bodyStart; row < bodyStart+levels; row++ {
			cell := grid.Value(row, col)
			if cell.IsBlank() {
				continue
			}
			token := normalizeKey(keyText(cell))
			if token == "" || containsToken(parts, token) {
				continue
			}
			parts = append(parts, token)
		}
		if len(parts) == 0 {
			finals = append(finals, positionalName(col-region.StartCol))
			continue
		}
		finals = append(finals, strings.Join(parts, "_"))
	}

	return &domain.ComplexHeaderPayload{
		HeaderLevels: levels,
		FinalColumns: finals,
		Rows:         buildRecords(finals, bodyStart+levels, region, grid),
	}
}

// buildRaw serializes the whole region verbatim, the fallback shape
// that never loses data.
func buildRaw(region domain.Bounds, grid *domain.Grid) *domain.RawPayload {
	matrix := make([][]any, 0, region.RowCount())
	for row := region.StartRow; row <= region.EndRow; row++ {
		line := make([]any, 0, region.EndCol-region.StartCol+1)
		for col := region.StartCol; col <= region.EndCol; col++ {
			line = append(line, grid.Value(row, col).Serialize())
		}
		matrix = append(matrix, line)
	}
	return &domain.RawPayload{Matrix: matrix}
}

// buildRecords materializes the rows from startRow down as records
// keyed by the given column names. Rows whose values all serialize to
// nil are dropped; surviving records gain the row-number field.
func buildRecords(headers []string, startRow int, region domain.Bounds, grid *domain.Grid) []domain.Record {
	var rows []domain.Record

	for row := startRow; row <= region.EndRow; row++ {
		rec := make(domain.Record, len(headers)+1)
		for col := region.StartCol; col <= region.EndCol; col++ {
			rec[headers[col-region.StartCol]] = grid.Value(row, col).Serialize()
		}

		hasContent := false
		for _, v := range rec {
			if v != nil {
				hasContent = true
				break
			}
		}
		if !hasContent {
			continue
		}

		rec[domain.RowNumberField] = row
		rows = append(rows, rec)
	}

	return rows
}

// headerName normalises a header cell, falling back to a positional
// name when the cell is blank or normalises to nothing.
func headerName(v domain.CellValue, idx int) string {
	if v.IsBlank() {
		return positionalName(idx)
	}
	if name := normalizeKey(keyText(v)); name != "" {
		return name
	}
	return positionalName(idx)
}

// positionalName is the fallback column name for headerless columns.
// The index is zero-based.
func positionalName(idx int) string {
	return fmt.Sprintf("column_%d", idx)
}

// keyText renders a cell value as the text fed into key normalisation.
func keyText(v domain.CellValue) string {
	switch v.Kind {
	case domain.KindString:
		return v.Str
	case domain.KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case domain.KindBool:
		return strconv.FormatBool(v.Bool)
	case domain.KindDate:
		return v.Time.Format(time.RFC3339)
	default:
		return ""
	}
}

// normalizeKey canonicalises a key or header into an identifier-safe
// form: runs of whitespace and punctuation become single underscores,
// with no leading or trailing underscore left behind.
func normalizeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingUnderscore := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			pendingUnderscore = false
			continue
		}
		if !pendingUnderscore {
			b.WriteByte('_')
			pendingUnderscore = true
		}
	}

	return strings.Trim(b.String(), "_")
}

func containsToken(tokens []string, token string) bool {
	for _, t := range tokens {
		if t == token {
			return true
		}
	}
	return false
}
