package extractor

import (
	"strings"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

// Weights are the named scores feeding region classification.
// The defaults are heuristic tuning values carried over from observing
// real client workbooks; they are configurable, not invariants.
type Weights struct {
	// RawBaseline is the fallback score every region starts with. The
	// raw hypothesis wins whenever nothing else scores above it.
	RawBaseline float64

	// BoldLabelBonus is added to both the table and complex-header
	// scores when the section label cell is bold.
	BoldLabelBonus float64

	// MergedHeaderBonus is added to the complex-header score when a
	// multi-cell merge lies within the first three body rows. This is
	// the dominant signal for stacked headers.
	MergedHeaderBonus float64

	// KeyValueBase is added when at most two columns hold values.
	KeyValueBase float64

	// KeyValueStringScale multiplies the fraction of body rows whose
	// first column holds a string label.
	KeyValueStringScale float64

	// TableMultiColumnBonus is added when more than two columns hold
	// values.
	TableMultiColumnBonus float64

	// TableHeaderRowBonus is added when the first body row looks like a
	// header row per HeaderStringThreshold.
	TableHeaderRowBonus float64

	// HeaderStringThreshold is the minimum fraction of the first body
	// row's non-empty cells that must be strings to count as header-like.
	HeaderStringThreshold float64
}

// DefaultWeights returns the reference classification weights.
func DefaultWeights() Weights {
	return Weights{
		RawBaseline:           0.5,
		BoldLabelBonus:        0.2,
		MergedHeaderBonus:     0.8,
		KeyValueBase:          0.3,
		KeyValueStringScale:   0.7,
		TableMultiColumnBonus: 0.5,
		TableHeaderRowBonus:   0.3,
		HeaderStringThreshold: 0.8,
	}
}

// maxKeyValueColumns is the widest a region can be and still read as a
// label/value block.
const maxKeyValueColumns = 2

// headerProbeRows is how many leading body rows are inspected for
// merged header cells.
const headerProbeRows = 3

// tiePriority orders the hypotheses for deterministic tie resolution.
// The more specific shape wins a tied score.
var tiePriority = []domain.SectionType{
	domain.SectionComplexHeader,
	domain.SectionTable,
	domain.SectionKeyValue,
	domain.SectionRaw,
}

// classification is the classifier's verdict for one region.
type classification struct {
	sectionType domain.SectionType
	label       string
	confidence  float64

	// bodyStart is the first data-body row; one past the region start
	// when a label row was lifted.
	bodyStart int
}

// classify scores a candidate region against the four shape hypotheses
// and returns the winner. Regions too short to distinguish shapes are
// raw with full confidence.
func classify(region domain.Bounds, grid *domain.Grid, merges []domain.MergeRange, styles *styleCache, w Weights) classification {
	if region.RowCount() < 2 {
		return classification{
			sectionType: domain.SectionRaw,
			confidence:  1.0,
			bodyStart:   region.StartRow,
		}
	}

	label, labelCol := extractLabel(region, grid)
	bodyStart := region.StartRow
	if label != "" {
		bodyStart++
	}

	if region.EndRow-bodyStart+1 < 2 {
		return classification{
			sectionType: domain.SectionRaw,
			label:       label,
			confidence:  1.0,
			bodyStart:   bodyStart,
		}
	}

	scores := map[domain.SectionType]float64{
		domain.SectionKeyValue:      0,
		domain.SectionTable:         0,
		domain.SectionComplexHeader: 0,
		domain.SectionRaw:           w.RawBaseline,
	}

	// A bold label slightly favours the tabular hypotheses.
	if label != "" && styles.Bold(region.StartRow, labelCol) {
		scores[domain.SectionTable] += w.BoldLabelBonus
		scores[domain.SectionComplexHeader] += w.BoldLabelBonus
	}

	// A merge spanning multiple cells inside the header area is the
	// strongest evidence of a stacked header.
	if hasHeaderMerge(merges, bodyStart, region.EndRow) {
		scores[domain.SectionComplexHeader] += w.MergedHeaderBonus
	}

	occupied := occupiedColumns(grid, bodyStart, region.EndRow)
	if occupied <= maxKeyValueColumns {
		scores[domain.SectionKeyValue] += w.KeyValueBase + labelColumnRatio(grid, bodyStart, region.EndRow)*w.KeyValueStringScale
	} else {
		scores[domain.SectionTable] += w.TableMultiColumnBonus
	}

	if headerRowStringRatio(grid, bodyStart) >= w.HeaderStringThreshold {
		scores[domain.SectionTable] += w.TableHeaderRowBonus
	}

	winner, score := pickWinner(scores)

	return classification{
		sectionType: winner,
		label:       label,
		confidence:  clamp01(score),
		bodyStart:   bodyStart,
	}
}

// extractLabel lifts a section label from the region's first row when
// that row holds exactly one non-blank cell and it is a string.
// Returns the trimmed label and its column, or "" and 0.
func extractLabel(region domain.Bounds, grid *domain.Grid) (string, int) {
	count := 0
	col := 0
	var found domain.CellValue

	for c := region.StartCol; c <= region.EndCol; c++ {
		cell := grid.Value(region.StartRow, c)
		if !cell.IsBlank() {
			count++
			col = c
			found = cell
		}
	}

	if count == 1 && found.IsString() {
		return strings.TrimSpace(found.Str), col
	}
	return "", 0
}

// hasHeaderMerge reports whether any multi-cell merge lies within the
// first headerProbeRows rows of the data body.
func hasHeaderMerge(merges []domain.MergeRange, bodyStart, endRow int) bool {
	probeEnd := bodyStart + headerProbeRows - 1
	if probeEnd > endRow {
		probeEnd = endRow
	}
	for _, m := range merges {
		if m.SpansMultiple() && m.MinRow >= bodyStart && m.MaxRow <= probeEnd {
			return true
		}
	}
	return false
}

// occupiedColumns counts the columns holding at least one non-blank
// value within the row span.
func occupiedColumns(grid *domain.Grid, startRow, endRow int) int {
	count := 0
	for col := 1; col <= grid.MaxCol; col++ {
		for row := startRow; row <= endRow; row++ {
			if !grid.Value(row, col).IsBlank() {
				count++
				break
			}
		}
	}
	return count
}

// labelColumnRatio returns the fraction of body rows whose first column
// holds a string, the signature of a label/value layout.
func labelColumnRatio(grid *domain.Grid, startRow, endRow int) float64 {
	rows := endRow - startRow + 1
	if rows <= 0 {
		return 0
	}
	strings := 0
	for row := startRow; row <= endRow; row++ {
		if grid.Value(row, 1).IsString() {
			strings++
		}
	}
	return float64(strings) / float64(rows)
}

// headerRowStringRatio returns the fraction of the row's non-blank cells
// that are strings. A fully blank row yields zero.
func headerRowStringRatio(grid *domain.Grid, row int) float64 {
	nonBlank := 0
	strs := 0
	for col := 1; col <= grid.MaxCol; col++ {
		v := grid.Value(row, col)
		if v.IsBlank() {
			continue
		}
		nonBlank++
		if v.IsString() {
			strs++
		}
	}
	if nonBlank == 0 {
		return 0
	}
	return float64(strs) / float64(nonBlank)
}

// pickWinner returns the highest-scoring hypothesis. Ties resolve in
// tiePriority order.
func pickWinner(scores map[domain.SectionType]float64) (domain.SectionType, float64) {
	winner := domain.SectionRaw
	best := -1.0
	for _, st := range tiePriority {
		if s := scores[st]; s > best {
			winner = st
			best = s
		}
	}
	return winner, best
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
