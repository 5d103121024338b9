package domain

// Grid is the resolved logical view of one sheet.
// After merge propagation every coordinate in [1..MaxRow]×[1..MaxCol]
// yields a defined value. Indices are 1-based throughout.
type Grid struct {
	// MaxRow is the highest populated row index.
	MaxRow int

	// MaxCol is the highest populated column index.
	MaxCol int

	cells map[Coord]CellValue
}

// Coord addresses a single cell. Row and Col are 1-based.
type Coord struct {
	Row int
	Col int
}

// NewGrid returns an empty grid with the given extents.
func NewGrid(maxRow, maxCol int) *Grid {
	return &Grid{
		MaxRow: maxRow,
		MaxCol: maxCol,
		cells:  make(map[Coord]CellValue),
	}
}

// Set stores a value at (row, col).
func (g *Grid) Set(row, col int, v CellValue) {
	g.cells[Coord{Row: row, Col: col}] = v
}

// Value returns the resolved value at (row, col).
// Coordinates never stored resolve to the empty value, so every
// coordinate inside the declared extents is defined.
func (g *Grid) Value(row, col int) CellValue {
	if v, ok := g.cells[Coord{Row: row, Col: col}]; ok {
		return v
	}
	return CellValue{Kind: KindEmpty}
}

// RowIsBlank reports whether every cell in the row is blank.
func (g *Grid) RowIsBlank(row int) bool {
	for col := 1; col <= g.MaxCol; col++ {
		if !g.Value(row, col).IsBlank() {
			return false
		}
	}
	return true
}

// MergeRange is a rectangular cell group sharing one logical value,
// anchored at its top-left cell. Ranges within one sheet never overlap.
type MergeRange struct {
	MinRow int
	MaxRow int
	MinCol int
	MaxCol int
}

// Contains reports whether (row, col) falls inside the range.
func (m MergeRange) Contains(row, col int) bool {
	return row >= m.MinRow && row <= m.MaxRow && col >= m.MinCol && col <= m.MaxCol
}

// SpansMultiple reports whether the range covers more than one cell
// in either direction. Single-cell merges carry no structural signal.
func (m MergeRange) SpansMultiple() bool {
	return m.MaxRow > m.MinRow || m.MaxCol > m.MinCol
}

// CellStyle carries the formatting attributes the classifier consults.
// Styles are advisory: a reader that cannot resolve them returns the
// zero value and classification degrades gracefully.
type CellStyle struct {
	// Bold is true when the cell font is bold.
	Bold bool

	// FillColor is the background fill as a hex string, empty when unfilled.
	FillColor string

	// HasBorder is true when any border edge is set.
	HasBorder bool

	// Alignment is the horizontal alignment name, empty when default.
	Alignment string
}
