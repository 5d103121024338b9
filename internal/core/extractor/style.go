package extractor

import (
	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driven"
)

// styleCache memoises style lookups for one sheet parse.
// Style resolution is the reader's most expensive call and the
// classifier probes the same label cells repeatedly. The cache is owned
// by exactly one parse invocation and discarded with it, so concurrent
// parses never share style state.
type styleCache struct {
	sheet  driven.SheetData
	styles map[domain.Coord]domain.CellStyle
}

func newStyleCache(sheet driven.SheetData) *styleCache {
	return &styleCache{
		sheet:  sheet,
		styles: make(map[domain.Coord]domain.CellStyle),
	}
}

// Style returns the formatting at (row, col), querying the reader on
// first access and the cache afterwards.
func (c *styleCache) Style(row, col int) domain.CellStyle {
	key := domain.Coord{Row: row, Col: col}
	if s, ok := c.styles[key]; ok {
		return s
	}
	s := c.sheet.Style(row, col)
	c.styles[key] = s
	return s
}

// Bold reports whether the cell at (row, col) uses a bold font.
func (c *styleCache) Bold(row, col int) bool {
	return c.Style(row, col).Bold
}
