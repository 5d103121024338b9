package extractor

import (
	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driven"
)

// buildGrid resolves a sheet into a fully defined logical grid.
// Pass one seeds every stored, non-merged cell value. Pass two fans each
// merge range's top-left anchor value out across the whole range. The
// overlay must run second so the anchor value is already seeded when it
// is read back.
func buildGrid(sheet driven.SheetData, merges []domain.MergeRange) *domain.Grid {
	maxRow, maxCol := sheet.Extents()
	grid := domain.NewGrid(maxRow, maxCol)

	for row := 1; row <= maxRow; row++ {
		for col := 1; col <= maxCol; col++ {
			if v := sheet.Value(row, col); v.Kind != domain.KindEmpty {
				grid.Set(row, col, v)
			}
		}
	}

	for _, m := range merges {
		anchor := grid.Value(m.MinRow, m.MinCol)
		for row := m.MinRow; row <= m.MaxRow; row++ {
			for col := m.MinCol; col <= m.MaxCol; col++ {
				grid.Set(row, col, anchor)
			}
		}
	}

	return grid
}
