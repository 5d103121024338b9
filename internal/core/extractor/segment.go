package extractor

import "github.com/naveenbxyz/spexplorer/internal/core/domain"

// blankRunLimit is how many consecutive blank rows end a region.
// A single blank row inside a block is tolerated; two close it.
const blankRunLimit = 2

// segState is the segmenter automaton state.
type segState int

const (
	seeking segState = iota
	open
)

// segment splits the grid into candidate regions separated by runs of
// blank rows. Column bounds are always the full sheet width, keeping
// region boundaries a pure function of row blankness.
func segment(grid *domain.Grid) []domain.Bounds {
	var regions []domain.Bounds

	state := seeking
	start := 0
	blankRun := 0

	for row := 1; row <= grid.MaxRow; row++ {
		blank := grid.RowIsBlank(row)

		switch state {
		case seeking:
			if !blank {
				state = open
				start = row
				blankRun = 0
			}
		case open:
			if !blank {
				blankRun = 0
				continue
			}
			blankRun++
			if blankRun >= blankRunLimit {
				// Close at the last non-blank row; the blank rows
				// belong to no region.
				regions = append(regions, regionBounds(grid, start, row-blankRun))
				state = seeking
			}
		}
	}

	// A region still open at the end of the sheet closes at the last row.
	if state == open {
		regions = append(regions, regionBounds(grid, start, grid.MaxRow))
	}

	return regions
}

func regionBounds(grid *domain.Grid, startRow, endRow int) domain.Bounds {
	return domain.Bounds{
		StartRow: startRow,
		EndRow:   endRow,
		StartCol: 1,
		EndCol:   grid.MaxCol,
	}
}
