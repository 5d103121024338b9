package extractor

import (
	"context"
	"fmt"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driven"
)

// Engine turns open spreadsheets into typed, fingerprinted documents.
// An Engine is stateless across calls and safe for concurrent use; all
// per-parse state is allocated inside Extract.
type Engine struct {
	weights Weights
}

// NewEngine returns an engine using the reference classification weights.
func NewEngine() *Engine {
	return &Engine{weights: DefaultWeights()}
}

// NewEngineWithWeights returns an engine with custom classification
// weights, for tuning against a particular document population.
func NewEngineWithWeights(w Weights) *Engine {
	return &Engine{weights: w}
}

// Extract parses every sheet of an open spreadsheet into a document.
//
// Sheet-level failures never abort the parse: the failing sheet
// contributes an empty section list and a recorded warning, and
// extraction continues with the next sheet. The only error returned is
// context cancellation, checked between sheets and between regions.
func (e *Engine) Extract(ctx context.Context, doc driven.SheetDocument) (domain.Document, error) {
	var (
		sheets   []domain.Sheet
		warnings []string
	)

	for _, name := range doc.SheetNames() {
		if err := ctx.Err(); err != nil {
			return domain.Document{}, err
		}

		sheet, err := e.extractSheet(ctx, doc, name)
		if err != nil {
			if ctx.Err() != nil {
				return domain.Document{}, err
			}
			warnings = append(warnings, fmt.Sprintf("sheet %q: %v", name, err))
			sheets = append(sheets, domain.Sheet{Name: name})
			continue
		}
		sheets = append(sheets, sheet)
	}

	return domain.Document{
		Sheets:      sheets,
		Status:      domain.StatusSuccess,
		Warnings:    warnings,
		Fingerprint: fingerprint(sheets),
	}, nil
}

// extractSheet runs the full pipeline for one worksheet: grid build,
// segmentation, then classify and materialize per region.
func (e *Engine) extractSheet(ctx context.Context, doc driven.SheetDocument, name string) (domain.Sheet, error) {
	data, err := doc.Sheet(name)
	if err != nil {
		return domain.Sheet{}, fmt.Errorf("reading sheet: %w", err)
	}

	maxRow, _ := data.Extents()
	if maxRow == 0 {
		// An empty sheet is a valid sheet with no sections.
		return domain.Sheet{Name: name}, nil
	}

	merges, err := data.MergeRanges()
	if err != nil {
		return domain.Sheet{}, fmt.Errorf("reading merge ranges: %w", err)
	}

	grid := buildGrid(data, merges)
	styles := newStyleCache(data)

	var sections []domain.Section
	for _, region := range segment(grid) {
		if err := ctx.Err(); err != nil {
			return domain.Sheet{}, err
		}
		verdict := classify(region, grid, merges, styles, e.weights)
		sections = append(sections, materialize(verdict, region, grid))
	}

	return domain.Sheet{Name: name, Sections: sections}, nil
}

// FailedDocument records a source that could not be decoded at all.
// It is the document persisted for unreadable files so that failures
// stay queryable alongside successful extractions.
func FailedDocument(err error) domain.Document {
	return domain.Document{
		Status:       domain.StatusFailed,
		ErrorMessage: err.Error(),
	}
}
