package services

import (
	"context"
	"fmt"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/extractor"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driven"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driving"
)

// Ensure ExtractionService implements the interface.
var _ driving.ExtractionService = (*ExtractionService)(nil)

// ExtractionService runs the extraction engine over single workbooks.
type ExtractionService struct {
	reader driven.SpreadsheetReader
	engine *extractor.Engine
}

// NewExtractionService creates a new extraction service.
func NewExtractionService(reader driven.SpreadsheetReader) *ExtractionService {
	return &ExtractionService{
		reader: reader,
		engine: extractor.NewEngine(),
	}
}

// ExtractFile opens a workbook on disk and extracts it.
func (s *ExtractionService) ExtractFile(ctx context.Context, path string) (*domain.Document, error) {
	if s.reader == nil {
		return nil, domain.ErrNotImplemented
	}
	doc, err := s.reader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer doc.Close()

	result, err := s.engine.Extract(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("extract workbook: %w", err)
	}
	return &result, nil
}

// ExtractBytes extracts a workbook held in memory.
func (s *ExtractionService) ExtractBytes(ctx context.Context, content []byte) (*domain.Document, error) {
	if s.reader == nil {
		return nil, domain.ErrNotImplemented
	}
	doc, err := s.reader.OpenBytes(content)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer doc.Close()

	result, err := s.engine.Extract(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("extract workbook: %w", err)
	}
	return &result, nil
}
