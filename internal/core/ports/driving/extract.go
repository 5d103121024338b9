package driving

import (
	"context"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

// ExtractionService runs the structural extraction engine over a single
// workbook without touching the stores. Used for one-off inspection.
type ExtractionService interface {
	// ExtractFile opens a workbook on disk and extracts it.
	ExtractFile(ctx context.Context, path string) (*domain.Document, error)

	// ExtractBytes extracts a workbook held in memory.
	ExtractBytes(ctx context.Context, content []byte) (*domain.Document, error)
}
