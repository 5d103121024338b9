package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/extractor"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driven"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driving"
	"github.com/naveenbxyz/spexplorer/internal/logger"
)

// Ensure Processor implements the interface.
var _ driving.ProcessService = (*Processor)(nil)

// Processor runs batch extraction: select files, extract each with a
// worker pool, store the results. Failed files are retried sequentially
// after the pool drains.
type Processor struct {
	selector   *Selector
	reader     driven.SpreadsheetReader
	docStore   driven.DocumentStore
	archive    driven.DocumentArchive
	exclusions driven.ExclusionStore
	engine     *extractor.Engine
	defaults   domain.Settings
}

// NewProcessor creates a batch processor. The archive and exclusions
// stores are optional and may be nil.
func NewProcessor(
	selector *Selector,
	reader driven.SpreadsheetReader,
	docStore driven.DocumentStore,
	archive driven.DocumentArchive,
	exclusions driven.ExclusionStore,
	defaults domain.Settings,
) *Processor {
	return &Processor{
		selector:   selector,
		reader:     reader,
		docStore:   docStore,
		archive:    archive,
		exclusions: exclusions,
		engine:     extractor.NewEngine(),
		defaults:   defaults,
	}
}

// workItem is one file queued for extraction.
type workItem struct {
	id   string
	file domain.FileRecord
}

// Process selects spreadsheet files under the root directory and extracts
// them with a worker pool.
//
//nolint:gocognit // Orchestration function coordinating pool, retries and progress
func (p *Processor) Process(ctx context.Context, opts driving.ProcessOptions) (*driving.ProcessReport, error) {
	if p.reader == nil || p.docStore == nil {
		return nil, domain.ErrNotImplemented
	}

	root := opts.Root
	if root == "" {
		root = p.defaults.Storage.DownloadDir
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = p.defaults.Processing.Workers
	}
	if workers <= 0 {
		workers = 1
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = time.Duration(p.defaults.Processing.TimeoutSeconds) * time.Second
	}
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	if opts.MaxRetries == 0 {
		maxRetries = p.defaults.Processing.MaxRetries
	}

	report := &driving.ProcessReport{StartedAt: time.Now()}

	emit(opts.Progress, driving.ProgressEvent{
		Phase:   driving.PhaseDiscovery,
		Message: "Discovering spreadsheet files...",
	})

	selected, err := p.selector.DiscoverAndSelect(root)
	if err != nil {
		report.FinishedAt = time.Now()
		return report, fmt.Errorf("discover files: %w", err)
	}
	report.TotalFiles = len(selected)

	emit(opts.Progress, driving.ProgressEvent{
		Phase:   driving.PhaseDiscovery,
		Total:   len(selected),
		Message: fmt.Sprintf("Selected %d files to process", len(selected)),
	})

	queue := p.buildQueue(ctx, selected, opts, report)

	emit(opts.Progress, driving.ProgressEvent{
		Phase:   driving.PhaseStart,
		Total:   len(queue),
		Message: fmt.Sprintf("Processing %d files", len(queue)),
	})

	// Concurrent pass over the queue.
	var (
		mu         sync.Mutex
		completed  int
		retryQueue []workItem
	)

	jobs := make(chan workItem)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range jobs {
				procErr := p.processOne(ctx, item, opts.SourceID, timeout)

				mu.Lock()
				completed++
				current := completed
				if procErr != nil {
					report.Failed++
					if errors.Is(procErr, domain.ErrProcessingTimeout) {
						report.Timeouts++
					}
					retryQueue = append(retryQueue, item)
				} else {
					report.Processed++
				}
				mu.Unlock()

				event := driving.ProgressEvent{
					Phase:   driving.PhaseProcessing,
					File:    item.file.Path,
					Current: current,
					Total:   len(queue),
				}
				if procErr != nil {
					event.Message = procErr.Error()
					logger.Debug("Failed to process %s: %v", item.file.Path, procErr)
				}
				emit(opts.Progress, event)
			}
		}()
	}

feed:
	for _, item := range queue {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- item:
		}
	}
	close(jobs)
	wg.Wait()

	// Sequential retry passes, safer than re-entering the pool.
	for attempt := 1; attempt <= maxRetries && len(retryQueue) > 0 && ctx.Err() == nil; attempt++ {
		pending := retryQueue
		retryQueue = nil

		logger.Info("Retrying %d failed files (attempt %d)", len(pending), attempt)
		for _, item := range pending {
			if ctx.Err() != nil {
				break
			}
			report.Retried++
			procErr := p.processOne(ctx, item, opts.SourceID, timeout)

			event := driving.ProgressEvent{
				Phase:   driving.PhaseProcessing,
				File:    item.file.Path,
				Current: completed,
				Total:   len(queue),
			}
			if procErr != nil {
				if errors.Is(procErr, domain.ErrProcessingTimeout) {
					report.Timeouts++
				}
				retryQueue = append(retryQueue, item)
				event.Message = fmt.Sprintf("retry %d: %v", attempt, procErr)
			} else {
				report.Processed++
				report.Failed--
				event.Message = fmt.Sprintf("retry %d: recovered", attempt)
			}
			emit(opts.Progress, event)
		}
	}

	// Whatever is left in the retry queue is out of attempts.
	for _, item := range retryQueue {
		report.StuckFiles = append(report.StuckFiles, item.file.Path)
	}
	if len(report.StuckFiles) > 0 {
		logger.Warn("%d files still failing after retries", len(report.StuckFiles))
	}

	report.FinishedAt = time.Now()

	emit(opts.Progress, driving.ProgressEvent{
		Phase:   driving.PhaseCompleted,
		Current: completed,
		Total:   len(queue),
		Message: "Processing completed",
	})

	logger.Info("Batch complete: %d processed, %d failed, %d skipped in %s",
		report.Processed, report.Failed, report.Skipped, report.Duration().Round(time.Millisecond))

	if ctx.Err() != nil {
		return report, ctx.Err()
	}
	return report, nil
}

// buildQueue assigns document IDs and drops excluded or already-successful
// files.
func (p *Processor) buildQueue(
	ctx context.Context,
	selected []domain.FileRecord,
	opts driving.ProcessOptions,
	report *driving.ProcessReport,
) []workItem {
	queue := make([]workItem, 0, len(selected))
	for _, rec := range selected {
		id := p.selector.DocumentID(rec)

		if p.exclusions != nil {
			excluded, err := p.exclusions.IsExcluded(ctx, opts.SourceID, rec.Path)
			if err == nil && excluded {
				report.Skipped++
				continue
			}
		}

		if !opts.Reprocess {
			existing, err := p.docStore.GetDocument(ctx, id)
			if err == nil && existing != nil && existing.Document.Status == domain.StatusSuccess {
				report.Skipped++
				continue
			}
		}

		queue = append(queue, workItem{id: id, file: rec})
	}
	return queue
}

// processOne extracts a single file and stores the result. Unreadable
// workbooks are stored as failed records; the error still counts the file
// as failed so it can be retried.
func (p *Processor) processOne(parent context.Context, item workItem, sourceID string, timeout time.Duration) error {
	ctx := parent
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, timeout)
		defer cancel()
	}

	var (
		result  domain.Document
		openErr error
	)

	doc, err := p.reader.Open(item.file.Path)
	if err != nil {
		openErr = err
		if !errors.Is(err, domain.ErrDocumentUnreadable) {
			openErr = fmt.Errorf("%w: %v", domain.ErrDocumentUnreadable, err)
		}
		result = extractor.FailedDocument(openErr)
	} else {
		result, err = p.engine.Extract(ctx, doc)
		doc.Close()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("%w after %s: %v", domain.ErrProcessingTimeout, timeout, err)
			}
			return fmt.Errorf("extract %s: %w", item.file.Path, err)
		}
	}

	record := &domain.DocumentRecord{
		ID:          item.id,
		SourceID:    sourceID,
		File:        item.file,
		Document:    result,
		ProcessedAt: time.Now(),
	}

	if err := p.docStore.SaveDocument(ctx, record); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	if p.archive != nil {
		if err := p.archive.Archive(ctx, record); err != nil {
			return fmt.Errorf("archive document: %w", err)
		}
	}

	return openErr
}

func emit(fn driving.ProgressFunc, event driving.ProgressEvent) {
	if fn != nil {
		fn(event)
	}
}
