package driving

import (
	"context"
	"time"
)

// ProcessService runs batch extraction over selected spreadsheet files.
type ProcessService interface {
	// Process selects spreadsheet files under the root directory and
	// extracts them with a worker pool. Blocks until the run completes
	// or ctx is cancelled. The report is returned even when the run is
	// cut short, alongside the error.
	Process(ctx context.Context, opts ProcessOptions) (*ProcessReport, error)
}

// ProcessPhase tags progress events emitted during a batch run.
type ProcessPhase string

const (
	// PhaseDiscovery is emitted while files are being selected.
	PhaseDiscovery ProcessPhase = "discovery"

	// PhaseStart is emitted once, after selection, before workers start.
	PhaseStart ProcessPhase = "processing_start"

	// PhaseProcessing is emitted after each file finishes.
	PhaseProcessing ProcessPhase = "processing"

	// PhaseCompleted is emitted once, after the run finishes.
	PhaseCompleted ProcessPhase = "completed"
)

// ProgressFunc receives progress events during a batch run.
// Called from worker goroutines; implementations must be safe for
// concurrent use.
type ProgressFunc func(event ProgressEvent)

// ProgressEvent describes one step of a batch run.
type ProgressEvent struct {
	// Phase identifies the stage of the run.
	Phase ProcessPhase

	// File is the path of the file this event concerns, if any.
	File string

	// Current is the number of files finished so far.
	Current int

	// Total is the number of files selected for the run.
	Total int

	// Message carries a human-readable note (e.g. a failure reason).
	Message string
}

// ProcessOptions control a batch run. Zero values fall back to the
// configured processing settings.
type ProcessOptions struct {
	// Root overrides the directory scanned for spreadsheets.
	Root string

	// SourceID attributes stored documents to a source.
	SourceID string

	// Workers is the worker pool size.
	Workers int

	// Timeout bounds each file's processing time.
	Timeout time.Duration

	// MaxRetries is how many times a failed file is re-attempted.
	MaxRetries int

	// Reprocess forces re-extraction of already-successful documents.
	Reprocess bool

	// Progress receives progress events. May be nil.
	Progress ProgressFunc
}

// ProcessReport summarises a finished batch run.
type ProcessReport struct {
	// TotalFiles is the number of files selected for processing.
	TotalFiles int

	// Processed is the number of files extracted and stored successfully.
	Processed int

	// Failed is the number of files that failed after all retries.
	Failed int

	// Skipped is the number of files skipped as already processed.
	Skipped int

	// Retried is the number of retry attempts made.
	Retried int

	// Timeouts is the number of attempts cut short by the per-file
	// processing timeout. Counts attempts, not files: a file that times
	// out on every retry contributes once per attempt.
	Timeouts int

	// StuckFiles lists the paths still failing after the final retry
	// pass.
	StuckFiles []string

	// StartedAt is when the run began.
	StartedAt time.Time

	// FinishedAt is when the run ended.
	FinishedAt time.Time
}

// Duration returns the wall-clock time of the run.
func (r *ProcessReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// FilesPerSecond returns the processing throughput over the whole run.
func (r *ProcessReport) FilesPerSecond() float64 {
	secs := r.Duration().Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(r.Processed) / secs
}
