package driving

import "context"

// PullOrchestrator coordinates downloading spreadsheet files from sources
// into the local download directory.
type PullOrchestrator interface {
	// Pull triggers a pull for a source.
	Pull(ctx context.Context, sourceID string) error

	// PullAll triggers a pull for all configured sources.
	PullAll(ctx context.Context) error

	// Status returns pull status for a source.
	Status(ctx context.Context, sourceID string) (*PullStatus, error)

	// Watch streams live file changes from a source into the download
	// directory. Each saved file triggers onFile with its local path.
	// Blocks until ctx is cancelled or the connector stops. Returns
	// domain.ErrWatchUnsupported when the source's connector cannot
	// push change events.
	Watch(ctx context.Context, sourceID string, onFile func(localPath string)) error
}

// PullStatus represents the current state of a pull operation.
type PullStatus struct {
	// SourceID identifies the source.
	SourceID string

	// Running indicates if a pull is currently in progress.
	Running bool

	// FilesFetched is the count of files downloaded.
	FilesFetched int

	// ErrorCount is the number of errors encountered.
	ErrorCount int
}
