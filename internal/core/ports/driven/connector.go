package driven

import (
	"context"
	"errors"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

// Connector fetches spreadsheet files from a data source.
// Each connector type (filesystem, sharepoint, github) implements this
// interface.
type Connector interface {
	// Type returns the connector type identifier.
	Type() string

	// SourceID returns the configured source ID.
	SourceID() string

	// Capabilities returns what this connector supports.
	Capabilities() ConnectorCapabilities

	// Validate checks if the connector is properly configured and
	// authenticated. Performs a lightweight check to verify the connector
	// is ready to pull. For API connectors, this typically makes a test
	// API call. For filesystem, this checks the path exists and is
	// readable. Returns nil if ready, error describing the problem
	// otherwise.
	Validate(ctx context.Context) error

	// FullPull fetches all spreadsheet files from the source.
	// Returns channels for files and errors. Both channels are closed
	// when the pull finishes.
	FullPull(ctx context.Context) (<-chan domain.RemoteFile, <-chan error)

	// IncrementalPull fetches only changes since the last pull.
	// Only available if SupportsIncremental is true.
	// Connectors that support cursor return should send PullComplete on
	// the error channel upon successful completion.
	IncrementalPull(ctx context.Context, state domain.PullState) (<-chan domain.FileChange, <-chan error)

	// Watch listens for real-time file changes.
	// Only available if SupportsWatch is true.
	Watch(ctx context.Context) (<-chan domain.FileChange, error)

	// Close releases resources.
	Close() error
}

// ConnectorCapabilities describes what a connector supports.
type ConnectorCapabilities struct {
	// SupportsIncremental indicates the connector can fetch only changes.
	SupportsIncremental bool

	// SupportsWatch indicates the connector can push real-time events.
	SupportsWatch bool

	// RequiresAuth indicates the connector needs authentication.
	// False for local connectors like filesystem.
	RequiresAuth bool

	// SupportsValidation indicates Validate() performs actual validation.
	// When true, Validate() makes a real check (e.g., API call, path check).
	SupportsValidation bool

	// SupportsCursorReturn indicates IncrementalPull can return an updated
	// cursor via the PullComplete sentinel on the error channel.
	SupportsCursorReturn bool

	// SupportsRateLimiting indicates the connector throttles its own
	// requests. Helps the orchestrator understand connector behaviour.
	SupportsRateLimiting bool
}

// PullComplete is sent on the error channel when a pull completes
// successfully. Carries the new cursor state for incremental pulls.
type PullComplete struct {
	NewCursor string
}

// Error implements the error interface.
// This allows PullComplete to be sent on the error channel.
func (PullComplete) Error() string {
	return "pull complete"
}

// IsPullComplete checks if an error is actually a successful completion.
// Returns the PullComplete and true if it is, nil and false otherwise.
func IsPullComplete(err error) (*PullComplete, bool) {
	var pc *PullComplete
	if errors.As(err, &pc) {
		return pc, true
	}
	return nil, false
}
