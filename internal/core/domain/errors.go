package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown connector type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNotImplemented indicates a capability is not wired up.
	// Returned by services whose backing store was not configured.
	ErrNotImplemented = errors.New("not implemented")

	// Extraction Errors.

	// ErrDocumentUnreadable indicates the source bytes could not be
	// decoded as a spreadsheet at all. The extraction result carries a
	// failed status and no sections.
	ErrDocumentUnreadable = errors.New("document unreadable")

	// ErrSheetUnreadable indicates a single worksheet could not be read.
	// The sheet contributes no sections; sibling sheets continue.
	ErrSheetUnreadable = errors.New("sheet unreadable")

	// Processing Errors.

	// ErrPullInProgress indicates a pull is already running for a source.
	ErrPullInProgress = errors.New("pull in progress")

	// ErrProcessingTimeout indicates a single file exceeded its time budget.
	ErrProcessingTimeout = errors.New("processing timed out")

	// Authentication Errors.

	// ErrAuthRequired indicates the connector requires credentials but
	// none are configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the configured credentials were rejected.
	ErrAuthInvalid = errors.New("authentication invalid")

	// Connector Errors.

	// ErrConnectorValidation indicates connector validation failed.
	// The source is misconfigured or unreachable.
	ErrConnectorValidation = errors.New("connector validation failed")

	// ErrConnectorClosed indicates the connector has been closed.
	ErrConnectorClosed = errors.New("connector closed")

	// ErrWatchUnsupported indicates the connector cannot stream live
	// file changes.
	ErrWatchUnsupported = errors.New("watch not supported")

	// ErrRateLimited indicates the remote API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// SheetError records a failure scoped to one worksheet and the engine
// component it occurred in. It wraps the underlying cause so callers can
// still match sentinel errors with errors.Is.
type SheetError struct {
	// Sheet is the worksheet name.
	Sheet string

	// Component names the engine stage ("grid", "segmenter", "classifier",
	// "materializer", "reader").
	Component string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q: %s: %v", e.Sheet, e.Component, e.Err)
}

// Unwrap returns the underlying cause.
func (e *SheetError) Unwrap() error {
	return e.Err
}
