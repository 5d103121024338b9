package domain

import "time"

// Exclusion marks a file path that pulls and processing must skip.
// Exclusions outlive individual pulls, so a workbook that keeps
// failing or that should never be indexed stays skipped on re-sync.
type Exclusion struct {
	// ID is the unique identifier for the exclusion.
	ID string

	// SourceID links to the Source this exclusion applies to, empty
	// when the exclusion covers every source.
	SourceID string

	// Path is the source-relative file path to skip.
	Path string

	// Reason is an optional explanation for the exclusion.
	Reason string

	// ExcludedAt is when the exclusion was recorded.
	ExcludedAt time.Time
}

// Matches reports whether the exclusion applies to the given source
// and path.
func (e *Exclusion) Matches(sourceID, path string) bool {
	if e.SourceID != "" && e.SourceID != sourceID {
		return false
	}
	return e.Path == path
}
