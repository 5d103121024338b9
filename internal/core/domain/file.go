package domain

import "time"

// FileRecord is the selection metadata for one spreadsheet file,
// derived from its folder position and filename.
type FileRecord struct {
	// Path is the absolute path on local disk.
	Path string `json:"file_path"`

	// Filename is the base name including extension.
	Filename string `json:"filename"`

	// Country is the first folder level under the root, empty if flat.
	Country string `json:"country,omitempty"`

	// Client is the second folder level, empty if absent.
	Client string `json:"client_name,omitempty"`

	// Product is the third folder level, empty if absent.
	Product string `json:"product,omitempty"`

	// RelativeFolder is the folder path relative to the scan root.
	RelativeFolder string `json:"relative_folder,omitempty"`

	// ExtractedDate is the date parsed out of the filename, nil when
	// no recognised date layout matched.
	ExtractedDate *time.Time `json:"extracted_date,omitempty"`

	// IsLatest marks the file chosen as most recent in its group.
	IsLatest bool `json:"is_latest"`

	// FormVariant distinguishes undated siblings in the same folder
	// ("Form 1", "Form 2", ...), empty otherwise.
	FormVariant string `json:"form_variant,omitempty"`
}

// RemoteFile represents opaque spreadsheet bytes fetched by a connector.
// It is the connector's output before extraction.
type RemoteFile struct {
	// SourceID links to the Source that produced this file.
	SourceID string

	// Path is the source-relative location (server path, repo path).
	Path string

	// Name is the base filename.
	Name string

	// Size is the reported size in bytes, zero when unknown.
	Size int64

	// Modified is the remote modification time, zero when unknown.
	Modified time.Time

	// Content is the raw bytes. Nil during listing; populated by download.
	Content []byte

	// Metadata contains connector-specific key-value pairs.
	Metadata map[string]any
}

// ChangeType represents the type of file change seen by a watcher.
type ChangeType int

const (
	// ChangeCreated indicates a new file.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates a modified file.
	ChangeUpdated

	// ChangeDeleted indicates a removed file.
	ChangeDeleted
)

// FileChange represents a change event from a watching connector.
type FileChange struct {
	// Type is the kind of change.
	Type ChangeType

	// File is the affected file.
	File RemoteFile
}
