package domain

import "time"

// Source represents a configured spreadsheet origin.
// Each source produces files via a connector.
type Source struct {
	// ID is the unique identifier for the source.
	ID string

	// Type identifies the connector type (e.g., "sharepoint", "github").
	Type string

	// Name is the human-readable name for this source.
	Name string

	// Config contains connector-specific configuration
	// (site URL, folder path, repository, file patterns).
	Config map[string]string

	// CreatedAt is when the source was created.
	CreatedAt time.Time

	// UpdatedAt is when the source was last updated.
	UpdatedAt time.Time
}

// PullState tracks download progress for a source.
type PullState struct {
	// SourceID links to the Source being pulled.
	SourceID string

	// Cursor is an opaque token for resuming an interrupted listing.
	Cursor string

	// LastPull is when the last successful pull completed.
	LastPull time.Time
}

// ConnectorType describes a supported connector.
type ConnectorType struct {
	// ID is the unique identifier (e.g., "filesystem", "sharepoint").
	ID string

	// Name is the human-readable display name.
	Name string

	// Description provides a brief explanation of the connector.
	Description string

	// RequiresAuth is true when the connector needs stored credentials.
	RequiresAuth bool

	// ConfigKeys lists the configuration fields the connector accepts.
	ConfigKeys []ConfigKey
}

// ConfigKey describes a configuration field for a connector.
type ConfigKey struct {
	// Key is the configuration key name.
	Key string

	// Label is the human-readable label for display.
	Label string

	// Description explains what this field is for.
	Description string

	// Default is the default value for this field.
	Default string

	// Required indicates whether this field must be provided.
	Required bool

	// Secret indicates whether this field should be masked when shown.
	Secret bool
}
