package domain

// ProcessingSettings holds batch extraction behaviour configuration.
type ProcessingSettings struct {
	// Workers is the number of concurrent extraction workers.
	Workers int

	// TimeoutSeconds is the per-file time budget.
	TimeoutSeconds int

	// MaxRetries is how many times a failed file is retried.
	MaxRetries int

	// Reprocess forces re-extraction of already-successful documents.
	Reprocess bool
}

// Valid reports whether the settings are usable.
func (p ProcessingSettings) Valid() bool {
	return p.Workers > 0 && p.TimeoutSeconds > 0 && p.MaxRetries >= 0
}

// StorageSettings holds the on-disk layout configuration.
type StorageSettings struct {
	// DataDir is where the SQLite index lives.
	DataDir string

	// DocumentDir is where extracted JSON documents are written.
	DocumentDir string

	// DownloadDir is where pulled spreadsheets are saved.
	DownloadDir string
}

// Settings is the aggregate application configuration.
type Settings struct {
	// Processing configures batch extraction.
	Processing ProcessingSettings

	// Storage configures the on-disk layout.
	Storage StorageSettings

	// Verbose enables debug logging.
	Verbose bool
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Processing: ProcessingSettings{
			Workers:        4,
			TimeoutSeconds: 120,
			MaxRetries:     2,
		},
		Storage: StorageSettings{
			DataDir:     "data",
			DocumentDir: "extracted",
			DownloadDir: "downloads",
		},
	}
}
