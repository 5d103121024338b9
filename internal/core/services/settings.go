package services

import (
	"fmt"
	"time"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driven"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyWorkers        = "processing.workers"
	keyTimeoutSeconds = "processing.timeout_seconds"
	keyMaxRetries     = "processing.max_retries"
	keyReprocess      = "processing.reprocess"
	keyDataDir        = "storage.data_dir"
	keyDocumentDir    = "storage.document_dir"
	keyDownloadDir    = "storage.download_dir"
	keyVerbose        = "verbose"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Processing: domain.ProcessingSettings{
			Workers:        s.getInt(keyWorkers, defaults.Processing.Workers),
			TimeoutSeconds: s.getInt(keyTimeoutSeconds, defaults.Processing.TimeoutSeconds),
			MaxRetries:     s.getIntAllowZero(keyMaxRetries, defaults.Processing.MaxRetries),
			Reprocess:      s.getBool(keyReprocess, defaults.Processing.Reprocess),
		},
		Storage: domain.StorageSettings{
			DataDir:     s.getString(keyDataDir, defaults.Storage.DataDir),
			DocumentDir: s.getString(keyDocumentDir, defaults.Storage.DocumentDir),
			DownloadDir: s.getString(keyDownloadDir, defaults.Storage.DownloadDir),
		},
		Verbose: s.getBool(keyVerbose, defaults.Verbose),
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if err := s.configStore.Set(keyWorkers, settings.Processing.Workers); err != nil {
		return fmt.Errorf("save workers: %w", err)
	}
	if err := s.configStore.Set(keyTimeoutSeconds, settings.Processing.TimeoutSeconds); err != nil {
		return fmt.Errorf("save timeout: %w", err)
	}
	if err := s.configStore.Set(keyMaxRetries, settings.Processing.MaxRetries); err != nil {
		return fmt.Errorf("save max retries: %w", err)
	}
	if err := s.configStore.Set(keyReprocess, settings.Processing.Reprocess); err != nil {
		return fmt.Errorf("save reprocess: %w", err)
	}
	if err := s.configStore.Set(keyDataDir, settings.Storage.DataDir); err != nil {
		return fmt.Errorf("save data dir: %w", err)
	}
	if err := s.configStore.Set(keyDocumentDir, settings.Storage.DocumentDir); err != nil {
		return fmt.Errorf("save document dir: %w", err)
	}
	if err := s.configStore.Set(keyDownloadDir, settings.Storage.DownloadDir); err != nil {
		return fmt.Errorf("save download dir: %w", err)
	}
	if err := s.configStore.Set(keyVerbose, settings.Verbose); err != nil {
		return fmt.Errorf("save verbose: %w", err)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Validate checks if current settings are valid.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Processing.Valid() {
		return fmt.Errorf(
			"invalid processing settings: workers=%d timeout=%ds retries=%d",
			settings.Processing.Workers,
			settings.Processing.TimeoutSeconds,
			settings.Processing.MaxRetries,
		)
	}
	if settings.Storage.DataDir == "" || settings.Storage.DocumentDir == "" || settings.Storage.DownloadDir == "" {
		return fmt.Errorf("storage directories must not be empty")
	}
	return nil
}

// GetSchedulerConfig returns the scheduler configuration.
// Returns default configuration if nothing is configured.
func (s *SettingsService) GetSchedulerConfig() domain.SchedulerConfig {
	defaults := domain.DefaultSchedulerConfig()

	// Master switch
	if _, exists := s.configStore.Get("scheduler.enabled"); exists {
		defaults.Enabled = s.configStore.GetBool("scheduler.enabled")
	}

	// Per-task config
	// Map from task ID to config key (underscore version for TOML)
	taskKeys := map[string]string{
		domain.TaskIDSourcePull: "source_pull",
		domain.TaskIDProcess:    "process",
		domain.TaskIDRecluster:  "recluster",
	}

	for taskID, configKey := range taskKeys {
		prefix := "scheduler." + configKey + "."

		taskCfg := defaults.TaskConfigs[taskID]

		if _, exists := s.configStore.Get(prefix + "enabled"); exists {
			taskCfg.Enabled = s.configStore.GetBool(prefix + "enabled")
		}

		// Interval is a duration string like "45m" or "6h"
		if interval := s.configStore.GetString(prefix + "interval"); interval != "" {
			if d, err := time.ParseDuration(interval); err == nil {
				taskCfg.Interval = d
			}
		}

		defaults.TaskConfigs[taskID] = taskCfg
	}

	return defaults
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getIntAllowZero treats an explicitly stored zero as a value, not an
// absence. Retries can legitimately be disabled.
func (s *SettingsService) getIntAllowZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}
