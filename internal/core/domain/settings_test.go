package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestProcessingSettings_Valid tests the settings validity check
func TestProcessingSettings_Valid(t *testing.T) {
	tests := []struct {
		name     string
		settings ProcessingSettings
		expected bool
	}{
		{
			name:     "defaults are valid",
			settings: DefaultSettings().Processing,
			expected: true,
		},
		{
			name:     "zero workers is invalid",
			settings: ProcessingSettings{Workers: 0, TimeoutSeconds: 60, MaxRetries: 1},
			expected: false,
		},
		{
			name:     "zero timeout is invalid",
			settings: ProcessingSettings{Workers: 2, TimeoutSeconds: 0, MaxRetries: 1},
			expected: false,
		},
		{
			name:     "negative retries is invalid",
			settings: ProcessingSettings{Workers: 2, TimeoutSeconds: 60, MaxRetries: -1},
			expected: false,
		},
		{
			name:     "zero retries is valid",
			settings: ProcessingSettings{Workers: 2, TimeoutSeconds: 60, MaxRetries: 0},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.Valid())
		})
	}
}

// TestDefaultSettings tests the zero-config defaults
func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, 4, s.Processing.Workers)
	assert.Equal(t, 120, s.Processing.TimeoutSeconds)
	assert.Equal(t, 2, s.Processing.MaxRetries)
	assert.False(t, s.Processing.Reprocess)
	assert.NotEmpty(t, s.Storage.DataDir)
	assert.NotEmpty(t, s.Storage.DocumentDir)
	assert.NotEmpty(t, s.Storage.DownloadDir)
	assert.False(t, s.Verbose)
}
