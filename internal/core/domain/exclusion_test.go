package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestExclusion_Fields tests Exclusion structure fields
func TestExclusion_Fields(t *testing.T) {
	now := time.Now()
	exclusion := Exclusion{
		ID:         "excl-123",
		SourceID:   "source-456",
		Path:       "Germany/Acme/Custody/old_template.xlsx",
		Reason:     "superseded template",
		ExcludedAt: now,
	}

	assert.Equal(t, "excl-123", exclusion.ID)
	assert.Equal(t, "source-456", exclusion.SourceID)
	assert.Equal(t, "Germany/Acme/Custody/old_template.xlsx", exclusion.Path)
	assert.Equal(t, "superseded template", exclusion.Reason)
	assert.Equal(t, now, exclusion.ExcludedAt)
}

// TestExclusion_Matches tests source scoping and path matching
func TestExclusion_Matches(t *testing.T) {
	tests := []struct {
		name      string
		exclusion Exclusion
		sourceID  string
		path      string
		expected  bool
	}{
		{
			name:      "same source and path",
			exclusion: Exclusion{SourceID: "s1", Path: "a/b.xlsx"},
			sourceID:  "s1",
			path:      "a/b.xlsx",
			expected:  true,
		},
		{
			name:      "different source",
			exclusion: Exclusion{SourceID: "s1", Path: "a/b.xlsx"},
			sourceID:  "s2",
			path:      "a/b.xlsx",
			expected:  false,
		},
		{
			name:      "different path",
			exclusion: Exclusion{SourceID: "s1", Path: "a/b.xlsx"},
			sourceID:  "s1",
			path:      "a/c.xlsx",
			expected:  false,
		},
		{
			name:      "global exclusion matches any source",
			exclusion: Exclusion{Path: "a/b.xlsx"},
			sourceID:  "s9",
			path:      "a/b.xlsx",
			expected:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.exclusion.Matches(tt.sourceID, tt.path))
		})
	}
}
