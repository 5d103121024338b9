package filesystem

import (
	"errors"
	"strings"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

// DefaultPatterns are the filename patterns used when none are configured.
var DefaultPatterns = []string{"*.xlsx", "*.xls"}

// ErrConfigMissingPath indicates the "path" config key was not provided.
var ErrConfigMissingPath = errors.New("filesystem: path is required")

// Config holds the parsed configuration for a filesystem source.
type Config struct {
	// Root is the directory to scan for spreadsheet files.
	Root string

	// Patterns are filename patterns for spreadsheet filtering.
	Patterns []string
}

// ParseConfig parses a source's config map into a Config struct.
// The "path" key is required.
func ParseConfig(source domain.Source) (*Config, error) {
	root, ok := source.Config["path"]
	if !ok || root == "" {
		return nil, ErrConfigMissingPath
	}

	cfg := &Config{
		Root:     root,
		Patterns: DefaultPatterns,
	}

	if patterns, ok := source.Config["patterns"]; ok && patterns != "" {
		cfg.Patterns = parsePatterns(patterns)
	}

	return cfg, nil
}

// parsePatterns parses a comma-separated filename patterns string.
func parsePatterns(s string) []string {
	parts := strings.Split(s, ",")
	patterns := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			patterns = append(patterns, part)
		}
	}
	if len(patterns) == 0 {
		return DefaultPatterns
	}
	return patterns
}
