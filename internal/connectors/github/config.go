package github

import (
	"strings"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

// DefaultPatterns are the filename patterns used when none are configured.
var DefaultPatterns = []string{"*.xlsx", "*.xls"}

// Config holds the parsed configuration for a GitHub source.
type Config struct {
	// Owner is the repository owner (user or organisation).
	Owner string

	// Repo is the repository name.
	Repo string

	// Branch is the branch to pull from. Empty means the repository's
	// default branch.
	Branch string

	// PathPrefix restricts the pull to files under this directory.
	// Empty means the whole tree.
	PathPrefix string

	// Patterns are filename patterns for spreadsheet filtering.
	Patterns []string
}

// ParseConfig parses a source's config map into a Config struct.
// The "repo" key is required and must be in "owner/name" form.
func ParseConfig(source domain.Source) (*Config, error) {
	repo, ok := source.Config["repo"]
	if !ok || repo == "" {
		return nil, ErrConfigMissingRepo
	}

	parts := strings.Split(strings.Trim(repo, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, ErrConfigInvalidRepo
	}

	cfg := &Config{
		Owner:    parts[0],
		Repo:     parts[1],
		Branch:   source.Config["branch"],
		Patterns: DefaultPatterns,
	}

	if prefix, ok := source.Config["path_prefix"]; ok && prefix != "" {
		cfg.PathPrefix = strings.Trim(prefix, "/")
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

// FullName returns the repository in "owner/name" form.
func (c *Config) FullName() string {
	return c.Owner + "/" + c.Repo
}
