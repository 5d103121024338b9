package sharepoint

import (
	"net/url"
	"strings"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

// DefaultPatterns are the filename patterns used when none are configured.
var DefaultPatterns = []string{"*.xlsx", "*.xls"}

// DefaultFolder is the document library pulled when no folder is configured.
const DefaultFolder = "Shared Documents"

// Config holds the parsed configuration for a SharePoint source.
type Config struct {
	// SiteURL is the full site URL without trailing slash.
	SiteURL string

	// FolderPath is the server-relative folder to pull from.
	FolderPath string

	// Recursive controls whether subfolders are descended into.
	Recursive bool

	// Patterns are filename patterns for spreadsheet filtering.
	Patterns []string
}

// ParseConfig parses a source's config map into a Config struct.
// The "site_url" key is required. Relative folder paths are resolved
// against the site's server-relative path.
func ParseConfig(source domain.Source) (*Config, error) {
	siteURL, ok := source.Config["site_url"]
	if !ok || siteURL == "" {
		return nil, ErrConfigMissingSiteURL
	}
	siteURL = strings.TrimRight(siteURL, "/")

	parsed, err := url.Parse(siteURL)
	if err != nil || parsed.Host == "" {
		return nil, ErrConfigInvalidSiteURL
	}

	cfg := &Config{
		SiteURL:   siteURL,
		Recursive: true,
		Patterns:  DefaultPatterns,
	}

	folder := source.Config["folder_path"]
	if folder == "" {
		folder = DefaultFolder
	}
	folder = strings.ReplaceAll(folder, "\\", "/")
	if !strings.HasPrefix(folder, "/") {
		// Relative paths live under the site's server-relative path.
		folder = strings.TrimRight(parsed.Path, "/") + "/" + folder
	}
	cfg.FolderPath = strings.TrimRight(folder, "/")

	if recursive, ok := source.Config["recursive"]; ok {
		cfg.Recursive = !strings.EqualFold(recursive, "false")
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

// Tenant extracts the tenant host from the site URL
// (e.g. "acme.sharepoint.com").
func (c *Config) Tenant() string {
	parsed, err := url.Parse(c.SiteURL)
	if err != nil {
		return ""
	}
	return parsed.Host
}
