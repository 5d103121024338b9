package github

import (
	"context"
	"path"
	"strings"
)

// TreeFile is one spreadsheet blob found in the repository tree.
type TreeFile struct {
	// Path is the repo-relative file path.
	Path string

	// Name is the base filename.
	Name string

	// SHA identifies the blob for download.
	SHA string

	// Size is the blob size in bytes.
	Size int64
}

// ListSpreadsheets lists spreadsheet blobs on the given branch.
// Returns the matching files and the tree SHA they were listed from.
func ListSpreadsheets(ctx context.Context, client *Client, cfg *Config, branch string) ([]TreeFile, string, error) {
	tree, err := client.GetTree(ctx, cfg.Owner, cfg.Repo, branch)
	if err != nil {
		return nil, "", err
	}

	files := make([]TreeFile, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}

		p := entry.GetPath()
		if cfg.PathPrefix != "" && !strings.HasPrefix(p, cfg.PathPrefix+"/") {
			continue
		}
		name := path.Base(p)
		if !isSpreadsheet(name) {
			continue
		}
		if !matchesPatterns(name, cfg.Patterns) {
			continue
		}

		files = append(files, TreeFile{
			Path: p,
			Name: name,
			SHA:  entry.GetSHA(),
			Size: int64(entry.GetSize()),
		})
	}

	return files, tree.GetSHA(), nil
}

// isSpreadsheet reports whether the filename has a spreadsheet extension.
func isSpreadsheet(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	return ext == ".xlsx" || ext == ".xls"
}

// matchesPatterns checks if a filename matches any of the patterns.
// Empty patterns match everything.
func matchesPatterns(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}

	for _, pattern := range patterns {
		matched, err := path.Match(strings.ToLower(pattern), strings.ToLower(name))
		if err == nil && matched {
			return true
		}
	}
	return false
}
