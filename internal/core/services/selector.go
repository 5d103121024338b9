package services

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/logger"
)

// Selector picks which spreadsheet files to process from a folder tree.
// The expected layout is root/Country/Client/Product/.../file.xlsx; when a
// group holds several files the latest dated one wins and undated files
// become separate form variants.
type Selector struct{}

// NewSelector creates a new file selector.
func NewSelector() *Selector {
	return &Selector{}
}

// datePattern pairs a regular expression that locates a date token in a
// filename with the layout used to parse it.
type datePattern struct {
	re     *regexp.Regexp
	layout string
}

// Patterns are tried in order; the first match that parses wins.
var datePatterns = []datePattern{
	// ddMMMyyyy (15Jan2024)
	{regexp.MustCompile(`\d{1,2}[A-Za-z]{3}\d{4}`), "2Jan2006"},
	// yyyy-mm-dd
	{regexp.MustCompile(`\d{4}-\d{2}-\d{2}`), "2006-01-02"},
	// mm-dd-yyyy
	{regexp.MustCompile(`\d{2}-\d{2}-\d{4}`), "01-02-2006"},
	// yyyymmdd
	{regexp.MustCompile(`\d{8}`), "20060102"},
	// dd-mm-yyyy
	{regexp.MustCompile(`\d{2}-\d{2}-\d{4}`), "02-01-2006"},
	// MMM-dd-yyyy (Jan-15-2024)
	{regexp.MustCompile(`[A-Za-z]{3}-\d{1,2}-\d{4}`), "Jan-2-2006"},
	// yyyy_mm_dd
	{regexp.MustCompile(`\d{4}_\d{2}_\d{2}`), "2006_01_02"},
	// dd_MMM_yyyy
	{regexp.MustCompile(`\d{1,2}_[A-Za-z]{3}_\d{4}`), "2_Jan_2006"},
}

// Folders holding superseded files are skipped wholesale.
var ignoredPathMarkers = []string{
	"/old/", `\old\`, "/old", `\old`,
	"/archive/", `\archive\`,
	"/backup/", `\backup\`,
}

// nonAlnum matches every character that is stripped from document IDs.
var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// DiscoverAndSelect walks the root folder for spreadsheet files and applies
// the selection rules to them.
func (s *Selector) DiscoverAndSelect(root string) ([]domain.FileRecord, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("root folder %q: %w", root, domain.ErrNotFound)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			logger.Debug("Skipping unreadable entry %s: %v", path, walkErr)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if isSpreadsheet(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	return s.Select(paths, root), nil
}

// Select applies the ignore, grouping and latest-file rules to a set of
// candidate paths. Paths are grouped by (country, client, product); each
// group contributes its latest dated file, and undated files become
// numbered form variants in path order.
func (s *Selector) Select(paths []string, root string) []domain.FileRecord {
	type groupKey struct {
		country, client, product string
	}

	groups := make(map[groupKey][]domain.FileRecord)
	var order []groupKey

	for _, p := range paths {
		if s.ShouldIgnore(p) {
			continue
		}

		country, client, product, relFolder := parseFolders(p, root)
		rec := domain.FileRecord{
			Path:           p,
			Filename:       filepath.Base(p),
			Country:        country,
			Client:         client,
			Product:        product,
			RelativeFolder: relFolder,
			ExtractedDate:  s.ExtractDate(filepath.Base(p)),
		}

		key := groupKey{country, client, product}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], rec)
	}

	var selected []domain.FileRecord
	for _, key := range order {
		files := groups[key]
		if len(files) == 1 {
			files[0].IsLatest = true
			selected = append(selected, files[0])
			continue
		}

		var dated, undated []domain.FileRecord
		for _, f := range files {
			if f.ExtractedDate != nil {
				dated = append(dated, f)
			} else {
				undated = append(undated, f)
			}
		}

		if len(dated) > 0 {
			latest := dated[0]
			for _, f := range dated[1:] {
				if f.ExtractedDate.After(*latest.ExtractedDate) {
					latest = f
				}
			}
			latest.IsLatest = true
			selected = append(selected, latest)
		}

		for i, f := range undated {
			client := f.Client
			if client == "" {
				client = "Unknown"
			}
			f.FormVariant = fmt.Sprintf("Form %d", i+1)
			f.Client = client + " - " + f.FormVariant
			selected = append(selected, f)
		}
	}

	return selected
}

// ShouldIgnore reports whether the path sits under an old, archive or
// backup folder.
func (s *Selector) ShouldIgnore(path string) bool {
	lower := strings.ToLower(path)
	for _, marker := range ignoredPathMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// ExtractDate pulls an embedded date out of a filename. Returns nil when no
// known pattern matches.
func (s *Selector) ExtractDate(filename string) *time.Time {
	name := filename
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[:i]
	}

	for _, p := range datePatterns {
		match := p.re.FindString(name)
		if match == "" {
			continue
		}
		t, err := time.Parse(p.layout, match)
		if err != nil {
			continue
		}
		return &t
	}
	return nil
}

// DocumentID derives the stable document identifier for a selected file.
// Missing parts fall back to "Unknown"; every non-alphanumeric character
// becomes an underscore.
func (s *Selector) DocumentID(rec domain.FileRecord) string {
	parts := []string{
		sanitizeIDPart(orUnknown(rec.Country)),
		sanitizeIDPart(orUnknown(rec.Client)),
		sanitizeIDPart(orUnknown(rec.Product)),
	}
	if rec.FormVariant != "" {
		parts = append(parts, sanitizeIDPart(rec.FormVariant))
	}
	return strings.Join(parts, "_")
}

// parseFolders extracts country, client and product from the first three
// folder levels below root. Files above those levels leave the deeper
// parts empty.
func parseFolders(path, root string) (country, client, product, relFolder string) {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", "", "", ""
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	folders := parts[:len(parts)-1]

	relFolder = strings.Join(folders, "/")
	if len(folders) >= 1 {
		country = folders[0]
	}
	if len(folders) >= 2 {
		client = folders[1]
	}
	if len(folders) >= 3 {
		product = folders[2]
	}
	return country, client, product, relFolder
}

func isSpreadsheet(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".xlsx" || ext == ".xls"
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func sanitizeIDPart(s string) string {
	return nonAlnum.ReplaceAllString(s, "_")
}
