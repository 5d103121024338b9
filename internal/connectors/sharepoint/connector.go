package sharepoint

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Connector pulls spreadsheet files from a SharePoint document library.
type Connector struct {
	sourceID string
	config   *Config
	client   *Client
	mu       sync.Mutex
	closed   bool
}

// New creates a new SharePoint connector for a single site folder.
func New(sourceID string, cfg *Config, creds *domain.Credentials) (*Connector, error) {
	client, err := NewClient(cfg.SiteURL, creds)
	if err != nil {
		return nil, err
	}

	return &Connector{
		sourceID: sourceID,
		config:   cfg,
		client:   client,
	}, nil
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return "sharepoint"
}

// SourceID returns the source identifier.
func (c *Connector) SourceID() string {
	return c.sourceID
}

// Capabilities returns the connector's capabilities.
func (c *Connector) Capabilities() driven.ConnectorCapabilities {
	return driven.ConnectorCapabilities{
		SupportsIncremental:  true,
		SupportsWatch:        false, // No change notifications over plain REST
		RequiresAuth:         true,
		SupportsValidation:   true,
		SupportsCursorReturn: true,
		SupportsRateLimiting: true,
	}
}

// Validate checks if the SharePoint connector is properly configured.
func (c *Connector) Validate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return domain.ErrConnectorClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	// Probe the site to confirm credentials work
	if err := c.client.Validate(ctx); err != nil {
		if IsUnauthorized(err) {
			return domain.ErrAuthInvalid
		}
		return fmt.Errorf("%w: %w", domain.ErrAuthRequired, err)
	}

	// Confirm the configured folder is reachable
	if _, err := c.client.ListFolders(ctx, c.config.FolderPath); err != nil {
		if IsNotFound(err) {
			return fmt.Errorf("%w: %s", ErrFolderNotFound, c.config.FolderPath)
		}
		return err
	}

	return nil
}

// FullPull fetches all spreadsheet files from the configured folder.
func (c *Connector) FullPull(ctx context.Context) (<-chan domain.RemoteFile, <-chan error) {
	filesChan := make(chan domain.RemoteFile)
	errsChan := make(chan error, 1)

	go func() {
		defer close(filesChan)
		defer close(errsChan)

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			errsChan <- domain.ErrConnectorClosed
			return
		}
		c.mu.Unlock()

		list, err := c.walk(ctx)
		if err != nil {
			errsChan <- fmt.Errorf("list folder: %w", err)
			return
		}

		var watermark time.Time
		for _, f := range list {
			select {
			case <-ctx.Done():
				return
			default:
			}

			file, err := c.download(ctx, f)
			if err != nil {
				// Skip files we can't read
				continue
			}

			if f.Modified.After(watermark) {
				watermark = f.Modified
			}

			select {
			case <-ctx.Done():
				return
			case filesChan <- file:
			}
		}

		errsChan <- &driven.PullComplete{
			NewCursor: encodeCursor(watermark),
		}
	}()

	return filesChan, errsChan
}

// IncrementalPull fetches files modified since the last pull. The cursor
// is a watermark holding the highest TimeLastModified previously seen.
func (c *Connector) IncrementalPull(
	ctx context.Context, state domain.PullState,
) (<-chan domain.FileChange, <-chan error) {
	changesChan := make(chan domain.FileChange)
	errsChan := make(chan error, 1)

	go func() {
		defer close(changesChan)
		defer close(errsChan)

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			errsChan <- domain.ErrConnectorClosed
			return
		}
		c.mu.Unlock()

		since, err := decodeCursor(state.Cursor)
		if err != nil {
			errsChan <- err
			return
		}

		list, err := c.walk(ctx)
		if err != nil {
			errsChan <- fmt.Errorf("list folder: %w", err)
			return
		}

		changeType := domain.ChangeUpdated
		if since.IsZero() {
			// First pull against this cursor, everything is new.
			changeType = domain.ChangeCreated
		}

		watermark := since
		for _, f := range list {
			if !f.Modified.After(since) {
				continue
			}

			select {
			case <-ctx.Done():
				return
			default:
			}

			file, err := c.download(ctx, f)
			if err != nil {
				continue
			}

			if f.Modified.After(watermark) {
				watermark = f.Modified
			}

			select {
			case <-ctx.Done():
				return
			case changesChan <- domain.FileChange{
				Type: changeType,
				File: file,
			}:
			}
		}

		errsChan <- &driven.PullComplete{
			NewCursor: encodeCursor(watermark),
		}
	}()

	return changesChan, errsChan
}

// walk lists all matching files under the configured folder, descending
// into subfolders when recursion is enabled.
func (c *Connector) walk(ctx context.Context) ([]File, error) {
	var files []File
	queue := []string{c.config.FolderPath}

	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		folder := queue[0]
		queue = queue[1:]

		list, err := c.client.ListFiles(ctx, folder)
		if err != nil {
			return nil, err
		}
		for _, f := range list {
			if wantsFile(f.Name, c.config.Patterns) {
				files = append(files, f)
			}
		}

		if !c.config.Recursive {
			continue
		}

		subs, err := c.client.ListFolders(ctx, folder)
		if err != nil {
			return nil, err
		}
		for _, sub := range subs {
			if sub.Name == "Forms" {
				// Library-internal folder holding view definitions
				continue
			}
			queue = append(queue, sub.ServerRelativeURL)
		}
	}

	return files, nil
}

// download fetches the file content and builds the RemoteFile.
func (c *Connector) download(ctx context.Context, f File) (domain.RemoteFile, error) {
	content, err := c.client.Download(ctx, f.ServerRelativeURL)
	if err != nil {
		return domain.RemoteFile{}, fmt.Errorf("download %s: %w", f.ServerRelativeURL, err)
	}

	return domain.RemoteFile{
		SourceID: c.sourceID,
		Path:     c.relativePath(f.ServerRelativeURL),
		Name:     f.Name,
		Size:     f.Size,
		Modified: f.Modified,
		Content:  content,
		Metadata: map[string]any{
			"server_relative_url": f.ServerRelativeURL,
			"modified_by":         f.ModifiedBy,
		},
	}, nil
}

// relativePath converts a server-relative URL into a path relative to
// the configured folder.
func (c *Connector) relativePath(serverRelativeURL string) string {
	rel := strings.TrimPrefix(serverRelativeURL, c.config.FolderPath)
	return strings.TrimPrefix(rel, "/")
}

// Watch is not supported for SharePoint (no change notifications over
// plain REST).
func (c *Connector) Watch(_ context.Context) (<-chan domain.FileChange, error) {
	return nil, domain.ErrNotImplemented
}

// Close releases resources.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// wantsFile reports whether a filename is a spreadsheet matching the
// configured patterns.
func wantsFile(name string, patterns []string) bool {
	if !isSpreadsheet(name) {
		return false
	}
	return matchesPatterns(name, patterns)
}

// isSpreadsheet checks the filename extension.
func isSpreadsheet(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".xlsx", ".xls":
		return true
	}
	return false
}

// matchesPatterns checks a filename against the configured patterns.
// Matching is case-insensitive.
func matchesPatterns(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}

	lower := strings.ToLower(name)
	for _, pattern := range patterns {
		if ok, err := path.Match(strings.ToLower(pattern), lower); err == nil && ok {
			return true
		}
	}
	return false
}

// encodeCursor serialises a watermark time as the pull cursor.
func encodeCursor(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// decodeCursor parses a cursor produced by encodeCursor. An empty cursor
// yields the zero time, meaning every file counts as new.
func decodeCursor(cursor string) (time.Time, error) {
	if cursor == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.RFC3339Nano, cursor)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidCursor, cursor)
	}
	return t, nil
}
