package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Connector pulls spreadsheet files from a local directory tree.
type Connector struct {
	sourceID string
	config   *Config
	mu       sync.Mutex
	closed   bool
}

// New creates a new filesystem connector.
func New(sourceID string, cfg *Config) *Connector {
	return &Connector{
		sourceID: sourceID,
		config:   cfg,
	}
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return "filesystem"
}

// SourceID returns the source identifier.
func (c *Connector) SourceID() string {
	return c.sourceID
}

// Capabilities returns the connector's capabilities.
func (c *Connector) Capabilities() driven.ConnectorCapabilities {
	return driven.ConnectorCapabilities{
		SupportsIncremental:  true,
		SupportsWatch:        true,
		RequiresAuth:         false,
		SupportsValidation:   true,
		SupportsCursorReturn: true,
		SupportsRateLimiting: false,
	}
}

// Validate checks the configured root exists and is a directory.
func (c *Connector) Validate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return domain.ErrConnectorClosed
	}

	info, err := os.Stat(c.config.Root)
	if os.IsNotExist(err) {
		return fmt.Errorf("root path does not exist: %s", c.config.Root)
	}
	if err != nil {
		return fmt.Errorf("stat root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path is not a directory: %s", c.config.Root)
	}
	return nil
}

// FullPull walks the root directory and emits every matching spreadsheet.
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

		// Capture the cursor before walking so concurrent writes are not
		// missed by the next incremental pull.
		pullStart := time.Now()

		err := c.walk(ctx, func(path string, info fs.FileInfo) error {
			file, err := c.readFile(path, info)
			if err != nil {
				return nil // Skip files we can't read
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case filesChan <- file:
				return nil
			}
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			errsChan <- fmt.Errorf("walk %s: %w", c.config.Root, err)
			return
		}

		errsChan <- &driven.PullComplete{
			NewCursor: encodeCursor(pullStart),
		}
	}()

	return filesChan, errsChan
}

// IncrementalPull emits files modified since the cursor timestamp.
// An empty cursor behaves like a full pull with created changes.
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

		pullStart := time.Now()

		changeType := domain.ChangeUpdated
		if since.IsZero() {
			changeType = domain.ChangeCreated
		}

		err = c.walk(ctx, func(path string, info fs.FileInfo) error {
			if !since.IsZero() && !info.ModTime().After(since) {
				return nil
			}

			file, err := c.readFile(path, info)
			if err != nil {
				return nil
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case changesChan <- domain.FileChange{Type: changeType, File: file}:
				return nil
			}
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			errsChan <- fmt.Errorf("walk %s: %w", c.config.Root, err)
			return
		}

		errsChan <- &driven.PullComplete{
			NewCursor: encodeCursor(pullStart),
		}
	}()

	return changesChan, errsChan
}

// Watch emits change events for spreadsheet files under the root.
// The watcher follows directories created after the watch starts and
// stops when the context is cancelled.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.FileChange, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, domain.ErrConnectorClosed
	}
	c.mu.Unlock()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	// Watch the root and every existing subdirectory.
	err = filepath.WalkDir(c.config.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if isHidden(d.Name()) && path != c.config.Root {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", c.config.Root, err)
	}

	changesChan := make(chan domain.FileChange)

	go func() {
		defer close(changesChan)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				change, ok := c.handleEvent(watcher, event)
				if !ok {
					continue
				}
				select {
				case <-ctx.Done():
					return
				case changesChan <- change:
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Watch errors are transient, keep watching.
			}
		}
	}()

	return changesChan, nil
}

// handleEvent translates one fsnotify event into a file change.
// Returns false when the event is not a matching spreadsheet.
func (c *Connector) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) (domain.FileChange, bool) {
	name := filepath.Base(event.Name)

	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !isHidden(name) {
				_ = watcher.Add(event.Name)
			}
			return domain.FileChange{}, false
		}
	}

	if !c.wantsFile(name) {
		return domain.FileChange{}, false
	}

	switch {
	case event.Op.Has(fsnotify.Create):
		info, err := os.Stat(event.Name)
		if err != nil {
			return domain.FileChange{}, false
		}
		file, err := c.readFile(event.Name, info)
		if err != nil {
			return domain.FileChange{}, false
		}
		return domain.FileChange{Type: domain.ChangeCreated, File: file}, true

	case event.Op.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil {
			return domain.FileChange{}, false
		}
		file, err := c.readFile(event.Name, info)
		if err != nil {
			return domain.FileChange{}, false
		}
		return domain.FileChange{Type: domain.ChangeUpdated, File: file}, true

	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		return domain.FileChange{
			Type: domain.ChangeDeleted,
			File: domain.RemoteFile{
				SourceID: c.sourceID,
				Path:     c.relativePath(event.Name),
				Name:     name,
			},
		}, true
	}

	return domain.FileChange{}, false
}

// Close releases resources.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// walk visits every matching spreadsheet file under the root.
// Hidden directories and files are skipped.
func (c *Connector) walk(ctx context.Context, visit func(path string, info fs.FileInfo) error) error {
	return filepath.WalkDir(c.config.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.IsDir() {
			if isHidden(d.Name()) && path != c.config.Root {
				return filepath.SkipDir
			}
			return nil
		}

		if !c.wantsFile(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		return visit(path, info)
	})
}

// wantsFile reports whether a filename is a matching spreadsheet.
// Hidden files and Excel lock files (~$) are never wanted.
func (c *Connector) wantsFile(name string) bool {
	if isHidden(name) || strings.HasPrefix(name, "~$") {
		return false
	}
	if !isSpreadsheet(name) {
		return false
	}
	return matchesPatterns(name, c.config.Patterns)
}

// readFile builds the RemoteFile for one path, reading its content.
func (c *Connector) readFile(path string, info fs.FileInfo) (domain.RemoteFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.RemoteFile{}, fmt.Errorf("read %s: %w", path, err)
	}

	return domain.RemoteFile{
		SourceID: c.sourceID,
		Path:     c.relativePath(path),
		Name:     info.Name(),
		Size:     info.Size(),
		Modified: info.ModTime(),
		Content:  content,
		Metadata: map[string]any{
			"absolute_path": path,
		},
	}, nil
}

// relativePath maps an absolute path to a root-relative slash path.
func (c *Connector) relativePath(path string) string {
	rel, err := filepath.Rel(c.config.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// isHidden reports whether a file or directory name is hidden.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// isSpreadsheet reports whether the filename has a spreadsheet extension.
func isSpreadsheet(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".xlsx" || ext == ".xls"
}

// matchesPatterns checks if a filename matches any of the patterns.
// Empty patterns match everything.
func matchesPatterns(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}

	for _, pattern := range patterns {
		matched, err := filepath.Match(strings.ToLower(pattern), strings.ToLower(name))
		if err == nil && matched {
			return true
		}
	}
	return false
}

// encodeCursor serializes a pull timestamp as Unix nanoseconds.
func encodeCursor(t time.Time) string {
	return strconv.FormatInt(t.UnixNano(), 10)
}

// decodeCursor parses a cursor back into a timestamp.
// An empty cursor decodes to the zero time.
func decodeCursor(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	nanos, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cursor format: %w", err)
	}
	return time.Unix(0, nanos), nil
}
