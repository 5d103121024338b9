package github

import (
	"context"
	"fmt"
	"sync"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Connector pulls spreadsheet files from a GitHub repository.
type Connector struct {
	sourceID string
	config   *Config
	client   *Client
	mu       sync.Mutex
	closed   bool
}

// New creates a new GitHub connector for a single repository.
func New(sourceID string, cfg *Config, token string) *Connector {
	return &Connector{
		sourceID: sourceID,
		config:   cfg,
		client:   NewClient(context.Background(), token),
	}
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return "github"
}

// SourceID returns the source identifier.
func (c *Connector) SourceID() string {
	return c.sourceID
}

// Capabilities returns the connector's capabilities.
func (c *Connector) Capabilities() driven.ConnectorCapabilities {
	return driven.ConnectorCapabilities{
		SupportsIncremental:  true,
		SupportsWatch:        false, // No webhooks in CLI
		RequiresAuth:         true,
		SupportsValidation:   true,
		SupportsCursorReturn: true,
		SupportsRateLimiting: true,
	}
}

// Validate checks if the GitHub connector is properly configured.
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

	// Validate credentials by making an API call
	if err := c.client.ValidateCredentials(ctx); err != nil {
		if IsUnauthorized(err) {
			return domain.ErrAuthInvalid
		}
		return fmt.Errorf("%w: %w", domain.ErrAuthRequired, err)
	}

	// Confirm the configured repository is reachable
	if _, err := c.client.GetRepository(ctx, c.config.Owner, c.config.Repo); err != nil {
		if IsNotFound(err) {
			return fmt.Errorf("%w: %s", ErrRepoNotFound, c.config.FullName())
		}
		return err
	}

	return nil
}

// resolveBranch returns the branch to pull from, querying the repository
// for its default branch when none is configured.
func (c *Connector) resolveBranch(ctx context.Context) (string, error) {
	if c.config.Branch != "" {
		return c.config.Branch, nil
	}

	repo, err := c.client.GetRepository(ctx, c.config.Owner, c.config.Repo)
	if err != nil {
		return "", fmt.Errorf("get repo: %w", err)
	}
	return repo.GetDefaultBranch(), nil
}

// FullPull fetches all spreadsheet files from the repository.
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

		branch, err := c.resolveBranch(ctx)
		if err != nil {
			errsChan <- err
			return
		}

		list, treeSHA, err := ListSpreadsheets(ctx, c.client, c.config, branch)
		if err != nil {
			errsChan <- fmt.Errorf("list spreadsheets: %w", err)
			return
		}

		for _, f := range list {
			select {
			case <-ctx.Done():
				return
			default:
			}

			file, err := c.download(ctx, branch, f)
			if err != nil {
				// Skip blobs we can't read
				continue
			}

			select {
			case <-ctx.Done():
				return
			case filesChan <- file:
			}
		}

		cursor := &Cursor{Version: CursorVersion, TreeSHA: treeSHA, Branch: branch}
		errsChan <- &driven.PullComplete{
			NewCursor: cursor.Encode(),
		}
	}()

	return filesChan, errsChan
}

// IncrementalPull fetches changes since the last pull.
// The tree SHA in the cursor is compared against the current HEAD; when
// they differ, all matching files are re-emitted as updates.
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

		cursor, err := DecodeCursor(state.Cursor)
		if err != nil {
			errsChan <- fmt.Errorf("decode cursor: %w", err)
			return
		}

		branch, err := c.resolveBranch(ctx)
		if err != nil {
			errsChan <- err
			return
		}

		list, treeSHA, err := ListSpreadsheets(ctx, c.client, c.config, branch)
		if err != nil {
			errsChan <- fmt.Errorf("list spreadsheets: %w", err)
			return
		}

		if treeSHA == cursor.TreeSHA && branch == cursor.Branch {
			// Nothing changed since the last pull.
			errsChan <- &driven.PullComplete{NewCursor: state.Cursor}
			return
		}

		// Tree changed, re-emit all matching files (could optimize with diff).
		for _, f := range list {
			select {
			case <-ctx.Done():
				return
			default:
			}

			file, err := c.download(ctx, branch, f)
			if err != nil {
				continue
			}

			select {
			case <-ctx.Done():
				return
			case changesChan <- domain.FileChange{
				Type: domain.ChangeUpdated,
				File: file,
			}:
			}
		}

		updated := &Cursor{Version: CursorVersion, TreeSHA: treeSHA, Branch: branch}
		errsChan <- &driven.PullComplete{
			NewCursor: updated.Encode(),
		}
	}()

	return changesChan, errsChan
}

// download fetches the blob content and builds the RemoteFile.
func (c *Connector) download(ctx context.Context, branch string, f TreeFile) (domain.RemoteFile, error) {
	content, err := c.client.DownloadBlob(ctx, c.config.Owner, c.config.Repo, f.SHA)
	if err != nil {
		return domain.RemoteFile{}, fmt.Errorf("download %s: %w", f.Path, err)
	}

	return domain.RemoteFile{
		SourceID: c.sourceID,
		Path:     f.Path,
		Name:     f.Name,
		Size:     f.Size,
		Content:  content,
		Metadata: map[string]any{
			"repo":   c.config.FullName(),
			"branch": branch,
			"sha":    f.SHA,
		},
	}, nil
}

// Watch is not supported for GitHub (no webhooks in CLI).
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
