package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driven"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driving"
	"github.com/naveenbxyz/spexplorer/internal/logger"
)

// Ensure PullOrchestrator implements the interface.
var _ driving.PullOrchestrator = (*PullOrchestrator)(nil)

// PullOrchestrator coordinates downloading spreadsheet files from sources
// into the local download directory, preserving the source's folder
// structure so the selector can read country/client/product from it.
type PullOrchestrator struct {
	sourceStore    driven.SourceStore
	pullStore      driven.PullStateStore
	exclusionStore driven.ExclusionStore
	factory        driven.ConnectorFactory
	downloadDir    string

	// Status tracking
	mu          sync.RWMutex
	activePulls map[string]*driving.PullStatus
}

// NewPullOrchestrator creates a new pull orchestrator.
func NewPullOrchestrator(
	sourceStore driven.SourceStore,
	pullStore driven.PullStateStore,
	exclusionStore driven.ExclusionStore,
	factory driven.ConnectorFactory,
	downloadDir string,
) *PullOrchestrator {
	return &PullOrchestrator{
		sourceStore:    sourceStore,
		pullStore:      pullStore,
		exclusionStore: exclusionStore,
		factory:        factory,
		downloadDir:    downloadDir,
		activePulls:    make(map[string]*driving.PullStatus),
	}
}

// Pull triggers a pull for a source.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (o *PullOrchestrator) Pull(ctx context.Context, sourceID string) error {
	source, err := o.sourceStore.Get(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("get source: %w", err)
	}

	if o.factory == nil {
		return fmt.Errorf("create connector: connector factory not configured")
	}
	connector, err := o.factory.Create(ctx, *source)
	if err != nil {
		return fmt.Errorf("create connector: %w", err)
	}
	defer connector.Close()

	caps := connector.Capabilities()
	if caps.SupportsValidation {
		if err := connector.Validate(ctx); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrConnectorValidation, err)
		}
	}

	pullState, err := o.pullStore.Get(ctx, sourceID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get pull state: %w", err)
	}

	status, err := o.beginPull(sourceID)
	if err != nil {
		return err
	}
	defer o.clearStatus(sourceID)

	logger.Info("Starting pull for source %s", sourceID)

	var newCursor string
	if caps.SupportsIncremental && pullState != nil && pullState.Cursor != "" {
		changesCh, errsCh := connector.IncrementalPull(ctx, *pullState)
		newCursor, err = o.processChanges(ctx, source, changesCh, errsCh, status)
	} else {
		filesCh, errsCh := connector.FullPull(ctx)
		newCursor, err = o.processFiles(ctx, source, filesCh, errsCh, status)
		// For full pulls, fall back to current time if no cursor was returned
		if err == nil && newCursor == "" && caps.SupportsCursorReturn {
			newCursor = fmt.Sprintf("%d", time.Now().UnixNano())
		}
	}

	if err != nil {
		return err
	}

	newState := domain.PullState{
		SourceID: sourceID,
		Cursor:   newCursor,
		LastPull: time.Now(),
	}
	if err := o.pullStore.Save(ctx, newState); err != nil {
		return fmt.Errorf("save pull state: %w", err)
	}

	logger.Info("Pull complete: %d files, %d errors", status.FilesFetched, status.ErrorCount)
	return nil
}

// PullAll triggers a pull for all configured sources.
func (o *PullOrchestrator) PullAll(ctx context.Context) error {
	sources, err := o.sourceStore.List(ctx)
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}

	var errs []error
	for _, source := range sources {
		if err := o.Pull(ctx, source.ID); err != nil {
			errs = append(errs, fmt.Errorf("pull %s: %w", source.ID, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Status returns pull status for a source.
func (o *PullOrchestrator) Status(_ context.Context, sourceID string) (*driving.PullStatus, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if status, ok := o.activePulls[sourceID]; ok {
		// Return a copy to avoid race conditions
		return &driving.PullStatus{
			SourceID:     status.SourceID,
			Running:      status.Running,
			FilesFetched: status.FilesFetched,
			ErrorCount:   status.ErrorCount,
		}, nil
	}

	return &driving.PullStatus{
		SourceID: sourceID,
		Running:  false,
	}, nil
}

// Watch streams live file changes from a source into the download
// directory. Deletions remove the local copy. Blocks until ctx is
// cancelled or the connector's event channel closes.
func (o *PullOrchestrator) Watch(ctx context.Context, sourceID string, onFile func(localPath string)) error {
	source, err := o.sourceStore.Get(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("get source: %w", err)
	}

	if o.factory == nil {
		return fmt.Errorf("create connector: connector factory not configured")
	}
	connector, err := o.factory.Create(ctx, *source)
	if err != nil {
		return fmt.Errorf("create connector: %w", err)
	}
	defer connector.Close()

	if !connector.Capabilities().SupportsWatch {
		return fmt.Errorf("source %s (%s): %w", sourceID, source.Type, domain.ErrWatchUnsupported)
	}

	changesCh, err := connector.Watch(ctx)
	if err != nil {
		return fmt.Errorf("start watch: %w", err)
	}

	logger.Info("Watching source %s for changes", sourceID)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case change, ok := <-changesCh:
			if !ok {
				return nil
			}

			switch change.Type {
			case domain.ChangeCreated, domain.ChangeUpdated:
				logger.Debug("Changed: %s", change.File.Path)
				if err := o.saveFile(ctx, source, &change.File); err != nil {
					logger.Warn("Failed to save %s: %v", change.File.Path, err)
					continue
				}
				if onFile != nil {
					onFile(o.localPath(source, change.File.Path))
				}

			case domain.ChangeDeleted:
				logger.Debug("Removing: %s", change.File.Path)
				if err := os.Remove(o.localPath(source, change.File.Path)); err != nil && !os.IsNotExist(err) {
					logger.Warn("Failed to remove %s: %v", change.File.Path, err)
				}
			}
		}
	}
}

// beginPull registers status tracking and rejects concurrent pulls for the
// same source.
func (o *PullOrchestrator) beginPull(sourceID string) (*driving.PullStatus, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if existing, ok := o.activePulls[sourceID]; ok && existing.Running {
		return nil, fmt.Errorf("source %s: %w", sourceID, domain.ErrPullInProgress)
	}

	status := &driving.PullStatus{
		SourceID: sourceID,
		Running:  true,
	}
	o.activePulls[sourceID] = status
	return status, nil
}

// clearStatus removes the pull status for a source.
func (o *PullOrchestrator) clearStatus(sourceID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.activePulls, sourceID)
}

// processFiles handles a full pull - writes every file the connector sends.
// Returns the new cursor from PullComplete if the connector provides one.
func (o *PullOrchestrator) processFiles(
	ctx context.Context,
	source *domain.Source,
	filesCh <-chan domain.RemoteFile,
	errsCh <-chan error,
	status *driving.PullStatus,
) (string, error) {
	var newCursor string

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()

		case err, ok := <-errsCh:
			if !ok {
				errsCh = nil
				continue
			}
			if pc, isComplete := driven.IsPullComplete(err); isComplete {
				newCursor = pc.NewCursor
				continue
			}
			if err != nil {
				return "", fmt.Errorf("connector error: %w", err)
			}

		case file, ok := <-filesCh:
			if !ok {
				return newCursor, nil
			}

			logger.Debug("Fetched: %s", file.Path)
			if err := o.saveFile(ctx, source, &file); err != nil {
				status.ErrorCount++
				logger.Debug("Failed to save %s: %v", file.Path, err)
				continue
			}
			status.FilesFetched++
		}
	}
}

// processChanges handles an incremental pull.
// Returns the new cursor from PullComplete if the connector provides one.
func (o *PullOrchestrator) processChanges(
	ctx context.Context,
	source *domain.Source,
	changesCh <-chan domain.FileChange,
	errsCh <-chan error,
	status *driving.PullStatus,
) (string, error) {
	var newCursor string

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()

		case err, ok := <-errsCh:
			if !ok {
				errsCh = nil
				continue
			}
			if pc, isComplete := driven.IsPullComplete(err); isComplete {
				newCursor = pc.NewCursor
				continue
			}
			if err != nil {
				return "", fmt.Errorf("connector error: %w", err)
			}

		case change, ok := <-changesCh:
			if !ok {
				return newCursor, nil
			}

			switch change.Type {
			case domain.ChangeCreated, domain.ChangeUpdated:
				logger.Debug("Fetched: %s", change.File.Path)
				if err := o.saveFile(ctx, source, &change.File); err != nil {
					status.ErrorCount++
					logger.Debug("Failed to save %s: %v", change.File.Path, err)
					continue
				}

			case domain.ChangeDeleted:
				logger.Debug("Removing: %s", change.File.Path)
				if err := os.Remove(o.localPath(source, change.File.Path)); err != nil && !os.IsNotExist(err) {
					status.ErrorCount++
					logger.Debug("Failed to remove %s: %v", change.File.Path, err)
					continue
				}
			}
			status.FilesFetched++
		}
	}
}

// saveFile writes one fetched file under the download directory, mirroring
// the source's folder structure.
func (o *PullOrchestrator) saveFile(ctx context.Context, source *domain.Source, file *domain.RemoteFile) error {
	if o.exclusionStore != nil {
		excluded, err := o.exclusionStore.IsExcluded(ctx, source.ID, file.Path)
		if err != nil {
			return fmt.Errorf("check exclusion: %w", err)
		}
		if excluded {
			return nil // Skip silently
		}
	}

	dest := o.localPath(source, file.Path)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create folder: %w", err)
	}
	if err := os.WriteFile(dest, file.Content, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// localPath maps a source-relative remote path to the download directory.
// Sources may override the directory with a download_dir config key.
func (o *PullOrchestrator) localPath(source *domain.Source, remotePath string) string {
	dir := o.downloadDir
	if override := source.Config["download_dir"]; override != "" {
		dir = override
	}
	return filepath.Join(dir, filepath.FromSlash(remotePath))
}
