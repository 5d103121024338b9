package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/naveenbxyz/spexplorer/internal/core/ports/driving"
)

var pullCmd = &cobra.Command{
	Use:   "pull [source-id]",
	Short: "Download spreadsheets from sources",
	Long: `Triggers a spreadsheet download from configured sources.
If a source ID is provided, only that source is pulled. Otherwise, all
sources are pulled. Files land in the download directory, keeping the
source's folder structure, ready for 'spexplorer process'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPull,
}

func init() {
	rootCmd.AddCommand(pullCmd)
}

func runPull(cmd *cobra.Command, args []string) error {
	if pullOrchestrator == nil {
		return errors.New("pull service not configured")
	}

	ctx := context.Background()

	if len(args) > 0 {
		// Pull specific source
		sourceID := args[0]
		cmd.Printf("Pulling source: %s...\n", sourceID)

		if err := pullWithProgress(ctx, cmd, pullOrchestrator, sourceID); err != nil {
			return fmt.Errorf("pull failed: %w", err)
		}

		cmd.Printf("Source %s pulled successfully.\n", sourceID)
	} else {
		// Pull all sources
		cmd.Println("Pulling all sources...")

		if err := pullOrchestrator.PullAll(ctx); err != nil {
			return fmt.Errorf("pull failed: %w", err)
		}

		cmd.Println("All sources pulled successfully.")
	}

	return nil
}

// pullWithProgress runs the pull while displaying progress updates.
func pullWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	orchestrator driving.PullOrchestrator,
	sourceID string,
) error {
	// Start pull in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- orchestrator.Pull(ctx, sourceID)
	}()

	// Poll status every 500ms
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastCount := 0
	for {
		select {
		case err := <-errCh:
			// Print final status (ignore status error - best effort)
			status, statusErr := orchestrator.Status(ctx, sourceID)
			if statusErr == nil && status != nil && status.FilesFetched > 0 {
				cmd.Printf("\rFetched %d files (%d errors)\n",
					status.FilesFetched, status.ErrorCount)
			}
			return err
		case <-ticker.C:
			// Check progress (ignore status error - best effort)
			status, statusErr := orchestrator.Status(ctx, sourceID)
			if statusErr == nil && status != nil && status.FilesFetched > lastCount {
				cmd.Printf("\rFetching... %d files", status.FilesFetched)
				lastCount = status.FilesFetched
			}
		}
	}
}
