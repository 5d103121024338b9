package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/naveenbxyz/spexplorer/internal/core/ports/driving"
)

var watchCmd = &cobra.Command{
	Use:   "watch [source-id]",
	Short: "Watch a source and process files as they land",
	Long: `Watches a source for live file changes. Each changed spreadsheet is
downloaded and extraction re-runs over the download directory, so the
latest-file rule still decides what gets extracted. Only connectors
that push change events support watching (filesystem).

Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if pullOrchestrator == nil {
		return errors.New("pull service not configured")
	}
	if processService == nil {
		return errors.New("process service not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sourceID := args[0]
	cmd.Printf("Watching source %s. Press Ctrl-C to stop.\n", sourceID)

	err := pullOrchestrator.Watch(ctx, sourceID, func(localPath string) {
		cmd.Printf("Landed: %s\n", filepath.Base(localPath))

		report, procErr := processService.Process(ctx, driving.ProcessOptions{SourceID: sourceID})
		if procErr != nil {
			cmd.Printf("  processing failed: %v\n", procErr)
			return
		}
		if report != nil && (report.Processed > 0 || report.Failed > 0) {
			cmd.Printf("  %d processed, %d failed, %d skipped\n",
				report.Processed, report.Failed, report.Skipped)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch failed: %w", err)
	}

	cmd.Println("Watch stopped.")
	return nil
}
