package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/naveenbxyz/spexplorer/internal/core/ports/driving"
)

var processCmd = &cobra.Command{
	Use:   "process [path]",
	Short: "Extract structure from downloaded spreadsheets",
	Long: `Runs batch extraction over the spreadsheets under a directory.

Files are grouped by their country/client/product folder position and
only the most recent file of each group is processed. Each selected
workbook is segmented into sections, fingerprinted, and stored in the
index. Already-successful documents are skipped unless --reprocess is
given.

With no path argument the configured download directory is scanned.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProcess,
}

// Flags for process.
var (
	processWorkers   int
	processTimeout   time.Duration
	processRetries   int
	processReprocess bool
	processSourceID  string
)

func init() {
	processCmd.Flags().IntVarP(
		&processWorkers, "workers", "w", 0, "Worker pool size (0 = configured default)")
	processCmd.Flags().DurationVar(
		&processTimeout, "timeout", 0, "Per-file time budget (0 = configured default)")
	processCmd.Flags().IntVar(
		&processRetries, "retries", 0, "Retry attempts for failed files (0 = configured default, -1 = none)")
	processCmd.Flags().BoolVar(
		&processReprocess, "reprocess", false, "Re-extract already-successful documents")
	processCmd.Flags().StringVar(
		&processSourceID, "source", "", "Source ID to attribute stored documents to")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	if processService == nil {
		return errors.New("process service not configured")
	}

	ctx := context.Background()

	opts := driving.ProcessOptions{
		SourceID:   processSourceID,
		Workers:    processWorkers,
		Timeout:    processTimeout,
		MaxRetries: processRetries,
		Reprocess:  processReprocess,
	}
	if len(args) > 0 {
		opts.Root = args[0]
	}

	// Events arrive from worker goroutines.
	var mu sync.Mutex
	opts.Progress = func(event driving.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		renderProgress(cmd, event)
	}

	report, err := processService.Process(ctx, opts)
	printProcessReport(cmd, report)
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}
	return nil
}

// renderProgress prints one progress event. Failures get their own line;
// successes overwrite a single status line.
func renderProgress(cmd *cobra.Command, event driving.ProgressEvent) {
	switch event.Phase {
	case driving.PhaseDiscovery, driving.PhaseStart:
		if event.Message != "" {
			cmd.Println(event.Message)
		}
	case driving.PhaseProcessing:
		if event.Message != "" {
			cmd.Printf("\r[%d/%d] %s: %s\n",
				event.Current, event.Total, filepath.Base(event.File), event.Message)
			return
		}
		cmd.Printf("\r[%d/%d] %s", event.Current, event.Total, truncate(filepath.Base(event.File), 48))
	case driving.PhaseCompleted:
		cmd.Println()
	}
}

// printProcessReport summarises a finished run.
func printProcessReport(cmd *cobra.Command, report *driving.ProcessReport) {
	if report == nil {
		return
	}
	cmd.Println("Processing report:")
	cmd.Printf("  Selected:  %d\n", report.TotalFiles)
	cmd.Printf("  Processed: %d\n", report.Processed)
	cmd.Printf("  Failed:    %d\n", report.Failed)
	cmd.Printf("  Skipped:   %d\n", report.Skipped)
	if report.Retried > 0 {
		cmd.Printf("  Retries:   %d\n", report.Retried)
	}
	if report.Timeouts > 0 {
		cmd.Printf("  Timeouts:  %d\n", report.Timeouts)
	}
	cmd.Printf("  Duration:  %s (%.1f files/s)\n",
		report.Duration().Round(time.Millisecond), report.FilesPerSecond())
	if len(report.StuckFiles) > 0 {
		cmd.Println("  Stuck files:")
		for _, path := range report.StuckFiles {
			cmd.Printf("    %s\n", path)
		}
	}
}
