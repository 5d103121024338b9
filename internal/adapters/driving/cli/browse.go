package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/tui"
)

// browseCmd launches the terminal browser over the stored documents.
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse extracted documents in the terminal",
	Long: `Launch the interactive terminal browser.

The browser lists stored documents with filtering, shows each
document's extracted structure, and renders section payloads in a
scrollable view. Pattern clusters get their own view.

Controls:
  ↑/k, ↓/j - Navigate
  /        - Filter the list
  Enter    - Select
  Esc      - Back
  q        - Quit`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	// Surface panics with a stack trace instead of a mangled terminal
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	// The browser is long-running, so background tasks run alongside it.
	// Main injects the scheduler only when it is enabled.
	if schedulerService != nil {
		schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
		defer schedulerCancel()

		go func() {
			if err := schedulerService.Start(schedulerCtx); err != nil {
				fmt.Fprintf(os.Stderr, "scheduler stopped: %v\n", err)
			}
		}()

		defer func() {
			if err := schedulerService.Stop(); err != nil {
				fmt.Fprintf(os.Stderr, "scheduler stop error: %v\n", err)
			}
		}()
	}

	ports := &tui.Ports{
		Search:   searchService,
		Document: documentService,
		Cluster:  clusterService,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
