package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var excludeCmd = &cobra.Command{
	Use:   "exclude [document-id]",
	Short: "Exclude a document from future runs",
	Long: `Removes a stored document and marks its file path so future pulls and
processing runs skip it. Use for files that should never be extracted,
such as templates or scratch workbooks.`,
	Args: cobra.ExactArgs(1),
	RunE: runExclude,
}

var excludeReason string

func init() {
	excludeCmd.Flags().StringVar(&excludeReason, "reason", "", "Why the document is excluded")
	rootCmd.AddCommand(excludeCmd)
}

func runExclude(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := context.Background()

	if err := documentService.Exclude(ctx, args[0], excludeReason); err != nil {
		return fmt.Errorf("failed to exclude document: %w", err)
	}

	cmd.Printf("Excluded document: %s\n", args[0])
	return nil
}
