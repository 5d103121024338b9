package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract one workbook and print its structure",
	Long: `Runs the extraction engine over a single workbook without storing the
result. Useful for inspecting how a file will be segmented before
processing a whole directory. Use --json to dump the full extraction
including section payloads.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

var extractJSON bool

func init() {
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Output the full extraction as JSON")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if extractionService == nil {
		return errors.New("extraction service not configured")
	}

	ctx := context.Background()

	doc, err := extractionService.ExtractFile(ctx, args[0])
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if extractJSON {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal document: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("File: %s\n", args[0])
	printDocumentOutline(cmd, doc)
	return nil
}
