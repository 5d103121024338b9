package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

var showCmd = &cobra.Command{
	Use:   "show [document-id]",
	Short: "Show a stored document's structure",
	Long: `Shows a stored document: file metadata, processing outcome, and the
extracted sheet and section structure. Use --json to dump the full
record including section payloads.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var showJSON bool

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output the full record as JSON")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := context.Background()

	record, err := documentService.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	if showJSON {
		data, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal document: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Document: %s\n", record.ID)
	cmd.Printf("  File: %s\n", record.File.Path)
	if record.File.Country != "" {
		cmd.Printf("  Country: %s\n", record.File.Country)
	}
	if record.File.Client != "" {
		cmd.Printf("  Client: %s\n", record.File.Client)
	}
	if record.File.Product != "" {
		cmd.Printf("  Product: %s\n", record.File.Product)
	}
	if record.File.ExtractedDate != nil {
		cmd.Printf("  File date: %s\n", record.File.ExtractedDate.Format("2006-01-02"))
	}
	if record.SourceID != "" {
		cmd.Printf("  Source: %s\n", record.SourceID)
	}
	if record.ClusterID != nil {
		cmd.Printf("  Cluster: %d\n", *record.ClusterID)
	}
	cmd.Printf("  Processed: %s\n", record.ProcessedAt.Format("2006-01-02 15:04"))
	cmd.Println()

	printDocumentOutline(cmd, &record.Document)
	return nil
}

// printDocumentOutline renders an extraction's sheet and section tree.
func printDocumentOutline(cmd *cobra.Command, doc *domain.Document) {
	cmd.Printf("Status: %s\n", doc.Status)
	if doc.ErrorMessage != "" {
		cmd.Printf("Error: %s\n", doc.ErrorMessage)
	}
	cmd.Printf("Fingerprint: %s\n", doc.Fingerprint)
	for _, warning := range doc.Warnings {
		cmd.Printf("Warning: %s\n", warning)
	}

	for _, sheet := range doc.Sheets {
		cmd.Printf("\nSheet %q (%d sections)\n", sheet.Name, len(sheet.Sections))
		for i, section := range sheet.Sections {
			line := fmt.Sprintf("  %d. %s", i+1, section.Type)
			if section.Header != "" {
				line += fmt.Sprintf(" %q", section.Header)
			}
			line += fmt.Sprintf("  rows %d-%d  confidence %.2f",
				section.Bounds.StartRow, section.Bounds.EndRow, section.Confidence)
			cmd.Println(line)

			if fields := section.FieldNames(); len(fields) > 0 {
				cmd.Printf("     fields: %s\n", strings.Join(fields, ", "))
			}
			if section.Table != nil {
				cmd.Printf("     records: %d\n", len(section.Table.Rows))
			}
			if section.ComplexHeader != nil {
				cmd.Printf("     records: %d (%d header levels)\n",
					len(section.ComplexHeader.Rows), section.ComplexHeader.HeaderLevels)
			}
		}
	}
}
