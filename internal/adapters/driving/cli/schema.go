package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Discover fields and manage canonical mappings",
	Long: `Discover which fields the stored documents carry and map them onto
canonical names.

'schema fields' scans the index for field usage. 'schema map' walks a
cluster's fields interactively and stores source-to-canonical mappings.
'schema apply' flattens one document's key-value payload through its
cluster's mappings.`,
}

var schemaFieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Show field usage across stored documents",
	RunE:  runSchemaFields,
}

var schemaMapCmd = &cobra.Command{
	Use:   "map [cluster-id]",
	Short: "Interactively map a cluster's fields to canonical names",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchemaMap,
}

var schemaMappingsCmd = &cobra.Command{
	Use:   "mappings [cluster-id]",
	Short: "List a cluster's stored field mappings",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchemaMappings,
}

var schemaApplyCmd = &cobra.Command{
	Use:   "apply [document-id]",
	Short: "Flatten a document through its cluster's mappings",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchemaApply,
}

// Flags for schema fields.
var (
	schemaFieldsCluster int64
	schemaFieldsSamples bool
)

func init() {
	schemaFieldsCmd.Flags().Int64Var(
		&schemaFieldsCluster, "cluster", -1, "Restrict the scan to one cluster's documents")
	schemaFieldsCmd.Flags().BoolVar(
		&schemaFieldsSamples, "samples", false, "Show sample values per field")

	schemaCmd.AddCommand(schemaFieldsCmd)
	schemaCmd.AddCommand(schemaMapCmd)
	schemaCmd.AddCommand(schemaMappingsCmd)
	schemaCmd.AddCommand(schemaApplyCmd)
	rootCmd.AddCommand(schemaCmd)
}

func runSchemaFields(cmd *cobra.Command, _ []string) error {
	if schemaService == nil {
		return errors.New("schema service not configured")
	}

	ctx := context.Background()

	var clusterID *int64
	if schemaFieldsCluster >= 0 {
		clusterID = &schemaFieldsCluster
	}

	stats, err := schemaService.FieldStatistics(ctx, clusterID)
	if err != nil {
		return fmt.Errorf("failed to compute field statistics: %w", err)
	}

	if len(stats) == 0 {
		cmd.Println("No fields found.")
		return nil
	}

	cmd.Printf("Fields: %d\n", len(stats))
	cmd.Println()
	for _, fs := range stats {
		line := fmt.Sprintf("  %-28s %4d docs  %5.1f%%", fs.Name, fs.Occurrences, fs.Frequency*100)
		if len(fs.SectionTypes) > 0 {
			types := make([]string, 0, len(fs.SectionTypes))
			for _, t := range fs.SectionTypes {
				types = append(types, string(t))
			}
			line += "  [" + strings.Join(types, ", ") + "]"
		}
		if fs.Canonical != "" {
			line += "  -> " + fs.Canonical
		}
		cmd.Println(line)

		if schemaFieldsSamples && len(fs.Samples) > 0 {
			samples := make([]string, 0, len(fs.Samples))
			for _, sample := range fs.Samples {
				samples = append(samples, fmt.Sprintf("%v", sample))
			}
			cmd.Printf("      samples: %s\n", strings.Join(samples, ", "))
		}
	}
	return nil
}

//nolint:errcheck // CLI interactive flow
func runSchemaMap(cmd *cobra.Command, args []string) error {
	if schemaService == nil {
		return errors.New("schema service not configured")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid cluster id %q", args[0])
	}

	ctx := context.Background()

	stats, err := schemaService.FieldStatistics(ctx, &id)
	if err != nil {
		return fmt.Errorf("failed to compute field statistics: %w", err)
	}
	if len(stats) == 0 {
		cmd.Println("No fields found for this cluster.")
		return nil
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Printf("Mapping %d fields for cluster %d\n", len(stats), id)
	cmd.Println("Press Enter to accept the suggestion, type a name to override,")
	cmd.Println("or '-' to leave the field unmapped.")
	cmd.Println()

	var mappings []domain.FieldMapping
	for _, fs := range stats {
		cmd.Printf("%s (%d docs) [%s]: ", fs.Name, fs.Occurrences, fs.Canonical)
		input := readLine(reader)
		if input == "-" {
			continue
		}
		if input == "" {
			input = fs.Canonical
		}
		if input == "" {
			continue
		}
		mappings = append(mappings, domain.FieldMapping{
			ClusterID:      id,
			SourceField:    fs.Name,
			CanonicalField: input,
		})
	}

	if err := schemaService.SaveMappings(ctx, id, mappings); err != nil {
		return fmt.Errorf("failed to save mappings: %w", err)
	}

	cmd.Printf("\nSaved %d mappings for cluster %d.\n", len(mappings), id)
	return nil
}

func runSchemaMappings(cmd *cobra.Command, args []string) error {
	if schemaService == nil {
		return errors.New("schema service not configured")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid cluster id %q", args[0])
	}

	ctx := context.Background()

	mappings, err := schemaService.Mappings(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list mappings: %w", err)
	}

	if len(mappings) == 0 {
		cmd.Printf("No mappings for cluster %d. Create them with 'spexplorer schema map %d'.\n", id, id)
		return nil
	}

	cmd.Printf("Mappings for cluster %d:\n", id)
	for _, m := range mappings {
		cmd.Printf("  %s -> %s\n", m.SourceField, m.CanonicalField)
	}
	return nil
}

func runSchemaApply(cmd *cobra.Command, args []string) error {
	if schemaService == nil {
		return errors.New("schema service not configured")
	}

	ctx := context.Background()

	payload, err := schemaService.Apply(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to apply mappings: %w", err)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
