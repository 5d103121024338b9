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

// Flags for search.
var (
	searchCountry  string
	searchProduct  string
	searchCluster  int64
	searchStatus   string
	searchHasField string
	searchLimit    int
	searchOffset   int
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Searches the stored document index. The query matches document IDs,
client names, and filenames; flags narrow by folder position, pattern
cluster, processing status, or the presence of an extracted field.

Run without a query to list documents by filters alone.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchCountry, "country", "", "Filter by country folder")
	searchCmd.Flags().StringVar(&searchProduct, "product", "", "Filter by product folder")
	searchCmd.Flags().Int64Var(&searchCluster, "cluster", -1, "Filter by pattern cluster ID")
	searchCmd.Flags().StringVar(&searchStatus, "status", "", "Filter by processing status (success, failed)")
	searchCmd.Flags().StringVar(&searchHasField, "has-field", "", "Keep documents containing the named field")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "Maximum number of results (0 = all)")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "Number of results to skip")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	ctx := context.Background()

	filter := domain.SearchFilter{
		Country:  searchCountry,
		Product:  searchProduct,
		Status:   domain.ProcessingStatus(searchStatus),
		HasField: searchHasField,
		Limit:    searchLimit,
		Offset:   searchOffset,
	}
	if len(args) > 0 {
		filter.Query = args[0]
	}
	if searchCluster >= 0 {
		filter.ClusterID = &searchCluster
	}

	results, err := searchService.Search(ctx, filter)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("Results: %d\n", len(results))
	cmd.Println()
	for i := range results {
		r := &results[i]
		cmd.Printf("  [%d] %s (%s)\n", i+1, r.ID, r.Status)

		var location []string
		for _, part := range []string{r.Country, r.Client, r.Product} {
			if part != "" {
				location = append(location, part)
			}
		}
		if len(location) > 0 {
			cmd.Printf("      Location: %s\n", strings.Join(location, "/"))
		}
		if r.Filename != "" {
			cmd.Printf("      File: %s\n", r.Filename)
		}

		line := fmt.Sprintf("%d sections", r.SectionCount)
		if r.ClusterID != nil {
			line += fmt.Sprintf(", cluster %d", *r.ClusterID)
		}
		cmd.Printf("      %s\n", line)
		cmd.Println()
	}

	return nil
}
