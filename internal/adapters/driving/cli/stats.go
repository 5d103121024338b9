package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	ctx := context.Background()

	stats, err := searchService.Statistics(ctx)
	if err != nil {
		return fmt.Errorf("failed to get statistics: %w", err)
	}

	cmd.Println("Index statistics:")
	cmd.Printf("  Documents: %d\n", stats.TotalDocuments)

	if len(stats.ByStatus) > 0 {
		statuses := make([]string, 0, len(stats.ByStatus))
		for status := range stats.ByStatus {
			statuses = append(statuses, string(status))
		}
		sort.Strings(statuses)
		for _, status := range statuses {
			cmd.Printf("    %s: %d\n", status, stats.ByStatus[domain.ProcessingStatus(status)])
		}
	}

	if len(stats.ByCountry) > 0 {
		cmd.Println("  By country:")
		countries := make([]string, 0, len(stats.ByCountry))
		for country := range stats.ByCountry {
			countries = append(countries, country)
		}
		sort.Strings(countries)
		for _, country := range countries {
			cmd.Printf("    %s: %d\n", country, stats.ByCountry[country])
		}
	}

	cmd.Printf("  Clusters: %d\n", stats.ClusterCount)
	cmd.Printf("  Distinct fingerprints: %d\n", stats.DistinctFingerprints)
	return nil
}
