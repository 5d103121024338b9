package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "Group documents by structural pattern",
	Long: `Inspect and rebuild the pattern clusters.

Documents sharing one structural fingerprint (same sheets, section
shapes, and leading field names) form a cluster. Clusters reveal which
spreadsheets were filled from the same template, so a field mapping
defined once covers every member.`,
}

var clustersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pattern clusters",
	RunE:  runClustersList,
}

var clustersRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Recompute clusters from stored documents",
	RunE:  runClustersRebuild,
}

var clustersShowCmd = &cobra.Command{
	Use:   "show [cluster-id]",
	Short: "Show one cluster's shared structure",
	Args:  cobra.ExactArgs(1),
	RunE:  runClustersShow,
}

func init() {
	clustersCmd.AddCommand(clustersListCmd)
	clustersCmd.AddCommand(clustersRebuildCmd)
	clustersCmd.AddCommand(clustersShowCmd)
	rootCmd.AddCommand(clustersCmd)
}

func runClustersList(cmd *cobra.Command, _ []string) error {
	if clusterService == nil {
		return errors.New("cluster service not configured")
	}

	ctx := context.Background()

	clusters, err := clusterService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list clusters: %w", err)
	}

	if len(clusters) == 0 {
		cmd.Println("No clusters. Run 'spexplorer clusters rebuild' after processing.")
		return nil
	}

	cmd.Printf("Pattern clusters: %d\n", len(clusters))
	cmd.Println()
	for _, c := range clusters {
		cmd.Printf("  [%d] %s - %d documents\n", c.ID, c.Name, c.DocumentCount)
		if len(c.Summary.SheetNames) > 0 {
			cmd.Printf("      Sheets: %s\n", strings.Join(c.Summary.SheetNames, ", "))
		}
		if len(c.Summary.CommonFields) > 0 {
			cmd.Printf("      Fields: %s\n", previewFields(c.Summary.CommonFields, 6))
		}
	}
	return nil
}

func runClustersRebuild(cmd *cobra.Command, _ []string) error {
	if clusterService == nil {
		return errors.New("cluster service not configured")
	}

	ctx := context.Background()

	cmd.Println("Reclustering stored documents...")
	clusters, err := clusterService.Recluster(ctx)
	if err != nil {
		return fmt.Errorf("reclustering failed: %w", err)
	}

	cmd.Printf("Built %d clusters.\n", len(clusters))
	return nil
}

func runClustersShow(cmd *cobra.Command, args []string) error {
	if clusterService == nil {
		return errors.New("cluster service not configured")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid cluster id %q", args[0])
	}

	ctx := context.Background()

	cluster, err := clusterService.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get cluster: %w", err)
	}

	cmd.Printf("Cluster %d: %s\n", cluster.ID, cluster.Name)
	cmd.Printf("  Documents: %d\n", cluster.DocumentCount)
	cmd.Printf("  Fingerprint: %s\n", cluster.Fingerprint)
	if len(cluster.Summary.SheetNames) > 0 {
		cmd.Printf("  Common sheets: %s\n", strings.Join(cluster.Summary.SheetNames, ", "))
	}
	if len(cluster.Summary.SectionTypes) > 0 {
		cmd.Println("  Section types:")
		types := make([]domain.SectionType, 0, len(cluster.Summary.SectionTypes))
		for t := range cluster.Summary.SectionTypes {
			types = append(types, t)
		}
		sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
		for _, t := range types {
			cmd.Printf("    %s: %d\n", t, cluster.Summary.SectionTypes[t])
		}
	}
	if len(cluster.Summary.CommonFields) > 0 {
		cmd.Printf("  Common fields: %s\n", strings.Join(cluster.Summary.CommonFields, ", "))
	}
	if len(cluster.ExampleIDs) > 0 {
		cmd.Println("  Example documents:")
		for _, docID := range cluster.ExampleIDs {
			cmd.Printf("    %s\n", docID)
		}
	}
	return nil
}

// previewFields joins up to n field names, marking the remainder.
func previewFields(fields []string, n int) string {
	if len(fields) <= n {
		return strings.Join(fields, ", ")
	}
	return fmt.Sprintf("%s, +%d more", strings.Join(fields[:n], ", "), len(fields)-n)
}
