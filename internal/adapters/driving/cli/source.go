package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage spreadsheet sources",
	Long: `Add, list, and remove the sources spreadsheets are pulled from.

A source pairs a connector type (filesystem, sharepoint, github) with
its configuration. Pulled files land in the download directory, keeping
the source's country/client/product folder structure.

Examples:
  # Interactive wizard
  spexplorer source add

  # Non-interactive
  spexplorer source add filesystem --name "Onboarding share" -c path=/mnt/onboarding

  # List configured sources
  spexplorer source list`,
}

var sourceAddCmd = &cobra.Command{
	Use:   "add [connector-type]",
	Short: "Add a new source",
	Long: `Add a new source configuration.

Run without flags for an interactive wizard, or supply the connector
type plus --name and -c key=value pairs to add non-interactively.
Connectors that need credentials are set up afterwards with
'spexplorer auth set <source-id>'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSourceAdd,
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured sources",
	RunE:  runSourceList,
}

var sourceRemoveCmd = &cobra.Command{
	Use:   "remove [source-id]",
	Short: "Remove a source and its indexed documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceRemove,
}

var sourceTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List available connector types",
	RunE:  runSourceTypes,
}

// Flags for source add.
var (
	sourceAddName   string
	sourceAddConfig []string
)

func init() {
	sourceAddCmd.Flags().StringVar(
		&sourceAddName, "name", "", "Display name for the source")
	sourceAddCmd.Flags().StringArrayVarP(
		&sourceAddConfig, "config", "c", nil, "Connector config as key=value (repeatable)")

	sourceCmd.AddCommand(sourceAddCmd)
	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceRemoveCmd)
	sourceCmd.AddCommand(sourceTypesCmd)
	rootCmd.AddCommand(sourceCmd)
}

//nolint:gocognit,errcheck,gocyclo,nestif // CLI interactive flow
func runSourceAdd(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	ctx := context.Background()

	types, err := sourceService.Types(ctx)
	if err != nil {
		return fmt.Errorf("failed to list connector types: %w", err)
	}
	if len(types) == 0 {
		return errors.New("no connector types registered")
	}

	config := parseConfigFlags(sourceAddConfig)

	// Select connector type
	var connType *domain.ConnectorType
	if len(args) > 0 {
		for i := range types {
			if types[i].ID == args[0] {
				connType = &types[i]
				break
			}
		}
		if connType == nil {
			return fmt.Errorf("unknown connector type %q", args[0])
		}
	}

	// Non-interactive when the type, a name, and every required config
	// key arrived via flags.
	if connType != nil && sourceAddName != "" {
		if err := sourceService.ValidateConfig(ctx, connType.ID, config); err == nil {
			return addSource(ctx, cmd, connType, sourceAddName, config)
		}
	}

	// Interactive mode
	reader := bufio.NewReader(os.Stdin)

	if connType == nil {
		cmd.Println("Available connector types:")
		for i, t := range types {
			cmd.Printf("  %d. %s - %s\n", i+1, t.ID, t.Description)
		}
		cmd.Printf("\nSelect connector type [1]: ")
		choice := parseChoice(readLine(reader), len(types), 1)
		connType = &types[choice-1]
	}

	name := sourceAddName
	if name == "" {
		defaultName := fmt.Sprintf("%s source", connType.Name)
		cmd.Printf("Enter a name for this source [%s]: ", defaultName)
		if input := readLine(reader); input != "" {
			name = input
		} else {
			name = defaultName
		}
	}

	cmd.Println()
	for _, key := range connType.ConfigKeys {
		if config[key.Key] != "" {
			continue
		}

		for {
			prompt := key.Label
			if key.Default != "" {
				prompt = fmt.Sprintf("%s [%s]", prompt, key.Default)
			} else if !key.Required {
				prompt += " (optional)"
			}
			cmd.Printf("%s: ", prompt)

			var input string
			if key.Secret {
				input = readPassword()
				cmd.Println()
			} else {
				input = readLine(reader)
			}
			if input == "" {
				input = key.Default
			}
			if input == "" && key.Required {
				cmd.Printf("  %s is required\n", key.Key)
				continue
			}
			if input != "" {
				config[key.Key] = input
			}
			break
		}
	}

	return addSource(ctx, cmd, connType, name, config)
}

// addSource validates, stores, and reports the new source.
func addSource(
	ctx context.Context,
	cmd *cobra.Command,
	connType *domain.ConnectorType,
	name string,
	config map[string]string,
) error {
	if err := sourceService.ValidateConfig(ctx, connType.ID, config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	source := domain.Source{
		ID:        uuid.New().String(),
		Type:      connType.ID,
		Name:      name,
		Config:    config,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := sourceService.Add(ctx, source); err != nil {
		return fmt.Errorf("failed to add source: %w", err)
	}

	cmd.Printf("\nAdded source: %s (%s)\n", source.ID, source.Name)
	if connType.RequiresAuth {
		cmd.Printf("Store credentials with: spexplorer auth set %s\n", source.ID)
	}
	return nil
}

func runSourceList(cmd *cobra.Command, _ []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	ctx := context.Background()

	sources, err := sourceService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	if len(sources) == 0 {
		cmd.Println("No configured sources. Add one with 'spexplorer source add'.")
		return nil
	}

	cmd.Println("Configured sources:")
	for _, s := range sources {
		cmd.Printf("  %s\n", s.ID)
		cmd.Printf("    Name: %s\n", s.Name)
		cmd.Printf("    Type: %s\n", s.Type)
		if summary := configSummary(s.Config); summary != "" {
			cmd.Printf("    Config: %s\n", summary)
		}
	}
	return nil
}

func runSourceRemove(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	ctx := context.Background()
	sourceID := args[0]

	if err := sourceService.Remove(ctx, sourceID); err != nil {
		return fmt.Errorf("failed to remove source: %w", err)
	}

	cmd.Printf("Removed source: %s\n", sourceID)
	return nil
}

func runSourceTypes(cmd *cobra.Command, _ []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	ctx := context.Background()

	types, err := sourceService.Types(ctx)
	if err != nil {
		return fmt.Errorf("failed to list connector types: %w", err)
	}

	if len(types) == 0 {
		cmd.Println("No connectors available.")
		return nil
	}

	cmd.Println("Available connectors:")
	for _, t := range types {
		cmd.Printf("  %s - %s\n", t.ID, t.Name)
		if t.Description != "" {
			cmd.Printf("    %s\n", t.Description)
		}
		if t.RequiresAuth {
			cmd.Println("    Requires credentials (spexplorer auth set)")
		}
		if len(t.ConfigKeys) > 0 {
			cmd.Println("    Config:")
			for _, key := range t.ConfigKeys {
				line := fmt.Sprintf("      -c %s=<value>", key.Key)
				if key.Required {
					line += " (required)"
				}
				if key.Description != "" {
					line += " - " + key.Description
				}
				cmd.Println(line)
			}
		}
	}
	return nil
}

// parseConfigFlags turns repeated key=value flags into a config map.
func parseConfigFlags(pairs []string) map[string]string {
	config := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			continue
		}
		config[key] = value
	}
	return config
}

// sortedKeys returns the map's keys in sorted order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// configSummary renders a source config on one line, masking secrets.
func configSummary(config map[string]string) string {
	if len(config) == 0 {
		return ""
	}
	parts := make([]string, 0, len(config))
	for _, key := range sortedKeys(config) {
		value := config[key]
		if strings.Contains(key, "secret") || strings.Contains(key, "token") {
			value = maskSecret(value)
		}
		parts = append(parts, fmt.Sprintf("%s=%s", key, value))
	}
	return strings.Join(parts, ", ")
}
