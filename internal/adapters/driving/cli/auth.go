package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage source credentials",
	Long: `Store, inspect, and remove the credentials sources authenticate with.

Each source holds at most one set of credentials: a personal access
token (GitHub) or an app registration for the OAuth2 client-credentials
grant (SharePoint). Filesystem sources need none. Secrets are prompted
without echo and shown back masked.

Examples:
  # Store credentials interactively
  spexplorer auth set <source-id>

  # Store a token non-interactively
  spexplorer auth set <source-id> --token ghp_xxx

  # Show which sources have credentials
  spexplorer auth list`,
}

var authSetCmd = &cobra.Command{
	Use:   "set [source-id]",
	Short: "Store credentials for a source",
	Long: `Store credentials for a source.

Run without flags for an interactive prompt, or supply --token for a
personal access token, or --client-id and --client-secret (plus
--tenant-id) for an app registration.`,
	Args: cobra.ExactArgs(1),
	RunE: runAuthSet,
}

var authListCmd = &cobra.Command{
	Use:   "list",
	Short: "List credential status per source",
	RunE:  runAuthList,
}

var authShowCmd = &cobra.Command{
	Use:   "show [source-id]",
	Short: "Show a source's credentials, masked",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthShow,
}

var authRemoveCmd = &cobra.Command{
	Use:   "remove [source-id]",
	Short: "Remove a source's credentials",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthRemove,
}

// Flags for auth set.
var (
	authSetAccount      string
	authSetToken        string
	authSetTenantID     string
	authSetClientID     string
	authSetClientSecret string
)

func init() {
	authSetCmd.Flags().StringVar(
		&authSetAccount, "account", "", "Display name for the authenticated principal")
	authSetCmd.Flags().StringVar(
		&authSetToken, "token", "", "Personal access token (for non-interactive mode)")
	authSetCmd.Flags().StringVar(
		&authSetTenantID, "tenant-id", "", "Directory the app registration lives in")
	authSetCmd.Flags().StringVar(
		&authSetClientID, "client-id", "", "App registration client ID")
	authSetCmd.Flags().StringVar(
		&authSetClientSecret, "client-secret", "", "App registration client secret")

	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authListCmd)
	authCmd.AddCommand(authShowCmd)
	authCmd.AddCommand(authRemoveCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthSet(cmd *cobra.Command, args []string) error {
	if credentialsService == nil {
		return errors.New("credentials service not configured")
	}
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	ctx := context.Background()
	sourceID := args[0]

	source, err := sourceService.Get(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("failed to get source: %w", err)
	}

	creds := domain.Credentials{
		ID:        uuid.New().String(),
		SourceID:  sourceID,
		Account:   authSetAccount,
		CreatedAt: time.Now(),
	}

	// Replacing existing credentials keeps their identifier.
	if existing, lookupErr := credentialsService.GetBySourceID(ctx, sourceID); lookupErr == nil && existing != nil {
		creds.ID = existing.ID
		creds.CreatedAt = existing.CreatedAt
	}
	creds.UpdatedAt = time.Now()

	switch {
	case authSetToken != "":
		creds.Token = &domain.TokenCredentials{Token: authSetToken}
	case authSetClientID != "" && authSetClientSecret != "":
		creds.Client = &domain.ClientCredentials{
			TenantID:     authSetTenantID,
			ClientID:     authSetClientID,
			ClientSecret: authSetClientSecret,
		}
	default:
		if err := collectCredentials(cmd, source, &creds); err != nil {
			return err
		}
	}

	if err := credentialsService.Save(ctx, creds); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	cmd.Printf("Credentials saved for source %s (%s)\n", sourceID, creds.Method())
	return nil
}

// collectCredentials prompts for an auth method and its secrets.
//
//nolint:errcheck // CLI interactive flow
func collectCredentials(cmd *cobra.Command, source *domain.Source, creds *domain.Credentials) error {
	reader := bufio.NewReader(os.Stdin)

	cmd.Printf("Credentials for %s (%s)\n", source.Name, source.Type)
	cmd.Println("--------------------------------")
	cmd.Println("  1. Personal access token")
	cmd.Println("  2. Client credentials (app registration)")

	defaultChoice := 1
	if source.Type == "sharepoint" {
		defaultChoice = 2
	}
	cmd.Printf("\nSelect method [%d]: ", defaultChoice)
	choice := parseChoice(readLine(reader), 2, defaultChoice)

	if creds.Account == "" {
		cmd.Print("Account name (optional): ")
		creds.Account = readLine(reader)
	}

	switch choice {
	case 1:
		cmd.Print("Token: ")
		token := readPassword()
		cmd.Println()
		if token == "" {
			return errors.New("token must not be empty")
		}
		creds.Token = &domain.TokenCredentials{Token: token}

	case 2:
		cmd.Print("Tenant ID: ")
		tenantID := readLine(reader)
		cmd.Print("Client ID: ")
		clientID := readLine(reader)
		cmd.Print("Client secret: ")
		secret := readPassword()
		cmd.Println()
		if clientID == "" || secret == "" {
			return errors.New("client id and client secret must not be empty")
		}
		creds.Client = &domain.ClientCredentials{
			TenantID:     tenantID,
			ClientID:     clientID,
			ClientSecret: secret,
		}
	}

	return nil
}

func runAuthList(cmd *cobra.Command, _ []string) error {
	if credentialsService == nil {
		return errors.New("credentials service not configured")
	}
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	ctx := context.Background()

	sources, err := sourceService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}
	if len(sources) == 0 {
		cmd.Println("No configured sources.")
		return nil
	}

	cmd.Println("Source credentials:")
	for _, s := range sources {
		creds, err := credentialsService.GetBySourceID(ctx, s.ID)
		switch {
		case err != nil:
			cmd.Printf("  %s (%s): error: %v\n", s.Name, s.Type, err)
		case creds == nil:
			cmd.Printf("  %s (%s): none\n", s.Name, s.Type)
		default:
			line := creds.Method()
			if creds.Account != "" {
				line += ", account " + creds.Account
			}
			cmd.Printf("  %s (%s): %s\n", s.Name, s.Type, line)
		}
	}
	return nil
}

func runAuthShow(cmd *cobra.Command, args []string) error {
	if credentialsService == nil {
		return errors.New("credentials service not configured")
	}

	ctx := context.Background()

	creds, err := credentialsService.GetBySourceID(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get credentials: %w", err)
	}
	if creds == nil {
		cmd.Printf("No credentials stored for source %s.\n", args[0])
		return nil
	}

	cmd.Printf("Credentials for source %s:\n", creds.SourceID)
	cmd.Printf("  Method: %s\n", creds.Method())
	if creds.Account != "" {
		cmd.Printf("  Account: %s\n", creds.Account)
	}
	if creds.Token != nil {
		cmd.Printf("  Token: %s\n", maskSecret(creds.Token.Token))
	}
	if creds.Client != nil {
		cmd.Printf("  Tenant ID: %s\n", creds.Client.TenantID)
		cmd.Printf("  Client ID: %s\n", creds.Client.ClientID)
		cmd.Printf("  Client secret: %s\n", maskSecret(creds.Client.ClientSecret))
	}
	cmd.Printf("  Updated: %s\n", creds.UpdatedAt.Format("2006-01-02 15:04"))
	return nil
}

func runAuthRemove(cmd *cobra.Command, args []string) error {
	if credentialsService == nil {
		return errors.New("credentials service not configured")
	}

	ctx := context.Background()

	creds, err := credentialsService.GetBySourceID(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get credentials: %w", err)
	}
	if creds == nil {
		cmd.Printf("No credentials stored for source %s.\n", args[0])
		return nil
	}

	if err := credentialsService.Delete(ctx, creds.ID); err != nil {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}

	cmd.Printf("Removed credentials for source: %s\n", args[0])
	return nil
}
