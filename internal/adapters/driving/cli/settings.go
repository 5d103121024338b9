package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure processing and storage settings.

Run 'settings wizard' to edit every setting interactively.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive settings editor",
	Long:  `Walk through every setting, keeping the current value on empty input.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Processing]")
	cmd.Printf("  Workers: %d\n", settings.Processing.Workers)
	cmd.Printf("  Timeout: %ds\n", settings.Processing.TimeoutSeconds)
	cmd.Printf("  Max retries: %d\n", settings.Processing.MaxRetries)
	cmd.Printf("  Reprocess: %t\n", settings.Processing.Reprocess)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Data dir: %s\n", settings.Storage.DataDir)
	cmd.Printf("  Document dir: %s\n", settings.Storage.DocumentDir)
	cmd.Printf("  Download dir: %s\n", settings.Storage.DownloadDir)
	cmd.Println()

	cmd.Println("[Logging]")
	cmd.Printf("  Verbose: %t\n", settings.Verbose)

	return nil
}

//nolint:errcheck // CLI interactive flow
func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Settings Wizard")
	cmd.Println("===============")
	cmd.Println("Press Enter to keep the current value.")
	cmd.Println()

	cmd.Println("Step 1: Processing")
	cmd.Println("------------------")
	settings.Processing.Workers = promptInt(
		cmd, reader, "Workers", settings.Processing.Workers)
	settings.Processing.TimeoutSeconds = promptInt(
		cmd, reader, "Per-file timeout (seconds)", settings.Processing.TimeoutSeconds)
	settings.Processing.MaxRetries = promptInt(
		cmd, reader, "Max retries", settings.Processing.MaxRetries)
	cmd.Println()

	cmd.Println("Step 2: Storage")
	cmd.Println("---------------")
	settings.Storage.DataDir = promptString(
		cmd, reader, "Data dir", settings.Storage.DataDir)
	settings.Storage.DocumentDir = promptString(
		cmd, reader, "Document dir", settings.Storage.DocumentDir)
	settings.Storage.DownloadDir = promptString(
		cmd, reader, "Download dir", settings.Storage.DownloadDir)
	cmd.Println()

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Settings saved.")
	return nil
}

// promptString asks for a value, returning the current one on empty input.
func promptString(cmd *cobra.Command, reader *bufio.Reader, label, current string) string {
	cmd.Printf("%s [%s]: ", label, current)
	if input := readLine(reader); input != "" {
		return input
	}
	return current
}

// promptInt asks for a number, keeping the current one on bad input.
func promptInt(cmd *cobra.Command, reader *bufio.Reader, label string, current int) int {
	cmd.Printf("%s [%d]: ", label, current)
	input := readLine(reader)
	if input == "" {
		return current
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 0 {
		cmd.Printf("  keeping %d\n", current)
		return current
	}
	return val
}

// Shared prompt helpers.

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
