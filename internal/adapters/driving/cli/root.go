package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/naveenbxyz/spexplorer/internal/core/ports/driving"
	"github.com/naveenbxyz/spexplorer/internal/logger"
)

// version is the build version, overridden at link time.
var version = "dev"

// Services injected by main before Execute. Every command guards
// against nil so an incompletely wired binary fails with a clear
// message instead of a panic.
var (
	sourceService      driving.SourceService
	credentialsService driving.CredentialsService
	pullOrchestrator   driving.PullOrchestrator
	processService     driving.ProcessService
	extractionService  driving.ExtractionService
	searchService      driving.SearchService
	documentService    driving.DocumentService
	clusterService     driving.ClusterService
	schemaService      driving.SchemaService
	settingsService    driving.SettingsService
	schedulerService   driving.Scheduler
)

var verbose bool

// rootCmd is the base command all subcommands attach to.
var rootCmd = &cobra.Command{
	Use:   "spexplorer",
	Short: "Explore the structure of spreadsheet collections",
	Long: `spexplorer extracts the structure of spreadsheet files without
interpreting their contents.

It pulls workbooks from configured sources (local folders, SharePoint
document libraries, GitHub repositories), segments every sheet into
key-value and table sections, fingerprints the layout, and indexes the
result so collections can be searched, clustered by shared structure,
and mapped onto a canonical schema.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context, so
// commands abort cleanly when the process receives an interrupt.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	version = v
}

// SetSourceService injects the source management service.
func SetSourceService(s driving.SourceService) {
	sourceService = s
}

// SetCredentialsService injects the credentials service.
func SetCredentialsService(s driving.CredentialsService) {
	credentialsService = s
}

// SetPullOrchestrator injects the pull orchestrator.
func SetPullOrchestrator(o driving.PullOrchestrator) {
	pullOrchestrator = o
}

// SetProcessService injects the batch processing service.
func SetProcessService(s driving.ProcessService) {
	processService = s
}

// SetExtractionService injects the one-off extraction service.
func SetExtractionService(s driving.ExtractionService) {
	extractionService = s
}

// SetSearchService injects the search service.
func SetSearchService(s driving.SearchService) {
	searchService = s
}

// SetDocumentService injects the document service.
func SetDocumentService(s driving.DocumentService) {
	documentService = s
}

// SetClusterService injects the pattern clustering service.
func SetClusterService(s driving.ClusterService) {
	clusterService = s
}

// SetSchemaService injects the schema discovery service.
func SetSchemaService(s driving.SchemaService) {
	schemaService = s
}

// SetSettingsService injects the settings service.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetScheduler injects the background task scheduler.
func SetScheduler(s driving.Scheduler) {
	schedulerService = s
}
