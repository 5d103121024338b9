// Package main wires the stores, services and connectors together and
// hands them to the CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	configfile "github.com/naveenbxyz/spexplorer/internal/adapters/driven/config/file"
	excelreader "github.com/naveenbxyz/spexplorer/internal/adapters/driven/reader/excelize"
	jsonarchive "github.com/naveenbxyz/spexplorer/internal/adapters/driven/storage/json"
	"github.com/naveenbxyz/spexplorer/internal/adapters/driven/storage/sqlite"
	"github.com/naveenbxyz/spexplorer/internal/adapters/driving/cli"
	"github.com/naveenbxyz/spexplorer/internal/connectors"
	"github.com/naveenbxyz/spexplorer/internal/core/services"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening index store: %w", err)
	}
	defer store.Close()

	archive, err := jsonarchive.NewArchive("")
	if err != nil {
		return fmt.Errorf("opening document archive: %w", err)
	}

	reader := excelreader.NewReader()
	selector := services.NewSelector()

	factory := connectors.NewFactory(store.CredentialsStore())
	connectors.RegisterBuiltins(factory)

	sourceService := services.NewSourceService(
		store.SourceStore(), store.PullStateStore(), store.DocumentStore(),
	)
	sourceService.SetConnectorFactory(factory)

	pullOrchestrator := services.NewPullOrchestrator(
		store.SourceStore(), store.PullStateStore(), store.ExclusionStore(),
		factory, settings.Storage.DownloadDir,
	)

	processor := services.NewProcessor(
		selector, reader, store.DocumentStore(), archive,
		store.ExclusionStore(), *settings,
	)

	clusterService := services.NewClusterService(
		store.DocumentStore(), store.ClusterStore(), archive,
	)

	scheduler := services.NewScheduler(
		settingsService.GetSchedulerConfig(), store.SchedulerStore(),
		pullOrchestrator, processor, clusterService,
	)

	cli.SetVersion(version)
	cli.SetSourceService(sourceService)
	cli.SetCredentialsService(services.NewCredentialsService(store.CredentialsStore()))
	cli.SetPullOrchestrator(pullOrchestrator)
	cli.SetProcessService(processor)
	cli.SetExtractionService(services.NewExtractionService(reader))
	cli.SetSearchService(services.NewSearchService(store.DocumentStore()))
	cli.SetDocumentService(services.NewDocumentService(store.DocumentStore(), store.ExclusionStore()))
	cli.SetClusterService(clusterService)
	cli.SetSchemaService(services.NewSchemaService(store.DocumentStore(), store.ClusterStore()))
	cli.SetSettingsService(settingsService)
	cli.SetScheduler(scheduler)

	return cli.ExecuteContext(ctx)
}
