// Package cli implements the command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/semantica/internal/adapters/driven/config/file"
	"github.com/custodia-labs/semantica/internal/adapters/driven/events"
	"github.com/custodia-labs/semantica/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/semantica/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/semantica/internal/chunkers"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
	"github.com/custodia-labs/semantica/internal/core/ports/driving"
	"github.com/custodia-labs/semantica/internal/core/services"
	"github.com/custodia-labs/semantica/internal/embedders"
	"github.com/custodia-labs/semantica/internal/extractors"
	"github.com/custodia-labs/semantica/internal/logger"
)

// version is set by Execute from the build-time value in main.
var version = "dev"

var (
	configDir   string
	dataDir     string
	backendFlag string
)

// Wired services, shared by the subcommands.
var (
	configStore       *configfile.ConfigStore
	sqliteStore       *sqlite.Store
	publisher         *events.Publisher
	chunkerRegistry   *chunkers.Registry
	embedderRegistry  *embedders.Registry
	extractorRegistry *extractors.Registry

	profileStore driven.ProfileStore
	vectorStore  driven.VectorStore

	sourceService     driving.SourceService
	unitService       driving.UnitService
	profileService    driving.ProfileService
	projectionService driving.ProjectionService
	queryEmbedders    services.EmbedderRegistry
	lineageService    driving.LineageService
)

var rootCmd = &cobra.Command{
	Use:   "semantica",
	Short: "Semantic indexing and search pipeline",
	Long: `Semantica extracts content from heterogeneous sources, organises it
into versioned semantic units, and projects them into a searchable
vector space through configurable processing profiles.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if sqliteStore != nil {
			return sqliteStore.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.semantica)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.semantica/data)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "storage backend: sqlite or memory (default from config)")
}

// Execute runs the root command.
func Execute(buildVersion string) error {
	if buildVersion != "" {
		version = buildVersion
	}
	return rootCmd.Execute()
}

// initServices wires stores, registries and services before any command runs.
func initServices(cmd *cobra.Command, _ []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger.SetVerbose(verbose)

	var err error
	configStore, err = configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	var (
		sourceStore     driven.SourceStore
		unitStore       driven.SemanticUnitStore
		projectionStore driven.ProjectionStore
		lineageStore    driven.LineageStore
	)

	backend := backendFlag
	if backend == "" {
		backend = configStore.GetString("storage.backend")
	}

	switch backend {
	case "memory":
		sourceStore = memory.NewSourceStore()
		unitStore = memory.NewSemanticUnitStore()
		profileStore = memory.NewProfileStore()
		projectionStore = memory.NewProjectionStore()
		lineageStore = memory.NewLineageStore()
		vectorStore = memory.NewVectorStore()
	case "", "sqlite":
		sqliteStore, err = sqlite.NewStore(dataDir)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		sourceStore = sqliteStore.SourceStore()
		unitStore = sqliteStore.SemanticUnitStore()
		profileStore = sqliteStore.ProfileStore()
		projectionStore = sqliteStore.ProjectionStore()
		lineageStore = sqliteStore.LineageStore()
		vectorStore = sqliteStore.VectorStore()
	default:
		return fmt.Errorf("unknown storage backend %q", backend)
	}

	chunkerRegistry = chunkers.NewRegistry()
	chunkers.RegisterDefaults(chunkerRegistry)

	embedderRegistry = embedders.NewRegistry()
	embedders.RegisterDefaults(embedderRegistry)
	queryEmbedders = embedderRegistry

	extractorRegistry = extractors.NewRegistry()
	extractors.RegisterDefaults(extractorRegistry)

	publisher = events.NewPublisher()

	lineageService = services.NewLineageService(lineageStore)
	events.SubscribeLineage(publisher, lineageService)

	sourceService = services.NewSourceService(sourceStore, extractorRegistry, publisher)
	unitService = services.NewUnitService(unitStore, sourceStore, projectionStore, profileStore, extractorRegistry, publisher)
	profileService = services.NewProfileService(profileStore, chunkerRegistry, embedderRegistry, publisher)
	projectionService = services.NewProjectionService(projectionStore, unitStore, profileStore, vectorStore, chunkerRegistry, embedderRegistry, publisher)

	return nil
}

// defaultProfileID resolves the profile used when a command has no --profile
// flag, falling back to the configured default.
func defaultProfileID(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configStore.GetString("profile.default")
}
