package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driving"
)

var (
	sourceID   string
	sourceName string
	sourceType string
	sourceURI  string
	ingestType string
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage content sources",
}

var sourceRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new source",
	RunE:  runSourceRegister,
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered sources",
	RunE:  runSourceList,
}

var sourceShowCmd = &cobra.Command{
	Use:   "show [source-id]",
	Short: "Show a source and its version chain",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceShow,
}

var sourceIngestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Register and extract multiple files in one step",
	Long: `Registers one source per file and extracts its content immediately.
Items are processed concurrently; one file's failure never aborts the
others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSourceIngest,
}

var sourceExtractCmd = &cobra.Command{
	Use:   "extract [source-id] [file]",
	Short: "Extract content for a source",
	Long: `Runs content extraction for a source. With a file argument the file's
bytes are extracted; otherwise the source's own URI is read. A new
source version is recorded only when the content hash changed.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSourceExtract,
}

func init() {
	sourceRegisterCmd.Flags().StringVar(&sourceID, "id", "", "source id (generated when empty)")
	sourceRegisterCmd.Flags().StringVar(&sourceName, "name", "", "source name (required)")
	sourceRegisterCmd.Flags().StringVar(&sourceType, "type", "plain-text", "source type (plain-text, markdown, pdf, csv, json, web, api)")
	sourceRegisterCmd.Flags().StringVar(&sourceURI, "uri", "", "content location (file path or URL)")
	sourceRegisterCmd.MarkFlagRequired("name") //nolint:errcheck

	sourceIngestCmd.Flags().StringVar(&ingestType, "type", "", "source type for all files (inferred from extension when empty)")

	sourceCmd.AddCommand(sourceRegisterCmd)
	sourceCmd.AddCommand(sourceIngestCmd)
	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceShowCmd)
	sourceCmd.AddCommand(sourceExtractCmd)
	rootCmd.AddCommand(sourceCmd)
}

func runSourceRegister(cmd *cobra.Command, _ []string) error {
	source, err := sourceService.Register(context.Background(), driving.RegisterSourceInput{
		ID:   sourceID,
		Name: sourceName,
		Type: domain.SourceType(sourceType),
		URI:  sourceURI,
	})
	if err != nil {
		return fmt.Errorf("registering source: %w", err)
	}

	cmd.Printf("Registered source %s (%s)\n", source.ID, source.Name)
	return nil
}

func runSourceList(cmd *cobra.Command, _ []string) error {
	sources, err := sourceService.List(context.Background())
	if err != nil {
		return fmt.Errorf("listing sources: %w", err)
	}

	if len(sources) == 0 {
		cmd.Println("No sources registered.")
		return nil
	}

	for _, source := range sources {
		version := 0
		if current := source.CurrentVersion(); current != nil {
			version = current.Version
		}
		cmd.Printf("  %s  %-12s  v%d  %s\n", source.ID, source.Type, version, source.Name)
	}
	return nil
}

func runSourceShow(cmd *cobra.Command, args []string) error {
	source, err := sourceService.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("getting source: %w", err)
	}

	cmd.Printf("ID:      %s\n", source.ID)
	cmd.Printf("Name:    %s\n", source.Name)
	cmd.Printf("Type:    %s\n", source.Type)
	if source.URI != "" {
		cmd.Printf("URI:     %s\n", source.URI)
	}
	cmd.Printf("Created: %s\n", source.CreatedAt.Format("2006-01-02 15:04:05"))

	if len(source.Versions) > 0 {
		cmd.Println("Versions:")
		for _, v := range source.Versions {
			cmd.Printf("  v%d  %s  %s\n", v.Version, v.ExtractedAt.Format("2006-01-02 15:04:05"), v.ContentHash[:min(12, len(v.ContentHash))])
		}
	}
	return nil
}

func runSourceIngest(cmd *cobra.Command, args []string) error {
	items := make([]driving.IngestItem, len(args))
	for i, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		items[i] = driving.IngestItem{
			Input: driving.RegisterSourceInput{
				Name: filepath.Base(path),
				Type: ingestSourceType(path),
				URI:  path,
			},
			Data: data,
		}
	}

	results := sourceService.BatchIngestAndExtract(context.Background(), items)

	failures := 0
	for _, result := range results {
		if result.Err != nil {
			failures++
			cmd.Printf("  %s  error: %v\n", args[result.Index], result.Err)
			continue
		}
		cmd.Printf("  %s  registered as %s\n", args[result.Index], result.SourceID)
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d files failed", failures, len(results))
	}
	return nil
}

// ingestSourceType picks a source type from the --type flag or the file
// extension.
func ingestSourceType(path string) domain.SourceType {
	if ingestType != "" {
		return domain.SourceType(ingestType)
	}
	switch filepath.Ext(path) {
	case ".md", ".markdown":
		return domain.SourceTypeMarkdown
	case ".pdf":
		return domain.SourceTypePDF
	case ".csv":
		return domain.SourceTypeCSV
	case ".json":
		return domain.SourceTypeJSON
	case ".html", ".htm":
		return domain.SourceTypeWeb
	default:
		return domain.SourceTypePlainText
	}
}

func runSourceExtract(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	sourceID := args[0]

	var outcome *driving.ExtractionOutcome
	var err error
	if len(args) == 2 {
		data, readErr := os.ReadFile(args[1])
		if readErr != nil {
			return fmt.Errorf("reading %s: %w", args[1], readErr)
		}
		outcome, err = sourceService.Extract(ctx, sourceID, data, "")
	} else {
		outcome, err = sourceService.ExtractFromURI(ctx, sourceID)
	}
	if err != nil {
		return fmt.Errorf("extracting: %w", err)
	}

	if outcome.Changed {
		cmd.Printf("Source %s extracted: new version %d\n", outcome.SourceID, outcome.Version)
	} else {
		cmd.Printf("Source %s unchanged (version %d)\n", outcome.SourceID, outcome.Version)
	}
	return nil
}
