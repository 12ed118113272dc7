package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driving"
)

var projectProfileID string

var projectCmd = &cobra.Command{
	Use:   "project [unit-id...]",
	Short: "Generate embedding projections for semantic units",
	Long: `Runs the projection pipeline for one or more units: the unit's content
is chunked and embedded per the processing profile, and the resulting
vectors replace the unit's entries in the vector store. A processing
failure is recorded on the projection, not raised.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProject,
}

var projectionsCmd = &cobra.Command{
	Use:   "projections [unit-id]",
	Short: "List a unit's projections",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjections,
}

func init() {
	projectCmd.Flags().StringVar(&projectProfileID, "profile", "", "processing profile id (default from config)")

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(projectionsCmd)
}

func runProject(cmd *cobra.Command, args []string) error {
	profileID := defaultProfileID(projectProfileID)
	if profileID == "" {
		return fmt.Errorf("no profile given and no default configured (set one with 'profile register --default')")
	}

	inputs := make([]driving.GenerateProjectionInput, len(args))
	for i, unitID := range args {
		inputs[i] = driving.GenerateProjectionInput{
			SemanticUnitID:      unitID,
			ProcessingProfileID: profileID,
		}
	}

	results := projectionService.BatchGenerate(context.Background(), inputs)

	failures := 0
	for _, result := range results {
		unitID := args[result.Index]
		switch {
		case result.Err != nil:
			failures++
			cmd.Printf("  %s  error: %v\n", unitID, result.Err)
		case result.Projection.Status == domain.ProjectionStatusFailed:
			failures++
			cmd.Printf("  %s  failed: %s\n", unitID, result.Projection.Error)
		default:
			cmd.Printf("  %s  completed: %d chunks, %d dims\n", unitID,
				result.Projection.Result.ChunkCount, result.Projection.Result.Dimensions)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d projections failed", failures, len(results))
	}
	return nil
}

func runProjections(cmd *cobra.Command, args []string) error {
	projections, err := projectionService.ListByUnit(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("listing projections: %w", err)
	}

	if len(projections) == 0 {
		cmd.Println("No projections.")
		return nil
	}

	for _, p := range projections {
		cmd.Printf("  %s  v%d  %-10s  %s\n", p.ID, p.SemanticUnitVersion, p.Status,
			p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
