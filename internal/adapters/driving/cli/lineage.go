package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	traceToUnit       string
	traceRelationship string
)

var lineageCmd = &cobra.Command{
	Use:   "lineage [unit-id]",
	Short: "Show a unit's transformation history",
	Args:  cobra.ExactArgs(1),
	RunE:  runLineage,
}

var traceCmd = &cobra.Command{
	Use:   "trace [from-unit-id]",
	Short: "Record a relationship between two units",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrace,
}

func init() {
	traceCmd.Flags().StringVar(&traceToUnit, "to", "", "related unit id (required)")
	traceCmd.Flags().StringVar(&traceRelationship, "relationship", "derived-from", "relationship name")
	traceCmd.MarkFlagRequired("to") //nolint:errcheck

	rootCmd.AddCommand(lineageCmd)
	rootCmd.AddCommand(traceCmd)
}

func runLineage(cmd *cobra.Command, args []string) error {
	lineage, err := lineageService.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("getting lineage: %w", err)
	}

	if len(lineage.Transformations) == 0 && len(lineage.Traces) == 0 {
		cmd.Println("No lineage recorded.")
		return nil
	}

	if len(lineage.Transformations) > 0 {
		cmd.Println("Transformations:")
		for _, t := range lineage.Transformations {
			cmd.Printf("  %s  %-10s  %s  v%d -> v%d\n",
				t.AppliedAt.Format("2006-01-02 15:04:05"), t.Type, t.StrategyUsed, t.InputVersion, t.OutputVersion)
		}
	}

	if len(lineage.Traces) > 0 {
		cmd.Println("Traces:")
		for _, trace := range lineage.Traces {
			cmd.Printf("  %s -> %s (%s)\n", trace.FromUnitID, trace.ToUnitID, trace.Relationship)
		}
	}
	return nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	if err := lineageService.AddTrace(context.Background(), args[0], traceToUnit, traceRelationship); err != nil {
		return fmt.Errorf("recording trace: %w", err)
	}
	cmd.Printf("Recorded %s -> %s (%s)\n", args[0], traceToUnit, traceRelationship)
	return nil
}
