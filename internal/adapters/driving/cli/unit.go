package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driving"
)

var (
	unitID          string
	unitName        string
	unitDescription string
	unitLanguage    string
	unitSourceID    string
	unitContent     string
	unitProfileID   string
	unitReason      string
)

var unitCmd = &cobra.Command{
	Use:   "unit",
	Short: "Manage semantic units",
}

var unitCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a semantic unit from a source",
	RunE:  runUnitCreate,
}

var unitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List semantic units",
	RunE:  runUnitList,
}

var unitShowCmd = &cobra.Command{
	Use:   "show [unit-id]",
	Short: "Show a unit's manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnitShow,
}

var unitAddSourceCmd = &cobra.Command{
	Use:   "add-source [unit-id]",
	Short: "Attach another contributing source",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnitAddSource,
}

var unitVersionCmd = &cobra.Command{
	Use:   "version [unit-id]",
	Short: "Append a new unit version bound to a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnitVersion,
}

var unitActivateCmd = &cobra.Command{
	Use:   "activate [unit-id]",
	Short: "Transition the unit to active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := unitService.Activate(context.Background(), args[0]); err != nil {
			return fmt.Errorf("activating unit: %w", err)
		}
		cmd.Printf("Unit %s is now active.\n", args[0])
		return nil
	},
}

var unitDeprecateCmd = &cobra.Command{
	Use:   "deprecate [unit-id]",
	Short: "Transition the unit to deprecated",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := unitService.Deprecate(context.Background(), args[0], unitReason); err != nil {
			return fmt.Errorf("deprecating unit: %w", err)
		}
		cmd.Printf("Unit %s is now deprecated.\n", args[0])
		return nil
	},
}

var unitArchiveCmd = &cobra.Command{
	Use:   "archive [unit-id]",
	Short: "Transition the unit to the terminal archived state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := unitService.Archive(context.Background(), args[0], unitReason); err != nil {
			return fmt.Errorf("archiving unit: %w", err)
		}
		cmd.Printf("Unit %s is now archived.\n", args[0])
		return nil
	},
}

var unitReprocessCmd = &cobra.Command{
	Use:   "reprocess [unit-id]",
	Short: "Request reprocessing of a unit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := unitService.Reprocess(context.Background(), args[0], unitReason); err != nil {
			return fmt.Errorf("requesting reprocess: %w", err)
		}
		cmd.Printf("Reprocess requested for unit %s.\n", args[0])
		return nil
	},
}

func init() {
	unitCreateCmd.Flags().StringVar(&unitID, "id", "", "unit id (generated when empty)")
	unitCreateCmd.Flags().StringVar(&unitName, "name", "", "unit name (required)")
	unitCreateCmd.Flags().StringVar(&unitDescription, "description", "", "unit description")
	unitCreateCmd.Flags().StringVar(&unitLanguage, "language", "", "content language")
	unitCreateCmd.Flags().StringVar(&unitSourceID, "source", "", "contributing source id (required)")
	unitCreateCmd.Flags().StringVar(&unitContent, "content", "", "extracted content (re-extracted from the source URI when empty)")
	unitCreateCmd.MarkFlagRequired("name")   //nolint:errcheck
	unitCreateCmd.MarkFlagRequired("source") //nolint:errcheck

	unitAddSourceCmd.Flags().StringVar(&unitSourceID, "source", "", "contributing source id (required)")
	unitAddSourceCmd.Flags().StringVar(&unitContent, "content", "", "extracted content (re-extracted from the source URI when empty)")
	unitAddSourceCmd.MarkFlagRequired("source") //nolint:errcheck

	unitVersionCmd.Flags().StringVar(&unitProfileID, "profile", "", "processing profile id (required)")
	unitVersionCmd.Flags().StringVar(&unitReason, "reason", "", "reason for the new version")
	unitVersionCmd.MarkFlagRequired("profile") //nolint:errcheck

	unitDeprecateCmd.Flags().StringVar(&unitReason, "reason", "", "reason for the transition")
	unitArchiveCmd.Flags().StringVar(&unitReason, "reason", "", "reason for the transition")
	unitReprocessCmd.Flags().StringVar(&unitReason, "reason", "", "reason for reprocessing")

	unitCmd.AddCommand(unitCreateCmd)
	unitCmd.AddCommand(unitListCmd)
	unitCmd.AddCommand(unitShowCmd)
	unitCmd.AddCommand(unitAddSourceCmd)
	unitCmd.AddCommand(unitVersionCmd)
	unitCmd.AddCommand(unitActivateCmd)
	unitCmd.AddCommand(unitDeprecateCmd)
	unitCmd.AddCommand(unitArchiveCmd)
	unitCmd.AddCommand(unitReprocessCmd)
	rootCmd.AddCommand(unitCmd)
}

func runUnitCreate(cmd *cobra.Command, _ []string) error {
	unit, err := unitService.Create(context.Background(), driving.CreateUnitInput{
		ID:          unitID,
		Name:        unitName,
		Description: unitDescription,
		Language:    unitLanguage,
		SourceID:    unitSourceID,
		Content:     unitContent,
	})
	if err != nil {
		return fmt.Errorf("creating unit: %w", err)
	}

	cmd.Printf("Created unit %s (%s) in %s state\n", unit.ID, unit.Name, unit.State)
	return nil
}

func runUnitList(cmd *cobra.Command, _ []string) error {
	units, err := unitService.List(context.Background())
	if err != nil {
		return fmt.Errorf("listing units: %w", err)
	}

	if len(units) == 0 {
		cmd.Println("No semantic units.")
		return nil
	}

	for _, unit := range units {
		cmd.Printf("  %s  %-10s  v%d  %s\n", unit.ID, unit.State, unit.CurrentVersionNumber(), unit.Name)
	}
	return nil
}

func runUnitShow(cmd *cobra.Command, args []string) error {
	manifest, err := unitService.Manifest(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("getting manifest: %w", err)
	}

	unit := manifest.Unit
	cmd.Printf("ID:          %s\n", unit.ID)
	cmd.Printf("Name:        %s\n", unit.Name)
	if unit.Description != "" {
		cmd.Printf("Description: %s\n", unit.Description)
	}
	cmd.Printf("State:       %s\n", unit.State)
	cmd.Printf("Version:     %d\n", unit.CurrentVersionNumber())

	if len(manifest.Sources) > 0 {
		cmd.Println("Sources:")
		for _, source := range manifest.Sources {
			cmd.Printf("  %s  %-12s  %s\n", source.ID, source.Type, source.Name)
		}
	}

	if len(unit.Versions) > 0 {
		cmd.Println("Versions:")
		for _, v := range unit.Versions {
			cmd.Printf("  v%d  profile %s@%d  %s", v.Version, v.ProcessingProfileID, v.ProcessingProfileVersion, v.CreatedAt.Format("2006-01-02 15:04:05"))
			if v.Reason != "" {
				cmd.Printf("  (%s)", v.Reason)
			}
			cmd.Println()
		}
	}

	if len(manifest.Projections) > 0 {
		cmd.Println("Projections:")
		for _, p := range manifest.Projections {
			cmd.Printf("  %s  v%d  %-10s", p.ID, p.SemanticUnitVersion, p.Status)
			if p.Status == domain.ProjectionStatusCompleted {
				cmd.Printf("  %d chunks, %d dims", p.Result.ChunkCount, p.Result.Dimensions)
			}
			if p.Error != "" {
				cmd.Printf("  error: %s", p.Error)
			}
			cmd.Println()
		}
	}
	return nil
}

func runUnitAddSource(cmd *cobra.Command, args []string) error {
	if err := unitService.AddSource(context.Background(), args[0], unitSourceID, unitContent, ""); err != nil {
		return fmt.Errorf("adding source: %w", err)
	}
	cmd.Printf("Source %s attached to unit %s.\n", unitSourceID, args[0])
	return nil
}

func runUnitVersion(cmd *cobra.Command, args []string) error {
	version, err := unitService.Version(context.Background(), args[0], unitProfileID, unitReason)
	if err != nil {
		return fmt.Errorf("versioning unit: %w", err)
	}

	if version == nil {
		cmd.Println("Content unchanged; no new version created.")
		return nil
	}
	cmd.Printf("Unit %s is now at version %d.\n", args[0], version.Version)
	return nil
}
