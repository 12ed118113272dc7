package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/semantica/internal/core/ports/driving"
)

var (
	profileID         string
	profileName       string
	profileChunking   string
	profileEmbedding  string
	profileConfigJSON string
	profileDefault    bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage processing profiles",
}

var profileRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a processing profile",
	Long: `Registers a named pairing of a chunking strategy and an embedding
strategy. Strategy-specific settings are passed as a JSON object, e.g.
'{"chunk_size": 500, "overlap": 100, "dimensions": 256}'.`,
	RunE: runProfileRegister,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List processing profiles",
	RunE:  runProfileList,
}

var profileShowCmd = &cobra.Command{
	Use:   "show [profile-id]",
	Short: "Show a processing profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileShow,
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update [profile-id]",
	Short: "Update a profile's strategies and config",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileUpdate,
}

var profileDeprecateCmd = &cobra.Command{
	Use:   "deprecate [profile-id]",
	Short: "Deactivate a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := profileService.Deprecate(context.Background(), args[0]); err != nil {
			return fmt.Errorf("deprecating profile: %w", err)
		}
		cmd.Printf("Profile %s is now deprecated.\n", args[0])
		return nil
	},
}

func init() {
	profileRegisterCmd.Flags().StringVar(&profileID, "id", "", "profile id (generated when empty)")
	profileRegisterCmd.Flags().StringVar(&profileName, "name", "", "profile name (required)")
	profileRegisterCmd.Flags().StringVar(&profileChunking, "chunking", "recursive", "chunking strategy id")
	profileRegisterCmd.Flags().StringVar(&profileEmbedding, "embedding", "hash", "embedding strategy id")
	profileRegisterCmd.Flags().StringVar(&profileConfigJSON, "config", "", "strategy config as JSON")
	profileRegisterCmd.Flags().BoolVar(&profileDefault, "default", false, "set as the default query profile")
	profileRegisterCmd.MarkFlagRequired("name") //nolint:errcheck

	profileUpdateCmd.Flags().StringVar(&profileChunking, "chunking", "", "chunking strategy id")
	profileUpdateCmd.Flags().StringVar(&profileEmbedding, "embedding", "", "embedding strategy id")
	profileUpdateCmd.Flags().StringVar(&profileConfigJSON, "config", "", "strategy config as JSON")

	profileCmd.AddCommand(profileRegisterCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	profileCmd.AddCommand(profileDeprecateCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileRegister(cmd *cobra.Command, _ []string) error {
	config, err := parseProfileConfig(profileConfigJSON)
	if err != nil {
		return err
	}

	profile, err := profileService.Register(context.Background(), driving.ProfileInput{
		ID:                profileID,
		Name:              profileName,
		ChunkingStrategy:  profileChunking,
		EmbeddingStrategy: profileEmbedding,
		Config:            config,
	})
	if err != nil {
		return fmt.Errorf("registering profile: %w", err)
	}

	if profileDefault {
		if err := configStore.Set("profile.default", profile.ID); err != nil {
			return fmt.Errorf("setting default profile: %w", err)
		}
	}

	cmd.Printf("Registered profile %s (%s/%s)\n", profile.ID, profile.ChunkingStrategy, profile.EmbeddingStrategy)
	return nil
}

func runProfileList(cmd *cobra.Command, _ []string) error {
	profiles, err := profileService.List(context.Background())
	if err != nil {
		return fmt.Errorf("listing profiles: %w", err)
	}

	if len(profiles) == 0 {
		cmd.Println("No profiles registered.")
		return nil
	}

	for _, profile := range profiles {
		status := "active"
		if !profile.Active {
			status = "deprecated"
		}
		cmd.Printf("  %s  v%d  %-10s  %s/%s  %s\n", profile.ID, profile.Version, status,
			profile.ChunkingStrategy, profile.EmbeddingStrategy, profile.Name)
	}
	return nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	profile, err := profileService.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("getting profile: %w", err)
	}

	cmd.Printf("ID:        %s\n", profile.ID)
	cmd.Printf("Name:      %s\n", profile.Name)
	cmd.Printf("Chunking:  %s\n", profile.ChunkingStrategy)
	cmd.Printf("Embedding: %s\n", profile.EmbeddingStrategy)
	cmd.Printf("Version:   %d\n", profile.Version)
	cmd.Printf("Active:    %t\n", profile.Active)

	if len(profile.Config) > 0 {
		data, err := json.MarshalIndent(profile.Config, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling config: %w", err)
		}
		cmd.Printf("Config:    %s\n", string(data))
	}
	return nil
}

func runProfileUpdate(cmd *cobra.Command, args []string) error {
	config, err := parseProfileConfig(profileConfigJSON)
	if err != nil {
		return err
	}

	profile, err := profileService.Update(context.Background(), driving.ProfileInput{
		ID:                args[0],
		ChunkingStrategy:  profileChunking,
		EmbeddingStrategy: profileEmbedding,
		Config:            config,
	})
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}

	cmd.Printf("Profile %s is now at version %d.\n", profile.ID, profile.Version)
	return nil
}

func parseProfileConfig(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	var config map[string]any
	if err := json.Unmarshal([]byte(raw), &config); err != nil {
		return nil, fmt.Errorf("parsing --config: %w", err)
	}
	return config, nil
}
