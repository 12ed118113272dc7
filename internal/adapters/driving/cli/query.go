package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/semantica/internal/core/ports/driving"
	"github.com/custodia-labs/semantica/internal/core/services"
	"github.com/custodia-labs/semantica/internal/rankers"
)

var (
	queryProfileID string
	queryTopK      int
	queryMinScore  float64
	queryFilters   string
	queryJSON      bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Search the vector space",
	Long: `Embeds the query text with the profile's embedding strategy and returns
the most similar indexed chunks by cosine similarity.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryProfileID, "profile", "", "processing profile id (default from config)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "n", services.DefaultTopK, "maximum number of results")
	queryCmd.Flags().Float64Var(&queryMinScore, "min-score", 0, "drop results scoring below this")
	queryCmd.Flags().StringVar(&queryFilters, "filter", "", "exact-match metadata filter as JSON")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")

	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	profileID := defaultProfileID(queryProfileID)
	if profileID == "" {
		return fmt.Errorf("no profile given and no default configured (set one with 'profile register --default')")
	}

	var filters map[string]any
	if queryFilters != "" {
		if err := json.Unmarshal([]byte(queryFilters), &filters); err != nil {
			return fmt.Errorf("parsing --filter: %w", err)
		}
	}

	queryService := services.NewQueryService(profileStore, vectorStore, queryEmbedders, profileID,
		services.WithRanker(rankers.NewScoreRanker()))

	results, err := queryService.Query(context.Background(), args[0], driving.QueryOptions{
		TopK:     queryTopK,
		MinScore: queryMinScore,
		Filters:  filters,
	})
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	for i, result := range results {
		cmd.Printf("  [%d] unit %s (%.3f)\n", i+1, result.SemanticUnitID, result.Score)
		cmd.Printf("      %s\n", snippet(result.Content, 120))
	}
	return nil
}

// snippet truncates text to at most n runes for display.
func snippet(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
