package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/draftly-ai/ragcore/internal/core/domain"
)

var (
	searchLimit      int
	searchThreshold  float64
	searchCategories []string
	searchHybrid     bool
	searchShowText   bool
	searchJSON       bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the document library",
	Long: `Performs semantic search over embedded document chunks.
With --hybrid, blends the semantic score with keyword overlap to favour
results that also contain the query's words literally.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultLimit, "maximum number of results")
	searchCmd.Flags().Float64Var(&searchThreshold, "threshold", domain.DefaultThreshold, "minimum similarity score")
	searchCmd.Flags().StringSliceVarP(&searchCategories, "category", "c", nil, "restrict to categories (repeatable)")
	searchCmd.Flags().BoolVar(&searchHybrid, "hybrid", false, "blend semantic and keyword scores")
	searchCmd.Flags().BoolVar(&searchShowText, "show-text", false, "include chunk text in results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	cats, err := parseCategories(searchCategories)
	if err != nil {
		return err
	}

	opts := domain.SearchOptions{
		Categories:  cats,
		Threshold:   searchThreshold,
		Limit:       searchLimit,
		IncludeText: searchShowText || searchJSON,
	}

	var results []domain.SearchResult
	if searchHybrid {
		hybridOpts := domain.DefaultHybridOptions()
		hybridOpts.SearchOptions = opts
		results, err = searchService.HybridSearch(cmd.Context(), userID, query, hybridOpts)
	} else {
		results, err = searchService.SemanticSearch(cmd.Context(), userID, query, opts)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		r := &results[i]
		cmd.Printf("  [%d] %s (%s) chunk %d (%.2f)\n", i+1, r.Title, r.Category, r.ChunkIndex, r.Score)
		if searchShowText && r.ChunkText != "" {
			cmd.Printf("      %s\n", snippet(r.ChunkText, 160))
		}
		cmd.Println()
	}

	return nil
}

// snippet trims text to at most n characters for table output.
func snippet(text string, n int) string {
	if len(text) <= n {
		return text
	}
	return text[:n] + "..."
}
