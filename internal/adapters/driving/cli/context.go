package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/draftly-ai/ragcore/internal/core/domain"
)

var (
	contextCategories []string
	contextMaxTokens  int
	contextJSON       bool
)

var contextCmd = &cobra.Command{
	Use:   "context [query]",
	Short: "Assemble retrieval context for a query",
	Long: `Searches the document library and packs the most relevant chunks
into a token budget, ready for prompt injection. Each chunk is labelled
with its source document and category.`,
	Args: cobra.ExactArgs(1),
	RunE: runContext,
}

func init() {
	contextCmd.Flags().StringSliceVarP(&contextCategories, "category", "c", nil, "restrict to categories (repeatable)")
	contextCmd.Flags().IntVar(&contextMaxTokens, "max-tokens", domain.DefaultContextTokens, "token budget for the assembled context")
	contextCmd.Flags().BoolVar(&contextJSON, "json", false, "output context and sources as JSON")
	rootCmd.AddCommand(contextCmd)
}

func runContext(cmd *cobra.Command, args []string) error {
	query := args[0]

	if contextService == nil {
		return errors.New("context service not configured")
	}

	cats, err := parseCategories(contextCategories)
	if err != nil {
		return err
	}

	ragCtx, err := contextService.BuildContext(cmd.Context(), userID, query, cats, contextMaxTokens)
	if err != nil {
		return fmt.Errorf("context assembly failed: %w", err)
	}

	if contextJSON {
		data, err := json.MarshalIndent(ragCtx, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal context: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if ragCtx.Context == "" {
		cmd.Println("No relevant context found.")
		return nil
	}

	cmd.Println(ragCtx.Context)
	cmd.Println()
	cmd.Println("Sources:")
	for _, src := range ragCtx.Sources {
		cmd.Printf("  %d: %s (%.2f)\n", src.DocumentID, src.Title, src.Score)
	}

	return nil
}
