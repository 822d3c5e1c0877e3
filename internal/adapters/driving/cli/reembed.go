package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var reembedCmd = &cobra.Command{
	Use:   "reembed [document-id]",
	Short: "Re-chunk and re-embed a document",
	Long: `Re-runs the embedding pipeline for a document: splits its current
content into chunks, embeds each chunk, and replaces the stored
embeddings. Run this after editing a document's content.`,
	Args: cobra.ExactArgs(1),
	RunE: runReembed,
}

func init() {
	rootCmd.AddCommand(reembedCmd)
}

func runReembed(cmd *cobra.Command, args []string) error {
	if embedService == nil {
		return errors.New("embedding service not configured")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid document id %q", args[0])
	}

	result := embedService.ReembedDocument(cmd.Context(), id, userID)
	if !result.Success {
		return fmt.Errorf("re-embed failed: %s", result.Error)
	}

	cmd.Printf("Embedded document %d: %d chunks\n", id, result.ChunksProcessed)
	return nil
}
