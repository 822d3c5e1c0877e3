package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var listCategories []string

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Manage the document library",
	RunE:    runDocumentsList,
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	RunE:  runDocumentsList,
}

var documentsShowCmd = &cobra.Command{
	Use:   "show [document-id]",
	Short: "Show a document's content and embedding state",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsShow,
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete [document-id]",
	Short: "Delete a document",
	Long: `Soft-deletes a document. Its chunks stop appearing in search
results immediately; the row is retained for audit.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentsDelete,
}

func init() {
	documentsListCmd.Flags().StringSliceVarP(&listCategories, "category", "c", nil, "restrict to categories (repeatable)")
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsShowCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	cats, err := parseCategories(listCategories)
	if err != nil {
		return err
	}

	docs, err := documentService.List(cmd.Context(), userID, cats)
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents.")
		return nil
	}

	for i := range docs {
		d := &docs[i]
		cmd.Printf("  [%d] %s (%s) - %s", d.ID, d.Title, d.Category, d.EmbeddingStatus)
		if d.Embedded() {
			cmd.Printf(", %d chunks, %s", d.ChunksCount, d.EmbeddingModel)
		}
		cmd.Println()
	}

	return nil
}

func runDocumentsShow(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid document id %q", args[0])
	}

	doc, err := documentService.Get(cmd.Context(), id, userID)
	if err != nil {
		return fmt.Errorf("loading document: %w", err)
	}

	cmd.Printf("Title:    %s\n", doc.Title)
	cmd.Printf("Category: %s\n", doc.Category)
	cmd.Printf("Status:   %s", doc.EmbeddingStatus)
	if doc.ChunksCount > 0 {
		cmd.Printf(" (%d/%d chunks)", doc.EmbeddingProgress, doc.ChunksCount)
	}
	cmd.Println()
	if doc.LastEmbeddedAt != nil {
		cmd.Printf("Embedded: %s with %s\n", doc.LastEmbeddedAt.Format("2006-01-02 15:04"), doc.EmbeddingModel)
	}
	cmd.Println()
	cmd.Println(doc.Content)

	return nil
}

func runDocumentsDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid document id %q", args[0])
	}

	if err := documentService.Delete(cmd.Context(), id, userID); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	cmd.Printf("Deleted document %d\n", id)
	return nil
}
