package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/draftly-ai/ragcore/internal/core/domain"
	"github.com/draftly-ai/ragcore/internal/ingest"
	"github.com/draftly-ai/ragcore/internal/logger"
)

var (
	ingestTitle    string
	ingestCategory string
	ingestWatch    bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Add a document from a file",
	Long: `Reads a text file into the document library and embeds it. The
title defaults to the file name.

With --watch, the path is a directory: files created or modified under
it are ingested as they appear, until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestTitle, "title", "t", "", "document title (default: file name)")
	ingestCmd.Flags().StringVarP(&ingestCategory, "category", "c", string(domain.CategoryGeneral), "document category")
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "watch a directory and ingest files as they change")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	category, err := domain.ParseCategory(ingestCategory)
	if err != nil {
		return err
	}

	if ingestWatch {
		return watchDirectory(cmd, args[0], category)
	}

	return ingestFile(cmd, args[0], ingestTitle, category)
}

func ingestFile(cmd *cobra.Command, path, title string, category domain.Category) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	derivedTitle, text := ingest.Normalise(path, content)
	if title == "" {
		title = derivedTitle
	}

	doc, err := documentService.Create(cmd.Context(), userID, title, category, text)
	if err != nil {
		return fmt.Errorf("creating document: %w", err)
	}
	cmd.Printf("Created document %d: %s (%s)\n", doc.ID, doc.Title, doc.Category)

	if embedService == nil {
		cmd.Println("Embedding service not configured; run 'ragcore reembed' once configured.")
		return nil
	}

	result := embedService.ReembedDocument(cmd.Context(), doc.ID, userID)
	if !result.Success {
		return fmt.Errorf("embedding failed: %s", result.Error)
	}
	cmd.Printf("Embedded %d chunks\n", result.ChunksProcessed)

	return nil
}

// watchDirectory ingests text files as they are created or written in
// dir. Runs until the context is cancelled or an interrupt arrives.
func watchDirectory(cmd *cobra.Command, dir string, category domain.Category) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("--watch requires a directory, got %s", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", dir)

	for {
		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		case <-stop:
			cmd.Println("Stopped.")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !ingestableFile(event.Name) {
				continue
			}
			if err := ingestFile(cmd, event.Name, "", category); err != nil {
				logger.Warn("Ingest %s: %v", event.Name, err)
				cmd.PrintErrf("Failed to ingest %s: %v\n", event.Name, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher: %v", err)
		}
	}
}

// ingestableFile reports whether the path looks like a text document.
func ingestableFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".markdown":
		return true
	default:
		return false
	}
}
