// Package cli implements the ragcore command-line interface using
// cobra. Commands talk to the core through the driving ports; services
// are wired once per invocation in initServices.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/draftly-ai/ragcore/internal/adapters/driven/config/file"
	"github.com/draftly-ai/ragcore/internal/adapters/driven/credentials"
	"github.com/draftly-ai/ragcore/internal/adapters/driven/embedding"
	"github.com/draftly-ai/ragcore/internal/adapters/driven/storage/sqlite"
	"github.com/draftly-ai/ragcore/internal/core/domain"
	"github.com/draftly-ai/ragcore/internal/core/ports/driven"
	"github.com/draftly-ai/ragcore/internal/core/ports/driving"
	"github.com/draftly-ai/ragcore/internal/core/services"
	"github.com/draftly-ai/ragcore/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	verbose   bool
	dataDir   string
	configDir string
	userID    string
)

// Wired services. Nil when not configured; commands report that as an
// error rather than panicking.
var (
	configStore     driven.ConfigStore
	docStore        driven.DocumentStore
	searchService   driving.SearchService
	contextService  driving.ContextService
	embedService    driving.EmbedService
	documentService driving.DocumentService
)

var rootCmd = &cobra.Command{
	Use:   "ragcore",
	Short: "Document embedding and retrieval for content generation",
	Long: `ragcore manages a local library of business context documents:
it chunks and embeds them, and retrieves the most relevant passages for
a query via semantic or hybrid search.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return initServices(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.ragcore/data)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.ragcore)")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "default", "user scope for documents")
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// initServices wires adapters into the core services. The embedding
// provider needs an API key; when none resolves, document management
// still works and only the embedding-dependent commands are disabled.
func initServices(ctx context.Context) error {
	if docStore != nil {
		return nil // Already wired (tests inject their own)
	}

	cfg, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	configStore = cfg

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	docStore = store

	documentService = services.NewDocumentService(docStore)

	chain := credentials.NewChain(
		&credentials.EnvProvider{},
		&credentials.ConfigProvider{Config: configStore},
	)
	cred, err := chain.Resolve(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialMissing) {
			logger.Warn("No embedding API key: search and embedding commands disabled")
			return nil
		}
		return fmt.Errorf("resolving credentials: %w", err)
	}
	logger.Debug("API key resolved from %s", cred.Source)

	embedder, err := embedding.New(embedding.Config{
		Provider:          configStore.GetString("embedding.provider"),
		APIKey:            cred.Key,
		Model:             configStore.GetString("embedding.model"),
		RequestsPerSecond: 3,
		Burst:             5,
	})
	if err != nil {
		return fmt.Errorf("configuring embedding service: %w", err)
	}

	search := services.NewSearchService(docStore, embedder)
	searchService = search
	contextService = services.NewContextService(search)
	embedService = services.NewEmbedService(docStore, embedder)

	return nil
}

// closeServices releases wired resources.
func closeServices() {
	if docStore != nil {
		if err := docStore.Close(); err != nil {
			logger.Warn("Closing store: %v", err)
		}
	}
}

// parseCategories converts repeated --category values.
func parseCategories(names []string) ([]domain.Category, error) {
	var cats []domain.Category
	for _, name := range names {
		cat, err := domain.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	return cats, nil
}
