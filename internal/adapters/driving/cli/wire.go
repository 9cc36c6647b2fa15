package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/nublado-labs/nublado-cli/internal/adapters/driven/ai"
	"github.com/nublado-labs/nublado-cli/internal/adapters/driven/config/file"
	"github.com/nublado-labs/nublado-cli/internal/adapters/driven/storage/sqlite"
	"github.com/nublado-labs/nublado-cli/internal/connectors/dropbox"
	"github.com/nublado-labs/nublado-cli/internal/connectors/google/drive"
	"github.com/nublado-labs/nublado-cli/internal/core/ports/driven"
	"github.com/nublado-labs/nublado-cli/internal/core/services"
	"github.com/nublado-labs/nublado-cli/internal/logger"
)

// wireServices builds the production object graph: config, registry,
// AI provider, cloud stores and the core services on top of them.
// Backends and the AI provider are optional; commands that need a
// missing piece report it at invocation time instead of blocking
// unrelated commands here.
func wireServices(ctx context.Context) error {
	// Credentials come from the environment, optionally via .env.
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded: %v", err)
	}

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}
	settingsService = services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	registry, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return fmt.Errorf("open registry: %w", err)
	}

	// The organizer and the registry-backed lookups need no AI provider,
	// so they come up before the provider is even considered.
	stores := buildCloudStores(ctx)
	organizer = services.NewCategoryOrganizer(stores, registry)

	aiSettings := settings.AI
	if aiSettings.APIKey == "" {
		aiSettings.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	insight, err := ai.CreateInsightService(aiSettings)
	if err != nil {
		logger.Warn("AI provider misconfigured, sync and semantic search are unavailable: %v", err)
		searchService = services.NewSemanticSearch(registry, nil)
		return nil
	}
	if insight == nil {
		logger.Warn("no AI provider configured, sync and semantic search are unavailable")
		searchService = services.NewSemanticSearch(registry, nil)
		return nil
	}
	if aware, ok := insight.(driven.PromptStoreAware); ok {
		if prompts, perr := file.NewPromptStore(""); perr == nil {
			aware.SetPromptStore(prompts)
		} else {
			logger.Warn("prompt store unavailable, using built-in prompts: %v", perr)
		}
	}
	if err := ai.ValidateInsight(insight); err != nil {
		logger.Warn("AI provider validation failed: %v", err)
	}

	embedder := services.NewChunkedEmbedder(insight,
		services.WithMaxSafeChars(settings.Indexing.MaxSafeChars),
		services.WithMaxChunks(settings.Indexing.MaxChunks),
	)
	searchService = services.NewSemanticSearch(registry, embedder)
	reconciler = services.NewReconciler(stores, insight, embedder, registry, settings.Indexing.ScratchDir)
	return nil
}

// buildCloudStores creates a CloudStore per backend with credentials in
// the environment. A backend without credentials is simply absent.
func buildCloudStores(ctx context.Context) []driven.CloudStore {
	var stores []driven.CloudStore

	dbxCfg := dropbox.Config{
		AccessToken:  os.Getenv("DROPBOX_ACCESS_TOKEN"),
		AppKey:       os.Getenv("DROPBOX_APP_KEY"),
		AppSecret:    os.Getenv("DROPBOX_APP_SECRET"),
		RefreshToken: os.Getenv("DROPBOX_REFRESH_TOKEN"),
	}
	if dbxCfg.AccessToken != "" || dbxCfg.RefreshToken != "" {
		if store, err := dropbox.NewStore(dbxCfg); err != nil {
			logger.Warn("dropbox backend unavailable: %v", err)
		} else {
			stores = append(stores, store)
		}
	}

	driveCfg := drive.Config{
		ClientID:      os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret:  os.Getenv("GOOGLE_CLIENT_SECRET"),
		RefreshToken:  os.Getenv("GOOGLE_REFRESH_TOKEN"),
		PublicUploads: true,
	}
	if driveCfg.Validate() == nil {
		if store, err := drive.NewStore(ctx, driveCfg); err != nil {
			logger.Warn("drive backend unavailable: %v", err)
		} else {
			stores = append(stores, store)
		}
	}

	if len(stores) == 0 {
		logger.Warn("no cloud backends configured")
	}
	return stores
}
