package services

import (
	"fmt"

	"github.com/nublado-labs/nublado-cli/internal/core/domain"
	"github.com/nublado-labs/nublado-cli/internal/core/ports/driven"
	"github.com/nublado-labs/nublado-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keySearchMinScore      = "search.min_score"
	keySearchFallbackBelow = "search.fallback_below"
	keySearchPageSize      = "search.page_size"
	keyIndexMaxSafeChars   = "indexing.max_safe_chars"
	keyIndexMaxChunks      = "indexing.max_chunks"
	keyIndexScratchDir     = "indexing.scratch_dir"
	keyAIBaseURL           = "ai.base_url"
	keyAIAPIKey            = "ai.api_key"
	keyAIEmbedModel        = "ai.embed_model"
	keyAIChatModel         = "ai.chat_model"
	keyAITranscribeModel   = "ai.transcribe_model"
	keyDataDir             = "data_dir"
)

// SettingsService manages application settings backed by a config store.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings, filling in defaults for
// anything the config file does not set.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Search: domain.SearchSettings{
			MinScore:      s.getFloat(keySearchMinScore, defaults.Search.MinScore),
			FallbackBelow: s.getFloat(keySearchFallbackBelow, defaults.Search.FallbackBelow),
			PageSize:      s.getInt(keySearchPageSize, defaults.Search.PageSize),
		},
		Indexing: domain.IndexingSettings{
			MaxSafeChars: s.getInt(keyIndexMaxSafeChars, defaults.Indexing.MaxSafeChars),
			MaxChunks:    s.getInt(keyIndexMaxChunks, defaults.Indexing.MaxChunks),
			ScratchDir:   s.getString(keyIndexScratchDir, defaults.Indexing.ScratchDir),
		},
		AI: domain.AISettings{
			BaseURL:         s.configStore.GetString(keyAIBaseURL), // No default - empty selects the provider default
			APIKey:          s.configStore.GetString(keyAIAPIKey),
			EmbedModel:      s.getString(keyAIEmbedModel, defaults.AI.EmbedModel),
			ChatModel:       s.getString(keyAIChatModel, defaults.AI.ChatModel),
			TranscribeModel: s.getString(keyAITranscribeModel, defaults.AI.TranscribeModel),
		},
		DataDir: s.configStore.GetString(keyDataDir),
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	pairs := []struct {
		key   string
		value any
	}{
		{keySearchMinScore, settings.Search.MinScore},
		{keySearchFallbackBelow, settings.Search.FallbackBelow},
		{keySearchPageSize, settings.Search.PageSize},
		{keyIndexMaxSafeChars, settings.Indexing.MaxSafeChars},
		{keyIndexMaxChunks, settings.Indexing.MaxChunks},
		{keyIndexScratchDir, settings.Indexing.ScratchDir},
		{keyAIBaseURL, settings.AI.BaseURL},
		{keyAIEmbedModel, settings.AI.EmbedModel},
		{keyAIChatModel, settings.AI.ChatModel},
		{keyAITranscribeModel, settings.AI.TranscribeModel},
		{keyDataDir, settings.DataDir},
	}
	for _, p := range pairs {
		if err := s.configStore.Set(p.key, p.value); err != nil {
			return fmt.Errorf("save %s: %w", p.key, err)
		}
	}

	// Only persist the API key when explicitly set, so the environment
	// variable remains the usual source.
	if settings.AI.APIKey != "" {
		if err := s.configStore.Set(keyAIAPIKey, settings.AI.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyAIAPIKey, err)
		}
	}

	return nil
}

// SetSearchThresholds updates the scored-result and fallback cutoffs.
func (s *SettingsService) SetSearchThresholds(minScore, fallbackBelow float64) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Search.MinScore = minScore
	settings.Search.FallbackBelow = fallbackBelow
	return s.Save(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) getString(key, fallback string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return fallback
}

func (s *SettingsService) getInt(key string, fallback int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return fallback
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, fallback float64) float64 {
	if _, ok := s.configStore.Get(key); !ok {
		return fallback
	}
	return s.configStore.GetFloat64(key)
}
