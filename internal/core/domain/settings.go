package domain

import "fmt"

// SearchSettings controls the semantic search behaviour.
type SearchSettings struct {
	// MinScore is the minimum boosted cosine score for a scored result.
	MinScore float64

	// FallbackBelow triggers the name-match fallback when the best scored
	// result falls under it.
	FallbackBelow float64

	// PageSize is the default number of results per page.
	PageSize int
}

// IndexingSettings controls the reconciliation pipeline.
type IndexingSettings struct {
	// MaxSafeChars is the per-chunk character limit sent to the embedding
	// model.
	MaxSafeChars int

	// MaxChunks caps how many chunks of a long document are embedded.
	MaxChunks int

	// ScratchDir is where remote files are downloaded for analysis.
	ScratchDir string
}

// AISettings configures the AI provider.
type AISettings struct {
	// BaseURL overrides the provider endpoint. Empty uses the default.
	BaseURL string

	// APIKey authenticates against the provider.
	APIKey string

	// EmbedModel is the embedding model name.
	EmbedModel string

	// ChatModel is the vision/summary model name.
	ChatModel string

	// TranscribeModel is the audio transcription model name.
	TranscribeModel string
}

// AppSettings holds all tunable application settings.
type AppSettings struct {
	// Search holds search behaviour settings.
	Search SearchSettings

	// Indexing holds reconciliation pipeline settings.
	Indexing IndexingSettings

	// AI holds AI provider settings.
	AI AISettings

	// DataDir overrides the catalogue database location.
	DataDir string
}

// DefaultAppSettings returns settings with sensible defaults.
// The AI API key is left unconfigured; it usually comes from the
// environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Search: SearchSettings{
			MinScore:      DefaultMinScore,
			FallbackBelow: DefaultFallbackBelow,
			PageSize:      DefaultSearchLimit,
		},
		Indexing: IndexingSettings{
			MaxSafeChars: 8000,
			MaxChunks:    5,
			ScratchDir:   "downloads",
		},
		AI: AISettings{
			EmbedModel:      "text-embedding-3-small",
			ChatModel:       "gpt-4o-mini",
			TranscribeModel: "whisper-1",
		},
	}
}

// Validate checks setting values for internal consistency.
func (s *AppSettings) Validate() error {
	if s.Search.MinScore < 0 || s.Search.MinScore > 1 {
		return fmt.Errorf("%w: search min score must be in [0, 1]", ErrInvalidInput)
	}
	if s.Search.FallbackBelow < 0 || s.Search.FallbackBelow > s.Search.MinScore {
		return fmt.Errorf("%w: fallback threshold must be in [0, min score]", ErrInvalidInput)
	}
	if s.Search.PageSize <= 0 {
		return fmt.Errorf("%w: page size must be positive", ErrInvalidInput)
	}
	if s.Indexing.MaxSafeChars < 100 {
		return fmt.Errorf("%w: max safe chars must be at least 100", ErrInvalidInput)
	}
	if s.Indexing.MaxChunks < 1 {
		return fmt.Errorf("%w: max chunks must be at least 1", ErrInvalidInput)
	}
	return nil
}
