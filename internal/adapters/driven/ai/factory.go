// Package ai assembles the TextInsight provider from application settings.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/nublado-labs/nublado-cli/internal/adapters/driven/ai/openai"
	"github.com/nublado-labs/nublado-cli/internal/core/domain"
	"github.com/nublado-labs/nublado-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for provider connectivity validation.
const pingTimeout = 5 * time.Second

// CreateInsightService builds the OpenAI-compatible TextInsight adapter
// from settings. Returns (nil, nil) when no API key is configured, so
// callers can degrade to catalogue-only operation.
func CreateInsightService(settings domain.AISettings) (driven.TextInsight, error) {
	if settings.APIKey == "" {
		return nil, nil
	}

	svc, err := openai.NewInsightService(openai.Config{
		APIKey:          settings.APIKey,
		BaseURL:         settings.BaseURL,
		EmbedModel:      settings.EmbedModel,
		ChatModel:       settings.ChatModel,
		TranscribeModel: settings.TranscribeModel,
	})
	if err != nil {
		return nil, fmt.Errorf("create AI provider: %w", err)
	}
	return svc, nil
}

// ValidateInsight checks provider connectivity with a bounded ping.
func ValidateInsight(svc driven.TextInsight) error {
	if svc == nil {
		return fmt.Errorf("no AI provider configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("AI provider unreachable: %w", err)
	}
	return nil
}
