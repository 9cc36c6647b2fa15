package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure search thresholds, indexing limits and the AI
provider connection.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsThresholdsCmd = &cobra.Command{
	Use:   "thresholds <min-score> <fallback-below>",
	Short: "Set the search score thresholds",
	Long: `Sets the minimum score a semantic hit needs to be shown and the
score under which the plain name-match fallback kicks in. Both are in
[0, 1] and the fallback threshold may not exceed the minimum score.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsThresholds,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsThresholdsCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Min score: %.2f\n", settings.Search.MinScore)
	cmd.Printf("  Fallback below: %.2f\n", settings.Search.FallbackBelow)
	cmd.Printf("  Page size: %d\n", settings.Search.PageSize)
	cmd.Println()

	cmd.Println("[Indexing]")
	cmd.Printf("  Max safe chars: %d\n", settings.Indexing.MaxSafeChars)
	cmd.Printf("  Max chunks: %d\n", settings.Indexing.MaxChunks)
	cmd.Printf("  Scratch dir: %s\n", settings.Indexing.ScratchDir)
	cmd.Println()

	cmd.Println("[AI]")
	cmd.Printf("  Base URL: %s\n", settings.AI.BaseURL)
	cmd.Printf("  Embed model: %s\n", settings.AI.EmbedModel)
	cmd.Printf("  Chat model: %s\n", settings.AI.ChatModel)
	cmd.Printf("  Transcribe model: %s\n", settings.AI.TranscribeModel)
	if settings.AI.APIKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(settings.AI.APIKey))
	} else {
		cmd.Printf("  API Key: (from environment)\n")
	}

	return nil
}

func runSettingsThresholds(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	minScore, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid min-score %q: %w", args[0], err)
	}
	fallbackBelow, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid fallback-below %q: %w", args[1], err)
	}

	if err := settingsService.SetSearchThresholds(minScore, fallbackBelow); err != nil {
		return fmt.Errorf("failed to set thresholds: %w", err)
	}

	cmd.Printf("Search thresholds set: min score %.2f, fallback below %.2f\n", minScore, fallbackBelow)
	return nil
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
