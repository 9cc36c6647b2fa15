package driving

import "github.com/nublado-labs/nublado-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetSearchThresholds updates the scored-result and fallback cutoffs.
	SetSearchThresholds(minScore, fallbackBelow float64) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
