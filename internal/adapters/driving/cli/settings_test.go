package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nublado-labs/nublado-cli/internal/core/domain"
)

func TestSettingsCmd_ShowDefaults(t *testing.T) {
	withServices(t, nil, nil, nil, &mockSettingsService{})

	out, err := executeCommand(t, "settings", "show")
	require.NoError(t, err)

	assert.Contains(t, out, "[Search]")
	assert.Contains(t, out, "Min score: 0.30")
	assert.Contains(t, out, "Fallback below: 0.25")
	assert.Contains(t, out, "Max safe chars: 8000")
	assert.Contains(t, out, "Embed model: text-embedding-3-small")
	assert.Contains(t, out, "API Key: (from environment)")
}

func TestSettingsCmd_ShowMasksAPIKey(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.AI.APIKey = "sk-abcdef1234567890"
	withServices(t, nil, nil, nil, &mockSettingsService{settings: &settings})

	out, err := executeCommand(t, "settings", "show")
	require.NoError(t, err)

	assert.Contains(t, out, "sk-a...7890")
	assert.NotContains(t, out, "sk-abcdef1234567890")
}

func TestSettingsCmd_BareInvocationShows(t *testing.T) {
	withServices(t, nil, nil, nil, &mockSettingsService{})

	out, err := executeCommand(t, "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
}

func TestSettingsThresholdsCmd_SetsValues(t *testing.T) {
	mock := &mockSettingsService{}
	withServices(t, nil, nil, nil, mock)

	out, err := executeCommand(t, "settings", "thresholds", "0.6", "0.25")
	require.NoError(t, err)

	assert.InDelta(t, 0.6, mock.lastMinScore, 1e-9)
	assert.InDelta(t, 0.25, mock.lastFallbackBelow, 1e-9)
	assert.Contains(t, out, "min score 0.60")
}

func TestSettingsThresholdsCmd_RejectsNonNumeric(t *testing.T) {
	withServices(t, nil, nil, nil, &mockSettingsService{})

	_, err := executeCommand(t, "settings", "thresholds", "high", "0.2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid min-score")
}

func TestSettingsThresholdsCmd_PropagatesValidation(t *testing.T) {
	mock := &mockSettingsService{err: domain.ErrInvalidInput}
	withServices(t, nil, nil, nil, mock)

	_, err := executeCommand(t, "settings", "thresholds", "0.2", "0.5")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk-1...wxyz", maskAPIKey("sk-1234567890wxyz"))
}
