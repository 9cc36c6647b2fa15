package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nublado-labs/nublado-cli/internal/core/domain"
)

func TestSyncCmd_Use(t *testing.T) {
	assert.Equal(t, "sync", syncCmd.Use)
}

func TestSyncCmd_StreamsProgressAndSummary(t *testing.T) {
	report := &domain.Report{}
	report.Record(domain.FileOutcome{Name: "a.pdf", Service: "dropbox", Stage: domain.StageRegistered})
	report.Record(domain.FileOutcome{Name: "b.jpg", Service: "drive", Stage: domain.StageFailed, Err: domain.ErrDownloadFailed})

	withServices(t, &mockReconciler{
		report:   report,
		messages: []string{"Starting global cloud scan...", "Scanning files in dropbox..."},
	}, nil, nil, nil)

	out, err := executeCommand(t, "sync")
	require.NoError(t, err)

	assert.Contains(t, out, "Starting global cloud scan...")
	assert.Contains(t, out, "Scanning files in dropbox...")
	assert.Contains(t, out, "COMPLETED: 1 new, 1 errors.")
}

func TestSyncCmd_NotConfigured(t *testing.T) {
	withServices(t, nil, nil, nil, nil)

	_, err := executeCommand(t, "sync")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestSyncCmd_PropagatesScanFailure(t *testing.T) {
	withServices(t, &mockReconciler{err: errors.New("no backend reachable")}, nil, nil, nil)

	_, err := executeCommand(t, "sync")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sync failed")
}
