package cli

import (
	"bytes"
	"testing"

	"github.com/nublado-labs/nublado-cli/internal/core/domain"
)

// executeCommand runs the root command with the given args, capturing
// output and restoring global command state afterwards.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetSearchFlags()
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetSearchFlags() {
	searchLimit = domain.DefaultSearchLimit
	searchJSON = false
	searchName = ""
	searchRecent = false
	if f := searchCmd.Flags().Lookup("limit"); f != nil {
		f.Changed = false
	}
}

// withServices installs mock services for the duration of one test.
func withServices(
	t *testing.T,
	rec *mockReconciler,
	search *mockSearchService,
	org *mockOrganizer,
	settings *mockSettingsService,
) {
	t.Helper()

	origReconciler := reconciler
	origSearch := searchService
	origOrganizer := organizer
	origSettings := settingsService
	t.Cleanup(func() {
		reconciler = origReconciler
		searchService = origSearch
		organizer = origOrganizer
		settingsService = origSettings
	})

	reconciler = nil
	searchService = nil
	organizer = nil
	settingsService = nil
	if rec != nil {
		reconciler = rec
	}
	if search != nil {
		searchService = search
	}
	if org != nil {
		organizer = org
	}
	if settings != nil {
		settingsService = settings
	}
}

func scorePtr(v float64) *float64 {
	return &v
}
