// Package cli implements the cobra command surface for nublado.
// Commands talk to the core exclusively through the driving ports, so
// the same services back the CLI and any future front end.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nublado-labs/nublado-cli/internal/core/ports/driving"
	"github.com/nublado-labs/nublado-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// SetVersion overrides the version string shown by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Services consumed by the commands. Wired by Execute for normal runs,
// injected directly in tests.
var (
	reconciler      driving.Reconciler
	searchService   driving.SearchService
	organizer       driving.Organizer
	settingsService driving.SettingsService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "nublado",
	Short: "Semantic catalogue for files scattered across cloud storage",
	Long: `Nublado keeps a local semantic index of the files living in your
remote stores (Dropbox and Google Drive). It reconciles the catalogue
against the clouds, embeds file content for natural-language search,
and sorts uploads into per-category folders.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute wires the default services and runs the root command.
func Execute() error {
	ctx := context.Background()
	if settingsService == nil {
		if err := wireServices(ctx); err != nil {
			return err
		}
	}
	return rootCmd.ExecuteContext(ctx)
}
