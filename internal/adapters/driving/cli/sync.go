package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the catalogue with the cloud backends",
	Long: `Scans every configured backend, finds files missing from the
catalogue or missing their analysis, and runs the download, extraction
and embedding pipeline for each gap. Per-file failures are reported and
never abort the scan.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if reconciler == nil {
		return errors.New("sync not configured: set OPENAI_API_KEY and backend credentials")
	}

	// The reconciler emits its own progress lines, including the final
	// completion summary.
	_, err := reconciler.Reconcile(cmd.Context(), func(msg string) {
		cmd.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	return nil
}
