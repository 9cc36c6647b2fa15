package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "Sort remote files into category folders",
	Long: `Moves already-uploaded files into per-category folders on each
backend, based on the category inferred during indexing. Folder
identities are cached, so a second run does no work.`,
	Args: cobra.NoArgs,
	RunE: runOrganize,
}

func init() {
	rootCmd.AddCommand(organizeCmd)
}

func runOrganize(cmd *cobra.Command, _ []string) error {
	if organizer == nil {
		return errors.New("organizer not configured: set backend credentials")
	}

	_, err := organizer.Organize(cmd.Context(), func(msg string) {
		cmd.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("organize failed: %w", err)
	}
	return nil
}
