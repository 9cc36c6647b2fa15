package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nublado-labs/nublado-cli/internal/core/domain"
	"github.com/nublado-labs/nublado-cli/internal/logger"
)

var (
	searchLimit  int
	searchJSON   bool
	searchName   string
	searchRecent bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the catalogue",
	Long: `Searches the catalogue semantically: the query is embedded and
ranked against every indexed file by cosine similarity, with a boost for
literal keyword matches. Use --name for a plain name lookup or --recent
to list the newest entries instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultSearchLimit, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringVar(&searchName, "name", "", "plain substring match over file names")
	searchCmd.Flags().BoolVar(&searchRecent, "recent", false, "list the newest catalogue entries")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	ctx := cmd.Context()
	opts := searchOptions(cmd)

	var (
		results []domain.SearchResult
		err     error
	)
	switch {
	case searchRecent:
		results, err = searchService.Recent(ctx, opts.Limit)
	case searchName != "":
		results, err = searchService.SearchByName(ctx, searchName, opts.Limit)
	case len(args) == 1:
		results, err = searchService.Search(ctx, args[0], opts)
	default:
		return errors.New("a query is required unless --name or --recent is given")
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

// searchOptions merges the persisted search settings into the request.
// An explicit --limit wins over the configured page size.
func searchOptions(cmd *cobra.Command) domain.SearchOptions {
	opts := domain.SearchOptions{Limit: searchLimit}
	if settingsService == nil {
		return opts
	}
	settings, err := settingsService.Get()
	if err != nil {
		logger.Warn("settings unavailable, searching with defaults: %v", err)
		return opts
	}
	opts.MinScore = settings.Search.MinScore
	opts.FallbackBelow = settings.Search.FallbackBelow
	if !cmd.Flags().Changed("limit") && settings.Search.PageSize > 0 {
		opts.Limit = settings.Search.PageSize
	}
	return opts
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		if results[i].Scored() {
			cmd.Printf("  [%d] %s (%.2f)\n", i+1, results[i].Name, *results[i].Score)
		} else {
			cmd.Printf("  [%d] %s\n", i+1, results[i].Name)
		}
		if results[i].Service != "" {
			cmd.Printf("      Service: %s\n", results[i].Service)
		}
		if results[i].Summary != "" {
			cmd.Printf("      %s\n", results[i].Summary)
		}
		if results[i].CloudURL != "" {
			cmd.Printf("      %s\n", results[i].CloudURL)
		}
		cmd.Println()
	}
	return nil
}
