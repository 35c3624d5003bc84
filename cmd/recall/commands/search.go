// ABOUTME: CLI command to search notes or the profile
// ABOUTME: Semantic search first when embeddings are configured, keyword search otherwise
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/recall/internal/models"
)

var (
	searchLimit      int
	searchOffset     int
	searchTags       []string
	searchKind       string
	searchNoSemantic bool
)

// NewSearchCmd creates search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search notes",
		Long: `Search notes using semantic or keyword search.

With an embedding provider configured the query is embedded and notes
are ranked by similarity. When that is unavailable or fails, or no
note has been embedded yet, keywords from the query are matched against titles, content and tags.
Without a query (and without tags) the most recent notes are listed.

Examples:
  recall search "python programming"
  recall search --limit 10 "machine learning"
  recall search --tags work,urgent
  recall search --kind profile "golang"
  recall search --no-semantic --format json "API keys"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum results to return")
	cmd.Flags().IntVar(&searchOffset, "offset", 0, "Number of results to skip")
	cmd.Flags().StringSliceVar(&searchTags, "tags", []string{}, "Only match items with one of these tags")
	cmd.Flags().StringVar(&searchKind, "kind", string(models.KindNote), "Items to search: note or profile")
	cmd.Flags().BoolVar(&searchNoSemantic, "no-semantic", false, "Skip semantic search and match keywords only")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}
	if err := validateNonNegativeInt(searchOffset, "offset"); err != nil {
		return err
	}
	kind, err := parseKind(searchKind)
	if err != nil {
		return err
	}

	query := models.SearchQuery{
		Tags:           searchTags,
		Limit:          searchLimit,
		Offset:         searchOffset,
		SemanticSearch: !searchNoSemantic,
	}
	if len(args) > 0 {
		query.Query = args[0]
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	engine, err := a.Engine(kind)
	if err != nil {
		return err
	}

	items, err := engine.Search(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	return printItems(cmd, items, fmt.Sprintf("No results found for query: %s", query.Query))
}
