// ABOUTME: CLI command to find items related to an existing one
// ABOUTME: Uses shared tags, embeddings, keywords, then recency
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/recall/internal/models"
)

var (
	relatedMax  int
	relatedKind string
)

// NewRelatedCmd creates related command
func NewRelatedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "related <id>",
		Short: "Find notes related to a note",
		Long: `Find items related to an existing item.

Candidates sharing tags come first. Without tag overlap the item's
embedding is compared to the others, then keywords from its text are
searched, and finally the most recent items are shown.

Examples:
  recall related 6f1c2d3e-...
  recall related --max 10 6f1c2d3e-...`,
		Args: cobra.ExactArgs(1),
		RunE: runRelated,
	}

	cmd.Flags().IntVar(&relatedMax, "max", 5, "Maximum related items to return")
	cmd.Flags().StringVar(&relatedKind, "kind", string(models.KindNote), "Items to search: note or profile")

	return cmd
}

func runRelated(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(relatedMax, "max"); err != nil {
		return err
	}
	kind, err := parseKind(relatedKind)
	if err != nil {
		return err
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

	items, err := engine.FindRelated(cmd.Context(), args[0], relatedMax)
	if err != nil {
		return fmt.Errorf("finding related items: %w", err)
	}

	return printItems(cmd, items, fmt.Sprintf("No related items found for %s", args[0]))
}
