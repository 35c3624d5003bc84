// ABOUTME: CLI command to list notes
// ABOUTME: Shows the most recently updated notes with paging
package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/recall/internal/models"
)

var (
	listLimit  int
	listOffset int
)

// NewListCmd creates list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent notes",
		Long: `List notes, most recently updated first.

Examples:
  recall list
  recall list --limit 50 --offset 50
  recall list --format json`,
		RunE: runList,
	}

	cmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum notes to show")
	cmd.Flags().IntVar(&listOffset, "offset", 0, "Number of notes to skip")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(listLimit, "limit"); err != nil {
		return err
	}
	if err := validateNonNegativeInt(listOffset, "offset"); err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	items, err := a.Storage.ListNotes(cmd.Context(), listLimit, listOffset)
	if err != nil {
		return fmt.Errorf("listing notes: %w", err)
	}

	return printItems(cmd, items, "No notes found")
}

// printItems renders items as JSON or a table
func printItems(cmd *cobra.Command, items []models.Item, emptyMessage string) error {
	out := cmd.OutOrStdout()
	if wantJSON(out) {
		return writeJSON(out, items)
	}

	if len(items) == 0 {
		if !quiet {
			_, _ = fmt.Fprintf(out, "%s\n", emptyMessage)
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "TITLE\tTAGS\tUPDATED\tID\tPREVIEW\n")
	_, _ = fmt.Fprintf(w, "-----\t----\t-------\t--\t-------\n")

	for _, item := range items {
		title := item.Title
		if title == "" {
			title = "(untitled)"
		}
		preview := strings.Join(strings.Fields(item.Content), " ")

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			truncate(title, 30),
			truncate(strings.Join(item.Tags, ","), 20),
			formatTime(item.UpdatedAt),
			item.ID,
			truncate(preview, 50))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !quiet {
		_, _ = fmt.Fprintf(out, "\nTotal: %d item(s)\n", len(items))
	}
	return nil
}
