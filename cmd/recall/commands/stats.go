// ABOUTME: CLI command to show storage statistics
// ABOUTME: Reports note, embedding, and chunk counts plus profile state
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewStatsCmd creates stats command
func NewStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show storage statistics",
		Long:  `Show how many notes are stored, how many have embeddings, and the state of the profile.`,
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	stats, err := a.Storage.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	out := cmd.OutOrStdout()
	if wantJSON(out) {
		return writeJSON(out, stats)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Database\t%s\n", a.Storage.Path())
	_, _ = fmt.Fprintf(w, "Notes\t%d\n", stats.Notes)
	_, _ = fmt.Fprintf(w, "Embedded notes\t%d\n", stats.EmbeddedNotes)
	_, _ = fmt.Fprintf(w, "Chunks\t%d\n", stats.Chunks)
	_, _ = fmt.Fprintf(w, "Profile\t%t\n", stats.HasProfile)
	_, _ = fmt.Fprintf(w, "Profile embedded\t%t\n", stats.ProfileEmbedded)
	_, _ = fmt.Fprintf(w, "Semantic search\t%t\n", a.Gateway != nil)
	return w.Flush()
}
