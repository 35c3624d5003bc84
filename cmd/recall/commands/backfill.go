// ABOUTME: CLI command to embed notes and the profile that lack a vector
// ABOUTME: Runs the backfill for both item kinds and prints a summary
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewBackfillCmd creates backfill command
func NewBackfillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Generate missing embeddings",
		Long: `Generate embeddings for notes and the profile that do not have one.

Requires an embedding provider (OPENAI_API_KEY, or
RECALL_EMBEDDING_PROVIDER=compatible with RECALL_EMBEDDING_BASE_URL).
Items that fail are left for the next run.

Examples:
  recall backfill
  recall backfill --format json`,
		Args: cobra.NoArgs,
		RunE: runBackfill,
	}

	return cmd
}

func runBackfill(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	report, err := a.Backfill(cmd.Context())
	if err != nil {
		return fmt.Errorf("backfilling embeddings: %w", err)
	}

	out := cmd.OutOrStdout()
	if wantJSON(out) {
		return writeJSON(out, report)
	}
	if quiet {
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "KIND\tUPDATED\tFAILED\tCHUNKS\n")
	_, _ = fmt.Fprintf(w, "----\t-------\t------\t------\n")
	_, _ = fmt.Fprintf(w, "note\t%d\t%d\t%d\n", report.Notes.Updated, report.Notes.Failed, report.Notes.ChunksStored)
	_, _ = fmt.Fprintf(w, "profile\t%d\t%d\t%d\n", report.Profile.Updated, report.Profile.Failed, report.Profile.ChunksStored)
	return w.Flush()
}
