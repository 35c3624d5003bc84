// ABOUTME: CLI command to add new notes
// ABOUTME: Reads text from an argument, a file, or stdin and stores it as a note
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	addTitle string
	addFile  string
	addTags  []string
)

// NewAddCmd creates add command
func NewAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Add a new note",
		Long: `Add a new note from text, a file, or stdin.

The note is embedded right away when an embedding provider is configured.
If embedding fails the note is still saved and "recall backfill" picks it up.

Examples:
  recall add "Met with Alice about project X"
  recall add --title "Deploy steps" --file notes.txt
  recall add --tags=meeting,project-x "Discussed timeline"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAdd,
	}

	cmd.Flags().StringVar(&addTitle, "title", "", "Note title")
	cmd.Flags().StringVar(&addFile, "file", "", "Read note content from file")
	cmd.Flags().StringSliceVar(&addTags, "tags", []string{}, "Tags for the note (comma-separated)")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	var text string
	if addFile != "" {
		data, err := os.ReadFile(addFile)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		text = string(data)
	} else if len(args) > 0 {
		text = args[0]
	} else if addTitle == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	text = strings.TrimSpace(text)
	if text == "" && strings.TrimSpace(addTitle) == "" {
		return fmt.Errorf("no text provided")
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	note, err := a.AddNote(cmd.Context(), addTitle, text, addTags)
	if err != nil {
		return fmt.Errorf("adding note: %w", err)
	}

	if wantJSON(cmd.OutOrStdout()) {
		return writeJSON(cmd.OutOrStdout(), note)
	}
	if !quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Added note %s\n", note.ID)
	}
	return nil
}
