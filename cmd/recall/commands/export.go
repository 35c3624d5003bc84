// ABOUTME: CLI command to export notes, profile, and embeddings to a file
// ABOUTME: Writes YAML, Markdown, or embedding JSON chosen by flag or file extension
package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var exportType string

// NewExportCmd creates export command
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Export notes and profile",
		Long: `Export the profile and all notes to a file.

Types:
  yaml        profile and notes (default)
  markdown    human-readable notes
  embeddings  note, profile and chunk vectors as JSON

Without --type the file extension decides: .md is markdown,
.json is embeddings, anything else is yaml.

Examples:
  recall export backup.yaml
  recall export notes.md
  recall export --type embeddings vectors.json`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}

	cmd.Flags().StringVar(&exportType, "type", "", "Export type: yaml, markdown, or embeddings")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	path := args[0]
	kind, err := resolveExportType(exportType, path)
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := cmd.Context()
	switch kind {
	case "markdown":
		err = a.Storage.ExportToMarkdown(ctx, path)
	case "embeddings":
		err = a.Storage.ExportEmbeddingsToJSON(ctx, path)
	default:
		err = a.Storage.ExportToYAML(ctx, path)
	}
	if err != nil {
		return fmt.Errorf("exporting %s: %w", kind, err)
	}

	if !quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %s to %s\n", kind, path)
	}
	return nil
}

// resolveExportType picks the export type from the flag or the path extension
func resolveExportType(flag, path string) (string, error) {
	switch strings.ToLower(flag) {
	case "yaml", "yml":
		return "yaml", nil
	case "markdown", "md":
		return "markdown", nil
	case "embeddings", "json":
		return "embeddings", nil
	case "":
	default:
		return "", fmt.Errorf("--type must be yaml, markdown, or embeddings, got %q", flag)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return "markdown", nil
	case ".json":
		return "embeddings", nil
	default:
		return "yaml", nil
	}
}
