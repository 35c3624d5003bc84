// ABOUTME: Root CLI command with global flags and logging setup
// ABOUTME: Wires every subcommand and configures slog from --verbose/--quiet
package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
██████╗ ███████╗ ██████╗ █████╗ ██╗     ██╗
██╔══██╗██╔════╝██╔════╝██╔══██╗██║     ██║
██████╔╝█████╗  ██║     ███████║██║     ██║
██╔══██╗██╔══╝  ██║     ██╔══██║██║     ██║
██║  ██║███████╗╚██████╗██║  ██║███████╗███████╗
╚═╝  ╚═╝╚══════╝ ╚═════╝╚═╝  ╚═╝╚══════╝╚══════╝`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recall",
		Short: "Hybrid search and related-note discovery for your notes",
		Long: banner + `

Recall stores notes and a user profile in SQLite and finds them again
with semantic search (when an embedding provider is configured), keyword
search, and tag-based relations.

Configure with OPENAI_API_KEY, a .env file, or
$XDG_CONFIG_HOME/recall/config.toml.`,
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only show errors")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, or json")

	cmd.AddCommand(
		NewAddCmd(),
		NewListCmd(),
		NewSearchCmd(),
		NewRelatedCmd(),
		NewProfileCmd(),
		NewBackfillCmd(),
		NewExportCmd(),
		NewStatsCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func setupLogging(cmd *cobra.Command, args []string) error {
	if verbose && quiet {
		return fmt.Errorf("--verbose and --quiet cannot be used together")
	}
	switch outputFormat {
	case "auto", "table", "json":
	default:
		return fmt.Errorf("--format must be auto, table, or json, got %q", outputFormat)
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	} else if quiet {
		level = slog.LevelError
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}
