// ABOUTME: Version command to display build information
// ABOUTME: Reports the release, commit, build date, storage schema and Go runtime
package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/harper/recall/internal/storage/sqlite"
)

var versionInfo = VersionInfo{
	Version: "dev",
	Commit:  "none",
	Date:    "unknown",
}

// VersionInfo contains build information
type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// buildReport is what the version command prints
type buildReport struct {
	VersionInfo
	SchemaVersion int    `json:"schema_version"`
	GoVersion     string `json:"go_version"`
}

// SetVersion sets the version information (called from main)
func SetVersion(version, commit, date string) {
	versionInfo = VersionInfo{Version: version, Commit: commit, Date: date}
}

func currentBuild() buildReport {
	return buildReport{
		VersionInfo:   versionInfo,
		SchemaVersion: sqlite.SchemaVersion,
		GoVersion:     runtime.Version(),
	}
}

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the Recall release, commit, build date, database schema version and Go runtime.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			build := currentBuild()
			if wantJSON(out) {
				return writeJSON(out, build)
			}
			_, _ = fmt.Fprintf(out, "Recall %s\n", build.Version)
			_, _ = fmt.Fprintf(out, "Commit: %s\n", build.Commit)
			_, _ = fmt.Fprintf(out, "Built:  %s\n", build.Date)
			_, _ = fmt.Fprintf(out, "Schema: v%d\n", build.SchemaVersion)
			_, _ = fmt.Fprintf(out, "Go:     %s\n", build.GoVersion)
			return nil
		},
	}

	return cmd
}
