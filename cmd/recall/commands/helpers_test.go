// ABOUTME: Shared test helpers for CLI command tests
// ABOUTME: Isolates config and database paths and runs the root command in-process

package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

// setupTestEnv points the CLI at a temporary database with embeddings disabled
func setupTestEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "recall.db")

	t.Setenv("RECALL_DB_PATH", dbPath)
	t.Setenv("RECALL_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("RECALL_EMBEDDING_PROVIDER", "none")
	t.Setenv("OPENAI_API_KEY", "")
	return dir
}

// runCLI executes the root command with args and stdin and returns stdout
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}
