// ABOUTME: Tests for the version command
// ABOUTME: Covers table and JSON build reports and argument handling

package commands

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/harper/recall/internal/storage/sqlite"
)

// withVersion installs build info for one test
func withVersion(t *testing.T, version, commit, date string) {
	t.Helper()
	saved := versionInfo
	t.Cleanup(func() { versionInfo = saved })
	SetVersion(version, commit, date)
}

func TestVersionCmd_Table(t *testing.T) {
	setupTestEnv(t)
	withVersion(t, "1.2.3", "abc123", "2026-01-31")

	out, err := runCLI(t, "", "--format", "table", "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}

	for _, want := range []string{
		"Recall 1.2.3",
		"Commit: abc123",
		"Built:  2026-01-31",
		fmt.Sprintf("Schema: v%d", sqlite.SchemaVersion),
		"Go:     " + runtime.Version(),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestVersionCmd_JSON(t *testing.T) {
	setupTestEnv(t)
	withVersion(t, "2.0.0-beta", "1234567890abcdef", "2026-06-15T10:30:00Z")

	out, err := runCLI(t, "", "--format", "json", "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decoding %q: %v", out, err)
	}

	want := map[string]interface{}{
		"version":        "2.0.0-beta",
		"commit":         "1234567890abcdef",
		"date":           "2026-06-15T10:30:00Z",
		"schema_version": float64(sqlite.SchemaVersion),
		"go_version":     runtime.Version(),
	}
	for key, value := range want {
		if got[key] != value {
			t.Errorf("%s = %v, want %v", key, got[key], value)
		}
	}
}

func TestVersionCmd_Defaults(t *testing.T) {
	build := currentBuild()
	if build.Version != "dev" || build.Commit != "none" || build.Date != "unknown" {
		t.Errorf("default build info = %+v", build.VersionInfo)
	}
}

func TestVersionCmd_RejectsArgs(t *testing.T) {
	setupTestEnv(t)
	if _, err := runCLI(t, "", "version", "extra"); err == nil {
		t.Error("expected an error for extra arguments")
	}
}
