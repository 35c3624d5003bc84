// ABOUTME: Tests for search and related commands
// ABOUTME: Verifies command structure, flag validation, and keyword fallback end to end

package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/harper/recall/internal/models"
)

func TestNewSearchCmd(t *testing.T) {
	cmd := NewSearchCmd()

	if cmd.Use != "search [query]" {
		t.Errorf("Use = %q, want %q", cmd.Use, "search [query]")
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	if cmd.Long == "" {
		t.Error("Long description should not be empty")
	}
}

func TestSearchCmd_Flags(t *testing.T) {
	cmd := NewSearchCmd()

	tests := []struct {
		flagName string
		defValue string
	}{
		{"limit", "10"},
		{"offset", "0"},
		{"tags", "[]"},
		{"kind", "note"},
		{"no-semantic", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.flagName, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.flagName)
			if flag == nil {
				t.Fatalf("--%s flag not found", tt.flagName)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("--%s default = %q, want %q", tt.flagName, flag.DefValue, tt.defValue)
			}
		})
	}
}

func TestSearchCmd_Description(t *testing.T) {
	cmd := NewSearchCmd()

	for _, part := range []string{"semantic", "--limit", "--format json", "--kind profile"} {
		if !strings.Contains(cmd.Long, part) {
			t.Errorf("Long description should contain %q", part)
		}
	}
}

func TestSearchCmd_InvalidFlags(t *testing.T) {
	setupTestEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"zero limit", []string{"search", "--limit", "0", "x"}},
		{"negative offset", []string{"search", "--offset", "-2", "x"}},
		{"unknown kind", []string{"search", "--kind", "turtle", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, "", tt.args...); err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}
}

func searchJSON(t *testing.T, args ...string) []models.Item {
	t.Helper()
	out, err := runCLI(t, "", append([]string{"--format", "json"}, args...)...)
	if err != nil {
		t.Fatalf("%v failed: %v", args, err)
	}
	var items []models.Item
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("decoding %q: %v", out, err)
	}
	return items
}

func TestSearchCmd_KeywordAndTags(t *testing.T) {
	setupTestEnv(t)

	notes := []struct {
		title string
		tags  string
		body  string
	}{
		{"Kubernetes", "ops", "rolling deploys with readiness probes"},
		{"Pasta", "cooking", "salt the water generously"},
		{"Postgres", "ops,db", "vacuum and analyze schedules"},
	}
	for _, n := range notes {
		if _, err := runCLI(t, "", "add", "--title", n.title, "--tags", n.tags, n.body); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	items := searchJSON(t, "search", "readiness probes")
	if len(items) != 1 || items[0].Title != "Kubernetes" {
		t.Errorf("keyword search = %+v, want Kubernetes", items)
	}

	items = searchJSON(t, "search", "--tags", "ops")
	if len(items) != 2 {
		t.Errorf("tag search returned %d items, want 2", len(items))
	}

	items = searchJSON(t, "search", "--no-semantic", "--tags", "db", "vacuum")
	if len(items) != 1 || items[0].Title != "Postgres" {
		t.Errorf("keyword plus tag search = %+v, want Postgres", items)
	}

	items = searchJSON(t, "search", "--limit", "1")
	if len(items) != 1 || items[0].Title != "Postgres" {
		t.Errorf("browse = %+v, want newest note", items)
	}
}

func TestRelatedCmd(t *testing.T) {
	setupTestEnv(t)

	cmd := NewRelatedCmd()
	if flag := cmd.Flags().Lookup("max"); flag == nil || flag.DefValue != "5" {
		t.Fatal("--max flag missing or wrong default")
	}

	out, err := runCLI(t, "", "--format", "json", "add", "--title", "Go testing", "--tags", "go,testing", "table tests")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	var source models.Note
	if err := json.Unmarshal([]byte(out), &source); err != nil {
		t.Fatalf("decoding note: %v", err)
	}

	if _, err := runCLI(t, "", "add", "--title", "Go modules", "--tags", "go", "replace directives"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := runCLI(t, "", "add", "--title", "Bread", "--tags", "baking", "sourdough"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	items := searchJSON(t, "related", source.ID)
	if len(items) != 1 || items[0].Title != "Go modules" {
		t.Errorf("related = %+v, want Go modules", items)
	}

	if _, err := runCLI(t, "", "related", "--max", "0", source.ID); err == nil {
		t.Error("expected error for zero --max")
	}
}
