// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: App construction, output format selection and display helpers
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/harper/recall/internal/app"
	"github.com/harper/recall/internal/config"
	"github.com/harper/recall/internal/models"
)

// openApp loads configuration and opens the application.
// Tests replace it to inject a prepared app.
var openApp = func() (*app.App, error) {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	a, err := app.New(cfg, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return a, nil
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		mins := int(diff.Minutes())
		return fmt.Sprintf("%dm ago", mins)
	} else if diff < 24*time.Hour {
		hours := int(diff.Hours())
		return fmt.Sprintf("%dh ago", hours)
	} else if diff < 7*24*time.Hour {
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%dd ago", days)
	}
	return t.Format("2006-01-02")
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}

// validateNonNegativeInt returns error if n is negative
func validateNonNegativeInt(n int, name string) error {
	if n < 0 {
		return fmt.Errorf("%s must not be negative, got %d", name, n)
	}
	return nil
}

// parseKind maps a --kind flag value to an item kind
func parseKind(s string) (models.ItemKind, error) {
	kind := models.ItemKind(s)
	if !kind.Valid() {
		return "", fmt.Errorf("kind must be note or profile, got %q", s)
	}
	return kind, nil
}

// wantJSON reports whether output to w should be JSON.
// In auto mode JSON is used when stdout is redirected to a file or pipe.
func wantJSON(w io.Writer) bool {
	switch outputFormat {
	case "json":
		return true
	case "table":
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice == 0
}

// writeJSON writes v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", jsonData)
	return err
}
