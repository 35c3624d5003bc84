// ABOUTME: Tests for SQLite database connection and schema initialization
// ABOUTME: Verifies database creation, schema, and the vector and LIKE helpers
package sqlite

import (
	"context"
	"database/sql"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenInMemory(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	if db.Conn() == nil {
		t.Error("Conn() should not be nil")
	}

	if db.Path() != ":memory:" {
		t.Errorf("Path() = %v, want :memory:", db.Path())
	}
}

func TestSchemaInitialization(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	tables := []string{"user_profile", "notes", "item_chunks"}
	for _, table := range tables {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s does not exist: %v", table, err)
		}
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "subdir", "nested", "recall.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
	if db.Path() != dbPath {
		t.Errorf("Path() = %v, want %v", db.Path(), dbPath)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "recall.db")

	for i := 0; i < 2; i++ {
		db, err := Open(dbPath)
		if err != nil {
			t.Fatalf("Open() #%d error = %v", i+1, err)
		}
		_ = db.Close()
	}
}

func TestDefaultDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	dir := DefaultDataDir()
	if dir != filepath.Join("/tmp/xdg-data", "recall") {
		t.Errorf("DefaultDataDir() = %v, want /tmp/xdg-data/recall", dir)
	}
}

func TestDefaultDBPath(t *testing.T) {
	path := DefaultDBPath()
	if path == "" {
		t.Error("DefaultDBPath() returned empty string")
	}
	if filepath.Base(path) != "recall.db" {
		t.Errorf("DefaultDBPath() = %v, should end with recall.db", path)
	}
}

func TestCloseMultipleTimes(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}

	if err := db.Close(); err != nil {
		t.Errorf("First Close() error = %v", err)
	}

	// Second close may return an error but must not panic
	_ = db.Close()
}

func TestIndexesExist(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	indexes := []string{"idx_notes_updated", "idx_chunks_parent"}
	for _, idx := range indexes {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='index' AND name=?", idx).Scan(&name)
		if err != nil {
			t.Errorf("Index %s does not exist: %v", idx, err)
		}
	}
}

func TestVectorBlobRoundTrip(t *testing.T) {
	vector := []float64{0.5, -1.25, 0, math.MaxFloat64, math.SmallestNonzeroFloat64}

	blob := vectorToBlob(vector)
	if len(blob) != len(vector)*8 {
		t.Fatalf("blob length = %d, want %d", len(blob), len(vector)*8)
	}

	got, err := blobToVector(blob)
	if err != nil {
		t.Fatalf("blobToVector() error = %v", err)
	}
	for i := range vector {
		if got[i] != vector[i] {
			t.Errorf("vector[%d] = %v, want %v", i, got[i], vector[i])
		}
	}
}

func TestBlobToVectorEdgeCases(t *testing.T) {
	if vectorToBlob(nil) != nil {
		t.Error("vectorToBlob(nil) should be nil")
	}

	got, err := blobToVector(nil)
	if err != nil || got != nil {
		t.Errorf("blobToVector(nil) = %v, %v; want nil, nil", got, err)
	}

	if _, err := blobToVector([]byte{1, 2, 3}); err == nil {
		t.Error("blobToVector() should reject a truncated blob")
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"100%", `100\%`},
		{"snake_case", `snake\_case`},
		{`back\slash`, `back\\slash`},
		{`%_\`, `\%\_\\`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := escapeLike(tt.in); got != tt.want {
				t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if got := containsPattern("Go_Lang"); got != `%go\_lang%` {
		t.Errorf("containsPattern() = %q", got)
	}
	if got := containsPattern("ÜBER"); got != "%über%" {
		t.Errorf("containsPattern(ÜBER) = %q", got)
	}
}

func TestFoldFunction(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	tests := []struct {
		name  string
		query string
		want  interface{}
	}{
		{"ascii", `SELECT ` + foldFunc + `('MiXeD')`, "mixed"},
		{"non-ascii", `SELECT ` + foldFunc + `('ÄRGER im BÜRO')`, "ärger im büro"},
		{"null", `SELECT ` + foldFunc + `(NULL)`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got sql.NullString
			if err := db.QueryRowContext(context.Background(), tt.query).Scan(&got); err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			if tt.want == nil {
				if got.Valid {
					t.Errorf("got %q, want NULL", got.String)
				}
				return
			}
			if !got.Valid || got.String != tt.want {
				t.Errorf("got %v, want %q", got, tt.want)
			}
		})
	}
}

func TestStringCodec(t *testing.T) {
	encoded, err := encodeStrings([]string{"<html>", "a&b"})
	if err != nil {
		t.Fatalf("encodeStrings() error = %v", err)
	}
	if encoded != `["<html>","a&b"]` {
		t.Errorf("encodeStrings() = %s, want literal characters", encoded)
	}

	empty, err := encodeStrings(nil)
	if err != nil || empty != "[]" {
		t.Errorf("encodeStrings(nil) = %q, %v", empty, err)
	}

	for _, raw := range []string{"", "not json", "null"} {
		if got := decodeStrings(raw); got == nil || len(got) != 0 {
			t.Errorf("decodeStrings(%q) = %#v, want empty slice", raw, got)
		}
	}
}
