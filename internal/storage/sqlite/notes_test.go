// ABOUTME: Tests for note storage operations
// ABOUTME: Covers CRUD, ordering, pagination and literal substring search
package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/harper/recall/internal/models"
)

var noteBase = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestNoteStore(t *testing.T) *NoteStore {
	t.Helper()
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewNoteStore(db)
}

// seedNote saves a note updated minutesAgo before noteBase
func seedNote(t *testing.T, store *NoteStore, id, title, content string, minutesAgo int, tags ...string) *models.Note {
	t.Helper()
	ts := noteBase.Add(-time.Duration(minutesAgo) * time.Minute)
	note := &models.Note{
		ID:        id,
		Title:     title,
		Content:   content,
		Tags:      models.NormalizeTags(tags),
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if err := store.Save(context.Background(), note); err != nil {
		t.Fatalf("Save(%s) error = %v", id, err)
	}
	return note
}

func itemIDs(items []models.Item) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func equalIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestNoteCRUD(t *testing.T) {
	ctx := context.Background()
	store := newTestNoteStore(t)

	missing, err := store.Get(ctx, "nope")
	if err != nil || missing != nil {
		t.Fatalf("Get(missing) = %v, %v; want nil, nil", missing, err)
	}

	seedNote(t, store, "n1", "Kubernetes", "restart the pods", 0, "ops", "k8s")

	got, err := store.Get(ctx, "n1")
	if err != nil || got == nil {
		t.Fatalf("Get() = %v, %v", got, err)
	}
	if got.Title != "Kubernetes" || got.Content != "restart the pods" {
		t.Errorf("Get() = %+v", got)
	}
	if !equalIDs(got.Tags, []string{"ops", "k8s"}) {
		t.Errorf("Tags = %v, want [ops k8s]", got.Tags)
	}
	if !got.UpdatedAt.Equal(noteBase) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, noteBase)
	}

	got.Content = "drain the node first"
	got.UpdatedAt = noteBase.Add(time.Minute)
	if err := store.Save(ctx, got); err != nil {
		t.Fatalf("Save() update error = %v", err)
	}
	updated, _ := store.Get(ctx, "n1")
	if updated.Content != "drain the node first" {
		t.Errorf("Content = %q after update", updated.Content)
	}
	if !updated.CreatedAt.Equal(noteBase) {
		t.Errorf("CreatedAt changed on update: %v", updated.CreatedAt)
	}

	deleted, err := store.Delete(ctx, "n1")
	if err != nil || !deleted {
		t.Fatalf("Delete() = %v, %v; want true", deleted, err)
	}
	deleted, err = store.Delete(ctx, "n1")
	if err != nil || deleted {
		t.Errorf("Delete() twice = %v, %v; want false", deleted, err)
	}
}

func TestNoteEmbeddingLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestNoteStore(t)

	seedNote(t, store, "a", "A", "alpha", 2)
	seedNote(t, store, "b", "B", "beta", 1)

	pending, err := store.ListWithoutEmbedding(ctx, 10)
	if err != nil {
		t.Fatalf("ListWithoutEmbedding() error = %v", err)
	}
	if !equalIDs(itemIDs(pending), []string{"b", "a"}) {
		t.Errorf("ListWithoutEmbedding() = %v, want [b a]", itemIDs(pending))
	}

	if err := store.UpdateEmbedding(ctx, "a", []float64{1, 0, 0}); err != nil {
		t.Fatalf("UpdateEmbedding() error = %v", err)
	}
	if err := store.UpdateEmbedding(ctx, "ghost", []float64{1}); err == nil {
		t.Error("UpdateEmbedding() on a missing note should fail")
	}

	embedded, _ := store.ListWithEmbedding(ctx, 10)
	if !equalIDs(itemIDs(embedded), []string{"a"}) {
		t.Errorf("ListWithEmbedding() = %v, want [a]", itemIDs(embedded))
	}
	if len(embedded[0].Embedding) != 3 {
		t.Errorf("embedding length = %d, want 3", len(embedded[0].Embedding))
	}

	a, _ := store.Get(ctx, "a")
	if !a.UpdatedAt.Equal(noteBase.Add(-2 * time.Minute)) {
		t.Error("UpdateEmbedding() must not touch updated_at")
	}

	others, _ := store.ListOtherWithEmbedding(ctx, "a", 10)
	if len(others) != 0 {
		t.Errorf("ListOtherWithEmbedding(a) = %v, want none", itemIDs(others))
	}

	total, withVectors, err := store.Count(ctx)
	if err != nil || total != 2 || withVectors != 1 {
		t.Errorf("Count() = %d, %d, %v; want 2, 1", total, withVectors, err)
	}
}

func TestNoteRecentAndTags(t *testing.T) {
	ctx := context.Background()
	store := newTestNoteStore(t)

	seedNote(t, store, "old", "Old", "x", 30, "go")
	seedNote(t, store, "mid", "Mid", "y", 20)
	seedNote(t, store, "new", "New", "z", 10, "rust")
	seedNote(t, store, "tie", "Tie", "w", 10)

	recent, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	// equal timestamps fall back to id order
	if !equalIDs(itemIDs(recent), []string{"new", "tie", "mid"}) {
		t.Errorf("Recent() = %v, want [new tie mid]", itemIDs(recent))
	}

	tagged, _ := store.ListWithTags(ctx, 10)
	if !equalIDs(itemIDs(tagged), []string{"new", "old"}) {
		t.Errorf("ListWithTags() = %v, want [new old]", itemIDs(tagged))
	}
}

func TestNoteKeywordSearch(t *testing.T) {
	ctx := context.Background()
	store := newTestNoteStore(t)

	seedNote(t, store, "n1", "Discount", "Save 50% today", 1)
	seedNote(t, store, "n2", "Fifty", "Save 500 dollars", 2)
	seedNote(t, store, "n3", "snake_case names", "", 3, "style")
	seedNote(t, store, "n4", "snakeXcase names", "", 4)
	seedNote(t, store, "n5", "Paths", `C:\temp\file`, 5, "windows")
	seedNote(t, store, "n6", "Deploy", "Kubernetes rollout", 6, "ops", "k8s")
	seedNote(t, store, "n7", "Über alles", "Ärger im Büro", 7, "Café")

	tests := []struct {
		name   string
		filter models.KeywordFilter
		want   []string
	}{
		{"percent is literal", models.KeywordFilter{Phrase: "50%"}, []string{"n1"}},
		{"underscore is literal", models.KeywordFilter{Phrase: "snake_case"}, []string{"n3"}},
		{"backslash is literal", models.KeywordFilter{Phrase: `\temp`}, []string{"n5"}},
		{"case insensitive", models.KeywordFilter{Keywords: []string{"kubernetes"}}, []string{"n6"}},
		{"keywords OR together", models.KeywordFilter{Keywords: []string{"discount", "rollout"}}, []string{"n1", "n6"}},
		{"keyword matches tags", models.KeywordFilter{Keywords: []string{"k8s"}}, []string{"n6"}},
		{"tag filter", models.KeywordFilter{Tags: []string{"ops"}}, []string{"n6"}},
		{"tag filter with keywords", models.KeywordFilter{Keywords: []string{"names"}, Tags: []string{"style"}}, []string{"n3"}},
		{"browse with pagination", models.KeywordFilter{Limit: 2, Offset: 1}, []string{"n2", "n3"}},
		{"offset without limit", models.KeywordFilter{Offset: 4}, []string{"n5", "n6", "n7"}},
		{"non-ascii title exact case", models.KeywordFilter{Keywords: []string{"Über"}}, []string{"n7"}},
		{"non-ascii title folded", models.KeywordFilter{Keywords: []string{"über"}}, []string{"n7"}},
		{"non-ascii content upper case", models.KeywordFilter{Keywords: []string{"ÄRGER"}}, []string{"n7"}},
		{"non-ascii phrase", models.KeywordFilter{Phrase: "BÜRO"}, []string{"n7"}},
		{"non-ascii tag filter", models.KeywordFilter{Tags: []string{"CAFÉ"}}, []string{"n7"}},
		{"no match", models.KeywordFilter{Phrase: "zebra"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := store.KeywordSearch(ctx, tt.filter)
			if err != nil {
				t.Fatalf("KeywordSearch() error = %v", err)
			}
			if !equalIDs(itemIDs(items), tt.want) {
				t.Errorf("KeywordSearch() = %v, want %v", itemIDs(items), tt.want)
			}
		})
	}
}

func TestNoteInsertChunk(t *testing.T) {
	ctx := context.Background()
	store := newTestNoteStore(t)
	seedNote(t, store, "long", "Long", "a long body", 0)

	for i := 0; i < 3; i++ {
		chunk := &models.Chunk{
			ParentItemID: "long",
			Content:      "part",
			ChunkIndex:   i,
			Embedding:    []float64{float64(i), 1},
		}
		id, err := store.InsertChunk(ctx, chunk)
		if err != nil {
			t.Fatalf("InsertChunk(%d) error = %v", i, err)
		}
		if id == "" || chunk.ParentKind != models.KindNote {
			t.Errorf("InsertChunk(%d) id = %q kind = %q", i, id, chunk.ParentKind)
		}
	}

	if _, err := store.InsertChunk(ctx, &models.Chunk{ParentItemID: "long"}); err == nil {
		t.Error("InsertChunk() without an embedding should fail")
	}

	chunks, err := store.chunks.ListByParent(ctx, models.KindNote, "long")
	if err != nil {
		t.Fatalf("ListByParent() error = %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("ListByParent() = %d chunks, want 3", len(chunks))
	}
	for i, chunk := range chunks {
		if chunk.ChunkIndex != i || chunk.Embedding[0] != float64(i) {
			t.Errorf("chunk %d = %+v", i, chunk)
		}
	}

	// chunks outlive their parent
	if _, err := store.Delete(ctx, "long"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	remaining, _ := store.chunks.Count(ctx)
	if remaining != 3 {
		t.Errorf("chunks after delete = %d, want 3", remaining)
	}
}
