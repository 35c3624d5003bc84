// ABOUTME: Item is the retrieval projection shared by notes and the user profile
// ABOUTME: Search and relation discovery operate only on this shape
package models

import "time"

// ItemKind identifies which store an item came from
type ItemKind string

const (
	KindNote    ItemKind = "note"
	KindProfile ItemKind = "profile"
)

// Valid reports whether the kind is one the store knows about
func (k ItemKind) Valid() bool {
	return k == KindNote || k == KindProfile
}

// Item is a searchable record with optional tags and embedding
type Item struct {
	ID        string    `json:"id"`
	Kind      ItemKind  `json:"kind"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Embedding []float64 `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasEmbedding reports whether a vector has been generated for the item
func (i *Item) HasEmbedding() bool {
	return len(i.Embedding) > 0
}

// EmbeddingText assembles the text sent to the embedding model.
// Field order: title, content, tags.
func (i *Item) EmbeddingText() string {
	return assembleText([]textField{
		{
			present: func() bool { return i.Title != "" },
			format:  func() string { return "Title: " + i.Title },
		},
		{
			present: func() bool { return i.Content != "" },
			format:  func() string { return i.Content },
		},
		{
			present: func() bool { return len(i.Tags) > 0 },
			format:  func() string { return "Tags: " + joinList(i.Tags) },
		},
	})
}

// ScoredItem pairs an item with a ranking score. Scores never leave the engine.
type ScoredItem struct {
	Item  Item
	Score float64
}

// StripScores drops scores and returns the items in order
func StripScores(scored []ScoredItem) []Item {
	items := make([]Item, 0, len(scored))
	for _, s := range scored {
		items = append(items, s.Item)
	}
	return items
}
