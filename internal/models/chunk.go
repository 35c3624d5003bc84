// ABOUTME: Chunk represents an overlapping window of a long item's text
// ABOUTME: Chunks are written once and are not removed with their parent
package models

import "time"

// Chunk is a fragment of an item's content with its own embedding
type Chunk struct {
	ID           string    `json:"id"`
	ParentKind   ItemKind  `json:"parent_kind"`
	ParentItemID string    `json:"parent_item_id"`
	Content      string    `json:"content"`
	Embedding    []float64 `json:"-"`
	ChunkIndex   int       `json:"chunk_index"`
	CreatedAt    time.Time `json:"created_at"`
}

// ChunkEmbedding pairs chunk text with the vector generated for it
type ChunkEmbedding struct {
	Index   int
	Content string
	Vector  []float64
}
