// ABOUTME: Chunk embedding storage for long notes and the profile
// ABOUTME: Chunks are append-only and keyed by parent kind and item ID
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harper/recall/internal/models"
)

// ChunkStore handles chunk persistence
type ChunkStore struct {
	db *DB
}

// NewChunkStore creates a new ChunkStore
func NewChunkStore(db *DB) *ChunkStore {
	return &ChunkStore{db: db}
}

// Insert stores a chunk and returns its ID, assigning one if missing
func (s *ChunkStore) Insert(ctx context.Context, chunk *models.Chunk) (string, error) {
	if len(chunk.Embedding) == 0 {
		return "", fmt.Errorf("chunk %d of %s has no embedding", chunk.ChunkIndex, chunk.ParentItemID)
	}
	if chunk.ID == "" {
		chunk.ID = uuid.New().String()
	}
	if chunk.CreatedAt.IsZero() {
		chunk.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO item_chunks (id, parent_kind, parent_id, chunk_index, content, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, chunk.ID, string(chunk.ParentKind), chunk.ParentItemID, chunk.ChunkIndex, chunk.Content,
		vectorToBlob(chunk.Embedding), toUnix(chunk.CreatedAt))
	if err != nil {
		return "", err
	}
	return chunk.ID, nil
}

// ListByParent returns the chunks of one item in index order
func (s *ChunkStore) ListByParent(ctx context.Context, kind models.ItemKind, parentID string) ([]models.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, parent_kind, parent_id, chunk_index, content, embedding, created_at
		FROM item_chunks
		WHERE parent_kind = ? AND parent_id = ?
		ORDER BY chunk_index ASC, created_at ASC
	`, string(kind), parentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	chunks := []models.Chunk{}
	for rows.Next() {
		var (
			chunk      models.Chunk
			parentKind string
			blob       []byte
			createdAt  int64
		)
		if err := rows.Scan(&chunk.ID, &parentKind, &chunk.ParentItemID, &chunk.ChunkIndex,
			&chunk.Content, &blob, &createdAt); err != nil {
			return nil, err
		}
		vector, err := blobToVector(blob)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", chunk.ID, err)
		}
		chunk.ParentKind = models.ItemKind(parentKind)
		chunk.Embedding = vector
		chunk.CreatedAt = fromUnix(createdAt)
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

// Count returns the number of stored chunks
func (s *ChunkStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM item_chunks`).Scan(&n)
	return n, err
}
