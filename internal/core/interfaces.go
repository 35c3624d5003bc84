// ABOUTME: Collaborator interfaces the engine depends on
// ABOUTME: The embedding gateway and the per-kind item store are injected, never global
package core

import (
	"context"

	"github.com/harper/recall/internal/models"
)

// EmbeddingGateway turns text into vectors
type EmbeddingGateway interface {
	// GenerateEmbedding returns one vector for text
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
	// GetBatchEmbeddings returns one vector per input, in input order
	GetBatchEmbeddings(ctx context.Context, texts []string) ([][]float64, error)
}

// ItemStore is the persistence surface for one item kind.
// GetByID returns nil, nil when the item does not exist.
// List methods return items newest first.
type ItemStore interface {
	GetByID(ctx context.Context, id string) (*models.Item, error)
	ListWithEmbedding(ctx context.Context, limit int) ([]models.Item, error)
	ListOtherWithEmbedding(ctx context.Context, excludeID string, limit int) ([]models.Item, error)
	ListWithTags(ctx context.Context, limit int) ([]models.Item, error)
	ListWithoutEmbedding(ctx context.Context, limit int) ([]models.Item, error)
	KeywordSearch(ctx context.Context, filter models.KeywordFilter) ([]models.Item, error)
	Recent(ctx context.Context, limit int) ([]models.Item, error)
	UpdateEmbedding(ctx context.Context, id string, vector []float64) error
	InsertChunk(ctx context.Context, chunk *models.Chunk) (string, error)
}

// SearchStrategy is the pair of search capabilities for one item kind
type SearchStrategy interface {
	// SemanticSearch ranks embedded items against the query text
	SemanticSearch(ctx context.Context, query models.SearchQuery) Outcome
	// KeywordSearch runs a substring search, or a browse when the query is empty
	KeywordSearch(ctx context.Context, query models.SearchQuery) Outcome
}
