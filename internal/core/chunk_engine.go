// ABOUTME: ChunkEngine splits long item text into overlapping windows for embedding
// ABOUTME: Pairs windows with batch embeddings and drops malformed vectors
package core

import (
	"context"
	"log/slog"
	"strings"

	"github.com/harper/recall/internal/models"
)

const (
	// DefaultChunkSize is the default number of characters per window
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is the default number of characters shared by neighbouring windows
	DefaultChunkOverlap = 200
)

// ChunkText splits text into windows of at most size characters, each
// starting size-overlap characters after the previous one. The final partial
// window is kept. Blank text yields no windows.
func ChunkText(text string, size, overlap int) ([]string, error) {
	if size <= 0 {
		return nil, validationErrorf("size", "must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, validationErrorf("overlap", "must be in [0, %d), got %d", size, overlap)
	}
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}

	runes := []rune(text)
	step := size - overlap
	chunks := make([]string, 0, len(runes)/step+1)

	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}

	return chunks, nil
}

// ChunkEngine chunks text and embeds the chunks through a gateway
type ChunkEngine struct {
	gateway   EmbeddingGateway
	size      int
	overlap   int
	dimension int
	logger    *slog.Logger
}

// ChunkOption configures a ChunkEngine
type ChunkOption func(*ChunkEngine)

// WithChunkSize sets the window size in characters
func WithChunkSize(size int) ChunkOption {
	return func(ce *ChunkEngine) {
		if size > 0 {
			ce.size = size
		}
	}
}

// WithChunkOverlap sets the overlap between windows in characters
func WithChunkOverlap(overlap int) ChunkOption {
	return func(ce *ChunkEngine) {
		if overlap >= 0 {
			ce.overlap = overlap
		}
	}
}

// WithChunkDimension rejects chunk vectors whose length differs from dimension
func WithChunkDimension(dimension int) ChunkOption {
	return func(ce *ChunkEngine) {
		ce.dimension = dimension
	}
}

// WithChunkLogger sets the logger used for dropped chunks
func WithChunkLogger(logger *slog.Logger) ChunkOption {
	return func(ce *ChunkEngine) {
		if logger != nil {
			ce.logger = logger
		}
	}
}

// NewChunkEngine creates a ChunkEngine. An overlap that does not fit the
// window size is reduced to a quarter of the size.
func NewChunkEngine(gateway EmbeddingGateway, opts ...ChunkOption) *ChunkEngine {
	ce := &ChunkEngine{
		gateway: gateway,
		size:    DefaultChunkSize,
		overlap: DefaultChunkOverlap,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(ce)
	}
	if ce.overlap >= ce.size {
		ce.overlap = ce.size / 4
	}
	return ce
}

// Chunk splits text with the engine's window settings
func (ce *ChunkEngine) Chunk(text string) ([]string, error) {
	return ChunkText(text, ce.size, ce.overlap)
}

// GenerateChunkEmbeddings embeds all chunks with one batch call. Chunks whose
// vector is missing or malformed are dropped; the rest are returned in order.
func (ce *ChunkEngine) GenerateChunkEmbeddings(ctx context.Context, chunks []string) ([]models.ChunkEmbedding, error) {
	if len(chunks) == 0 {
		return []models.ChunkEmbedding{}, nil
	}
	if ce.gateway == nil {
		return nil, &ProviderError{Op: "batch embed", Err: ErrNoGateway}
	}

	vectors, err := ce.gateway.GetBatchEmbeddings(ctx, chunks)
	if err != nil {
		return nil, &ProviderError{Op: "batch embed", Err: err}
	}

	paired := make([]models.ChunkEmbedding, 0, len(chunks))
	for i, content := range chunks {
		if i >= len(vectors) {
			ce.logger.Warn("dropping chunk without embedding", "component", "chunk_engine", "index", i)
			continue
		}
		if err := models.ValidateVector(vectors[i], ce.dimension); err != nil {
			ce.logger.Warn("dropping chunk with malformed embedding", "component", "chunk_engine", "index", i, "err", err)
			continue
		}
		paired = append(paired, models.ChunkEmbedding{Index: i, Content: content, Vector: vectors[i]})
	}

	return paired, nil
}
