// ABOUTME: Backfiller generates embeddings for items that lack one
// ABOUTME: Long items are also chunked and each chunk embedded and stored
package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/harper/recall/internal/models"
)

// poolReleaseTimeout bounds how long Run waits for pool workers to exit
const poolReleaseTimeout = 5 * time.Second

// BackfillResult counts what a backfill run did
type BackfillResult struct {
	Updated      int `json:"updated"`
	Failed       int `json:"failed"`
	ChunksStored int `json:"chunks_stored"`
}

// Backfiller embeds items of one kind
type Backfiller struct {
	store    ItemStore
	gateway  EmbeddingGateway
	chunker  *ChunkEngine
	settings settings
	logger   *slog.Logger
}

// NewBackfiller creates a Backfiller. A gateway is required.
func NewBackfiller(deps Deps, opts ...Option) (*Backfiller, error) {
	if deps.Store == nil {
		return nil, ErrStoreRequired
	}
	if deps.Gateway == nil {
		return nil, ErrNoGateway
	}

	s := applyOptions(opts)
	logger := deps.logger()
	return &Backfiller{
		store:   deps.Store,
		gateway: deps.Gateway,
		chunker: NewChunkEngine(deps.Gateway,
			WithChunkSize(s.chunkSize),
			WithChunkOverlap(s.chunkOverlap),
			WithChunkDimension(s.dimension),
			WithChunkLogger(logger),
		),
		settings: s,
		logger:   logger,
	}, nil
}

// Run embeds every item currently lacking an embedding, up to the candidate cap.
// Per-item failures are counted, not returned; only listing the work can fail the run.
func (b *Backfiller) Run(ctx context.Context) (BackfillResult, error) {
	var result BackfillResult

	items, err := b.store.ListWithoutEmbedding(ctx, b.settings.candidateCap)
	if err != nil {
		return result, &StoreError{Op: "list items without embedding", Err: err}
	}
	if len(items) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(b.settings.workers)
	if err != nil {
		return result, fmt.Errorf("failed to create backfill pool: %w", err)
	}
	defer func() { _ = pool.ReleaseTimeout(poolReleaseTimeout) }()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	record := func(chunks int, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			result.Failed++
			return
		}
		result.Updated++
		result.ChunksStored += chunks
	}

	for _, item := range items {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			chunks, err := b.EmbedItem(ctx, item)
			if err != nil {
				b.logger.Warn("backfill failed for item", "component", "backfill", "id", item.ID, "err", err)
			}
			record(chunks, err)
		})
		if submitErr != nil {
			wg.Done()
			record(0, submitErr)
		}
	}
	wg.Wait()

	b.logger.Info("backfill complete", "component", "backfill",
		"updated", result.Updated, "failed", result.Failed, "chunks", result.ChunksStored)
	return result, nil
}

// EmbedItem generates and stores the embedding for one item, then chunks and
// embeds its content when it is longer than the chunk threshold. It returns
// how many chunks were stored. Chunk failures do not fail the item.
func (b *Backfiller) EmbedItem(ctx context.Context, item models.Item) (int, error) {
	text := item.EmbeddingText()
	if strings.TrimSpace(text) == "" {
		return 0, validationErrorf("content", "item %s has no text to embed", item.ID)
	}

	vector, err := b.gateway.GenerateEmbedding(ctx, text)
	if err != nil {
		return 0, &ProviderError{Op: "embed item", Err: err}
	}
	if err := models.ValidateVector(vector, b.settings.dimension); err != nil {
		return 0, &ProviderError{Op: "embed item", Err: err}
	}
	if err := b.store.UpdateEmbedding(ctx, item.ID, vector); err != nil {
		return 0, &StoreError{Op: "update embedding", Err: err}
	}

	if utf8.RuneCountInString(item.Content) <= b.settings.chunkThreshold {
		return 0, nil
	}
	return b.storeChunks(ctx, item), nil
}

func (b *Backfiller) storeChunks(ctx context.Context, item models.Item) int {
	windows, err := b.chunker.Chunk(item.Content)
	if err != nil {
		b.logger.Warn("chunking failed", "component", "backfill", "id", item.ID, "err", err)
		return 0
	}

	pairs, err := b.chunker.GenerateChunkEmbeddings(ctx, windows)
	if err != nil {
		b.logger.Warn("chunk embedding failed", "component", "backfill", "id", item.ID, "err", err)
		return 0
	}

	stored := 0
	for _, pair := range pairs {
		chunk := &models.Chunk{
			ID:           uuid.New().String(),
			ParentKind:   item.Kind,
			ParentItemID: item.ID,
			Content:      pair.Content,
			Embedding:    pair.Vector,
			ChunkIndex:   pair.Index,
			CreatedAt:    time.Now().UTC(),
		}
		if _, err := b.store.InsertChunk(ctx, chunk); err != nil {
			b.logger.Warn("storing chunk failed", "component", "backfill", "id", item.ID, "index", pair.Index, "err", err)
			continue
		}
		stored++
	}
	return stored
}
