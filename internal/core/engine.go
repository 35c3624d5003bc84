// ABOUTME: Engine bundles search, relation discovery and backfill for one item kind
// ABOUTME: Built from explicit Deps so several isolated engines can coexist
package core

import (
	"context"

	"github.com/harper/recall/internal/models"
)

// Engine is the retrieval surface for one item kind
type Engine struct {
	search     *SearchOrchestrator
	relations  *RelationFinder
	backfiller *Backfiller
}

// NewEngine wires the engine components. Without a gateway the engine still
// searches by keyword and relates by tags and keywords, but cannot backfill.
func NewEngine(deps Deps, opts ...Option) (*Engine, error) {
	search, err := NewSearchOrchestrator(deps, opts...)
	if err != nil {
		return nil, err
	}
	relations, err := NewRelationFinder(deps, opts...)
	if err != nil {
		return nil, err
	}

	e := &Engine{search: search, relations: relations}
	if deps.Gateway != nil {
		backfiller, err := NewBackfiller(deps, opts...)
		if err != nil {
			return nil, err
		}
		e.backfiller = backfiller
	}
	return e, nil
}

// Search runs a search query
func (e *Engine) Search(ctx context.Context, query models.SearchQuery) ([]models.Item, error) {
	return e.search.Search(ctx, query)
}

// FindRelated finds items related to id
func (e *Engine) FindRelated(ctx context.Context, id string, maxResults int) ([]models.Item, error) {
	return e.relations.FindRelated(ctx, id, maxResults)
}

// FindRelatedByTags ranks items by tag overlap with tags
func (e *Engine) FindRelatedByTags(ctx context.Context, tags []string, excludeID string, limit int) ([]models.Item, error) {
	return e.relations.FindRelatedByTags(ctx, tags, excludeID, limit)
}

// Backfill embeds every item that lacks an embedding
func (e *Engine) Backfill(ctx context.Context) (BackfillResult, error) {
	if e.backfiller == nil {
		return BackfillResult{}, ErrNoGateway
	}
	return e.backfiller.Run(ctx)
}

// EmbedItem embeds one item immediately. Without a gateway it is a no-op so
// the item is picked up by a later backfill.
func (e *Engine) EmbedItem(ctx context.Context, item models.Item) (int, error) {
	if e.backfiller == nil {
		return 0, nil
	}
	return e.backfiller.EmbedItem(ctx, item)
}

// CanEmbed reports whether the engine has an embedding gateway
func (e *Engine) CanEmbed() bool {
	return e.backfiller != nil
}

