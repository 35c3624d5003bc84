// ABOUTME: SearchOrchestrator picks semantic or keyword search per request
// ABOUTME: Degrades semantic to keyword to recent items instead of failing
package core

import (
	"context"
	"errors"
	"log/slog"

	"github.com/harper/recall/internal/models"
)

// SearchOrchestrator answers search queries for one item kind
type SearchOrchestrator struct {
	strategy SearchStrategy
	store    ItemStore
	settings settings
	logger   *slog.Logger
}

// NewSearchOrchestrator creates an orchestrator. When deps.Strategy is nil the
// store-backed strategy is used.
func NewSearchOrchestrator(deps Deps, opts ...Option) (*SearchOrchestrator, error) {
	if deps.Store == nil {
		return nil, ErrStoreRequired
	}

	s := applyOptions(opts)
	logger := deps.logger()
	strategy := deps.Strategy
	if strategy == nil {
		strategy = NewStoreStrategy(deps.Store, deps.Gateway, s.candidateCap, logger)
	}

	return &SearchOrchestrator{
		strategy: strategy,
		store:    deps.Store,
		settings: s,
		logger:   logger,
	}, nil
}

// Search returns items matching query, best first, without scores.
// Semantic search runs only when the caller asks for it and supplies text.
// A query with neither text nor tags browses the most recently updated items.
func (o *SearchOrchestrator) Search(ctx context.Context, query models.SearchQuery) ([]models.Item, error) {
	q := query.Normalize(o.settings.defaultLimit, o.settings.maxLimit)

	if q.SemanticSearch && q.Query != "" {
		out := o.strategy.SemanticSearch(ctx, q)
		if out.Ok() {
			return models.StripScores(out.Items), nil
		}
		if out.Err != nil {
			o.logger.Warn("semantic search failed, using keyword search", "component", "search", "err", out.Err)
		} else {
			o.logger.Debug("semantic search declined, using keyword search", "component", "search")
		}
	}

	out := o.strategy.KeywordSearch(ctx, q)
	if out.Ok() {
		return models.StripScores(out.Items), nil
	}
	if out.Declined {
		return []models.Item{}, nil
	}

	o.logger.Warn("keyword search failed, falling back to recent items", "component", "search", "err", out.Err)
	recent, err := o.store.Recent(ctx, q.Limit)
	if err != nil {
		o.logger.Error("recent items fallback failed", "component", "search", "err", err)
		var storeErr *StoreError
		if errors.As(out.Err, &storeErr) {
			return nil, storeErr
		}
		return nil, &StoreError{Op: "keyword search", Err: out.Err}
	}
	if recent == nil {
		recent = []models.Item{}
	}
	return recent, nil
}
