// ABOUTME: RelationFinder discovers items related to a source item without a query
// ABOUTME: Tries tags, then embeddings, then derived keywords, then recent items
package core

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/harper/recall/internal/models"
)

const (
	strategyTags      = "tags"
	strategyEmbedding = "embedding"
	strategyKeywords  = "keywords"
	strategyRecent    = "recent"
)

// relationStrategy is one step of the relation chain
type relationStrategy struct {
	name string
	run  func(ctx context.Context, source *models.Item, maxResults int) Outcome
}

// RelationFinder finds related items within one item kind
type RelationFinder struct {
	store    ItemStore
	settings settings
	logger   *slog.Logger
}

// NewRelationFinder creates a RelationFinder
func NewRelationFinder(deps Deps, opts ...Option) (*RelationFinder, error) {
	if deps.Store == nil {
		return nil, ErrStoreRequired
	}
	return &RelationFinder{
		store:    deps.Store,
		settings: applyOptions(opts),
		logger:   deps.logger(),
	}, nil
}

func (rf *RelationFinder) chain() []relationStrategy {
	return []relationStrategy{
		{name: strategyTags, run: rf.byTags},
		{name: strategyEmbedding, run: rf.byEmbedding},
		{name: strategyKeywords, run: rf.byKeywords},
		{name: strategyRecent, run: rf.byRecency},
	}
}

// FindRelated returns up to maxResults items related to the item with id.
// The source item is never part of the result. A missing source yields an
// empty result; only a failed source lookup is an error.
func (rf *RelationFinder) FindRelated(ctx context.Context, id string, maxResults int) ([]models.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, validationErrorf("id", "must not be blank")
	}
	maxResults = clampRelated(maxResults)

	source, err := rf.store.GetByID(ctx, id)
	if err != nil {
		return nil, &StoreError{Op: "get source item", Err: err}
	}
	if source == nil {
		return []models.Item{}, nil
	}

	for _, strategy := range rf.chain() {
		out := strategy.run(ctx, source, maxResults)
		if out.Err != nil {
			rf.logger.Warn("relation strategy failed", "component", "relations", "strategy", strategy.name, "err", out.Err)
			continue
		}
		items := withoutID(models.StripScores(out.Items), source.ID)
		if len(items) == 0 {
			continue
		}
		if len(items) > maxResults {
			items = items[:maxResults]
		}
		rf.logger.Debug("related items found", "component", "relations", "strategy", strategy.name, "count", len(items))
		return items, nil
	}

	return []models.Item{}, nil
}

// FindRelatedByTags ranks tagged items by overlap with referenceTags, skipping excludeID
func (rf *RelationFinder) FindRelatedByTags(ctx context.Context, referenceTags []string, excludeID string, limit int) ([]models.Item, error) {
	out := rf.rankByTags(ctx, models.NormalizeTags(referenceTags), excludeID, limit)
	if out.Err != nil {
		return nil, out.Err
	}
	return models.StripScores(out.Items), nil
}

func (rf *RelationFinder) byTags(ctx context.Context, source *models.Item, maxResults int) Outcome {
	if len(source.Tags) == 0 {
		return declined(strategyTags)
	}
	return rf.rankByTags(ctx, source.Tags, source.ID, maxResults)
}

func (rf *RelationFinder) rankByTags(ctx context.Context, referenceTags []string, excludeID string, limit int) Outcome {
	if len(referenceTags) == 0 {
		return succeeded(strategyTags, nil)
	}

	candidates, err := rf.store.ListWithTags(ctx, rf.settings.candidateCap)
	if err != nil {
		return failed(strategyTags, &StoreError{Op: "list tagged items", Err: err})
	}

	type tagMatch struct {
		scored models.ScoredItem
		ratio  float64
	}
	matches := make([]tagMatch, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.ID == excludeID {
			continue
		}
		score := TagScore(candidate.Tags, referenceTags)
		if score == 0 {
			continue
		}
		matches = append(matches, tagMatch{
			scored: models.ScoredItem{Item: candidate, Score: score},
			ratio:  MatchRatio(score, len(candidate.Tags)),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].scored.Score != matches[j].scored.Score {
			return matches[i].scored.Score > matches[j].scored.Score
		}
		return matches[i].ratio > matches[j].ratio
	})

	ranked := make([]models.ScoredItem, 0, len(matches))
	for _, m := range matches {
		ranked = append(ranked, m.scored)
	}
	return succeeded(strategyTags, paginate(ranked, 0, limit))
}

func (rf *RelationFinder) byEmbedding(ctx context.Context, source *models.Item, maxResults int) Outcome {
	if !source.HasEmbedding() {
		return declined(strategyEmbedding)
	}

	candidates, err := rf.store.ListOtherWithEmbedding(ctx, source.ID, rf.settings.candidateCap)
	if err != nil {
		return failed(strategyEmbedding, &StoreError{Op: "list embedded items", Err: err})
	}

	ranked := rankByEmbedding(source.Embedding, candidates, source.ID, rf.logger)
	return succeeded(strategyEmbedding, paginate(ranked, 0, maxResults))
}

func (rf *RelationFinder) byKeywords(ctx context.Context, source *models.Item, maxResults int) Outcome {
	keywords := ExtractKeywords(source.Content, rf.settings.maxKeywords)
	if len(keywords) == 0 {
		return declined(strategyKeywords)
	}

	perKeyword := (maxResults + 1) / 2
	results := make([][]models.Item, len(keywords))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rf.settings.keywordConcurrency)
	for i, keyword := range keywords {
		g.Go(func() error {
			items, err := rf.store.KeywordSearch(gctx, models.KeywordFilter{
				Keywords: []string{keyword},
				Limit:    perKeyword,
			})
			if err != nil {
				rf.logger.Warn("keyword search failed", "component", "relations", "keyword", keyword, "err", err)
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	merged := mergeResults(results, source.ID, maxResults)
	return succeeded(strategyKeywords, unscored(merged))
}

func (rf *RelationFinder) byRecency(ctx context.Context, source *models.Item, maxResults int) Outcome {
	items, err := rf.store.Recent(ctx, maxResults+1)
	if err != nil {
		return failed(strategyRecent, &StoreError{Op: "recent items", Err: err})
	}
	return succeeded(strategyRecent, unscored(withoutID(items, source.ID)))
}

// mergeResults concatenates result sets in order, keeping the first occurrence
// of each id, dropping excludeID, and truncating to limit.
func mergeResults(sets [][]models.Item, excludeID string, limit int) []models.Item {
	seen := map[string]bool{excludeID: true}
	merged := make([]models.Item, 0, limit)
	for _, set := range sets {
		for _, item := range set {
			if seen[item.ID] {
				continue
			}
			seen[item.ID] = true
			merged = append(merged, item)
			if len(merged) == limit {
				return merged
			}
		}
	}
	return merged
}

func withoutID(items []models.Item, id string) []models.Item {
	out := make([]models.Item, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

func clampRelated(n int) int {
	if n <= 0 {
		return DefaultRelatedResults
	}
	if n > MaxRelatedResults {
		return MaxRelatedResults
	}
	return n
}
