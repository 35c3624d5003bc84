// ABOUTME: Store-backed SearchStrategy shared by every item kind
// ABOUTME: Semantic ranking over embedded candidates and substring keyword search
package core

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/harper/recall/internal/models"
)

const (
	strategySemantic = "semantic"
	strategyKeyword  = "keyword"
)

// minQueryTermLength excludes query tokens of this many characters or fewer
const minQueryTermLength = 2

type storeStrategy struct {
	store        ItemStore
	gateway      EmbeddingGateway
	candidateCap int
	logger       *slog.Logger
}

// NewStoreStrategy builds the SearchStrategy for one item store.
// A nil gateway makes the semantic capability decline every request.
func NewStoreStrategy(store ItemStore, gateway EmbeddingGateway, candidateCap int, logger *slog.Logger) SearchStrategy {
	if candidateCap <= 0 {
		candidateCap = DefaultCandidateCap
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &storeStrategy{
		store:        store,
		gateway:      gateway,
		candidateCap: candidateCap,
		logger:       logger,
	}
}

func (s *storeStrategy) SemanticSearch(ctx context.Context, q models.SearchQuery) Outcome {
	if s.gateway == nil || q.Query == "" {
		return declined(strategySemantic)
	}

	vector, err := s.gateway.GenerateEmbedding(ctx, q.Query)
	if err != nil {
		return failed(strategySemantic, &ProviderError{Op: "embed query", Err: err})
	}
	if err := models.ValidateVector(vector, 0); err != nil {
		return failed(strategySemantic, &ProviderError{Op: "embed query", Err: err})
	}

	candidates, err := s.store.ListWithEmbedding(ctx, s.candidateCap)
	if err != nil {
		return failed(strategySemantic, &StoreError{Op: "list embedded items", Err: err})
	}
	if len(candidates) == 0 {
		// Nothing embedded yet; keyword search can still answer
		return declined(strategySemantic)
	}

	ranked := rankByEmbedding(vector, candidates, "", s.logger)
	if len(q.Tags) > 0 {
		filtered := ranked[:0]
		for _, r := range ranked {
			if hasAnyTag(r.Item.Tags, q.Tags) {
				filtered = append(filtered, r)
			}
		}
		ranked = filtered
	}

	return succeeded(strategySemantic, paginate(ranked, q.Offset, q.Limit))
}

func (s *storeStrategy) KeywordSearch(ctx context.Context, q models.SearchQuery) Outcome {
	filter := models.KeywordFilter{
		Tags:   q.Tags,
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	if q.Query != "" {
		filter.Keywords = QueryTerms(q.Query)
		if len(filter.Keywords) == 0 {
			filter.Phrase = q.Query
		}
	}

	items, err := s.store.KeywordSearch(ctx, filter)
	if err != nil {
		return failed(strategyKeyword, &StoreError{Op: "keyword search", Err: err})
	}
	return succeeded(strategyKeyword, unscored(items))
}

// QueryTerms splits a query into lower-cased, de-duplicated words longer than two characters
func QueryTerms(query string) []string {
	var terms []string
	seen := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if utf8.RuneCountInString(word) <= minQueryTermLength || seen[word] {
			continue
		}
		seen[word] = true
		terms = append(terms, word)
	}
	return terms
}

// rankByEmbedding scores candidates against vector, skipping the excluded id,
// candidates that cannot be compared, and negative scores. Ties keep candidate order.
func rankByEmbedding(vector []float64, candidates []models.Item, excludeID string, logger *slog.Logger) []models.ScoredItem {
	ranked := make([]models.ScoredItem, 0, len(candidates))
	for _, candidate := range candidates {
		if excludeID != "" && candidate.ID == excludeID {
			continue
		}
		score, err := CosineSimilarity(vector, candidate.Embedding)
		if err != nil {
			logger.Warn("skipping candidate", "component", "ranking", "id", candidate.ID, "err", err)
			continue
		}
		if score < 0 {
			continue
		}
		ranked = append(ranked, models.ScoredItem{Item: candidate, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// paginate returns the [offset, offset+limit) window of a ranked list
func paginate(items []models.ScoredItem, offset, limit int) []models.ScoredItem {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []models.ScoredItem{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
