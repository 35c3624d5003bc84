// ABOUTME: Search request shapes shared by the engine and the stores
// ABOUTME: SearchQuery carries caller input; KeywordFilter is the store-level query
package models

import "strings"

const (
	// DefaultSearchLimit is used when a query does not set a positive limit
	DefaultSearchLimit = 10
	// MaxSearchLimit bounds the page size a caller may request
	MaxSearchLimit = 100
)

// SearchQuery is a caller's search request
type SearchQuery struct {
	Query          string   `json:"query,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Limit          int      `json:"limit,omitempty"`
	Offset         int      `json:"offset,omitempty"`
	SemanticSearch bool     `json:"semantic_search,omitempty"`
}

// Normalize trims the query text, normalizes tags and clamps paging.
// A non-positive defaultLimit or maxLimit falls back to the package defaults.
func (q SearchQuery) Normalize(defaultLimit, maxLimit int) SearchQuery {
	if defaultLimit <= 0 {
		defaultLimit = DefaultSearchLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxSearchLimit
	}

	out := q
	out.Query = strings.TrimSpace(q.Query)
	out.Tags = NormalizeTags(q.Tags)
	if out.Limit <= 0 {
		out.Limit = defaultLimit
	}
	if out.Limit > maxLimit {
		out.Limit = maxLimit
	}
	if out.Offset < 0 {
		out.Offset = 0
	}
	return out
}

// IsBrowse reports whether the query has neither text nor tags
func (q SearchQuery) IsBrowse() bool {
	return q.Query == "" && len(q.Tags) == 0
}

// KeywordFilter is the substring query a store runs.
// Keywords match title, content or tags (any keyword). Phrase matches title or
// content and is used only when Keywords is empty. Tags match-any on the tags
// column and are ANDed with the rest. Results are ordered newest first.
type KeywordFilter struct {
	Keywords []string
	Phrase   string
	Tags     []string
	Limit    int
	Offset   int
}
