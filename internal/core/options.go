// ABOUTME: Explicit dependencies and tuning options for the retrieval engine
// ABOUTME: Every engine component is built from a Deps value, never from globals
package core

import (
	"log/slog"

	"github.com/harper/recall/internal/models"
)

const (
	// DefaultCandidateCap bounds how many items a ranking pass loads
	DefaultCandidateCap = 1000
	// DefaultRelatedResults is used when FindRelated gets a non-positive max
	DefaultRelatedResults = 5
	// MaxRelatedResults bounds FindRelated's max
	MaxRelatedResults = 50
	// DefaultChunkThreshold is the content length above which backfill also chunks
	DefaultChunkThreshold = 1500
	// DefaultBackfillWorkers is the backfill pool size
	DefaultBackfillWorkers = 4
	// DefaultKeywordConcurrency bounds parallel per-keyword searches
	DefaultKeywordConcurrency = 5
)

// Deps are the collaborators for one item kind
type Deps struct {
	Store    ItemStore
	Gateway  EmbeddingGateway
	Strategy SearchStrategy
	Logger   *slog.Logger
}

func (d Deps) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

type settings struct {
	candidateCap       int
	defaultLimit       int
	maxLimit           int
	maxKeywords        int
	keywordConcurrency int
	chunkSize          int
	chunkOverlap       int
	chunkThreshold     int
	workers            int
	dimension          int
}

func defaultSettings() settings {
	return settings{
		candidateCap:       DefaultCandidateCap,
		defaultLimit:       models.DefaultSearchLimit,
		maxLimit:           models.MaxSearchLimit,
		maxKeywords:        DefaultMaxKeywords,
		keywordConcurrency: DefaultKeywordConcurrency,
		chunkSize:          DefaultChunkSize,
		chunkOverlap:       DefaultChunkOverlap,
		chunkThreshold:     DefaultChunkThreshold,
		workers:            DefaultBackfillWorkers,
	}
}

func applyOptions(opts []Option) settings {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option tunes engine components
type Option func(*settings)

// WithCandidateCap bounds the candidate set loaded for ranking
func WithCandidateCap(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.candidateCap = n
		}
	}
}

// WithLimits sets the default and maximum search page sizes
func WithLimits(defaultLimit, maxLimit int) Option {
	return func(s *settings) {
		if defaultLimit > 0 {
			s.defaultLimit = defaultLimit
		}
		if maxLimit > 0 {
			s.maxLimit = maxLimit
		}
	}
}

// WithMaxKeywords sets how many keywords relation discovery extracts
func WithMaxKeywords(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxKeywords = n
		}
	}
}

// WithKeywordConcurrency bounds parallel per-keyword searches
func WithKeywordConcurrency(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.keywordConcurrency = n
		}
	}
}

// WithChunking sets the backfill chunk window and the length threshold
func WithChunking(size, overlap, threshold int) Option {
	return func(s *settings) {
		if size > 0 {
			s.chunkSize = size
		}
		if overlap >= 0 {
			s.chunkOverlap = overlap
		}
		if threshold > 0 {
			s.chunkThreshold = threshold
		}
	}
}

// WithWorkers sets the backfill pool size
func WithWorkers(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithDimension rejects generated vectors of any other length
func WithDimension(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.dimension = n
		}
	}
}
