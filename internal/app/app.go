// ABOUTME: Application wiring: storage, embedding gateway and per-kind engines
// ABOUTME: Shared by the CLI, the MCP server and the benchmark so they build the same stack
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/harper/recall/internal/config"
	"github.com/harper/recall/internal/core"
	"github.com/harper/recall/internal/llm"
	"github.com/harper/recall/internal/models"
	"github.com/harper/recall/internal/storage/sqlite"
	openai "github.com/sashabaranov/go-openai"
)

// App holds the explicit dependencies of one running instance
type App struct {
	Config  *config.Config
	Storage *sqlite.Storage
	// Gateway is nil when embeddings are disabled
	Gateway core.EmbeddingGateway
	Notes   *core.Engine
	Profile *core.Engine
	Logger  *slog.Logger

	// embedMu keeps inline embeds (read side) from overlapping a backfill
	// (write side); both would otherwise chunk the same item twice
	embedMu sync.RWMutex
}

// BackfillReport is the backfill outcome per item kind
type BackfillReport struct {
	Notes   core.BackfillResult `json:"notes"`
	Profile core.BackfillResult `json:"profile"`
}

// New opens storage at the configured path and builds the engines
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = sqlite.DefaultDBPath()
	}
	storage, err := sqlite.NewStorageWithPath(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	gateway, err := NewGateway(cfg, logger)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	a, err := NewWithStorage(cfg, storage, gateway, logger)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}
	return a, nil
}

// NewWithStorage builds the engines over an existing storage and gateway.
// A nil gateway disables semantic search and backfill.
func NewWithStorage(cfg *config.Config, storage *sqlite.Storage, gateway core.EmbeddingGateway, logger *slog.Logger) (*App, error) {
	if storage == nil {
		return nil, errors.New("storage is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := engineOptions(cfg)
	notes, err := core.NewEngine(core.Deps{
		Store:   storage.Notes(),
		Gateway: gateway,
		Logger:  logger.With("kind", string(models.KindNote)),
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build note engine: %w", err)
	}

	profile, err := core.NewEngine(core.Deps{
		Store:   storage.Profile(),
		Gateway: gateway,
		Logger:  logger.With("kind", string(models.KindProfile)),
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build profile engine: %w", err)
	}

	return &App{
		Config:  cfg,
		Storage: storage,
		Gateway: gateway,
		Notes:   notes,
		Profile: profile,
		Logger:  logger,
	}, nil
}

// NewGateway builds the configured embedding gateway wrapped with caching and a
// circuit breaker. It returns nil, nil when embeddings are disabled.
func NewGateway(cfg *config.Config, logger *slog.Logger) (core.EmbeddingGateway, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.EmbeddingsEnabled() {
		if cfg.Provider == config.ProviderOpenAI {
			logger.Info("OPENAI_API_KEY not set; semantic search and backfill are disabled")
		}
		return nil, nil
	}

	var inner llm.Embedder
	switch cfg.Provider {
	case config.ProviderOpenAI:
		client, err := llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
			APIKey:         cfg.OpenAIKey,
			BaseURL:        cfg.BaseURL,
			EmbeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			RetryDelay:     cfg.RetryDelay,
			Logger:         logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		inner = client
	case config.ProviderCompatible:
		client, err := llm.NewCompatibleClient(llm.CompatibleConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.EmbeddingModel,
			Token:   cfg.OpenAIKey,
			Logger:  logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create embedding client: %w", err)
		}
		inner = client
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}

	gateway, err := llm.NewResilientGateway(inner, llm.ResilientConfig{
		Name:            cfg.Provider,
		CacheSize:       cfg.CacheSize,
		BreakerFailures: uint32(cfg.BreakerFailures), // #nosec G115 -- validated positive
		BreakerTimeout:  cfg.BreakerTimeout,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}
	return gateway, nil
}

func engineOptions(cfg *config.Config) []core.Option {
	return []core.Option{
		core.WithCandidateCap(cfg.CandidateCap),
		core.WithLimits(cfg.DefaultLimit, cfg.MaxLimit),
		core.WithMaxKeywords(cfg.RelatedKeywords),
		core.WithChunking(cfg.ChunkSize, cfg.ChunkOverlap, cfg.ChunkThreshold),
		core.WithWorkers(cfg.BackfillWorkers),
		core.WithDimension(cfg.VectorDimension),
	}
}

// Close releases storage
func (a *App) Close() error {
	return a.Storage.Close()
}

// Engine returns the engine for kind
func (a *App) Engine(kind models.ItemKind) (*core.Engine, error) {
	switch kind {
	case models.KindNote, "":
		return a.Notes, nil
	case models.KindProfile:
		return a.Profile, nil
	default:
		return nil, &core.ValidationError{Field: "kind", Message: fmt.Sprintf("unknown item kind %q", kind)}
	}
}

// AddNote stores a new note and embeds it right away when a gateway is
// configured. Embedding failures are logged; backfill retries them later.
func (a *App) AddNote(ctx context.Context, title, content string, tags []string) (*models.Note, error) {
	note, err := models.NewNote(title, content, tags)
	if err != nil {
		return nil, &core.ValidationError{Field: "content", Message: err.Error()}
	}
	if err := a.Storage.SaveNote(ctx, note); err != nil {
		return nil, &core.StoreError{Op: "save note", Err: err}
	}

	a.embedInline(ctx, a.Notes, note.Item())
	return note, nil
}

// UpdateProfile merges info into the profile and re-embeds it when possible
func (a *App) UpdateProfile(ctx context.Context, info map[string]interface{}) (*models.UserProfile, error) {
	profile, err := a.Storage.UpdateUserProfile(ctx, info)
	if err != nil {
		return nil, &core.StoreError{Op: "update profile", Err: err}
	}

	a.embedInline(ctx, a.Profile, profile.Item())
	return profile, nil
}

// embedInline embeds a freshly saved item unless a backfill is running, in
// which case the item is left for the next backfill
func (a *App) embedInline(ctx context.Context, engine *core.Engine, item models.Item) {
	if !engine.CanEmbed() {
		return
	}
	if !a.embedMu.TryRLock() {
		a.Logger.Info("backfill in progress; item left for the next backfill", "kind", string(item.Kind), "id", item.ID)
		return
	}
	defer a.embedMu.RUnlock()

	if _, err := engine.EmbedItem(ctx, item); err != nil {
		a.Logger.Warn("item saved without embedding", "kind", string(item.Kind), "id", item.ID, "err", err)
	}
}

// Backfill embeds every note and the profile that still lack a vector.
// Concurrent calls run one after another.
func (a *App) Backfill(ctx context.Context) (BackfillReport, error) {
	a.embedMu.Lock()
	defer a.embedMu.Unlock()

	var report BackfillReport
	var err error

	report.Notes, err = a.Notes.Backfill(ctx)
	if err != nil {
		return report, err
	}
	report.Profile, err = a.Profile.Backfill(ctx)
	return report, err
}
