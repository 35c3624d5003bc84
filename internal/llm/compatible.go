// ABOUTME: Embedding client for OpenAI-compatible local services (Ollama, LM Studio)
// ABOUTME: Wraps a langchaingo embedder so any /v1/embeddings endpoint can back the engine
package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/harper/recall/internal/models"
	"github.com/tmc/langchaingo/embeddings"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

// DefaultCompatibleModel is used when no model is configured for a local service
const DefaultCompatibleModel = "nomic-embed-text"

// CompatibleConfig configures a local embedding service
type CompatibleConfig struct {
	BaseURL string
	Model   string
	// Token may be empty; local services usually ignore it
	Token  string
	Logger *slog.Logger
}

// CompatibleClient generates embeddings through an OpenAI-compatible endpoint
type CompatibleClient struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
}

// NewCompatibleClient creates a client for the service at config.BaseURL
func NewCompatibleClient(config CompatibleConfig) (*CompatibleClient, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("embedding base URL is required")
	}
	model := config.Model
	if model == "" {
		model = DefaultCompatibleModel
	}
	// Use "none" as token for local services that don't require authentication
	token := config.Token
	if token == "" {
		token = "none"
	}

	client, err := lcopenai.New(
		lcopenai.WithBaseURL(config.BaseURL),
		lcopenai.WithToken(token),
		lcopenai.WithEmbeddingModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &CompatibleClient{
		embedder: embedder,
		logger:   logger.With("component", "compatible-embedder"),
	}, nil
}

// GenerateEmbedding generates an embedding vector for one text
func (c *CompatibleClient) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	c.logger.Debug("generating embedding for single text", "length", len(text))

	vectors, err := c.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if len(vectors) == 0 {
		return nil, models.ErrEmptyVector
	}
	return models.Float32ToFloat64(vectors[0]), nil
}

// GetBatchEmbeddings embeds texts; the result is index-aligned with texts
func (c *CompatibleClient) GetBatchEmbeddings(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}
	c.logger.Debug("generating embeddings for texts", "count", len(texts))

	vectors, err := c.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate batch embeddings: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(vectors))
	}

	out := make([][]float64, len(vectors))
	for i, v := range vectors {
		out[i] = models.Float32ToFloat64(v)
	}
	return out, nil
}
