package ranking

import (
	"context"
	"errors"
	"fmt"

	"github.com/busla/webrag/internal/embedding"
	"github.com/busla/webrag/internal/models"
	"github.com/busla/webrag/internal/vector"
)

// EmbedderProvider supplies the embedding model on demand, so model
// loading stays lazy and its failure surfaces as tier unavailability.
type EmbedderProvider func() (embedding.Embedder, error)

// EmbeddingStrategy ranks chunks by dense-vector similarity to the query.
type EmbeddingStrategy struct {
	provider EmbedderProvider
}

// NewEmbeddingStrategy creates the embedding tier backed by provider.
func NewEmbeddingStrategy(provider EmbedderProvider) *EmbeddingStrategy {
	return &EmbeddingStrategy{provider: provider}
}

// Name identifies the tier.
func (s *EmbeddingStrategy) Name() models.RankMethod {
	return models.MethodEmbedding
}

// Rank embeds the query and every chunk, scores each chunk by cosine
// similarity, and returns the topK. A model that cannot be initialized is
// reported as ErrStrategyUnavailable so the ranker falls through to the
// lexical tier.
func (s *EmbeddingStrategy) Rank(ctx context.Context, query string, chunks []models.Chunk, topK int) ([]models.ScoredChunk, error) {
	embedder, err := s.provider()
	if err != nil {
		if errors.Is(err, embedding.ErrUnavailable) {
			return nil, fmt.Errorf("%w: %v", ErrStrategyUnavailable, err)
		}
		return nil, fmt.Errorf("obtain embedder: %w", err)
	}

	queryVec, err := embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Content
	}
	chunkVecs, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}

	scores := make([]float64, len(chunks))
	for i, vec := range chunkVecs {
		scores[i] = vector.CosineSimilarity(queryVec, vec)
	}
	return selectTop(chunks, scores, topK), nil
}
