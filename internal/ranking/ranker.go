package ranking

import (
	"context"

	"github.com/busla/webrag/internal/embedding"
	"github.com/busla/webrag/internal/models"
	"go.uber.org/zap"
)

// Ranker attempts each strategy in strict order; every tier is a full
// fallback of the previous one.
type Ranker struct {
	strategies []Strategy
	logger     *zap.Logger
}

// NewRanker builds the default two-tier ranker: embedding, then lexical.
func NewRanker(provider EmbedderProvider, logger *zap.Logger) *Ranker {
	return &Ranker{
		strategies: []Strategy{
			NewEmbeddingStrategy(provider),
			NewLexicalStrategy(),
		},
		logger: logger,
	}
}

// NewRankerWithStrategies builds a ranker over an explicit tier order.
func NewRankerWithStrategies(logger *zap.Logger, strategies ...Strategy) *Ranker {
	return &Ranker{strategies: strategies, logger: logger}
}

// Rank scores chunks against the query. topK is clamped to the available
// chunk count (and defaults to 5). The returned status distinguishes full
// success, degraded success, empty input, and total failure; callers never
// see a tier failure as an error.
func (r *Ranker) Rank(ctx context.Context, query string, chunks []models.Chunk, topK int) ([]models.ScoredChunk, models.RankMethod, models.RetrievalStatus) {
	if len(chunks) == 0 {
		return nil, models.MethodNone, models.StatusNoContent
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > len(chunks) {
		topK = len(chunks)
	}

	for i, strategy := range r.strategies {
		scored, err := strategy.Rank(ctx, query, chunks, topK)
		if err != nil {
			r.logger.Warn("ranking tier failed, falling through",
				zap.String("method", string(strategy.Name())),
				zap.Error(err))
			continue
		}
		status := models.StatusSuccess
		if i > 0 {
			status = models.StatusFallback
		}
		return scored, strategy.Name(), status
	}

	r.logger.Error("all ranking tiers failed", zap.String("query", query))
	return nil, models.MethodNone, models.StatusError
}

// DefaultProvider returns an EmbedderProvider backed by the process-wide
// memoized model handle.
func DefaultProvider(cfg embedding.ModelConfig) EmbedderProvider {
	return func() (embedding.Embedder, error) {
		return embedding.Default(cfg)
	}
}
