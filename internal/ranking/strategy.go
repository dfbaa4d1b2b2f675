// Package ranking scores and orders chunks against a query through a
// tiered strategy chain: embedding similarity first, lexical TF-IDF as
// the fallback floor.
package ranking

import (
	"context"
	"errors"
	"sort"

	"github.com/busla/webrag/internal/models"
)

// DefaultTopK is the cap on returned chunks.
const DefaultTopK = 5

// ErrStrategyUnavailable signals that a strategy cannot run here (missing
// model, missing runtime). The ranker falls through to the next tier;
// unrelated faults are never converted into this error.
var ErrStrategyUnavailable = errors.New("ranking strategy unavailable")

// Strategy is one ranking tier.
type Strategy interface {
	Name() models.RankMethod
	// Rank returns the topK most relevant chunks, most relevant first.
	Rank(ctx context.Context, query string, chunks []models.Chunk, topK int) ([]models.ScoredChunk, error)
}

// selectTop pairs chunks with scores, orders them most-relevant first with
// a stable sort (ties keep original chunk order), and keeps topK. Ranks
// are derived from the final order.
func selectTop(chunks []models.Chunk, scores []float64, topK int) []models.ScoredChunk {
	scored := make([]models.ScoredChunk, len(chunks))
	for i, ch := range chunks {
		scored[i] = models.ScoredChunk{Chunk: ch, RelevanceScore: scores[i]}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})
	if topK < len(scored) {
		scored = scored[:topK]
	}
	for i := range scored {
		scored[i].Rank = i
	}
	return scored
}
