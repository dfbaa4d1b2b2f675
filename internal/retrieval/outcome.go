package retrieval

import (
	"math"

	"github.com/busla/webrag/internal/models"
)

// assemble aggregates what earlier stages computed into one outcome
// record. It never re-derives a score; the only arithmetic here is
// display rounding.
func assemble(query string, totalChunks int, scored []models.ScoredChunk, method models.RankMethod, status models.RetrievalStatus, summaryText string) *models.RetrievalOutcome {
	out := &models.RetrievalOutcome{
		Status:         status,
		MethodUsed:     method,
		TotalChunks:    totalChunks,
		RelevantChunks: len(scored),
		ScoredChunks:   make([]models.ScoredChunk, len(scored)),
		Summary:        summaryText,
		Query:          query,
	}
	for i, sc := range scored {
		sc.RelevanceScore = round(sc.RelevanceScore, 4)
		out.ScoredChunks[i] = sc
	}
	if totalChunks > 0 {
		out.RelevanceRatio = round(float64(len(scored))/float64(totalChunks), 2)
	}
	return out
}

func round(x float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(x*factor) / factor
}
