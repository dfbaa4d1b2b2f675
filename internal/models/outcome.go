package models

// RetrievalStatus is the degradation level of a pipeline run.
type RetrievalStatus string

const (
	// StatusSuccess means the embedding tier produced the ranking.
	StatusSuccess RetrievalStatus = "success"
	// StatusFallback means the lexical tier produced the ranking.
	StatusFallback RetrievalStatus = "success_fallback"
	// StatusNoContent means there was nothing to rank.
	StatusNoContent RetrievalStatus = "no_content"
	// StatusError means every ranking tier failed.
	StatusError RetrievalStatus = "error"
)

// RankMethod is the ranking strategy that actually produced the scores.
type RankMethod string

const (
	MethodEmbedding RankMethod = "embedding"
	MethodLexical   RankMethod = "lexical"
	MethodNone      RankMethod = "none"
)

// RetrievalOutcome is the sole externally visible artifact of the pipeline.
// Invariant: RelevantChunks == len(ScoredChunks) <= min(5, TotalChunks).
type RetrievalOutcome struct {
	Status         RetrievalStatus `json:"status"`
	MethodUsed     RankMethod      `json:"method_used"`
	TotalChunks    int             `json:"total_chunks"`
	RelevantChunks int             `json:"relevant_chunks"`
	ScoredChunks   []ScoredChunk   `json:"scored_chunks"`
	Summary        string          `json:"summary"`
	Query          string          `json:"query"`
	// RelevanceRatio is RelevantChunks/TotalChunks rounded for display.
	RelevanceRatio float64 `json:"relevance_ratio"`
}

// SearchDocument is the JSON document returned to the tool caller.
// RAGAnalysis is present only when ranking was requested.
type SearchDocument struct {
	Query        string            `json:"query"`
	TotalResults int               `json:"total_results"`
	Results      []RawPage         `json:"results"`
	RAGAnalysis  *RetrievalOutcome `json:"rag_analysis,omitempty"`
}
