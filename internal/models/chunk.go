package models

// Chunk is a bounded substring of an extracted document with provenance
// metadata. Chunks are immutable once created.
type Chunk struct {
	Content       string           `json:"content"`
	SourceURL     string           `json:"source_url"`
	SourceTitle   string           `json:"source_title"`
	SourceSnippet string           `json:"source_snippet"`
	// SourceIndex is the position of the originating page in the result batch.
	SourceIndex int              `json:"source_index"`
	Method      ExtractionMethod `json:"extraction_method"`
	// StartOffset is the chunk's starting byte offset within the source text.
	StartOffset int `json:"start_offset"`
}

// ScoredChunk is a chunk with its relevance score and rank. Rank 0 is the
// most relevant chunk; rank is derived from score order, never stored apart
// from it.
type ScoredChunk struct {
	Chunk
	RelevanceScore float64 `json:"relevance_score"`
	Rank           int     `json:"rank"`
}
