// Package chunker splits extracted documents into overlapping fixed-size
// text chunks with provenance metadata.
package chunker

import "github.com/busla/webrag/internal/models"

// DefaultChunkSize is the window size in characters.
const DefaultChunkSize = 500

// Chunker splits page text into overlapping character windows.
type Chunker struct {
	chunkSize int
	overlap   int
}

// New creates a chunker with the given window size. Overlap between
// consecutive windows is a quarter of the window.
func New(chunkSize int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Chunker{
		chunkSize: chunkSize,
		overlap:   chunkSize / 4,
	}
}

// ChunkSize returns the configured window size.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Chunk splits every page with usable text into consecutive windows,
// recording each window's start offset within the source text. Pages whose
// extraction failed contribute no chunks. The output is deterministic for
// a given input.
func (c *Chunker) Chunk(pages []models.RawPage) []models.Chunk {
	var chunks []models.Chunk
	for i := range pages {
		chunks = append(chunks, c.chunkPage(&pages[i], i)...)
	}
	return chunks
}

func (c *Chunker) chunkPage(page *models.RawPage, index int) []models.Chunk {
	if !page.HasContent() {
		return nil
	}
	text := page.ScrapedContent

	step := c.chunkSize - c.overlap
	if step <= 0 {
		step = 1
	}

	var chunks []models.Chunk
	for start := 0; start < len(text); start += step {
		end := start + c.chunkSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, models.Chunk{
			Content:       text[start:end],
			SourceURL:     page.URL,
			SourceTitle:   page.Title,
			SourceSnippet: page.Snippet,
			SourceIndex:   index,
			Method:        page.Method,
			StartOffset:   start,
		})
		if end >= len(text) {
			break
		}
	}
	return chunks
}
