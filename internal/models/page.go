// Package models defines core data structures for pages, chunks, and retrieval outcomes.
package models

// ExtractionMethod identifies how a page's text was obtained.
type ExtractionMethod string

const (
	// ExtractionStatic is plain HTTP fetch plus markup stripping.
	ExtractionStatic ExtractionMethod = "static"
	// ExtractionDynamic is a headless-browser render.
	ExtractionDynamic ExtractionMethod = "dynamic"
)

// RawPage is one search result with its extracted text. It is created once per
// result during extraction and never mutated by later pipeline stages.
type RawPage struct {
	URL             string           `json:"url"`
	Title           string           `json:"title"`
	Snippet         string           `json:"snippet"`
	ScrapedContent  string           `json:"scraped_content"`
	Method          ExtractionMethod `json:"extraction_method"`
	ExtractionError string           `json:"extraction_error,omitempty"`
	// Degraded is set when the dynamic strategy was requested but the
	// adapter had to fall back to the static strategy.
	Degraded bool `json:"degraded,omitempty"`
}

// HasContent reports whether the page carries usable extracted text.
// Pages that failed extraction contribute no chunks.
func (p *RawPage) HasContent() bool {
	return p.ExtractionError == "" && p.ScrapedContent != ""
}
