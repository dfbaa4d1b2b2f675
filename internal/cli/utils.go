// Package cli provides CLI output utilities for webrag.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/busla/webrag/internal/models"
	"github.com/busla/webrag/pkg/utils"
)

// SearchOutputFormat is the format for search result output.
type SearchOutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText SearchOutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON SearchOutputFormat = "json"
)

// WriteSearchDocument writes a search document to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteSearchDocument(w io.Writer, doc *models.SearchDocument, format SearchOutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		writeSearchDocumentText(w, doc)
		return nil
	}
}

func writeSearchDocumentText(w io.Writer, doc *models.SearchDocument) {
	fmt.Fprintf(w, "\nQuery: %s\nScraped %d result(s)\n\n", doc.Query, doc.TotalResults)
	for i, page := range doc.Results {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "[%d] %s\n", i+1, page.Title)
		fmt.Fprintf(w, "URL: %s\n", page.URL)
		if page.Snippet != "" {
			fmt.Fprintf(w, "Snippet: %s\n", TruncateWords(page.Snippet, 30))
		}
		if page.ExtractionError != "" {
			fmt.Fprintf(w, "Extraction: %s (%s)\n", page.ExtractionError, page.Method)
		} else {
			fmt.Fprintf(w, "\n%s\n", Truncate(page.ScrapedContent, 200))
		}
		fmt.Fprintln(w)
	}
	if doc.RAGAnalysis != nil {
		writeAnalysisText(w, doc.RAGAnalysis)
	}
}

func writeAnalysisText(w io.Writer, outcome *models.RetrievalOutcome) {
	fmt.Fprintf(w, "═════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "Analysis: %s (method: %s)\n", outcome.Status, outcome.MethodUsed)
	fmt.Fprintf(w, "Chunks: %d total, %d relevant (ratio %.2f)\n",
		outcome.TotalChunks, outcome.RelevantChunks, outcome.RelevanceRatio)
	for _, sc := range outcome.ScoredChunks {
		fmt.Fprintf(w, "  #%d [%.4f] %s\n", sc.Rank, sc.RelevanceScore, Truncate(sc.Content, 120))
	}
	if outcome.Summary != "" {
		fmt.Fprintf(w, "\nSummary: %s\n", outcome.Summary)
	}
}

// Truncate truncates s to maxLen and appends "..." if truncated.
func Truncate(s string, maxLen int) string {
	return utils.Truncate(s, maxLen)
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
