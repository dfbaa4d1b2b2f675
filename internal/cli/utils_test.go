package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/busla/webrag/internal/models"
)

func sampleDocument() *models.SearchDocument {
	return &models.SearchDocument{
		Query:        "go concurrency",
		TotalResults: 2,
		Results: []models.RawPage{
			{
				URL:            "https://example.com/go",
				Title:          "Go Concurrency",
				Snippet:        "Goroutines and channels",
				ScrapedContent: "Concurrency is not parallelism.",
				Method:         models.ExtractionStatic,
			},
			{
				URL:             "https://example.com/broken",
				Title:           "Broken",
				ScrapedContent:  "Error scraping content: connection refused",
				ExtractionError: "connection refused",
				Method:          models.ExtractionStatic,
			},
		},
		RAGAnalysis: &models.RetrievalOutcome{
			Status:         models.StatusSuccess,
			MethodUsed:     models.MethodEmbedding,
			TotalChunks:    4,
			RelevantChunks: 2,
			RelevanceRatio: 0.5,
			Summary:        "Concurrency is not parallelism.",
			ScoredChunks: []models.ScoredChunk{
				{Chunk: models.Chunk{Content: "Concurrency is not parallelism."}, RelevanceScore: 0.9123, Rank: 1},
			},
		},
	}
}

func TestWriteSearchDocument_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchDocument(&buf, sampleDocument(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Query: go concurrency",
		"Go Concurrency",
		"https://example.com/go",
		"connection refused",
		"Analysis: success (method: embedding)",
		"Summary: Concurrency is not parallelism.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSearchDocument_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchDocument(&buf, sampleDocument(), OutputJSON); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `"rag_analysis"`) {
		t.Errorf("json output missing rag_analysis:\n%s", out)
	}
	if !strings.Contains(out, `"query": "go concurrency"`) {
		t.Errorf("json output missing query:\n%s", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("Truncate short = %q", got)
	}
	if got := Truncate("hello world", 5); got != "hello..." {
		t.Errorf("Truncate long = %q", got)
	}
	if got := Truncate("hello", 0); got != "hello" {
		t.Errorf("Truncate zero = %q", got)
	}
}

func TestTruncateWords(t *testing.T) {
	if got := TruncateWords("one two three", 2); got != "one two..." {
		t.Errorf("TruncateWords = %q", got)
	}
	if got := TruncateWords("one two", 5); got != "one two" {
		t.Errorf("TruncateWords short = %q", got)
	}
}
