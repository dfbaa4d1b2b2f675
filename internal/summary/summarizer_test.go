package summary

import (
	"strings"
	"testing"

	"github.com/busla/webrag/internal/models"
)

func scoredChunks(texts ...string) []models.ScoredChunk {
	chunks := make([]models.ScoredChunk, len(texts))
	for i, text := range texts {
		chunks[i] = models.ScoredChunk{
			Chunk: models.Chunk{Content: text},
			Rank:  i,
		}
	}
	return chunks
}

func TestSummarize_SelectsOverlappingSentences(t *testing.T) {
	chunks := scoredChunks(
		"Python tutorials are great for learning. Cats sleep most of the day. "+
			"These python tutorials cover basics and more advanced python usage. trailing bit",
	)
	got := Summarize("python tutorials basics", chunks, 300)
	if strings.Contains(got, "Cats sleep") {
		t.Errorf("zero-overlap sentence selected: %q", got)
	}
	if !strings.Contains(got, "python tutorials cover basics") {
		t.Errorf("high-overlap sentence missing: %q", got)
	}
	// Highest overlap first.
	if !strings.HasPrefix(got, "These python tutorials cover") {
		t.Errorf("summary should lead with the highest-overlap sentence: %q", got)
	}
}

func TestSummarize_RespectsMaxLength(t *testing.T) {
	long := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		long = append(long, "the query term appears in this rather long filler sentence number "+strings.Repeat("x", i+1))
	}
	chunks := scoredChunks(strings.Join(long, ". ") + ".")
	got := Summarize("query term", chunks, 120)
	if len(got) > 120 {
		t.Errorf("summary length %d exceeds max 120", len(got))
	}
	if got == Fallback {
		t.Error("expected a real summary within the budget")
	}
}

func TestSummarize_FallbackWhenNothingQualifies(t *testing.T) {
	if got := Summarize("query", nil, 300); got != Fallback {
		t.Errorf("empty chunks: got %q", got)
	}
	chunks := scoredChunks("totally unrelated content about gardening and soil preparation today")
	if got := Summarize("quantum chromodynamics", chunks, 300); got != Fallback {
		t.Errorf("no overlap: got %q", got)
	}
	// Overlapping but too short.
	if got := Summarize("tiny", scoredChunks("tiny bit"), 300); got != Fallback {
		t.Errorf("short sentences: got %q", got)
	}
}

func TestSummarize_UsesOnlyTopThreeChunks(t *testing.T) {
	chunks := scoredChunks(
		"first chunk mentioning the topic of interest here",
		"second chunk also mentioning the topic of interest",
		"third chunk again mentioning the topic of interest",
		"fourth chunk has a unique marker phrase with the topic",
	)
	got := Summarize("topic unique marker", chunks, 300)
	if strings.Contains(got, "fourth chunk") {
		t.Errorf("sentences beyond the top 3 chunks used: %q", got)
	}
}

func TestSummarize_StableOnTies(t *testing.T) {
	chunks := scoredChunks(
		"alpha topic sentence one goes here. alpha topic sentence two goes here. alpha topic sentence three goes here",
	)
	a := Summarize("topic", chunks, 300)
	b := Summarize("topic", chunks, 300)
	if a != b {
		t.Error("summary must be deterministic")
	}
	if !strings.HasPrefix(a, "alpha topic sentence one") {
		t.Errorf("ties must preserve original sentence order: %q", a)
	}
}
