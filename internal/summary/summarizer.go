// Package summary derives a bounded extractive summary from ranked chunks
// using term-overlap sentence selection.
package summary

import (
	"sort"
	"strings"

	"github.com/busla/webrag/internal/models"
)

const (
	// DefaultMaxLength bounds the summary in characters.
	DefaultMaxLength = 300
	// candidateChunks is how many top-ranked chunks feed the sentence pool.
	candidateChunks = 3
	// minSentenceLength filters out fragments.
	minSentenceLength = 20
)

// Fallback is returned when no sentence qualifies; the summary is never
// empty.
const Fallback = "No relevant summary could be extracted from the retrieved content."

// Summarize selects query-overlapping sentences from the top-ranked chunks
// until maxLength is reached. Sentence splitting is a deliberately naive
// ". " split; keep it that way so output stays reproducible.
func Summarize(query string, chunks []models.ScoredChunk, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	if len(chunks) == 0 {
		return Fallback
	}

	pool := chunks
	if len(pool) > candidateChunks {
		pool = pool[:candidateChunks]
	}
	texts := make([]string, len(pool))
	for i, ch := range pool {
		texts[i] = ch.Content
	}

	queryWords := wordSet(query)
	type candidate struct {
		text    string
		overlap int
	}
	var candidates []candidate
	for _, sentence := range strings.Split(strings.Join(texts, " "), ". ") {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) < minSentenceLength {
			continue
		}
		overlap := overlapCount(wordSet(sentence), queryWords)
		if overlap == 0 {
			continue
		}
		candidates = append(candidates, candidate{text: sentence, overlap: overlap})
	}
	if len(candidates) == 0 {
		return Fallback
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].overlap > candidates[j].overlap
	})

	var b strings.Builder
	for _, c := range candidates {
		if b.Len()+len(c.text)+2 > maxLength {
			break
		}
		b.WriteString(c.text)
		b.WriteString(". ")
	}
	result := strings.TrimSpace(b.String())
	if result == "" {
		return Fallback
	}
	return result
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = true
	}
	return set
}

func overlapCount(a, b map[string]bool) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for w := range a {
		if b[w] {
			n++
		}
	}
	return n
}
