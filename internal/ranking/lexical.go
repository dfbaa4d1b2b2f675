package ranking

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/busla/webrag/internal/models"
)

// maxVocabulary caps the TF-IDF term space.
const maxVocabulary = 1000

// LexicalStrategy ranks chunks by TF-IDF cosine similarity to the query.
// It is the accuracy floor of the pipeline: it needs nothing beyond the
// chunk texts, so it has no unavailable-dependency fallback of its own.
//
// Tokenization is a deliberately naive lowercase whitespace split; keep it
// that way so scores stay reproducible across runs.
type LexicalStrategy struct{}

// NewLexicalStrategy creates the lexical tier.
func NewLexicalStrategy() *LexicalStrategy {
	return &LexicalStrategy{}
}

// Name identifies the tier.
func (s *LexicalStrategy) Name() models.RankMethod {
	return models.MethodLexical
}

// Rank builds a TF-IDF vector space over all chunk texts plus the query
// (stop-words removed, unigrams and bigrams, vocabulary capped), scores
// each chunk by cosine similarity against the query vector, and returns
// the topK.
func (s *LexicalStrategy) Rank(_ context.Context, query string, chunks []models.Chunk, topK int) ([]models.ScoredChunk, error) {
	docs := make([][]string, 0, len(chunks)+1)
	for _, ch := range chunks {
		docs = append(docs, Terms(ch.Content))
	}
	queryTerms := Terms(query)
	docs = append(docs, queryTerms)

	vocab := buildVocabulary(docs)
	idf := inverseDocumentFrequencies(docs, vocab)

	queryVec := tfidfVector(queryTerms, vocab, idf)
	scores := make([]float64, len(chunks))
	for i := range chunks {
		scores[i] = dotSparse(tfidfVector(docs[i], vocab, idf), queryVec)
	}
	return selectTop(chunks, scores, topK), nil
}

// Terms tokenizes text into lowercase whitespace-separated unigrams plus
// bigrams over the stop-word-filtered sequence.
func Terms(text string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if isStopWord(w) {
			continue
		}
		words = append(words, w)
	}
	terms := make([]string, 0, 2*len(words))
	terms = append(terms, words...)
	for i := 0; i+1 < len(words); i++ {
		terms = append(terms, words[i]+" "+words[i+1])
	}
	return terms
}

// buildVocabulary keeps the maxVocabulary most frequent terms across the
// corpus. Ties break alphabetically so the vector space is deterministic.
func buildVocabulary(docs [][]string) map[string]bool {
	counts := make(map[string]int)
	for _, doc := range docs {
		for _, term := range doc {
			counts[term]++
		}
	}
	if len(counts) <= maxVocabulary {
		vocab := make(map[string]bool, len(counts))
		for term := range counts {
			vocab[term] = true
		}
		return vocab
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	vocab := make(map[string]bool, maxVocabulary)
	for _, term := range terms[:maxVocabulary] {
		vocab[term] = true
	}
	return vocab
}

// inverseDocumentFrequencies computes smoothed IDF per vocabulary term:
// idf = ln((1+n)/(1+df)) + 1.
func inverseDocumentFrequencies(docs [][]string, vocab map[string]bool) map[string]float64 {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, term := range doc {
			if vocab[term] && !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}
	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for term, count := range df {
		idf[term] = math.Log((1+n)/(1+float64(count))) + 1
	}
	return idf
}

// tfidfVector returns the L2-normalized TF-IDF weights of one document.
func tfidfVector(terms []string, vocab map[string]bool, idf map[string]float64) map[string]float64 {
	tf := make(map[string]int)
	for _, term := range terms {
		if vocab[term] {
			tf[term]++
		}
	}
	vec := make(map[string]float64, len(tf))
	var norm float64
	for term, count := range tf {
		w := float64(count) * idf[term]
		vec[term] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for term := range vec {
			vec[term] /= norm
		}
	}
	return vec
}

func dotSparse(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for term, w := range a {
		dot += w * b[term]
	}
	return dot
}
