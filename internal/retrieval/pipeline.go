// Package retrieval wires search, extraction, chunking, ranking, and
// summarization into the end-to-end pipeline behind the search tool.
package retrieval

import (
	"context"
	"sync"

	"github.com/busla/webrag/internal/chunker"
	"github.com/busla/webrag/internal/extract"
	"github.com/busla/webrag/internal/models"
	"github.com/busla/webrag/internal/ranking"
	"github.com/busla/webrag/internal/summary"
	"github.com/busla/webrag/internal/websearch"
	"go.uber.org/zap"
)

// Pipeline runs one search-and-retrieve invocation. Data flows strictly
// forward: extraction, chunking, ranking, summarization, assembly. No
// stage mutates a record produced by an earlier one.
type Pipeline struct {
	mu            sync.RWMutex
	search        websearch.Client
	adapter       *extract.Adapter
	ranker        *ranking.Ranker
	logger        *zap.Logger
	summaryMaxLen int
	topK          int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSummaryMaxLength overrides the summary character budget.
func WithSummaryMaxLength(n int) Option {
	return func(p *Pipeline) { p.summaryMaxLen = n }
}

// WithTopK overrides how many ranked chunks an analysis keeps.
func WithTopK(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.topK = n
		}
	}
}

// NewPipeline creates a pipeline from its collaborators.
func NewPipeline(search websearch.Client, adapter *extract.Adapter, ranker *ranking.Ranker, logger *zap.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		search:        search,
		adapter:       adapter,
		ranker:        ranker,
		logger:        logger,
		summaryMaxLen: summary.DefaultMaxLength,
		topK:          ranking.DefaultTopK,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetSearchClient swaps the search client. Used on config reload so
// credential changes take effect without a restart.
func (p *Pipeline) SetSearchClient(c websearch.Client) {
	p.mu.Lock()
	p.search = c
	p.mu.Unlock()
}

// Run executes the full invocation for req. Only upstream failures (the
// search API itself) abort the run; every per-page extraction failure is
// localized into that page's record.
func (p *Pipeline) Run(ctx context.Context, req *models.SearchRequest) (*models.SearchDocument, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	search := p.search
	p.mu.RUnlock()

	results, err := search.Search(ctx, req.Query, req.NumResults)
	if err != nil {
		return nil, err
	}

	strategy := models.ExtractionStatic
	if req.UseDynamicExtraction {
		strategy = models.ExtractionDynamic
	}
	pages := p.extractAll(ctx, results, strategy)

	doc := &models.SearchDocument{
		Query:        req.Query,
		TotalResults: len(pages),
		Results:      pages,
	}
	if req.UseRanking {
		doc.RAGAnalysis = p.Analyze(ctx, req.Query, pages, req.ChunkSize)
	}
	return doc, nil
}

// extractAll extracts every result page. Extraction runs per-URL in
// parallel; each page writes only its own index-stable slot, so the final
// ordering never depends on completion order.
func (p *Pipeline) extractAll(ctx context.Context, results []websearch.Result, strategy models.ExtractionMethod) []models.RawPage {
	pages := make([]models.RawPage, len(results))
	var wg sync.WaitGroup
	for i, r := range results {
		wg.Add(1)
		go func(i int, r websearch.Result) {
			defer wg.Done()
			res := p.adapter.Extract(ctx, r.URL, strategy)
			page := models.RawPage{
				URL:            r.URL,
				Title:          r.Title,
				Snippet:        r.Snippet,
				ScrapedContent: res.Text,
				Method:         res.Method,
				Degraded:       res.Degraded,
			}
			if res.Err != nil {
				page.ExtractionError = res.Err.Error()
			}
			pages[i] = page
		}(i, r)
	}
	wg.Wait()

	p.logger.Debug("extraction finished",
		zap.Int("pages", len(pages)),
		zap.String("strategy", string(strategy)))
	return pages
}

// Analyze runs chunking, ranking, and summarization over extracted pages
// and assembles the retrieval outcome.
func (p *Pipeline) Analyze(ctx context.Context, query string, pages []models.RawPage, chunkSize int) *models.RetrievalOutcome {
	chunks := chunker.New(chunkSize).Chunk(pages)
	scored, method, status := p.ranker.Rank(ctx, query, chunks, p.topK)
	text := summary.Summarize(query, scored, p.summaryMaxLen)
	return assemble(query, len(chunks), scored, method, status, text)
}
