// Package extract turns web pages into normalized plain text, choosing
// between a static HTTP fetch and a dynamic headless-browser render.
package extract

import (
	"context"
	"errors"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/busla/webrag/internal/models"
	"go.uber.org/zap"
)

const (
	// MaxContentLength caps extracted text so downstream chunking costs
	// stay predictable.
	MaxContentLength = 2000
	// ellipsis marks truncated output.
	ellipsis = "..."

	staticTimeout  = 10 * time.Second
	dynamicTimeout = 20 * time.Second

	userAgent = "Mozilla/5.0 (compatible; webrag/1.0)"

	// minRenderedLength is the threshold under which a rendered page is
	// considered empty and re-parsed from its raw HTML.
	minRenderedLength = 50
)

// ErrRendererUnavailable is returned when no headless browser can be
// launched; the adapter falls back to the static strategy.
var ErrRendererUnavailable = errors.New("headless browser unavailable")

// Renderer renders a page in a headless browser and reads the result.
type Renderer interface {
	Render(ctx context.Context, url string) (*Rendered, error)
}

// Rendered is the outcome of one browser render.
type Rendered struct {
	Text   string
	HTML   string
	Status int
}

// Result is the outcome of extracting one page. A failed extraction
// carries an error-text payload in Text plus Err; it never aborts a batch.
type Result struct {
	Text     string
	Method   models.ExtractionMethod
	Degraded bool
	Err      error
}

// Adapter extracts page text using the selected strategy.
type Adapter struct {
	client   *http.Client
	renderer Renderer
	maxLen   int
	logger   *zap.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithRenderer sets the dynamic-strategy renderer.
func WithRenderer(r Renderer) Option {
	return func(a *Adapter) { a.renderer = r }
}

// WithHTTPClient overrides the static-strategy HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Adapter) { a.client = c }
}

// WithMaxContentLength overrides the truncation cap.
func WithMaxContentLength(n int) Option {
	return func(a *Adapter) { a.maxLen = n }
}

// NewAdapter creates an extraction adapter. Without WithRenderer the
// dynamic strategy degrades to static.
func NewAdapter(logger *zap.Logger, opts ...Option) *Adapter {
	a := &Adapter{
		client: &http.Client{Timeout: staticTimeout},
		maxLen: MaxContentLength,
		logger: logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Extract fetches url with the given strategy and returns normalized,
// length-capped plain text. Failures are converted into an error-text
// payload so one broken page never fails the whole batch.
func (a *Adapter) Extract(ctx context.Context, url string, strategy models.ExtractionMethod) Result {
	var res Result
	switch strategy {
	case models.ExtractionDynamic:
		res = a.extractDynamic(ctx, url)
	default:
		res = a.extractStatic(ctx, url)
	}
	res.Text = Truncate(res.Text, a.maxLen)
	return res
}

// Truncate caps s at maxLen characters, appending the ellipsis marker
// when content was cut. The cap counts runes, not bytes, so multibyte
// text is never torn mid-rune.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + ellipsis
}
