package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/busla/webrag/internal/models"
	"go.uber.org/zap"
)

// extractDynamic renders the page in a headless browser. When no renderer
// is available the adapter transparently falls back to the static strategy
// and marks the result degraded.
func (a *Adapter) extractDynamic(ctx context.Context, url string) Result {
	if a.renderer == nil {
		return a.degradeToStatic(ctx, url, ErrRendererUnavailable)
	}

	rendered, err := a.renderer.Render(ctx, url)
	if err != nil {
		if errors.Is(err, ErrRendererUnavailable) {
			return a.degradeToStatic(ctx, url, err)
		}
		a.logger.Debug("dynamic extraction failed",
			zap.String("url", url), zap.Error(err))
		return Result{
			Text:   fmt.Sprintf("Error scraping content: %v", err),
			Method: models.ExtractionDynamic,
			Err:    err,
		}
	}

	if rendered.Status >= 400 {
		// Category messages are returned as the extracted text; callers
		// recognize them as extraction failures, not content.
		msg := statusMessage(rendered.Status)
		return Result{
			Text:   msg,
			Method: models.ExtractionDynamic,
			Err:    fmt.Errorf("HTTP %d", rendered.Status),
		}
	}

	text := CollapseWhitespace(rendered.Text)
	if len(text) < minRenderedLength && rendered.HTML != "" {
		// Some pages render into frameworks the innerText walk misses;
		// the raw HTML pass recovers those before giving up.
		if stripped, stripErr := StripHTML(rendered.HTML); stripErr == nil && len(stripped) > len(text) {
			text = stripped
		}
	}
	return Result{Text: text, Method: models.ExtractionDynamic}
}

func (a *Adapter) degradeToStatic(ctx context.Context, url string, cause error) Result {
	a.logger.Debug("falling back to static extraction",
		zap.String("url", url), zap.Error(cause))
	res := a.extractStatic(ctx, url)
	res.Degraded = true
	return res
}

// statusMessage maps an HTTP error status to a human-readable category.
func statusMessage(status int) string {
	switch {
	case status == 403:
		return "Access blocked: the site refused the request (403 Forbidden)"
	case status == 404:
		return "Page not found (404)"
	case status == 429:
		return "Rate limited by the site (429 Too Many Requests)"
	case status >= 500:
		return fmt.Sprintf("Server error on the site (HTTP %d)", status)
	default:
		return fmt.Sprintf("HTTP error %d while loading the page", status)
	}
}
