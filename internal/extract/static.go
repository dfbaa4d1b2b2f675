package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/busla/webrag/internal/models"
	"go.uber.org/zap"
)

// maxFetchBytes bounds how much of a response body is read.
const maxFetchBytes = 4 << 20

// extractStatic fetches the page over plain HTTP and strips its markup.
func (a *Adapter) extractStatic(ctx context.Context, url string) Result {
	text, err := a.fetchStatic(ctx, url)
	if err != nil {
		a.logger.Debug("static extraction failed",
			zap.String("url", url), zap.Error(err))
		return Result{
			Text:   fmt.Sprintf("Error scraping content: %v", err),
			Method: models.ExtractionStatic,
			Err:    err,
		}
	}
	return Result{Text: text, Method: models.ExtractionStatic}
}

func (a *Adapter) fetchStatic(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return "", err
	}

	if isPDF(resp.Header.Get("Content-Type"), url) {
		return extractPDF(body)
	}
	return StripHTML(string(body))
}

// StripHTML removes script and style elements, extracts the visible text,
// and collapses whitespace runs into single spaces.
func StripHTML(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}
	doc.Find("script, style, noscript").Remove()
	return CollapseWhitespace(doc.Text()), nil
}

// CollapseWhitespace joins all whitespace-separated tokens with single
// spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
