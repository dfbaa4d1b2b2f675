// Package websearch provides the external search-API client that supplies
// raw result metadata to the retrieval pipeline.
package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultEndpoint is the Google Custom Search JSON API.
const DefaultEndpoint = "https://www.googleapis.com/customsearch/v1"

const searchTimeout = 10 * time.Second

// ErrMissingCredentials is reported when the API key or engine ID is not
// configured. It is fatal for the whole invocation, unlike per-page
// extraction failures.
var ErrMissingCredentials = errors.New("Google API credentials not configured")

// Result is one search hit: title, link, and snippet.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Client returns ranked search results for a query.
type Client interface {
	Search(ctx context.Context, query string, numResults int) ([]Result, error)
}

// GoogleClient calls the Google Custom Search JSON API.
type GoogleClient struct {
	apiKey   string
	engineID string
	endpoint string
	client   *http.Client
}

// GoogleOption configures a GoogleClient.
type GoogleOption func(*GoogleClient)

// WithEndpoint overrides the API endpoint (used in tests).
func WithEndpoint(endpoint string) GoogleOption {
	return func(c *GoogleClient) { c.endpoint = endpoint }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) GoogleOption {
	return func(c *GoogleClient) { c.client = hc }
}

// NewGoogleClient creates a search client with the given credentials.
func NewGoogleClient(apiKey, engineID string, opts ...GoogleOption) *GoogleClient {
	c := &GoogleClient{
		apiKey:   apiKey,
		engineID: engineID,
		endpoint: DefaultEndpoint,
		client:   &http.Client{Timeout: searchTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// Search returns up to numResults hits for query. numResults is clamped
// to [1,10], the API's page bounds.
func (c *GoogleClient) Search(ctx context.Context, query string, numResults int) ([]Result, error) {
	if c.apiKey == "" || c.engineID == "" {
		return nil, ErrMissingCredentials
	}
	if numResults < 1 {
		numResults = 1
	}
	if numResults > 10 {
		numResults = 10
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(numResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned HTTP %d", resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]Result, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		results = append(results, Result{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}
