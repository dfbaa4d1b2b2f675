package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/busla/webrag/internal/models"
	"github.com/busla/webrag/internal/retrieval"
	"github.com/busla/webrag/internal/websearch"
)

// ToolDescriptor is the wire description of one tool.
type ToolDescriptor struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ToolHandler executes a tool call and returns its text payload.
type ToolHandler func(ctx context.Context, args json.RawMessage) (string, error)

// Tool couples a descriptor with its handler.
type Tool struct {
	ToolDescriptor
	Handler ToolHandler
}

// Registry holds the tools this server exposes, in listing order.
type Registry struct {
	tools  []Tool
	byName map[string]Tool
}

// NewRegistry creates a registry from tools.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{byName: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		r.tools = append(r.tools, t)
		r.byName[t.Name] = t
	}
	return r
}

// Descriptors lists all tool descriptors.
func (r *Registry) Descriptors() []ToolDescriptor {
	out := make([]ToolDescriptor, len(r.tools))
	for i, t := range r.tools {
		out[i] = t.ToolDescriptor
	}
	return out
}

// Lookup returns the named tool.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// DefaultRegistry builds the standard tool set around the pipeline.
func DefaultRegistry(pipeline *retrieval.Pipeline) *Registry {
	return NewRegistry(
		WebSearchTool(pipeline),
		GetTimeTool(),
		GetWeatherTool(),
	)
}

// WebSearchTool exposes the retrieval pipeline. Upstream failures (missing
// credentials, search API errors) become a top-level error payload in the
// tool output, matching the error taxonomy callers rely on.
func WebSearchTool(pipeline *retrieval.Pipeline) Tool {
	return Tool{
		ToolDescriptor: ToolDescriptor{
			Name: "web_search_and_retrieve",
			Description: "Search the web, scrape the top results, and optionally rank " +
				"the scraped content against the query with an extractive summary.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query":                  map[string]interface{}{"type": "string", "description": "The search query to execute"},
					"num_results":            map[string]interface{}{"type": "integer", "description": "Number of results to scrape (1-10, default 3)"},
					"use_dynamic_extraction": map[string]interface{}{"type": "boolean", "description": "Render pages in a headless browser"},
					"use_ranking":            map[string]interface{}{"type": "boolean", "description": "Rank scraped content and summarize it"},
					"chunk_size":             map[string]interface{}{"type": "integer", "description": "Chunk window size in characters (default 500)"},
				},
				"required": []string{"query"},
			},
		},
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var req models.SearchRequest
			if err := json.Unmarshal(args, &req); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
			doc, err := pipeline.Run(ctx, &req)
			if err != nil {
				if errors.Is(err, websearch.ErrMissingCredentials) {
					return errorPayload(websearch.ErrMissingCredentials.Error()), nil
				}
				return errorPayload(fmt.Sprintf("Search failed: %v", err)), nil
			}
			encoded, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return "", err
			}
			return string(encoded), nil
		},
	}
}

// GetTimeTool returns the current UTC date and time.
func GetTimeTool() Tool {
	return Tool{
		ToolDescriptor: ToolDescriptor{
			Name:        "get_time",
			Description: "Get the current UTC date and time.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		Handler: func(context.Context, json.RawMessage) (string, error) {
			return time.Now().UTC().Format("2006-01-02 15:04:05"), nil
		},
	}
}

// GetWeatherTool is the original demo tool: a made-up temperature.
func GetWeatherTool() Tool {
	return Tool{
		ToolDescriptor: ToolDescriptor{
			Name:        "get_weather",
			Description: "Get the current weather for a city.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"city": map[string]interface{}{"type": "string", "description": "Name of the city"},
				},
				"required": []string{"city"},
			},
		},
		Handler: func(_ context.Context, args json.RawMessage) (string, error) {
			var params struct {
				City string `json:"city"`
			}
			if err := json.Unmarshal(args, &params); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
			temp := 15 + rand.Intn(21)
			return fmt.Sprintf("The temperature in %s is %d°C", params.City, temp), nil
		},
	}
}

func errorPayload(message string) string {
	encoded, _ := json.Marshal(map[string]string{"error": message})
	return string(encoded)
}
