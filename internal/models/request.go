package models

import "fmt"

// SearchRequest is a search-and-retrieve request with optional pipeline knobs.
type SearchRequest struct {
	Query                string `json:"query"`
	NumResults           int    `json:"num_results,omitempty"`
	UseDynamicExtraction bool   `json:"use_dynamic_extraction,omitempty"`
	UseRanking           bool   `json:"use_ranking,omitempty"`
	ChunkSize            int    `json:"chunk_size,omitempty"`
}

// Validate ensures the request has valid fields and sets defaults.
// Returns an error if the query is empty; otherwise clamps num_results to
// [1,10] and applies the default chunk size.
func (r *SearchRequest) Validate() error {
	if r.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if r.NumResults <= 0 {
		r.NumResults = 3
	}
	if r.NumResults > 10 {
		r.NumResults = 10
	}
	if r.ChunkSize <= 0 {
		r.ChunkSize = 500
	}
	return nil
}
