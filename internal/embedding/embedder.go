// Package embedding provides query and chunk text embedding via ONNX,
// with a deterministic mock for tests.
package embedding

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when no embedding model can be initialized.
// Callers treat it as a signal to fall back to lexical ranking, not as a
// hard failure.
var ErrUnavailable = errors.New("embedding model unavailable")

// Embedder produces vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
