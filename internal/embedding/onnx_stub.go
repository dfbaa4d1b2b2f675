//go:build !cgo
// +build !cgo

package embedding

import "context"

// ONNXEmbedder stub when built without CGO (see onnx.go for the real one).
// Every method reports the model as unavailable so ranking falls back to
// the lexical tier.
type ONNXEmbedder struct{}

// NewONNXEmbedder reports the model as unavailable when built without CGO.
func NewONNXEmbedder(_ string, _, _, _ int) (*ONNXEmbedder, error) {
	return nil, ErrUnavailable
}

func (e *ONNXEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return nil, ErrUnavailable
}

func (e *ONNXEmbedder) EmbedBatch(_ context.Context, _ []string) ([][]float32, error) {
	return nil, ErrUnavailable
}

func (e *ONNXEmbedder) Dimensions() int { return 0 }

func (e *ONNXEmbedder) Close() error { return nil }
