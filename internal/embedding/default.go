package embedding

import "sync"

// ModelConfig describes the process-wide default embedding model.
type ModelConfig struct {
	ModelPath  string
	Dimensions int
	MaxTokens  int
	CacheSize  int
}

// The default embedder is loaded at most once per process and is read-only
// after initialization. Reset is the only way to rebuild it.
var (
	defaultMu       sync.Mutex
	defaultEmbedder Embedder
	defaultErr      error
	defaultLoaded   bool
)

// Default returns the process-wide embedder, loading it on first use.
// The load result (including failure) is memoized so concurrent callers
// never trigger duplicate model loads.
func Default(cfg ModelConfig) (Embedder, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if !defaultLoaded {
		defaultEmbedder, defaultErr = NewONNXEmbedder(
			cfg.ModelPath, cfg.Dimensions, cfg.MaxTokens, cfg.CacheSize)
		if defaultErr != nil {
			defaultEmbedder = nil
		}
		defaultLoaded = true
	}
	if defaultErr != nil {
		return nil, defaultErr
	}
	return defaultEmbedder, nil
}

// Reset closes and forgets the default embedder so the next Default call
// loads it again. Intended for tests and explicit reconfiguration.
func Reset() {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultEmbedder != nil {
		_ = defaultEmbedder.Close()
	}
	defaultEmbedder = nil
	defaultErr = nil
	defaultLoaded = false
}
