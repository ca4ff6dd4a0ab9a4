package domain

import "context"

// Embedder is the shared text vectorization contract between layers.
// The call is at-most-once per query; retries are the caller's business.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the vector and token usage through the decorator chain.
// A cache hit reports TotalTokens = 0 since no real tokens were consumed.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}
