package domain

import "errors"

var (
	// ErrMissingQuestion signals an ask request without a question.
	ErrMissingQuestion = errors.New("missing question")
	// ErrInvalidMode signals an unknown mode hint.
	ErrInvalidMode = errors.New("invalid mode")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationProviderError signals a chat completion provider failure.
	ErrGenerationProviderError = errors.New("generation provider error")
	// ErrInvalidRating signals a rating value other than good/bad.
	ErrInvalidRating = errors.New("rating must be good or bad")
)
