package answer

import (
	"context"

	"github.com/carneosk-source/carneo-ai-bot/internal/domain"
)

// Retriever runs the retrieval pipeline for a question.
type Retriever interface {
	Retrieve(ctx context.Context, question string, mode domain.Mode, sessionID string) (domain.RetrievalResult, error)
}

// Generator produces the final answer text from a system and user prompt.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// SessionAppender records finished turns in the session log.
type SessionAppender interface {
	AppendTurn(turn domain.Turn) error
}
