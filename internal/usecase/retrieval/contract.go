package retrieval

import (
	"context"

	"github.com/carneosk-source/carneo-ai-bot/internal/domain"
)

// CollectionSource hands out the knowledge collection for a domain.
type CollectionSource interface {
	Load(ctx context.Context, d domain.Domain) (domain.Collection, error)
}

// SessionReader looks up the most recent turn of a session for
// continuation rewriting.
type SessionReader interface {
	LastTurn(sessionID string) (domain.Turn, bool)
}
