// Package retrieval implements the search side of the assistant: mode
// resolution, continuation rewriting, vector ranking and the category
// lockdown filter, in that order.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/carneosk-source/carneo-ai-bot/internal/domain"
	"github.com/carneosk-source/carneo-ai-bot/internal/domain/segment"
	"github.com/carneosk-source/carneo-ai-bot/internal/metrics"
)

// Config carries the ranking knobs.
type Config struct {
	TopK     int
	MinScore float64
}

// Service runs the retrieval pipeline for one question.
type Service struct {
	collections CollectionSource
	sessions    SessionReader
	embedder    domain.Embedder
	cfg         Config
	logger      *zap.Logger
}

// NewService creates a retrieval service.
func NewService(
	collections CollectionSource,
	sessions SessionReader,
	embedder domain.Embedder,
	cfg Config,
	logger *zap.Logger,
) *Service {
	return &Service{
		collections: collections,
		sessions:    sessions,
		embedder:    embedder,
		cfg:         cfg,
		logger:      logger,
	}
}

// Retrieve resolves the mode and domain for the question, embeds the
// (possibly rewritten) query and returns the ranked, lockdown-filtered
// hits. An empty collection short-circuits before the embedding call.
func (s *Service) Retrieve(ctx context.Context, question string, modeHint domain.Mode, sessionID string) (domain.RetrievalResult, error) {
	if strings.TrimSpace(question) == "" {
		return domain.RetrievalResult{}, domain.ErrMissingQuestion
	}
	if !modeHint.Valid() {
		return domain.RetrievalResult{}, fmt.Errorf("mode %q: %w", modeHint, domain.ErrInvalidMode)
	}

	mode := DetectMode(question, modeHint)
	d := domain.DomainFor(mode)

	result := domain.RetrievalResult{
		EffectiveMode: mode,
		Domain:        d,
	}

	coll, err := s.collections.Load(ctx, d)
	if err != nil {
		return domain.RetrievalResult{}, fmt.Errorf("load collection %s: %w", d, err)
	}
	if coll.Empty() {
		s.logger.Warn("Collection is empty, skipping search", zap.String("domain", string(d)))
		result.Query = question
		return result, nil
	}

	query := s.composeQuery(question, mode, sessionID)
	result.Query = query

	emb, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return domain.RetrievalResult{}, fmt.Errorf("embed query: %w", err)
	}

	ranked := Rank(coll, emb.Embedding, s.cfg.TopK, s.cfg.MinScore)

	intent := segment.DetectIntent(question)
	hits := segment.Lockdown(ranked, intent)
	if dropped := len(ranked) - len(hits); dropped > 0 {
		metrics.LockdownDropsTotal.WithLabelValues(string(d)).Add(float64(dropped))
	}
	metrics.RetrievalHits.WithLabelValues(string(d)).Observe(float64(len(hits)))

	s.logger.Debug("Retrieval finished",
		zap.String("domain", string(d)),
		zap.String("mode", string(mode)),
		zap.Int("ranked", len(ranked)),
		zap.Int("hits", len(hits)),
	)

	result.Hits = hits
	return result, nil
}

// composeQuery applies the continuation rewrite when the question is a
// follow-up and the session's previous turn named a product.
func (s *Service) composeQuery(question string, mode domain.Mode, sessionID string) string {
	continuation := IsContinuation(question)
	var last domain.Turn
	if continuation && sessionID != "" && s.sessions != nil {
		if turn, ok := s.sessions.LastTurn(sessionID); ok {
			last = turn
		}
	}

	query := ComposeQuery(question, mode, last, continuation)
	if continuation && len(last.RetrievedDocs) > 0 && last.RetrievedDocs[0].Name != "" {
		metrics.ContinuationRewritesTotal.Inc()
		s.logger.Debug("Continuation rewrite applied",
			zap.String("session_id", sessionID),
			zap.String("product", last.RetrievedDocs[0].Name),
		)
	}
	return query
}
