// Package answer orchestrates one /api/ask turn: retrieval, prompt
// assembly, generation and session logging.
package answer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carneosk-source/carneo-ai-bot/internal/domain"
)

// Request is one customer question.
type Request struct {
	Question  string
	Mode      domain.Mode
	SessionID string
}

// Source is one cited document in the response.
type Source struct {
	ID   string `json:"id"`
	Name string `json:"file"`
	URL  string `json:"url,omitempty"`
}

// Response is the generated answer plus its sources and the session id
// the client should keep sending.
type Response struct {
	Answer    string   `json:"answer"`
	SessionID string   `json:"sessionId"`
	Sources   []Source `json:"sources"`
}

// Service answers customer questions.
type Service struct {
	retriever Retriever
	generator Generator
	sessions  SessionAppender
	logger    *zap.Logger
}

// NewService creates an answer service.
func NewService(retriever Retriever, generator Generator, sessions SessionAppender, logger *zap.Logger) *Service {
	return &Service{
		retriever: retriever,
		generator: generator,
		sessions:  sessions,
		logger:    logger,
	}
}

// Ask runs the full pipeline for one question. Failed turns are still
// appended to the session log with the error recorded, so the admin view
// shows them.
func (s *Service) Ask(ctx context.Context, req Request) (Response, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return Response{}, domain.ErrMissingQuestion
	}

	sid := strings.TrimSpace(req.SessionID)
	if sid == "" {
		sid = "srv-" + uuid.NewString()
	}

	result, err := s.retriever.Retrieve(ctx, question, req.Mode, sid)
	if err != nil {
		s.logFailedTurn(sid, question, req.Mode, err)
		return Response{}, fmt.Errorf("retrieve: %w", err)
	}

	system := systemPrompt(result.EffectiveMode)
	user := userPrompt(question, result.EffectiveMode, result.Hits)

	reply, err := s.generator.Generate(ctx, system, user)
	if err != nil {
		s.logFailedTurn(sid, question, req.Mode, err)
		return Response{}, fmt.Errorf("generate: %w", err)
	}

	turn := domain.Turn{
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		SessionID:      sid,
		Question:       question,
		Answer:         reply,
		ModeFromClient: req.Mode,
		EffectiveMode:  result.EffectiveMode,
		Domain:         result.Domain,
		RetrievedDocs:  retrievedDocs(result.Hits),
	}
	if err := s.sessions.AppendTurn(turn); err != nil {
		s.logger.Error("Failed to append session turn", zap.String("session_id", sid), zap.Error(err))
	}

	return Response{
		Answer:    reply,
		SessionID: sid,
		Sources:   sources(result.Hits),
	}, nil
}

func (s *Service) logFailedTurn(sid, question string, mode domain.Mode, cause error) {
	turn := domain.Turn{
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		SessionID:      sid,
		Question:       question,
		ModeFromClient: mode,
		Error:          cause.Error(),
	}
	if err := s.sessions.AppendTurn(turn); err != nil {
		s.logger.Error("Failed to append error turn", zap.String("session_id", sid), zap.Error(err))
	}
}

func retrievedDocs(hits []domain.Hit) []domain.RetrievedDoc {
	docs := make([]domain.RetrievedDoc, 0, len(hits))
	for _, h := range hits {
		docs = append(docs, domain.RetrievedDoc{
			ID:    h.Document.ID,
			Name:  h.Document.Meta.Name(),
			URL:   h.Document.Meta.URL(),
			Score: h.Score,
		})
	}
	return docs
}

func sources(hits []domain.Hit) []Source {
	out := make([]Source, 0, len(hits))
	for _, h := range hits {
		out = append(out, Source{
			ID:   h.Document.ID,
			Name: h.Document.Meta.Name(),
			URL:  h.Document.Meta.URL(),
		})
	}
	return out
}
