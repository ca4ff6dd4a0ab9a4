// Package carneobot is the in-process SDK for the assistant's retrieval
// pipeline: domain-scoped vector search over the Carneo knowledge
// collections with score thresholding and category lockdown. The HTTP
// server in cmd/carneobot is a thin layer over the same internals.
package carneobot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/carneosk-source/carneo-ai-bot/internal/domain"
	collectionrepo "github.com/carneosk-source/carneo-ai-bot/internal/repository/collection"
	"github.com/carneosk-source/carneo-ai-bot/internal/repository/embcache"
	sessionrepo "github.com/carneosk-source/carneo-ai-bot/internal/repository/session"
	openaiTransport "github.com/carneosk-source/carneo-ai-bot/internal/transport/openai"
	retrievaluc "github.com/carneosk-source/carneo-ai-bot/internal/usecase/retrieval"
)

// Embedder vectorizes query text. Implement it to plug in a custom
// provider; WithOpenAI covers the common case.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Hit is one retrieved document.
type Hit struct {
	ID    string
	Name  string
	URL   string
	Text  string
	Score float64
}

// Result is the outcome of one retrieval.
type Result struct {
	Hits   []Hit
	Mode   string
	Domain string
	Query  string
}

// Client runs the retrieval pipeline in-process.
type Client struct {
	retrieval *retrievaluc.Service
	sessions  *sessionrepo.Store
	logger    *zap.Logger
}

// New creates a Client. A data directory (or explicit sources) and an
// embedder are required.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		topK:      6,
		minScore:  0.18,
		keepTurns: 20,
		logger:    zap.NewNop(),
	}
	for _, o := range opts {
		o(cfg)
	}

	if cfg.sources == (collectionrepo.Sources{}) {
		return nil, errors.New("carneobot: data sources required (use WithDataDir or WithSources)")
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	registry := collectionrepo.NewRegistry(cfg.sources, cfg.logger)

	var sessions *sessionrepo.Store
	var reader retrievaluc.SessionReader
	if cfg.sessionLogPath != "" {
		sessions, err = sessionrepo.New(cfg.sessionLogPath, cfg.keepTurns, cfg.logger)
		if err != nil {
			return nil, fmt.Errorf("carneobot: open session log: %w", err)
		}
		reader = sessions
	}

	svc := retrievaluc.NewService(registry, reader, embedder, retrievaluc.Config{
		TopK:     cfg.topK,
		MinScore: cfg.minScore,
	}, cfg.logger)

	return &Client{retrieval: svc, sessions: sessions, logger: cfg.logger}, nil
}

func buildEmbedder(cfg *clientConfig) (domain.Embedder, error) {
	var embedder domain.Embedder
	switch {
	case cfg.embedder != nil:
		embedder = &embedderAdapter{inner: cfg.embedder}
	case cfg.openAIKey != "":
		embedder = openaiTransport.NewEmbedder(&openaiTransport.Config{
			APIKey:         cfg.openAIKey,
			BaseURL:        cfg.openAIBaseURL,
			EmbeddingModel: cfg.embeddingModel,
			Logger:         cfg.logger,
		})
	default:
		return nil, errors.New("carneobot: embedder required (use WithEmbedder or WithOpenAI)")
	}

	if cfg.cacheStore != nil {
		embedder = embcache.New(embedder, cfg.cacheStore, cfg.cacheTTL, nil, cfg.logger)
	}
	return embedder, nil
}

// Retrieve runs the pipeline for a question. mode is "product", "order",
// "tech" or empty for auto-detection; sessionID enables continuation
// rewriting when a session log is configured.
func (c *Client) Retrieve(ctx context.Context, question, mode, sessionID string) (Result, error) {
	res, err := c.retrieval.Retrieve(ctx, question, domain.Mode(mode), sessionID)
	if err != nil {
		return Result{}, err
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, Hit{
			ID:    h.Document.ID,
			Name:  h.Document.Meta.Name(),
			URL:   h.Document.Meta.URL(),
			Text:  h.Document.Text,
			Score: h.Score,
		})
	}

	return Result{
		Hits:   hits,
		Mode:   string(res.EffectiveMode),
		Domain: string(res.Domain),
		Query:  res.Query,
	}, nil
}

// LogTurn appends a finished turn to the session log so later questions
// in the same session can be rewritten against it. No-op without a
// configured session log.
func (c *Client) LogTurn(sessionID, question, answer string, hits []Hit) error {
	if c.sessions == nil {
		return nil
	}

	docs := make([]domain.RetrievedDoc, 0, len(hits))
	for _, h := range hits {
		docs = append(docs, domain.RetrievedDoc{ID: h.ID, Name: h.Name, URL: h.URL, Score: h.Score})
	}

	return c.sessions.AppendTurn(domain.Turn{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		SessionID:     sessionID,
		Question:      question,
		Answer:        answer,
		RetrievedDocs: docs,
	})
}

// embedderAdapter lifts the public Embedder onto the internal contract.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	vec, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{Embedding: vec}, nil
}
