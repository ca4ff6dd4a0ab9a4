package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/carneosk-source/carneo-ai-bot/internal/domain"
	logpkg "github.com/carneosk-source/carneo-ai-bot/internal/logger"
	"github.com/carneosk-source/carneo-ai-bot/internal/repository/session"
	answeruc "github.com/carneosk-source/carneo-ai-bot/internal/usecase/answer"
	healthuc "github.com/carneosk-source/carneo-ai-bot/internal/usecase/health"
)

type stubRetriever struct {
	result domain.RetrievalResult
	err    error
}

func (s *stubRetriever) Retrieve(_ context.Context, _ string, mode domain.Mode, _ string) (domain.RetrievalResult, error) {
	if s.err != nil {
		return domain.RetrievalResult{}, s.err
	}
	if !mode.Valid() {
		return domain.RetrievalResult{}, domain.ErrInvalidMode
	}
	return s.result, nil
}

type stubGenerator struct {
	answer string
	err    error
}

func (s *stubGenerator) Generate(context.Context, string, string) (string, error) {
	return s.answer, s.err
}

type stubSessions struct {
	turns   []domain.Turn
	ratings []domain.Rating
	list    []domain.Turn
	stats   session.Stats
}

func (s *stubSessions) AppendTurn(t domain.Turn) error { s.turns = append(s.turns, t); return nil }
func (s *stubSessions) AppendRating(r domain.Rating) error {
	s.ratings = append(s.ratings, r)
	return nil
}
func (s *stubSessions) List(session.ListOptions) ([]domain.Turn, error) { return s.list, nil }
func (s *stubSessions) Stats() (session.Stats, error)                   { return s.stats, nil }

func newTestServer(retr *stubRetriever, gen *stubGenerator, sess *stubSessions) *Server {
	answers := answeruc.NewService(retr, gen, sess, zap.NewNop())
	return NewServer(answers, sess, healthuc.New(nil, nil))
}

func TestAsk_OK(t *testing.T) {
	retr := &stubRetriever{result: domain.RetrievalResult{
		EffectiveMode: domain.ModeProduct,
		Domain:        domain.DomainProducts,
		Hits: []domain.Hit{{
			Document: domain.Document{ID: "p1", Text: "text", Meta: domain.Metadata{"name": "Carneo Adventure"}},
			Score:    0.4,
		}},
	}}
	sess := &stubSessions{}
	srv := newTestServer(retr, &stubGenerator{answer: "odpoveď"}, sess)

	body := `{"question": "pánske hodinky", "mode": "product", "sessionId": "sess-1"}`
	rec := httptest.NewRecorder()
	srv.Ask(rec, httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp answeruc.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "odpoveď", resp.Answer)
	require.Equal(t, "sess-1", resp.SessionID)
	require.Len(t, resp.Sources, 1)
	require.Len(t, sess.turns, 1)
}

func TestAsk_ValidationErrors(t *testing.T) {
	srv := newTestServer(&stubRetriever{}, &stubGenerator{}, &stubSessions{})

	tests := []struct {
		name string
		body string
		code ErrorCode
	}{
		{"invalid json", `{`, CodeBadRequest},
		{"blank question", `{"question": "  "}`, CodeValidationFailed},
		{"unknown mode", `{"question": "otázka", "mode": "banana"}`, CodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Ask(rec, httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(tt.body)))
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var errResp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			require.Equal(t, tt.code, errResp.Code)
		})
	}
}

func TestAsk_ProviderErrors(t *testing.T) {
	tests := []struct {
		name string
		retr *stubRetriever
		gen  *stubGenerator
		code ErrorCode
	}{
		{
			"embedding failure",
			&stubRetriever{err: domain.ErrEmbeddingProviderError},
			&stubGenerator{},
			CodeEmbeddingError,
		},
		{
			"generation failure",
			&stubRetriever{result: domain.RetrievalResult{EffectiveMode: domain.ModeProduct}},
			&stubGenerator{err: domain.ErrGenerationProviderError},
			CodeGenerationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(tt.retr, tt.gen, &stubSessions{})
			rec := httptest.NewRecorder()
			body := `{"question": "otázka", "mode": "product"}`
			srv.Ask(rec, httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(body)))

			require.Equal(t, http.StatusBadGateway, rec.Code)

			var errResp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			require.Equal(t, tt.code, errResp.Code)
		})
	}
}

func TestAsk_LogsThroughRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	srv := newTestServer(&stubRetriever{err: domain.ErrEmbeddingProviderError}, &stubGenerator{}, &stubSessions{})

	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"question": "otázka"}`))
	req = req.WithContext(logpkg.ContextWithLogger(req.Context(), zap.New(core)))
	srv.Ask(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.FilterMessage("domain error").Len())
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&stubRetriever{}, &stubGenerator{}, &stubSessions{})

	rec := httptest.NewRecorder()
	srv.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestAdminLogs(t *testing.T) {
	sess := &stubSessions{list: []domain.Turn{
		{Timestamp: "2026-08-28T10:00:00Z", SessionID: "s1", Question: "q"},
	}}
	srv := newTestServer(&stubRetriever{}, &stubGenerator{}, sess)

	rec := httptest.NewRecorder()
	srv.AdminLogs(rec, httptest.NewRequest(http.MethodGet, "/api/admin/chat-logs?mode=product&limit=10", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var turns []domain.Turn
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &turns))
	require.Len(t, turns, 1)
}

func TestAdminLogs_BadLimit(t *testing.T) {
	srv := newTestServer(&stubRetriever{}, &stubGenerator{}, &stubSessions{})

	rec := httptest.NewRecorder()
	srv.AdminLogs(rec, httptest.NewRequest(http.MethodGet, "/api/admin/chat-logs?limit=abc", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminStats(t *testing.T) {
	sess := &stubSessions{stats: session.Stats{Total: 3, ByMode: map[string]int{"product": 2, "order": 1}}}
	srv := newTestServer(&stubRetriever{}, &stubGenerator{}, sess)

	rec := httptest.NewRecorder()
	srv.AdminStats(rec, httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"total":3`)
}

func TestAdminRate(t *testing.T) {
	sess := &stubSessions{}
	srv := newTestServer(&stubRetriever{}, &stubGenerator{}, sess)

	body := `{"sessionId": "s1", "ts": "2026-08-28T10:00:00Z", "rating": "good", "note": "pekná odpoveď"}`
	rec := httptest.NewRecorder()
	srv.AdminRate(rec, httptest.NewRequest(http.MethodPost, "/api/admin/rate", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, sess.ratings, 1)
	require.Equal(t, domain.RatingKind, sess.ratings[0].Type)
	require.Equal(t, "2026-08-28T10:00:00Z", sess.ratings[0].TargetTS)
}

func TestAdminRate_Validation(t *testing.T) {
	srv := newTestServer(&stubRetriever{}, &stubGenerator{}, &stubSessions{})

	tests := []struct {
		name string
		body string
	}{
		{"missing fields", `{"sessionId": "s1"}`},
		{"bad rating value", `{"sessionId": "s1", "ts": "t", "rating": "excellent"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.AdminRate(rec, httptest.NewRequest(http.MethodPost, "/api/admin/rate", strings.NewReader(tt.body)))
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
