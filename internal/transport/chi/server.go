// Package chi holds the HTTP handlers for the assistant API: the public
// ask endpoint, health, and the admin log endpoints.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/carneosk-source/carneo-ai-bot/internal/domain"
	logpkg "github.com/carneosk-source/carneo-ai-bot/internal/logger"
	"github.com/carneosk-source/carneo-ai-bot/internal/repository/session"
	answeruc "github.com/carneosk-source/carneo-ai-bot/internal/usecase/answer"
	healthuc "github.com/carneosk-source/carneo-ai-bot/internal/usecase/health"
)

// ErrorCode identifies a failure class in API error responses.
type ErrorCode string

const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeForbidden        ErrorCode = "forbidden"
	CodeEmbeddingError   ErrorCode = "embedding_provider_error"
	CodeGenerationError  ErrorCode = "generation_provider_error"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SessionAdmin is the slice of the session store the admin endpoints need.
type SessionAdmin interface {
	List(opts session.ListOptions) ([]domain.Turn, error)
	Stats() (session.Stats, error)
	AppendRating(r domain.Rating) error
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements the HTTP handlers. Handlers log through the
// request-scoped logger seeded into the context by the access-log
// middleware.
type Server struct {
	answers       *answeruc.Service
	sessions      SessionAdmin
	health        *healthuc.Service
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(answers *answeruc.Service, sessions SessionAdmin, health *healthuc.Service) *Server {
	s := &Server{
		answers:  answers,
		sessions: sessions,
		health:   health,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrMissingQuestion, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidMode, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidRating, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingError),
		sentinelHandler(domain.ErrGenerationProviderError, http.StatusBadGateway, CodeGenerationError),
	}
	return s
}

type askRequest struct {
	Question  string `json:"question"`
	Mode      string `json:"mode"`
	SessionID string `json:"sessionId"`
}

// Ask handles POST /api/ask.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	resp, err := s.answers.Ask(r.Context(), answeruc.Request{
		Question:  req.Question,
		Mode:      domain.Mode(req.Mode),
		SessionID: req.SessionID,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// AdminLogs handles GET /api/admin/chat-logs.
func (s *Server) AdminLogs(w http.ResponseWriter, r *http.Request) {
	opts := session.ListOptions{
		Mode:   domain.Mode(r.URL.Query().Get("mode")),
		Search: r.URL.Query().Get("search"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, "limit must be a non-negative integer")
			return
		}
		opts.Limit = limit
	}

	turns, err := s.sessions.List(opts)
	if err != nil {
		logpkg.FromContext(r.Context()).Error("Failed to list session logs", zap.Error(err))
		writeError(w, http.StatusInternalServerError, CodeInternalError, "cannot read logs")
		return
	}

	writeJSON(w, http.StatusOK, turns)
}

// AdminStats handles GET /api/admin/stats.
func (s *Server) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.sessions.Stats()
	if err != nil {
		logpkg.FromContext(r.Context()).Error("Failed to compute session stats", zap.Error(err))
		writeError(w, http.StatusInternalServerError, CodeInternalError, "cannot compute stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

type rateRequest struct {
	SessionID string `json:"sessionId"`
	TS        string `json:"ts"`
	Rating    string `json:"rating"`
	Note      string `json:"note"`
}

// AdminRate handles POST /api/admin/rate.
func (s *Server) AdminRate(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.SessionID == "" || req.TS == "" || req.Rating == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "Missing sessionId / ts / rating")
		return
	}
	if req.Rating != "good" && req.Rating != "bad" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, `rating must be "good" or "bad"`)
		return
	}

	err := s.sessions.AppendRating(domain.Rating{
		Type:      domain.RatingKind,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		SessionID: req.SessionID,
		TargetTS:  req.TS,
		Rating:    req.Rating,
		Note:      req.Note,
	})
	if err != nil {
		logpkg.FromContext(r.Context()).Error("Failed to append rating", zap.Error(err))
		writeError(w, http.StatusInternalServerError, CodeInternalError, "cannot save rating")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrMissingQuestion,
		domain.ErrInvalidMode,
		domain.ErrInvalidRating,
		domain.ErrEmbeddingProviderError,
		domain.ErrGenerationProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
