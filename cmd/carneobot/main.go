package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/carneosk-source/carneo-ai-bot/internal/config"
	"github.com/carneosk-source/carneo-ai-bot/internal/db"
	dbRedis "github.com/carneosk-source/carneo-ai-bot/internal/db/redis"
	"github.com/carneosk-source/carneo-ai-bot/internal/domain"
	logpkg "github.com/carneosk-source/carneo-ai-bot/internal/logger"
	"github.com/carneosk-source/carneo-ai-bot/internal/metrics"
	collectionrepo "github.com/carneosk-source/carneo-ai-bot/internal/repository/collection"
	"github.com/carneosk-source/carneo-ai-bot/internal/repository/embcache"
	sessionrepo "github.com/carneosk-source/carneo-ai-bot/internal/repository/session"
	chiTransport "github.com/carneosk-source/carneo-ai-bot/internal/transport/chi"
	openaiTransport "github.com/carneosk-source/carneo-ai-bot/internal/transport/openai"
	answeruc "github.com/carneosk-source/carneo-ai-bot/internal/usecase/answer"
	healthuc "github.com/carneosk-source/carneo-ai-bot/internal/usecase/health"
	retrievaluc "github.com/carneosk-source/carneo-ai-bot/internal/usecase/retrieval"
	"github.com/carneosk-source/carneo-ai-bot/internal/version"
)

func main() {
	// .env is optional, real deployments use the environment directly
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting carneo-ai-bot",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("data_dir", cfg.Data.Dir),
	)

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRetrievalMetrics()

	// Optional Redis embedding cache. Empty addrs runs without one.
	var store db.Store
	if len(cfg.Cache.Addrs) > 0 {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		ctx := context.Background()
		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to embedding cache", zap.Strings("addrs", cfg.Cache.Addrs))
	} else {
		logger.Info("Embedding cache disabled")
	}

	providerCfg := &openaiTransport.Config{
		APIKey:         cfg.OpenAI.APIKey,
		BaseURL:        cfg.OpenAI.BaseURL,
		EmbeddingModel: cfg.OpenAI.EmbeddingModel,
		ChatModel:      cfg.OpenAI.ChatModel,
		Temperature:    cfg.OpenAI.Temperature,
		Logger:         logger,
	}

	base := openaiTransport.NewEmbedder(providerCfg)
	var embedder domain.Embedder = base
	if store != nil {
		embedder = embcache.New(
			base, store,
			time.Duration(cfg.Cache.TTLHours)*time.Hour,
			metrics.EmbeddingCacheTotal, logger,
		)
	}

	generator := openaiTransport.NewGenerator(providerCfg)

	registry := collectionrepo.NewRegistry(collectionrepo.Sources{
		GeneralPath:     cfg.Data.Path(cfg.Data.GeneralFile),
		ProductsPath:    cfg.Data.Path(cfg.Data.ProductsFile),
		TechManualsPath: cfg.Data.Path(cfg.Data.TechManualsFile),
		TechMailPath:    cfg.Data.Path(cfg.Data.TechMailFile),
	}, logger)

	sessions, err := sessionrepo.New(cfg.Data.Path(cfg.Data.ChatLogFile), cfg.Session.KeepTurns, logger)
	if err != nil {
		logger.Fatal("Failed to open session log", zap.Error(err))
	}

	retrievalSvc := retrievaluc.NewService(registry, sessions, embedder, retrievaluc.Config{
		TopK:     cfg.Retrieval.TopK,
		MinScore: cfg.Retrieval.MinScore,
	}, logger)
	answerSvc := answeruc.NewService(retrievalSvc, generator, sessions, logger)

	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(cachePinger, base)

	server := chiTransport.NewServer(answerSvc, sessions, healthSvc)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())

	r.Get("/health", server.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/api/ask", server.Ask)
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(chiTransport.AdminKeyMiddleware(cfg.Admin.Key))
		r.Get("/chat-logs", server.AdminLogs)
		r.Get("/stats", server.AdminStats)
		r.Post("/rate", server.AdminRate)
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_addr", r.RemoteAddr),
			)
		})
	}
}
