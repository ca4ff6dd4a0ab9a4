package carneobot

import (
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/carneosk-source/carneo-ai-bot/internal/db"
	dbRedis "github.com/carneosk-source/carneo-ai-bot/internal/db/redis"
	collectionrepo "github.com/carneosk-source/carneo-ai-bot/internal/repository/collection"
)

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	sources        collectionrepo.Sources
	embedder       Embedder
	openAIKey      string
	openAIBaseURL  string
	embeddingModel string
	cacheStore     db.Store
	cacheTTL       time.Duration
	sessionLogPath string
	keepTurns      int
	topK           int
	minScore       float64
	logger         *zap.Logger
}

// WithDataDir points the client at a directory holding the standard
// collection files (index.json, carneo-products-index.json,
// tech-index.json, tech-emails.jsonl).
func WithDataDir(dir string) Option {
	return func(c *clientConfig) {
		c.sources = collectionrepo.Sources{
			GeneralPath:     filepath.Join(dir, "index.json"),
			ProductsPath:    filepath.Join(dir, "carneo-products-index.json"),
			TechManualsPath: filepath.Join(dir, "tech-index.json"),
			TechMailPath:    filepath.Join(dir, "tech-emails.jsonl"),
		}
	}
}

// WithSources sets the collection source paths explicitly. Empty paths
// yield empty collections.
func WithSources(general, products, techManuals, techMail string) Option {
	return func(c *clientConfig) {
		c.sources = collectionrepo.Sources{
			GeneralPath:     general,
			ProductsPath:    products,
			TechManualsPath: techManuals,
			TechMailPath:    techMail,
		}
	}
}

// WithEmbedder plugs in a custom embedding provider.
func WithEmbedder(e Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = e
	}
}

// WithOpenAI uses the OpenAI embeddings API with the given key and model.
// An empty model falls back to text-embedding-3-small; baseURL is optional
// and covers compatible providers.
func WithOpenAI(apiKey, baseURL, model string) Option {
	return func(c *clientConfig) {
		c.openAIKey = apiKey
		c.openAIBaseURL = baseURL
		if model == "" {
			model = "text-embedding-3-small"
		}
		c.embeddingModel = model
	}
}

// WithRedisCache caches query embeddings in Redis with the given expiry.
func WithRedisCache(addrs []string, password string, ttl time.Duration) Option {
	return func(c *clientConfig) {
		store, err := dbRedis.NewStore(dbRedis.Config{Addrs: addrs, Password: password})
		if err != nil {
			// Cache stays disabled; retrieval works without it.
			return
		}
		c.cacheStore = store
		c.cacheTTL = ttl
	}
}

// WithSessionLog enables session continuity backed by the given JSONL
// file, keeping the most recent keepTurns turns per session in memory.
func WithSessionLog(path string, keepTurns int) Option {
	return func(c *clientConfig) {
		c.sessionLogPath = path
		if keepTurns > 0 {
			c.keepTurns = keepTurns
		}
	}
}

// WithRanking overrides the top-k and minimum score defaults (6, 0.18).
func WithRanking(topK int, minScore float64) Option {
	return func(c *clientConfig) {
		if topK > 0 {
			c.topK = topK
		}
		c.minScore = minScore
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}
