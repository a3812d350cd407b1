package config

import (
	"log/slog"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration. Extend as needed.
type Config struct {
	// Server
	Port       int    `env:"PORT" envDefault:"8000"`
	HealthPort int    `env:"HEALTH_PORT" envDefault:"8081"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	// Input limits
	MaxTextLen      int   `env:"MAX_TEXT_LEN" envDefault:"100000"`       // runes, tokenize/normalize/spellcheck
	MaxChunkTextLen int   `env:"MAX_CHUNK_TEXT_LEN" envDefault:"500000"` // runes, chunking
	MaxUploadSize   int64 `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"`  // 10MB in bytes

	// Tokenizer
	TokenEncoding string `env:"TOKEN_ENCODING" envDefault:"cl100k_base"`

	// Chunking defaults applied when a request omits them
	ChunkMaxTokens int `env:"CHUNK_MAX_TOKENS" envDefault:"300"`
	ChunkOverlap   int `env:"CHUNK_OVERLAP" envDefault:"50"`

	// Store ("postgres" or "none" to run without document persistence)
	StoreProvider string `env:"STORE_PROVIDER" envDefault:"postgres"`
	DBURL         string `env:"DB_URL"`

	// Queue ("nats" or "none" to run without async ingestion)
	QueueProvider string `env:"QUEUE_PROVIDER" envDefault:"nats"`
	QueueURL      string `env:"QUEUE_URL"`

	// Cache ("redis" or "none"; redis falls back to a no-op cache when
	// the server is unreachable)
	CacheProvider string `env:"CACHE_PROVIDER" envDefault:"redis"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	CacheTTL      int    `env:"CACHE_TTL" envDefault:"300"` // seconds
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
