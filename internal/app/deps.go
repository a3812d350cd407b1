package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"nlp-sidecar/internal/cache"
	"nlp-sidecar/internal/chunker"
	"nlp-sidecar/internal/config"
	"nlp-sidecar/internal/logger"
	"nlp-sidecar/internal/queue"
	"nlp-sidecar/internal/store"
	"nlp-sidecar/internal/textproc"
)

// Deps bundles common runtime dependencies for services. Store and Queue
// are nil when their providers are set to "none"; callers that need them
// must check.
type Deps struct {
	Config  config.Config
	Log     *slog.Logger
	Store   store.Store
	Queue   queue.Queue
	Cache   cache.Cache
	Text    textproc.Toolkit
	Chunker *chunker.Chunker
}

// Build loads env, config, and shared components.
func Build() (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	tk, err := textproc.NewTiktoken(cfg.TokenEncoding)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize toolkit: %w", err)
	}
	log.Info("using tiktoken toolkit", "encoding", tk.Encoding())

	st, err := buildStore(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize store: %w", err)
	}
	q, err := buildQueue(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize queue: %w", err)
	}
	c := buildCache(cfg, log)

	return Deps{
		Config:  cfg,
		Log:     log,
		Store:   st,
		Queue:   q,
		Cache:   c,
		Text:    tk,
		Chunker: chunker.New(tk),
	}, nil
}

func buildStore(cfg config.Config, log *slog.Logger) (store.Store, error) {
	switch cfg.StoreProvider {
	case "postgres":
		if cfg.DBURL == "" {
			return nil, fmt.Errorf("DB_URL is required when STORE_PROVIDER=postgres")
		}
		db, err := store.NewPostgres(cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres: %w", err)
		}
		log.Info("using Postgres store")
		return db, nil
	case "none":
		log.Info("document persistence disabled")
		return nil, nil
	default:
		return nil, fmt.Errorf("invalid STORE_PROVIDER: %s (valid options: postgres, none)", cfg.StoreProvider)
	}
}

func buildQueue(cfg config.Config, log *slog.Logger) (queue.Queue, error) {
	switch cfg.QueueProvider {
	case "nats":
		if cfg.QueueURL == "" {
			return nil, fmt.Errorf("QUEUE_URL is required when QUEUE_PROVIDER=nats")
		}
		nc, err := nats.Connect(cfg.QueueURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		log.Info("using NATS queue")
		return queue.NewNATS(log, nc), nil
	case "none":
		log.Info("async ingestion disabled")
		return nil, nil
	default:
		return nil, fmt.Errorf("invalid QUEUE_PROVIDER: %s (valid options: nats, none)", cfg.QueueProvider)
	}
}

// buildCache never fails: an unreachable Redis degrades to the no-op
// cache so the sidecar keeps serving.
func buildCache(cfg config.Config, log *slog.Logger) cache.Cache {
	switch cfg.CacheProvider {
	case "redis":
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Warn("redis unavailable; caching disabled", "err", err)
			return cache.NewNoOpCache()
		}
		log.Info("using Redis cache", "addr", cfg.RedisAddr)
		return c
	default:
		return cache.NewNoOpCache()
	}
}
