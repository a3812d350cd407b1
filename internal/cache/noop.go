package cache

import (
	"context"
	"time"
)

// NoOpCache is a cache implementation that does nothing. Used as a
// fallback when Redis is unavailable - all operations succeed but no
// actual caching occurs (always cache miss).
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache instance.
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// GetChunkResult always returns nil (cache miss).
func (c *NoOpCache) GetChunkResult(ctx context.Context, key string) (*ChunkResult, error) {
	return nil, nil
}

// SetChunkResult does nothing and always succeeds.
func (c *NoOpCache) SetChunkResult(ctx context.Context, key string, result *ChunkResult, ttl time.Duration) error {
	return nil
}

// Close does nothing and always succeeds.
func (c *NoOpCache) Close() error {
	return nil
}
