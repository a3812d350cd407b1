package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

// Cache stores chunking results so repeated requests for the same document
// and parameters skip segmentation and token counting.
type Cache interface {
	// GetChunkResult retrieves a cached result by key. Returns nil on miss.
	GetChunkResult(ctx context.Context, key string) (*ChunkResult, error)

	// SetChunkResult stores a result with TTL.
	SetChunkResult(ctx context.Context, key string, result *ChunkResult, ttl time.Duration) error

	// Close closes the cache connection.
	Close() error
}

// ChunkResult is a cached chunking response.
type ChunkResult struct {
	Chunks []string `json:"chunks"`
	Count  int      `json:"count"`
}

// Key derives a stable cache key from the operation name, its numeric
// parameters, and the input text.
func Key(op, text string, params ...int) string {
	h := sha256.New()
	io.WriteString(h, op)
	for _, p := range params {
		fmt.Fprintf(h, ":%d", p)
	}
	io.WriteString(h, "\x00")
	io.WriteString(h, text)
	return hex.EncodeToString(h.Sum(nil))
}
