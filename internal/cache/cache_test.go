package cache

import (
	"context"
	"testing"
	"time"
)

func TestKeyStability(t *testing.T) {
	k1 := Key("chunk", "some document", 300, 50)
	k2 := Key("chunk", "some document", 300, 50)
	if k1 != k2 {
		t.Fatal("identical inputs must produce identical keys")
	}
	if len(k1) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(k1))
	}
}

func TestKeyDistinguishesInputs(t *testing.T) {
	base := Key("chunk", "some document", 300, 50)

	tests := []struct {
		name string
		key  string
	}{
		{"different text", Key("chunk", "other document", 300, 50)},
		{"different max tokens", Key("chunk", "some document", 400, 50)},
		{"different overlap", Key("chunk", "some document", 300, 0)},
		{"different operation", Key("tokenize", "some document", 300, 50)},
		{"params folded into text", Key("chunk", "300:50some document")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.key == base {
				t.Error("expected distinct key")
			}
		})
	}
}

func TestNoOpCache(t *testing.T) {
	c := NewNoOpCache()
	ctx := context.Background()

	result, err := c.GetChunkResult(ctx, "test-key")
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result (cache miss), got %v", result)
	}

	err = c.SetChunkResult(ctx, "test-key", &ChunkResult{
		Chunks: []string{"one chunk"},
		Count:  1,
	}, time.Hour)
	if err != nil {
		t.Errorf("expected no error on SetChunkResult, got %v", err)
	}

	// Still a miss: nothing was actually cached.
	result, err = c.GetChunkResult(ctx, "test-key")
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result, got %v", result)
	}

	if err := c.Close(); err != nil {
		t.Errorf("expected no error on Close, got %v", err)
	}
}
