package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Save original env and restore after test
	originalEnv := os.Environ()
	defer func() {
		os.Clearenv()
		for _, env := range originalEnv {
			for i, c := range env {
				if c == '=' {
					os.Setenv(env[:i], env[i+1:])
					break
				}
			}
		}
	}()

	// Clear env to test defaults
	os.Clearenv()

	cfg := Load()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Port", cfg.Port, 8000},
		{"HealthPort", cfg.HealthPort, 8081},
		{"LogLevel", cfg.LogLevel, "info"},
		{"MaxTextLen", cfg.MaxTextLen, 100000},
		{"MaxChunkTextLen", cfg.MaxChunkTextLen, 500000},
		{"TokenEncoding", cfg.TokenEncoding, "cl100k_base"},
		{"ChunkMaxTokens", cfg.ChunkMaxTokens, 300},
		{"ChunkOverlap", cfg.ChunkOverlap, 50},
		{"StoreProvider", cfg.StoreProvider, "postgres"},
		{"QueueProvider", cfg.QueueProvider, "nats"},
		{"CacheProvider", cfg.CacheProvider, "redis"},
		{"CacheTTL", cfg.CacheTTL, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %s=%v, got %v", tt.name, tt.expected, tt.got)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	// Save and restore env
	originalPort := os.Getenv("PORT")
	originalEncoding := os.Getenv("TOKEN_ENCODING")
	defer func() {
		os.Setenv("PORT", originalPort)
		os.Setenv("TOKEN_ENCODING", originalEncoding)
	}()

	os.Setenv("PORT", "9090")
	os.Setenv("TOKEN_ENCODING", "o200k_base")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.TokenEncoding != "o200k_base" {
		t.Errorf("expected encoding 'o200k_base', got %s", cfg.TokenEncoding)
	}
}

func TestLoadProviderOverrides(t *testing.T) {
	originalStore := os.Getenv("STORE_PROVIDER")
	originalQueue := os.Getenv("QUEUE_PROVIDER")
	defer func() {
		os.Setenv("STORE_PROVIDER", originalStore)
		os.Setenv("QUEUE_PROVIDER", originalQueue)
	}()

	os.Setenv("STORE_PROVIDER", "none")
	os.Setenv("QUEUE_PROVIDER", "none")

	cfg := Load()

	if cfg.StoreProvider != "none" {
		t.Errorf("expected store provider 'none', got %s", cfg.StoreProvider)
	}
	if cfg.QueueProvider != "none" {
		t.Errorf("expected queue provider 'none', got %s", cfg.QueueProvider)
	}
}
