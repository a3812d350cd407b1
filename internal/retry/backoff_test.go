package retry

import (
	"testing"
	"time"
)

func TestExponentialBackoff(t *testing.T) {
	base := 100 * time.Millisecond

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{4, 1600 * time.Millisecond},
	}

	for _, tt := range tests {
		result := ExponentialBackoff(tt.attempt, base)
		if result != tt.expected {
			t.Errorf("attempt %d: got %v, want %v", tt.attempt, result, tt.expected)
		}
	}
}

func TestExponentialBackoffBounds(t *testing.T) {
	base := time.Millisecond

	if got := ExponentialBackoff(-1, base); got != base {
		t.Errorf("negative attempt: got %v, want %v", got, base)
	}
	if got := ExponentialBackoff(1000, base); got != base*(1<<maxShift) {
		t.Errorf("huge attempt: got %v, want %v", got, base*(1<<maxShift))
	}
}
