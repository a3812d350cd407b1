package retry

import "time"

// maxShift caps the exponent so the delay never overflows a Duration.
const maxShift = 20

// ExponentialBackoff returns delay based on attempt number.
// The delay doubles with each attempt: base * 2^attempt.
func ExponentialBackoff(attempt int, base time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > maxShift {
		attempt = maxShift
	}
	return base * (1 << attempt)
}
