// ABOUTME: Retry helpers for outbound service calls with exponential backoff
// ABOUTME: Shared by the embedding and generation clients for consistent behavior
package util

import (
	"math/rand/v2"
	"time"
)

// maxBackoff caps a single wait between attempts.
const maxBackoff = 30 * time.Second

// Backoff returns the wait before the given retry attempt: exponential in
// the attempt number with random jitter of up to 25% either way.
func Backoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	// Cap the shift so it cannot overflow.
	if attempt > 30 {
		attempt = 30
	}
	wait := baseDelay * time.Duration(1<<uint(attempt))
	if wait > maxBackoff {
		wait = maxBackoff
	}
	if wait <= 0 {
		return 0
	}
	jitter := time.Duration(rand.Int64N(int64(wait)/2)) - wait/4
	return wait + jitter
}
