// Package clients provides HTTP client adapters for downstream services.
package clients

import "errors"

// Client errors represent failures in the HTTP client layer. They are
// infrastructure failures; the ACL adapters translate them to domain
// error kinds.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open and
	// the downstream service is considered unreachable.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded is returned after all retry attempts have
	// been exhausted. The original error is wrapped for context.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
