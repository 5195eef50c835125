// Package ratelimit provides per-client rate limiting for HTTP requests using
// a fixed-window counter. It includes best-effort client identification from
// proxy headers and HTTP middleware that sets standard rate limit response
// headers.
//
// Counters are per-process and in-memory: they reset on restart and are not
// shared across instances, so the effective global limit in a multi-instance
// deployment is max times the instance count. That tradeoff is accepted for
// this service.
package ratelimit

import "time"

// Limiter defines the rate limiting contract. Implementations must be safe
// for concurrent use.
type Limiter interface {
	// Check records a request for the given key and reports whether it is
	// allowed, along with state for populating response headers.
	Check(key string) Result
}

// Result contains rate limit state for a single checked request.
type Result struct {
	Allowed    bool          // Whether the request is within quota
	Limit      int           // Maximum requests per window
	Remaining  int           // Requests left in the current window (never negative)
	ResetAt    time.Time     // When the current window expires
	RetryAfter time.Duration // Whole seconds to wait, rounded up (meaningful only when denied)
}
