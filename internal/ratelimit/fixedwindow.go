package ratelimit

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Defaults applied when a Config field is zero or negative.
const (
	DefaultWindow = time.Minute
	DefaultMax    = 5
)

// sweepProbability is the chance that any given Check performs a full sweep of
// expired entries. Amortized cleanup instead of a background timer: with no
// traffic there is nothing to clean, and under traffic roughly every tenth
// request pays for it.
const sweepProbability = 0.1

// Config holds the fixed-window parameters. Zero or negative values fall back
// to DefaultWindow and DefaultMax, matching callers that omit configuration.
type Config struct {
	Window time.Duration
	Max    int
}

// FixedWindow is an in-memory fixed-window request counter. Each key gets one
// counter per window; the count resets entirely at the window boundary rather
// than sliding. Expired entries are replaced lazily on access and purged
// opportunistically by the probabilistic sweep.
type FixedWindow struct {
	window time.Duration
	max    int

	mu      sync.Mutex
	entries map[string]*windowEntry

	// Injectable for tests.
	now       func() time.Time
	randFloat func() float64
}

// windowEntry tracks one key's requests in its current window. The entry is
// logically absent once resetAt has passed.
type windowEntry struct {
	count   int
	resetAt time.Time
}

// NewFixedWindow creates a fixed-window limiter. Non-positive config values
// fall back to the defaults (1 minute, 5 requests) rather than erroring, so a
// zero Max means "default", not "deny everything".
func NewFixedWindow(cfg Config) *FixedWindow {
	window := cfg.Window
	if window <= 0 {
		window = DefaultWindow
	}
	max := cfg.Max
	if max <= 0 {
		max = DefaultMax
	}
	return &FixedWindow{
		window:    window,
		max:       max,
		entries:   make(map[string]*windowEntry),
		now:       time.Now,
		randFloat: rand.Float64,
	}
}

// Check records a request for key and reports whether it is within quota.
// The request that brings the count to exactly the limit is still allowed;
// the next one in the same window is the first rejected.
func (f *FixedWindow) Check(key string) Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()

	if f.randFloat() < sweepProbability {
		f.sweepLocked(now)
	}

	e, ok := f.entries[key]
	if !ok || now.After(e.resetAt) {
		e = &windowEntry{resetAt: now.Add(f.window)}
		f.entries[key] = e
	}
	e.count++

	remaining := f.max - e.count
	if remaining < 0 {
		remaining = 0
	}

	result := Result{
		Allowed:   e.count <= f.max,
		Limit:     f.max,
		Remaining: remaining,
		ResetAt:   e.resetAt,
	}
	if !result.Allowed {
		result.RetryAfter = ceilSeconds(e.resetAt.Sub(now))
	}
	return result
}

// sweepLocked removes every expired entry. Caller must hold f.mu.
func (f *FixedWindow) sweepLocked(now time.Time) {
	for key, e := range f.entries {
		if now.After(e.resetAt) {
			delete(f.entries, key)
		}
	}
}

// ceilSeconds rounds a duration up to whole seconds for Retry-After.
func ceilSeconds(d time.Duration) time.Duration {
	secs := d / time.Second
	if d%time.Second != 0 {
		secs++
	}
	return secs * time.Second
}
