package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestLimiter returns a limiter with a controllable clock and the sweep
// disabled, plus a pointer to advance the clock.
func newTestLimiter(cfg Config) (*FixedWindow, *time.Time) {
	l := NewFixedWindow(cfg)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	l.randFloat = func() float64 { return 1.0 } // never below sweepProbability
	return l, &now
}

func TestFixedWindow_Defaults(t *testing.T) {
	l := NewFixedWindow(Config{})

	result := l.Check("1.2.3.4")
	assert.True(t, result.Allowed)
	assert.Equal(t, DefaultMax, result.Limit)
	assert.Equal(t, DefaultMax-1, result.Remaining)
	assert.False(t, result.ResetAt.IsZero())
}

func TestFixedWindow_ZeroMaxFallsBackToDefault(t *testing.T) {
	// A zero quota means "not configured", not "deny everything".
	l := NewFixedWindow(Config{Max: 0, Window: 0})

	for i := 0; i < DefaultMax; i++ {
		result := l.Check("key")
		assert.True(t, result.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, DefaultMax, result.Limit)
	}
	result := l.Check("key")
	assert.False(t, result.Allowed)
}

func TestFixedWindow_NegativeConfigFallsBackToDefault(t *testing.T) {
	l := NewFixedWindow(Config{Max: -3, Window: -time.Second})

	result := l.Check("key")
	assert.Equal(t, DefaultMax, result.Limit)
	assert.Equal(t, DefaultWindow, l.window)
}

func TestFixedWindow_WindowBoundary(t *testing.T) {
	l, _ := newTestLimiter(Config{Window: time.Minute, Max: 3})

	// Requests 1..max are allowed, with remaining counting down to zero.
	for i := 1; i <= 3; i++ {
		result := l.Check("client")
		assert.True(t, result.Allowed, "request %d", i)
		assert.Equal(t, 3-i, result.Remaining, "request %d", i)
		assert.Zero(t, result.RetryAfter)
	}

	// The (max+1)-th request in the window is the first rejected one.
	result := l.Check("client")
	assert.False(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
	assert.Greater(t, result.RetryAfter, time.Duration(0))
}

func TestFixedWindow_RetryAfterCeilSeconds(t *testing.T) {
	l, now := newTestLimiter(Config{Window: time.Minute, Max: 1})

	first := l.Check("client")
	require.True(t, first.Allowed)

	// 30.5s into the window: 29.5s remain, Retry-After rounds up to 30.
	*now = now.Add(30*time.Second + 500*time.Millisecond)
	result := l.Check("client")
	require.False(t, result.Allowed)
	assert.Equal(t, 30*time.Second, result.RetryAfter)
}

func TestFixedWindow_WindowReset(t *testing.T) {
	l, now := newTestLimiter(Config{Window: time.Minute, Max: 2})

	start := *now
	l.Check("client")
	l.Check("client")
	denied := l.Check("client")
	require.False(t, denied.Allowed)
	assert.Equal(t, start.Add(time.Minute), denied.ResetAt)

	// Just past the window: count resets to 1 and a fresh window begins.
	*now = start.Add(time.Minute + time.Millisecond)
	result := l.Check("client")
	assert.True(t, result.Allowed)
	assert.Equal(t, 1, result.Remaining)
	assert.Equal(t, now.Add(time.Minute), result.ResetAt)
}

func TestFixedWindow_ExactResetTimeStillCounts(t *testing.T) {
	// An entry expires strictly after its reset time, so a request landing on
	// the exact boundary still belongs to the old window.
	l, now := newTestLimiter(Config{Window: time.Minute, Max: 1})

	start := *now
	l.Check("client")

	*now = start.Add(time.Minute)
	result := l.Check("client")
	assert.False(t, result.Allowed)
}

func TestFixedWindow_PerKeyIsolation(t *testing.T) {
	l, _ := newTestLimiter(Config{Window: time.Minute, Max: 1})

	first := l.Check("a")
	denied := l.Check("a")
	require.True(t, first.Allowed)
	require.False(t, denied.Allowed)

	// Key b has its own counter and reset time.
	result := l.Check("b")
	assert.True(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
}

func TestFixedWindow_SweepRemovesExpiredEntries(t *testing.T) {
	l, now := newTestLimiter(Config{Window: time.Minute, Max: 5})

	l.Check("old-1")
	l.Check("old-2")

	// 70s later the old entries are expired; "fresh" opens a new window.
	*now = now.Add(70 * time.Second)
	l.Check("fresh")

	*now = now.Add(20 * time.Second) // fresh's window still open
	l.randFloat = func() float64 { return 0.0 }
	l.Check("trigger")

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.entries, "old-1")
	assert.NotContains(t, l.entries, "old-2")
	assert.Contains(t, l.entries, "fresh")
	assert.Contains(t, l.entries, "trigger")
}

func TestFixedWindow_SweepIsProbabilistic(t *testing.T) {
	l, now := newTestLimiter(Config{Window: time.Minute, Max: 5})

	l.Check("stale")
	*now = now.Add(2 * time.Minute)

	// randFloat pinned at 1.0: the sweep never fires, the stale entry is only
	// replaced lazily if its own key is accessed.
	l.Check("other")
	l.mu.Lock()
	assert.Contains(t, l.entries, "stale")
	l.mu.Unlock()
}

func TestFixedWindow_ConcurrentAccess(t *testing.T) {
	l := NewFixedWindow(Config{Window: time.Minute, Max: 1000})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := fmt.Sprintf("client-%d", id%5)
			for j := 0; j < 20; j++ {
				l.Check(key)
			}
		}(i)
	}
	wg.Wait()

	// 10 goroutines per key, 20 checks each: counts must not be lost.
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("client-%d", i)
		require.Contains(t, l.entries, key)
		assert.Equal(t, 200, l.entries[key].count)
	}
}
