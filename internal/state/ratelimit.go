/*

Sliding-window admission control. Each client identifier carries the ordered
timestamps of its requests inside the trailing window; timestamps older than
the window are discarded on every check. The set of tracked clients is
unbounded, an accepted gap for a single-process deployment.

*/

package state

import (
	"sync"
	"time"

	"github.com/h34ter/cryptogreed/internal/types"
)

// RateLimiter admits at most limit requests per client within the trailing
// window. Safe for concurrent use.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	limit   int
	window  time.Duration

	// clock is swappable in tests.
	clock func() time.Time
}

// NewRateLimiter creates a limiter admitting limit requests per client per
// 60 second window.
func NewRateLimiter(limit int) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string][]time.Time),
		limit:   limit,
		window:  time.Minute,
		clock:   time.Now,
	}
}

// Admit records one request for clientID and reports whether it is allowed.
// A denied request is not recorded against the window.
func (rl *RateLimiter) Admit(clientID string) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock()
	cutoff := now.Add(-rl.window)

	kept := rl.windows[clientID][:0]
	for _, ts := range rl.windows[clientID] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= rl.limit {
		rl.windows[clientID] = kept
		return &types.RateLimitError{ClientID: clientID, Limit: rl.limit}
	}

	rl.windows[clientID] = append(kept, now)
	return nil
}
