package state

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/h34ter/cryptogreed/internal/types"
)

func newTestLimiter(t *testing.T, limit int) (*RateLimiter, *time.Time) {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(limit)
	rl.clock = func() time.Time { return now }
	return rl, &now
}

func TestRateLimiter_DeniesBeyondLimit(t *testing.T) {
	rl, _ := newTestLimiter(t, 100)

	for i := 0; i < 100; i++ {
		require.NoError(t, rl.Admit("client-a"))
	}

	err := rl.Admit("client-a")
	require.Error(t, err)

	var rateErr *types.RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, "client-a", rateErr.ClientID)
	assert.Equal(t, 100, rateErr.Limit)
}

func TestRateLimiter_WindowSlidesPastOldestCall(t *testing.T) {
	rl, now := newTestLimiter(t, 100)

	// Fill the window, one call per 100ms.
	for i := 0; i < 100; i++ {
		require.NoError(t, rl.Admit("client-a"))
		*now = now.Add(100 * time.Millisecond)
	}
	require.Error(t, rl.Admit("client-a"))

	// Advance until the first call's timestamp falls out of the window.
	*now = now.Add(51 * time.Second)
	assert.NoError(t, rl.Admit("client-a"))
}

func TestRateLimiter_ClientsAreIndependent(t *testing.T) {
	rl, _ := newTestLimiter(t, 2)

	require.NoError(t, rl.Admit("client-a"))
	require.NoError(t, rl.Admit("client-a"))
	require.Error(t, rl.Admit("client-a"))

	assert.NoError(t, rl.Admit("client-b"))
}

func TestRateLimiter_DeniedCallDoesNotExtendWindow(t *testing.T) {
	rl, now := newTestLimiter(t, 1)

	require.NoError(t, rl.Admit("client-a"))
	require.Error(t, rl.Admit("client-a"))
	require.Error(t, rl.Admit("client-a"))

	*now = now.Add(61 * time.Second)
	assert.NoError(t, rl.Admit("client-a"))
}

func TestRateLimiter_ConcurrentAdmission(t *testing.T) {
	rl := NewRateLimiter(500)

	var wg sync.WaitGroup
	admitted := make([]int, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if rl.Admit("shared") == nil {
					admitted[n]++
				}
			}
		}(i)
	}
	wg.Wait()

	total := 0
	for _, n := range admitted {
		total += n
	}
	assert.Equal(t, 500, total, "exactly the limit must be admitted")
}
