package state

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/h34ter/cryptogreed/internal/types"
)

func newTestCache(t *testing.T, ttl time.Duration) (*ResultCache, *time.Time) {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewResultCache(ttl)
	t.Cleanup(c.Close)
	c.clock = func() time.Time { return now }
	return c, &now
}

func TestResultCache_RoundTrip(t *testing.T) {
	c, _ := newTestCache(t, 5*time.Minute)

	want := types.AnalysisResult{
		Basic:  types.BasicInfo{CoinID: "uniswap", Price: 10},
		Scores: types.ScoreSet{Greed: 12, Decentralization: 71},
	}
	c.Put("key", want)

	got, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestResultCache_MissOnUnknownKey(t *testing.T) {
	c, _ := newTestCache(t, 5*time.Minute)

	_, ok := c.Get("nothing")
	assert.False(t, ok)
}

func TestResultCache_ExpiredEntryIsEvictedOnAccess(t *testing.T) {
	c, now := newTestCache(t, 5*time.Minute)

	c.Put("key", types.AnalysisResult{Basic: types.BasicInfo{CoinID: "uniswap"}})
	*now = now.Add(5*time.Minute + time.Second)

	_, ok := c.Get("key")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry must be gone after the access")
}

func TestResultCache_EntryServedUpToTTL(t *testing.T) {
	c, now := newTestCache(t, 5*time.Minute)

	c.Put("key", types.AnalysisResult{Basic: types.BasicInfo{CoinID: "uniswap"}})
	*now = now.Add(5*time.Minute - time.Second)

	_, ok := c.Get("key")
	assert.True(t, ok)
}

func TestResultCache_SweepRemovesUntouchedExpiredEntries(t *testing.T) {
	c, now := newTestCache(t, time.Minute)

	for i := 0; i < 10; i++ {
		c.Put(fmt.Sprintf("key-%d", i), types.AnalysisResult{})
	}
	*now = now.Add(2 * time.Minute)

	c.sweep()
	assert.Equal(t, 0, c.Len())
}

func TestResultCache_ConcurrentAccess(t *testing.T) {
	c := NewResultCache(5 * time.Minute)
	t.Cleanup(c.Close)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", n%4)
			for j := 0; j < 200; j++ {
				c.Put(key, types.AnalysisResult{Scores: types.ScoreSet{Greed: n}})
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, c.Len())
}
