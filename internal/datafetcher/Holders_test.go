package datafetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/h34ter/cryptogreed/internal/types"
)

func TestHoldersClient_FetchHolders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/getTopTokenHolders/")
		assert.Equal(t, "freekey", r.URL.Query().Get("apiKey"))
		w.Write([]byte(`{
			"holders": [
				{"address": "0xa", "share": 12},
				{"address": "0xb", "share": 8},
				{"address": "0xc", "share": 5},
				{"address": "0xd", "share": 0.05},
				{"address": "0xe", "share": 0.04}
			],
			"holdersCount": 200
		}`))
	}))
	defer server.Close()

	client := NewHoldersClientWith(server.URL, "freekey", time.Second)
	dist, err := client.FetchHolders(context.Background(), "0x1f9840a85d5af5bf1d1762f925bdaddc4201f984")
	require.NoError(t, err)

	// 200 holders: top 1% is the top 2 wallets, top 10% the top 20 (capped at 5 returned).
	assert.InDelta(t, 20.0, dist.Top1Pct, 1e-9)
	assert.InDelta(t, 25.09, dist.Top10Pct, 1e-9)
	assert.InDelta(t, 25.09, dist.Top100Pct, 1e-9)
	assert.InDelta(t, 25.09, dist.Top10HolderPct, 1e-9)
	// Retail holds everything not in wallets with >= 0.1% each.
	assert.InDelta(t, 75.0, dist.RetailPct, 1e-9)
	assert.Equal(t, int64(200), dist.TotalHolders)
}

func TestHoldersClient_MissingHoldersCountFallsBackToHeadGroups(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"holders": [{"share": 40}, {"share": 10}]}`))
	}))
	defer server.Close()

	client := NewHoldersClientWith(server.URL, "freekey", time.Second)
	dist, err := client.FetchHolders(context.Background(), "0xabc")
	require.NoError(t, err)

	assert.InDelta(t, 40.0, dist.Top1Pct, 1e-9)
	assert.InDelta(t, 50.0, dist.Top10Pct, 1e-9)
	assert.Equal(t, int64(0), dist.TotalHolders)
}

func TestHoldersClient_ProviderErrorIsUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewHoldersClientWith(server.URL, "freekey", time.Second)
	_, err := client.FetchHolders(context.Background(), "0xabc")

	var upstream *types.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, ProviderHolders, upstream.Provider)
	assert.Equal(t, http.StatusForbidden, upstream.StatusCode)
}

func TestDistributionFromShares_UnsortedInputIsHandledBySorting(t *testing.T) {
	// FetchHolders sorts before deriving; verify the derivation itself over a
	// descending list with more wallets than the percentile heads.
	shares := []float64{30, 20, 10, 5, 4, 3, 2, 1, 0.5, 0.4, 0.05}
	dist := distributionFromShares(shares, 1000)

	// 1% of 1000 = 10 wallets, 10% = 100 wallets capped at the 11 returned.
	assert.InDelta(t, 75.9, dist.Top1Pct, 1e-9)
	assert.InDelta(t, 75.95, dist.Top10Pct, 1e-9)
	assert.InDelta(t, 75.9, dist.Top10HolderPct, 1e-9)
}
