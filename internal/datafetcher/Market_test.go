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

const uniswapDetailBody = `{
	"id": "uniswap",
	"symbol": "uni",
	"name": "Uniswap",
	"platforms": {"ethereum": "0x1f9840a85d5af5bf1d1762f925bdaddc4201f984"},
	"market_data": {
		"current_price": {"usd": 10},
		"market_cap": {"usd": 5000000000},
		"total_volume": {"usd": 200000000},
		"price_change_percentage_24h": 5,
		"circulating_supply": 600000000,
		"total_supply": 1000000000,
		"sparkline_7d": {"price": [8, 9, 10]}
	}
}`

func TestMarketClient_DetailMapsPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/coins/uniswap")
		w.Write([]byte(uniswapDetailBody))
	}))
	defer server.Close()

	client := NewMarketClientWith(server.URL, "", time.Second)
	detail, err := client.Detail(context.Background(), "uniswap")
	require.NoError(t, err)

	assert.Equal(t, "uniswap", detail.ID)
	assert.Equal(t, "0x1f9840a85d5af5bf1d1762f925bdaddc4201f984", detail.Platforms["ethereum"])
	assert.Equal(t, 10.0, detail.Market.Price)
	assert.Equal(t, 5e9, detail.Market.MarketCap)
	assert.Equal(t, 2e8, detail.Market.Volume24h)
	assert.Equal(t, 5.0, detail.Market.PriceChange24hPct)
	assert.InDelta(t, 9.0, detail.Market.AvgPrice7d, 1e-9, "sparkline average")
	assert.Equal(t, 2e8, detail.Market.AvgVolume7d, "degrades to 24h volume")
}

func TestMarketClient_DetailWithoutSparklineDegradesToCurrentPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"bitcoin","market_data":{"current_price":{"usd":50000}}}`))
	}))
	defer server.Close()

	client := NewMarketClientWith(server.URL, "", time.Second)
	detail, err := client.Detail(context.Background(), "bitcoin")
	require.NoError(t, err)

	assert.Equal(t, 50000.0, detail.Market.AvgPrice7d)
}

func TestMarketClient_DetailUnknownSlugIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewMarketClientWith(server.URL, "", time.Second)
	_, err := client.Detail(context.Background(), "no-such-coin")

	var notFound *types.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "no-such-coin", notFound.Query)
}

func TestMarketClient_DetailServerErrorIsUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewMarketClientWith(server.URL, "", time.Second)
	_, err := client.Detail(context.Background(), "bitcoin")

	var upstream *types.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, ProviderMarket, upstream.Provider)
	assert.Equal(t, http.StatusInternalServerError, upstream.StatusCode)
}

func TestMarketClient_DetailMalformedPayloadIsUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": `))
	}))
	defer server.Close()

	client := NewMarketClientWith(server.URL, "", time.Second)
	_, err := client.Detail(context.Background(), "bitcoin")

	var upstream *types.UpstreamError
	require.ErrorAs(t, err, &upstream)
}

func TestMarketClient_SearchReturnsFirstMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "uniswap", r.URL.Query().Get("query"))
		w.Write([]byte(`{"coins":[{"id":"uniswap","name":"Uniswap"},{"id":"uniswap-v3","name":"Other"}]}`))
	}))
	defer server.Close()

	client := NewMarketClientWith(server.URL, "", time.Second)
	slug, err := client.Search(context.Background(), "uniswap")
	require.NoError(t, err)
	assert.Equal(t, "uniswap", slug)
}

func TestMarketClient_SearchNoMatchIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"coins":[]}`))
	}))
	defer server.Close()

	client := NewMarketClientWith(server.URL, "", time.Second)
	_, err := client.Search(context.Background(), "definitely-not-a-coin")

	var notFound *types.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestMarketClient_ByContractResolvesSlug(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/coins/ethereum/contract/")
		w.Write([]byte(`{"id":"uniswap"}`))
	}))
	defer server.Close()

	client := NewMarketClientWith(server.URL, "", time.Second)
	slug, err := client.ByContract(context.Background(), types.ChainEth, "0x1f9840a85d5af5bf1d1762f925bdaddc4201f984")
	require.NoError(t, err)
	assert.Equal(t, "uniswap", slug)
}

func TestMarketClient_TimeoutIsUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewMarketClientWith(server.URL, "", 50*time.Millisecond)
	_, err := client.Detail(context.Background(), "bitcoin")

	var upstream *types.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, ProviderMarket, upstream.Provider)
}
