/*

Market-data fetcher and lookup client for a CoinGecko-compatible provider.
Besides the market snapshot it serves the three identity lookups the resolver
needs: search by free-text name, per-asset detail by slug, and reverse lookup
by contract address.

*/

package datafetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/h34ter/cryptogreed/internal/config"
	"github.com/h34ter/cryptogreed/internal/logger"
	"github.com/h34ter/cryptogreed/internal/types"
)

var marketLogger = logger.GetForComponent("market_fetcher")

// Platform keys the provider uses for contract address listings.
const (
	platformEthereum = "ethereum"
	platformSolana   = "solana"
)

// CoinDetail is the per-asset detail the provider exposes: the canonical
// slug, the contract platform listing, and the market snapshot.
type CoinDetail struct {
	ID        string
	Symbol    string
	Name      string
	Platforms map[string]string
	Market    types.MarketSnapshot
}

// MarketClient talks to the market-data provider. An empty API key degrades
// to unauthenticated free-tier calls.
type MarketClient struct {
	baseURL string
	apiKey  string
	http    *resty.Client
}

// NewMarketClient builds a client for the configured market provider.
func NewMarketClient() *MarketClient {
	return NewMarketClientWith(config.MarketAPI, config.MarketAPIKey, config.FetchTimeout)
}

// NewMarketClientWith builds a client against an explicit endpoint, used by
// tests and alternative deployments.
func NewMarketClientWith(baseURL, apiKey string, timeout time.Duration) *MarketClient {
	return &MarketClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    newRestyClient(timeout),
	}
}

func (c *MarketClient) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if c.apiKey != "" {
		req.SetHeader("x-cg-demo-api-key", c.apiKey)
	}
	return req
}

// Search returns the canonical slug of the first asset matching the query.
func (c *MarketClient) Search(ctx context.Context, query string) (string, error) {
	started := time.Now()
	resp, err := c.request(ctx).Get(fmt.Sprintf("%s/search?query=%s", c.baseURL, url.QueryEscape(query)))
	if cerr := checkResponse(ProviderMarket, resp, err, started); cerr != nil {
		return "", cerr
	}

	var payload struct {
		Coins []struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Symbol string `json:"symbol"`
		} `json:"coins"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return "", decodeErr(ProviderMarket, err)
	}

	if len(payload.Coins) == 0 {
		return "", &types.NotFoundError{Query: query}
	}

	marketLogger.Debug().
		Str("query", query).
		Str("coinId", payload.Coins[0].ID).
		Msg("Search resolved query to slug")

	return payload.Coins[0].ID, nil
}

// Detail fetches the per-asset detail for a known slug. An unknown slug is a
// NotFoundError, any other failure an UpstreamError.
func (c *MarketClient) Detail(ctx context.Context, coinID string) (CoinDetail, error) {
	started := time.Now()
	resp, err := c.request(ctx).Get(fmt.Sprintf(
		"%s/coins/%s?localization=false&tickers=false&community_data=false&developer_data=false&sparkline=true",
		c.baseURL, url.PathEscape(coinID),
	))
	if err == nil && resp.StatusCode() == http.StatusNotFound {
		checkResponse(ProviderMarket, resp, err, started)
		return CoinDetail{}, &types.NotFoundError{Query: coinID}
	}
	if cerr := checkResponse(ProviderMarket, resp, err, started); cerr != nil {
		return CoinDetail{}, cerr
	}

	var payload coinDetailPayload
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return CoinDetail{}, decodeErr(ProviderMarket, err)
	}

	return payload.toDetail(), nil
}

// ByContract reverse-resolves a contract address to the provider's slug.
func (c *MarketClient) ByContract(ctx context.Context, chain types.Chain, address string) (string, error) {
	platform := platformEthereum
	if chain == types.ChainSol {
		platform = platformSolana
	}

	started := time.Now()
	resp, err := c.request(ctx).Get(fmt.Sprintf(
		"%s/coins/%s/contract/%s", c.baseURL, platform, url.PathEscape(address),
	))
	if err == nil && resp.StatusCode() == http.StatusNotFound {
		checkResponse(ProviderMarket, resp, err, started)
		return "", &types.NotFoundError{Query: address}
	}
	if cerr := checkResponse(ProviderMarket, resp, err, started); cerr != nil {
		return "", cerr
	}

	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return "", decodeErr(ProviderMarket, err)
	}
	if payload.ID == "" {
		return "", &types.NotFoundError{Query: address}
	}
	return payload.ID, nil
}

// FetchMarket produces the market snapshot for a resolved coin id.
func (c *MarketClient) FetchMarket(ctx context.Context, coinID string) (types.MarketSnapshot, error) {
	detail, err := c.Detail(ctx, coinID)
	if err != nil {
		return types.MarketSnapshot{}, err
	}
	return detail.Market, nil
}

type coinDetailPayload struct {
	ID         string            `json:"id"`
	Symbol     string            `json:"symbol"`
	Name       string            `json:"name"`
	Platforms  map[string]string `json:"platforms"`
	MarketData struct {
		CurrentPrice             map[string]float64 `json:"current_price"`
		MarketCap                map[string]float64 `json:"market_cap"`
		TotalVolume              map[string]float64 `json:"total_volume"`
		PriceChangePercentage24h float64            `json:"price_change_percentage_24h"`
		CirculatingSupply        float64            `json:"circulating_supply"`
		TotalSupply              float64            `json:"total_supply"`
		Sparkline7d              struct {
			Price []float64 `json:"price"`
		} `json:"sparkline_7d"`
	} `json:"market_data"`
}

func (p coinDetailPayload) toDetail() CoinDetail {
	price := p.MarketData.CurrentPrice["usd"]
	volume := p.MarketData.TotalVolume["usd"]

	snapshot := types.MarketSnapshot{
		Price:             price,
		PriceChange24hPct: p.MarketData.PriceChangePercentage24h,
		MarketCap:         p.MarketData.MarketCap["usd"],
		Volume24h:         volume,
		CirculatingSupply: p.MarketData.CirculatingSupply,
		TotalSupply:       p.MarketData.TotalSupply,
		AvgPrice7d:        averagePrice7d(p.MarketData.Sparkline7d.Price, price),
		// The provider exposes no 7-day volume series on this endpoint, so
		// the 7-day average degrades to the 24h volume.
		AvgVolume7d: volume,
	}

	return CoinDetail{
		ID:        p.ID,
		Symbol:    p.Symbol,
		Name:      p.Name,
		Platforms: p.Platforms,
		Market:    snapshot,
	}
}

// averagePrice7d averages the 7-day sparkline. When the provider sends no
// sparkline the average degrades to the current price, which zeroes the
// price-surge term of the greed score.
func averagePrice7d(sparkline []float64, current float64) float64 {
	if len(sparkline) == 0 {
		marketLogger.Debug().Msg("No 7-day sparkline in payload, degrading average price to current price")
		return current
	}
	var sum float64
	for _, p := range sparkline {
		sum += p
	}
	return sum / float64(len(sparkline))
}
