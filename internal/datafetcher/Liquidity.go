/*

Liquidity fetcher for a DexScreener-compatible provider. Aggregates the USD
liquidity of every trading pool listed for a contract address and measures
how much of it sits in the five deepest pools.

*/

package datafetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/h34ter/cryptogreed/internal/config"
	"github.com/h34ter/cryptogreed/internal/logger"
	"github.com/h34ter/cryptogreed/internal/types"
)

var liquidityLogger = logger.GetForComponent("liquidity_fetcher")

// LiquidityClient talks to the DEX liquidity provider.
type LiquidityClient struct {
	baseURL string
	http    *resty.Client
}

// NewLiquidityClient builds a client for the configured liquidity provider.
func NewLiquidityClient() *LiquidityClient {
	return NewLiquidityClientWith(config.LiquidityAPI, config.FetchTimeout)
}

// NewLiquidityClientWith builds a client against an explicit endpoint.
func NewLiquidityClientWith(baseURL string, timeout time.Duration) *LiquidityClient {
	return &LiquidityClient{
		baseURL: baseURL,
		http:    newRestyClient(timeout),
	}
}

// FetchLiquidity produces the pooled liquidity snapshot for a contract
// address. A token with no listed pools yields a zero-valued snapshot; that
// is absent-by-design data, not a failure.
func (c *LiquidityClient) FetchLiquidity(ctx context.Context, address string) (types.LiquiditySnapshot, error) {
	started := time.Now()
	resp, err := c.http.R().SetContext(ctx).Get(fmt.Sprintf(
		"%s/latest/dex/tokens/%s", c.baseURL, url.PathEscape(address),
	))
	if cerr := checkResponse(ProviderLiquidity, resp, err, started); cerr != nil {
		return types.LiquiditySnapshot{}, cerr
	}

	var payload struct {
		Pairs []struct {
			PairAddress string `json:"pairAddress"`
			Liquidity   struct {
				USD float64 `json:"usd"`
			} `json:"liquidity"`
		} `json:"pairs"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return types.LiquiditySnapshot{}, decodeErr(ProviderLiquidity, err)
	}

	pools := make([]float64, 0, len(payload.Pairs))
	var total float64
	for _, pair := range payload.Pairs {
		pools = append(pools, pair.Liquidity.USD)
		total += pair.Liquidity.USD
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(pools)))

	top5 := 0.0
	for i, usd := range pools {
		if i >= 5 {
			break
		}
		top5 += usd
	}

	snapshot := types.LiquiditySnapshot{
		LiquidityUSD: total,
		PoolCount:    len(pools),
	}
	if total > 0 {
		snapshot.Top5PoolShare = top5 / total
	}

	liquidityLogger.Debug().
		Str("address", address).
		Int("pools", snapshot.PoolCount).
		Float64("liquidityUSD", snapshot.LiquidityUSD).
		Msg("Pool liquidity fetched")

	return snapshot, nil
}
