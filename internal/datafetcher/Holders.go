/*

Holder-distribution fetcher for an Ethplorer-compatible provider (EVM chains
only). The provider returns the top holders with their supply share percent;
the percentile groups are derived from that list against the reported total
holder count.

*/

package datafetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/h34ter/cryptogreed/internal/config"
	"github.com/h34ter/cryptogreed/internal/logger"
	"github.com/h34ter/cryptogreed/internal/types"
)

var holderLogger = logger.GetForComponent("holder_fetcher")

// Holders below this share of supply count as retail.
const retailShareThresholdPct = 0.1

const topHoldersLimit = 100

// HoldersClient talks to the EVM holder-distribution provider.
type HoldersClient struct {
	baseURL string
	apiKey  string
	http    *resty.Client
}

// NewHoldersClient builds a client for the configured holder provider. The
// provider accepts its public free key when no real key is configured.
func NewHoldersClient() *HoldersClient {
	return NewHoldersClientWith(config.HolderAPI, config.HolderAPIKey, config.FetchTimeout)
}

// NewHoldersClientWith builds a client against an explicit endpoint.
func NewHoldersClientWith(baseURL, apiKey string, timeout time.Duration) *HoldersClient {
	return &HoldersClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    newRestyClient(timeout),
	}
}

// FetchHolders produces the holder distribution for a token contract.
func (c *HoldersClient) FetchHolders(ctx context.Context, address string) (types.HolderDistribution, error) {
	started := time.Now()
	resp, err := c.http.R().SetContext(ctx).Get(fmt.Sprintf(
		"%s/getTopTokenHolders/%s?apiKey=%s&limit=%d",
		c.baseURL, url.PathEscape(address), url.QueryEscape(c.apiKey), topHoldersLimit,
	))
	if cerr := checkResponse(ProviderHolders, resp, err, started); cerr != nil {
		return types.HolderDistribution{}, cerr
	}

	var payload struct {
		Holders []struct {
			Address string  `json:"address"`
			Balance float64 `json:"balance"`
			Share   float64 `json:"share"`
		} `json:"holders"`
		HoldersCount int64 `json:"holdersCount"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return types.HolderDistribution{}, decodeErr(ProviderHolders, err)
	}

	shares := make([]float64, 0, len(payload.Holders))
	for _, h := range payload.Holders {
		shares = append(shares, h.Share)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(shares)))

	dist := distributionFromShares(shares, payload.HoldersCount)

	holderLogger.Debug().
		Str("address", address).
		Int("holdersReturned", len(shares)).
		Int64("holdersTotal", payload.HoldersCount).
		Float64("top10Pct", dist.Top10Pct).
		Msg("Holder distribution fetched")

	return dist, nil
}

// distributionFromShares derives the percentile groups from a descending
// share list. When the provider does not report a total holder count the
// percentile groups fall back to fixed head sizes over the returned list.
func distributionFromShares(shares []float64, holdersCount int64) types.HolderDistribution {
	count1 := 1
	count10 := 10
	if holdersCount > 0 {
		count1 = int(math.Ceil(float64(holdersCount) * 0.01))
		count10 = int(math.Ceil(float64(holdersCount) * 0.10))
	}

	whalePct := 0.0
	for _, share := range shares {
		if share >= retailShareThresholdPct {
			whalePct += share
		}
	}

	return types.HolderDistribution{
		Top1Pct:        sumHead(shares, count1),
		Top10Pct:       sumHead(shares, count10),
		Top100Pct:      sumHead(shares, 100),
		Top10HolderPct: sumHead(shares, 10),
		RetailPct:      math.Max(0, 100-whalePct),
		TotalHolders:   holdersCount,
	}
}

func sumHead(shares []float64, n int) float64 {
	if n > len(shares) {
		n = len(shares)
	}
	var sum float64
	for _, share := range shares[:n] {
		sum += share
	}
	return sum
}
