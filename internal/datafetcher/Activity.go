/*

Activity fetcher for a Solscan-compatible provider. True holder percentile
data is unavailable for Solana-style tokens, so the distribution carries
recent transfer activity counters instead and leaves every percentile field
at zero.

*/

package datafetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/h34ter/cryptogreed/internal/config"
	"github.com/h34ter/cryptogreed/internal/logger"
	"github.com/h34ter/cryptogreed/internal/types"
)

var activityLogger = logger.GetForComponent("activity_fetcher")

const transferListLimit = 50

// ActivityClient talks to the Solana activity provider.
type ActivityClient struct {
	baseURL string
	apiKey  string
	http    *resty.Client
}

// NewActivityClient builds a client for the configured activity provider.
func NewActivityClient() *ActivityClient {
	return NewActivityClientWith(config.ActivityAPI, config.ActivityAPIKey, config.FetchTimeout)
}

// NewActivityClientWith builds a client against an explicit endpoint.
func NewActivityClientWith(baseURL, apiKey string, timeout time.Duration) *ActivityClient {
	return &ActivityClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    newRestyClient(timeout),
	}
}

// FetchActivity produces an activity-based holder distribution for a token
// mint address. All percentile fields are zero for this provider.
func (c *ActivityClient) FetchActivity(ctx context.Context, address string) (types.HolderDistribution, error) {
	req := c.http.R().SetContext(ctx)
	if c.apiKey != "" {
		req.SetHeader("token", c.apiKey)
	}

	started := time.Now()
	resp, err := req.Get(fmt.Sprintf(
		"%s/token/transfer?address=%s&limit=%d",
		c.baseURL, url.QueryEscape(address), transferListLimit,
	))
	if cerr := checkResponse(ProviderActivity, resp, err, started); cerr != nil {
		return types.HolderDistribution{}, cerr
	}

	var payload struct {
		Data []struct {
			BlockTime int64  `json:"blockTime"`
			Src       string `json:"src"`
			Dst       string `json:"dst"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return types.HolderDistribution{}, decodeErr(ProviderActivity, err)
	}

	wallets := make(map[string]struct{}, len(payload.Data)*2)
	receivers := make(map[string]struct{}, len(payload.Data))
	for _, transfer := range payload.Data {
		if transfer.Src != "" {
			wallets[transfer.Src] = struct{}{}
		}
		if transfer.Dst != "" {
			wallets[transfer.Dst] = struct{}{}
			receivers[transfer.Dst] = struct{}{}
		}
	}

	activityLogger.Debug().
		Str("address", address).
		Int("transfers", len(payload.Data)).
		Int("activeWallets", len(wallets)).
		Msg("Transfer activity fetched")

	return types.HolderDistribution{
		ActiveWallets:   len(wallets),
		TransferCount:   len(payload.Data),
		UniqueReceivers: len(receivers),
	}, nil
}
