/*

Shared HTTP plumbing for the source fetchers. Every fetcher owns a resty
client bounded by the configured per-call timeout; a provider that hangs can
only consume its own budget, never the whole request. Fetchers never retry:
a failed provider call fails the analysis.

*/

package datafetcher

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/h34ter/cryptogreed/internal/telemetry"
	"github.com/h34ter/cryptogreed/internal/types"
)

// Provider names carried inside UpstreamError values and metric labels.
const (
	ProviderMarket    = "coingecko"
	ProviderHolders   = "ethplorer"
	ProviderActivity  = "solscan"
	ProviderLiquidity = "dexscreener"
)

func newRestyClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetTransport(&http.Transport{Proxy: http.ProxyFromEnvironment}).
		SetTimeout(timeout)
}

// checkResponse folds a resty transport error or a non-2xx status into an
// UpstreamError and records the call in the provider metrics.
func checkResponse(provider string, resp *resty.Response, err error, started time.Time) error {
	duration := time.Since(started)

	if err != nil {
		telemetry.ObserveProviderRequest(provider, duration, false)
		return &types.UpstreamError{Provider: provider, Err: err}
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		telemetry.ObserveProviderRequest(provider, duration, false)
		return &types.UpstreamError{Provider: provider, StatusCode: resp.StatusCode()}
	}

	telemetry.ObserveProviderRequest(provider, duration, true)
	return nil
}

// decodeErr wraps a JSON decoding failure as an UpstreamError: an
// unparseable payload is an upstream fault, not an internal one.
func decodeErr(provider string, err error) error {
	return &types.UpstreamError{Provider: provider, Err: err}
}
