/*

Snapshot types produced by the three source fetchers. Each snapshot is built
once per request by its fetcher and is read-only afterwards. The aggregated
record is the sole input to the scoring functions.

*/

package types

// MarketSnapshot holds the point-in-time market data for an asset.
//
// AvgPrice7d is the mean of the provider's 7-day price sparkline when the
// provider supplies one; otherwise it degrades to the current price, which
// zeroes the price-surge term of the greed score. AvgVolume7d degrades to the
// 24h volume the same way. Both degradations are logged by the fetcher.
type MarketSnapshot struct {
	Price             float64 `json:"price"`
	PriceChange24hPct float64 `json:"price_change_24h_pct"`
	MarketCap         float64 `json:"market_cap"`
	Volume24h         float64 `json:"volume_24h"`
	CirculatingSupply float64 `json:"circulating_supply"`
	TotalSupply       float64 `json:"total_supply"`
	AvgVolume7d       float64 `json:"avg_volume_7d"`
	AvgPrice7d        float64 `json:"avg_price_7d"`
}

// HolderDistribution describes how token supply is spread across wallets.
//
// For chains where a true holder percentile breakdown is unavailable (sol),
// the percentile fields are zero and the activity counters carry recent
// transfer statistics instead.
type HolderDistribution struct {
	Top1Pct        float64 `json:"top_1_pct"`
	Top10Pct       float64 `json:"top_10_pct"`
	Top100Pct      float64 `json:"top_100_pct"`
	RetailPct      float64 `json:"retail_pct"`
	TotalHolders   int64   `json:"total_holders"`
	Top10HolderPct float64 `json:"top_10_holder_pct"`

	// Activity counters for chains without holder percentile data.
	ActiveWallets   int `json:"active_wallets,omitempty"`
	TransferCount   int `json:"transfer_count,omitempty"`
	UniqueReceivers int `json:"unique_receivers,omitempty"`
}

// LiquiditySnapshot aggregates DEX pool liquidity for a token contract.
// Zero-valued for native assets that have no token contract.
type LiquiditySnapshot struct {
	LiquidityUSD  float64 `json:"liquidity_usd"`
	Top5PoolShare float64 `json:"top_5_pool_share"`
	PoolCount     int     `json:"pool_count"`
}

// AggregatedRecord is the combined output of one aggregation pass.
// Immutable once constructed.
type AggregatedRecord struct {
	Market    MarketSnapshot     `json:"market"`
	Holders   HolderDistribution `json:"holders"`
	Liquidity LiquiditySnapshot  `json:"liquidity"`
}
