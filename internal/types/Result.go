/*

The externally visible analysis artifact. Every call to the engine produces
exactly one AnalysisResult, success or failure; failures are distinguished
only by the Error flag and Message.

*/

package types

// ScoreSet holds the five derived scores, each an integer in [0,100].
type ScoreSet struct {
	Greed            int `json:"greed"`
	Decentralization int `json:"decentralization"`
	Retail           int `json:"retail"`
	Volatility       int `json:"volatility"`
	Liquidity        int `json:"liquidity"`
}

// BasicInfo is the identity plus market subset echoed back to the caller.
type BasicInfo struct {
	CoinID            string  `json:"coin_id"`
	ContractAddress   string  `json:"contract_address,omitempty"`
	Chain             Chain   `json:"chain,omitempty"`
	Price             float64 `json:"price"`
	PriceChange24hPct float64 `json:"price_change_24h_pct"`
	MarketCap         float64 `json:"market_cap"`
	Volume24h         float64 `json:"volume_24h"`
	CirculatingSupply float64 `json:"circulating_supply"`
	TotalSupply       float64 `json:"total_supply"`
}

// AnalysisResult is immutable once produced and is cached by value.
//
// ErrKind is set on failures so the front controller can pick an HTTP status;
// it is never serialized.
type AnalysisResult struct {
	Error            bool      `json:"error,omitempty"`
	Message          string    `json:"message,omitempty"`
	Basic            BasicInfo `json:"basic"`
	Scores           ScoreSet  `json:"scores"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
	Timestamp        string    `json:"timestamp"`
	FromCache        bool      `json:"from_cache"`

	ErrKind ErrorKind `json:"-"`
}
