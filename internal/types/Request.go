package types

// AnalyzeRequest is the raw, possibly incomplete input accepted by the
// engine. Any one of CoinName, CoinID, or ContractAddress may identify the
// asset; ClientID is an opaque per-client identifier used only for rate
// limiting.
type AnalyzeRequest struct {
	CoinName        string `json:"coinName,omitempty"`
	CoinID          string `json:"coinId,omitempty"`
	ContractAddress string `json:"contractAddress,omitempty"`
	Chain           string `json:"chain,omitempty"`
	ClientID        string `json:"clientId,omitempty"`
}
