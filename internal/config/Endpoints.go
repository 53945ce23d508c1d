package config

import (
	"github.com/rs/zerolog/log"
)

// Provider endpoint configuration loaded from environment variables.
// These are populated at startup by the LoadConfig function.
var (
	// MarketAPI is the base URL of the market-data provider (CoinGecko-compatible).
	MarketAPI string
	// HolderAPI is the base URL of the EVM holder-distribution provider (Ethplorer-compatible).
	HolderAPI string
	// ActivityAPI is the base URL of the Solana activity provider (Solscan-compatible).
	ActivityAPI string
	// LiquidityAPI is the base URL of the DEX liquidity provider (DexScreener-compatible).
	LiquidityAPI string

	// MarketAPIKey authenticates market-data calls. Optional; an empty key
	// falls back to unauthenticated free-tier calls.
	MarketAPIKey string
	// HolderAPIKey authenticates holder-distribution calls. Optional; the
	// provider's public free key is used when unset.
	HolderAPIKey string
	// ActivityAPIKey authenticates activity calls. Optional.
	ActivityAPIKey string
)

const defaultHolderAPIKey = "freekey"

// loadEndpointConfig loads provider endpoints and credentials from
// environment variables. This function is called by LoadConfig() in General.go.
func loadEndpointConfig() error {
	log.Info().Msg("Loading provider endpoint configuration from environment variables...")

	MarketAPI = getEnvOrDefault("MARKET_API_URL", "https://api.coingecko.com/api/v3")
	HolderAPI = getEnvOrDefault("HOLDER_API_URL", "https://api.ethplorer.io")
	ActivityAPI = getEnvOrDefault("ACTIVITY_API_URL", "https://public-api.solscan.io")
	LiquidityAPI = getEnvOrDefault("LIQUIDITY_API_URL", "https://api.dexscreener.com")

	MarketAPIKey = getEnvOrDefault("COINGECKO_API_KEY", "")
	HolderAPIKey = getEnvOrDefault("ETHPLORER_API_KEY", defaultHolderAPIKey)
	ActivityAPIKey = getEnvOrDefault("SOLSCAN_API_KEY", "")

	log.Debug().
		Str("MarketAPI", MarketAPI).
		Str("HolderAPI", HolderAPI).
		Str("ActivityAPI", ActivityAPI).
		Str("LiquidityAPI", LiquidityAPI).
		Msg("Provider endpoint configuration loaded successfully.")

	return nil
}
