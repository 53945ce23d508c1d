package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/h34ter/cryptogreed/internal/config"
	"github.com/h34ter/cryptogreed/internal/datafetcher"
	"github.com/h34ter/cryptogreed/internal/engine"
	"github.com/h34ter/cryptogreed/internal/logger"
	"github.com/h34ter/cryptogreed/internal/resolver"
	"github.com/h34ter/cryptogreed/internal/state"
	"github.com/h34ter/cryptogreed/internal/web"
)

// main is the entry point for the analysis service.
func main() {
	// --- 1. Initialization Phase ---
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: .env file not found. Relying on OS environment variables.")
	}

	// Load configuration from environment variables
	if err := config.LoadConfig(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Initialize(os.Getenv("LOG_LEVEL"))
	log.Info().Msg("CryptoGreed Analysis Engine Starting...")

	// --- 2. Build the Pipeline ---
	marketClient := datafetcher.NewMarketClient()
	holdersClient := datafetcher.NewHoldersClient()
	activityClient := datafetcher.NewActivityClient()
	liquidityClient := datafetcher.NewLiquidityClient()

	aggregator := datafetcher.NewAggregator(marketClient, holdersClient, activityClient, liquidityClient)
	identityResolver := resolver.New(marketClient)

	resultCache := state.NewResultCache(config.CacheTTL)
	defer resultCache.Close()

	limiter := state.NewRateLimiter(config.RateLimitPerMinute)

	// --- 3. Create Engine Instance with Dependency Injection ---
	engineInstance, err := engine.New(engine.Config{
		Resolver:   identityResolver,
		Aggregator: aggregator,
		Cache:      resultCache,
		Limiter:    limiter,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create engine instance")
	}

	log.Info().Msg("Engine instance created successfully")

	// --- 4. Start Web Server ---
	webServer := web.NewWebServer(engineInstance, config.WebPort)
	go func() {
		log.Info().Str("port", config.WebPort).Str("url", "http://localhost:"+config.WebPort).Msg("Starting analysis dashboard")
		if err := webServer.Start(); err != nil {
			log.Fatal().Err(err).Msg("Web server failed")
		}
	}()

	// Block until asked to stop.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	log.Info().Str("signal", sig.String()).Msg("Shutdown signal received, exiting")
}
