/*

The analysis orchestrator. Analyze composes admission control, identity
resolution, the cache, aggregation, and scoring into the single public
operation of the engine. It never returns an error: every failure path is
folded into an error-shaped AnalysisResult so the transport layer always has
a well-formed artifact to hand back.

*/

package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/h34ter/cryptogreed/internal/analyzer"
	"github.com/h34ter/cryptogreed/internal/datafetcher"
	"github.com/h34ter/cryptogreed/internal/logger"
	"github.com/h34ter/cryptogreed/internal/resolver"
	"github.com/h34ter/cryptogreed/internal/state"
	"github.com/h34ter/cryptogreed/internal/telemetry"
	"github.com/h34ter/cryptogreed/internal/types"
)

// anonymousClient is the admission bucket for callers that do not identify
// themselves.
const anonymousClient = "anonymous"

type identityResolver interface {
	Resolve(ctx context.Context, req types.AnalyzeRequest) (types.AssetIdentity, error)
}

type recordAggregator interface {
	Aggregate(ctx context.Context, identity types.AssetIdentity) (types.AggregatedRecord, error)
}

// Engine is the analysis orchestrator. One instance serves every request for
// the process lifetime; the cache and limiter it holds are the only state
// shared across concurrent invocations.
type Engine struct {
	logger     zerolog.Logger
	resolver   identityResolver
	aggregator recordAggregator
	cache      *state.ResultCache
	limiter    *state.RateLimiter
}

// Config holds the dependencies for creating an Engine.
type Config struct {
	Resolver   *resolver.Resolver
	Aggregator *datafetcher.Aggregator
	Cache      *state.ResultCache
	Limiter    *state.RateLimiter
}

// New creates an Engine with dependency injection.
func New(cfg Config) (*Engine, error) {
	if cfg.Resolver == nil {
		return nil, fmt.Errorf("resolver cannot be nil")
	}
	if cfg.Aggregator == nil {
		return nil, fmt.Errorf("aggregator cannot be nil")
	}
	if cfg.Cache == nil {
		return nil, fmt.Errorf("result cache cannot be nil")
	}
	if cfg.Limiter == nil {
		return nil, fmt.Errorf("rate limiter cannot be nil")
	}

	return &Engine{
		logger:     logger.GetForComponent("engine"),
		resolver:   cfg.Resolver,
		aggregator: cfg.Aggregator,
		cache:      cfg.Cache,
		limiter:    cfg.Limiter,
	}, nil
}

// Analyze runs the full pipeline: admission, resolution, cache lookup,
// aggregation, scoring, cache store. ProcessingTimeMs measures wall clock
// from entry to exit on every path, success or failure.
func (e *Engine) Analyze(ctx context.Context, req types.AnalyzeRequest) (result types.AnalysisResult) {
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Msg("Analysis panicked")
			result = e.errorResult(fmt.Errorf("internal error: %v", r), started)
		}
	}()

	clientID := req.ClientID
	if clientID == "" {
		clientID = anonymousClient
	}
	if err := e.limiter.Admit(clientID); err != nil {
		telemetry.RateLimitDenials.Inc()
		return e.errorResult(err, started)
	}

	identity, err := e.resolver.Resolve(ctx, req)
	if err != nil {
		return e.errorResult(err, started)
	}

	key := identity.Digest()
	if cached, ok := e.cache.Get(key); ok {
		telemetry.CacheHits.Inc()
		telemetry.AnalysesTotal.WithLabelValues("cached").Inc()

		cached.FromCache = true
		cached.ProcessingTimeMs = time.Since(started).Milliseconds()

		e.logger.Debug().
			Str("coinId", identity.CoinID).
			Msg("Analysis served from cache")
		return cached
	}
	telemetry.CacheMisses.Inc()

	record, err := e.aggregator.Aggregate(ctx, identity)
	if err != nil {
		return e.errorResult(err, started)
	}

	scores := analyzer.CalculateScores(record)

	result = types.AnalysisResult{
		Basic: types.BasicInfo{
			CoinID:            identity.CoinID,
			ContractAddress:   identity.ContractAddress,
			Chain:             identity.Chain,
			Price:             record.Market.Price,
			PriceChange24hPct: record.Market.PriceChange24hPct,
			MarketCap:         record.Market.MarketCap,
			Volume24h:         record.Market.Volume24h,
			CirculatingSupply: record.Market.CirculatingSupply,
			TotalSupply:       record.Market.TotalSupply,
		},
		Scores:           scores,
		ProcessingTimeMs: time.Since(started).Milliseconds(),
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		FromCache:        false,
	}

	e.cache.Put(key, result)
	telemetry.AnalysesTotal.WithLabelValues("ok").Inc()

	e.logger.Info().
		Str("coinId", identity.CoinID).
		Int("greed", scores.Greed).
		Int("decentralization", scores.Decentralization).
		Int64("processingMs", result.ProcessingTimeMs).
		Msg("Analysis completed")

	return result
}

// errorResult folds a pipeline failure into the uniform error-shaped result.
func (e *Engine) errorResult(err error, started time.Time) types.AnalysisResult {
	kind := types.ClassifyError(err)
	telemetry.AnalysesTotal.WithLabelValues(string(kind)).Inc()

	e.logger.Warn().
		Err(err).
		Str("kind", string(kind)).
		Msg("Analysis failed")

	return types.AnalysisResult{
		Error:            true,
		Message:          err.Error(),
		ProcessingTimeMs: time.Since(started).Milliseconds(),
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		ErrKind:          kind,
	}
}
