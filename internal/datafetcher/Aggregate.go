/*

The aggregator fans the source fetchers out concurrently and assembles their
snapshots into one record. Any single fetch failure fails the whole pass: the
scores are only meaningful over a complete record, so there are no partial
results. The wall-clock cost of a pass is the slowest launched fetcher.

*/

package datafetcher

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/h34ter/cryptogreed/internal/logger"
	"github.com/h34ter/cryptogreed/internal/types"
)

var aggregateLogger = logger.GetForComponent("aggregator")

type marketFetcher interface {
	FetchMarket(ctx context.Context, coinID string) (types.MarketSnapshot, error)
}

type holderFetcher interface {
	FetchHolders(ctx context.Context, address string) (types.HolderDistribution, error)
}

type activityFetcher interface {
	FetchActivity(ctx context.Context, address string) (types.HolderDistribution, error)
}

type liquidityFetcher interface {
	FetchLiquidity(ctx context.Context, address string) (types.LiquiditySnapshot, error)
}

// Aggregator runs the source fetchers for one resolved identity.
type Aggregator struct {
	market    marketFetcher
	holders   holderFetcher
	activity  activityFetcher
	liquidity liquidityFetcher
}

// NewAggregator wires the aggregator with the concrete provider clients.
func NewAggregator(market *MarketClient, holders *HoldersClient, activity *ActivityClient, liquidity *LiquidityClient) *Aggregator {
	return &Aggregator{
		market:    market,
		holders:   holders,
		activity:  activity,
		liquidity: liquidity,
	}
}

// Aggregate fetches all sources for a resolved identity concurrently.
// The identity must carry a coin id. The holder and liquidity fetchers are
// only launched when a contract address is known; native coins have no
// holder or pool concept at the token level and get zero-valued snapshots.
func (a *Aggregator) Aggregate(ctx context.Context, identity types.AssetIdentity) (types.AggregatedRecord, error) {
	var record types.AggregatedRecord

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		snapshot, err := a.market.FetchMarket(ctx, identity.CoinID)
		if err != nil {
			return err
		}
		record.Market = snapshot
		return nil
	})

	if identity.HasContract() {
		g.Go(func() error {
			var (
				dist types.HolderDistribution
				err  error
			)
			if identity.Chain == types.ChainSol {
				dist, err = a.activity.FetchActivity(ctx, identity.ContractAddress)
			} else {
				dist, err = a.holders.FetchHolders(ctx, identity.ContractAddress)
			}
			if err != nil {
				return err
			}
			record.Holders = dist
			return nil
		})

		g.Go(func() error {
			snapshot, err := a.liquidity.FetchLiquidity(ctx, identity.ContractAddress)
			if err != nil {
				return err
			}
			record.Liquidity = snapshot
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		aggregateLogger.Error().
			Err(err).
			Str("coinId", identity.CoinID).
			Msg("Aggregation failed, no partial results")
		return types.AggregatedRecord{}, err
	}

	return record, nil
}
