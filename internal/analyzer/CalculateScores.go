/*

This file contains the five scoring functions. Each one is a pure function of
the aggregated record, clamped to [0,100] and rounded to the nearest integer.
Every division is guarded: a zero denominator zeroes the affected component
instead of propagating NaN or Inf into the result.

*/

package analyzer

import (
	"math"

	"github.com/h34ter/cryptogreed/internal/types"
)

// CalculateScores derives the full score set from one aggregated record.
func CalculateScores(rec types.AggregatedRecord) types.ScoreSet {
	return types.ScoreSet{
		Greed:            CalculateGreedScore(rec.Market, rec.Holders),
		Decentralization: CalculateDecentralizationScore(rec.Holders),
		Retail:           CalculateRetailScore(rec.Holders),
		Volatility:       CalculateVolatilityScore(rec.Market),
		Liquidity:        CalculateLiquidityScore(rec.Liquidity, rec.Market),
	}
}

// CalculateGreedScore combines a volume spike signal, a price surge signal,
// and whale dominance. A missing 7-day average zeroes its component.
func CalculateGreedScore(m types.MarketSnapshot, h types.HolderDistribution) int {
	var volumeSpike float64
	if m.AvgVolume7d > 0 {
		volumeSpike = clamp((m.Volume24h/m.AvgVolume7d - 1) * 40)
	}

	var priceSurge float64
	if m.AvgPrice7d > 0 {
		priceSurge = clamp((m.Price/m.AvgPrice7d - 1) * 100)
	}

	whaleDominance := clamp(h.Top10HolderPct * 1.5)

	return round(clamp(volumeSpike*0.25 + priceSurge*0.30 + whaleDominance*0.25))
}

// CalculateDecentralizationScore penalizes supply concentration in the top
// percentile holder groups.
func CalculateDecentralizationScore(h types.HolderDistribution) int {
	concentration := h.Top1Pct*0.65 + h.Top10Pct*0.25 + h.Top100Pct*0.10
	return round(clamp(100 - concentration))
}

// CalculateRetailScore rewards broad retail participation. The holder-count
// term is log scaled and capped so very large holder bases saturate.
func CalculateRetailScore(h types.HolderDistribution) int {
	holders := float64(h.TotalHolders)
	if holders < 1 {
		holders = 1
	}
	holderTerm := math.Min(10, math.Log10(holders)) * 2
	return round(clamp(h.RetailPct*1.5 - h.Top1Pct*0.8 + holderTerm))
}

// CalculateVolatilityScore combines 24h price movement with thin-volume risk.
// The volume term is zeroed when market cap is unknown.
func CalculateVolatilityScore(m types.MarketSnapshot) int {
	score := math.Abs(m.PriceChange24hPct) * 1.5
	if m.MarketCap > 0 {
		score += (1 - m.Volume24h/m.MarketCap) * 30
	}
	return round(clamp(score))
}

// CalculateLiquidityScore scales pooled DEX liquidity against market cap with
// a tier multiplier: small caps need proportionally less absolute liquidity.
func CalculateLiquidityScore(d types.LiquiditySnapshot, m types.MarketSnapshot) int {
	if m.MarketCap <= 0 {
		return 0
	}

	tierMultiplier := 175.0
	switch {
	case m.MarketCap < 1e8:
		tierMultiplier = 200
	case m.MarketCap > 1e9:
		tierMultiplier = 150
	}

	return round(clamp(d.LiquidityUSD / m.MarketCap * tierMultiplier))
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}

func round(v float64) int {
	return int(math.Round(v))
}
