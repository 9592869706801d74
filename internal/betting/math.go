// Package betting reimplements the betting program's fee-split,
// odds and reputation-tier arithmetic so callers can display derived
// values without an on-chain call. Integer semantics must match the
// program bit for bit: fees use basis points with floored division,
// and only the payout share step is real-valued.
package betting

import "math"

// Fee split in basis points. The three constants sum to 10000 by
// construction; this is not re-checked at runtime.
const (
	WinnerPoolBps  = 9400
	CreatorFeeBps  = 500
	PlatformFeeBps = 100

	bpsDenom = 10000
)

// Odds returns each side's percentage of the combined pool, rounded
// independently. An empty market reads as an even 50/50 split. The two
// results may sum to 99 or 101; that is accepted display behavior.
func Odds(poolA, poolB int64) (oddsA, oddsB int) {
	total := poolA + poolB
	if total == 0 {
		return 50, 50
	}
	oddsA = int(math.Round(float64(poolA) / float64(total) * 100))
	oddsB = int(math.Round(float64(poolB) / float64(total) * 100))
	return oddsA, oddsB
}

// WinnerPool is the 94% share of the total pool paid out to winners.
func WinnerPool(totalPool int64) int64 {
	return totalPool * WinnerPoolBps / bpsDenom
}

// CreatorReward is the 5% share paid to the market creator.
func CreatorReward(totalPool int64) int64 {
	return totalPool * CreatorFeeBps / bpsDenom
}

// PlatformFee is the 1% share retained by the platform.
func PlatformFee(totalPool int64) int64 {
	return totalPool * PlatformFeeBps / bpsDenom
}

// EstimatedPayout estimates winnings for a candidate bet. Both pool
// arguments are post-bet values, i.e. they already include betAmount.
// The share is real-valued; flooring happens only at the final step.
func EstimatedPayout(betAmount, optionPoolAfter, totalPoolAfter int64) int64 {
	if optionPoolAfter == 0 {
		return 0
	}
	winnerPool := WinnerPool(totalPoolAfter)
	share := float64(betAmount) / float64(optionPoolAfter)
	return int64(math.Floor(float64(winnerPool) * share))
}

// ReputationTier maps prediction volume and accuracy (basis points) to
// a tier in [1,10]. The thresholds are strict and checked in order; a
// user can fail every rung and land back at tier 1 regardless of
// history (20 predictions at exactly 4000 bps is tier 1).
func ReputationTier(totalPredictions, accuracyScore int64) int {
	switch {
	case totalPredictions < 5:
		return 1
	case totalPredictions < 15 && accuracyScore > 4000:
		return 2
	case totalPredictions < 30 && accuracyScore > 4500:
		return 3
	case totalPredictions < 50 && accuracyScore > 5000:
		return 4
	case totalPredictions < 75 && accuracyScore > 5500:
		return 5
	case totalPredictions < 100 && accuracyScore > 6000:
		return 6
	case totalPredictions < 150 && accuracyScore > 6500:
		return 7
	case totalPredictions < 200 && accuracyScore > 7000:
		return 8
	case totalPredictions < 300 && accuracyScore > 7500:
		return 9
	case accuracyScore > 8000:
		return 10
	default:
		return 1
	}
}
