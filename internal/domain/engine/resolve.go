package engine

import "github.com/tixpool-lab/backend/internal/entity"

// Resolve maps one random draw onto the tier table. The random value is
// reduced modulo Denominator, then tiers are scanned from lowest payout to
// highest against cumulative probability thresholds: the draw wins the first
// tier whose threshold exceeds it.
func Resolve(random uint64, t Table) entity.PrizeTier {
	r := int64(random % uint64(Denominator))

	var cumulative int64
	for _, tc := range t.Tiers {
		cumulative += tc.WinProbability
		if r < cumulative {
			return tc.Tier
		}
	}

	return entity.TierNone
}

// TopTierHit is the guaranteed-winner check of shared mode: a second modulus
// over the round's total ticket count, independent of the ordinary tier
// scan. Over a round of N tickets it fires once on average; the round's
// awarded flag caps it at exactly one.
func TopTierHit(random uint64, totalTickets int) bool {
	if totalTickets <= 0 {
		return false
	}

	return (random/uint64(Denominator))%uint64(totalTickets) == 0
}

// PayoutFor computes the payout of a winning tier from the currently
// available pool funds, floor division, and raises it to floorAmount so a
// non-zero win never resolves to a zero payout even against a drained pool.
func PayoutFor(available uint64, shareRate int64, floorAmount uint64) uint64 {
	payout := available * uint64(shareRate) / uint64(Denominator)
	if payout < floorAmount {
		return floorAmount
	}

	return payout
}
