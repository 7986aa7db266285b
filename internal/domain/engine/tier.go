package engine

import (
	"fmt"

	"github.com/tixpool-lab/backend/internal/entity"
)

const (
	// Denominator is the probability and ratio space. All fixed-point math
	// in this package is integer basis points over this constant.
	Denominator int64 = 10000

	// TotalWinRate is the documented overall win rate. The win
	// probabilities of all tiers must sum to exactly this value.
	TotalWinRate int64 = 2500
)

type TierConfig struct {
	Tier entity.PrizeTier

	// WinProbability is the chance of this tier winning one draw, in basis
	// points of Denominator.
	WinProbability int64

	// PoolShare is the fraction of available pool funds paid to a winner
	// of this tier, in basis points. It is also the accrual ratio of the
	// tier's own pool in tiered mode.
	PoolShare int64
}

// Table is the fixed tier configuration of one pooling mode. Tiers are
// ordered from lowest payout to highest; the last tier is the top tier.
type Table struct {
	Tiers []TierConfig

	// FeeRate is the protocol fee charged on every purchase, in basis
	// points.
	FeeRate int64

	// AccrualRate is the fraction of every purchase accrued into the
	// shared round pool on top of the tier shares. Zero in tiered mode.
	AccrualRate int64
}

// SharedTable returns the tier configuration of shared mode: one pool per
// round, purchase fee taken up front, the rest accrued into the round pool.
func SharedTable() Table {
	return Table{
		Tiers: []TierConfig{
			{Tier: entity.TierSmall, WinProbability: 2010, PoolShare: 1000},
			{Tier: entity.TierMedium, WinProbability: 400, PoolShare: 2500},
			{Tier: entity.TierGrand, WinProbability: 80, PoolShare: 1800},
			{Tier: entity.TierSuper, WinProbability: 10, PoolShare: 2000},
		},
		FeeRate:     500,
		AccrualRate: 2200,
	}
}

// TieredTable returns the tier configuration of tiered mode: persistent
// per-tier pools, every purchase split across them in full.
func TieredTable() Table {
	return Table{
		Tiers: []TierConfig{
			{Tier: entity.TierSmall, WinProbability: 2010, PoolShare: 1000},
			{Tier: entity.TierMedium, WinProbability: 400, PoolShare: 2000},
			{Tier: entity.TierGrand, WinProbability: 80, PoolShare: 3000},
			{Tier: entity.TierSuper, WinProbability: 10, PoolShare: 4000},
		},
		FeeRate:     0,
		AccrualRate: 0,
	}
}

// TableForMode returns the validated tier table of the configured pooling
// mode.
func TableForMode(mode string) (Table, error) {
	var table Table
	switch mode {
	case "shared":
		table = SharedTable()
	case "tiered":
		table = TieredTable()
	default:
		return Table{}, fmt.Errorf("unknown pooling mode %q", mode)
	}

	if err := table.Validate(); err != nil {
		return Table{}, err
	}

	return table, nil
}

// Validate checks the standing configuration invariants. A violation is
// fatal: the system must refuse to initialize.
func (t Table) Validate() error {
	if len(t.Tiers) == 0 {
		return fmt.Errorf("tier table is empty")
	}

	var probSum, shareSum int64
	for _, tc := range t.Tiers {
		if tc.WinProbability <= 0 || tc.PoolShare <= 0 {
			return fmt.Errorf("tier %s has non-positive probability or share", tc.Tier)
		}

		probSum += tc.WinProbability
		shareSum += tc.PoolShare
	}

	if probSum != TotalWinRate {
		return fmt.Errorf("tier win probabilities sum to %d bps, want %d", probSum, TotalWinRate)
	}

	if total := shareSum + t.FeeRate + t.AccrualRate; total != Denominator {
		return fmt.Errorf("pool shares + fee + accrual sum to %d bps, want %d", total, Denominator)
	}

	return nil
}

func (t Table) Find(tier entity.PrizeTier) (TierConfig, bool) {
	for _, tc := range t.Tiers {
		if tc.Tier == tier {
			return tc, true
		}
	}

	return TierConfig{}, false
}

// Top returns the top tier, which is always the last of the table.
func (t Table) Top() TierConfig {
	return t.Tiers[len(t.Tiers)-1]
}
