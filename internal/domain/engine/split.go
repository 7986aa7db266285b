package engine

// Split is the deterministic division of one purchase amount across the
// configured ratios. Fee + all tier shares + accrual always equal the input
// amount exactly.
type Split struct {
	Fee uint64

	// TierShares is aligned with Table.Tiers.
	TierShares []uint64

	Accrual uint64
}

func (s Split) Total() uint64 {
	total := s.Fee + s.Accrual
	for _, share := range s.TierShares {
		total += share
	}

	return total
}

// Pooled returns everything except the fee, which is what accrues into
// pools.
func (s Split) Pooled() uint64 {
	return s.Total() - s.Fee
}

// SplitAmount divides amount across the table's basis-point ratios with
// floor division. The rounding remainder is never dropped: it goes to the
// accrual share when the table accrues, otherwise to the lowest tier share.
func SplitAmount(amount uint64, t Table) Split {
	split := Split{
		Fee:        amount * uint64(t.FeeRate) / uint64(Denominator),
		TierShares: make([]uint64, len(t.Tiers)),
		Accrual:    amount * uint64(t.AccrualRate) / uint64(Denominator),
	}

	assigned := split.Fee + split.Accrual
	for i, tc := range t.Tiers {
		split.TierShares[i] = amount * uint64(tc.PoolShare) / uint64(Denominator)
		assigned += split.TierShares[i]
	}

	remainder := amount - assigned
	if t.AccrualRate > 0 {
		split.Accrual += remainder
	} else {
		split.TierShares[0] += remainder
	}

	return split
}
