package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_SplitAmount_ConservesEveryUnit(t *testing.T) {
	amounts := []uint64{0, 1, 7, 10, 99, 100, 12345, 1_000_000_007}

	for _, table := range []Table{SharedTable(), TieredTable()} {
		for _, amount := range amounts {
			split := SplitAmount(amount, table)
			require.Equal(t, amount, split.Total())
			require.Equal(t, amount-split.Fee, split.Pooled())
		}
	}
}

func Test_SplitAmount_RemainderGoesToAccrual(t *testing.T) {
	// 10 units in shared mode: every ratio floors, two units remain.
	split := SplitAmount(10, SharedTable())
	require.Equal(t, uint64(0), split.Fee)
	require.Equal(t, []uint64{1, 2, 1, 2}, split.TierShares)
	require.Equal(t, uint64(4), split.Accrual)
}

func Test_SplitAmount_RemainderGoesToLowestTierWithoutAccrual(t *testing.T) {
	split := SplitAmount(9, TieredTable())
	require.Equal(t, uint64(0), split.Fee)
	require.Equal(t, uint64(0), split.Accrual)

	// Every ratio floors and three units remain; they land on the lowest
	// tier because no accrual share exists.
	require.Equal(t, []uint64{3, 1, 2, 3}, split.TierShares)
	require.Equal(t, uint64(9), split.Total())
}
