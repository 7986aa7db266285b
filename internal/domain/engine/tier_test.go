package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tixpool-lab/backend/internal/entity"
)

func Test_Table_Validate(t *testing.T) {
	require.NoError(t, SharedTable().Validate())
	require.NoError(t, TieredTable().Validate())

	broken := SharedTable()
	broken.Tiers[0].WinProbability++
	require.Error(t, broken.Validate())

	broken = SharedTable()
	broken.FeeRate++
	require.Error(t, broken.Validate())
}

func Test_TableForMode(t *testing.T) {
	table, err := TableForMode("shared")
	require.NoError(t, err)
	require.Equal(t, int64(2200), table.AccrualRate)

	table, err = TableForMode("tiered")
	require.NoError(t, err)
	require.Equal(t, int64(0), table.AccrualRate)
	require.Equal(t, int64(0), table.FeeRate)

	_, err = TableForMode("banana")
	require.Error(t, err)
}

func Test_Table_Top(t *testing.T) {
	require.Equal(t, entity.TierSuper, SharedTable().Top().Tier)
	require.Equal(t, entity.TierSuper, TieredTable().Top().Tier)
}

func Test_Table_Find(t *testing.T) {
	tc, ok := SharedTable().Find(entity.TierMedium)
	require.True(t, ok)
	require.Equal(t, int64(400), tc.WinProbability)

	_, ok = SharedTable().Find(entity.TierNone)
	require.False(t, ok)
}
