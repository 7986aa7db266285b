package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_RoundFee(t *testing.T) {
	// Below the ticket threshold no fee is taken at all.
	require.Equal(t, uint64(0), RoundFee(100_000, 99, 500, 100))
	require.Equal(t, uint64(5000), RoundFee(100_000, 100, 500, 100))

	require.Equal(t, uint64(0), RoundFee(100_000, 1000, 0, 0))
	require.Equal(t, uint64(0), RoundFee(19, 1000, 500, 0))
}
