package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tixpool-lab/backend/pkg/errorx"
)

func Test_EntryGuard(t *testing.T) {
	guard := NewEntryGuard()

	require.NoError(t, guard.Acquire(ticketKey(1), ticketKey(2)))

	err := guard.Acquire(ticketKey(2))
	require.True(t, errorx.Is(err, errorx.Unavailable))

	guard.Release(ticketKey(1), ticketKey(2))
	require.NoError(t, guard.Acquire(ticketKey(2)))
}

func Test_EntryGuard_ReleasesPartialAcquire(t *testing.T) {
	guard := NewEntryGuard()

	require.NoError(t, guard.Acquire(balanceKey("alice")))

	// The conflicting batch must not keep the keys it grabbed before the
	// conflict.
	err := guard.Acquire(balanceKey("bob"), balanceKey("alice"))
	require.Error(t, err)
	require.NoError(t, guard.Acquire(balanceKey("bob")))
}
