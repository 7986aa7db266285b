package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tixpool-lab/backend/internal/model"
	"github.com/tixpool-lab/backend/pkg/errorx"
)

func Test_RoundDomain_StartRound(t *testing.T) {
	s := newTestSuite(t)

	_, err := s.round.StartRound(s.as("alice"), &model.StartRoundRequest{})
	require.True(t, errorx.Is(err, errorx.PermissionDenied))

	resp, err := s.round.StartRound(s.as("admin"), &model.StartRoundRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Round.ID)

	// A second round cannot open while the first is running.
	_, err = s.round.StartRound(s.as("admin"), &model.StartRoundRequest{})
	require.True(t, errorx.Is(err, errorx.RoundStillOpen))

	_, err = s.round.StartRound(afterRoundEnd(s.as("admin")), &model.StartRoundRequest{})
	require.NoError(t, err)
}

func Test_RoundDomain_FinalizeRound_BelowFeeThreshold(t *testing.T) {
	s := newTestSuite(t)
	round := s.openRound(t)

	buyCtx := s.as("alice")
	_, err := s.ticket.BuyTickets(buyCtx, &model.BuyTicketsRequest{NumberTickets: 3})
	require.NoError(t, err)

	_, err = s.round.FinalizeRound(s.as("admin"), &model.FinalizeRoundRequest{RoundID: round.ID})
	require.True(t, errorx.Is(err, errorx.RoundNotEnded))

	ctx := afterRoundEnd(s.as("admin"))
	resp, err := s.round.FinalizeRound(ctx, &model.FinalizeRoundRequest{RoundID: round.ID})
	require.NoError(t, err)

	// Three tickets are below the fee threshold: no fee, the pool is
	// untouched.
	require.Equal(t, uint64(0), resp.Fee)
	require.Equal(t, uint64(30), resp.Round.Accumulated)

	state, err := s.systemRepo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(0), state.AccruedFees)

	_, err = s.round.FinalizeRound(ctx, &model.FinalizeRoundRequest{RoundID: round.ID})
	require.True(t, errorx.Is(err, errorx.RoundFinalized))
}

func Test_RoundDomain_FinalizeRound_TakesFeeAboveThreshold(t *testing.T) {
	s := newTestSuite(t)
	round := s.openRound(t)

	// Two maximum batches reach the fee threshold of 100 tickets.
	buyCtx := s.as("alice")
	for i := 0; i < 2; i++ {
		_, err := s.ticket.BuyTickets(buyCtx, &model.BuyTicketsRequest{NumberTickets: 50})
		require.NoError(t, err)
	}

	ctx := afterRoundEnd(s.as("admin"))
	resp, err := s.round.FinalizeRound(ctx, &model.FinalizeRoundRequest{RoundID: round.ID})
	require.NoError(t, err)

	// 1000 pooled at a 500 bps round fee.
	require.Equal(t, uint64(50), resp.Fee)
	require.Equal(t, uint64(950), resp.Round.Accumulated)

	state, err := s.systemRepo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(50), state.AccruedFees)
}

func Test_RoundDomain_GetRound(t *testing.T) {
	s := newTestSuite(t)
	round := s.openRound(t)

	resp, err := s.round.GetRound(s.ctx, &model.GetRoundRequest{RoundID: round.ID})
	require.NoError(t, err)
	require.Equal(t, round.ID, resp.Round.ID)

	// An empty id returns the latest round.
	resp, err = s.round.GetRound(s.ctx, &model.GetRoundRequest{})
	require.NoError(t, err)
	require.Equal(t, round.ID, resp.Round.ID)

	_, err = s.round.GetRound(s.ctx, &model.GetRoundRequest{RoundID: "missing"})
	require.True(t, errorx.Is(err, errorx.NotFound))
}
