package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tixpool-lab/backend/internal/entity"
	"github.com/tixpool-lab/backend/internal/model"
	"github.com/tixpool-lab/backend/pkg/errorx"
)

func Test_TieredMode_NoRoundNeeded(t *testing.T) {
	s := newTestSuiteMode(t, "tiered", 11000)
	ctx := s.as("alice")

	// No round exists and none is needed.
	buyResp, err := s.ticket.BuyTickets(ctx, &model.BuyTicketsRequest{NumberTickets: 1})
	require.NoError(t, err)
	require.Empty(t, buyResp.Tickets[0].RoundID)

	// A 10 unit purchase splits 1/2/3/4 across the persistent pools.
	small, err := s.poolRepo.Get(ctx, entity.TierSmall)
	require.NoError(t, err)
	require.Equal(t, uint64(1), small.Accumulated)
	require.Equal(t, 1, small.TicketCount)

	super, err := s.poolRepo.Get(ctx, entity.TierSuper)
	require.NoError(t, err)
	require.Equal(t, uint64(4), super.Accumulated)

	// Tickets are drawable immediately, there is no waiting window.
	drawResp, err := s.ticket.DrawTicket(ctx, &model.DrawTicketRequest{TicketID: buyResp.Tickets[0].ID})
	require.NoError(t, err)
	require.Equal(t, string(entity.TierSmall), drawResp.Ticket.Tier)

	// The small pool holds 1 unit, the floor of 5 applies.
	require.Equal(t, uint64(5), drawResp.Ticket.PayoutAmount)
}

func Test_TieredMode_ClaimDebitsTierPool(t *testing.T) {
	s := newTestSuiteMode(t, "tiered", 11000)
	ctx := s.as("alice")

	buyResp, err := s.ticket.BuyTickets(ctx, &model.BuyTicketsRequest{NumberTickets: 1})
	require.NoError(t, err)

	drawResp, err := s.ticket.DrawTicket(ctx, &model.DrawTicketRequest{TicketID: buyResp.Tickets[0].ID})
	require.NoError(t, err)
	require.Equal(t, uint64(5), drawResp.Ticket.PayoutAmount)

	claimResp, err := s.ticket.ClaimPrize(ctx, &model.ClaimPrizeRequest{TicketID: buyResp.Tickets[0].ID})
	require.NoError(t, err)
	require.Equal(t, uint64(5), claimResp.Amount)

	// The small pool covers 1 unit of the floored payout and the rest is
	// booked as shortfall.
	small, err := s.poolRepo.Get(ctx, entity.TierSmall)
	require.NoError(t, err)
	require.Equal(t, uint64(1), small.PaidOut)
	require.Equal(t, 1, small.WinCount)

	state, err := s.systemRepo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(4), state.FloorShortfall)
}

func Test_SharedMode_BuyRequiresUnfinalizedRound(t *testing.T) {
	s := newTestSuite(t)

	_, err := s.ticket.BuyTickets(s.as("alice"), &model.BuyTicketsRequest{NumberTickets: 1})
	require.True(t, errorx.Is(err, errorx.NotFound))
}
