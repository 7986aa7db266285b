package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tixpool-lab/backend/internal/entity"
	"github.com/tixpool-lab/backend/internal/model"
	"github.com/tixpool-lab/backend/pkg/errorx"
)

func Test_TicketDomain_BuyTickets(t *testing.T) {
	s := newTestSuite(t)
	round := s.openRound(t)
	ctx := s.as("alice")

	resp, err := s.ticket.BuyTickets(ctx, &model.BuyTicketsRequest{NumberTickets: 3})
	require.NoError(t, err)
	require.Len(t, resp.Tickets, 3)

	for _, ticket := range resp.Tickets {
		require.Equal(t, "alice", ticket.OwnerID)
		require.Equal(t, round.ID, ticket.RoundID)
		require.Equal(t, uint64(10), ticket.Price)
		require.False(t, ticket.Resolved)
	}

	// Every unit of the purchase lands in the round pool, the fee share of
	// a 10 unit price floors to zero.
	got, err := s.roundRepo.GetByID(ctx, round.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(30), got.Accumulated)
	require.Equal(t, 3, got.TotalTickets)

	state, err := s.systemRepo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(30), state.TotalReceived)
	require.Equal(t, int64(3), state.TotalTickets)
}

func Test_TicketDomain_BuyTickets_Limits(t *testing.T) {
	s := newTestSuite(t)
	s.openRound(t)
	ctx := s.as("alice")

	_, err := s.ticket.BuyTickets(ctx, &model.BuyTicketsRequest{NumberTickets: 0})
	require.True(t, errorx.Is(err, errorx.BadRequest))

	_, err = s.ticket.BuyTickets(ctx, &model.BuyTicketsRequest{NumberTickets: 51})
	require.True(t, errorx.Is(err, errorx.BatchTooLarge))
}

func Test_TicketDomain_BuyTickets_InsufficientBalanceBuysNothing(t *testing.T) {
	s := newTestSuite(t)
	s.openRound(t)
	ctx := s.as("alice")

	_, err := s.vault.Deposit(ctx, &model.DepositRequest{Amount: 25})
	require.NoError(t, err)

	_, err = s.ticket.BuyTickets(ctx, &model.BuyTicketsRequest{NumberTickets: 3, UseBalance: true})
	require.True(t, errorx.Is(err, errorx.InsufficientFunds))

	tickets, err := s.ticketRepo.GetByOwnerID(ctx, "alice")
	require.NoError(t, err)
	require.Empty(t, tickets)

	balance, err := s.balanceRepo.Get(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, uint64(25), balance.Amount)
}

func Test_TicketDomain_BuyTickets_RequiresOpenRound(t *testing.T) {
	s := newTestSuite(t)
	s.openRound(t)

	ctx := afterRoundEnd(s.as("alice"))
	_, err := s.ticket.BuyTickets(ctx, &model.BuyTicketsRequest{NumberTickets: 1})
	require.True(t, errorx.Is(err, errorx.NotFound))
}

func Test_TicketDomain_DrawTicket_AtMostOnce(t *testing.T) {
	// 11000 reduces to 1000, a small tier win without a top-tier hit.
	s := newTestSuite(t, 11000)
	s.openRound(t)
	ctx := s.as("alice")

	buyResp, err := s.ticket.BuyTickets(ctx, &model.BuyTicketsRequest{NumberTickets: 3})
	require.NoError(t, err)
	ticketID := buyResp.Tickets[0].ID

	ctx = afterRoundEnd(ctx)
	drawResp, err := s.ticket.DrawTicket(ctx, &model.DrawTicketRequest{TicketID: ticketID})
	require.NoError(t, err)
	require.True(t, drawResp.Ticket.Resolved)
	require.Equal(t, string(entity.TierSmall), drawResp.Ticket.Tier)

	// 30 available at 1000 bps is 3, raised to the payout floor of 5.
	require.Equal(t, uint64(5), drawResp.Ticket.PayoutAmount)

	_, err = s.ticket.DrawTicket(ctx, &model.DrawTicketRequest{TicketID: ticketID})
	require.True(t, errorx.Is(err, errorx.AlreadyDrawn))
}

func Test_TicketDomain_DrawTicket_RejectsOpenRound(t *testing.T) {
	s := newTestSuite(t)
	s.openRound(t)
	ctx := s.as("alice")

	buyResp, err := s.ticket.BuyTickets(ctx, &model.BuyTicketsRequest{NumberTickets: 2})
	require.NoError(t, err)

	_, err = s.ticket.DrawTicket(ctx, &model.DrawTicketRequest{TicketID: buyResp.Tickets[0].ID})
	require.True(t, errorx.Is(err, errorx.RoundStillOpen))

	canResp, err := s.ticket.CanDraw(ctx, &model.CanDrawRequest{TicketID: buyResp.Tickets[0].ID})
	require.NoError(t, err)
	require.False(t, canResp.CanDraw)

	canResp, err = s.ticket.CanDraw(afterRoundEnd(ctx), &model.CanDrawRequest{TicketID: buyResp.Tickets[0].ID})
	require.NoError(t, err)
	require.True(t, canResp.CanDraw)
}

func Test_TicketDomain_DrawTicket_RejectsForeignTicket(t *testing.T) {
	s := newTestSuite(t)
	s.openRound(t)

	buyResp, err := s.ticket.BuyTickets(s.as("alice"), &model.BuyTicketsRequest{NumberTickets: 1})
	require.NoError(t, err)

	ctx := afterRoundEnd(s.as("bob"))
	_, err = s.ticket.DrawTicket(ctx, &model.DrawTicketRequest{TicketID: buyResp.Tickets[0].ID})
	require.True(t, errorx.Is(err, errorx.NotOwner))
}

func Test_TicketDomain_TopTierAwardedOncePerRound(t *testing.T) {
	// A value under 10000 always lands the top-tier check. The first draw
	// takes the guaranteed win, the second falls back to its own band.
	s := newTestSuite(t, 5, 5, 12600)
	s.openRound(t)
	ctx := s.as("alice")

	buyResp, err := s.ticket.BuyTickets(ctx, &model.BuyTicketsRequest{NumberTickets: 3})
	require.NoError(t, err)

	ctx = afterRoundEnd(ctx)
	first, err := s.ticket.DrawTicket(ctx, &model.DrawTicketRequest{TicketID: buyResp.Tickets[0].ID})
	require.NoError(t, err)
	require.Equal(t, string(entity.TierSuper), first.Ticket.Tier)

	second, err := s.ticket.DrawTicket(ctx, &model.DrawTicketRequest{TicketID: buyResp.Tickets[1].ID})
	require.NoError(t, err)
	require.Equal(t, string(entity.TierSmall), second.Ticket.Tier)

	third, err := s.ticket.DrawTicket(ctx, &model.DrawTicketRequest{TicketID: buyResp.Tickets[2].ID})
	require.NoError(t, err)
	require.Equal(t, string(entity.TierNone), third.Ticket.Tier)
	require.Equal(t, uint64(0), third.Ticket.PayoutAmount)

	round, err := s.roundRepo.GetByID(ctx, first.Ticket.RoundID)
	require.NoError(t, err)
	require.True(t, round.TopTierAwarded)
	require.Equal(t, first.Ticket.ID, round.TopTierTicketID.Int64)
	require.Equal(t, 2, round.WinCount)
}

func Test_TicketDomain_DrawAllTickets_SkipsResolved(t *testing.T) {
	s := newTestSuite(t, 12600)
	s.openRound(t)
	ctx := s.as("alice")

	buyResp, err := s.ticket.BuyTickets(ctx, &model.BuyTicketsRequest{NumberTickets: 3})
	require.NoError(t, err)

	ctx = afterRoundEnd(ctx)
	_, err = s.ticket.DrawTicket(ctx, &model.DrawTicketRequest{TicketID: buyResp.Tickets[0].ID})
	require.NoError(t, err)

	allResp, err := s.ticket.DrawAllTickets(ctx, &model.DrawAllTicketsRequest{})
	require.NoError(t, err)
	require.Len(t, allResp.Tickets, 2)
	require.Empty(t, allResp.Skipped)

	// Nothing pending remains.
	allResp, err = s.ticket.DrawAllTickets(ctx, &model.DrawAllTicketsRequest{})
	require.NoError(t, err)
	require.Empty(t, allResp.Tickets)
}

func Test_TicketDomain_DrawTickets_ReportsSkipped(t *testing.T) {
	s := newTestSuite(t, 12600)
	s.openRound(t)
	ctx := s.as("alice")

	buyResp, err := s.ticket.BuyTickets(ctx, &model.BuyTicketsRequest{NumberTickets: 2})
	require.NoError(t, err)

	ctx = afterRoundEnd(ctx)
	_, err = s.ticket.DrawTicket(ctx, &model.DrawTicketRequest{TicketID: buyResp.Tickets[0].ID})
	require.NoError(t, err)

	resp, err := s.ticket.DrawTickets(ctx, &model.DrawTicketsRequest{
		TicketIDs: []int64{buyResp.Tickets[0].ID, buyResp.Tickets[1].ID, 424242},
	})
	require.NoError(t, err)
	require.Len(t, resp.Tickets, 1)
	require.ElementsMatch(t, []int64{buyResp.Tickets[0].ID, 424242}, resp.Skipped)
}

func Test_TicketDomain_ClaimPrize_AtMostOnce(t *testing.T) {
	s := newTestSuite(t, 11000)
	s.openRound(t)
	ctx := s.as("alice")

	buyResp, err := s.ticket.BuyTickets(ctx, &model.BuyTicketsRequest{NumberTickets: 3})
	require.NoError(t, err)
	ticketID := buyResp.Tickets[0].ID

	ctx = afterRoundEnd(ctx)
	drawResp, err := s.ticket.DrawTicket(ctx, &model.DrawTicketRequest{TicketID: ticketID})
	require.NoError(t, err)

	claimResp, err := s.ticket.ClaimPrize(ctx, &model.ClaimPrizeRequest{TicketID: ticketID})
	require.NoError(t, err)
	require.Equal(t, drawResp.Ticket.PayoutAmount, claimResp.Amount)

	_, err = s.ticket.ClaimPrize(ctx, &model.ClaimPrizeRequest{TicketID: ticketID})
	require.True(t, errorx.Is(err, errorx.AlreadyClaimed))

	// The pool was debited exactly once and the winner was paid exactly
	// once.
	round, err := s.roundRepo.GetByID(ctx, drawResp.Ticket.RoundID)
	require.NoError(t, err)
	require.Equal(t, claimResp.Amount, round.PaidOut)

	transfers, err := s.transferRepo.GetByToUserID(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	require.Equal(t, claimResp.Amount, transfers[0].Amount)
}

func Test_TicketDomain_ClaimPrize_Rejections(t *testing.T) {
	s := newTestSuite(t, 12600)
	s.openRound(t)
	ctx := s.as("alice")

	buyResp, err := s.ticket.BuyTickets(ctx, &model.BuyTicketsRequest{NumberTickets: 2})
	require.NoError(t, err)

	_, err = s.ticket.ClaimPrize(ctx, &model.ClaimPrizeRequest{TicketID: buyResp.Tickets[0].ID})
	require.True(t, errorx.Is(err, errorx.NotDrawn))

	ctx = afterRoundEnd(ctx)
	drawResp, err := s.ticket.DrawTicket(ctx, &model.DrawTicketRequest{TicketID: buyResp.Tickets[0].ID})
	require.NoError(t, err)
	require.Equal(t, string(entity.TierNone), drawResp.Ticket.Tier)

	_, err = s.ticket.ClaimPrize(ctx, &model.ClaimPrizeRequest{TicketID: buyResp.Tickets[0].ID})
	require.True(t, errorx.Is(err, errorx.NoPrize))
}

func Test_TicketDomain_ClaimPrize_FloorShortfallCascade(t *testing.T) {
	s := newTestSuite(t, 11000)
	s.openRound(t)
	ctx := s.as("alice")

	buyResp, err := s.ticket.BuyTickets(ctx, &model.BuyTicketsRequest{NumberTickets: 3})
	require.NoError(t, err)
	ticketID := buyResp.Tickets[0].ID

	ctx = afterRoundEnd(ctx)
	drawResp, err := s.ticket.DrawTicket(ctx, &model.DrawTicketRequest{TicketID: ticketID})
	require.NoError(t, err)
	require.Equal(t, uint64(5), drawResp.Ticket.PayoutAmount)

	// Drain the pool down to 2 before the claim. The floored payout of 5
	// takes those 2, finds no accrued fees, and books 3 as shortfall.
	require.NoError(t, s.roundRepo.CheckAndDebitPayout(ctx, drawResp.Ticket.RoundID, 28))

	claimResp, err := s.ticket.ClaimPrize(ctx, &model.ClaimPrizeRequest{TicketID: ticketID})
	require.NoError(t, err)
	require.Equal(t, uint64(5), claimResp.Amount)

	state, err := s.systemRepo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(3), state.FloorShortfall)

	transfers, err := s.transferRepo.GetByToUserID(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	require.Equal(t, uint64(5), transfers[0].Amount)
}

func Test_TicketDomain_ClaimPrizes_AllOrNothing(t *testing.T) {
	s := newTestSuite(t, 11000, 12600)
	s.openRound(t)
	ctx := s.as("alice")

	buyResp, err := s.ticket.BuyTickets(ctx, &model.BuyTicketsRequest{NumberTickets: 2})
	require.NoError(t, err)

	ctx = afterRoundEnd(ctx)
	allResp, err := s.ticket.DrawAllTickets(ctx, &model.DrawAllTicketsRequest{})
	require.NoError(t, err)
	require.Len(t, allResp.Tickets, 2)

	// One winner and one loser in the same batch: the losing ticket aborts
	// the whole claim and the winner stays claimable.
	_, err = s.ticket.ClaimPrizes(ctx, &model.ClaimPrizesRequest{
		TicketIDs: []int64{buyResp.Tickets[0].ID, buyResp.Tickets[1].ID},
	})
	require.True(t, errorx.Is(err, errorx.NoPrize))

	round, err := s.roundRepo.GetLast(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(0), round.PaidOut)

	winner, err := s.ticketRepo.GetByID(ctx, buyResp.Tickets[0].ID)
	require.NoError(t, err)
	require.False(t, winner.Claimed)

	claimResp, err := s.ticket.ClaimPrizes(ctx, &model.ClaimPrizesRequest{
		TicketIDs: []int64{buyResp.Tickets[0].ID},
	})
	require.NoError(t, err)
	require.Equal(t, uint64(5), claimResp.Amount)
}

func Test_TicketDomain_ClaimPrizes_DuplicateIDs(t *testing.T) {
	s := newTestSuite(t, 11000)
	s.openRound(t)
	ctx := s.as("alice")

	buyResp, err := s.ticket.BuyTickets(ctx, &model.BuyTicketsRequest{NumberTickets: 1})
	require.NoError(t, err)

	ctx = afterRoundEnd(ctx)
	_, err = s.ticket.DrawTicket(ctx, &model.DrawTicketRequest{TicketID: buyResp.Tickets[0].ID})
	require.NoError(t, err)

	_, err = s.ticket.ClaimPrizes(ctx, &model.ClaimPrizesRequest{
		TicketIDs: []int64{buyResp.Tickets[0].ID, buyResp.Tickets[0].ID},
	})
	require.True(t, errorx.Is(err, errorx.BadRequest))

	// The rejection leaves no latch behind, the single claim still works.
	claimResp, err := s.ticket.ClaimPrizes(ctx, &model.ClaimPrizesRequest{
		TicketIDs: []int64{buyResp.Tickets[0].ID},
	})
	require.NoError(t, err)
	require.Equal(t, uint64(5), claimResp.Amount)
}

func Test_TicketDomain_PauseBlocksMutations(t *testing.T) {
	s := newTestSuite(t)
	s.openRound(t)

	_, err := s.system.Pause(s.as("admin"), &model.PauseRequest{})
	require.NoError(t, err)

	_, err = s.ticket.BuyTickets(s.as("alice"), &model.BuyTicketsRequest{NumberTickets: 1})
	require.True(t, errorx.Is(err, errorx.Paused))

	_, err = s.vault.Deposit(s.as("alice"), &model.DepositRequest{Amount: 10})
	require.True(t, errorx.Is(err, errorx.Paused))

	_, err = s.vault.Withdraw(s.as("alice"), &model.WithdrawRequest{Amount: 10})
	require.True(t, errorx.Is(err, errorx.Paused))

	_, err = s.vault.WithdrawAll(s.as("alice"), &model.WithdrawAllRequest{})
	require.True(t, errorx.Is(err, errorx.Paused))

	_, err = s.system.Unpause(s.as("admin"), &model.UnpauseRequest{})
	require.NoError(t, err)

	_, err = s.ticket.BuyTickets(s.as("alice"), &model.BuyTicketsRequest{NumberTickets: 1})
	require.NoError(t, err)
}
