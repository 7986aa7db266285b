package domain

import (
	"time"

	"github.com/tixpool-lab/backend/internal/entity"
	"github.com/tixpool-lab/backend/internal/model"
)

const defaultTimeLayout = time.RFC3339

func convertTicket(ticket *entity.Ticket) model.Ticket {
	return model.Ticket{
		ID:           ticket.ID,
		OwnerID:      ticket.OwnerID,
		RoundID:      ticket.RoundID.String,
		CreatedAt:    ticket.CreatedAt.Format(defaultTimeLayout),
		Price:        ticket.Price,
		Resolved:     ticket.Resolved,
		Tier:         string(ticket.Tier),
		PayoutAmount: ticket.PayoutAmount,
		Claimed:      ticket.Claimed,
	}
}

func convertRound(round *entity.Round) model.Round {
	return model.Round{
		ID:              round.ID,
		StartTime:       round.StartTime.Format(defaultTimeLayout),
		EndTime:         round.EndTime.Format(defaultTimeLayout),
		Accumulated:     round.Accumulated,
		PaidOut:         round.PaidOut,
		TotalTickets:    round.TotalTickets,
		WinCount:        round.WinCount,
		Finalized:       round.Finalized,
		FeeTaken:        round.FeeTaken,
		TopTierAwarded:  round.TopTierAwarded,
		TopTierTicketID: round.TopTierTicketID.Int64,
	}
}

func convertTierPool(pool *entity.TierPool) model.TierPool {
	return model.TierPool{
		Tier:        string(pool.Tier),
		Accumulated: pool.Accumulated,
		PaidOut:     pool.PaidOut,
		TicketCount: pool.TicketCount,
		WinCount:    pool.WinCount,
	}
}
