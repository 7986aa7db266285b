package domain

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tixpool-lab/backend/internal/domain/engine"
	"github.com/tixpool-lab/backend/internal/entity"
	"github.com/tixpool-lab/backend/internal/repository"
	"github.com/tixpool-lab/backend/pkg/errorx"
	"github.com/tixpool-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// poolAllocator hides the pooling strategy from the draw and claim flows.
// Shared mode funds winners from the current round's pool, tiered mode from
// persistent per-tier pools.
type poolAllocator interface {
	Table() engine.Table

	// CurrentPoolRef returns the pool reference stamped on tickets sold
	// right now. Null in tiered mode.
	CurrentPoolRef(ctx context.Context) (sql.NullString, error)

	// Accrue splits a purchase amount and credits the pools. The returned
	// split also carries the fee share for the caller to book.
	Accrue(ctx context.Context, ticket *entity.Ticket, amount uint64) (engine.Split, error)

	// CanDraw reports whether the ticket is eligible for drawing under this
	// strategy, beyond the ticket's own state.
	CanDraw(ctx context.Context, ticket *entity.Ticket) error

	// TopTierState reports whether the guaranteed top-tier win of the
	// ticket's pool is still pending, and the pool's ticket count for the
	// hit check. Never pending in tiered mode.
	TopTierState(ctx context.Context, ticket *entity.Ticket) (bool, int, error)

	// AwardTopTier marks the ticket's pool as having produced its top-tier
	// win. errorx.AlreadyExists when another ticket got there first.
	AwardTopTier(ctx context.Context, ticket *entity.Ticket) error

	// Available returns the undrawn funds backing a win of the given tier.
	Available(ctx context.Context, ticket *entity.Ticket, tier entity.PrizeTier) (uint64, error)

	// CheckAndDebitPayout debits up to amount from the backing pool.
	// gorm.ErrRecordNotFound when the pool cannot cover it.
	CheckAndDebitPayout(ctx context.Context, ticket *entity.Ticket, tier entity.PrizeTier, amount uint64) error

	RecordWin(ctx context.Context, ticket *entity.Ticket, tier entity.PrizeTier) error
}

type sharedPoolAllocator struct {
	table     engine.Table
	roundRepo repository.RoundRepository
}

func newSharedPoolAllocator(table engine.Table, roundRepo repository.RoundRepository) *sharedPoolAllocator {
	return &sharedPoolAllocator{table: table, roundRepo: roundRepo}
}

func (a *sharedPoolAllocator) Table() engine.Table {
	return a.table
}

func (a *sharedPoolAllocator) CurrentPoolRef(ctx context.Context) (sql.NullString, error) {
	round, err := a.roundRepo.GetLast(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return sql.NullString{}, errorx.New(errorx.NotFound, "No round is open")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the current round: %v", err)
		return sql.NullString{}, errorx.Unknown
	}

	if round.Finalized || round.Ended(requestTime(ctx)) {
		return sql.NullString{}, errorx.New(errorx.NotFound, "No round is open")
	}

	return sql.NullString{Valid: true, String: round.ID}, nil
}

func (a *sharedPoolAllocator) Accrue(ctx context.Context, ticket *entity.Ticket, amount uint64) (engine.Split, error) {
	split := engine.SplitAmount(amount, a.table)
	if err := a.roundRepo.AddTicket(ctx, ticket.RoundID.String, split.Pooled()); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot accrue into round %s: %v", ticket.RoundID.String, err)
		return engine.Split{}, errorx.Unknown
	}

	return split, nil
}

func (a *sharedPoolAllocator) CanDraw(ctx context.Context, ticket *entity.Ticket) error {
	round, err := a.round(ctx, ticket)
	if err != nil {
		return err
	}

	if !round.Ended(requestTime(ctx)) {
		return errorx.New(errorx.RoundStillOpen, "Round has not ended yet")
	}

	return nil
}

func (a *sharedPoolAllocator) TopTierState(ctx context.Context, ticket *entity.Ticket) (bool, int, error) {
	round, err := a.round(ctx, ticket)
	if err != nil {
		return false, 0, err
	}

	return !round.TopTierAwarded, round.TotalTickets, nil
}

func (a *sharedPoolAllocator) AwardTopTier(ctx context.Context, ticket *entity.Ticket) error {
	err := a.roundRepo.CheckAndAwardTopTier(ctx, ticket.RoundID.String, ticket.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.AlreadyExists, "Top prize of this round is already taken")
		}

		xcontext.Logger(ctx).Errorf("Cannot award top tier: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (a *sharedPoolAllocator) Available(ctx context.Context, ticket *entity.Ticket, tier entity.PrizeTier) (uint64, error) {
	round, err := a.round(ctx, ticket)
	if err != nil {
		return 0, err
	}

	return round.Accumulated - round.PaidOut, nil
}

func (a *sharedPoolAllocator) CheckAndDebitPayout(ctx context.Context, ticket *entity.Ticket, tier entity.PrizeTier, amount uint64) error {
	return a.roundRepo.CheckAndDebitPayout(ctx, ticket.RoundID.String, amount)
}

func (a *sharedPoolAllocator) RecordWin(ctx context.Context, ticket *entity.Ticket, tier entity.PrizeTier) error {
	return a.roundRepo.IncrementWinCount(ctx, ticket.RoundID.String)
}

func (a *sharedPoolAllocator) round(ctx context.Context, ticket *entity.Ticket) (*entity.Round, error) {
	if !ticket.RoundID.Valid {
		return nil, errorx.New(errorx.Internal, "Ticket is not bound to a round")
	}

	round, err := a.roundRepo.GetByID(ctx, ticket.RoundID.String)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get round of ticket %d: %v", ticket.ID, err)
		return nil, errorx.Unknown
	}

	return round, nil
}

type tieredPoolAllocator struct {
	table    engine.Table
	poolRepo repository.PoolRepository
}

func newTieredPoolAllocator(table engine.Table, poolRepo repository.PoolRepository) *tieredPoolAllocator {
	return &tieredPoolAllocator{table: table, poolRepo: poolRepo}
}

func (a *tieredPoolAllocator) Table() engine.Table {
	return a.table
}

func (a *tieredPoolAllocator) CurrentPoolRef(ctx context.Context) (sql.NullString, error) {
	return sql.NullString{}, nil
}

func (a *tieredPoolAllocator) Accrue(ctx context.Context, ticket *entity.Ticket, amount uint64) (engine.Split, error) {
	split := engine.SplitAmount(amount, a.table)
	for i, tc := range a.table.Tiers {
		if err := a.poolRepo.AddFunds(ctx, tc.Tier, split.TierShares[i]); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot accrue into %s pool: %v", tc.Tier, err)
			return engine.Split{}, errorx.Unknown
		}

		if err := a.poolRepo.IncrementTicketCount(ctx, tc.Tier); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count ticket in %s pool: %v", tc.Tier, err)
			return engine.Split{}, errorx.Unknown
		}
	}

	return split, nil
}

func (a *tieredPoolAllocator) CanDraw(ctx context.Context, ticket *entity.Ticket) error {
	return nil
}

func (a *tieredPoolAllocator) TopTierState(ctx context.Context, ticket *entity.Ticket) (bool, int, error) {
	return false, 0, nil
}

func (a *tieredPoolAllocator) AwardTopTier(ctx context.Context, ticket *entity.Ticket) error {
	return nil
}

func (a *tieredPoolAllocator) Available(ctx context.Context, ticket *entity.Ticket, tier entity.PrizeTier) (uint64, error) {
	pool, err := a.poolRepo.Get(ctx, tier)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get %s pool: %v", tier, err)
		return 0, errorx.Unknown
	}

	return pool.Accumulated - pool.PaidOut, nil
}

func (a *tieredPoolAllocator) CheckAndDebitPayout(ctx context.Context, ticket *entity.Ticket, tier entity.PrizeTier, amount uint64) error {
	return a.poolRepo.CheckAndDebitPayout(ctx, tier, amount)
}

func (a *tieredPoolAllocator) RecordWin(ctx context.Context, ticket *entity.Ticket, tier entity.PrizeTier) error {
	return a.poolRepo.IncrementWinCount(ctx, tier)
}

func NewPoolAllocator(
	mode string,
	roundRepo repository.RoundRepository,
	poolRepo repository.PoolRepository,
) (poolAllocator, error) {
	table, err := engine.TableForMode(mode)
	if err != nil {
		return nil, err
	}

	if mode == "tiered" {
		return newTieredPoolAllocator(table, poolRepo), nil
	}

	return newSharedPoolAllocator(table, roundRepo), nil
}
