package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tixpool-lab/backend/internal/common"
	"github.com/tixpool-lab/backend/internal/domain/engine"
	"github.com/tixpool-lab/backend/internal/entity"
	"github.com/tixpool-lab/backend/internal/model"
	"github.com/tixpool-lab/backend/internal/repository"
	"github.com/tixpool-lab/backend/pkg/errorx"
	"github.com/tixpool-lab/backend/pkg/xcontext"
	"github.com/tixpool-lab/backend/pkg/xredis"
	"gorm.io/gorm"
)

type TicketDomain interface {
	BuyTickets(ctx context.Context, req *model.BuyTicketsRequest) (*model.BuyTicketsResponse, error)
	DrawTicket(ctx context.Context, req *model.DrawTicketRequest) (*model.DrawTicketResponse, error)
	DrawAllTickets(ctx context.Context, req *model.DrawAllTicketsRequest) (*model.BatchDrawResponse, error)
	DrawTickets(ctx context.Context, req *model.DrawTicketsRequest) (*model.BatchDrawResponse, error)
	ClaimPrize(ctx context.Context, req *model.ClaimPrizeRequest) (*model.ClaimPrizeResponse, error)
	ClaimPrizes(ctx context.Context, req *model.ClaimPrizesRequest) (*model.ClaimPrizesResponse, error)
	GetMyTickets(ctx context.Context, req *model.GetMyTicketsRequest) (*model.GetMyTicketsResponse, error)
	CanDraw(ctx context.Context, req *model.CanDrawRequest) (*model.CanDrawResponse, error)
}

type ticketDomain struct {
	ticketRepo  repository.TicketRepository
	balanceRepo repository.BalanceRepository
	systemRepo  repository.SystemRepository
	allocator   poolAllocator
	registry    Registry
	transferor  Transferor
	randomizer  engine.Randomizer
	redisClient xredis.Client
	emitter     *eventEmitter
	guard       *entryGuard
	idNode      *snowflake.Node
}

func NewTicketDomain(
	ticketRepo repository.TicketRepository,
	balanceRepo repository.BalanceRepository,
	systemRepo repository.SystemRepository,
	allocator poolAllocator,
	registry Registry,
	transferor Transferor,
	randomizer engine.Randomizer,
	redisClient xredis.Client,
	emitter *eventEmitter,
	guard *entryGuard,
	idNode *snowflake.Node,
) *ticketDomain {
	return &ticketDomain{
		ticketRepo:  ticketRepo,
		balanceRepo: balanceRepo,
		systemRepo:  systemRepo,
		allocator:   allocator,
		registry:    registry,
		transferor:  transferor,
		randomizer:  randomizer,
		redisClient: redisClient,
		emitter:     emitter,
		guard:       guard,
		idNode:      idNode,
	}
}

func (d *ticketDomain) BuyTickets(ctx context.Context, req *model.BuyTicketsRequest) (*model.BuyTicketsResponse, error) {
	cfg := xcontext.Configs(ctx).Lottery
	if req.NumberTickets <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Number of tickets must be positive")
	}

	if req.NumberTickets > cfg.MaxBatchSize {
		return nil, errorx.New(errorx.BatchTooLarge, "Cannot buy more than %d tickets at once", cfg.MaxBatchSize)
	}

	if err := ensureNotPaused(ctx, d.systemRepo); err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	if err := d.guard.Acquire(balanceKey(userID)); err != nil {
		return nil, err
	}
	defer d.guard.Release(balanceKey(userID))

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	roundID, err := d.allocator.CurrentPoolRef(ctx)
	if err != nil {
		return nil, err
	}

	total := cfg.TicketPrice * uint64(req.NumberTickets)
	if req.UseBalance {
		if err := d.balanceRepo.CheckAndDebitForPurchase(ctx, userID, total); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.InsufficientFunds, "Your balance cannot cover %d", total)
			}

			xcontext.Logger(ctx).Errorf("Cannot debit balance for purchase: %v", err)
			return nil, errorx.Unknown
		}
	}

	tickets := make([]model.Ticket, 0, req.NumberTickets)
	ticketIDs := make([]int64, 0, req.NumberTickets)
	var fees uint64
	for i := 0; i < req.NumberTickets; i++ {
		ticket := &entity.Ticket{
			SnowFlakeBase: entity.SnowFlakeBase{ID: d.idNode.Generate().Int64()},
			RoundID:       roundID,
			Price:         cfg.TicketPrice,
			Tier:          entity.TierNone,
		}

		if err := d.ticketRepo.Create(ctx, ticket); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create ticket: %v", err)
			return nil, errorx.Unknown
		}

		if err := d.registry.MintTo(ctx, ticket.ID, userID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot mint ticket %d: %v", ticket.ID, err)
			return nil, errorx.Unknown
		}
		ticket.OwnerID = userID

		split, err := d.allocator.Accrue(ctx, ticket, cfg.TicketPrice)
		if err != nil {
			return nil, err
		}

		fees += split.Fee
		tickets = append(tickets, convertTicket(ticket))
		ticketIDs = append(ticketIDs, ticket.ID)
	}

	if fees > 0 {
		if err := d.systemRepo.AddFees(ctx, fees); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot accrue purchase fees: %v", err)
			return nil, errorx.Unknown
		}
	}

	if err := d.systemRepo.AddReceived(ctx, total, int64(req.NumberTickets)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update system totals: %v", err)
		return nil, errorx.Unknown
	}

	d.emitter.Emit(ctx, entity.EventTicketPurchased, entity.Map{
		"user_id":    userID,
		"ticket_ids": ticketIDs,
		"amount":     total,
	})

	xcontext.WithCommitDBTransaction(ctx)
	return &model.BuyTicketsResponse{Tickets: tickets}, nil
}

func (d *ticketDomain) DrawTicket(ctx context.Context, req *model.DrawTicketRequest) (*model.DrawTicketResponse, error) {
	if err := ensureNotPaused(ctx, d.systemRepo); err != nil {
		return nil, err
	}

	if err := d.guard.Acquire(ticketKey(req.TicketID)); err != nil {
		return nil, err
	}
	defer d.guard.Release(ticketKey(req.TicketID))

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	ticket, err := d.ownedTicket(ctx, req.TicketID)
	if err != nil {
		return nil, err
	}

	if err := d.drawOne(ctx, ticket); err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.DrawTicketResponse{Ticket: convertTicket(ticket)}, nil
}

func (d *ticketDomain) DrawAllTickets(ctx context.Context, req *model.DrawAllTicketsRequest) (*model.BatchDrawResponse, error) {
	if err := ensureNotPaused(ctx, d.systemRepo); err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	pending, err := d.ticketRepo.GetPendingByOwnerID(ctx, userID, xcontext.Configs(ctx).Lottery.MaxBatchSize)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pending tickets: %v", err)
		return nil, errorx.Unknown
	}

	return d.drawBatch(ctx, pending)
}

func (d *ticketDomain) DrawTickets(ctx context.Context, req *model.DrawTicketsRequest) (*model.BatchDrawResponse, error) {
	cfg := xcontext.Configs(ctx).Lottery
	if len(req.TicketIDs) == 0 {
		return nil, errorx.New(errorx.BadRequest, "No ticket is given")
	}

	if len(req.TicketIDs) > cfg.MaxBatchSize {
		return nil, errorx.New(errorx.BatchTooLarge, "Cannot draw more than %d tickets at once", cfg.MaxBatchSize)
	}

	if err := ensureNotPaused(ctx, d.systemRepo); err != nil {
		return nil, err
	}

	tickets, err := d.ticketRepo.GetByIDs(ctx, req.TicketIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tickets: %v", err)
		return nil, errorx.Unknown
	}

	found := make(map[int64]bool, len(tickets))
	for i := range tickets {
		found[tickets[i].ID] = true
	}

	resp, err := d.drawBatch(ctx, tickets)
	if err != nil {
		return nil, err
	}

	for _, id := range req.TicketIDs {
		if !found[id] {
			resp.Skipped = append(resp.Skipped, id)
		}
	}

	return resp, nil
}

// drawBatch resolves each ticket independently: an ineligible ticket is
// skipped and reported, it never aborts the batch. Only infrastructure
// failures abort.
func (d *ticketDomain) drawBatch(ctx context.Context, tickets []entity.Ticket) (*model.BatchDrawResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	keys := make([]string, 0, len(tickets))
	for i := range tickets {
		keys = append(keys, ticketKey(tickets[i].ID))
	}

	if err := d.guard.Acquire(keys...); err != nil {
		return nil, err
	}
	defer d.guard.Release(keys...)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	resp := &model.BatchDrawResponse{}
	for i := range tickets {
		ticket := &tickets[i]

		var err error
		if ticket.OwnerID != userID {
			err = errorx.New(errorx.NotOwner, "Ticket %d is not yours", ticket.ID)
		} else {
			err = d.drawOne(ctx, ticket)
		}

		if err != nil {
			if isSkippableDrawError(err) {
				resp.Skipped = append(resp.Skipped, ticket.ID)
				continue
			}

			return nil, err
		}

		resp.Tickets = append(resp.Tickets, convertTicket(ticket))
	}

	xcontext.WithCommitDBTransaction(ctx)
	return resp, nil
}

func isSkippableDrawError(err error) bool {
	var xerr errorx.Error
	if !errors.As(err, &xerr) {
		return false
	}

	switch xerr.Code {
	case errorx.AlreadyDrawn, errorx.RoundStillOpen, errorx.NotOwner:
		return true
	}

	return false
}

// drawOne resolves a single pending ticket in place. The caller must hold
// the ticket's latch and an open transaction.
func (d *ticketDomain) drawOne(ctx context.Context, ticket *entity.Ticket) error {
	if ticket.Resolved {
		return errorx.New(errorx.AlreadyDrawn, "Ticket %d is already drawn", ticket.ID)
	}

	if err := d.allocator.CanDraw(ctx, ticket); err != nil {
		return err
	}

	table := d.allocator.Table()
	random := d.randomizer.Draw(ctx, ticket.ID)

	tier := engine.Resolve(random, table)

	topPending, totalTickets, err := d.allocator.TopTierState(ctx, ticket)
	if err != nil {
		return err
	}

	topHit := false
	if topPending && engine.TopTierHit(random, totalTickets) {
		err := d.allocator.AwardTopTier(ctx, ticket)
		switch {
		case err == nil:
			tier = table.Top().Tier
			topHit = true
		case errorx.Is(err, errorx.AlreadyExists):
			// lost the race, the ordinary resolution stands
		default:
			return err
		}
	}

	var payout uint64
	if tier != entity.TierNone {
		tc, ok := table.Find(tier)
		if !ok {
			return errorx.New(errorx.Internal, "Tier %s is not configured", tier)
		}

		available, err := d.allocator.Available(ctx, ticket, tier)
		if err != nil {
			return err
		}

		cfg := xcontext.Configs(ctx).Lottery
		floor := cfg.TicketPrice * uint64(cfg.PayoutFloorRate) / uint64(engine.Denominator)
		payout = engine.PayoutFor(available, tc.PoolShare, floor)
	}

	if err := d.ticketRepo.CheckAndResolve(ctx, ticket.ID, tier, payout); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.AlreadyDrawn, "Ticket %d is already drawn", ticket.ID)
		}

		xcontext.Logger(ctx).Errorf("Cannot resolve ticket %d: %v", ticket.ID, err)
		return errorx.Unknown
	}

	ticket.Resolved = true
	ticket.Tier = tier
	ticket.PayoutAmount = payout

	if tier != entity.TierNone {
		if err := d.allocator.RecordWin(ctx, ticket, tier); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot record win of ticket %d: %v", ticket.ID, err)
			return errorx.Unknown
		}
	}

	if topHit {
		d.emitter.Emit(ctx, entity.EventTopTierAwarded, entity.Map{
			"ticket_id": ticket.ID,
			"owner_id":  ticket.OwnerID,
		})
	}

	d.emitter.Emit(ctx, entity.EventTicketDrawn, entity.Map{
		"ticket_id": ticket.ID,
		"owner_id":  ticket.OwnerID,
		"tier":      string(tier),
		"payout":    payout,
	})

	common.PromCounters[common.TicketsDrawnTotal].WithLabelValues(string(tier)).Inc()
	return nil
}

func (d *ticketDomain) ClaimPrize(ctx context.Context, req *model.ClaimPrizeRequest) (*model.ClaimPrizeResponse, error) {
	if err := ensureNotPaused(ctx, d.systemRepo); err != nil {
		return nil, err
	}

	if err := d.guard.Acquire(ticketKey(req.TicketID)); err != nil {
		return nil, err
	}
	defer d.guard.Release(ticketKey(req.TicketID))

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	ticket, err := d.ownedTicket(ctx, req.TicketID)
	if err != nil {
		return nil, err
	}

	if err := d.claimOne(ctx, ticket); err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.recordWinnings(ctx, ticket.OwnerID, ticket.PayoutAmount)
	return &model.ClaimPrizeResponse{
		Ticket: convertTicket(ticket),
		Amount: ticket.PayoutAmount,
	}, nil
}

func (d *ticketDomain) ClaimPrizes(ctx context.Context, req *model.ClaimPrizesRequest) (*model.ClaimPrizesResponse, error) {
	cfg := xcontext.Configs(ctx).Lottery
	if len(req.TicketIDs) == 0 {
		return nil, errorx.New(errorx.BadRequest, "No ticket is given")
	}

	if len(req.TicketIDs) > cfg.MaxBatchSize {
		return nil, errorx.New(errorx.BatchTooLarge, "Cannot claim more than %d tickets at once", cfg.MaxBatchSize)
	}

	if err := ensureNotPaused(ctx, d.systemRepo); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(req.TicketIDs))
	seen := make(map[int64]bool, len(req.TicketIDs))
	for _, id := range req.TicketIDs {
		if seen[id] {
			return nil, errorx.New(errorx.BadRequest, "Ticket %d is given twice", id)
		}

		seen[id] = true
		keys = append(keys, ticketKey(id))
	}

	if err := d.guard.Acquire(keys...); err != nil {
		return nil, err
	}
	defer d.guard.Release(keys...)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	// All or nothing: one ineligible ticket aborts the whole claim.
	resp := &model.ClaimPrizesResponse{}
	userID := xcontext.RequestUserID(ctx)
	for _, id := range req.TicketIDs {
		ticket, err := d.ownedTicket(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := d.claimOne(ctx, ticket); err != nil {
			return nil, err
		}

		resp.Tickets = append(resp.Tickets, convertTicket(ticket))
		resp.Amount += ticket.PayoutAmount
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.recordWinnings(ctx, userID, resp.Amount)
	return resp, nil
}

// claimOne pays out one winning ticket. The payout is debited from the
// backing pool first; whatever the pool cannot cover comes out of accrued
// protocol fees, and any residue is booked as floor shortfall. Funds only
// leave the system after every debit succeeded.
func (d *ticketDomain) claimOne(ctx context.Context, ticket *entity.Ticket) error {
	if !ticket.Resolved {
		return errorx.New(errorx.NotDrawn, "Ticket %d is not drawn yet", ticket.ID)
	}

	if !ticket.Won() || ticket.PayoutAmount == 0 {
		return errorx.New(errorx.NoPrize, "Ticket %d holds no prize", ticket.ID)
	}

	if ticket.Claimed {
		return errorx.New(errorx.AlreadyClaimed, "Ticket %d is already claimed", ticket.ID)
	}

	if err := d.ticketRepo.CheckAndClaim(ctx, ticket.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.AlreadyClaimed, "Ticket %d is already claimed", ticket.ID)
		}

		xcontext.Logger(ctx).Errorf("Cannot claim ticket %d: %v", ticket.ID, err)
		return errorx.Unknown
	}
	ticket.Claimed = true

	remaining := ticket.PayoutAmount

	available, err := d.allocator.Available(ctx, ticket, ticket.Tier)
	if err != nil {
		return err
	}

	fromPool := remaining
	if fromPool > available {
		fromPool = available
	}

	if fromPool > 0 {
		if err := d.allocator.CheckAndDebitPayout(ctx, ticket, ticket.Tier, fromPool); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot debit pool for ticket %d: %v", ticket.ID, err)
			return errorx.Unknown
		}

		remaining -= fromPool
	}

	if remaining > 0 {
		remaining, err = d.coverFromFees(ctx, ticket, remaining)
		if err != nil {
			return err
		}
	}

	if remaining > 0 {
		if err := d.systemRepo.AddFloorShortfall(ctx, remaining); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot book floor shortfall: %v", err)
			return errorx.Unknown
		}

		xcontext.Logger(ctx).Warnf(
			"Payout of ticket %d exceeds reserves by %d", ticket.ID, remaining)
	}

	if err := d.transferor.Transfer(ctx, ticket.OwnerID, ticket.PayoutAmount, "prize payout"); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot transfer prize of ticket %d: %v", ticket.ID, err)
		common.PromCounters[common.TransferFailureTotal].WithLabelValues("prize").Inc()
		return errorx.New(errorx.Unavailable, "Cannot transfer funds, please try again")
	}

	d.emitter.Emit(ctx, entity.EventPrizeClaimed, entity.Map{
		"ticket_id": ticket.ID,
		"owner_id":  ticket.OwnerID,
		"tier":      string(ticket.Tier),
		"amount":    ticket.PayoutAmount,
	})

	common.PromCounters[common.PrizesClaimedTotal].WithLabelValues(string(ticket.Tier)).Inc()
	return nil
}

// coverFromFees pays the floored part of a payout out of accrued protocol
// fees and returns what the fees could not cover either.
func (d *ticketDomain) coverFromFees(ctx context.Context, ticket *entity.Ticket, amount uint64) (uint64, error) {
	state, err := d.systemRepo.Get(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get system state: %v", err)
		return 0, errorx.Unknown
	}

	fromFees := amount
	if fromFees > state.AccruedFees {
		fromFees = state.AccruedFees
	}

	if fromFees == 0 {
		return amount, nil
	}

	if err := d.systemRepo.CheckAndDebitFees(ctx, fromFees); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot debit fees for ticket %d: %v", ticket.ID, err)
		return 0, errorx.Unknown
	}

	return amount - fromFees, nil
}

func (d *ticketDomain) recordWinnings(ctx context.Context, userID string, amount uint64) {
	if d.redisClient == nil || amount == 0 {
		return
	}

	err := d.redisClient.ZIncrBy(ctx, leaderboardKey, int64(amount), userID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot update leaderboard: %v", err)
	}
}

func (d *ticketDomain) GetMyTickets(ctx context.Context, req *model.GetMyTicketsRequest) (*model.GetMyTicketsResponse, error) {
	tickets, err := d.ticketRepo.GetByOwnerID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tickets: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetMyTicketsResponse{Tickets: make([]model.Ticket, 0, len(tickets))}
	for i := range tickets {
		resp.Tickets = append(resp.Tickets, convertTicket(&tickets[i]))
	}

	return resp, nil
}

func (d *ticketDomain) CanDraw(ctx context.Context, req *model.CanDrawRequest) (*model.CanDrawResponse, error) {
	ticket, err := d.ticketRepo.GetByID(ctx, req.TicketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found ticket %d", req.TicketID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get ticket: %v", err)
		return nil, errorx.Unknown
	}

	if ticket.Resolved {
		return &model.CanDrawResponse{Reason: "ticket is already drawn"}, nil
	}

	if err := d.allocator.CanDraw(ctx, ticket); err != nil {
		var xerr errorx.Error
		if errors.As(err, &xerr) {
			return &model.CanDrawResponse{Reason: xerr.Message}, nil
		}

		return nil, err
	}

	return &model.CanDrawResponse{CanDraw: true}, nil
}

// ownedTicket loads a ticket and checks the caller controls it according to
// the ownership registry.
func (d *ticketDomain) ownedTicket(ctx context.Context, ticketID int64) (*entity.Ticket, error) {
	ticket, err := d.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found ticket %d", ticketID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get ticket: %v", err)
		return nil, errorx.Unknown
	}

	owner, err := d.registry.OwnerOf(ctx, ticketID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot resolve owner of ticket %d: %v", ticketID, err)
		return nil, errorx.Unknown
	}

	if owner != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.NotOwner, "Ticket %d is not yours", ticketID)
	}

	return ticket, nil
}
