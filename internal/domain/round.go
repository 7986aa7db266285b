package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tixpool-lab/backend/internal/common"
	"github.com/tixpool-lab/backend/internal/domain/engine"
	"github.com/tixpool-lab/backend/internal/entity"
	"github.com/tixpool-lab/backend/internal/model"
	"github.com/tixpool-lab/backend/internal/repository"
	"github.com/tixpool-lab/backend/pkg/errorx"
	"github.com/tixpool-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RoundDomain interface {
	StartRound(ctx context.Context, req *model.StartRoundRequest) (*model.StartRoundResponse, error)
	FinalizeRound(ctx context.Context, req *model.FinalizeRoundRequest) (*model.FinalizeRoundResponse, error)
	GetRound(ctx context.Context, req *model.GetRoundRequest) (*model.GetRoundResponse, error)
}

type roundDomain struct {
	roundRepo     repository.RoundRepository
	systemRepo    repository.SystemRepository
	adminVerifier *common.AdminVerifier
	emitter       *eventEmitter
}

func NewRoundDomain(
	roundRepo repository.RoundRepository,
	systemRepo repository.SystemRepository,
	adminVerifier *common.AdminVerifier,
	emitter *eventEmitter,
) *roundDomain {
	return &roundDomain{
		roundRepo:     roundRepo,
		systemRepo:    systemRepo,
		adminVerifier: adminVerifier,
		emitter:       emitter,
	}
}

func (d *roundDomain) StartRound(ctx context.Context, req *model.StartRoundRequest) (*model.StartRoundResponse, error) {
	if err := d.adminVerifier.Verify(ctx); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when starting round: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	now := requestTime(ctx)
	last, err := d.roundRepo.GetLast(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get last round: %v", err)
		return nil, errorx.Unknown
	}

	if last != nil && !last.Ended(now) {
		return nil, errorx.New(errorx.RoundStillOpen, "Round %s has not ended yet", last.ID)
	}

	round := &entity.Round{
		Base:      entity.Base{ID: uuid.NewString()},
		StartTime: now,
		EndTime:   now.Add(xcontext.Configs(ctx).Lottery.RoundDuration),
	}

	if err := d.roundRepo.Create(ctx, round); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create round: %v", err)
		return nil, errorx.Unknown
	}

	d.emitter.Emit(ctx, entity.EventRoundStarted, entity.Map{
		"round_id":   round.ID,
		"start_time": round.StartTime,
		"end_time":   round.EndTime,
	})

	xcontext.WithCommitDBTransaction(ctx)
	return &model.StartRoundResponse{Round: convertRound(round)}, nil
}

func (d *roundDomain) FinalizeRound(ctx context.Context, req *model.FinalizeRoundRequest) (*model.FinalizeRoundResponse, error) {
	if err := d.adminVerifier.Verify(ctx); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when finalizing round: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	round, err := d.roundRepo.GetByID(ctx, req.RoundID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found round %s", req.RoundID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get round: %v", err)
		return nil, errorx.Unknown
	}

	fee, err := finalizeRound(ctx, d.roundRepo, d.systemRepo, d.emitter, round)
	if err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.FinalizeRoundResponse{Round: convertRound(round), Fee: fee}, nil
}

// finalizeRound locks a round exactly once and moves the protocol fee out of
// its pool. It is shared between the privileged endpoint and the scheduler.
func finalizeRound(
	ctx context.Context,
	roundRepo repository.RoundRepository,
	systemRepo repository.SystemRepository,
	emitter *eventEmitter,
	round *entity.Round,
) (uint64, error) {
	if !round.Ended(requestTime(ctx)) {
		return 0, errorx.New(errorx.RoundNotEnded, "Round %s has not ended yet", round.ID)
	}

	if round.Finalized {
		return 0, errorx.New(errorx.RoundFinalized, "Round %s is already finalized", round.ID)
	}

	cfg := xcontext.Configs(ctx).Lottery
	fee := engine.RoundFee(round.Accumulated, round.TotalTickets, cfg.RoundFeeRate, cfg.MinTicketsForFee)

	if err := roundRepo.CheckAndFinalize(ctx, round.ID, fee); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errorx.New(errorx.RoundFinalized, "Round %s is already finalized", round.ID)
		}

		xcontext.Logger(ctx).Errorf("Cannot finalize round %s: %v", round.ID, err)
		return 0, errorx.Unknown
	}

	round.Finalized = true
	round.FeeTaken = fee
	round.Accumulated -= fee

	if fee > 0 {
		if err := systemRepo.AddFees(ctx, fee); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot accrue round fee: %v", err)
			return 0, errorx.Unknown
		}
	}

	emitter.Emit(ctx, entity.EventRoundFinalized, entity.Map{
		"round_id": round.ID,
		"fee":      fee,
	})

	return fee, nil
}

func (d *roundDomain) GetRound(ctx context.Context, req *model.GetRoundRequest) (*model.GetRoundResponse, error) {
	var round *entity.Round
	var err error
	if req.RoundID == "" {
		round, err = d.roundRepo.GetLast(ctx)
	} else {
		round, err = d.roundRepo.GetByID(ctx, req.RoundID)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found round")
		}

		xcontext.Logger(ctx).Errorf("Cannot get round: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetRoundResponse{Round: convertRound(round)}, nil
}
