package domain

import (
	"context"
	"errors"

	"github.com/tixpool-lab/backend/internal/common"
	"github.com/tixpool-lab/backend/internal/entity"
	"github.com/tixpool-lab/backend/internal/model"
	"github.com/tixpool-lab/backend/internal/repository"
	"github.com/tixpool-lab/backend/pkg/errorx"
	"github.com/tixpool-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type SystemDomain interface {
	Pause(ctx context.Context, req *model.PauseRequest) (*model.PauseResponse, error)
	Unpause(ctx context.Context, req *model.UnpauseRequest) (*model.UnpauseResponse, error)
	WithdrawProtocolFees(ctx context.Context, req *model.WithdrawProtocolFeesRequest) (*model.WithdrawProtocolFeesResponse, error)
}

type systemDomain struct {
	systemRepo    repository.SystemRepository
	adminVerifier *common.AdminVerifier
	transferor    Transferor
	emitter       *eventEmitter
}

func NewSystemDomain(
	systemRepo repository.SystemRepository,
	adminVerifier *common.AdminVerifier,
	transferor Transferor,
	emitter *eventEmitter,
) *systemDomain {
	return &systemDomain{
		systemRepo:    systemRepo,
		adminVerifier: adminVerifier,
		transferor:    transferor,
		emitter:       emitter,
	}
}

func (d *systemDomain) Pause(ctx context.Context, req *model.PauseRequest) (*model.PauseResponse, error) {
	if err := d.setPaused(ctx, true); err != nil {
		return nil, err
	}

	return &model.PauseResponse{}, nil
}

func (d *systemDomain) Unpause(ctx context.Context, req *model.UnpauseRequest) (*model.UnpauseResponse, error) {
	if err := d.setPaused(ctx, false); err != nil {
		return nil, err
	}

	return &model.UnpauseResponse{}, nil
}

func (d *systemDomain) setPaused(ctx context.Context, paused bool) error {
	if err := d.adminVerifier.Verify(ctx); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when setting paused: %v", err)
		return errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if err := d.systemRepo.SetPaused(ctx, paused); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot set paused to %t: %v", paused, err)
		return errorx.Unknown
	}

	return nil
}

func (d *systemDomain) WithdrawProtocolFees(ctx context.Context, req *model.WithdrawProtocolFeesRequest) (*model.WithdrawProtocolFeesResponse, error) {
	if err := d.adminVerifier.Verify(ctx); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when withdrawing fees: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	state, err := d.systemRepo.Get(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get system state: %v", err)
		return nil, errorx.Unknown
	}

	if state.AccruedFees == 0 {
		return nil, errorx.New(errorx.NothingToWithdraw, "No fee is accrued")
	}

	amount := state.AccruedFees
	if err := d.systemRepo.CheckAndDebitFees(ctx, amount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NothingToWithdraw, "No fee is accrued")
		}

		xcontext.Logger(ctx).Errorf("Cannot debit fees: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)
	if err := d.transferor.Transfer(ctx, userID, amount, "protocol fee withdrawal"); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot transfer fees: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot transfer funds, please try again")
	}

	d.emitter.Emit(ctx, entity.EventFeesWithdrawn, entity.Map{
		"user_id": userID,
		"amount":  amount,
	})

	xcontext.WithCommitDBTransaction(ctx)
	return &model.WithdrawProtocolFeesResponse{Amount: amount}, nil
}
