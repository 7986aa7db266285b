package domain

import (
	"context"
	"errors"

	"github.com/tixpool-lab/backend/internal/entity"
	"github.com/tixpool-lab/backend/internal/model"
	"github.com/tixpool-lab/backend/internal/repository"
	"github.com/tixpool-lab/backend/pkg/errorx"
	"github.com/tixpool-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type VaultDomain interface {
	Deposit(ctx context.Context, req *model.DepositRequest) (*model.DepositResponse, error)
	Withdraw(ctx context.Context, req *model.WithdrawRequest) (*model.WithdrawResponse, error)
	WithdrawAll(ctx context.Context, req *model.WithdrawAllRequest) (*model.WithdrawAllResponse, error)
	GetMyBalance(ctx context.Context, req *model.GetMyBalanceRequest) (*model.GetMyBalanceResponse, error)
}

type vaultDomain struct {
	balanceRepo repository.BalanceRepository
	systemRepo  repository.SystemRepository
	ticketRepo  repository.TicketRepository
	transferor  Transferor
	emitter     *eventEmitter
	guard       *entryGuard
}

func NewVaultDomain(
	balanceRepo repository.BalanceRepository,
	systemRepo repository.SystemRepository,
	ticketRepo repository.TicketRepository,
	transferor Transferor,
	emitter *eventEmitter,
	guard *entryGuard,
) *vaultDomain {
	return &vaultDomain{
		balanceRepo: balanceRepo,
		systemRepo:  systemRepo,
		ticketRepo:  ticketRepo,
		transferor:  transferor,
		emitter:     emitter,
		guard:       guard,
	}
}

func (d *vaultDomain) Deposit(ctx context.Context, req *model.DepositRequest) (*model.DepositResponse, error) {
	if req.Amount == 0 {
		return nil, errorx.New(errorx.BadRequest, "Deposit amount must be positive")
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

	if err := d.balanceRepo.Credit(ctx, userID, req.Amount); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot credit balance: %v", err)
		return nil, errorx.Unknown
	}

	balance, err := d.balanceRepo.Get(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get balance: %v", err)
		return nil, errorx.Unknown
	}

	d.emitter.Emit(ctx, entity.EventBalanceDeposited, entity.Map{
		"user_id": userID,
		"amount":  req.Amount,
	})

	xcontext.WithCommitDBTransaction(ctx)
	return &model.DepositResponse{Balance: balance.Amount}, nil
}

func (d *vaultDomain) Withdraw(ctx context.Context, req *model.WithdrawRequest) (*model.WithdrawResponse, error) {
	if req.Amount == 0 {
		return nil, errorx.New(errorx.BadRequest, "Withdraw amount must be positive")
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

	if err := d.debitAndTransfer(ctx, userID, req.Amount); err != nil {
		return nil, err
	}

	balance, err := d.balanceRepo.Get(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get balance: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.WithdrawResponse{Balance: balance.Amount}, nil
}

func (d *vaultDomain) WithdrawAll(ctx context.Context, req *model.WithdrawAllRequest) (*model.WithdrawAllResponse, error) {
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

	balance, err := d.balanceRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NothingToWithdraw, "Your balance is empty")
		}

		xcontext.Logger(ctx).Errorf("Cannot get balance: %v", err)
		return nil, errorx.Unknown
	}

	if balance.Amount == 0 {
		return nil, errorx.New(errorx.NothingToWithdraw, "Your balance is empty")
	}

	if err := d.debitAndTransfer(ctx, userID, balance.Amount); err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.WithdrawAllResponse{Amount: balance.Amount}, nil
}

// debitAndTransfer always debits the custodial record before handing value
// out, so a transfer failure rolls back a debit and never the other way
// around.
func (d *vaultDomain) debitAndTransfer(ctx context.Context, userID string, amount uint64) error {
	if err := d.balanceRepo.CheckAndDebitForWithdraw(ctx, userID, amount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.InsufficientFunds, "Your balance cannot cover %d", amount)
		}

		xcontext.Logger(ctx).Errorf("Cannot debit balance: %v", err)
		return errorx.Unknown
	}

	if err := d.transferor.Transfer(ctx, userID, amount, "balance withdrawal"); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot transfer withdrawal: %v", err)
		return errorx.New(errorx.Unavailable, "Cannot transfer funds, please try again")
	}

	d.emitter.Emit(ctx, entity.EventBalanceWithdrawn, entity.Map{
		"user_id": userID,
		"amount":  amount,
	})

	return nil
}

func (d *vaultDomain) GetMyBalance(ctx context.Context, req *model.GetMyBalanceRequest) (*model.GetMyBalanceResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	balance, err := d.balanceRepo.Get(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get balance: %v", err)
		return nil, errorx.Unknown
	}

	winnings, err := d.ticketRepo.SumClaimedPayoutByOwnerID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sum winnings: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetMyBalanceResponse{TotalWinnings: winnings}
	if balance != nil {
		resp.Balance = balance.Amount
		resp.TotalDeposited = balance.TotalDeposited
		resp.TotalWithdrawn = balance.TotalWithdrawn
	}

	return resp, nil
}
