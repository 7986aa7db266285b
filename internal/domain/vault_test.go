package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tixpool-lab/backend/internal/model"
	"github.com/tixpool-lab/backend/pkg/errorx"
)

func Test_VaultDomain_DepositAndWithdrawAll(t *testing.T) {
	s := newTestSuite(t)
	s.openRound(t)
	ctx := s.as("alice")

	resp, err := s.vault.Deposit(ctx, &model.DepositRequest{Amount: 100})
	require.NoError(t, err)
	require.Equal(t, uint64(100), resp.Balance)

	// Three tickets of price 10 paid from the balance.
	buyResp, err := s.ticket.BuyTickets(ctx, &model.BuyTicketsRequest{NumberTickets: 3, UseBalance: true})
	require.NoError(t, err)
	require.Len(t, buyResp.Tickets, 3)

	allResp, err := s.vault.WithdrawAll(ctx, &model.WithdrawAllRequest{})
	require.NoError(t, err)
	require.Equal(t, uint64(70), allResp.Amount)

	_, err = s.vault.WithdrawAll(ctx, &model.WithdrawAllRequest{})
	require.True(t, errorx.Is(err, errorx.NothingToWithdraw))

	transfers, err := s.transferRepo.GetByToUserID(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	require.Equal(t, uint64(70), transfers[0].Amount)
}

func Test_VaultDomain_WithdrawOverBalanceChangesNothing(t *testing.T) {
	s := newTestSuite(t)
	ctx := s.as("alice")

	_, err := s.vault.Deposit(ctx, &model.DepositRequest{Amount: 70})
	require.NoError(t, err)

	_, err = s.vault.Withdraw(ctx, &model.WithdrawRequest{Amount: 71})
	require.True(t, errorx.Is(err, errorx.InsufficientFunds))

	balance, err := s.balanceRepo.Get(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, uint64(70), balance.Amount)

	transfers, err := s.transferRepo.GetByToUserID(ctx, "alice")
	require.NoError(t, err)
	require.Empty(t, transfers)
}

func Test_VaultDomain_DepositRejectsZero(t *testing.T) {
	s := newTestSuite(t)

	_, err := s.vault.Deposit(s.as("alice"), &model.DepositRequest{Amount: 0})
	require.True(t, errorx.Is(err, errorx.BadRequest))
}

func Test_VaultDomain_GetMyBalance(t *testing.T) {
	s := newTestSuite(t)
	ctx := s.as("alice")

	_, err := s.vault.Deposit(ctx, &model.DepositRequest{Amount: 50})
	require.NoError(t, err)

	_, err = s.vault.Withdraw(ctx, &model.WithdrawRequest{Amount: 20})
	require.NoError(t, err)

	resp, err := s.vault.GetMyBalance(ctx, &model.GetMyBalanceRequest{})
	require.NoError(t, err)
	require.Equal(t, uint64(30), resp.Balance)
	require.Equal(t, uint64(50), resp.TotalDeposited)
	require.Equal(t, uint64(20), resp.TotalWithdrawn)

	// An account that never deposited reads as zero, not as an error.
	resp, err = s.vault.GetMyBalance(s.as("bob"), &model.GetMyBalanceRequest{})
	require.NoError(t, err)
	require.Equal(t, uint64(0), resp.Balance)
}
