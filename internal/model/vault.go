package model

type DepositRequest struct {
	Amount uint64 `json:"amount"`
}

type DepositResponse struct {
	Balance uint64 `json:"balance"`
}

type WithdrawRequest struct {
	Amount uint64 `json:"amount"`
}

type WithdrawResponse struct {
	Balance uint64 `json:"balance"`
}

type WithdrawAllRequest struct{}

type WithdrawAllResponse struct {
	Amount uint64 `json:"amount"`
}

type GetMyBalanceRequest struct{}

type GetMyBalanceResponse struct {
	Balance        uint64 `json:"balance"`
	TotalDeposited uint64 `json:"total_deposited"`
	TotalWithdrawn uint64 `json:"total_withdrawn"`
	TotalWinnings  uint64 `json:"total_winnings"`
}
