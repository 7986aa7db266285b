package model

type Round struct {
	ID              string `json:"id"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	Accumulated     uint64 `json:"accumulated"`
	PaidOut         uint64 `json:"paid_out"`
	TotalTickets    int    `json:"total_tickets"`
	WinCount        int    `json:"win_count"`
	Finalized       bool   `json:"finalized"`
	FeeTaken        uint64 `json:"fee_taken"`
	TopTierAwarded  bool   `json:"top_tier_awarded"`
	TopTierTicketID int64  `json:"top_tier_ticket_id,omitempty"`
}

type StartRoundRequest struct{}

type StartRoundResponse struct {
	Round Round `json:"round"`
}

type FinalizeRoundRequest struct {
	RoundID string `json:"round_id"`
}

type FinalizeRoundResponse struct {
	Round Round  `json:"round"`
	Fee   uint64 `json:"fee"`
}

type GetRoundRequest struct {
	RoundID string `form:"round_id" json:"round_id"`
}

type GetRoundResponse struct {
	Round Round `json:"round"`
}

type TierPool struct {
	Tier        string `json:"tier"`
	Accumulated uint64 `json:"accumulated"`
	PaidOut     uint64 `json:"paid_out"`
	TicketCount int    `json:"ticket_count"`
	WinCount    int    `json:"win_count"`
}

type WithdrawProtocolFeesRequest struct{}

type WithdrawProtocolFeesResponse struct {
	Amount uint64 `json:"amount"`
}

type PauseRequest struct{}

type PauseResponse struct{}

type UnpauseRequest struct{}

type UnpauseResponse struct{}
