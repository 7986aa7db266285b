package model

type Ticket struct {
	ID           int64  `json:"id"`
	OwnerID      string `json:"owner_id"`
	RoundID      string `json:"round_id,omitempty"`
	CreatedAt    string `json:"created_at"`
	Price        uint64 `json:"price"`
	Resolved     bool   `json:"resolved"`
	Tier         string `json:"tier"`
	PayoutAmount uint64 `json:"payout_amount"`
	Claimed      bool   `json:"claimed"`
}

type BuyTicketsRequest struct {
	// NumberTickets tickets are purchased atomically; either all of them
	// are minted or none.
	NumberTickets int `json:"number_tickets"`

	// UseBalance pays from the custodial balance instead of an external
	// payment.
	UseBalance bool `json:"use_balance"`
}

type BuyTicketsResponse struct {
	Tickets []Ticket `json:"tickets"`
}

type DrawTicketRequest struct {
	TicketID int64 `json:"ticket_id"`
}

type DrawTicketResponse struct {
	Ticket Ticket `json:"ticket"`
}

type DrawAllTicketsRequest struct{}

type DrawTicketsRequest struct {
	TicketIDs []int64 `json:"ticket_ids"`
}

// BatchDrawResponse reports both resolved tickets and the ones skipped for
// ineligibility. A batch draw never aborts on a single bad ticket.
type BatchDrawResponse struct {
	Tickets []Ticket `json:"tickets"`
	Skipped []int64  `json:"skipped,omitempty"`
}

type ClaimPrizeRequest struct {
	TicketID int64 `json:"ticket_id"`
}

type ClaimPrizeResponse struct {
	Ticket Ticket `json:"ticket"`
	Amount uint64 `json:"amount"`
}

type ClaimPrizesRequest struct {
	TicketIDs []int64 `json:"ticket_ids"`
}

type ClaimPrizesResponse struct {
	Tickets []Ticket `json:"tickets"`
	Amount  uint64   `json:"amount"`
}

type GetMyTicketsRequest struct{}

type GetMyTicketsResponse struct {
	Tickets []Ticket `json:"tickets"`
}

type CanDrawRequest struct {
	TicketID int64 `form:"ticket_id" json:"ticket_id"`
}

type CanDrawResponse struct {
	CanDraw bool   `json:"can_draw"`
	Reason  string `json:"reason,omitempty"`
}
