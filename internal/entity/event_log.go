package entity

import "github.com/tixpool-lab/backend/pkg/enum"

type EventType string

var (
	EventTicketPurchased  = enum.New(EventType("ticket_purchased"))
	EventTicketDrawn      = enum.New(EventType("ticket_drawn"))
	EventPrizeClaimed     = enum.New(EventType("prize_claimed"))
	EventRoundStarted     = enum.New(EventType("round_started"))
	EventRoundFinalized   = enum.New(EventType("round_finalized"))
	EventTopTierAwarded   = enum.New(EventType("top_tier_awarded"))
	EventBalanceDeposited = enum.New(EventType("balance_deposited"))
	EventBalanceWithdrawn = enum.New(EventType("balance_withdrawn"))
	EventFeesWithdrawn    = enum.New(EventType("fees_withdrawn"))
)

// EventLog is the append-only fact stream consumed by external observers.
// The engine itself never reads it back.
type EventLog struct {
	Base

	Type    EventType `gorm:"index"`
	Payload Map
}
