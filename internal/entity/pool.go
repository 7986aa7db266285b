package entity

import "time"

// TierPool is the persistent prize pool of one tier in tiered mode. Funds
// accrue into it continuously from every purchase.
type TierPool struct {
	Tier      PrizeTier `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Accumulated uint64
	PaidOut     uint64

	TicketCount int
	WinCount    int
}
