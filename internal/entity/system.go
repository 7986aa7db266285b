package entity

import "time"

const SystemStateID = 1

// SystemState is the singleton row holding global counters and the pause
// flag. It is created once at migration time and never deleted.
type SystemState struct {
	ID        int `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Paused bool

	TotalReceived uint64
	TotalTickets  int64

	AccruedFees uint64

	// FloorShortfall counts payout units the minimum-payout floor awarded
	// beyond what pools and accrued fees could cover. It should stay zero
	// as long as accrual keeps up with draws.
	FloorShortfall uint64
}
