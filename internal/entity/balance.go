package entity

import "time"

// Balance is the custodial balance of one account. Amount never goes
// negative: debits are guarded updates which fail instead of underflowing.
type Balance struct {
	UserID    string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Amount uint64

	TotalDeposited uint64
	TotalWithdrawn uint64
}
