package entity

// Transfer is one outbound value movement to an external account. A failed
// transfer aborts the enclosing operation; there is no retry.
type Transfer struct {
	Base

	ToUserID string `gorm:"index"`

	// Note contains the reason of this transfer.
	Note   string
	Amount uint64

	IsReceived bool
}
