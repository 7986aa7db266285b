package entity

import (
	"database/sql"

	"github.com/tixpool-lab/backend/pkg/enum"
)

type PrizeTier string

var (
	TierNone   = enum.New(PrizeTier("none"))
	TierSmall  = enum.New(PrizeTier("small"))
	TierMedium = enum.New(PrizeTier("medium"))
	TierGrand  = enum.New(PrizeTier("grand"))
	TierSuper  = enum.New(PrizeTier("super"))
)

// Ticket is the append-only record of one purchased entry. It is created in
// the pending state, resolved by exactly one draw and, if winning, claimed by
// exactly one claim. It is never deleted.
type Ticket struct {
	SnowFlakeBase

	OwnerID string `gorm:"index"`

	// RoundID is set in shared mode only. Tiered mode has no rounds.
	RoundID sql.NullString `gorm:"index"`
	Round   Round          `gorm:"foreignKey:RoundID"`

	Price uint64

	Resolved     bool
	Tier         PrizeTier
	PayoutAmount uint64
	Claimed      bool
}

func (t *Ticket) Won() bool {
	return t.Resolved && t.Tier != TierNone
}
