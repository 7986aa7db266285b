package entity

import (
	"database/sql"
	"time"
)

// Round is one time-boxed pooling window in shared mode. A round accepts
// tickets until its end time passes, then opens to draws, and is locked by an
// explicit finalization which may extract the protocol fee.
type Round struct {
	Base

	StartTime time.Time
	EndTime   time.Time

	Accumulated uint64
	PaidOut     uint64

	TotalTickets int
	WinCount     int

	Finalized bool
	FeeTaken  uint64

	// At most one top-tier win is recorded per round.
	TopTierAwarded  bool
	TopTierTicketID sql.NullInt64
}

func (r *Round) Ended(now time.Time) bool {
	return !r.EndTime.After(now)
}
