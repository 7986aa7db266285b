package engine

// RoundFee computes the protocol fee to extract from a round pool at
// finalization. Rounds below the ticket threshold pay nothing, so small
// rounds keep their full pool for late draws.
func RoundFee(accumulated uint64, totalTickets int, feeRate int64, minTickets int) uint64 {
	if totalTickets < minTickets {
		return 0
	}

	return accumulated * uint64(feeRate) / uint64(Denominator)
}
