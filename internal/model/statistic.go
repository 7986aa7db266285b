package model

type TierInfo struct {
	Tier           string `json:"tier"`
	WinProbability int64  `json:"win_probability_bps"`
	PoolShare      int64  `json:"pool_share_bps"`
}

type GetTierTableRequest struct{}

type GetTierTableResponse struct {
	Tiers        []TierInfo `json:"tiers"`
	FeeRate      int64      `json:"fee_rate_bps"`
	AccrualRate  int64      `json:"accrual_rate_bps"`
	TotalWinRate int64      `json:"total_win_rate_bps"`
}

type GetStatisticsRequest struct{}

type GetStatisticsResponse struct {
	TotalReceived  uint64     `json:"total_received"`
	TotalTickets   int64      `json:"total_tickets"`
	AccruedFees    uint64     `json:"accrued_fees"`
	FloorShortfall uint64     `json:"floor_shortfall"`
	Paused         bool       `json:"paused"`
	Pools          []TierPool `json:"pools,omitempty"`
}

type Event struct {
	Type       string         `json:"type"`
	Payload    map[string]any `json:"payload"`
	RecordedAt string         `json:"recorded_at"`
}

type GetEventsRequest struct {
	Offset int `form:"offset" json:"offset"`
	Limit  int `form:"limit" json:"limit"`
}

type GetEventsResponse struct {
	Events []Event `json:"events"`
}

type LeaderboardEntry struct {
	UserID   string `json:"user_id"`
	Winnings uint64 `json:"winnings"`
}

type GetLeaderboardRequest struct {
	Offset int `form:"offset" json:"offset"`
	Limit  int `form:"limit" json:"limit"`
}

type GetLeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`

	// MyRank is the 1-based position of the caller, present only when the
	// request is authenticated and the caller has claimed a prize before.
	MyRank uint64 `json:"my_rank,omitempty"`
}
