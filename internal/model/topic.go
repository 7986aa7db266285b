package model

var (
	LotteryEventsTopic = "lottery-events"
)
