package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database  DatabaseConfigs
	ApiServer ServerConfigs
	Auth      AuthConfigs
	Redis     RedisConfigs
	Kafka     KafkaConfigs
	Lottery   LotteryConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs

	// Admins are the account ids allowed to call privileged operations.
	Admins []string
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr string
}

type LotteryConfigs struct {
	// Mode selects the pooling strategy: "shared" accumulates every ticket
	// into one pool per round, "tiered" keeps one persistent pool per prize
	// tier and has no rounds.
	Mode string

	// TicketPrice is the price of one ticket in currency units.
	TicketPrice uint64

	// MaxBatchSize bounds the number of tickets a single purchase, draw or
	// claim operation can touch.
	MaxBatchSize int

	// RoundDuration is the length of a pooling window in shared mode.
	RoundDuration time.Duration

	// RoundFeeRate is the protocol fee in basis points extracted from the
	// round pool at finalization, charged only if the round sold at least
	// MinTicketsForFee tickets.
	RoundFeeRate     int64
	MinTicketsForFee int

	// PayoutFloorRate is the guaranteed minimum payout of any winning
	// ticket, in basis points of the ticket price.
	PayoutFloorRate int64
}
