package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tixpool-lab/backend/config"
)

func loadConfigs() config.Configs {
	return config.Configs{
		Env: getEnv("ENV", "local"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			User:     getEnv("MYSQL_USER", "tixpool"),
			Password: getEnv("MYSQL_PASSWORD", "tixpool"),
			Database: getEnv("MYSQL_DATABASE", "tixpool"),
		},
		ApiServer: config.ServerConfigs{
			Host: getEnv("API_HOST", "localhost"),
			Port: getEnv("API_PORT", "8080"),
			Cert: getEnv("API_CERT", ""),
			Key:  getEnv("API_KEY", ""),
		},
		Auth: config.AuthConfigs{
			TokenSecret: getEnv("TOKEN_SECRET", "token-secret"),
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: getDuration("ACCESS_TOKEN_DURATION", time.Hour),
			},
			Admins: getList("ADMIN_IDS"),
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Kafka: config.KafkaConfigs{
			Addr: getEnv("KAFKA_ADDR", "localhost:9092"),
		},
		Lottery: config.LotteryConfigs{
			Mode:             getEnv("LOTTERY_MODE", "shared"),
			TicketPrice:      uint64(getInt("LOTTERY_TICKET_PRICE", 100)),
			MaxBatchSize:     getInt("LOTTERY_MAX_BATCH_SIZE", 50),
			RoundDuration:    getDuration("LOTTERY_ROUND_DURATION", 24*time.Hour),
			RoundFeeRate:     int64(getInt("LOTTERY_ROUND_FEE_RATE", 500)),
			MinTicketsForFee: getInt("LOTTERY_MIN_TICKETS_FOR_FEE", 100),
			PayoutFloorRate:  int64(getInt("LOTTERY_PAYOUT_FLOOR_RATE", 5000)),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}

	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}

	return v
}

func getList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	return strings.Split(v, ",")
}
