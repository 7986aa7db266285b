package testutil

import (
	"context"
	"time"

	"github.com/tixpool-lab/backend/config"
	"github.com/tixpool-lab/backend/internal/entity"
	"github.com/tixpool-lab/backend/internal/model"
	"github.com/tixpool-lab/backend/pkg/authenticator"
	"github.com/tixpool-lab/backend/pkg/logger"
	"github.com/tixpool-lab/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
			Admins: []string{"admin"},
		},
		Lottery: config.LotteryConfigs{
			Mode:             "shared",
			TicketPrice:      10,
			MaxBatchSize:     50,
			RoundDuration:    time.Hour,
			RoundFeeRate:     500,
			MinTicketsForFee: 100,
			PayoutFloorRate:  5000,
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.ERROR))
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine[model.AccessToken](
		cfg.Auth.TokenSecret, cfg.Auth.AccessToken.Expiration))
	ctx = xcontext.WithDB(ctx, db)
	ctx = xcontext.WithStartTime(ctx, time.Now())

	if err := entity.MigrateTable(db); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = MockContext()
	}

	return xcontext.WithRequestUserID(ctx, userID)
}
