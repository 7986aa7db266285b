package domain

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/tixpool-lab/backend/internal/entity"
	"github.com/tixpool-lab/backend/internal/model"
	"github.com/tixpool-lab/backend/internal/repository"
	"github.com/tixpool-lab/backend/pkg/errorx"
	"github.com/tixpool-lab/backend/pkg/testutil"
)

func newStatisticDomain(t *testing.T, mode string, redisClient *testutil.MockRedisClient) (context.Context, StatisticDomain) {
	ctx := testutil.MockContext()
	roundRepo := repository.NewRoundRepository()
	poolRepo := repository.NewPoolRepository()

	allocator, err := NewPoolAllocator(mode, roundRepo, poolRepo)
	require.NoError(t, err)

	return ctx, NewStatisticDomain(
		repository.NewSystemRepository(), poolRepo, repository.NewEventLogRepository(),
		allocator, redisClient)
}

func Test_StatisticDomain_GetTierTable(t *testing.T) {
	ctx, statistic := newStatisticDomain(t, "shared", &testutil.MockRedisClient{})

	resp, err := statistic.GetTierTable(ctx, &model.GetTierTableRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(2500), resp.TotalWinRate)
	require.Equal(t, int64(500), resp.FeeRate)
	require.Len(t, resp.Tiers, 4)

	var probSum int64
	for _, tier := range resp.Tiers {
		probSum += tier.WinProbability
	}
	require.Equal(t, resp.TotalWinRate, probSum)
}

func Test_StatisticDomain_GetStatistics(t *testing.T) {
	ctx, statistic := newStatisticDomain(t, "shared", &testutil.MockRedisClient{})

	resp, err := statistic.GetStatistics(ctx, &model.GetStatisticsRequest{})
	require.NoError(t, err)
	require.False(t, resp.Paused)
	require.Equal(t, uint64(0), resp.TotalReceived)

	// Per-tier pools are only reported in tiered mode.
	require.Empty(t, resp.Pools)
}

func Test_StatisticDomain_GetEvents(t *testing.T) {
	ctx, statistic := newStatisticDomain(t, "shared", &testutil.MockRedisClient{})

	emitter := NewEventEmitter(repository.NewEventLogRepository(), &testutil.MockPublisher{})
	emitter.Emit(ctx, entity.EventBalanceDeposited, entity.Map{"user_id": "alice", "amount": float64(100)})
	emitter.Emit(ctx, entity.EventTicketPurchased, entity.Map{"user_id": "alice"})

	resp, err := statistic.GetEvents(ctx, &model.GetEventsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Events, 2)
	for _, event := range resp.Events {
		require.Equal(t, "alice", event.Payload["user_id"])
		require.NotEmpty(t, event.RecordedAt)
	}

	_, err = statistic.GetEvents(ctx, &model.GetEventsRequest{Limit: 101})
	require.True(t, errorx.Is(err, errorx.BadRequest))
}

func Test_StatisticDomain_GetLeaderboard(t *testing.T) {
	redisClient := &testutil.MockRedisClient{
		ZRevRangeWithScoresFunc: func(ctx context.Context, key string, offset, limit int) ([]redis.Z, error) {
			return []redis.Z{
				{Member: "alice", Score: 120},
				{Member: "bob", Score: 40},
			}, nil
		},
	}

	ctx, statistic := newStatisticDomain(t, "shared", redisClient)

	resp, err := statistic.GetLeaderboard(ctx, &model.GetLeaderboardRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)
	require.Equal(t, "alice", resp.Entries[0].UserID)
	require.Equal(t, uint64(120), resp.Entries[0].Winnings)

	_, err = statistic.GetLeaderboard(ctx, &model.GetLeaderboardRequest{Limit: 51})
	require.True(t, errorx.Is(err, errorx.BadRequest))
}

func Test_StatisticDomain_GetLeaderboard_MyRank(t *testing.T) {
	redisClient := &testutil.MockRedisClient{
		ZRevRankFunc: func(ctx context.Context, key string, member string) (uint64, error) {
			if member == "bob" {
				return 1, nil
			}

			return 0, redis.Nil
		},
	}

	ctx, statistic := newStatisticDomain(t, "shared", redisClient)

	// Anonymous callers get no rank.
	resp, err := statistic.GetLeaderboard(ctx, &model.GetLeaderboardRequest{})
	require.NoError(t, err)
	require.Equal(t, uint64(0), resp.MyRank)

	resp, err = statistic.GetLeaderboard(
		testutil.MockContextWithUserID(ctx, "bob"), &model.GetLeaderboardRequest{})
	require.NoError(t, err)
	require.Equal(t, uint64(2), resp.MyRank)

	// Callers who never claimed a prize are not on the board.
	resp, err = statistic.GetLeaderboard(
		testutil.MockContextWithUserID(ctx, "carol"), &model.GetLeaderboardRequest{})
	require.NoError(t, err)
	require.Equal(t, uint64(0), resp.MyRank)
}
