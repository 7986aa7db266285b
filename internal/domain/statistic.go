package domain

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/tixpool-lab/backend/internal/domain/engine"
	"github.com/tixpool-lab/backend/internal/model"
	"github.com/tixpool-lab/backend/internal/repository"
	"github.com/tixpool-lab/backend/pkg/errorx"
	"github.com/tixpool-lab/backend/pkg/xcontext"
	"github.com/tixpool-lab/backend/pkg/xredis"
)

const (
	maxLeaderboardLimit = 50
	maxEventFeedLimit   = 100
)

type StatisticDomain interface {
	GetTierTable(ctx context.Context, req *model.GetTierTableRequest) (*model.GetTierTableResponse, error)
	GetStatistics(ctx context.Context, req *model.GetStatisticsRequest) (*model.GetStatisticsResponse, error)
	GetEvents(ctx context.Context, req *model.GetEventsRequest) (*model.GetEventsResponse, error)
	GetLeaderboard(ctx context.Context, req *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
}

type statisticDomain struct {
	systemRepo   repository.SystemRepository
	poolRepo     repository.PoolRepository
	eventLogRepo repository.EventLogRepository
	allocator    poolAllocator
	redisClient  xredis.Client
}

func NewStatisticDomain(
	systemRepo repository.SystemRepository,
	poolRepo repository.PoolRepository,
	eventLogRepo repository.EventLogRepository,
	allocator poolAllocator,
	redisClient xredis.Client,
) *statisticDomain {
	return &statisticDomain{
		systemRepo:   systemRepo,
		poolRepo:     poolRepo,
		eventLogRepo: eventLogRepo,
		allocator:    allocator,
		redisClient:  redisClient,
	}
}

func (d *statisticDomain) GetTierTable(ctx context.Context, req *model.GetTierTableRequest) (*model.GetTierTableResponse, error) {
	table := d.allocator.Table()

	resp := &model.GetTierTableResponse{
		FeeRate:      table.FeeRate,
		AccrualRate:  table.AccrualRate,
		TotalWinRate: engine.TotalWinRate,
	}
	for _, tc := range table.Tiers {
		resp.Tiers = append(resp.Tiers, model.TierInfo{
			Tier:           string(tc.Tier),
			WinProbability: tc.WinProbability,
			PoolShare:      tc.PoolShare,
		})
	}

	return resp, nil
}

func (d *statisticDomain) GetStatistics(ctx context.Context, req *model.GetStatisticsRequest) (*model.GetStatisticsResponse, error) {
	state, err := d.systemRepo.Get(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get system state: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetStatisticsResponse{
		TotalReceived:  state.TotalReceived,
		TotalTickets:   state.TotalTickets,
		AccruedFees:    state.AccruedFees,
		FloorShortfall: state.FloorShortfall,
		Paused:         state.Paused,
	}

	if d.allocator.Table().AccrualRate == 0 {
		pools, err := d.poolRepo.GetAll(ctx)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get tier pools: %v", err)
			return nil, errorx.Unknown
		}

		for i := range pools {
			resp.Pools = append(resp.Pools, convertTierPool(&pools[i]))
		}
	}

	return resp, nil
}

func (d *statisticDomain) GetEvents(ctx context.Context, req *model.GetEventsRequest) (*model.GetEventsResponse, error) {
	if req.Limit <= 0 {
		req.Limit = 10
	}

	if req.Limit > maxEventFeedLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceeded the maximum limit of %d", maxEventFeedLimit)
	}

	logs, err := d.eventLogRepo.GetList(ctx, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get event logs: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetEventsResponse{}
	for i := range logs {
		resp.Events = append(resp.Events, model.Event{
			Type:       string(logs[i].Type),
			Payload:    logs[i].Payload,
			RecordedAt: logs[i].CreatedAt.Format(defaultTimeLayout),
		})
	}

	return resp, nil
}

func (d *statisticDomain) GetLeaderboard(ctx context.Context, req *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error) {
	if req.Limit <= 0 {
		req.Limit = 10
	}

	if req.Limit > maxLeaderboardLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceeded the maximum limit of %d", maxLeaderboardLimit)
	}

	if d.redisClient == nil {
		return &model.GetLeaderboardResponse{}, nil
	}

	entries, err := d.redisClient.ZRevRangeWithScores(ctx, leaderboardKey, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get leaderboard: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetLeaderboardResponse{}
	for _, z := range entries {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}

		resp.Entries = append(resp.Entries, model.LeaderboardEntry{
			UserID:   member,
			Winnings: uint64(z.Score),
		})
	}

	if userID := xcontext.RequestUserID(ctx); userID != "" {
		rank, err := d.redisClient.ZRevRank(ctx, leaderboardKey, userID)
		if err == nil {
			resp.MyRank = rank + 1
		} else if !errors.Is(err, redis.Nil) {
			xcontext.Logger(ctx).Warnf("Cannot get leaderboard rank of %s: %v", userID, err)
		}
	}

	return resp, nil
}
