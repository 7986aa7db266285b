package domain

import (
	"context"
	"time"

	"github.com/tixpool-lab/backend/internal/repository"
	"github.com/tixpool-lab/backend/pkg/errorx"
	"github.com/tixpool-lab/backend/pkg/xcontext"
)

// leaderboardKey is the redis sorted set of claimed winnings per user.
const leaderboardKey = "lottery:leaderboard:winnings"

// requestTime anchors every time comparison of one request to the same
// instant. Background jobs carry no start time and fall back to the clock.
func requestTime(ctx context.Context) time.Time {
	if t := xcontext.StartTime(ctx); !t.IsZero() {
		return t
	}

	return time.Now()
}

func ensureNotPaused(ctx context.Context, systemRepo repository.SystemRepository) error {
	state, err := systemRepo.Get(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get system state: %v", err)
		return errorx.Unknown
	}

	if state.Paused {
		return errorx.New(errorx.Paused, "System is paused")
	}

	return nil
}
