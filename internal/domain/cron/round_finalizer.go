package cron

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tixpool-lab/backend/internal/domain"
	"github.com/tixpool-lab/backend/internal/domain/engine"
	"github.com/tixpool-lab/backend/internal/entity"
	"github.com/tixpool-lab/backend/internal/repository"
	"github.com/tixpool-lab/backend/pkg/xcontext"
)

// RoundFinalizerCronJob closes overdue rounds and opens the next one, so the
// round clock keeps ticking without an operator. It only runs in shared mode.
type RoundFinalizerCronJob struct {
	roundRepo  repository.RoundRepository
	systemRepo repository.SystemRepository
	emitter    domain.EventEmitter
}

func NewRoundFinalizerCronJob(
	roundRepo repository.RoundRepository,
	systemRepo repository.SystemRepository,
	emitter domain.EventEmitter,
) *RoundFinalizerCronJob {
	return &RoundFinalizerCronJob{
		roundRepo:  roundRepo,
		systemRepo: systemRepo,
		emitter:    emitter,
	}
}

func (job *RoundFinalizerCronJob) Do(ctx context.Context) {
	now := time.Now()
	overdue, err := job.roundRepo.GetShouldFinalize(ctx, now)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get overdue rounds: %v", err)
		return
	}

	cfg := xcontext.Configs(ctx).Lottery
	for _, round := range overdue {
		func() {
			ctx := xcontext.WithDBTransaction(ctx)
			defer xcontext.WithRollbackDBTransaction(ctx)

			fee := engine.RoundFee(round.Accumulated, round.TotalTickets, cfg.RoundFeeRate, cfg.MinTicketsForFee)
			if err := job.roundRepo.CheckAndFinalize(ctx, round.ID, fee); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot finalize round %s: %v", round.ID, err)
				return
			}

			if fee > 0 {
				if err := job.systemRepo.AddFees(ctx, fee); err != nil {
					xcontext.Logger(ctx).Errorf("Cannot accrue fee of round %s: %v", round.ID, err)
					return
				}
			}

			job.emitter.Emit(ctx, entity.EventRoundFinalized, entity.Map{
				"round_id": round.ID,
				"fee":      fee,
			})

			xcontext.WithCommitDBTransaction(ctx)
			xcontext.Logger(ctx).Infof("Finalized round %s with fee %d", round.ID, fee)
		}()
	}

	job.ensureOpenRound(ctx, now)
}

func (job *RoundFinalizerCronJob) ensureOpenRound(ctx context.Context, now time.Time) {
	last, err := job.roundRepo.GetLast(ctx)
	if err == nil && !last.Ended(now) {
		return
	}

	round := &entity.Round{
		Base:      entity.Base{ID: uuid.NewString()},
		StartTime: now,
		EndTime:   now.Add(xcontext.Configs(ctx).Lottery.RoundDuration),
	}

	if err := job.roundRepo.Create(ctx, round); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot open the next round: %v", err)
		return
	}

	job.emitter.Emit(ctx, entity.EventRoundStarted, entity.Map{
		"round_id":   round.ID,
		"start_time": round.StartTime,
		"end_time":   round.EndTime,
	})

	xcontext.Logger(ctx).Infof("Opened round %s until %s", round.ID, round.EndTime)
}

func (job *RoundFinalizerCronJob) RunNow() bool {
	return true
}

func (job *RoundFinalizerCronJob) Next() time.Time {
	return time.Now().Add(time.Minute)
}
