package main

import (
	"github.com/tixpool-lab/backend/internal/domain"
	"github.com/tixpool-lab/backend/internal/domain/cron"
	"github.com/tixpool-lab/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	s.loadBase()
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRepos()
	s.loadPublisher()

	manager := cron.NewCronJobManager()
	if xcontext.Configs(s.ctx).Lottery.Mode == "shared" {
		emitter := domain.NewEventEmitter(s.eventLogRepo, s.publisher)
		manager.Register(cron.NewRoundFinalizerCronJob(
			s.roundRepo, s.systemRepo, emitter))
	}

	manager.Start(s.ctx)
	return nil
}
