package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tixpool-lab/backend/internal/common"
	"github.com/tixpool-lab/backend/internal/middleware"
	"github.com/tixpool-lab/backend/pkg/router"
	"github.com/tixpool-lab/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadBase()
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRepos()
	s.loadPublisher()
	s.loadRedisClient()
	s.loadDomains()
	s.loadRouter()

	common.RegisterPrometheus()
	http.Handle("/metrics", promhttp.Handler())

	cfg := xcontext.Configs(s.ctx)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ApiServer.Port),
		Handler: s.router.Handler(),
	}

	s.logger.Infof("Starting api server on port %s", cfg.ApiServer.Port)
	if err := httpServer.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) loadRouter() {
	cfg := xcontext.Configs(s.ctx)
	s.router = router.New(xcontext.DB(s.ctx), cfg, s.logger)
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())

	// Public API. The leaderboard reports the caller's own rank when a
	// token is presented, so authentication is optional here.
	publicRouter := s.router.Branch()
	publicRouter.Before(middleware.OptionalAuthenticate())
	{
		router.GET(publicRouter, "/getRound", s.roundDomain.GetRound)
		router.GET(publicRouter, "/getTierTable", s.statisticDomain.GetTierTable)
		router.GET(publicRouter, "/getStatistics", s.statisticDomain.GetStatistics)
		router.GET(publicRouter, "/getEvents", s.statisticDomain.GetEvents)
		router.GET(publicRouter, "/getLeaderboard", s.statisticDomain.GetLeaderboard)
		router.GET(publicRouter, "/canDraw", s.ticketDomain.CanDraw)
	}

	// These following APIs need authentication with an access token.
	authRouter := s.router.Branch()
	authRouter.Before(middleware.Authenticate())
	{
		// Vault API
		router.POST(authRouter, "/deposit", s.vaultDomain.Deposit)
		router.POST(authRouter, "/withdraw", s.vaultDomain.Withdraw)
		router.POST(authRouter, "/withdrawAll", s.vaultDomain.WithdrawAll)
		router.GET(authRouter, "/getMyBalance", s.vaultDomain.GetMyBalance)

		// Ticket API
		router.POST(authRouter, "/buyTickets", s.ticketDomain.BuyTickets)
		router.POST(authRouter, "/drawTicket", s.ticketDomain.DrawTicket)
		router.POST(authRouter, "/drawAllTickets", s.ticketDomain.DrawAllTickets)
		router.POST(authRouter, "/drawTickets", s.ticketDomain.DrawTickets)
		router.POST(authRouter, "/claimPrize", s.ticketDomain.ClaimPrize)
		router.POST(authRouter, "/claimPrizes", s.ticketDomain.ClaimPrizes)
		router.GET(authRouter, "/getMyTickets", s.ticketDomain.GetMyTickets)

		// Privileged API, the domain checks the admin list on top of the
		// token.
		router.POST(authRouter, "/startRound", s.roundDomain.StartRound)
		router.POST(authRouter, "/finalizeRound", s.roundDomain.FinalizeRound)
		router.POST(authRouter, "/withdrawProtocolFees", s.systemDomain.WithdrawProtocolFees)
		router.POST(authRouter, "/pause", s.systemDomain.Pause)
		router.POST(authRouter, "/unpause", s.systemDomain.Unpause)
	}
}
