package main

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/tixpool-lab/backend/config"
	"github.com/tixpool-lab/backend/internal/common"
	"github.com/tixpool-lab/backend/internal/domain"
	"github.com/tixpool-lab/backend/internal/domain/engine"
	"github.com/tixpool-lab/backend/internal/entity"
	"github.com/tixpool-lab/backend/internal/model"
	"github.com/tixpool-lab/backend/internal/repository"
	"github.com/tixpool-lab/backend/migration"
	"github.com/tixpool-lab/backend/pkg/authenticator"
	"github.com/tixpool-lab/backend/pkg/kafka"
	"github.com/tixpool-lab/backend/pkg/logger"
	"github.com/tixpool-lab/backend/pkg/pubsub"
	"github.com/tixpool-lab/backend/pkg/router"
	"github.com/tixpool-lab/backend/pkg/xcontext"
	"github.com/tixpool-lab/backend/pkg/xredis"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	ctx context.Context

	ticketRepo   repository.TicketRepository
	roundRepo    repository.RoundRepository
	poolRepo     repository.PoolRepository
	balanceRepo  repository.BalanceRepository
	transferRepo repository.TransferRepository
	eventLogRepo repository.EventLogRepository
	systemRepo   repository.SystemRepository

	vaultDomain     domain.VaultDomain
	ticketDomain    domain.TicketDomain
	roundDomain     domain.RoundDomain
	systemDomain    domain.SystemDomain
	statisticDomain domain.StatisticDomain

	publisher   pubsub.Publisher
	subscriber  pubsub.Subscriber
	redisClient xredis.Client
	router      *router.Router
	logger      logger.Logger
}

func (s *srv) loadBase() {
	cfg := loadConfigs()
	s.logger = logger.NewLogger(logger.INFO)

	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, s.logger)
	s.ctx = xcontext.WithTokenEngine(s.ctx, authenticator.NewTokenEngine[model.AccessToken](
		cfg.Auth.TokenSecret, cfg.Auth.AccessToken.Expiration))
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx)
	db, err := gorm.Open(mysql.Open(cfg.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) migrateDB() {
	if err := migration.AutoMigrate(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRepos() {
	s.ticketRepo = repository.NewTicketRepository()
	s.roundRepo = repository.NewRoundRepository()
	s.poolRepo = repository.NewPoolRepository()
	s.balanceRepo = repository.NewBalanceRepository()
	s.transferRepo = repository.NewTransferRepository()
	s.eventLogRepo = repository.NewEventLogRepository()
	s.systemRepo = repository.NewSystemRepository()
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx)
	s.publisher = kafka.NewPublisher("tixpool", []string{cfg.Kafka.Addr})
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadDomains() {
	cfg := xcontext.Configs(s.ctx)

	allocator, err := domain.NewPoolAllocator(cfg.Lottery.Mode, s.roundRepo, s.poolRepo)
	if err != nil {
		panic(err)
	}

	if cfg.Lottery.Mode == "tiered" {
		if err := s.poolRepo.EnsureAll(s.ctx, tierList(cfg)); err != nil {
			panic(err)
		}
	}

	idNode, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	guard := domain.NewEntryGuard()
	emitter := domain.NewEventEmitter(s.eventLogRepo, s.publisher)
	registry := domain.NewDBRegistry(s.ticketRepo)
	transferor := domain.NewLedgerTransferor(s.transferRepo)
	adminVerifier := common.NewAdminVerifier()

	s.vaultDomain = domain.NewVaultDomain(
		s.balanceRepo, s.systemRepo, s.ticketRepo, transferor, emitter, guard)
	s.ticketDomain = domain.NewTicketDomain(
		s.ticketRepo, s.balanceRepo, s.systemRepo, allocator, registry, transferor,
		engine.NewWeakRandomizer(), s.redisClient, emitter, guard, idNode)
	s.roundDomain = domain.NewRoundDomain(
		s.roundRepo, s.systemRepo, adminVerifier, emitter)
	s.systemDomain = domain.NewSystemDomain(
		s.systemRepo, adminVerifier, transferor, emitter)
	s.statisticDomain = domain.NewStatisticDomain(
		s.systemRepo, s.poolRepo, s.eventLogRepo, allocator, s.redisClient)
}

func tierList(cfg config.Configs) []entity.PrizeTier {
	table, err := engine.TableForMode(cfg.Lottery.Mode)
	if err != nil {
		panic(err)
	}

	tiers := make([]entity.PrizeTier, 0, len(table.Tiers))
	for _, tc := range table.Tiers {
		tiers = append(tiers, tc.Tier)
	}

	return tiers
}
