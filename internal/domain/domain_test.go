package domain

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tixpool-lab/backend/internal/common"
	"github.com/tixpool-lab/backend/internal/entity"
	"github.com/tixpool-lab/backend/internal/repository"
	"github.com/tixpool-lab/backend/pkg/testutil"
	"github.com/tixpool-lab/backend/pkg/xcontext"
)

type testSuite struct {
	ctx context.Context

	ticketRepo   repository.TicketRepository
	roundRepo    repository.RoundRepository
	poolRepo     repository.PoolRepository
	balanceRepo  repository.BalanceRepository
	transferRepo repository.TransferRepository
	systemRepo   repository.SystemRepository

	randomizer *testutil.SequenceRandomizer

	vault  VaultDomain
	ticket TicketDomain
	round  RoundDomain
	system SystemDomain
}

// newTestSuite wires every domain over an in-memory database in shared mode.
// Draws replay the given random values.
func newTestSuite(t *testing.T, randoms ...uint64) *testSuite {
	return newTestSuiteMode(t, "shared", randoms...)
}

func newTestSuiteMode(t *testing.T, mode string, randoms ...uint64) *testSuite {
	if len(randoms) == 0 {
		// Falls outside every winning band and misses the top-tier check
		// for any round of more than one ticket.
		randoms = []uint64{12600}
	}

	s := &testSuite{
		ctx:          testutil.MockContext(),
		ticketRepo:   repository.NewTicketRepository(),
		roundRepo:    repository.NewRoundRepository(),
		poolRepo:     repository.NewPoolRepository(),
		balanceRepo:  repository.NewBalanceRepository(),
		transferRepo: repository.NewTransferRepository(),
		systemRepo:   repository.NewSystemRepository(),
		randomizer:   testutil.NewSequenceRandomizer(randoms...),
	}

	allocator, err := NewPoolAllocator(mode, s.roundRepo, s.poolRepo)
	require.NoError(t, err)

	if mode == "tiered" {
		var tiers []entity.PrizeTier
		for _, tc := range allocator.Table().Tiers {
			tiers = append(tiers, tc.Tier)
		}
		require.NoError(t, s.poolRepo.EnsureAll(s.ctx, tiers))
	}

	idNode, err := snowflake.NewNode(1)
	require.NoError(t, err)

	guard := NewEntryGuard()
	emitter := NewEventEmitter(repository.NewEventLogRepository(), &testutil.MockPublisher{})
	registry := NewDBRegistry(s.ticketRepo)
	transferor := NewLedgerTransferor(s.transferRepo)

	s.vault = NewVaultDomain(s.balanceRepo, s.systemRepo, s.ticketRepo, transferor, emitter, guard)
	s.ticket = NewTicketDomain(
		s.ticketRepo, s.balanceRepo, s.systemRepo, allocator, registry, transferor,
		s.randomizer, &testutil.MockRedisClient{}, emitter, guard, idNode)
	s.round = NewRoundDomain(s.roundRepo, s.systemRepo, common.NewAdminVerifier(), emitter)
	s.system = NewSystemDomain(s.systemRepo, common.NewAdminVerifier(), transferor, emitter)

	return s
}

func (s *testSuite) as(userID string) context.Context {
	return xcontext.WithRequestUserID(s.ctx, userID)
}

// openRound creates a round accepting tickets right now.
func (s *testSuite) openRound(t *testing.T) *entity.Round {
	now := xcontext.StartTime(s.ctx)
	round := &entity.Round{
		Base:      entity.Base{ID: uuid.NewString()},
		StartTime: now,
		EndTime:   now.Add(time.Hour),
	}
	require.NoError(t, s.roundRepo.Create(s.ctx, round))
	return round
}

// afterRoundEnd derives a context whose request time is past every round
// created by openRound.
func afterRoundEnd(ctx context.Context) context.Context {
	return xcontext.WithStartTime(ctx, xcontext.StartTime(ctx).Add(2*time.Hour))
}
