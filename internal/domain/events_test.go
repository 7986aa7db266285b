package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tixpool-lab/backend/internal/entity"
	"github.com/tixpool-lab/backend/internal/repository"
	"github.com/tixpool-lab/backend/pkg/testutil"
)

func Test_eventEmitter_Emit_AppendsEveryFact(t *testing.T) {
	ctx := testutil.MockContext()
	eventLogRepo := repository.NewEventLogRepository()
	emitter := NewEventEmitter(eventLogRepo, &testutil.MockPublisher{})

	emitter.Emit(ctx, entity.EventBalanceDeposited, entity.Map{"user_id": "alice", "amount": 100})
	emitter.Emit(ctx, entity.EventTicketPurchased, entity.Map{"user_id": "alice"})
	emitter.Emit(ctx, entity.EventTicketDrawn, entity.Map{"user_id": "alice"})

	logs, err := eventLogRepo.GetList(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, logs, 3)

	ids := map[string]bool{}
	for _, log := range logs {
		require.NotEmpty(t, log.ID)
		ids[log.ID] = true
	}
	require.Len(t, ids, 3)
}
