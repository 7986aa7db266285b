package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/tixpool-lab/backend/internal/common"
	"github.com/tixpool-lab/backend/internal/entity"
	"github.com/tixpool-lab/backend/pkg/pubsub"
	xtestutil "github.com/tixpool-lab/backend/pkg/testutil"
)

func Test_eventTailDomain_Subscribe(t *testing.T) {
	ctx := xtestutil.MockContext()
	tail := NewEventTailDomain()

	counter := common.PromCounters[common.EventsConsumedTotal].
		WithLabelValues(string(entity.EventTicketDrawn))
	before := testutil.ToFloat64(counter)

	msg, err := json.Marshal(entity.Map{
		"type":    string(entity.EventTicketDrawn),
		"payload": entity.Map{"ticket_id": 1},
	})
	require.NoError(t, err)

	tail.Subscribe(ctx, &pubsub.Pack{Key: []byte(entity.EventTicketDrawn), Msg: msg}, time.Now())
	require.Equal(t, before+1, testutil.ToFloat64(counter))

	// Malformed or untyped messages are dropped without counting.
	tail.Subscribe(ctx, &pubsub.Pack{Msg: []byte("not json")}, time.Now())
	tail.Subscribe(ctx, &pubsub.Pack{Msg: []byte(`{"payload":{}}`)}, time.Now())
	require.Equal(t, before+1, testutil.ToFloat64(counter))
}
