package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tixpool-lab/backend/internal/common"
	"github.com/tixpool-lab/backend/pkg/pubsub"
	"github.com/tixpool-lab/backend/pkg/xcontext"
)

type EventTailDomain interface {
	Subscribe(ctx context.Context, pack *pubsub.Pack, t time.Time)
}

type eventTailDomain struct{}

func NewEventTailDomain() *eventTailDomain {
	return &eventTailDomain{}
}

func (d *eventTailDomain) Subscribe(ctx context.Context, pack *pubsub.Pack, t time.Time) {
	var event struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}

	if err := json.Unmarshal(pack.Msg, &event); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot unmarshal event: %v", err)
		return
	}

	if event.Type == "" {
		xcontext.Logger(ctx).Warnf("Received an event without a type")
		return
	}

	common.PromCounters[common.EventsConsumedTotal].
		WithLabelValues(event.Type).Inc()

	xcontext.Logger(ctx).Infof("%s | %s", event.Type, string(event.Payload))
}
