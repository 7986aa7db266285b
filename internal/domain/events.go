package domain

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/tixpool-lab/backend/internal/entity"
	"github.com/tixpool-lab/backend/internal/model"
	"github.com/tixpool-lab/backend/internal/repository"
	"github.com/tixpool-lab/backend/pkg/pubsub"
	"github.com/tixpool-lab/backend/pkg/xcontext"
)

// EventEmitter records domain facts both in the event_logs table and on the
// message bus. Emission is best effort, a failed publish never aborts the
// operation that produced the event.
type EventEmitter interface {
	Emit(ctx context.Context, eventType entity.EventType, payload entity.Map)
}

type eventEmitter struct {
	eventLogRepo repository.EventLogRepository
	publisher    pubsub.Publisher
}

func NewEventEmitter(
	eventLogRepo repository.EventLogRepository,
	publisher pubsub.Publisher,
) *eventEmitter {
	return &eventEmitter{
		eventLogRepo: eventLogRepo,
		publisher:    publisher,
	}
}

func (e *eventEmitter) Emit(ctx context.Context, eventType entity.EventType, payload entity.Map) {
	if err := e.eventLogRepo.Create(ctx, &entity.EventLog{
		Base:    entity.Base{ID: uuid.NewString()},
		Type:    eventType,
		Payload: payload,
	}); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot record %s event: %v", eventType, err)
	}

	if e.publisher == nil {
		return
	}

	msg := entity.Map{"type": string(eventType), "payload": payload}
	b, err := json.Marshal(msg)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot marshal %s event: %v", eventType, err)
		return
	}

	err = e.publisher.Publish(ctx, model.LotteryEventsTopic, &pubsub.Pack{Key: []byte(eventType), Msg: b})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish %s event: %v", eventType, err)
	}
}
