package repository

import (
	"context"

	"github.com/tixpool-lab/backend/internal/entity"
	"github.com/tixpool-lab/backend/pkg/xcontext"
)

type EventLogRepository interface {
	Create(ctx context.Context, event *entity.EventLog) error
	GetList(ctx context.Context, offset, limit int) ([]entity.EventLog, error)
}

type eventLogRepository struct{}

func NewEventLogRepository() *eventLogRepository {
	return &eventLogRepository{}
}

func (r *eventLogRepository) Create(ctx context.Context, event *entity.EventLog) error {
	return xcontext.DB(ctx).Create(event).Error
}

func (r *eventLogRepository) GetList(ctx context.Context, offset, limit int) ([]entity.EventLog, error) {
	var result []entity.EventLog
	err := xcontext.DB(ctx).Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
