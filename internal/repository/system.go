package repository

import (
	"context"

	"github.com/tixpool-lab/backend/internal/entity"
	"github.com/tixpool-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type SystemRepository interface {
	Get(ctx context.Context) (*entity.SystemState, error)
	SetPaused(ctx context.Context, paused bool) error
	AddReceived(ctx context.Context, amount uint64, tickets int64) error
	AddFees(ctx context.Context, amount uint64) error
	CheckAndDebitFees(ctx context.Context, amount uint64) error
	AddFloorShortfall(ctx context.Context, amount uint64) error
}

type systemRepository struct{}

func NewSystemRepository() *systemRepository {
	return &systemRepository{}
}

func (r *systemRepository) Get(ctx context.Context) (*entity.SystemState, error) {
	var result entity.SystemState
	if err := xcontext.DB(ctx).Take(&result, "id=?", entity.SystemStateID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *systemRepository) SetPaused(ctx context.Context, paused bool) error {
	return xcontext.DB(ctx).Model(&entity.SystemState{}).
		Where("id=?", entity.SystemStateID).
		Update("paused", paused).Error
}

func (r *systemRepository) AddReceived(ctx context.Context, amount uint64, tickets int64) error {
	return xcontext.DB(ctx).Model(&entity.SystemState{}).
		Where("id=?", entity.SystemStateID).
		Updates(map[string]any{
			"total_received": gorm.Expr("total_received+?", amount),
			"total_tickets":  gorm.Expr("total_tickets+?", tickets),
		}).Error
}

func (r *systemRepository) AddFees(ctx context.Context, amount uint64) error {
	return xcontext.DB(ctx).Model(&entity.SystemState{}).
		Where("id=?", entity.SystemStateID).
		Update("accrued_fees", gorm.Expr("accrued_fees+?", amount)).Error
}

// CheckAndDebitFees debits accrued fees only if they cover the amount.
func (r *systemRepository) CheckAndDebitFees(ctx context.Context, amount uint64) error {
	tx := xcontext.DB(ctx).Model(&entity.SystemState{}).
		Where("id=? AND accrued_fees >= ?", entity.SystemStateID, amount).
		Update("accrued_fees", gorm.Expr("accrued_fees-?", amount))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *systemRepository) AddFloorShortfall(ctx context.Context, amount uint64) error {
	return xcontext.DB(ctx).Model(&entity.SystemState{}).
		Where("id=?", entity.SystemStateID).
		Update("floor_shortfall", gorm.Expr("floor_shortfall+?", amount)).Error
}
