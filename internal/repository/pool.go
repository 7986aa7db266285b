package repository

import (
	"context"

	"github.com/tixpool-lab/backend/internal/entity"
	"github.com/tixpool-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PoolRepository interface {
	EnsureAll(ctx context.Context, tiers []entity.PrizeTier) error
	Get(ctx context.Context, tier entity.PrizeTier) (*entity.TierPool, error)
	GetAll(ctx context.Context) ([]entity.TierPool, error)
	AddFunds(ctx context.Context, tier entity.PrizeTier, amount uint64) error
	IncrementTicketCount(ctx context.Context, tier entity.PrizeTier) error
	CheckAndDebitPayout(ctx context.Context, tier entity.PrizeTier, amount uint64) error
	IncrementWinCount(ctx context.Context, tier entity.PrizeTier) error
}

type poolRepository struct{}

func NewPoolRepository() *poolRepository {
	return &poolRepository{}
}

func (r *poolRepository) EnsureAll(ctx context.Context, tiers []entity.PrizeTier) error {
	for _, tier := range tiers {
		pool := entity.TierPool{Tier: tier}
		err := xcontext.DB(ctx).Where(entity.TierPool{Tier: tier}).FirstOrCreate(&pool).Error
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *poolRepository) Get(ctx context.Context, tier entity.PrizeTier) (*entity.TierPool, error) {
	var result entity.TierPool
	if err := xcontext.DB(ctx).Take(&result, "tier=?", tier).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *poolRepository) GetAll(ctx context.Context) ([]entity.TierPool, error) {
	var result []entity.TierPool
	if err := xcontext.DB(ctx).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *poolRepository) AddFunds(ctx context.Context, tier entity.PrizeTier, amount uint64) error {
	tx := xcontext.DB(ctx).Model(&entity.TierPool{}).
		Where("tier=?", tier).
		Update("accumulated", gorm.Expr("accumulated+?", amount))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *poolRepository) IncrementTicketCount(ctx context.Context, tier entity.PrizeTier) error {
	return xcontext.DB(ctx).Model(&entity.TierPool{}).
		Where("tier=?", tier).
		Update("ticket_count", gorm.Expr("ticket_count+?", 1)).Error
}

// CheckAndDebitPayout debits the tier pool only while paid out funds stay
// within accumulated funds.
func (r *poolRepository) CheckAndDebitPayout(ctx context.Context, tier entity.PrizeTier, amount uint64) error {
	tx := xcontext.DB(ctx).Model(&entity.TierPool{}).
		Where("tier=? AND accumulated - paid_out >= ?", tier, amount).
		Update("paid_out", gorm.Expr("paid_out+?", amount))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *poolRepository) IncrementWinCount(ctx context.Context, tier entity.PrizeTier) error {
	return xcontext.DB(ctx).Model(&entity.TierPool{}).
		Where("tier=?", tier).
		Update("win_count", gorm.Expr("win_count+?", 1)).Error
}
