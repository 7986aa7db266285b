package repository

import (
	"context"

	"github.com/tixpool-lab/backend/internal/entity"
	"github.com/tixpool-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type BalanceRepository interface {
	Get(ctx context.Context, userID string) (*entity.Balance, error)
	Credit(ctx context.Context, userID string, amount uint64) error
	CheckAndDebitForWithdraw(ctx context.Context, userID string, amount uint64) error
	CheckAndDebitForPurchase(ctx context.Context, userID string, amount uint64) error
}

type balanceRepository struct{}

func NewBalanceRepository() *balanceRepository {
	return &balanceRepository{}
}

func (r *balanceRepository) Get(ctx context.Context, userID string) (*entity.Balance, error) {
	var result entity.Balance
	if err := xcontext.DB(ctx).Take(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *balanceRepository) Credit(ctx context.Context, userID string, amount uint64) error {
	db := xcontext.DB(ctx)
	if err := db.Where(entity.Balance{UserID: userID}).
		FirstOrCreate(&entity.Balance{UserID: userID}).Error; err != nil {
		return err
	}

	return db.Model(&entity.Balance{}).
		Where("user_id=?", userID).
		Updates(map[string]any{
			"amount":          gorm.Expr("amount+?", amount),
			"total_deposited": gorm.Expr("total_deposited+?", amount),
		}).Error
}

// CheckAndDebitForWithdraw debits only if the balance covers the amount, so
// the balance can never go negative.
func (r *balanceRepository) CheckAndDebitForWithdraw(ctx context.Context, userID string, amount uint64) error {
	tx := xcontext.DB(ctx).Model(&entity.Balance{}).
		Where("user_id=? AND amount >= ?", userID, amount).
		Updates(map[string]any{
			"amount":          gorm.Expr("amount-?", amount),
			"total_withdrawn": gorm.Expr("total_withdrawn+?", amount),
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// CheckAndDebitForPurchase is the same guard as withdraw but the funds stay
// inside the system, so the withdrawn counter is untouched.
func (r *balanceRepository) CheckAndDebitForPurchase(ctx context.Context, userID string, amount uint64) error {
	tx := xcontext.DB(ctx).Model(&entity.Balance{}).
		Where("user_id=? AND amount >= ?", userID, amount).
		Update("amount", gorm.Expr("amount-?", amount))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
