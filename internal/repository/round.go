package repository

import (
	"context"
	"time"

	"github.com/tixpool-lab/backend/internal/entity"
	"github.com/tixpool-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RoundRepository interface {
	Create(ctx context.Context, round *entity.Round) error
	GetByID(ctx context.Context, roundID string) (*entity.Round, error)
	GetLast(ctx context.Context) (*entity.Round, error)
	GetShouldFinalize(ctx context.Context, now time.Time) ([]entity.Round, error)
	AddTicket(ctx context.Context, roundID string, pooled uint64) error
	CheckAndDebitPayout(ctx context.Context, roundID string, amount uint64) error
	IncrementWinCount(ctx context.Context, roundID string) error
	CheckAndAwardTopTier(ctx context.Context, roundID string, ticketID int64) error
	CheckAndFinalize(ctx context.Context, roundID string, fee uint64) error
}

type roundRepository struct{}

func NewRoundRepository() *roundRepository {
	return &roundRepository{}
}

func (r *roundRepository) Create(ctx context.Context, round *entity.Round) error {
	return xcontext.DB(ctx).Create(round).Error
}

func (r *roundRepository) GetByID(ctx context.Context, roundID string) (*entity.Round, error) {
	var result entity.Round
	if err := xcontext.DB(ctx).Take(&result, "id=?", roundID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *roundRepository) GetLast(ctx context.Context) (*entity.Round, error) {
	var result entity.Round
	if err := xcontext.DB(ctx).Order("start_time DESC").Take(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *roundRepository) GetShouldFinalize(ctx context.Context, now time.Time) ([]entity.Round, error) {
	var result []entity.Round
	err := xcontext.DB(ctx).
		Where("end_time <= ? AND finalized=?", now, false).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// AddTicket accrues the pooled part of one purchase into the round and bumps
// its ticket counter.
func (r *roundRepository) AddTicket(ctx context.Context, roundID string, pooled uint64) error {
	tx := xcontext.DB(ctx).Model(&entity.Round{}).
		Where("id=?", roundID).
		Updates(map[string]any{
			"accumulated":   gorm.Expr("accumulated+?", pooled),
			"total_tickets": gorm.Expr("total_tickets+?", 1),
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// CheckAndDebitPayout debits the pool only while paid out funds stay within
// accumulated funds.
func (r *roundRepository) CheckAndDebitPayout(ctx context.Context, roundID string, amount uint64) error {
	tx := xcontext.DB(ctx).Model(&entity.Round{}).
		Where("id=? AND accumulated - paid_out >= ?", roundID, amount).
		Update("paid_out", gorm.Expr("paid_out+?", amount))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *roundRepository) IncrementWinCount(ctx context.Context, roundID string) error {
	return xcontext.DB(ctx).Model(&entity.Round{}).
		Where("id=?", roundID).
		Update("win_count", gorm.Expr("win_count+?", 1)).Error
}

// CheckAndAwardTopTier records the single top-tier win of a round.
func (r *roundRepository) CheckAndAwardTopTier(ctx context.Context, roundID string, ticketID int64) error {
	tx := xcontext.DB(ctx).Model(&entity.Round{}).
		Where("id=? AND top_tier_awarded=?", roundID, false).
		Updates(map[string]any{
			"top_tier_awarded":   true,
			"top_tier_ticket_id": ticketID,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// CheckAndFinalize locks an unfinalized round and deducts the protocol fee
// from its pool.
func (r *roundRepository) CheckAndFinalize(ctx context.Context, roundID string, fee uint64) error {
	tx := xcontext.DB(ctx).Model(&entity.Round{}).
		Where("id=? AND finalized=? AND accumulated >= ?", roundID, false, fee).
		Updates(map[string]any{
			"finalized":   true,
			"fee_taken":   fee,
			"accumulated": gorm.Expr("accumulated-?", fee),
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
