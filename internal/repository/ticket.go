package repository

import (
	"context"

	"github.com/tixpool-lab/backend/internal/entity"
	"github.com/tixpool-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.Ticket) error
	GetByID(ctx context.Context, ticketID int64) (*entity.Ticket, error)
	GetByIDs(ctx context.Context, ticketIDs []int64) ([]entity.Ticket, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]entity.Ticket, error)
	GetPendingByOwnerID(ctx context.Context, ownerID string, limit int) ([]entity.Ticket, error)
	UpdateOwner(ctx context.Context, ticketID int64, ownerID string) error
	CheckAndResolve(ctx context.Context, ticketID int64, tier entity.PrizeTier, payout uint64) error
	CheckAndClaim(ctx context.Context, ticketID int64) error
	SumClaimedPayoutByOwnerID(ctx context.Context, ownerID string) (uint64, error)
}

type ticketRepository struct{}

func NewTicketRepository() *ticketRepository {
	return &ticketRepository{}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *entity.Ticket) error {
	return xcontext.DB(ctx).Create(ticket).Error
}

func (r *ticketRepository) GetByID(ctx context.Context, ticketID int64) (*entity.Ticket, error) {
	var result entity.Ticket
	if err := xcontext.DB(ctx).Take(&result, "id=?", ticketID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *ticketRepository) GetByIDs(ctx context.Context, ticketIDs []int64) ([]entity.Ticket, error) {
	var result []entity.Ticket
	if err := xcontext.DB(ctx).Find(&result, "id IN (?)", ticketIDs).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *ticketRepository) GetByOwnerID(ctx context.Context, ownerID string) ([]entity.Ticket, error) {
	var result []entity.Ticket
	if err := xcontext.DB(ctx).Find(&result, "owner_id=?", ownerID).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *ticketRepository) GetPendingByOwnerID(ctx context.Context, ownerID string, limit int) ([]entity.Ticket, error) {
	var result []entity.Ticket
	err := xcontext.DB(ctx).Where("owner_id=? AND resolved=?", ownerID, false).
		Limit(limit).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *ticketRepository) UpdateOwner(ctx context.Context, ticketID int64, ownerID string) error {
	tx := xcontext.DB(ctx).Model(&entity.Ticket{}).
		Where("id=?", ticketID).
		Update("owner_id", ownerID)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// CheckAndResolve transitions a pending ticket to resolved exactly once.
func (r *ticketRepository) CheckAndResolve(
	ctx context.Context, ticketID int64, tier entity.PrizeTier, payout uint64,
) error {
	tx := xcontext.DB(ctx).Model(&entity.Ticket{}).
		Where("id=? AND resolved=?", ticketID, false).
		Updates(map[string]any{
			"resolved":      true,
			"tier":          tier,
			"payout_amount": payout,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// CheckAndClaim marks a resolved winning ticket as claimed exactly once.
func (r *ticketRepository) CheckAndClaim(ctx context.Context, ticketID int64) error {
	tx := xcontext.DB(ctx).Model(&entity.Ticket{}).
		Where("id=? AND resolved=? AND claimed=?", ticketID, true, false).
		Update("claimed", true)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *ticketRepository) SumClaimedPayoutByOwnerID(ctx context.Context, ownerID string) (uint64, error) {
	var result *uint64
	err := xcontext.DB(ctx).Model(&entity.Ticket{}).
		Select("SUM(payout_amount)").
		Where("owner_id=? AND claimed=?", ownerID, true).
		Scan(&result).Error
	if err != nil {
		return 0, err
	}

	if result == nil {
		return 0, nil
	}

	return *result, nil
}
