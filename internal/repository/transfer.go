package repository

import (
	"context"

	"github.com/tixpool-lab/backend/internal/entity"
	"github.com/tixpool-lab/backend/pkg/xcontext"
)

type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.Transfer) error
	GetByToUserID(ctx context.Context, userID string) ([]entity.Transfer, error)
}

type transferRepository struct{}

func NewTransferRepository() *transferRepository {
	return &transferRepository{}
}

func (r *transferRepository) Create(ctx context.Context, transfer *entity.Transfer) error {
	return xcontext.DB(ctx).Create(transfer).Error
}

func (r *transferRepository) GetByToUserID(ctx context.Context, userID string) ([]entity.Transfer, error) {
	var result []entity.Transfer
	if err := xcontext.DB(ctx).Find(&result, "to_user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return result, nil
}
