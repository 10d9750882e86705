package repository

import (
	"context"
	"geodrive-insight/internal/model"
	"geodrive-insight/pkg/utils"

	"gorm.io/gorm"
)

type PriceHistoryRepository interface {
	Create(ctx context.Context, history *model.PriceHistory, opts ...utils.DBOption) error
	GetByProductID(ctx context.Context, productID uint, opts ...utils.DBOption) ([]model.PriceHistory, error)
}

type priceHistoryRepository struct {
	db *gorm.DB
}

func NewPriceHistoryRepository(db *gorm.DB) PriceHistoryRepository {
	return &priceHistoryRepository{db: db}
}

func (r *priceHistoryRepository) Create(ctx context.Context, history *model.PriceHistory, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(history).Error
}

func (r *priceHistoryRepository) GetByProductID(ctx context.Context, productID uint, opts ...utils.DBOption) ([]model.PriceHistory, error) {
	var histories []model.PriceHistory
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("product_id = ?", productID).
		Order("recorded_at ASC, id ASC").
		Find(&histories).Error
	if err != nil {
		return nil, err
	}
	return histories, nil
}
