package repository

import (
	"context"
	"geodrive-insight/internal/model"
	"geodrive-insight/pkg/utils"

	"gorm.io/gorm"
)

type AvailabilityRepository interface {
	Create(ctx context.Context, availability *model.Availability, opts ...utils.DBOption) error
	GetByProductID(ctx context.Context, productID uint, opts ...utils.DBOption) ([]model.Availability, error)
}

type availabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func (r *availabilityRepository) Create(ctx context.Context, availability *model.Availability, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(availability).Error
}

// GetByProductID returns the newest observations first.
func (r *availabilityRepository) GetByProductID(ctx context.Context, productID uint, opts ...utils.DBOption) ([]model.Availability, error) {
	var availabilities []model.Availability
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("product_id = ?", productID).
		Order("recorded_at DESC, id DESC").
		Find(&availabilities).Error
	if err != nil {
		return nil, err
	}
	return availabilities, nil
}
