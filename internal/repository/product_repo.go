package repository

import (
	"context"
	"fmt"
	"geodrive-insight/internal/model"
	"geodrive-insight/pkg/utils"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Get(ctx context.Context, param model.GetProductParam, opts ...utils.DBOption) ([]model.Product, error)
	FindByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.Product, error)
	FindByModelName(ctx context.Context, modelName string, opts ...utils.DBOption) (*model.Product, error)
	CreateOrGet(ctx context.Context, product *model.Product, opts ...utils.DBOption) (bool, error)
	UpdatePrice(ctx context.Context, id uint, price float64, at time.Time, opts ...utils.DBOption) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Get returns products in storage order (ascending id).
func (r *productRepository) Get(ctx context.Context, param model.GetProductParam, opts ...utils.DBOption) ([]model.Product, error) {
	var products []model.Product

	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if len(param.IDs) > 0 {
		db = db.Where("id IN ?", param.IDs)
	}
	if param.Company != "" {
		db = db.Where("LOWER(company) = ?", strings.ToLower(strings.TrimSpace(param.Company)))
	}
	if param.WithoutPrice {
		db = db.Where("current_price <= 0")
	}
	if param.Limit > 0 {
		db = db.Limit(param.Limit)
	}

	if err := db.Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.Product, error) {
	var product model.Product
	if err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByModelName matches the whole model name case-insensitively; the
// oldest product wins when several companies share a name.
func (r *productRepository) FindByModelName(ctx context.Context, modelName string, opts ...utils.DBOption) (*model.Product, error) {
	var product model.Product
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("LOWER(model_name) = ?", strings.ToLower(strings.TrimSpace(modelName))).
		Order("id ASC").
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateOrGet inserts product unless (model_name, company) already exists,
// in which case product is overwritten with the stored row. The returned
// bool reports whether a row was inserted.
func (r *productRepository) CreateOrGet(ctx context.Context, product *model.Product, opts ...utils.DBOption) (bool, error) {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "model_name"}, {Name: "company"}},
		DoNothing: true,
	}).Create(product)
	if res.Error != nil {
		return false, fmt.Errorf("failed to create product: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	var existing model.Product
	if err := db.Where("model_name = ? AND company = ?", product.ModelName, product.Company).First(&existing).Error; err != nil {
		return false, fmt.Errorf("failed to re-fetch product after conflict: %w", err)
	}
	*product = existing
	return false, nil
}

func (r *productRepository) UpdatePrice(ctx context.Context, id uint, price float64, at time.Time, opts ...utils.DBOption) error {
	res := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_price":    price,
			"price_updated_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
