package repository

import (
	"context"
	"geodrive-insight/internal/model"
	"geodrive-insight/pkg/utils"
	"strings"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review, opts ...utils.DBOption) error
	Get(ctx context.Context, param model.GetReviewParam, opts ...utils.DBOption) ([]model.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(review).Error
}

// Get returns reviews oldest first unless param.NewestFirst is set.
func (r *reviewRepository) Get(ctx context.Context, param model.GetReviewParam, opts ...utils.DBOption) ([]model.Review, error) {
	var reviews []model.Review

	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Model(&model.Review{})
	if len(param.ProductIDs) > 0 {
		db = db.Where("reviews.product_id IN ?", param.ProductIDs)
	}
	if param.Company != "" {
		db = db.Joins("JOIN products ON products.id = reviews.product_id").
			Where("LOWER(products.company) = ?", strings.ToLower(param.Company))
	}
	if param.Brand != "" {
		db = db.Where("LOWER(reviews.brand) = ?", strings.ToLower(param.Brand))
	}
	if param.Sentiment != "" {
		db = db.Where("reviews.sentiment = ?", param.Sentiment)
	}
	if !param.Since.IsZero() {
		db = db.Where("reviews.created_at >= ?", param.Since)
	}
	if param.Limit > 0 {
		db = db.Limit(param.Limit)
	}

	order := "reviews.created_at ASC, reviews.id ASC"
	if param.NewestFirst {
		order = "reviews.created_at DESC, reviews.id DESC"
	}

	if err := db.Order(order).Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}
