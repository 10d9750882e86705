package repository

import (
	"context"
	"geodrive-insight/internal/model"
	"geodrive-insight/pkg/utils"
	"time"

	"gorm.io/gorm"
)

type SocialPostRepository interface {
	Create(ctx context.Context, post *model.SocialPost, opts ...utils.DBOption) error
	GetLocated(ctx context.Context, limit int, opts ...utils.DBOption) ([]model.SocialPost, error)
	DeleteOlderThan(ctx context.Context, date time.Time, opts ...utils.DBOption) (int64, error)
}

type socialPostRepository struct {
	db *gorm.DB
}

func NewSocialPostRepository(db *gorm.DB) SocialPostRepository {
	return &socialPostRepository{db: db}
}

func (r *socialPostRepository) Create(ctx context.Context, post *model.SocialPost, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(post).Error
}

// GetLocated returns the newest posts that carry coordinates.
func (r *socialPostRepository) GetLocated(ctx context.Context, limit int, opts ...utils.DBOption) ([]model.SocialPost, error) {
	var posts []model.SocialPost

	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Order("created_at DESC, id DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}

	if err := db.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *socialPostRepository) DeleteOlderThan(ctx context.Context, date time.Time, opts ...utils.DBOption) (int64, error) {
	res := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("created_at < ?", date).
		Delete(&model.SocialPost{})
	return res.RowsAffected, res.Error
}
