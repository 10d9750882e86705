package repository

import (
	"context"
	"fmt"
	"geodrive-insight/internal/dto"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

// AnalyticsRepository runs the group-by count queries behind the dashboard.
type AnalyticsRepository interface {
	CountPostsByBrandAndSentiment(ctx context.Context, brand string) ([]dto.BrandSentimentCount, error)
	CountPostsByBrand(ctx context.Context) ([]dto.BrandSummary, error)
	CountPostsByCityAndSentiment(ctx context.Context) ([]dto.GroupSentimentCount, error)
	CountReviewsByProductAndSentiment(ctx context.Context, productIDs []uint) ([]dto.ProductSentimentCount, error)
	CountReviewTopics(ctx context.Context, productIDs []uint, limit int) ([]dto.TopicCount, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// CountPostsByBrandAndSentiment groups the social post log by brand and
// sentiment. A non-empty brand restricts the result case-insensitively.
func (r *analyticsRepository) CountPostsByBrandAndSentiment(ctx context.Context, brand string) ([]dto.BrandSentimentCount, error) {
	query := sq.Select("brand", "sentiment", "COUNT(*) AS count").
		From("social_posts").
		GroupBy("brand", "sentiment").
		OrderBy("brand ASC", "sentiment ASC")
	if brand = strings.TrimSpace(brand); brand != "" {
		query = query.Where(sq.Expr("LOWER(brand) = ?", strings.ToLower(brand)))
	}

	var rows []dto.BrandSentimentCount
	if err := r.scan(ctx, query, &rows); err != nil {
		return nil, fmt.Errorf("count posts by brand and sentiment: %w", err)
	}
	return rows, nil
}

func (r *analyticsRepository) CountPostsByBrand(ctx context.Context) ([]dto.BrandSummary, error) {
	query := sq.Select("brand", "COUNT(*) AS total_posts").
		From("social_posts").
		GroupBy("brand").
		OrderBy("total_posts DESC", "brand ASC")

	var rows []dto.BrandSummary
	if err := r.scan(ctx, query, &rows); err != nil {
		return nil, fmt.Errorf("count posts by brand: %w", err)
	}
	return rows, nil
}

func (r *analyticsRepository) CountPostsByCityAndSentiment(ctx context.Context) ([]dto.GroupSentimentCount, error) {
	query := sq.Select("city AS group_key", "sentiment", "COUNT(*) AS count").
		From("social_posts").
		Where(sq.And{sq.NotEq{"city": nil}, sq.NotEq{"city": ""}}).
		GroupBy("city", "sentiment").
		OrderBy("city ASC", "sentiment ASC")

	var rows []dto.GroupSentimentCount
	if err := r.scan(ctx, query, &rows); err != nil {
		return nil, fmt.Errorf("count posts by city and sentiment: %w", err)
	}
	return rows, nil
}

func (r *analyticsRepository) CountReviewsByProductAndSentiment(ctx context.Context, productIDs []uint) ([]dto.ProductSentimentCount, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	query := sq.Select("product_id", "sentiment", "COUNT(*) AS count").
		From("reviews").
		Where(sq.Eq{"product_id": productIDs}).
		GroupBy("product_id", "sentiment").
		OrderBy("product_id ASC", "sentiment ASC")

	var rows []dto.ProductSentimentCount
	if err := r.scan(ctx, query, &rows); err != nil {
		return nil, fmt.Errorf("count reviews by product and sentiment: %w", err)
	}
	return rows, nil
}

// CountReviewTopics returns the most frequent key topics, ties broken by name.
func (r *analyticsRepository) CountReviewTopics(ctx context.Context, productIDs []uint, limit int) ([]dto.TopicCount, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	query := sq.Select("key_topic AS topic", "COUNT(*) AS count").
		From("reviews").
		Where(sq.Eq{"product_id": productIDs}).
		GroupBy("key_topic").
		OrderBy("count DESC", "topic ASC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	var rows []dto.TopicCount
	if err := r.scan(ctx, query, &rows); err != nil {
		return nil, fmt.Errorf("count review topics: %w", err)
	}
	return rows, nil
}

func (r *analyticsRepository) scan(ctx context.Context, query sq.SelectBuilder, dest interface{}) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return r.db.WithContext(ctx).Raw(sql, args...).Scan(dest).Error
}
