package repository

import (
	"geodrive-insight/config"
	"geodrive-insight/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	ProductRepo      ProductRepository
	ReviewRepo       ReviewRepository
	SocialPostRepo   SocialPostRepository
	PriceHistoryRepo PriceHistoryRepository
	AvailabilityRepo AvailabilityRepository
	AnalyticsRepo    AnalyticsRepository
	JobRunRepo       JobRunRepository
	GeminiAIRepo     AIRepository
	UnitOfWork       UnitOfWork
}

func NewRepository(cfg *config.Config, db *gorm.DB, log *logger.Logger, geminiOpts ...GeminiOption) (*Repository, error) {
	geminiAIRepo, err := NewGeminiAIRepository(cfg.Gemini, log, geminiOpts...)
	if err != nil {
		return nil, err
	}

	return &Repository{
		ProductRepo:      NewProductRepository(db),
		ReviewRepo:       NewReviewRepository(db),
		SocialPostRepo:   NewSocialPostRepository(db),
		PriceHistoryRepo: NewPriceHistoryRepository(db),
		AvailabilityRepo: NewAvailabilityRepository(db),
		AnalyticsRepo:    NewAnalyticsRepository(db),
		JobRunRepo:       NewJobRunRepository(db),
		GeminiAIRepo:     geminiAIRepo,
		UnitOfWork:       NewUnitOfWork(db),
	}, nil
}
