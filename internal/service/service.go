package service

import (
	"geodrive-insight/config"
	"geodrive-insight/internal/extractor"
	"geodrive-insight/internal/normalizer"
	"geodrive-insight/internal/repository"
	"geodrive-insight/internal/strategy"
	"geodrive-insight/pkg/cache"
	"geodrive-insight/pkg/logger"
	"geodrive-insight/pkg/metrics"
)

type Service struct {
	AnalysisService  AnalysisService
	AnalyticsService AnalyticsService
	SchedulerService SchedulerService
	TaskExecutor     TaskExecutor
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
	m *metrics.Metrics,
	brands *extractor.BrandStore,
) *Service {
	norm := normalizer.New(extractor.NewBrandDetector(brands))
	priceService := NewPriceService(cfg, log, m, repo.GeminiAIRepo, repo.ProductRepo, repo.PriceHistoryRepo, repo.UnitOfWork)
	resolver := NewProductResolver(log, repo.ProductRepo, priceService)

	analyticsService := NewAnalyticsService(cfg, log, inmemoryCache, repo.AnalyticsRepo, repo.ProductRepo, repo.ReviewRepo, repo.SocialPostRepo, repo.PriceHistoryRepo)
	analysisService := NewAnalysisService(cfg, log, m, inmemoryCache, repo.GeminiAIRepo, norm, resolver, analyticsService,
		repo.ProductRepo, repo.ReviewRepo, repo.SocialPostRepo, repo.AvailabilityRepo, repo.UnitOfWork)

	executorStrategies := make(map[strategy.JobType]strategy.JobExecutionStrategy)
	executorStrategies[strategy.JobTypePriceRefresh] = strategy.NewPriceRefreshStrategy(cfg, log, inmemoryCache, repo.ProductRepo, priceService)
	executorStrategies[strategy.JobTypePostRetention] = strategy.NewDataCleanUpStrategy(cfg, log, inmemoryCache, repo.SocialPostRepo, repo.JobRunRepo)

	taskExecutor := NewTaskExecutor(cfg, log, m, repo.JobRunRepo, executorStrategies)
	schedulerService := NewSchedulerService(cfg, log, taskExecutor)

	return &Service{
		AnalysisService:  analysisService,
		AnalyticsService: analyticsService,
		SchedulerService: schedulerService,
		TaskExecutor:     taskExecutor,
	}
}
