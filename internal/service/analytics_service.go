package service

import (
	"context"
	"errors"
	"fmt"
	"geodrive-insight/config"
	"geodrive-insight/internal/dto"
	"geodrive-insight/internal/extractor"
	"geodrive-insight/internal/helper"
	"geodrive-insight/internal/model"
	"geodrive-insight/internal/repository"
	"geodrive-insight/pkg/cache"
	"geodrive-insight/pkg/common"
	"geodrive-insight/pkg/logger"
	"geodrive-insight/pkg/utils"
	"strings"

	"gorm.io/gorm"
)

const companyTopTopics = 3

type AnalyticsService interface {
	SentimentCounts(ctx context.Context) ([]dto.BrandSentimentCount, error)
	BrandSummary(ctx context.Context) ([]dto.BrandSummary, error)
	BrandSentimentRatio(ctx context.Context, brand string) (*dto.BrandSentimentRatio, error)
	MarketSentimentShare(ctx context.Context) ([]dto.MarketSentimentShare, error)
	RegionDistribution(ctx context.Context) ([]dto.RegionDistribution, error)
	GeoPoints(ctx context.Context, limit int) ([]dto.GeoPoint, error)
	CompanySummary(ctx context.Context, company string) (*dto.CompanySummary, error)
	ProductReviews(ctx context.Context, productID uint, query dto.ReviewQuery) ([]model.Review, error)
	ProductSummary(ctx context.Context, productID uint) (*dto.ProductSummary, error)
	PriceHistory(ctx context.Context, productID uint) ([]model.PriceHistory, error)
	Compare(ctx context.Context, query dto.CompareQuery) (*dto.CompareResponse, error)
	Trend(ctx context.Context, brand string, query dto.TrendQuery) (*dto.TrendResult, error)
}

type analyticsService struct {
	cfg              *config.Config
	log              *logger.Logger
	cache            cache.Cache
	analyticsRepo    repository.AnalyticsRepository
	productRepo      repository.ProductRepository
	reviewRepo       repository.ReviewRepository
	socialPostRepo   repository.SocialPostRepository
	priceHistoryRepo repository.PriceHistoryRepository
}

func NewAnalyticsService(
	cfg *config.Config,
	log *logger.Logger,
	inmemoryCache cache.Cache,
	analyticsRepo repository.AnalyticsRepository,
	productRepo repository.ProductRepository,
	reviewRepo repository.ReviewRepository,
	socialPostRepo repository.SocialPostRepository,
	priceHistoryRepo repository.PriceHistoryRepository,
) AnalyticsService {
	return &analyticsService{
		cfg:              cfg,
		log:              log,
		cache:            inmemoryCache,
		analyticsRepo:    analyticsRepo,
		productRepo:      productRepo,
		reviewRepo:       reviewRepo,
		socialPostRepo:   socialPostRepo,
		priceHistoryRepo: priceHistoryRepo,
	}
}

// cached serves key from the analytics cache or computes and stores it.
// Errors are never cached.
func cached[T any](s *analyticsService, key string, fn func() (T, error)) (T, error) {
	if v, ok := cache.GetFromCache[T](s.cache, key); ok {
		return v, nil
	}
	v, err := fn()
	if err != nil {
		return v, err
	}
	if s.cache != nil {
		s.cache.Set(key, v, s.cfg.Cache.AnalyticsTTL)
	}
	return v, nil
}

func (s *analyticsService) SentimentCounts(ctx context.Context) ([]dto.BrandSentimentCount, error) {
	return cached(s, common.KEY_SENTIMENT_COUNTS, func() ([]dto.BrandSentimentCount, error) {
		rows, err := s.analyticsRepo.CountPostsByBrandAndSentiment(ctx, "")
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to count sentiment", logger.ErrorField(err))
			return nil, err
		}
		if rows == nil {
			rows = []dto.BrandSentimentCount{}
		}
		return rows, nil
	})
}

func (s *analyticsService) BrandSummary(ctx context.Context) ([]dto.BrandSummary, error) {
	return cached(s, common.KEY_BRAND_SUMMARY, func() ([]dto.BrandSummary, error) {
		rows, err := s.analyticsRepo.CountPostsByBrand(ctx)
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to summarize brands", logger.ErrorField(err))
			return nil, err
		}
		if rows == nil {
			rows = []dto.BrandSummary{}
		}
		return rows, nil
	})
}

// BrandSentimentRatio returns counts and percentages over the posts of one
// brand. A brand without posts is ErrNotFound, not a zero ratio.
func (s *analyticsService) BrandSentimentRatio(ctx context.Context, brand string) (*dto.BrandSentimentRatio, error) {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return nil, fmt.Errorf("brand is required: %w", ErrInvalidInput)
	}

	key := fmt.Sprintf(common.KEY_BRAND_SENTIMENT_RATIO, strings.ToLower(brand))
	return cached(s, key, func() (*dto.BrandSentimentRatio, error) {
		rows, err := s.analyticsRepo.CountPostsByBrandAndSentiment(ctx, brand)
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to count brand sentiment",
				logger.StringField("brand", brand),
				logger.ErrorField(err),
			)
			return nil, err
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("brand %q has no posts: %w", brand, ErrNotFound)
		}

		var breakdown dto.SentimentBreakdown
		for _, row := range rows {
			addCount(&breakdown, row.Sentiment, row.Count)
		}
		return &dto.BrandSentimentRatio{
			Brand:              rows[0].Brand,
			SentimentBreakdown: finalizeBreakdown(breakdown),
		}, nil
	})
}

// MarketSentimentShare reports each brand's share of all positive posts.
func (s *analyticsService) MarketSentimentShare(ctx context.Context) ([]dto.MarketSentimentShare, error) {
	return cached(s, common.KEY_MARKET_SENTIMENT_SHARE, func() ([]dto.MarketSentimentShare, error) {
		rows, err := s.analyticsRepo.CountPostsByBrandAndSentiment(ctx, "")
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to count market sentiment", logger.ErrorField(err))
			return nil, err
		}

		var (
			order         []string
			byBrand       = make(map[string]*dto.MarketSentimentShare)
			totalPositive int64
		)
		for _, row := range rows {
			share, ok := byBrand[row.Brand]
			if !ok {
				share = &dto.MarketSentimentShare{Brand: row.Brand}
				byBrand[row.Brand] = share
				order = append(order, row.Brand)
			}
			share.Total += row.Count
			if row.Sentiment == dto.SentimentPositive {
				share.Positive += row.Count
				totalPositive += row.Count
			}
		}

		shares := make([]dto.MarketSentimentShare, 0, len(order))
		for _, brand := range order {
			share := byBrand[brand]
			share.SentimentShare = utils.Percent(share.Positive, totalPositive)
			shares = append(shares, *share)
		}
		return shares, nil
	})
}

func (s *analyticsService) RegionDistribution(ctx context.Context) ([]dto.RegionDistribution, error) {
	return cached(s, common.KEY_REGION_DISTRIBUTION, func() ([]dto.RegionDistribution, error) {
		rows, err := s.analyticsRepo.CountPostsByCityAndSentiment(ctx)
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to count region distribution", logger.ErrorField(err))
			return nil, err
		}

		var (
			order  []string
			byCity = make(map[string]*dto.RegionDistribution)
		)
		for _, row := range rows {
			region, ok := byCity[row.GroupKey]
			if !ok {
				region = &dto.RegionDistribution{City: row.GroupKey}
				if loc, found := extractor.CityCentroid(row.GroupKey); found {
					region.Latitude, region.Longitude = loc.Latitude, loc.Longitude
				}
				byCity[row.GroupKey] = region
				order = append(order, row.GroupKey)
			}
			addCount(&region.SentimentBreakdown, row.Sentiment, row.Count)
		}

		regions := make([]dto.RegionDistribution, 0, len(order))
		for _, city := range order {
			region := byCity[city]
			region.SentimentBreakdown = finalizeBreakdown(region.SentimentBreakdown)
			regions = append(regions, *region)
		}
		return regions, nil
	})
}

func (s *analyticsService) GeoPoints(ctx context.Context, limit int) ([]dto.GeoPoint, error) {
	if limit <= 0 || (s.cfg.Analytics.GeoPointsLimit > 0 && limit > s.cfg.Analytics.GeoPointsLimit) {
		limit = s.cfg.Analytics.GeoPointsLimit
	}

	return cached(s, fmt.Sprintf(common.KEY_GEO_POINTS, limit), func() ([]dto.GeoPoint, error) {
		posts, err := s.socialPostRepo.GetLocated(ctx, limit)
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to get located posts", logger.ErrorField(err))
			return nil, err
		}

		points := make([]dto.GeoPoint, 0, len(posts))
		for _, p := range posts {
			if !p.Located() {
				continue
			}
			points = append(points, dto.GeoPoint{
				ID:        p.ID,
				Brand:     p.Brand,
				City:      p.City,
				Latitude:  *p.Latitude,
				Longitude: *p.Longitude,
				Sentiment: p.Sentiment,
				CreatedAt: p.CreatedAt,
			})
		}
		return points, nil
	})
}

func (s *analyticsService) CompanySummary(ctx context.Context, company string) (*dto.CompanySummary, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, fmt.Errorf("company is required: %w", ErrInvalidInput)
	}

	key := fmt.Sprintf(common.KEY_COMPANY_SUMMARY, strings.ToLower(company))
	return cached(s, key, func() (*dto.CompanySummary, error) {
		products, err := s.productRepo.Get(ctx, model.GetProductParam{Company: company})
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to get company products",
				logger.StringField("company", company),
				logger.ErrorField(err),
			)
			return nil, err
		}
		if len(products) == 0 {
			return nil, fmt.Errorf("company %q has no products: %w", company, ErrNotFound)
		}

		summaries, err := s.productSummaries(ctx, products)
		if err != nil {
			return nil, err
		}

		ids := make([]uint, 0, len(products))
		for _, p := range products {
			ids = append(ids, p.ID)
		}
		topics, err := s.analyticsRepo.CountReviewTopics(ctx, ids, companyTopTopics)
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to count company topics", logger.ErrorField(err))
			return nil, err
		}
		if topics == nil {
			topics = []dto.TopicCount{}
		}

		result := &dto.CompanySummary{
			Company:       products[0].Company,
			TotalProducts: len(products),
			TopTopics:     topics,
			Products:      summaries,
		}
		for _, summary := range summaries {
			result.Positive += summary.Positive
			result.Negative += summary.Negative
			result.Neutral += summary.Neutral
		}
		result.TotalReviews = result.Positive + result.Negative + result.Neutral
		result.OverallPositivePercent = utils.Percent(result.Positive, result.TotalReviews)

		trend, err := s.calculateTrend(ctx, model.GetReviewParam{Company: result.Company},
			dto.TrendModeWindow, s.cfg.Analytics.TrendWindowDays)
		switch {
		case err == nil:
			trend.Brand = result.Company
			result.Trend = trend
		case !errors.Is(err, ErrNotFound):
			return nil, err
		}

		return result, nil
	})
}

func (s *analyticsService) ProductReviews(ctx context.Context, productID uint, query dto.ReviewQuery) ([]model.Review, error) {
	sentiment := strings.ToLower(strings.TrimSpace(query.Sentiment))
	if sentiment != "" && !dto.IsValidSentiment(sentiment) {
		return nil, fmt.Errorf("sentiment %q: %w", query.Sentiment, ErrInvalidInput)
	}

	key := fmt.Sprintf(common.KEY_PRODUCT_REVIEWS, productID, sentiment, query.Limit)
	return cached(s, key, func() ([]model.Review, error) {
		if _, err := s.findProduct(ctx, productID); err != nil {
			return nil, err
		}

		reviews, err := s.reviewRepo.Get(ctx, model.GetReviewParam{
			ProductIDs:  []uint{productID},
			Sentiment:   sentiment,
			Limit:       query.Limit,
			NewestFirst: true,
		})
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to get product reviews",
				logger.IntField("product_id", int(productID)),
				logger.ErrorField(err),
			)
			return nil, err
		}
		return reviews, nil
	})
}

func (s *analyticsService) ProductSummary(ctx context.Context, productID uint) (*dto.ProductSummary, error) {
	return cached(s, fmt.Sprintf(common.KEY_PRODUCT_SUMMARY, productID), func() (*dto.ProductSummary, error) {
		product, err := s.findProduct(ctx, productID)
		if err != nil {
			return nil, err
		}

		summaries, err := s.productSummaries(ctx, []model.Product{*product})
		if err != nil {
			return nil, err
		}
		return &summaries[0], nil
	})
}

func (s *analyticsService) PriceHistory(ctx context.Context, productID uint) ([]model.PriceHistory, error) {
	return cached(s, fmt.Sprintf(common.KEY_PRODUCT_PRICE_HISTORY, productID), func() ([]model.PriceHistory, error) {
		if _, err := s.findProduct(ctx, productID); err != nil {
			return nil, err
		}

		histories, err := s.priceHistoryRepo.GetByProductID(ctx, productID)
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to get price history",
				logger.IntField("product_id", int(productID)),
				logger.ErrorField(err),
			)
			return nil, err
		}
		return histories, nil
	})
}

// Compare summarizes two products by model name and reports which one is
// better along with per-feature gaps in their positive reviews.
func (s *analyticsService) Compare(ctx context.Context, query dto.CompareQuery) (*dto.CompareResponse, error) {
	name1, name2 := strings.TrimSpace(query.Model1), strings.TrimSpace(query.Model2)
	if name1 == "" || name2 == "" {
		return nil, fmt.Errorf("model1 and model2 are required: %w", ErrInvalidInput)
	}

	key := fmt.Sprintf(common.KEY_PRODUCT_COMPARISON, strings.ToLower(name1), strings.ToLower(name2))
	return cached(s, key, func() (*dto.CompareResponse, error) {
		product1, err := s.findProductByName(ctx, name1)
		if err != nil {
			return nil, err
		}
		product2, err := s.findProductByName(ctx, name2)
		if err != nil {
			return nil, err
		}

		summaries, err := s.productSummaries(ctx, []model.Product{*product1, *product2})
		if err != nil {
			return nil, err
		}

		features1, err := s.featureShares(ctx, product1.ID)
		if err != nil {
			return nil, err
		}
		features2, err := s.featureShares(ctx, product2.ID)
		if err != nil {
			return nil, err
		}

		return &dto.CompareResponse{
			Comparison: dto.ProductComparison{
				Model1:      summaries[0],
				Model2:      summaries[1],
				BetterModel: calculateBetterModel(summaries[0], summaries[1]),
				Features1:   features1,
				Features2:   features2,
				Insights: calculateFeatureGaps(
					product1.ModelName, features1,
					product2.ModelName, features2,
					s.cfg.Analytics.FeatureGapThreshold,
				),
			},
		}, nil
	})
}

// Trend compares the sentiment score of a brand's recent reviews with the
// preceding period. A brand without any review is ErrNotFound.
func (s *analyticsService) Trend(ctx context.Context, brand string, query dto.TrendQuery) (*dto.TrendResult, error) {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return nil, fmt.Errorf("brand is required: %w", ErrInvalidInput)
	}

	mode := strings.ToLower(strings.TrimSpace(query.Mode))
	if mode == "" {
		mode = dto.TrendModeWindow
	}
	if mode != dto.TrendModeWindow && mode != dto.TrendModeSplit {
		return nil, fmt.Errorf("trend mode %q: %w", query.Mode, ErrInvalidInput)
	}
	windowDays := query.WindowDays
	if windowDays <= 0 {
		windowDays = s.cfg.Analytics.TrendWindowDays
	}
	if mode == dto.TrendModeSplit {
		windowDays = 0
	}

	key := fmt.Sprintf(common.KEY_BRAND_TREND, strings.ToLower(brand), mode, windowDays)
	return cached(s, key, func() (*dto.TrendResult, error) {
		return s.calculateTrend(ctx, model.GetReviewParam{Brand: brand}, mode, windowDays)
	})
}

// calculateTrend scores the reviews selected by param. Only a selection
// without any review is ErrNotFound; empty windows give a stable trend.
func (s *analyticsService) calculateTrend(ctx context.Context, param model.GetReviewParam, mode string, windowDays int) (*dto.TrendResult, error) {
	latestParam := param
	latestParam.Limit = 1
	latestParam.NewestFirst = true
	latest, err := s.reviewRepo.Get(ctx, latestParam)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get latest review",
			logger.StringField("brand", param.Brand),
			logger.StringField("company", param.Company),
			logger.ErrorField(err),
		)
		return nil, err
	}
	if len(latest) == 0 {
		return nil, fmt.Errorf("no reviews for brand %q company %q: %w", param.Brand, param.Company, ErrNotFound)
	}

	now := utils.TimeNowUTC()
	if mode == dto.TrendModeWindow {
		param.Since = now.AddDate(0, 0, -2*windowDays)
	}

	reviews, err := s.reviewRepo.Get(ctx, param)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get trend reviews",
			logger.StringField("brand", param.Brand),
			logger.StringField("company", param.Company),
			logger.ErrorField(err),
		)
		return nil, err
	}

	var result dto.TrendResult
	if mode == dto.TrendModeSplit {
		result = calculateSplitTrend(reviews, s.cfg.Analytics.TrendThreshold)
	} else {
		result = calculateWindowTrend(reviews, now, windowDays, s.cfg.Analytics.TrendThreshold)
	}
	result.Brand = latest[0].Brand
	return &result, nil
}

func (s *analyticsService) productSummaries(ctx context.Context, products []model.Product) ([]dto.ProductSummary, error) {
	ids := make([]uint, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	rows, err := s.analyticsRepo.CountReviewsByProductAndSentiment(ctx, ids)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to count product reviews", logger.ErrorField(err))
		return nil, err
	}

	counts := make(map[uint]*dto.SentimentBreakdown, len(products))
	for _, row := range rows {
		b, ok := counts[row.ProductID]
		if !ok {
			b = &dto.SentimentBreakdown{}
			counts[row.ProductID] = b
		}
		addCount(b, row.Sentiment, row.Count)
	}

	summaries := make([]dto.ProductSummary, 0, len(products))
	for _, p := range products {
		var breakdown dto.SentimentBreakdown
		if b, ok := counts[p.ID]; ok {
			breakdown = finalizeBreakdown(*b)
		}
		summaries = append(summaries, dto.ProductSummary{
			ID:                 p.ID,
			ModelName:          p.ModelName,
			Company:            p.Company,
			CurrentPrice:       p.CurrentPrice,
			TotalReviews:       breakdown.Total,
			SentimentBreakdown: breakdown,
		})
	}
	return summaries, nil
}

func (s *analyticsService) featureShares(ctx context.Context, productID uint) ([]dto.FeatureShare, error) {
	reviews, err := s.reviewRepo.Get(ctx, model.GetReviewParam{
		ProductIDs: []uint{productID},
		Sentiment:  dto.SentimentPositive,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get positive reviews",
			logger.IntField("product_id", int(productID)),
			logger.ErrorField(err),
		)
		return nil, err
	}

	texts := make([]string, 0, len(reviews))
	for _, r := range reviews {
		texts = append(texts, r.Text)
	}
	return calculateFeatureShares(helper.BucketFeatures(texts)), nil
}

func (s *analyticsService) findProduct(ctx context.Context, productID uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", productID, err)
	}
	return product, nil
}

func (s *analyticsService) findProductByName(ctx context.Context, name string) (*model.Product, error) {
	product, err := s.productRepo.FindByModelName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %q: %w", name, err)
	}
	return product, nil
}
