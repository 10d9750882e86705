package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"geodrive-insight/internal/dto"
	"geodrive-insight/internal/model"
	"geodrive-insight/pkg/common"
	"geodrive-insight/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedToyota(t *testing.T, env *testEnv) *model.Product {
	t.Helper()
	product := seedProduct(t, env.db, "Toyota Innova", "Toyota")
	at := utils.TimeNowUTC().Add(-time.Hour)
	for i := 0; i < 10; i++ {
		sentiment := dto.SentimentPositive
		text := "comfortable seats on long drives"
		if i >= 7 {
			sentiment = dto.SentimentNegative
			text = "service cost is too high"
		}
		seedReview(t, env.db, product, text, sentiment, at)
		seedPost(t, env.db, "Toyota", sentiment, "")
	}
	return product
}

func TestAnalyticsService_BrandSentimentRatio(t *testing.T) {
	env := newTestEnv(t, &stubOracle{})
	seedToyota(t, env)

	ratio, err := env.svc.AnalyticsService.BrandSentimentRatio(context.Background(), "toyota")
	require.NoError(t, err)

	assert.Equal(t, "Toyota", ratio.Brand)
	assert.Equal(t, int64(7), ratio.Positive)
	assert.Equal(t, int64(3), ratio.Negative)
	assert.Equal(t, int64(0), ratio.Neutral)
	assert.Equal(t, int64(10), ratio.Total)
	assert.Equal(t, 70, ratio.PositivePercent)
	assert.Equal(t, 30, ratio.NegativePercent)
}

func TestAnalyticsService_BrandSentimentRatio_UnknownBrand(t *testing.T) {
	env := newTestEnv(t, &stubOracle{})

	_, err := env.svc.AnalyticsService.BrandSentimentRatio(context.Background(), "Lada")

	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAnalyticsService_CompanySummary(t *testing.T) {
	env := newTestEnv(t, &stubOracle{})
	seedToyota(t, env)
	seedProduct(t, env.db, "Toyota Fortuner", "Toyota")

	summary, err := env.svc.AnalyticsService.CompanySummary(context.Background(), "TOYOTA")
	require.NoError(t, err)

	assert.Equal(t, "Toyota", summary.Company)
	assert.Equal(t, 2, summary.TotalProducts)
	assert.Equal(t, int64(10), summary.TotalReviews)
	assert.Equal(t, int64(7), summary.Positive)
	assert.Equal(t, int64(3), summary.Negative)
	assert.Equal(t, 70, summary.OverallPositivePercent)
	require.Len(t, summary.Products, 2)
	assert.Equal(t, int64(10), summary.Products[0].TotalReviews)
	assert.Equal(t, int64(0), summary.Products[1].TotalReviews)
	require.NotEmpty(t, summary.TopTopics)
	assert.Equal(t, dto.TopicComfort, summary.TopTopics[0].Topic)
	assert.Equal(t, int64(7), summary.TopTopics[0].Count)
	require.NotNil(t, summary.Trend)
	assert.Equal(t, dto.TrendModeWindow, summary.Trend.Mode)
}

func TestAnalyticsService_CompanySummary_NoProducts(t *testing.T) {
	env := newTestEnv(t, &stubOracle{})

	_, err := env.svc.AnalyticsService.CompanySummary(context.Background(), "Lada")

	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAnalyticsService_CompanySummary_NoReviews(t *testing.T) {
	env := newTestEnv(t, &stubOracle{})
	seedProduct(t, env.db, "Jeep Compass", "Jeep")

	summary, err := env.svc.AnalyticsService.CompanySummary(context.Background(), "Jeep")
	require.NoError(t, err)

	assert.Equal(t, int64(0), summary.TotalReviews)
	assert.Equal(t, 0, summary.OverallPositivePercent)
	assert.Nil(t, summary.Trend)
	assert.Empty(t, summary.TopTopics)
}

func TestAnalyticsService_MarketSentimentShare(t *testing.T) {
	env := newTestEnv(t, &stubOracle{})
	for i := 0; i < 10; i++ {
		sentiment := dto.SentimentNegative
		if i < 7 {
			sentiment = dto.SentimentPositive
		}
		seedPost(t, env.db, "Toyota", sentiment, "")
	}
	for i := 0; i < 5; i++ {
		sentiment := dto.SentimentNeutral
		if i < 3 {
			sentiment = dto.SentimentPositive
		}
		seedPost(t, env.db, "Honda", sentiment, "")
	}

	shares, err := env.svc.AnalyticsService.MarketSentimentShare(context.Background())
	require.NoError(t, err)

	require.Len(t, shares, 2)
	assert.Equal(t, dto.MarketSentimentShare{Brand: "Honda", Positive: 3, Total: 5, SentimentShare: 30}, shares[0])
	assert.Equal(t, dto.MarketSentimentShare{Brand: "Toyota", Positive: 7, Total: 10, SentimentShare: 70}, shares[1])
}

func TestAnalyticsService_SentimentCountsAndBrandSummary(t *testing.T) {
	env := newTestEnv(t, &stubOracle{})
	seedPost(t, env.db, "Kia", dto.SentimentPositive, "")
	seedPost(t, env.db, "Kia", dto.SentimentPositive, "")
	seedPost(t, env.db, "Audi", dto.SentimentNegative, "")
	ctx := context.Background()

	counts, err := env.svc.AnalyticsService.SentimentCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []dto.BrandSentimentCount{
		{Brand: "Audi", Sentiment: dto.SentimentNegative, Count: 1},
		{Brand: "Kia", Sentiment: dto.SentimentPositive, Count: 2},
	}, counts)

	summary, err := env.svc.AnalyticsService.BrandSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, []dto.BrandSummary{
		{Brand: "Kia", TotalPosts: 2},
		{Brand: "Audi", TotalPosts: 1},
	}, summary)
}

func TestAnalyticsService_CacheServesUntilInvalidated(t *testing.T) {
	env := newTestEnv(t, &stubOracle{})
	seedPost(t, env.db, "Kia", dto.SentimentPositive, "")
	ctx := context.Background()

	first, err := env.svc.AnalyticsService.BrandSummary(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	seedPost(t, env.db, "Audi", dto.SentimentPositive, "")
	stale, err := env.svc.AnalyticsService.BrandSummary(ctx)
	require.NoError(t, err)
	assert.Len(t, stale, 1)

	env.cache.DeletePrefix(common.KEY_ANALYTICS_PREFIX)
	fresh, err := env.svc.AnalyticsService.BrandSummary(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}

func TestAnalyticsService_RegionDistributionAndGeoPoints(t *testing.T) {
	env := newTestEnv(t, &stubOracle{})
	seedPost(t, env.db, "Toyota", dto.SentimentPositive, "Mumbai")
	seedPost(t, env.db, "Toyota", dto.SentimentPositive, "Mumbai")
	seedPost(t, env.db, "Honda", dto.SentimentNegative, "Mumbai")
	seedPost(t, env.db, "Kia", dto.SentimentPositive, "Pune")
	seedPost(t, env.db, "Kia", dto.SentimentNeutral, "")
	ctx := context.Background()

	regions, err := env.svc.AnalyticsService.RegionDistribution(ctx)
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, "Mumbai", regions[0].City)
	assert.Equal(t, int64(2), regions[0].Positive)
	assert.Equal(t, int64(1), regions[0].Negative)
	assert.Equal(t, int64(3), regions[0].Total)
	assert.Equal(t, 66, regions[0].PositivePercent)
	require.NotNil(t, regions[0].Latitude)
	assert.InDelta(t, 19.0760, *regions[0].Latitude, 1e-9)
	assert.Equal(t, "Pune", regions[1].City)

	points, err := env.svc.AnalyticsService.GeoPoints(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, points, 4)

	limited, err := env.svc.AnalyticsService.GeoPoints(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestAnalyticsService_ProductReviews(t *testing.T) {
	env := newTestEnv(t, &stubOracle{})
	product := seedToyota(t, env)
	ctx := context.Background()

	negative, err := env.svc.AnalyticsService.ProductReviews(ctx, product.ID, dto.ReviewQuery{Sentiment: "negative"})
	require.NoError(t, err)
	assert.Len(t, negative, 3)
	for _, r := range negative {
		assert.Equal(t, dto.SentimentNegative, r.Sentiment)
	}

	all, err := env.svc.AnalyticsService.ProductReviews(ctx, product.ID, dto.ReviewQuery{Limit: 4})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	_, err = env.svc.AnalyticsService.ProductReviews(ctx, product.ID, dto.ReviewQuery{Sentiment: "bad"})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = env.svc.AnalyticsService.ProductReviews(ctx, product.ID+99, dto.ReviewQuery{})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAnalyticsService_ProductSummaryAndPriceHistory(t *testing.T) {
	env := newTestEnv(t, &stubOracle{})
	product := seedToyota(t, env)
	ctx := context.Background()

	now := utils.TimeNowUTC()
	require.NoError(t, env.db.Create(&model.PriceHistory{ProductID: product.ID, Price: 2000000, Source: model.PriceSourceOracle, RecordedAt: now.Add(-48 * time.Hour)}).Error)
	require.NoError(t, env.db.Create(&model.PriceHistory{ProductID: product.ID, Price: 2100000, Source: model.PriceSourceOracle, RecordedAt: now}).Error)

	summary, err := env.svc.AnalyticsService.ProductSummary(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Toyota Innova", summary.ModelName)
	assert.Equal(t, int64(10), summary.TotalReviews)
	assert.Equal(t, 70, summary.PositivePercent)

	history, err := env.svc.AnalyticsService.PriceHistory(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2000000.0, history[0].Price)
	assert.Equal(t, 2100000.0, history[1].Price)

	_, err = env.svc.AnalyticsService.ProductSummary(ctx, product.ID+99)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = env.svc.AnalyticsService.PriceHistory(ctx, product.ID+99)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAnalyticsService_Compare(t *testing.T) {
	env := newTestEnv(t, &stubOracle{})
	at := utils.TimeNowUTC().Add(-time.Hour)

	creta := seedProduct(t, env.db, "Hyundai Creta", "Hyundai")
	seedReview(t, env.db, creta, "great mileage and fuel economy", dto.SentimentPositive, at)
	seedReview(t, env.db, creta, "excellent mileage", dto.SentimentPositive, at)
	seedReview(t, env.db, creta, "comfortable seats", dto.SentimentPositive, at)

	seltos := seedProduct(t, env.db, "Kia Seltos", "Kia")
	seedReview(t, env.db, seltos, "stylish design", dto.SentimentPositive, at)
	seedReview(t, env.db, seltos, "great design and features", dto.SentimentPositive, at)
	seedReview(t, env.db, seltos, "powerful performance", dto.SentimentPositive, at)
	seedReview(t, env.db, seltos, "bad service", dto.SentimentNegative, at)

	resp, err := env.svc.AnalyticsService.Compare(context.Background(), dto.CompareQuery{Model1: "hyundai creta", Model2: "Kia Seltos"})
	require.NoError(t, err)

	comparison := resp.Comparison
	assert.Equal(t, "Hyundai Creta", comparison.BetterModel)
	assert.Equal(t, 100, comparison.Model1.PositivePercent)
	assert.Equal(t, 75, comparison.Model2.PositivePercent)
	assert.Len(t, comparison.Insights, 5)
	assert.Contains(t, comparison.Insights, "Hyundai Creta is praised more for mileage (66% vs 0%)")
	assert.Contains(t, comparison.Insights, "Kia Seltos is praised more for design (50% vs 0%)")
}

func TestAnalyticsService_Compare_UnknownModel(t *testing.T) {
	env := newTestEnv(t, &stubOracle{})
	seedProduct(t, env.db, "Kia Seltos", "Kia")

	_, err := env.svc.AnalyticsService.Compare(context.Background(), dto.CompareQuery{Model1: "Kia Seltos", Model2: "Kia Carens"})

	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAnalyticsService_Trend_Split(t *testing.T) {
	env := newTestEnv(t, &stubOracle{})
	product := seedProduct(t, env.db, "Kia Sonet", "Kia")
	base := utils.TimeNowUTC().AddDate(0, 0, -100)
	for i := 0; i < 5; i++ {
		sentiment := dto.SentimentPositive
		if i < 2 {
			sentiment = dto.SentimentNegative
		}
		seedReview(t, env.db, product, "review", sentiment, base.AddDate(0, 0, i))
	}

	trend, err := env.svc.AnalyticsService.Trend(context.Background(), "kia", dto.TrendQuery{Mode: "split"})
	require.NoError(t, err)

	assert.Equal(t, "Kia", trend.Brand)
	assert.Equal(t, dto.TrendModeSplit, trend.Mode)
	assert.Equal(t, 2, trend.Previous.Size)
	assert.Equal(t, 3, trend.Recent.Size)
	assert.Equal(t, -1.0, trend.Previous.Score)
	assert.Equal(t, 1.0, trend.Recent.Score)
	assert.Equal(t, 2.0, trend.Delta)
	assert.Equal(t, dto.TrendImproving, trend.Direction)
}

func TestAnalyticsService_Trend_Window(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	restore := utils.SetClock(func() time.Time { return now })
	defer restore()

	env := newTestEnv(t, &stubOracle{})
	product := seedProduct(t, env.db, "Honda Amaze", "Honda")
	for i := 0; i < 4; i++ {
		seedReview(t, env.db, product, "old praise", dto.SentimentPositive, now.AddDate(0, 0, -40))
		seedReview(t, env.db, product, "new complaint", dto.SentimentNegative, now.AddDate(0, 0, -5))
	}
	seedReview(t, env.db, product, "ancient", dto.SentimentNegative, now.AddDate(0, 0, -90))

	trend, err := env.svc.AnalyticsService.Trend(context.Background(), "Honda", dto.TrendQuery{})
	require.NoError(t, err)

	assert.Equal(t, dto.TrendModeWindow, trend.Mode)
	assert.Equal(t, 4, trend.Previous.Size)
	assert.Equal(t, 4, trend.Recent.Size)
	assert.Equal(t, 1.0, trend.Previous.Score)
	assert.Equal(t, -1.0, trend.Recent.Score)
	assert.Equal(t, dto.TrendDeclining, trend.Direction)
	assert.Equal(t, 0.05, trend.Threshold)
}

func TestAnalyticsService_Trend_OnlyOldReviews(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	restore := utils.SetClock(func() time.Time { return now })
	defer restore()

	env := newTestEnv(t, &stubOracle{})
	product := seedProduct(t, env.db, "Honda City", "Honda")
	seedReview(t, env.db, product, "ancient", dto.SentimentPositive, now.AddDate(0, 0, -90))

	trend, err := env.svc.AnalyticsService.Trend(context.Background(), "Honda", dto.TrendQuery{})
	require.NoError(t, err)

	assert.Equal(t, "Honda", trend.Brand)
	assert.Equal(t, dto.TrendModeWindow, trend.Mode)
	assert.Equal(t, 0, trend.Recent.Size)
	assert.Equal(t, 0, trend.Previous.Size)
	assert.Equal(t, 0.0, trend.Delta)
	assert.Equal(t, dto.TrendStable, trend.Direction)
}

func TestAnalyticsService_CompanySummary_OnlyOldReviews(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	restore := utils.SetClock(func() time.Time { return now })
	defer restore()

	env := newTestEnv(t, &stubOracle{})
	product := seedProduct(t, env.db, "Honda City", "Honda")
	seedReview(t, env.db, product, "ancient", dto.SentimentPositive, now.AddDate(0, 0, -90))

	summary, err := env.svc.AnalyticsService.CompanySummary(context.Background(), "Honda")
	require.NoError(t, err)

	require.NotNil(t, summary.Trend)
	assert.Equal(t, "Honda", summary.Trend.Brand)
	assert.Equal(t, 0, summary.Trend.Recent.Size)
	assert.Equal(t, dto.TrendStable, summary.Trend.Direction)
}

func TestAnalyticsService_CompanySummary_TrendFollowsProductCompany(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	restore := utils.SetClock(func() time.Time { return now })
	defer restore()

	env := newTestEnv(t, &stubOracle{})
	product := seedProduct(t, env.db, "Toyota Innova", "Toyota")
	seedReview(t, env.db, product, "comfortable seats", dto.SentimentPositive, now.AddDate(0, 0, -2))
	other := seedReview(t, env.db, product, "better than my old honda", dto.SentimentPositive, now.AddDate(0, 0, -1))
	require.NoError(t, env.db.Model(other).Update("brand", "Honda").Error)

	summary, err := env.svc.AnalyticsService.CompanySummary(context.Background(), "Toyota")
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.TotalReviews)
	require.NotNil(t, summary.Trend)
	assert.Equal(t, "Toyota", summary.Trend.Brand)
	assert.Equal(t, 2, summary.Trend.Recent.Size)
	assert.Equal(t, 2, summary.Trend.Recent.Positive)
}

func TestAnalyticsService_Trend_Errors(t *testing.T) {
	env := newTestEnv(t, &stubOracle{})
	ctx := context.Background()

	_, err := env.svc.AnalyticsService.Trend(ctx, "Nobody", dto.TrendQuery{})
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = env.svc.AnalyticsService.Trend(ctx, "Kia", dto.TrendQuery{Mode: "weekly"})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
