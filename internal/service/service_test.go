package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"geodrive-insight/config"
	"geodrive-insight/internal/extractor"
	"geodrive-insight/internal/model"
	"geodrive-insight/internal/repository"
	"geodrive-insight/pkg/cache"
	"geodrive-insight/pkg/logger"
	"geodrive-insight/pkg/metrics"
	"geodrive-insight/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// stubOracle answers both oracle interfaces from fixed responses.
type stubOracle struct {
	mu            sync.Mutex
	classify      string
	classifyErr   error
	price         string
	priceErr      error
	classifyCalls int
	priceCalls    int
}

func (o *stubOracle) ClassifySentiment(ctx context.Context, text string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.classifyCalls++
	return o.classify, o.classifyErr
}

func (o *stubOracle) LookupPrice(ctx context.Context, modelName string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.priceCalls++
	return o.price, o.priceErr
}

func (o *stubOracle) PriceCalls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.priceCalls
}

type testEnv struct {
	cfg     *config.Config
	db      *gorm.DB
	repo    *repository.Repository
	cache   cache.Cache
	metrics *metrics.Metrics
	oracle  *stubOracle
	svc     *Service
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := t.TempDir() + "/test.db?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
		NowFunc:        utils.TimeNowUTC,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func newTestEnv(t *testing.T, oracle *stubOracle) *testEnv {
	t.Helper()

	cfg := config.Default()
	cfg.Gemini.Timeout = 2 * time.Second
	cfg.Gemini.PriceTimeout = 2 * time.Second
	cfg.Cache.AnalyticsTTL = time.Minute

	db := newTestDB(t)
	repo := &repository.Repository{
		ProductRepo:      repository.NewProductRepository(db),
		ReviewRepo:       repository.NewReviewRepository(db),
		SocialPostRepo:   repository.NewSocialPostRepository(db),
		PriceHistoryRepo: repository.NewPriceHistoryRepository(db),
		AvailabilityRepo: repository.NewAvailabilityRepository(db),
		AnalyticsRepo:    repository.NewAnalyticsRepository(db),
		JobRunRepo:       repository.NewJobRunRepository(db),
		GeminiAIRepo:     oracle,
		UnitOfWork:       repository.NewUnitOfWork(db),
	}

	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)

	c := cache.NewCache(time.Minute, time.Minute)
	svc := NewService(cfg, logger.NewNop(), repo, c, m, extractor.NewBrandStore())

	return &testEnv{cfg: cfg, db: db, repo: repo, cache: c, metrics: m, oracle: oracle, svc: svc}
}

func (e *testEnv) count(t *testing.T, value interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(value).Count(&n).Error)
	return n
}

func seedProduct(t *testing.T, db *gorm.DB, name, company string) *model.Product {
	t.Helper()
	p := &model.Product{ModelName: name, Company: company}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedReview(t *testing.T, db *gorm.DB, product *model.Product, text, sentiment string, at time.Time) *model.Review {
	t.Helper()
	r := &model.Review{
		ProductID:  product.ID,
		Text:       text,
		Brand:      product.Company,
		Sentiment:  sentiment,
		Confidence: 0.9,
		KeyTopic:   extractor.CategorizeTopic(text),
		CreatedAt:  at,
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

func seedPost(t *testing.T, db *gorm.DB, brand, sentiment, city string) *model.SocialPost {
	t.Helper()
	p := &model.SocialPost{
		Brand:      brand,
		Text:       brand + " post",
		Sentiment:  sentiment,
		Confidence: 0.8,
		KeyTopic:   "other",
		Source:     model.PostSourceIngest,
	}
	if loc, ok := extractor.CityCentroid(city); ok {
		p.City, p.Latitude, p.Longitude = loc.City, loc.Latitude, loc.Longitude
	}
	require.NoError(t, db.Create(p).Error)
	return p
}
