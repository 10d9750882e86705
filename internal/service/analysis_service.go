package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"geodrive-insight/config"
	"geodrive-insight/internal/dto"
	"geodrive-insight/internal/extractor"
	"geodrive-insight/internal/model"
	"geodrive-insight/internal/normalizer"
	"geodrive-insight/internal/repository"
	"geodrive-insight/pkg/cache"
	"geodrive-insight/pkg/common"
	"geodrive-insight/pkg/logger"
	"geodrive-insight/pkg/metrics"
	"geodrive-insight/pkg/utils"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type AnalysisService interface {
	Analyze(ctx context.Context, req dto.AnalyzeRequest) (*dto.AnalyzeResponse, error)
	AnalyzeProduct(ctx context.Context, req dto.AnalyzeRequest) (*dto.AnalyzeProductResponse, error)
	CreatePost(ctx context.Context, req dto.CreatePostRequest) (*model.SocialPost, error)
	AddAvailability(ctx context.Context, productID uint, req dto.CreateAvailabilityRequest) (*model.Availability, error)
	GetAvailability(ctx context.Context, productID uint) ([]model.Availability, error)
}

type analysisService struct {
	cfg              *config.Config
	log              *logger.Logger
	metrics          *metrics.Metrics
	cache            cache.Cache
	oracle           repository.ClassificationOracle
	normalizer       *normalizer.Normalizer
	resolver         *ProductResolver
	analytics        AnalyticsService
	productRepo      repository.ProductRepository
	reviewRepo       repository.ReviewRepository
	socialPostRepo   repository.SocialPostRepository
	availabilityRepo repository.AvailabilityRepository
	uow              repository.UnitOfWork
}

func NewAnalysisService(
	cfg *config.Config,
	log *logger.Logger,
	m *metrics.Metrics,
	inmemoryCache cache.Cache,
	oracle repository.ClassificationOracle,
	norm *normalizer.Normalizer,
	resolver *ProductResolver,
	analytics AnalyticsService,
	productRepo repository.ProductRepository,
	reviewRepo repository.ReviewRepository,
	socialPostRepo repository.SocialPostRepository,
	availabilityRepo repository.AvailabilityRepository,
	uow repository.UnitOfWork,
) AnalysisService {
	return &analysisService{
		cfg:              cfg,
		log:              log,
		metrics:          m,
		cache:            inmemoryCache,
		oracle:           oracle,
		normalizer:       norm,
		resolver:         resolver,
		analytics:        analytics,
		productRepo:      productRepo,
		reviewRepo:       reviewRepo,
		socialPostRepo:   socialPostRepo,
		availabilityRepo: availabilityRepo,
		uow:              uow,
	}
}

type analyzeOutcome struct {
	response *dto.AnalyzeResponse
	product  *model.Product
}

func (s *analysisService) Analyze(ctx context.Context, req dto.AnalyzeRequest) (*dto.AnalyzeResponse, error) {
	out, err := s.analyze(ctx, req)
	if err != nil {
		return nil, err
	}
	return out.response, nil
}

// AnalyzeProduct runs the pipeline and returns the linked product's summary.
// A post that resolves to no product is still stored.
func (s *analysisService) AnalyzeProduct(ctx context.Context, req dto.AnalyzeRequest) (*dto.AnalyzeProductResponse, error) {
	out, err := s.analyze(ctx, req)
	if err != nil {
		return nil, err
	}
	if out.product == nil {
		return nil, fmt.Errorf("no product matches the text: %w", ErrNotFound)
	}

	summary, err := s.analytics.ProductSummary(ctx, out.product.ID)
	if err != nil {
		return nil, err
	}

	return &dto.AnalyzeProductResponse{
		AnalyzeResponse: *out.response,
		ModelName:       out.product.ModelName,
		Company:         out.product.Company,
		CurrentPrice:    out.product.CurrentPrice,
		Summary:         summary,
	}, nil
}

func (s *analysisService) analyze(ctx context.Context, req dto.AnalyzeRequest) (*analyzeOutcome, error) {
	text := strings.TrimSpace(utils.CleanToValidUTF8(req.Text))
	if text == "" {
		return nil, fmt.Errorf("text is required: %w", ErrInvalidInput)
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, fmt.Errorf("latitude and longitude must be given together: %w", ErrInvalidInput)
	}

	var (
		raw       string
		oracleErr error
		matched   *model.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, oracleErr = s.classify(gctx, text)
		return nil
	})
	g.Go(func() error {
		var err error
		matched, err = s.resolver.Match(gctx, text)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.ErrorContext(ctx, "Failed to match product", logger.ErrorField(err))
		return nil, err
	}

	var (
		result  dto.ClassificationResult
		outcome normalizer.Outcome
	)
	if oracleErr != nil {
		s.log.WarnContext(ctx, "Classification oracle failed, using fallback record", logger.ErrorField(oracleErr))
		result, outcome = s.normalizer.Fallback(text), normalizer.OutcomeFallback
	} else {
		result, outcome = s.normalizer.Normalize(text, raw)
		if outcome == normalizer.OutcomeFallback {
			s.log.WarnContext(ctx, "Classification output unusable, using fallback record",
				logger.StringField("raw", truncate(raw, 200)),
			)
		}
	}
	s.metrics.RecordNormalizerOutcome(string(outcome))

	if result.Latitude == nil && req.Latitude != nil {
		result.Latitude, result.Longitude = req.Latitude, req.Longitude
	}

	resolution := s.resolver.Resolve(ctx, text, result.Brand, matched)

	classification, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal classification: %w", err)
	}

	post := &model.SocialPost{
		Brand:      result.Brand,
		Text:       text,
		City:       result.City,
		Latitude:   result.Latitude,
		Longitude:  result.Longitude,
		Sentiment:  result.Sentiment,
		Confidence: result.Confidence,
		KeyTopic:   result.KeyTopic,
		Source:     model.PostSourceAnalyze,
	}

	var (
		product *model.Product
		created bool
		review  *model.Review
	)
	err = s.uow.Run(ctx, func(opts ...utils.DBOption) error {
		if err := s.socialPostRepo.Create(ctx, post, opts...); err != nil {
			return fmt.Errorf("failed to create social post: %w", err)
		}

		var err error
		product, created, err = s.resolver.Commit(ctx, resolution, opts...)
		if err != nil {
			return fmt.Errorf("failed to resolve product: %w", err)
		}
		if product == nil {
			return nil
		}

		review = &model.Review{
			ProductID:      product.ID,
			Text:           text,
			Brand:          result.Brand,
			Sentiment:      result.Sentiment,
			Confidence:     result.Confidence,
			KeyTopic:       result.KeyTopic,
			City:           result.City,
			Latitude:       result.Latitude,
			Longitude:      result.Longitude,
			Classification: classification,
		}
		if err := s.reviewRepo.Create(ctx, review, opts...); err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to store analysis", logger.ErrorField(err))
		return nil, err
	}

	s.invalidateAnalytics()
	s.metrics.RecordPostIngested(model.PostSourceAnalyze)
	if created {
		s.metrics.RecordProductCreated()
	}

	resp := &dto.AnalyzeResponse{
		ClassificationResult: result,
		PostID:               post.ID,
	}
	if product != nil {
		resp.ReviewID = review.ID
		resp.Product = &dto.ProductRef{
			ID:           product.ID,
			ModelName:    product.ModelName,
			Company:      product.Company,
			CurrentPrice: product.CurrentPrice,
			Created:      created,
		}
	}

	return &analyzeOutcome{response: resp, product: product}, nil
}

func (s *analysisService) classify(ctx context.Context, text string) (string, error) {
	if s.oracle == nil {
		return "", repository.ErrOracleUnavailable
	}
	if s.cfg.Gemini.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Gemini.Timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := s.oracle.ClassifySentiment(ctx, text)
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	s.metrics.RecordOracleRequest(common.ORACLE_CLASSIFY, status, time.Since(start))
	return raw, err
}

// CreatePost stores a pre-classified post. Brand and location are still
// derived from the text when the caller's values are unusable.
func (s *analysisService) CreatePost(ctx context.Context, req dto.CreatePostRequest) (*model.SocialPost, error) {
	text := strings.TrimSpace(utils.CleanToValidUTF8(req.Text))
	if text == "" {
		return nil, fmt.Errorf("text is required: %w", ErrInvalidInput)
	}
	sentiment := strings.ToLower(strings.TrimSpace(req.Sentiment))
	if !dto.IsValidSentiment(sentiment) {
		return nil, fmt.Errorf("sentiment %q must be positive, negative or neutral: %w", req.Sentiment, ErrInvalidInput)
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, fmt.Errorf("latitude and longitude must be given together: %w", ErrInvalidInput)
	}

	post := &model.SocialPost{
		Brand:      s.normalizer.Brands().Detect(text, req.Brand),
		Text:       text,
		Sentiment:  sentiment,
		Confidence: normalizer.ClampConfidence(req.Confidence),
		KeyTopic:   extractor.CategorizeTopic(req.KeyTopic),
		Source:     model.PostSourceIngest,
	}
	if loc := extractor.DetectLocation(text); loc.Found() {
		post.City, post.Latitude, post.Longitude = loc.City, loc.Latitude, loc.Longitude
	} else if req.Latitude != nil {
		post.Latitude, post.Longitude = req.Latitude, req.Longitude
	}
	if req.CreatedAt != nil && !req.CreatedAt.IsZero() {
		post.CreatedAt = req.CreatedAt.UTC()
	}

	if err := s.socialPostRepo.Create(ctx, post); err != nil {
		s.log.ErrorContext(ctx, "Failed to create social post", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to create social post: %w", err)
	}

	s.invalidateAnalytics()
	s.metrics.RecordPostIngested(model.PostSourceIngest)
	return post, nil
}

func (s *analysisService) AddAvailability(ctx context.Context, productID uint, req dto.CreateAvailabilityRequest) (*model.Availability, error) {
	if req.InStock == nil {
		return nil, fmt.Errorf("in_stock is required: %w", ErrInvalidInput)
	}
	city := strings.TrimSpace(utils.CleanToValidUTF8(req.City))
	if city == "" {
		return nil, fmt.Errorf("city is required: %w", ErrInvalidInput)
	}
	if loc, ok := extractor.CityCentroid(city); ok {
		city = loc.City
	}

	if _, err := s.findProduct(ctx, productID); err != nil {
		return nil, err
	}

	availability := &model.Availability{
		ProductID:  productID,
		City:       city,
		Dealer:     strings.TrimSpace(req.Dealer),
		InStock:    *req.InStock,
		Notes:      strings.TrimSpace(req.Notes),
		RecordedAt: utils.TimeNowUTC(),
	}
	if err := s.availabilityRepo.Create(ctx, availability); err != nil {
		s.log.ErrorContext(ctx, "Failed to create availability",
			logger.IntField("product_id", int(productID)),
			logger.ErrorField(err),
		)
		return nil, fmt.Errorf("failed to create availability: %w", err)
	}

	s.invalidateAnalytics()
	return availability, nil
}

func (s *analysisService) GetAvailability(ctx context.Context, productID uint) ([]model.Availability, error) {
	if _, err := s.findProduct(ctx, productID); err != nil {
		return nil, err
	}

	availabilities, err := s.availabilityRepo.GetByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get availability: %w", err)
	}
	return availabilities, nil
}

func (s *analysisService) findProduct(ctx context.Context, productID uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", productID, err)
	}
	return product, nil
}

func (s *analysisService) invalidateAnalytics() {
	if s.cache != nil {
		s.cache.DeletePrefix(common.KEY_ANALYTICS_PREFIX)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
