package service

import (
	"context"
	"encoding/json"
	"fmt"
	"geodrive-insight/config"
	"geodrive-insight/internal/contract"
	"geodrive-insight/internal/dto"
	"geodrive-insight/internal/extractor"
	"geodrive-insight/internal/model"
	"geodrive-insight/internal/repository"
	"geodrive-insight/pkg/common"
	"geodrive-insight/pkg/logger"
	"geodrive-insight/pkg/metrics"
	"geodrive-insight/pkg/utils"
	"time"
)

type priceService struct {
	cfg              *config.Config
	log              *logger.Logger
	metrics          *metrics.Metrics
	oracle           repository.PriceOracle
	productRepo      repository.ProductRepository
	priceHistoryRepo repository.PriceHistoryRepository
	uow              repository.UnitOfWork
}

func NewPriceService(
	cfg *config.Config,
	log *logger.Logger,
	m *metrics.Metrics,
	oracle repository.PriceOracle,
	productRepo repository.ProductRepository,
	priceHistoryRepo repository.PriceHistoryRepository,
	uow repository.UnitOfWork,
) contract.PriceContract {
	return &priceService{
		cfg:              cfg,
		log:              log,
		metrics:          m,
		oracle:           oracle,
		productRepo:      productRepo,
		priceHistoryRepo: priceHistoryRepo,
		uow:              uow,
	}
}

// FetchPrice asks the price oracle for modelName. Any failure, including an
// answer without a usable number, yields false and is only logged.
func (s *priceService) FetchPrice(ctx context.Context, modelName string) (dto.PriceQuote, bool) {
	if !s.cfg.Gemini.PriceLookup || s.oracle == nil {
		return dto.PriceQuote{}, false
	}

	if s.cfg.Gemini.PriceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Gemini.PriceTimeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := s.oracle.LookupPrice(ctx, modelName)
	if err != nil {
		s.metrics.RecordOracleRequest(common.ORACLE_PRICE, metrics.StatusError, time.Since(start))
		s.log.WarnContext(ctx, "Price lookup failed, keeping price unknown",
			logger.StringField("model_name", modelName),
			logger.ErrorField(err),
		)
		return dto.PriceQuote{}, false
	}
	s.metrics.RecordOracleRequest(common.ORACLE_PRICE, metrics.StatusSuccess, time.Since(start))

	price, ok := extractor.ParsePrice(raw)
	if !ok || price <= 0 {
		s.log.WarnContext(ctx, "Price answer has no usable number",
			logger.StringField("model_name", modelName),
			logger.StringField("answer", raw),
		)
		return dto.PriceQuote{}, false
	}

	return dto.PriceQuote{Price: price, Raw: raw, Source: model.PriceSourceOracle}, true
}

func (s *priceService) RecordHistory(ctx context.Context, productID uint, quote dto.PriceQuote, opts ...utils.DBOption) error {
	raw, err := json.Marshal(map[string]string{"answer": quote.Raw})
	if err != nil {
		return fmt.Errorf("failed to marshal price answer: %w", err)
	}

	history := &model.PriceHistory{
		ProductID:  productID,
		Price:      quote.Price,
		Source:     quote.Source,
		Raw:        raw,
		RecordedAt: utils.TimeNowUTC(),
	}
	if err := s.priceHistoryRepo.Create(ctx, history, opts...); err != nil {
		return fmt.Errorf("failed to create price history: %w", err)
	}
	return nil
}

// RefreshPrice looks up and stores a new price for product. It reports false
// without error when the oracle had no usable answer.
func (s *priceService) RefreshPrice(ctx context.Context, product model.Product) (bool, error) {
	quote, ok := s.FetchPrice(ctx, product.ModelName)
	if !ok {
		return false, nil
	}

	err := s.uow.Run(ctx, func(opts ...utils.DBOption) error {
		if err := s.productRepo.UpdatePrice(ctx, product.ID, quote.Price, utils.TimeNowUTC(), opts...); err != nil {
			return fmt.Errorf("failed to update product price: %w", err)
		}
		return s.RecordHistory(ctx, product.ID, quote, opts...)
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to store refreshed price",
			logger.IntField("product_id", int(product.ID)),
			logger.ErrorField(err),
		)
		return false, err
	}

	s.log.InfoContext(ctx, "Refreshed product price",
		logger.IntField("product_id", int(product.ID)),
		logger.FloatField("price", quote.Price),
	)
	return true, nil
}
