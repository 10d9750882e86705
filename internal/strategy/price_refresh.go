package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"geodrive-insight/config"
	"geodrive-insight/internal/contract"
	"geodrive-insight/internal/model"
	"geodrive-insight/internal/repository"
	"geodrive-insight/pkg/cache"
	"geodrive-insight/pkg/common"
	"geodrive-insight/pkg/logger"
	"geodrive-insight/pkg/utils"
	"sync"

	"golang.org/x/sync/errgroup"
)

// PriceRefreshPayload defines the payload for the price refresh job.
type PriceRefreshPayload struct {
	Limit       int `json:"limit"`
	Concurrency int `json:"concurrency"`
}

// PriceRefreshResult is reported per product.
type PriceRefreshResult struct {
	ProductID uint   `json:"product_id"`
	ModelName string `json:"model_name"`
	Updated   bool   `json:"updated"`
	Errors    string `json:"errors,omitempty"`
}

// PriceRefreshStrategy backfills prices for products whose price is still unknown.
type PriceRefreshStrategy struct {
	cfg         *config.Config
	log         *logger.Logger
	cache       cache.Cache
	productRepo repository.ProductRepository
	prices      contract.PriceContract
}

func NewPriceRefreshStrategy(
	cfg *config.Config,
	log *logger.Logger,
	inmemoryCache cache.Cache,
	productRepo repository.ProductRepository,
	prices contract.PriceContract,
) JobExecutionStrategy {
	return &PriceRefreshStrategy{
		cfg:         cfg,
		log:         log,
		cache:       inmemoryCache,
		productRepo: productRepo,
		prices:      prices,
	}
}

func (s *PriceRefreshStrategy) GetType() JobType {
	return JobTypePriceRefresh
}

func (s *PriceRefreshStrategy) Execute(ctx context.Context, job *Job) (JobResult, error) {
	payload := PriceRefreshPayload{
		Limit:       s.cfg.Scheduler.PriceRefreshSize,
		Concurrency: s.cfg.Scheduler.MaxConcurrency,
	}
	if err := decodePayload(job, &payload); err != nil {
		s.log.ErrorContext(ctx, "Failed to unmarshal job payload", logger.ErrorField(err))
		return JobResult{ExitCode: JOB_EXIT_CODE_FAILED, Output: fmt.Sprintf("failed to unmarshal job payload: %v", err)}, fmt.Errorf("failed to unmarshal job payload: %w", err)
	}
	if payload.Concurrency <= 0 {
		payload.Concurrency = 1
	}

	products, err := s.productRepo.Get(ctx, model.GetProductParam{WithoutPrice: true, Limit: payload.Limit})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get products without price", logger.ErrorField(err))
		return JobResult{ExitCode: JOB_EXIT_CODE_FAILED, Output: fmt.Sprintf("failed to get products: %v", err)}, err
	}
	if len(products) == 0 {
		return JobResult{ExitCode: JOB_EXIT_CODE_SKIPPED, Output: "no products without price"}, nil
	}

	s.log.InfoContext(ctx, "Refreshing product prices",
		logger.IntField("products", len(products)),
		logger.IntField("concurrency", payload.Concurrency),
	)

	var (
		mu      sync.Mutex
		results = make([]PriceRefreshResult, len(products))
		updated int
		failed  int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(payload.Concurrency)
	for i, product := range products {
		i, product := i, product
		g.Go(func() error {
			result := PriceRefreshResult{ProductID: product.ID, ModelName: product.ModelName}
			if !utils.ShouldContinue(gctx, s.log) {
				result.Errors = gctx.Err().Error()
				mu.Lock()
				failed++
				results[i] = result
				mu.Unlock()
				return nil
			}

			ok, err := s.prices.RefreshPrice(gctx, product)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				result.Errors = err.Error()
				failed++
			case ok:
				result.Updated = true
				updated++
			}
			results[i] = result
			return nil
		})
	}
	_ = g.Wait()

	if updated > 0 && s.cache != nil {
		s.cache.DeletePrefix(common.KEY_ANALYTICS_PREFIX)
	}

	res, err := json.Marshal(results)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to marshal output message", logger.ErrorField(err))
		return JobResult{ExitCode: JOB_EXIT_CODE_FAILED, Output: fmt.Sprintf("failed to marshal output message: %v", err)}, fmt.Errorf("failed to marshal output message: %w", err)
	}

	s.log.InfoContext(ctx, "Price refresh completed",
		logger.IntField("updated", updated),
		logger.IntField("failed", failed),
		logger.IntField("total", len(products)),
	)

	switch {
	case failed == len(products):
		return JobResult{ExitCode: JOB_EXIT_CODE_FAILED, Output: string(res)}, fmt.Errorf("price refresh failed for all %d products", failed)
	case failed > 0 || updated < len(products):
		return JobResult{ExitCode: JOB_EXIT_CODE_PARTIAL_SUCCESS, Output: string(res)}, nil
	default:
		return JobResult{ExitCode: JOB_EXIT_CODE_SUCCESS, Output: string(res)}, nil
	}
}
