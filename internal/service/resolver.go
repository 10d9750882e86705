package service

import (
	"context"
	"errors"
	"fmt"
	"geodrive-insight/internal/contract"
	"geodrive-insight/internal/dto"
	"geodrive-insight/internal/helper"
	"geodrive-insight/internal/model"
	"geodrive-insight/internal/repository"
	"geodrive-insight/pkg/logger"
	"geodrive-insight/pkg/utils"
	"strings"

	"gorm.io/gorm"
)

// Resolution is the outcome of matching a post to a product. At most one of
// Product (an existing match) and Candidate (a product to create) is set.
type Resolution struct {
	Product   *model.Product
	Candidate *model.Product
	Quote     *dto.PriceQuote
}

// Resolved reports whether the post will be linked to a product.
func (r Resolution) Resolved() bool {
	return r.Product != nil || r.Candidate != nil
}

// ProductResolver maps post text to a product: exact name match, then
// substring match, then a new product named after the post.
type ProductResolver struct {
	log         *logger.Logger
	productRepo repository.ProductRepository
	prices      contract.PriceContract
}

func NewProductResolver(log *logger.Logger, productRepo repository.ProductRepository, prices contract.PriceContract) *ProductResolver {
	return &ProductResolver{
		log:         log,
		productRepo: productRepo,
		prices:      prices,
	}
}

// Match finds an existing product for text without knowing its brand.
func (r *ProductResolver) Match(ctx context.Context, text string) (*model.Product, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	product, err := r.productRepo.FindByModelName(ctx, text)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to match product by name: %w", err)
	}

	products, err := r.productRepo.Get(ctx, model.GetProductParam{})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	lower := strings.ToLower(text)
	for i := range products {
		name := strings.ToLower(strings.TrimSpace(products[i].ModelName))
		if name != "" && strings.Contains(lower, name) {
			return &products[i], nil
		}
	}
	return nil, nil
}

// Resolve completes a match with the brand from classification. When nothing
// matched and the brand is known it proposes a new product and looks up its
// price. Oracle calls happen here, never inside a transaction.
func (r *ProductResolver) Resolve(ctx context.Context, text, brand string, matched *model.Product) Resolution {
	if matched != nil {
		return Resolution{Product: matched}
	}
	if brand == "" || brand == dto.BrandUnknown {
		return Resolution{}
	}

	candidate := &model.Product{
		ModelName: helper.ProposeModelName(text, brand),
		Company:   brand,
	}

	res := Resolution{Candidate: candidate}
	if quote, ok := r.prices.FetchPrice(ctx, candidate.ModelName); ok {
		now := utils.TimeNowUTC()
		candidate.CurrentPrice = quote.Price
		candidate.PriceUpdatedAt = &now
		res.Quote = &quote
	}
	return res
}

// Commit stores the resolution inside the caller's transaction and returns
// the linked product, or nil when the post has none. Concurrent creators of
// the same (model_name, company) converge on one row.
func (r *ProductResolver) Commit(ctx context.Context, res Resolution, opts ...utils.DBOption) (*model.Product, bool, error) {
	if res.Product != nil {
		return res.Product, false, nil
	}
	if res.Candidate == nil {
		return nil, false, nil
	}

	product := *res.Candidate
	created, err := r.productRepo.CreateOrGet(ctx, &product, opts...)
	if err != nil {
		return nil, false, err
	}

	if created && res.Quote != nil {
		if err := r.prices.RecordHistory(ctx, product.ID, *res.Quote, opts...); err != nil {
			return nil, false, err
		}
	}

	if created {
		r.log.InfoContext(ctx, "Created product",
			logger.IntField("product_id", int(product.ID)),
			logger.StringField("model_name", product.ModelName),
			logger.StringField("company", product.Company),
		)
	}
	return &product, created, nil
}
