package contract

import (
	"context"
	"geodrive-insight/internal/dto"
	"geodrive-insight/internal/model"
	"geodrive-insight/pkg/utils"
)

type PriceContract interface {
	FetchPrice(ctx context.Context, modelName string) (dto.PriceQuote, bool)
	RecordHistory(ctx context.Context, productID uint, quote dto.PriceQuote, opts ...utils.DBOption) error
	RefreshPrice(ctx context.Context, product model.Product) (bool, error)
}
