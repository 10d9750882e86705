package http

import (
	"geodrive-insight/internal/dto"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// SetupAnalytics registers the dashboard endpoints. They return their payload
// without the response envelope.
func (h *HttpAPIHandler) SetupAnalytics(g *echo.Group) {
	g.GET("/sentiment", h.sentimentCounts)
	g.GET("/brand-summary", h.brandSummary)
	g.GET("/brand-sentiment-ratio/:brand", h.brandSentimentRatio)
	g.GET("/market-sentiment-share", h.marketSentimentShare)
	g.GET("/region-distribution", h.regionDistribution)
	g.GET("/geo-points", h.geoPoints)
	g.GET("/company-summary/:company", h.companySummary)
	g.GET("/product/:id/reviews", h.productReviews)
	g.GET("/product/:id/summary", h.productSummary)
	g.GET("/product/:id/price-history", h.priceHistory)
	g.GET("/compare", h.compare)
	g.GET("/trend/:brand", h.trend)
}

func (h *HttpAPIHandler) respond(c echo.Context, data interface{}, err error) error {
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, data)
}

func (h *HttpAPIHandler) sentimentCounts(c echo.Context) error {
	data, err := h.service.AnalyticsService.SentimentCounts(c.Request().Context())
	return h.respond(c, data, err)
}

func (h *HttpAPIHandler) brandSummary(c echo.Context) error {
	data, err := h.service.AnalyticsService.BrandSummary(c.Request().Context())
	return h.respond(c, data, err)
}

func (h *HttpAPIHandler) brandSentimentRatio(c echo.Context) error {
	data, err := h.service.AnalyticsService.BrandSentimentRatio(c.Request().Context(), c.Param("brand"))
	return h.respond(c, data, err)
}

func (h *HttpAPIHandler) marketSentimentShare(c echo.Context) error {
	data, err := h.service.AnalyticsService.MarketSentimentShare(c.Request().Context())
	return h.respond(c, data, err)
}

func (h *HttpAPIHandler) regionDistribution(c echo.Context) error {
	data, err := h.service.AnalyticsService.RegionDistribution(c.Request().Context())
	return h.respond(c, data, err)
}

func (h *HttpAPIHandler) geoPoints(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid limit"))
		}
		limit = parsed
	}
	data, err := h.service.AnalyticsService.GeoPoints(c.Request().Context(), limit)
	return h.respond(c, data, err)
}

func (h *HttpAPIHandler) companySummary(c echo.Context) error {
	data, err := h.service.AnalyticsService.CompanySummary(c.Request().Context(), c.Param("company"))
	return h.respond(c, data, err)
}

func (h *HttpAPIHandler) productReviews(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid product id"))
	}
	query := new(dto.ReviewQuery)
	if resp := h.bind(c, query); resp != nil {
		return c.JSON(resp.Code, resp)
	}

	data, err := h.service.AnalyticsService.ProductReviews(c.Request().Context(), id, *query)
	return h.respond(c, data, err)
}

func (h *HttpAPIHandler) productSummary(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid product id"))
	}
	data, err := h.service.AnalyticsService.ProductSummary(c.Request().Context(), id)
	return h.respond(c, data, err)
}

func (h *HttpAPIHandler) priceHistory(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid product id"))
	}
	data, err := h.service.AnalyticsService.PriceHistory(c.Request().Context(), id)
	return h.respond(c, data, err)
}

func (h *HttpAPIHandler) compare(c echo.Context) error {
	query := new(dto.CompareQuery)
	if resp := h.bind(c, query); resp != nil {
		return c.JSON(resp.Code, resp)
	}
	data, err := h.service.AnalyticsService.Compare(c.Request().Context(), *query)
	return h.respond(c, data, err)
}

func (h *HttpAPIHandler) trend(c echo.Context) error {
	query := new(dto.TrendQuery)
	if resp := h.bind(c, query); resp != nil {
		return c.JSON(resp.Code, resp)
	}
	data, err := h.service.AnalyticsService.Trend(c.Request().Context(), c.Param("brand"), *query)
	return h.respond(c, data, err)
}
