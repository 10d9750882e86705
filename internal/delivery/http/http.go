package http

import (
	"context"
	"errors"
	"geodrive-insight/config"
	"geodrive-insight/internal/dto"
	"geodrive-insight/internal/service"
	"geodrive-insight/pkg/logger"
	"geodrive-insight/pkg/metrics"
	appMiddleware "geodrive-insight/pkg/middleware"
	"net/http"
	"strconv"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type HttpAPIHandler struct {
	cfg       *config.Config
	log       *logger.Logger
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
	metrics   *metrics.Metrics
}

func NewHttpAPIHandler(
	ctx context.Context,
	cfg *config.Config,
	log *logger.Logger,
	echo *echo.Echo,
	validator *goValidator.Validate,
	service *service.Service,
	m *metrics.Metrics,
) *HttpAPIHandler {
	return &HttpAPIHandler{
		cfg:       cfg,
		log:       log,
		echo:      echo,
		validator: validator,
		service:   service,
		metrics:   m,
	}
}

// SetupMiddleware installs the middleware chain shared by every route.
func (h *HttpAPIHandler) SetupMiddleware() {
	h.echo.HideBanner = true
	h.echo.Use(middleware.Recover())
	h.echo.Use(middleware.RequestID())
	h.echo.Use(appMiddleware.RequestLogger(h.log))
	h.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: h.cfg.API.CORSAllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))
	if h.cfg.API.RequestBodyLimitKB > 0 {
		h.echo.Use(middleware.BodyLimit(strconv.Itoa(h.cfg.API.RequestBodyLimitKB) + "K"))
	}
	h.echo.Use(appMiddleware.NewRateLimiterMiddleware(h.cfg.API))
}

func (h *HttpAPIHandler) SetupRoutes() {
	h.echo.GET("/", h.health)
	h.echo.GET("/metrics", echo.WrapHandler(h.metrics.Handler()))

	h.SetupAnalysis(h.echo.Group(""))
	h.SetupAnalytics(h.echo.Group("/analytics"))

	base := h.echo.Group("/api")
	h.SetupJobs(base)
}

func (h *HttpAPIHandler) health(c echo.Context) error {
	return c.String(http.StatusOK, "GeoDrive Insight API is running")
}

// bind decodes and validates req, returning the error response to send or nil.
func (h *HttpAPIHandler) bind(c echo.Context, req interface{}) *dto.BaseResponse {
	if err := c.Bind(req); err != nil {
		return dto.NewBadRequestResponse("invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return dto.NewBadRequestResponse(err.Error())
	}
	return nil
}

// errorResponse maps service errors onto the response envelope.
func (h *HttpAPIHandler) errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, dto.NewNotFoundResponse(err.Error()))
	case errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusGatewayTimeout, dto.NewBaseResponse(http.StatusGatewayTimeout, "request timed out", nil))
	default:
		h.log.ErrorContext(c.Request().Context(), "Request failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.NewInternalErrorResponse("internal server error"))
	}
}

func parseID(c echo.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
