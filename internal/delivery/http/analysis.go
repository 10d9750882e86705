package http

import (
	"geodrive-insight/internal/dto"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupAnalysis(base *echo.Group) {
	ai := base.Group("/ai")
	ai.POST("/analyze", h.analyze)
	ai.POST("/analyze-product", h.analyzeProduct)

	base.POST("/posts", h.createPost)

	products := base.Group("/products")
	products.POST("/:id/availability", h.addAvailability)
	products.GET("/:id/availability", h.getAvailability)
}

func (h *HttpAPIHandler) analyze(c echo.Context) error {
	req := new(dto.AnalyzeRequest)
	if resp := h.bind(c, req); resp != nil {
		return c.JSON(resp.Code, resp)
	}

	result, err := h.service.AnalysisService.Analyze(c.Request().Context(), *req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *HttpAPIHandler) analyzeProduct(c echo.Context) error {
	req := new(dto.AnalyzeRequest)
	if resp := h.bind(c, req); resp != nil {
		return c.JSON(resp.Code, resp)
	}

	result, err := h.service.AnalysisService.AnalyzeProduct(c.Request().Context(), *req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *HttpAPIHandler) createPost(c echo.Context) error {
	req := new(dto.CreatePostRequest)
	if resp := h.bind(c, req); resp != nil {
		return c.JSON(resp.Code, resp)
	}

	post, err := h.service.AnalysisService.CreatePost(c.Request().Context(), *req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, post)
}

func (h *HttpAPIHandler) addAvailability(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid product id"))
	}
	req := new(dto.CreateAvailabilityRequest)
	if resp := h.bind(c, req); resp != nil {
		return c.JSON(resp.Code, resp)
	}

	availability, err := h.service.AnalysisService.AddAvailability(c.Request().Context(), id, *req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, availability)
}

func (h *HttpAPIHandler) getAvailability(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid product id"))
	}

	availabilities, err := h.service.AnalysisService.GetAvailability(c.Request().Context(), id)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, availabilities)
}
