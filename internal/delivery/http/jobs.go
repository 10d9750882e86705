package http

import (
	"encoding/json"
	"geodrive-insight/internal/dto"
	"geodrive-insight/internal/strategy"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupJobs(base *echo.Group) {
	v1 := base.Group("/v1/jobs")
	{
		v1.GET("", h.listJobs)
		v1.GET("/runs", h.listJobRuns)
		v1.POST("/:type/run", h.runJob)
	}
}

func (h *HttpAPIHandler) listJobs(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Scheduled jobs", h.service.SchedulerService.Entries()))
}

func (h *HttpAPIHandler) listJobRuns(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid limit"))
		}
		limit = parsed
	}

	runs, err := h.service.TaskExecutor.History(c.Request().Context(), strategy.JobType(c.QueryParam("type")), limit)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Job runs", runs))
}

// runJob executes a maintenance job now. The optional JSON body is passed to
// the job as its payload.
func (h *HttpAPIHandler) runJob(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}

	run, err := h.service.SchedulerService.RunJob(c.Request().Context(), strategy.JobType(c.Param("type")), json.RawMessage(body))
	if err != nil {
		return h.errorResponse(c, err)
	}

	response := dto.NewBaseResponse(http.StatusOK, "Job finished", run)
	if run.Status == dto.JobStatusFailed {
		response.Code = http.StatusInternalServerError
		response.Message = run.Error
	}
	return c.JSON(response.Code, response)
}
