package middleware

import (
	"geodrive-insight/pkg/logger"
	"geodrive-insight/pkg/utils"

	"github.com/labstack/echo/v4"
)

// RequestLogger stores a child logger tagged with the request id in the
// request context and logs one line per request once it completes.
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			start := utils.TimeNowUTC()

			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = req.Header.Get(echo.HeaderXRequestID)
			}

			reqLog := log.With(
				logger.StringField("request_id", requestID),
				logger.StringField("method", req.Method),
				logger.StringField("path", c.Path()),
			)
			c.SetRequest(req.WithContext(logger.NewContext(req.Context(), reqLog)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			reqLog.Info("request completed",
				logger.IntField("status", c.Response().Status),
				logger.DurationField("latency", utils.TimeNowUTC().Sub(start)),
			)
			return nil
		}
	}
}
