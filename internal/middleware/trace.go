package middleware

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"adPilot/pkg/metrics"
	"adPilot/pkg/trace"
)

const HeaderTraceID = "X-Trace-Id"

// TraceID puts the caller's X-Trace-Id (or a fresh uuid) on the request
// context and echoes it back. It also counts the request by route and status.
func TraceID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(HeaderTraceID)
			if id == "" {
				id = uuid.NewString()
			}

			req := c.Request()
			c.SetRequest(req.WithContext(trace.WithTraceID(req.Context(), id)))
			c.Response().Header().Set(HeaderTraceID, id)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			metrics.HTTPRequests.WithLabelValues(c.Path(), strconv.Itoa(c.Response().Status)).Inc()
			return nil
		}
	}
}
