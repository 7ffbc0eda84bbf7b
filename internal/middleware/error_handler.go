package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"adPilot/pkg/logger"
	jsonres "adPilot/pkg/response"
	"adPilot/pkg/trace"
)

// ErrorHandler renders errors that escape handlers (routing misses, binder
// failures, panics turned into errors by Recover).
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("request_failed",
			"trace_id", trace.TraceIDFromContext(c.Request().Context()),
			"path", c.Path(),
			"error", err,
		)
	}

	status := strings.ToUpper(strings.ReplaceAll(http.StatusText(code), " ", "_"))
	if status == "" {
		status = "ERROR"
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, jsonres.Error(status, message, nil))
	}
	if werr != nil {
		logger.Error("error_response_failed", "error", werr)
	}
}
