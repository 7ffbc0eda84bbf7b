package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jsonres "adPilot/pkg/response"
	"adPilot/pkg/trace"
	"adPilot/pkg/utils"
)

const testSecret = "test-secret"

func newAdminEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	e.GET("/admin", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("user_id").(string))
	}, AuthMiddleware(testSecret), AdminOnly())
	return e
}

func doGet(e *echo.Echo, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func token(t *testing.T, role string, ttl time.Duration) string {
	t.Helper()
	tok, err := utils.GenerateJWT("7", role, testSecret, ttl)
	require.NoError(t, err)
	return tok
}

func TestAuthMiddleware(t *testing.T) {
	e := newAdminEcho()

	tests := []struct {
		name string
		auth string
		code int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"expired", "Bearer " + token(t, "admin", -time.Minute), http.StatusUnauthorized},
		{"not admin", "Bearer " + token(t, "user", time.Hour), http.StatusForbidden},
		{"admin", "Bearer " + token(t, "ADMIN", time.Hour), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doGet(e, "/admin", tt.auth)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestAuthMiddleware_SetsUserID(t *testing.T) {
	rec := doGet(newAdminEcho(), "/admin", "Bearer "+token(t, "admin", time.Hour))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7", rec.Body.String())
}

func TestErrorHandler_RouteNotFound(t *testing.T) {
	rec := doGet(newAdminEcho(), "/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body jsonres.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestErrorHandler_PlainError(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	e.GET("/boom", func(c echo.Context) error {
		return assert.AnError
	})

	rec := doGet(e, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_SERVER_ERROR")
}

func TestTraceID(t *testing.T) {
	e := echo.New()
	e.Use(TraceID())
	e.GET("/t", func(c echo.Context) error {
		return c.String(http.StatusOK, trace.TraceIDFromContext(c.Request().Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set(HeaderTraceID, "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Body.String())
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderTraceID))

	rec = doGet(e, "/t", "")
	assert.NotEmpty(t, rec.Body.String())
	assert.Equal(t, rec.Body.String(), rec.Header().Get(HeaderTraceID))
}
