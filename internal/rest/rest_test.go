package rest_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adPilot/app/echo-server/router"
	"adPilot/business/abtest"
	"adPilot/business/adreco"
	"adPilot/business/catalog"
	"adPilot/business/channel"
	"adPilot/business/energy"
	"adPilot/business/feedback"
	"adPilot/internal/middleware"
	"adPilot/internal/repository/memory"
	"adPilot/internal/rest"
	"adPilot/pkg/utils"
)

const testSecret = "rest-secret"

type testServer struct {
	e        *echo.Echo
	channels *channel.ChannelService
	snaps    *memory.RecommendationRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	catalogRepo := memory.NewCatalogRepository()
	snaps := memory.NewRecommendationRepository()
	counter := energy.NewMemoryCounter(energy.NewEstimator(energy.DefaultConfig()))

	channels := channel.NewChannelService(channel.DefaultConfig(), channel.MeanSampler{})
	ads := adreco.NewEngine(adreco.DefaultConfig())
	tests := abtest.NewABTestService(abtest.DefaultConfig(), abtest.NewSeededPicker(1))
	catalogSvc := catalog.NewCatalogService(catalogRepo)
	feedbackSvc := feedback.NewFeedbackService(memory.NewFeedbackRepository(), channels, ads, tests, counter)

	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(middleware.TraceID())
	router.SetupOpsRoutes(e)

	api := e.Group("/api/v1")
	authRequired := middleware.AuthMiddleware(testSecret)
	adminOnly := middleware.AdminOnly()
	router.SetupChannelRoutes(api, rest.NewChannelHandler(channels, catalogSvc, snaps, counter))
	router.SetupAdRoutes(api, rest.NewAdHandler(ads, 0))
	router.SetupABTestRoutes(api, rest.NewABTestHandler(tests), authRequired, adminOnly)
	router.SetupFeedbackRoutes(api, rest.NewFeedbackHandler(feedbackSvc))
	router.SetupCatalogRoutes(api, rest.NewCatalogHandler(catalogSvc))
	router.SetupSustainabilityRoutes(api, rest.NewSustainabilityHandler(counter))
	router.SetupAdminRoutes(api, rest.NewAdminHandler(channels, ads), authRequired, adminOnly)

	return &testServer{e: e, channels: channels, snaps: snaps}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

// find walks decoded JSON depth first and returns the first value stored
// under key, whatever envelope wraps it.
func find(v any, key string) (any, bool) {
	switch t := v.(type) {
	case map[string]any:
		if val, ok := t[key]; ok {
			return val, true
		}
		for _, child := range t {
			if val, ok := find(child, key); ok {
				return val, true
			}
		}
	case []any:
		for _, child := range t {
			if val, ok := find(child, key); ok {
				return val, true
			}
		}
	}
	return nil, false
}

func findString(t *testing.T, v any, key string) string {
	t.Helper()
	val, ok := find(v, key)
	require.True(t, ok, "key %q not found", key)
	s, ok := val.(string)
	require.True(t, ok, "key %q is not a string", key)
	return s
}

func adminHeader(t *testing.T) []string {
	t.Helper()
	tok, err := utils.GenerateJWT("1", "admin", testSecret, time.Hour)
	require.NoError(t, err)
	return []string{echo.HeaderAuthorization, "Bearer " + tok}
}

// seedCatalog creates a brand with one product and a gen_z audience.
func seedCatalog(t *testing.T, s *testServer) (brandID, productID string) {
	t.Helper()

	rec, body := s.do(t, http.MethodPost, "/api/v1/brands", map[string]any{
		"company_name": "Acme", "tone": "playful",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	brandID = findString(t, body, "id")

	rec, body = s.do(t, http.MethodPost, "/api/v1/brands/"+brandID+"/products", map[string]any{
		"name": "Sneaker", "category": "fashion", "price": 80,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	productID = findString(t, body, "id")

	rec, _ = s.do(t, http.MethodPost, "/api/v1/brands/"+brandID+"/audience", map[string]any{
		"records": []map[string]any{
			{"user_id": "u1", "segment": "gen_z", "clicks_last_30d": 8, "purchases_last_90d": 2, "device": "mobile"},
			{"user_id": "u2", "segment": "gen_z", "clicks_last_30d": 6, "purchases_last_90d": 1, "device": "mobile"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	return brandID, productID
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec, body := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}
