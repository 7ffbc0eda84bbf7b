package rest_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTest(t *testing.T, s *testServer) string {
	t.Helper()
	rec, body := s.do(t, http.MethodPost, "/api/v1/abtests", map[string]any{
		"test_name":     "Headline Test",
		"base_ad":       map[string]string{"headline": "X", "product_name": "Product"},
		"test_type":     "headline",
		"traffic_split": 0.5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return findString(t, body, "test_id")
}

func TestABTestLifecycle(t *testing.T) {
	s := newTestServer(t)
	id := createTest(t, s)

	rec, body := s.do(t, http.MethodGet, "/api/v1/abtests/"+id+"/variant?user_id=user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, findString(t, body, "variant_id"))

	for _, ev := range []map[string]any{
		{"variant_id": "headline_0", "event_type": "impression"},
		{"variant_id": "headline_1", "event_type": "impression"},
		{"variant_id": "headline_1", "event_type": "click"},
		{"variant_id": "headline_1", "event_type": "conversion", "revenue": 12.5},
	} {
		rec, body = s.do(t, http.MethodPost, "/api/v1/abtests/"+id+"/events", ev)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		recorded, ok := find(body, "recorded")
		require.True(t, ok)
		assert.Equal(t, true, recorded)
	}

	rec, body = s.do(t, http.MethodGet, "/api/v1/abtests/"+id+"/results", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "variant", findString(t, body, "winner"))

	rec, _ = s.do(t, http.MethodPost, "/api/v1/abtests/"+id+"/end", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/abtests/"+id+"/end", nil, adminHeader(t)...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, body = s.do(t, http.MethodGet, "/api/v1/abtests/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, findString(t, body, "ended_at"))

	rec, body = s.do(t, http.MethodPost, "/api/v1/abtests/"+id+"/events", map[string]any{
		"variant_id": "headline_1", "event_type": "click",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	recorded, _ := find(body, "recorded")
	assert.Equal(t, false, recorded)

	rec, body = s.do(t, http.MethodGet, "/api/v1/abtests", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, findString(t, body, "test_id"))
}

func TestABTestErrors(t *testing.T) {
	s := newTestServer(t)
	id := createTest(t, s)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		code   int
	}{
		{"split out of range", http.MethodPost, "/api/v1/abtests", map[string]any{"test_name": "t", "base_ad": map[string]string{"headline": "h"}, "test_type": "headline", "traffic_split": 1.0}, http.StatusBadRequest},
		{"unknown type", http.MethodPost, "/api/v1/abtests", map[string]any{"test_name": "t", "base_ad": map[string]string{"headline": "h"}, "test_type": "image", "traffic_split": 0.5}, http.StatusBadRequest},
		{"variant without user", http.MethodGet, "/api/v1/abtests/" + id + "/variant", nil, http.StatusBadRequest},
		{"variant unknown test", http.MethodGet, "/api/v1/abtests/test_nope/variant?user_id=u", nil, http.StatusNotFound},
		{"results unknown test", http.MethodGet, "/api/v1/abtests/test_nope/results", nil, http.StatusNotFound},
		{"get unknown test", http.MethodGet, "/api/v1/abtests/test_nope", nil, http.StatusNotFound},
		{"bad event type", http.MethodPost, "/api/v1/abtests/" + id + "/events", map[string]any{"variant_id": "headline_0", "event_type": "view"}, http.StatusBadRequest},
		{"negative revenue", http.MethodPost, "/api/v1/abtests/" + id + "/events", map[string]any{"variant_id": "headline_0", "event_type": "conversion", "revenue": -1}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := s.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
}

func TestABTestEnd_UnknownTest(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/abtests/test_nope/end", nil, adminHeader(t)...)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestABTestEvent_UnknownTestIsAcknowledged(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(t, http.MethodPost, "/api/v1/abtests/test_nope/events", map[string]any{
		"variant_id": "headline_0", "event_type": "impression",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	recorded, _ := find(body, "recorded")
	assert.Equal(t, false, recorded)
}
