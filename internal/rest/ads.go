package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"adPilot/business/adreco"
	"adPilot/domain"
	"adPilot/pkg/metrics"
)

type (
	AdEngine interface {
		Track(ctx context.Context, in adreco.TrackInput) (domain.AdPerformanceRecord, error)
		Recommend(segment, channel string, limit int) []domain.AdRecommendation
		ChannelRecommendations(segment string) []domain.ChannelScore
		Patterns(segment string) domain.SuccessfulPatterns
		Insights() domain.PerformanceInsights
		WhatsWorking() domain.WhatsWorkingSummary
		Record(adID string) (domain.AdPerformanceRecord, error)
		Leaderboard(segment string) []domain.LeaderboardEntry
		Aggregate(channel, segment string) (domain.ChannelSegmentAggregate, bool)
	}

	AdHandler struct {
		engine       AdEngine
		defaultLimit int
		validator    *validator.Validate
		timeout      time.Duration
	}

	TrackAdRequest struct {
		AdID            string         `json:"ad_id" validate:"required"`
		Channel         string         `json:"channel" validate:"required"`
		AudienceSegment string         `json:"audience_segment" validate:"required"`
		Impressions     int64          `json:"impressions" validate:"gte=0"`
		Clicks          int64          `json:"clicks" validate:"gte=0"`
		Conversions     int64          `json:"conversions" validate:"gte=0"`
		Revenue         float64        `json:"revenue" validate:"gte=0"`
		Attributes      map[string]any `json:"ad_attributes"`
	}

	AdRecommendationQuery struct {
		Segment string `query:"segment" validate:"required"`
		Channel string `query:"channel" validate:"required"`
		Limit   int    `query:"limit" validate:"gte=0"`
	}
)

func NewAdHandler(engine AdEngine, defaultLimit int) *AdHandler {
	if defaultLimit <= 0 {
		defaultLimit = 5
	}
	return &AdHandler{
		engine:       engine,
		defaultLimit: defaultLimit,
		validator:    validator.New(),
		timeout:      defaultTimeout,
	}
}

// POST /api/v1/ads/performance
func (h *AdHandler) Track(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	var req TrackAdRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err)
	}
	ch, err := domain.ParseChannel(req.Channel)
	if err != nil {
		return badRequest(c, err)
	}

	rec, err := h.engine.Track(ctx, adreco.TrackInput{
		AdID:            req.AdID,
		Channel:         string(ch),
		AudienceSegment: req.AudienceSegment,
		Impressions:     req.Impressions,
		Clicks:          req.Clicks,
		Conversions:     req.Conversions,
		Revenue:         req.Revenue,
		Attributes:      req.Attributes,
	})
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(rec))
}

// GET /api/v1/ads/recommendations?segment=gen_z&channel=instagram&limit=5
func (h *AdHandler) Recommendations(c echo.Context) error {
	start := time.Now()

	var q AdRecommendationQuery
	if err := c.Bind(&q); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(&q); err != nil {
		return badRequest(c, err)
	}
	ch, err := domain.ParseChannel(q.Channel)
	if err != nil {
		return badRequest(c, err)
	}
	if q.Limit == 0 {
		q.Limit = h.defaultLimit
	}

	recs := h.engine.Recommend(q.Segment, string(ch), q.Limit)
	metrics.RecommendLatency.WithLabelValues("ads").Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, fres.Response.StatusOK(recs))
}

// GET /api/v1/ads/channels?segment=gen_z
func (h *AdHandler) Channels(c echo.Context) error {
	segment := c.QueryParam("segment")
	if segment == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "segment is required"})
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.engine.ChannelRecommendations(segment)))
}

// GET /api/v1/ads/patterns?segment=gen_z
func (h *AdHandler) Patterns(c echo.Context) error {
	segment := c.QueryParam("segment")
	if segment == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "segment is required"})
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.engine.Patterns(segment)))
}

// GET /api/v1/ads/leaderboard?segment=gen_z
func (h *AdHandler) Leaderboard(c echo.Context) error {
	segment := c.QueryParam("segment")
	if segment == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "segment is required"})
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.engine.Leaderboard(segment)))
}

// GET /api/v1/ads/aggregate?segment=gen_z&channel=instagram
func (h *AdHandler) Aggregate(c echo.Context) error {
	segment := c.QueryParam("segment")
	if segment == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "segment is required"})
	}
	ch, err := domain.ParseChannel(c.QueryParam("channel"))
	if err != nil {
		return badRequest(c, err)
	}

	agg, ok := h.engine.Aggregate(string(ch), segment)
	if !ok {
		return errorJSON(c, fmt.Errorf("no data for %s on %s: %w", segment, ch, domain.ErrNotFound))
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(agg))
}

func (h *AdHandler) Insights(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.engine.Insights()))
}

func (h *AdHandler) WhatsWorking(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.engine.WhatsWorking()))
}

// GET /api/v1/ads/:id
func (h *AdHandler) GetByID(c echo.Context) error {
	rec, err := h.engine.Record(c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(rec))
}
