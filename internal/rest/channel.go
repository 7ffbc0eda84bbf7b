package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"adPilot/business/adreco"
	"adPilot/business/channel"
	"adPilot/business/energy"
	"adPilot/domain"
	"adPilot/pkg/logger"
	"adPilot/pkg/metrics"
	"adPilot/pkg/trace"
)

type (
	ChannelService interface {
		Recommend(ctx context.Context, brand domain.Brand, product domain.Product, audience domain.AudienceAnalysis, goal domain.CampaignGoal, budget float64) (domain.ChannelRecommendationSet, error)
		RecordOutcome(ctx context.Context, ch domain.ChannelType, clicks, impressions, conversions int64) (channel.Outcome, error)
		Performance(ch domain.ChannelType) domain.ChannelPerformance
		Insights() domain.ChannelInsights
		BestChannelForSegment(ctx context.Context, segment string, goal domain.CampaignGoal) (domain.ChannelRecommendation, error)
	}

	CatalogReader interface {
		Brand(ctx context.Context, id string) (domain.Brand, error)
		Product(ctx context.Context, id string) (domain.Product, error)
		AudienceAnalysis(ctx context.Context, brandID, segment string) (domain.AudienceAnalysis, error)
		CachedAudienceAnalysis(ctx context.Context, brandID, segment string) (domain.AudienceAnalysis, bool, error)
	}

	// RecommendationRepository contract interface
	RecommendationRepository interface {
		Create(ctx context.Context, snap *domain.ChannelRecommendationSnapshot) error
		FindByBrand(ctx context.Context, brandID string, limit int) ([]domain.ChannelRecommendationSnapshot, error)
	}

	EnergyTracker interface {
		Track(ctx context.Context, model string, cacheHit bool) (domain.EnergyReading, error)
		Totals(ctx context.Context) (domain.EnergyTotals, error)
	}

	ChannelHandler struct {
		channels  ChannelService
		catalog   CatalogReader
		snapshots RecommendationRepository
		energy    EnergyTracker
		validator *validator.Validate
		timeout   time.Duration
	}

	RecommendChannelRequest struct {
		BrandID         string  `json:"brand_id" validate:"required"`
		ProductID       string  `json:"product_id" validate:"required"`
		AudienceSegment string  `json:"audience_segment" validate:"required"`
		CampaignGoal    string  `json:"campaign_goal" validate:"required,oneof=awareness conversion engagement traffic"`
		Budget          float64 `json:"budget" validate:"gte=0"`
	}

	ChannelRecommendationResponse struct {
		domain.ChannelRecommendationSet
		BrandID         string `json:"brand_id"`
		ProductID       string `json:"product_id"`
		AudienceSegment string `json:"audience_segment"`
		CampaignGoal    string `json:"campaign_goal"`
	}

	LearnRequest struct {
		Channel     string `json:"channel" validate:"required"`
		Clicks      int64  `json:"clicks" validate:"gte=0"`
		Impressions int64  `json:"impressions" validate:"gte=0"`
		Conversions int64  `json:"conversions" validate:"gte=0"`
	}
)

func NewChannelHandler(
	channels ChannelService,
	catalog CatalogReader,
	snapshots RecommendationRepository,
	energy EnergyTracker,
) *ChannelHandler {
	return &ChannelHandler{
		channels:  channels,
		catalog:   catalog,
		snapshots: snapshots,
		energy:    energy,
		validator: validator.New(),
		timeout:   defaultTimeout,
	}
}

// POST /api/v1/recommend/channel
func (h *ChannelHandler) Recommend(c echo.Context) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	var req RecommendChannelRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	goal, err := domain.ParseGoal(req.CampaignGoal)
	if err != nil {
		return badRequest(c, err)
	}

	brand, err := h.catalog.Brand(ctx, req.BrandID)
	if err != nil {
		return errorJSON(c, err)
	}
	product, err := h.catalog.Product(ctx, req.ProductID)
	if err != nil {
		return errorJSON(c, err)
	}
	if product.BrandID != "" && product.BrandID != brand.ID {
		return errorJSON(c, fmt.Errorf("product %s does not belong to brand %s: %w", product.ID, brand.ID, domain.ErrNotFound))
	}

	audience, cacheHit, err := h.catalog.CachedAudienceAnalysis(ctx, req.BrandID, req.AudienceSegment)
	if err != nil {
		return errorJSON(c, err)
	}
	if _, err := h.energy.Track(ctx, energy.DefaultModel, cacheHit); err != nil {
		logger.Warn("energy_track_failed", "trace_id", trace.TraceIDFromContext(ctx), "error", err)
	}

	set, err := h.channels.Recommend(ctx, brand, product, audience, goal, req.Budget)
	if err != nil {
		return errorJSON(c, err)
	}

	h.saveSnapshot(ctx, req, set)
	metrics.RecommendLatency.WithLabelValues("channel").Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, fres.Response.StatusOK(ChannelRecommendationResponse{
		ChannelRecommendationSet: set,
		BrandID:                  req.BrandID,
		ProductID:                req.ProductID,
		AudienceSegment:          req.AudienceSegment,
		CampaignGoal:             string(goal),
	}))
}

// saveSnapshot stores the call result. Failures are logged and never fail the request.
func (h *ChannelHandler) saveSnapshot(ctx context.Context, req RecommendChannelRequest, set domain.ChannelRecommendationSet) {
	payload, err := json.Marshal(set)
	if err != nil {
		logger.Warn("recommendation_snapshot_failed", "trace_id", trace.TraceIDFromContext(ctx), "error", err)
		return
	}

	snap := &domain.ChannelRecommendationSnapshot{
		BrandID:         req.BrandID,
		ProductID:       req.ProductID,
		AudienceSegment: req.AudienceSegment,
		CampaignGoal:    req.CampaignGoal,
		BestChannel:     string(set.BestChannel),
		TotalConfidence: set.TotalConfidence,
		Payload:         payload,
	}
	if err := h.snapshots.Create(ctx, snap); err != nil {
		logger.Warn("recommendation_snapshot_failed", "trace_id", trace.TraceIDFromContext(ctx), "error", err)
	}
}

// GET /api/v1/recommend/channel/brand/:brand_id?limit=20
func (h *ChannelHandler) ByBrand(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid limit"})
		}
		limit = n
	}

	snaps, err := h.snapshots.FindByBrand(ctx, c.Param("brand_id"), limit)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(snaps))
}

// GET /api/v1/recommend/channel/performance/:channel
func (h *ChannelHandler) Performance(c echo.Context) error {
	ch := domain.ChannelType(strings.ToLower(strings.TrimSpace(c.Param("channel"))))
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.channels.Performance(ch)))
}

// POST /api/v1/recommend/channel/learn
func (h *ChannelHandler) Learn(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	var req LearnRequest
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

	outcome, err := h.channels.RecordOutcome(ctx, ch, req.Clicks, req.Impressions, req.Conversions)
	if err != nil {
		return errorJSON(c, err)
	}

	ctr, conv, _ := adreco.Rates(req.Impressions, req.Clicks, req.Conversions, 0)
	return c.JSON(http.StatusOK, fres.Response.StatusOK(echo.Map{
		"message":         fmt.Sprintf("Updated learning for %s channel", ch),
		"outcome":         outcome,
		"ctr":             ctr,
		"conversion_rate": conv,
	}))
}

// GET /api/v1/recommend/channel/best?segment=gen_z&goal=engagement
func (h *ChannelHandler) Best(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	segment := c.QueryParam("segment")
	if segment == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "segment is required"})
	}
	goal, err := domain.ParseGoal(c.QueryParam("goal"))
	if err != nil {
		return badRequest(c, err)
	}

	best, err := h.channels.BestChannelForSegment(ctx, segment, goal)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(best))
}

// GET /api/v1/recommend/channel/insights
func (h *ChannelHandler) Insights(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.channels.Insights()))
}
