package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"adPilot/business/feedback"
	"adPilot/domain"
)

type (
	FeedbackService interface {
		Submit(ctx context.Context, ev domain.FeedbackEvent) (*domain.FeedbackEvent, error)
		SubmitBatch(ctx context.Context, events []domain.FeedbackEvent) ([]domain.FeedbackEvent, []feedback.BatchError)
		ByAd(ctx context.Context, adID string) ([]domain.FeedbackEvent, error)
		ByChannel(ctx context.Context, name string) ([]domain.FeedbackEvent, error)
	}

	FeedbackHandler struct {
		feedback  FeedbackService
		validator *validator.Validate
		timeout   time.Duration
	}

	FeedbackRequest struct {
		AdID            string         `json:"ad_id" validate:"required"`
		Channel         string         `json:"channel" validate:"required"`
		AudienceSegment string         `json:"audience_segment"`
		Impressions     int64          `json:"impressions" validate:"gte=0"`
		Clicks          int64          `json:"clicks" validate:"gte=0"`
		Conversions     int64          `json:"conversions" validate:"gte=0"`
		Spend           float64        `json:"spend" validate:"gte=0"`
		Revenue         float64        `json:"revenue" validate:"gte=0"`
		Notes           string         `json:"feedback_notes"`
		Attributes      map[string]any `json:"ad_attributes"`
		TestID          string         `json:"test_id"`
		VariantID       string         `json:"variant_id" validate:"required_with=TestID"`
		UserID          string         `json:"user_id"`
	}

	FeedbackBatchRequest struct {
		Events []FeedbackRequest `json:"events" validate:"required,min=1,dive"`
	}

	FeedbackBatchResponse struct {
		Stored []domain.FeedbackEvent `json:"stored"`
		Failed []feedback.BatchError  `json:"failed"`
	}
)

func NewFeedbackHandler(svc FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		feedback:  svc,
		validator: validator.New(),
		timeout:   defaultTimeout,
	}
}

func (r FeedbackRequest) toEvent() domain.FeedbackEvent {
	return domain.FeedbackEvent{
		AdID:            r.AdID,
		Channel:         r.Channel,
		AudienceSegment: r.AudienceSegment,
		Impressions:     r.Impressions,
		Clicks:          r.Clicks,
		Conversions:     r.Conversions,
		Spend:           r.Spend,
		Revenue:         r.Revenue,
		Notes:           r.Notes,
		Attributes:      r.Attributes,
		TestID:          r.TestID,
		VariantID:       r.VariantID,
		UserID:          r.UserID,
	}
}

// POST /api/v1/feedback
func (h *FeedbackHandler) Submit(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	var req FeedbackRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	stored, err := h.feedback.Submit(ctx, req.toEvent())
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(stored))
}

// POST /api/v1/feedback/batch
func (h *FeedbackHandler) SubmitBatch(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	var req FeedbackBatchRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	events := make([]domain.FeedbackEvent, 0, len(req.Events))
	for _, r := range req.Events {
		events = append(events, r.toEvent())
	}

	stored, failed := h.feedback.SubmitBatch(ctx, events)
	if failed == nil {
		failed = []feedback.BatchError{}
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(FeedbackBatchResponse{
		Stored: stored,
		Failed: failed,
	}))
}

// GET /api/v1/feedback/ad/:id
func (h *FeedbackHandler) ByAd(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	events, err := h.feedback.ByAd(ctx, c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(events))
}

// GET /api/v1/feedback/channel/:channel
func (h *FeedbackHandler) ByChannel(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	events, err := h.feedback.ByChannel(ctx, c.Param("channel"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(events))
}
