package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"adPilot/business/abtest"
	"adPilot/domain"
)

type (
	ABTestService interface {
		Create(ctx context.Context, in abtest.CreateInput) (domain.ABTest, error)
		Assign(testID, userID string) (domain.Variant, error)
		Record(ctx context.Context, ev abtest.Event) (bool, error)
		Results(testID string) (domain.TestResults, error)
		End(ctx context.Context, testID string) (domain.TestResults, error)
		Get(testID string) (domain.ABTest, error)
		List() []domain.ABTest
	}

	ABTestHandler struct {
		tests     ABTestService
		validator *validator.Validate
		timeout   time.Duration
	}

	CreateABTestRequest struct {
		TestName     string            `json:"test_name" validate:"required"`
		BaseAd       map[string]string `json:"base_ad" validate:"required"`
		TestType     string            `json:"test_type" validate:"required,oneof=headline cta body"`
		TrafficSplit float64           `json:"traffic_split" validate:"gt=0,lt=1"`
	}

	ABTestEventRequest struct {
		VariantID string  `json:"variant_id" validate:"required"`
		UserID    string  `json:"user_id"`
		EventType string  `json:"event_type" validate:"required,oneof=impression click conversion"`
		Revenue   float64 `json:"revenue" validate:"gte=0"`
	}
)

func NewABTestHandler(tests ABTestService) *ABTestHandler {
	return &ABTestHandler{
		tests:     tests,
		validator: validator.New(),
		timeout:   defaultTimeout,
	}
}

// POST /api/v1/abtests
func (h *ABTestHandler) Create(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	var req CreateABTestRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	test, err := h.tests.Create(ctx, abtest.CreateInput{
		Name:         req.TestName,
		BaseAd:       domain.Creative(req.BaseAd),
		TestType:     domain.ABTestType(req.TestType),
		TrafficSplit: req.TrafficSplit,
	})
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(test))
}

func (h *ABTestHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.tests.List()))
}

// GET /api/v1/abtests/:id
func (h *ABTestHandler) Get(c echo.Context) error {
	test, err := h.tests.Get(c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(test))
}

// GET /api/v1/abtests/:id/variant?user_id=u1
func (h *ABTestHandler) Variant(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "user_id is required"})
	}

	variant, err := h.tests.Assign(c.Param("id"), userID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(variant))
}

// POST /api/v1/abtests/:id/events
func (h *ABTestHandler) RecordEvent(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	var req ABTestEventRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	recorded, err := h.tests.Record(ctx, abtest.Event{
		TestID:    c.Param("id"),
		VariantID: req.VariantID,
		UserID:    req.UserID,
		Type:      domain.TestEventType(req.EventType),
		Revenue:   req.Revenue,
	})
	if err != nil {
		return errorJSON(c, err)
	}

	// Unknown or completed tests are acknowledged without counting.
	return c.JSON(http.StatusOK, fres.Response.StatusOK(echo.Map{"recorded": recorded}))
}

// GET /api/v1/abtests/:id/results
func (h *ABTestHandler) Results(c echo.Context) error {
	res, err := h.tests.Results(c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}

// POST /api/v1/abtests/:id/end
func (h *ABTestHandler) End(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.tests.End(ctx, c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}
