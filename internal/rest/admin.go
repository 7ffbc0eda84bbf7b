package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"adPilot/domain"
	"adPilot/pkg/logger"
	"adPilot/pkg/trace"
)

type ChannelStatsAdmin interface {
	StatsSnapshot() []domain.ChannelStats
	SeedStats(ch domain.ChannelType, successes, failures int)
	Reset()
}

type AdResetter interface {
	Reset()
}

type AdminHandler struct {
	channels ChannelStatsAdmin
	ads      AdResetter
}

func NewAdminHandler(channels ChannelStatsAdmin, ads AdResetter) *AdminHandler {
	return &AdminHandler{channels: channels, ads: ads}
}

// GET /api/v1/admin/channels/stats
func (h *AdminHandler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"stats": h.channels.StatsSnapshot(),
	})
}

// PUT /api/v1/admin/channels/:channel/stats
// body: { "success_count": 8, "failure_count": 2 }
type seedStatsRequest struct {
	SuccessCount int `json:"success_count"`
	FailureCount int `json:"failure_count"`
}

func (h *AdminHandler) SeedStats(c echo.Context) error {
	ch, err := domain.ParseChannel(c.Param("channel"))
	if err != nil {
		return badRequest(c, err)
	}

	var body seedStatsRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid body: " + err.Error()})
	}
	if body.SuccessCount < 0 || body.FailureCount < 0 {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "counts must be non-negative"})
	}

	h.channels.SeedStats(ch, body.SuccessCount, body.FailureCount)
	logger.Info("channel_stats_seeded",
		"trace_id", trace.TraceIDFromContext(c.Request().Context()),
		"channel", ch,
		"successes", body.SuccessCount,
		"failures", body.FailureCount,
	)

	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
	})
}

// DELETE /api/v1/admin/channels/stats
func (h *AdminHandler) ResetStats(c echo.Context) error {
	h.channels.Reset()
	logger.Info("channel_stats_reset", "trace_id", trace.TraceIDFromContext(c.Request().Context()))

	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
	})
}

// DELETE /api/v1/admin/ads/performance
func (h *AdminHandler) ResetAds(c echo.Context) error {
	h.ads.Reset()
	logger.Info("ad_performance_reset", "trace_id", trace.TraceIDFromContext(c.Request().Context()))

	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
	})
}
