package rest

import (
	"context"
	"net/http"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"

	"adPilot/domain"
)

// modelBreakdown is implemented by counters that keep per-model energy.
type modelBreakdown interface {
	ByModel(ctx context.Context) (map[string]float64, error)
}

type SustainabilityHandler struct {
	energy EnergyTracker
}

func NewSustainabilityHandler(energy EnergyTracker) *SustainabilityHandler {
	return &SustainabilityHandler{energy: energy}
}

type SustainabilityResponse struct {
	domain.EnergyTotals
	EnergyByModel map[string]float64 `json:"energy_by_model,omitempty"`
}

// GET /api/v1/sustainability/metrics
func (h *SustainabilityHandler) Metrics(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), defaultTimeout)
	defer cancel()

	totals, err := h.energy.Totals(ctx)
	if err != nil {
		return errorJSON(c, err)
	}

	resp := SustainabilityResponse{EnergyTotals: totals}
	if bm, ok := h.energy.(modelBreakdown); ok {
		byModel, err := bm.ByModel(ctx)
		if err != nil {
			return errorJSON(c, err)
		}
		resp.EnergyByModel = byModel
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(resp))
}
