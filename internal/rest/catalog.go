package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"adPilot/domain"
	"adPilot/pkg/logger"
)

type CatalogService interface {
	CatalogReader
	CreateBrand(ctx context.Context, brand *domain.Brand) (*domain.Brand, error)
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	ProductsByBrand(ctx context.Context, brandID string) ([]domain.Product, error)
	ImportAudience(ctx context.Context, brandID string, records []domain.AudienceRecord) (int, error)
}

type CatalogHandler struct {
	catalog   CatalogService
	validator *validator.Validate
	timeout   time.Duration
}

func NewCatalogHandler(catalog CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalog:   catalog,
		validator: validator.New(),
		timeout:   defaultTimeout,
	}
}

type CreateBrandRequest struct {
	CompanyName         string `json:"company_name" validate:"required"`
	Story               string `json:"story"`
	Mission             string `json:"mission"`
	Tone                string `json:"tone"`
	TargetMarket        string `json:"target_market"`
	SustainabilityFocus bool   `json:"sustainability_focus"`
}

type CreateProductRequest struct {
	Name        string         `json:"name" validate:"required"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Price       float64        `json:"price" validate:"gte=0"`
	Features    map[string]any `json:"features"`
}

type AudienceRow struct {
	UserID           string `json:"user_id"`
	Segment          string `json:"segment" validate:"required"`
	ClicksLast30d    int    `json:"clicks_last_30d" validate:"gte=0"`
	PurchasesLast90d int    `json:"purchases_last_90d" validate:"gte=0"`
	FavoriteCategory string `json:"favorite_category"`
	Device           string `json:"device"`
}

type ImportAudienceRequest struct {
	Records []AudienceRow `json:"records" validate:"required,min=1,dive"`
}

// POST /api/v1/brands
func (h *CatalogHandler) CreateBrand(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	var req CreateBrandRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	brand, err := h.catalog.CreateBrand(ctx, &domain.Brand{
		CompanyName:         req.CompanyName,
		Story:               req.Story,
		Mission:             req.Mission,
		Tone:                req.Tone,
		TargetMarket:        req.TargetMarket,
		SustainabilityFocus: req.SustainabilityFocus,
	})
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(brand))
}

// GET /api/v1/brands/:id
func (h *CatalogHandler) GetBrand(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	brand, err := h.catalog.Brand(ctx, c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(brand))
}

// POST /api/v1/brands/:id/products
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	product, err := h.catalog.CreateProduct(ctx, &domain.Product{
		BrandID:     c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Features:    req.Features,
	})
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(product))
}

// GET /api/v1/brands/:id/products
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.ProductsByBrand(ctx, c.Param("id"))
	if err != nil {
		logger.Error("failed to list products", "brand_id", c.Param("id"), "error", err)
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(products))
}

// GET /api/v1/products/:id
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.catalog.Product(ctx, c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(product))
}

// POST /api/v1/brands/:id/audience
func (h *CatalogHandler) ImportAudience(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	var req ImportAudienceRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	records := make([]domain.AudienceRecord, 0, len(req.Records))
	for _, r := range req.Records {
		records = append(records, domain.AudienceRecord{
			UserID:           r.UserID,
			Segment:          r.Segment,
			ClicksLast30d:    r.ClicksLast30d,
			PurchasesLast90d: r.PurchasesLast90d,
			FavoriteCategory: r.FavoriteCategory,
			Device:           r.Device,
		})
	}

	n, err := h.catalog.ImportAudience(ctx, c.Param("id"), records)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(echo.Map{"imported": n}))
}

// GET /api/v1/brands/:id/audience?segment=gen_z
func (h *CatalogHandler) AnalyzeAudience(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if _, err := h.catalog.Brand(ctx, c.Param("id")); err != nil {
		return errorJSON(c, err)
	}

	analysis, err := h.catalog.AudienceAnalysis(ctx, c.Param("id"), c.QueryParam("segment"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(analysis))
}
