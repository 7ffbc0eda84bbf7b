package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"adPilot/domain"
	"adPilot/pkg/logger"
)

// CatalogRepository contract interface
type CatalogRepository interface {
	CreateBrand(ctx context.Context, brand *domain.Brand) error
	FindBrandByID(ctx context.Context, id string) (domain.Brand, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	FindProductByID(ctx context.Context, id string) (domain.Product, error)
	FindProductsByBrand(ctx context.Context, brandID string) ([]domain.Product, error)
	CreateAudienceRecords(ctx context.Context, records []domain.AudienceRecord) error
	FindAudienceRecords(ctx context.Context, brandID, segment string) ([]domain.AudienceRecord, error)
}

const defaultAnalysisCacheSize = 256

type analysisKey struct {
	brandID string
	segment string
}

type CatalogService struct {
	repo     CatalogRepository
	analyses *lru.Cache[analysisKey, domain.AudienceAnalysis]
}

func NewCatalogService(repo CatalogRepository) *CatalogService {
	// only fails for a non-positive size
	analyses, _ := lru.New[analysisKey, domain.AudienceAnalysis](defaultAnalysisCacheSize)
	return &CatalogService{repo: repo, analyses: analyses}
}

func (s *CatalogService) CreateBrand(ctx context.Context, brand *domain.Brand) (*domain.Brand, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if strings.TrimSpace(brand.CompanyName) == "" {
		return nil, fmt.Errorf("company name is required: %w", domain.ErrInvalidInput)
	}
	if brand.ID == "" {
		brand.ID = uuid.NewString()
	}

	if err := s.repo.CreateBrand(ctx, brand); err != nil {
		logger.Error("failed to create brand", "error", err)
		return nil, fmt.Errorf("failed to create brand: %w", err)
	}

	logger.Info("brand_created", "brand_id", brand.ID)
	return brand, nil
}

func (s *CatalogService) Brand(ctx context.Context, id string) (domain.Brand, error) {
	if err := ctx.Err(); err != nil {
		return domain.Brand{}, fmt.Errorf("context error: %w", err)
	}
	if id == "" {
		return domain.Brand{}, fmt.Errorf("brand id is required: %w", domain.ErrInvalidInput)
	}
	return s.repo.FindBrandByID(ctx, id)
}

func (s *CatalogService) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if strings.TrimSpace(product.Name) == "" {
		return nil, fmt.Errorf("product name is required: %w", domain.ErrInvalidInput)
	}
	if product.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative: %w", domain.ErrInvalidInput)
	}

	// the brand must exist
	if _, err := s.repo.FindBrandByID(ctx, product.BrandID); err != nil {
		return nil, err
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		logger.Error("failed to create product", "error", err)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	logger.Info("product_created", "product_id", product.ID, "brand_id", product.BrandID)
	return product, nil
}

func (s *CatalogService) Product(ctx context.Context, id string) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}
	if id == "" {
		return domain.Product{}, fmt.Errorf("product id is required: %w", domain.ErrInvalidInput)
	}
	return s.repo.FindProductByID(ctx, id)
}

func (s *CatalogService) ProductsByBrand(ctx context.Context, brandID string) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	return s.repo.FindProductsByBrand(ctx, brandID)
}

// ImportAudience stores audience rows for an existing brand and returns how many were saved.
func (s *CatalogService) ImportAudience(ctx context.Context, brandID string, records []domain.AudienceRecord) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}
	if _, err := s.repo.FindBrandByID(ctx, brandID); err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	for i := range records {
		r := &records[i]
		if r.ClicksLast30d < 0 || r.PurchasesLast90d < 0 {
			return 0, fmt.Errorf("audience row %d has negative counters: %w", i, domain.ErrInvalidInput)
		}
		r.BrandID = brandID
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
	}

	if err := s.repo.CreateAudienceRecords(ctx, records); err != nil {
		logger.Error("failed to import audience", "brand_id", brandID, "error", err)
		return 0, fmt.Errorf("failed to import audience: %w", err)
	}

	s.invalidateBrand(brandID)
	logger.Info("audience_imported", "brand_id", brandID, "rows", len(records))
	return len(records), nil
}

// AudienceAnalysis summarizes the brand's stored audience, optionally
// restricted to one segment. No rows yields the general segment.
func (s *CatalogService) AudienceAnalysis(ctx context.Context, brandID, segment string) (domain.AudienceAnalysis, error) {
	analysis, _, err := s.CachedAudienceAnalysis(ctx, brandID, segment)
	return analysis, err
}

// CachedAudienceAnalysis is AudienceAnalysis that also reports whether the
// result came from the cache. Imports for a brand drop its cached entries.
func (s *CatalogService) CachedAudienceAnalysis(ctx context.Context, brandID, segment string) (domain.AudienceAnalysis, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.AudienceAnalysis{}, false, fmt.Errorf("context error: %w", err)
	}

	key := analysisKey{brandID: brandID, segment: segment}
	if analysis, ok := s.analyses.Get(key); ok {
		return analysis, true, nil
	}

	records, err := s.repo.FindAudienceRecords(ctx, brandID, segment)
	if err != nil {
		return domain.AudienceAnalysis{}, false, err
	}

	analysis := AnalyzeAudience(records)
	if len(records) == 0 && segment != "" {
		analysis.Segment = segment
	}
	s.analyses.Add(key, analysis)
	return analysis, false, nil
}

func (s *CatalogService) invalidateBrand(brandID string) {
	for _, key := range s.analyses.Keys() {
		if key.brandID == brandID {
			s.analyses.Remove(key)
		}
	}
}
