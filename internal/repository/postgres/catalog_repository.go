package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"adPilot/domain"
)

const audienceBatchSize = 500

type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{
		DB: db,
	}
}

func (r *CatalogRepository) CreateBrand(ctx context.Context, brand *domain.Brand) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(brand).Error; err != nil {
		return fmt.Errorf("failed to create brand: %w", err)
	}

	return nil
}

func (r *CatalogRepository) FindBrandByID(ctx context.Context, id string) (domain.Brand, error) {
	if err := ctx.Err(); err != nil {
		return domain.Brand{}, fmt.Errorf("context error: %w", err)
	}

	var brand domain.Brand
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&brand).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Brand{}, fmt.Errorf("brand %q: %w", id, domain.ErrNotFound)
		}
		return domain.Brand{}, fmt.Errorf("failed to find brand: %w", err)
	}

	return brand, nil
}

func (r *CatalogRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (r *CatalogRepository) FindProductByID(ctx context.Context, id string) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	var product domain.Product
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, fmt.Errorf("product %q: %w", id, domain.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("failed to find product: %w", err)
	}

	return product, nil
}

func (r *CatalogRepository) FindProductsByBrand(ctx context.Context, brandID string) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var products []domain.Product
	err := r.DB.WithContext(ctx).
		Where("brand_id = ?", brandID).
		Order("created_at").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	return products, nil
}

func (r *CatalogRepository) CreateAudienceRecords(ctx context.Context, records []domain.AudienceRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	if err := r.DB.WithContext(ctx).CreateInBatches(records, audienceBatchSize).Error; err != nil {
		return fmt.Errorf("failed to create audience records: %w", err)
	}

	return nil
}

// FindAudienceRecords returns a brand's audience rows; an empty segment matches all.
func (r *CatalogRepository) FindAudienceRecords(ctx context.Context, brandID, segment string) ([]domain.AudienceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	q := r.DB.WithContext(ctx).Where("brand_id = ?", brandID)
	if segment != "" {
		q = q.Where("segment = ?", segment)
	}

	var records []domain.AudienceRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to find audience records: %w", err)
	}

	return records, nil
}
