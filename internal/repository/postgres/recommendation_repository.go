package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"adPilot/domain"
)

type RecommendationRepository struct {
	DB *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) *RecommendationRepository {
	return &RecommendationRepository{
		DB: db,
	}
}

func (r *RecommendationRepository) Create(ctx context.Context, snap *domain.ChannelRecommendationSnapshot) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(snap).Error; err != nil {
		return fmt.Errorf("failed to create channel recommendation: %w", err)
	}

	return nil
}

// FindByBrand returns the newest snapshots for a brand first.
func (r *RecommendationRepository) FindByBrand(ctx context.Context, brandID string, limit int) ([]domain.ChannelRecommendationSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if limit <= 0 {
		limit = 20
	}

	var snaps []domain.ChannelRecommendationSnapshot
	if err := r.DB.WithContext(ctx).
		Where("brand_id = ?", brandID).
		Order("created_at DESC").
		Limit(limit).
		Find(&snaps).Error; err != nil {
		return nil, fmt.Errorf("failed to query channel_recommendations: %w", err)
	}

	return snaps, nil
}
