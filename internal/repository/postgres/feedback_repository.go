package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"adPilot/domain"
)

const defaultFeedbackLimit = 500

type FeedbackRepository struct {
	DB *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{
		DB: db,
	}
}

func (r *FeedbackRepository) Create(ctx context.Context, event *domain.FeedbackEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create feedback event: %w", err)
	}

	return nil
}

// FindByAd returns the newest events for adID first.
func (r *FeedbackRepository) FindByAd(ctx context.Context, adID string) ([]domain.FeedbackEvent, error) {
	return r.findBy(ctx, "ad_id = ?", adID)
}

func (r *FeedbackRepository) FindByChannel(ctx context.Context, ch string) ([]domain.FeedbackEvent, error) {
	return r.findBy(ctx, "channel = ?", ch)
}

func (r *FeedbackRepository) findBy(ctx context.Context, where string, arg any) ([]domain.FeedbackEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var events []domain.FeedbackEvent
	err := r.DB.WithContext(ctx).
		Where(where, arg).
		Order("created_at DESC").
		Limit(defaultFeedbackLimit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback_events: %w", err)
	}

	return events, nil
}
