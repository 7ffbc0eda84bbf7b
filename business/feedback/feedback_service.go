package feedback

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"adPilot/business/adreco"
	"adPilot/business/channel"
	"adPilot/business/energy"
	"adPilot/domain"
	"adPilot/pkg/logger"
	"adPilot/pkg/trace"
)

// FeedbackRepository contract interface
type FeedbackRepository interface {
	Create(ctx context.Context, event *domain.FeedbackEvent) error
	FindByAd(ctx context.Context, adID string) ([]domain.FeedbackEvent, error)
	FindByChannel(ctx context.Context, ch string) ([]domain.FeedbackEvent, error)
}

type ChannelLearner interface {
	RecordOutcome(ctx context.Context, ch domain.ChannelType, clicks, impressions, conversions int64) (channel.Outcome, error)
}

type AdTracker interface {
	Track(ctx context.Context, in adreco.TrackInput) (domain.AdPerformanceRecord, error)
}

type TestRecorder interface {
	RecordCounts(ctx context.Context, testID, variantID string, counts domain.ArmMetrics) (bool, error)
}

type EnergyCounter interface {
	Track(ctx context.Context, model string, cacheHit bool) (domain.EnergyReading, error)
}

// BatchError reports one rejected item of a batch.
type BatchError struct {
	Index int    `json:"index"`
	AdID  string `json:"ad_id"`
	Error string `json:"error"`
}

// FeedbackService is the single ingestion point for performance reports.
// Each event is stored, then fanned out to the learning components.
type FeedbackService struct {
	repo     FeedbackRepository
	channels ChannelLearner
	ads      AdTracker
	tests    TestRecorder
	energy   EnergyCounter
}

func NewFeedbackService(
	repo FeedbackRepository,
	channels ChannelLearner,
	ads AdTracker,
	tests TestRecorder,
	energy EnergyCounter,
) *FeedbackService {
	return &FeedbackService{
		repo:     repo,
		channels: channels,
		ads:      ads,
		tests:    tests,
		energy:   energy,
	}
}

func validate(ev *domain.FeedbackEvent) (domain.ChannelType, error) {
	if strings.TrimSpace(ev.AdID) == "" {
		return "", fmt.Errorf("ad id is required: %w", domain.ErrInvalidInput)
	}
	ch, err := domain.ParseChannel(ev.Channel)
	if err != nil {
		return "", err
	}
	if ev.Impressions < 0 || ev.Clicks < 0 || ev.Conversions < 0 {
		return "", fmt.Errorf("counters must be non-negative: %w", domain.ErrInvalidInput)
	}
	if ev.Spend < 0 || ev.Revenue < 0 {
		return "", fmt.Errorf("spend and revenue must be non-negative: %w", domain.ErrInvalidInput)
	}
	if ev.TestID != "" && ev.VariantID == "" {
		return "", fmt.Errorf("variant id is required with a test id: %w", domain.ErrInvalidInput)
	}
	return ch, nil
}

// Submit validates, stores and applies one feedback event.
func (s *FeedbackService) Submit(ctx context.Context, ev domain.FeedbackEvent) (*domain.FeedbackEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	ch, err := validate(&ev)
	if err != nil {
		return nil, err
	}
	tid := trace.TraceIDFromContext(ctx)

	ev.Channel = string(ch)
	ev.CTR, ev.ConversionRate, _ = adreco.Rates(ev.Impressions, ev.Clicks, ev.Conversions, ev.Revenue)
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}

	if s.energy != nil {
		reading, err := s.energy.Track(ctx, energy.DefaultModel, false)
		if err != nil {
			logger.Warn("feedback_energy_untracked", "trace_id", tid, "ad_id", ev.AdID, "error", err)
		} else {
			ev.EnergyKWh = reading.EnergyKWh
			ev.CO2Kg = reading.CO2Kg
		}
	}

	if err := s.repo.Create(ctx, &ev); err != nil {
		logger.Error("failed to store feedback", "trace_id", tid, "ad_id", ev.AdID, "error", err)
		return nil, fmt.Errorf("failed to store feedback: %w", err)
	}

	if _, err := s.channels.RecordOutcome(ctx, ch, ev.Clicks, ev.Impressions, ev.Conversions); err != nil {
		return nil, fmt.Errorf("failed to update channel learning: %w", err)
	}

	if ev.AudienceSegment != "" && s.ads != nil {
		_, err := s.ads.Track(ctx, adreco.TrackInput{
			AdID:            ev.AdID,
			Channel:         ev.Channel,
			AudienceSegment: ev.AudienceSegment,
			Impressions:     ev.Impressions,
			Clicks:          ev.Clicks,
			Conversions:     ev.Conversions,
			Revenue:         ev.Revenue,
			Attributes:      ev.Attributes,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to track ad performance: %w", err)
		}
	}

	if ev.TestID != "" && s.tests != nil {
		recorded, err := s.tests.RecordCounts(ctx, ev.TestID, ev.VariantID, domain.ArmMetrics{
			Impressions: ev.Impressions,
			Clicks:      ev.Clicks,
			Conversions: ev.Conversions,
			Revenue:     ev.Revenue,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to record test counters: %w", err)
		}
		if !recorded {
			logger.Debug("feedback_test_ignored", "trace_id", tid, "test_id", ev.TestID)
		}
	}

	logger.Info("feedback_submitted",
		"trace_id", tid,
		"feedback_id", ev.ID,
		"ad_id", ev.AdID,
		"channel", ev.Channel,
		"ctr", ev.CTR,
		"conversion_rate", ev.ConversionRate,
	)
	FeedbackEventsTotal.WithLabelValues(ev.Channel).Inc()

	return &ev, nil
}

// SubmitBatch applies each event independently; a failing item does not
// stop the rest.
func (s *FeedbackService) SubmitBatch(ctx context.Context, events []domain.FeedbackEvent) ([]domain.FeedbackEvent, []BatchError) {
	stored := make([]domain.FeedbackEvent, 0, len(events))
	var failed []BatchError

	for i, ev := range events {
		out, err := s.Submit(ctx, ev)
		if err != nil {
			logger.Warn("feedback_batch_item_failed",
				"trace_id", trace.TraceIDFromContext(ctx),
				"index", i,
				"ad_id", ev.AdID,
				"error", err,
			)
			failed = append(failed, BatchError{Index: i, AdID: ev.AdID, Error: err.Error()})
			continue
		}
		stored = append(stored, *out)
	}

	return stored, failed
}

func (s *FeedbackService) ByAd(ctx context.Context, adID string) ([]domain.FeedbackEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	return s.repo.FindByAd(ctx, adID)
}

func (s *FeedbackService) ByChannel(ctx context.Context, name string) ([]domain.FeedbackEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	ch, err := domain.ParseChannel(name)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByChannel(ctx, string(ch))
}
