package feedback

import (
	"context"
	"errors"
	"testing"

	"adPilot/business/abtest"
	"adPilot/business/adreco"
	"adPilot/business/channel"
	"adPilot/business/energy"
	"adPilot/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type fakeRepo struct {
	events  []domain.FeedbackEvent
	failing bool
}

func (f *fakeRepo) Create(_ context.Context, ev *domain.FeedbackEvent) error {
	if f.failing {
		return errors.New("insert failed")
	}
	f.events = append(f.events, *ev)
	return nil
}

func (f *fakeRepo) FindByAd(_ context.Context, adID string) ([]domain.FeedbackEvent, error) {
	var out []domain.FeedbackEvent
	for _, ev := range f.events {
		if ev.AdID == adID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindByChannel(_ context.Context, ch string) ([]domain.FeedbackEvent, error) {
	var out []domain.FeedbackEvent
	for _, ev := range f.events {
		if ev.Channel == ch {
			out = append(out, ev)
		}
	}
	return out, nil
}

type fixture struct {
	svc      *FeedbackService
	repo     *fakeRepo
	channels *channel.ChannelService
	ads      *adreco.Engine
	tests    *abtest.ABTestService
	energy   *energy.MemoryCounter
}

func newFixture() fixture {
	f := fixture{
		repo:     &fakeRepo{},
		channels: channel.NewChannelService(channel.DefaultConfig(), channel.MeanSampler{}),
		ads:      adreco.NewEngine(adreco.DefaultConfig()),
		tests:    abtest.NewABTestService(abtest.DefaultConfig(), abtest.NewSeededPicker(1)),
		energy:   energy.NewMemoryCounter(energy.NewEstimator(energy.DefaultConfig())),
	}
	f.svc = NewFeedbackService(f.repo, f.channels, f.ads, f.tests, f.energy)
	return f
}

func TestSubmit_FansOutToLearners(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	test, err := f.tests.Create(ctx, abtest.CreateInput{
		Name: "h", BaseAd: domain.Creative{"headline": "X"}, TestType: domain.TestTypeHeadline, TrafficSplit: 0.5,
	})
	require.NoError(t, err)

	out, err := f.svc.Submit(ctx, domain.FeedbackEvent{
		AdID:            "ad_001",
		Channel:         " Instagram ",
		AudienceSegment: "eco_conscious_shoppers",
		Impressions:     1000,
		Clicks:          25,
		Conversions:     3,
		Revenue:         150,
		Attributes:      datatypes.JSONMap{"headline": "Go green"},
		TestID:          test.TestID,
		VariantID:       "headline_0",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "instagram", out.Channel)
	assert.InDelta(t, 0.025, out.CTR, 1e-12)
	assert.InDelta(t, 0.12, out.ConversionRate, 1e-12)
	assert.InDelta(t, 0.0006, out.EnergyKWh, 1e-12)
	require.Len(t, f.repo.events, 1)

	perf := f.channels.Performance(domain.ChannelInstagram)
	assert.Equal(t, 1, perf.Successes)

	rec, err := f.ads.Record("ad_001")
	require.NoError(t, err)
	assert.InDelta(t, 0.803, rec.PerformanceScore, 1e-9)
	assert.Equal(t, "Go green", rec.Attributes["headline"])

	res, err := f.tests.Results(test.TestID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), res.Control.Impressions)
	assert.Equal(t, int64(25), res.Control.Clicks)

	totals, err := f.energy.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), totals.GenerationCount)
}

func TestSubmit_WithoutSegmentSkipsAdEngine(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Submit(context.Background(), domain.FeedbackEvent{
		AdID: "ad_2", Channel: "tiktok", Impressions: 1000, Clicks: 5,
	})
	require.NoError(t, err)

	_, err = f.ads.Record("ad_2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, f.channels.Performance(domain.ChannelTikTok).Failures)
}

func TestSubmit_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	bad := []domain.FeedbackEvent{
		{Channel: "instagram"},
		{AdID: "a", Channel: "myspace"},
		{AdID: "a", Channel: "instagram", Clicks: -1},
		{AdID: "a", Channel: "instagram", Spend: -10},
		{AdID: "a", Channel: "instagram", TestID: "test_1"},
	}
	for i, ev := range bad {
		_, err := f.svc.Submit(ctx, ev)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "case %d", i)
	}
	assert.Empty(t, f.repo.events)
	assert.Empty(t, f.channels.StatsSnapshot())
}

func TestSubmit_StorageFailureStopsLearning(t *testing.T) {
	f := newFixture()
	f.repo.failing = true

	_, err := f.svc.Submit(context.Background(), domain.FeedbackEvent{AdID: "a", Channel: "facebook", Impressions: 10, Clicks: 1})
	require.Error(t, err)
	assert.Empty(t, f.channels.StatsSnapshot())
}

func TestSubmitBatch_ContinuesPastErrors(t *testing.T) {
	f := newFixture()

	stored, failed := f.svc.SubmitBatch(context.Background(), []domain.FeedbackEvent{
		{AdID: "a1", Channel: "linkedin", Impressions: 100, Clicks: 2},
		{AdID: "a2", Channel: "nowhere"},
		{AdID: "a3", Channel: "twitter", Impressions: 100},
	})

	require.Len(t, stored, 2)
	assert.Equal(t, "a1", stored[0].AdID)
	assert.Equal(t, "a3", stored[1].AdID)
	require.Len(t, failed, 1)
	assert.Equal(t, 1, failed[0].Index)
	assert.Equal(t, "a2", failed[0].AdID)
}

func TestQueries(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, _ = f.svc.Submit(ctx, domain.FeedbackEvent{AdID: "a1", Channel: "linkedin", Impressions: 100, Clicks: 2})
	_, _ = f.svc.Submit(ctx, domain.FeedbackEvent{AdID: "a1", Channel: "facebook", Impressions: 100, Clicks: 2})

	byAd, err := f.svc.ByAd(ctx, "a1")
	require.NoError(t, err)
	assert.Len(t, byAd, 2)

	byChannel, err := f.svc.ByChannel(ctx, "LinkedIn")
	require.NoError(t, err)
	assert.Len(t, byChannel, 1)

	_, err = f.svc.ByChannel(ctx, "fax")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
