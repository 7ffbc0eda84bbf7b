package abtest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"adPilot/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// firstPicker always picks index 0.
type firstPicker struct{}

func (firstPicker) IntN(int) int { return 0 }

func newService(t *testing.T) *ABTestService {
	t.Helper()
	return NewABTestService(DefaultConfig(), firstPicker{})
}

func TestCreate_HeadlineTest(t *testing.T) {
	svc := newService(t)

	test, err := svc.Create(context.Background(), CreateInput{
		Name:         "Headline Test",
		BaseAd:       domain.Creative{"headline": "X"},
		TestType:     domain.TestTypeHeadline,
		TrafficSplit: 0.5,
	})
	require.NoError(t, err)

	require.Len(t, test.Variants, 4)
	assert.Equal(t, "X", test.Variants[0].Creative["headline"])
	assert.True(t, strings.HasPrefix(test.TestID, "test_"))
	assert.Equal(t, domain.TestStatusActive, test.Status)

	for i, v := range test.Variants {
		assert.Equal(t, fmt.Sprintf("headline_%d", i), v.VariantID)
	}
	assert.Equal(t, "Discover Product", test.Variants[1].Creative["headline"])
	assert.Equal(t, "Limited Time: Product", test.Variants[2].Creative["headline"])
	assert.Equal(t, "Save Money with Product", test.Variants[3].Creative["headline"])
}

func TestCreate_CTAAndBodyTemplates(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	cta, err := svc.Create(ctx, CreateInput{
		Name: "cta", BaseAd: domain.Creative{"cta": "Buy"}, TestType: domain.TestTypeCTA, TrafficSplit: 0.3,
	})
	require.NoError(t, err)
	assert.Equal(t, "Buy", cta.Variants[0].Creative["cta"])
	assert.Equal(t, "Act Now", cta.Variants[1].Creative["cta"])
	assert.Equal(t, "Save Money", cta.Variants[2].Creative["cta"])
	assert.Equal(t, "Learn More", cta.Variants[3].Creative["cta"])

	body, err := svc.Create(ctx, CreateInput{
		Name: "body", BaseAd: domain.Creative{"product_name": "EcoBottle"}, TestType: domain.TestTypeBody, TrafficSplit: 0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "", body.Variants[0].Creative["body"])
	assert.Equal(t, "Feel the difference with EcoBottle. Experience the change you've been waiting for.",
		body.Variants[1].Creative["body"])
	assert.Equal(t, "EcoBottle", body.Variants[2].Creative["product_name"])
}

func TestCreate_RandomTemplatesStayWithinStyle(t *testing.T) {
	svc := NewABTestService(DefaultConfig(), NewSeededPicker(3))

	for i := 0; i < 20; i++ {
		test, err := svc.Create(context.Background(), CreateInput{
			Name: "h", BaseAd: domain.Creative{"product_name": "Kit"}, TestType: domain.TestTypeHeadline, TrafficSplit: 0.5,
		})
		require.NoError(t, err)

		urgency := make([]string, 0, 4)
		for _, tmpl := range headlineTemplates[styleUrgency] {
			urgency = append(urgency, strings.ReplaceAll(tmpl, "{product}", "Kit"))
		}
		assert.Contains(t, urgency, test.Variants[2].Creative["headline"])
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for _, split := range []float64{0, 1, -0.2, 1.5} {
		_, err := svc.Create(ctx, CreateInput{Name: "n", TestType: domain.TestTypeHeadline, TrafficSplit: split})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "split %v", split)
	}

	_, err := svc.Create(ctx, CreateInput{Name: "n", TestType: "image", TrafficSplit: 0.5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Create(ctx, CreateInput{TestType: domain.TestTypeCTA, TrafficSplit: 0.5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Empty(t, svc.List())
}

func TestAssign_ControlSideIsDeterministic(t *testing.T) {
	svc := NewABTestService(DefaultConfig(), NewSeededPicker(7))
	test, err := svc.Create(context.Background(), CreateInput{
		Name: "split", BaseAd: domain.Creative{"headline": "X"}, TestType: domain.TestTypeHeadline, TrafficSplit: 0.4,
	})
	require.NoError(t, err)

	controls := 0
	for i := 0; i < 200; i++ {
		user := fmt.Sprintf("user_%d", i)
		wantControl := float64(bucket(user)) < 0.4*100

		for rep := 0; rep < 5; rep++ {
			v, err := svc.Assign(test.TestID, user)
			require.NoError(t, err)
			if wantControl {
				assert.Equal(t, "headline_0", v.VariantID)
			} else {
				assert.NotEqual(t, "headline_0", v.VariantID)
			}
		}
		if wantControl {
			controls++
		}
	}
	assert.Greater(t, controls, 0)
	assert.Less(t, controls, 200)
}

func TestAssign_UnknownTest(t *testing.T) {
	svc := newService(t)

	_, err := svc.Assign("test_missing", "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBucket_Range(t *testing.T) {
	for i := 0; i < 500; i++ {
		assert.Less(t, bucket(fmt.Sprintf("u%d", i)), uint32(100))
	}
	assert.Equal(t, bucket("same-user"), bucket("same-user"))
}

func TestRecord_ArmsAndResults(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	test, err := svc.Create(ctx, CreateInput{
		Name: "r", BaseAd: domain.Creative{"headline": "X"}, TestType: domain.TestTypeHeadline, TrafficSplit: 0.5,
	})
	require.NoError(t, err)
	id := test.TestID

	for i := 0; i < 600; i++ {
		require.NoError(t, svc.RecordImpression(ctx, id, "headline_0", "u"))
		require.NoError(t, svc.RecordImpression(ctx, id, "headline_2", "u"))
	}
	for i := 0; i < 12; i++ {
		require.NoError(t, svc.RecordClick(ctx, id, "headline_0", "u"))
	}
	for i := 0; i < 30; i++ {
		require.NoError(t, svc.RecordClick(ctx, id, "headline_3", "u"))
	}
	require.NoError(t, svc.RecordConversion(ctx, id, "headline_0", "u", 20))
	require.NoError(t, svc.RecordConversion(ctx, id, "headline_1", "u", 30))
	require.NoError(t, svc.RecordConversion(ctx, id, "headline_1", "u", 30))

	res, err := svc.Results(id)
	require.NoError(t, err)

	assert.Equal(t, int64(600), res.Control.Impressions)
	assert.Equal(t, int64(600), res.Variant.Impressions)
	assert.InDelta(t, 0.02, res.Control.CTR, 1e-12)
	assert.InDelta(t, 0.05, res.Variant.CTR, 1e-12)
	assert.InDelta(t, 1.0/12.0, res.Control.ConversionRate, 1e-12)
	assert.InDelta(t, 2.0/30.0, res.Variant.ConversionRate, 1e-12)
	assert.InDelta(t, 150.0, res.Improvements.CTRPercent, 1e-9)
	assert.InDelta(t, -20.0, res.Improvements.ConversionPercent, 1e-9)
	assert.InDelta(t, 200.0, res.Improvements.RevenuePercent, 1e-9)
	assert.Equal(t, domain.ArmVariant, res.Winner)
	assert.Equal(t, "high", res.ConfidenceLevel)
}

func TestRecord_UnknownTestIsNoop(t *testing.T) {
	svc := newService(t)

	recorded, err := svc.Record(context.Background(), Event{TestID: "nope", VariantID: "x", Type: domain.EventClick})
	require.NoError(t, err)
	assert.False(t, recorded)
}

func TestRecord_InvalidEvent(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Record(ctx, Event{TestID: "t", Type: "hover"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Record(ctx, Event{TestID: "t", Type: domain.EventConversion, Revenue: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEnd_StopsRecording(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	test, err := svc.Create(ctx, CreateInput{
		Name: "e", BaseAd: domain.Creative{"cta": "Go"}, TestType: domain.TestTypeCTA, TrafficSplit: 0.5,
	})
	require.NoError(t, err)
	require.NoError(t, svc.RecordImpression(ctx, test.TestID, "cta_0", "u"))

	res, err := svc.End(ctx, test.TestID)
	require.NoError(t, err)
	assert.Equal(t, domain.TestStatusCompleted, res.Status)
	assert.Equal(t, int64(1), res.Control.Impressions)

	recorded, err := svc.Record(ctx, Event{TestID: test.TestID, VariantID: "cta_0", Type: domain.EventImpression})
	require.NoError(t, err)
	assert.False(t, recorded)

	got, err := svc.Get(test.TestID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Metrics[domain.ArmControl].Impressions)
	require.NotNil(t, got.EndedAt)

	_, err = svc.End(ctx, "test_missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_CreationOrderAndCopies(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for _, name := range []string{"first", "second"} {
		_, err := svc.Create(ctx, CreateInput{Name: name, TestType: domain.TestTypeBody, TrafficSplit: 0.5})
		require.NoError(t, err)
	}

	list := svc.List()
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].TestName)
	assert.Equal(t, "second", list[1].TestName)

	list[0].Variants[0].Creative["body"] = "mutated"
	again, err := svc.Get(list[0].TestID)
	require.NoError(t, err)
	assert.Equal(t, "", again.Variants[0].Creative["body"])
}

func TestRecordCounts(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	test, err := svc.Create(ctx, CreateInput{
		Name: "c", BaseAd: domain.Creative{"body": "b"}, TestType: domain.TestTypeBody, TrafficSplit: 0.5,
	})
	require.NoError(t, err)

	ok, err := svc.RecordCounts(ctx, test.TestID, "body_2", domain.ArmMetrics{Impressions: 500, Clicks: 20, Conversions: 2, Revenue: 40})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.RecordCounts(ctx, test.TestID, "body_0", domain.ArmMetrics{Impressions: 500, Clicks: 12})
	require.NoError(t, err)
	assert.True(t, ok)

	res, err := svc.Results(test.TestID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), res.Variant.Impressions)
	assert.Equal(t, int64(20), res.Variant.Clicks)
	assert.InDelta(t, 40.0, res.Variant.Revenue, 1e-9)
	assert.Equal(t, int64(12), res.Control.Clicks)
	assert.Equal(t, "medium", res.ConfidenceLevel)

	_, err = svc.RecordCounts(ctx, test.TestID, "body_1", domain.ArmMetrics{Clicks: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	ok, err = svc.RecordCounts(ctx, "test_missing", "body_1", domain.ArmMetrics{Clicks: 1})
	require.NoError(t, err)
	assert.False(t, ok)
}
