package abtest

import (
	"context"
	"fmt"
	"hash/fnv"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"adPilot/domain"
	"adPilot/pkg/logger"
	"adPilot/pkg/trace"
)

type CreateInput struct {
	Name         string
	BaseAd       domain.Creative
	TestType     domain.ABTestType
	TrafficSplit float64
}

// Event is one impression, click or conversion reported for a test arm.
type Event struct {
	TestID    string
	VariantID string
	UserID    string
	Type      domain.TestEventType
	Revenue   float64
}

// ABTestService owns the registry of tests and their per-arm counters.
type ABTestService struct {
	mu     sync.RWMutex
	cfg    Config
	picker Picker
	now    func() time.Time
	newID  func() string

	tests map[string]*domain.ABTest
	order []string
}

func NewABTestService(cfg Config, picker Picker) *ABTestService {
	if picker == nil {
		picker = NewRandPicker()
	}
	return &ABTestService{
		cfg:    cfg.withDefaults(),
		picker: picker,
		now:    time.Now,
		newID:  func() string { return "test_" + uuid.NewString() },
		tests:  make(map[string]*domain.ABTest),
	}
}

// Create registers a test with the base ad as control and generated
// alternatives for the remaining variants.
func (s *ABTestService) Create(ctx context.Context, in CreateInput) (domain.ABTest, error) {
	if err := ctx.Err(); err != nil {
		return domain.ABTest{}, fmt.Errorf("context error: %w", err)
	}
	if strings.TrimSpace(in.Name) == "" {
		return domain.ABTest{}, fmt.Errorf("test name is required: %w", domain.ErrInvalidInput)
	}
	if in.TrafficSplit <= 0 || in.TrafficSplit >= 1 {
		return domain.ABTest{}, fmt.Errorf("traffic split %v outside (0,1): %w", in.TrafficSplit, domain.ErrInvalidInput)
	}

	s.mu.Lock()
	variants, err := generateVariants(in.BaseAd, in.TestType, s.cfg.NumVariants, s.picker)
	if err != nil {
		s.mu.Unlock()
		return domain.ABTest{}, err
	}

	base := maps.Clone(in.BaseAd)
	if base == nil {
		base = domain.Creative{}
	}

	t := &domain.ABTest{
		TestID:       s.newID(),
		TestName:     in.Name,
		TestType:     in.TestType,
		BaseAd:       base,
		Variants:     variants,
		TrafficSplit: in.TrafficSplit,
		Status:       domain.TestStatusActive,
		Metrics: map[domain.TestArm]domain.ArmMetrics{
			domain.ArmControl: {},
			domain.ArmVariant: {},
		},
		CreatedAt: s.now(),
	}
	s.tests[t.TestID] = t
	s.order = append(s.order, t.TestID)
	out := copyTest(t)
	s.mu.Unlock()

	logger.Info("ab_test_created",
		"trace_id", trace.TraceIDFromContext(ctx),
		"test_id", out.TestID,
		"test_type", out.TestType,
		"traffic_split", out.TrafficSplit,
		"variants", len(out.Variants),
	)
	ABTestsCreatedTotal.WithLabelValues(string(out.TestType)).Inc()

	return out, nil
}

// bucket maps a user id to [0, 100) with 32-bit FNV-1a, stable across processes.
func bucket(userID string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return h.Sum32() % hashBuckets
}

// Assign returns the control for users hashed below the traffic split.
// Users above it get one of the non-control variants, picked at random on
// every call, so only the control/variant side is stable per user.
func (s *ABTestService) Assign(testID, userID string) (domain.Variant, error) {
	s.mu.RLock()
	t, ok := s.tests[testID]
	if !ok {
		s.mu.RUnlock()
		return domain.Variant{}, fmt.Errorf("test %q: %w", testID, domain.ErrNotFound)
	}
	split := t.TrafficSplit
	variants := t.Variants
	s.mu.RUnlock()

	if float64(bucket(userID)) < split*hashBuckets {
		return copyVariant(variants[0]), nil
	}

	idx := 1 + s.picker.IntN(len(variants)-1)
	return copyVariant(variants[idx]), nil
}

// Record applies ev to the matching arm. Events for unknown or completed
// tests are dropped and reported as not recorded.
func (s *ABTestService) Record(ctx context.Context, ev Event) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}
	if ev.Revenue < 0 {
		return false, fmt.Errorf("revenue must be non-negative: %w", domain.ErrInvalidInput)
	}

	var delta domain.ArmMetrics
	switch ev.Type {
	case domain.EventImpression:
		delta.Impressions = 1
	case domain.EventClick:
		delta.Clicks = 1
	case domain.EventConversion:
		delta.Conversions = 1
		delta.Revenue = ev.Revenue
	default:
		return false, fmt.Errorf("unknown event type %q: %w", ev.Type, domain.ErrInvalidInput)
	}

	arm, ok := s.apply(ctx, ev.TestID, ev.VariantID, delta)
	if !ok {
		return false, nil
	}

	logger.Debug("ab_test_event",
		"trace_id", trace.TraceIDFromContext(ctx),
		"test_id", ev.TestID,
		"variant_id", ev.VariantID,
		"user_id", ev.UserID,
		"event", ev.Type,
		"arm", arm,
		"revenue", ev.Revenue,
	)
	ABTestEventsTotal.WithLabelValues(string(ev.Type), string(arm)).Inc()

	return true, nil
}

// RecordCounts adds a batch of counters reported for one variant, as sent
// by aggregated feedback. Same drop rules as Record.
func (s *ABTestService) RecordCounts(ctx context.Context, testID, variantID string, counts domain.ArmMetrics) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}
	if counts.Impressions < 0 || counts.Clicks < 0 || counts.Conversions < 0 || counts.Revenue < 0 {
		return false, fmt.Errorf("counters must be non-negative: %w", domain.ErrInvalidInput)
	}

	arm, ok := s.apply(ctx, testID, variantID, counts)
	if !ok {
		return false, nil
	}

	logger.Debug("ab_test_counts",
		"trace_id", trace.TraceIDFromContext(ctx),
		"test_id", testID,
		"variant_id", variantID,
		"arm", arm,
		"impressions", counts.Impressions,
		"clicks", counts.Clicks,
		"conversions", counts.Conversions,
	)
	ABTestEventsTotal.WithLabelValues(string(domain.EventImpression), string(arm)).Add(float64(counts.Impressions))
	ABTestEventsTotal.WithLabelValues(string(domain.EventClick), string(arm)).Add(float64(counts.Clicks))
	ABTestEventsTotal.WithLabelValues(string(domain.EventConversion), string(arm)).Add(float64(counts.Conversions))

	return true, nil
}

// apply adds delta to the arm variantID belongs to. It reports false when
// the test is unknown or already completed.
func (s *ABTestService) apply(ctx context.Context, testID, variantID string, delta domain.ArmMetrics) (domain.TestArm, bool) {
	s.mu.Lock()
	t, ok := s.tests[testID]
	if !ok || t.Status == domain.TestStatusCompleted {
		s.mu.Unlock()
		logger.Warn("ab_test_event_dropped",
			"trace_id", trace.TraceIDFromContext(ctx),
			"test_id", testID,
			"variant_id", variantID,
			"known", ok,
		)
		return "", false
	}

	arm := domain.ArmVariant
	if variantID == t.Variants[0].VariantID {
		arm = domain.ArmControl
	}

	m := t.Metrics[arm]
	m.Impressions += delta.Impressions
	m.Clicks += delta.Clicks
	m.Conversions += delta.Conversions
	m.Revenue += delta.Revenue
	t.Metrics[arm] = m
	s.mu.Unlock()

	return arm, true
}

func (s *ABTestService) RecordImpression(ctx context.Context, testID, variantID, userID string) error {
	_, err := s.Record(ctx, Event{TestID: testID, VariantID: variantID, UserID: userID, Type: domain.EventImpression})
	return err
}

func (s *ABTestService) RecordClick(ctx context.Context, testID, variantID, userID string) error {
	_, err := s.Record(ctx, Event{TestID: testID, VariantID: variantID, UserID: userID, Type: domain.EventClick})
	return err
}

func (s *ABTestService) RecordConversion(ctx context.Context, testID, variantID, userID string, revenue float64) error {
	_, err := s.Record(ctx, Event{TestID: testID, VariantID: variantID, UserID: userID, Type: domain.EventConversion, Revenue: revenue})
	return err
}

func (s *ABTestService) Results(testID string) (domain.TestResults, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tests[testID]
	if !ok {
		return domain.TestResults{}, fmt.Errorf("test %q: %w", testID, domain.ErrNotFound)
	}
	return computeResults(t, s.cfg), nil
}

// End marks the test completed and returns its final results.
func (s *ABTestService) End(ctx context.Context, testID string) (domain.TestResults, error) {
	if err := ctx.Err(); err != nil {
		return domain.TestResults{}, fmt.Errorf("context error: %w", err)
	}

	s.mu.Lock()
	t, ok := s.tests[testID]
	if !ok {
		s.mu.Unlock()
		return domain.TestResults{}, fmt.Errorf("test %q: %w", testID, domain.ErrNotFound)
	}
	if t.Status != domain.TestStatusCompleted {
		ended := s.now()
		t.Status = domain.TestStatusCompleted
		t.EndedAt = &ended
	}
	res := computeResults(t, s.cfg)
	s.mu.Unlock()

	logger.Info("ab_test_ended",
		"trace_id", trace.TraceIDFromContext(ctx),
		"test_id", testID,
		"winner", res.Winner,
		"confidence", res.ConfidenceLevel,
	)

	return res, nil
}

func (s *ABTestService) Get(testID string) (domain.ABTest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tests[testID]
	if !ok {
		return domain.ABTest{}, fmt.Errorf("test %q: %w", testID, domain.ErrNotFound)
	}
	return copyTest(t), nil
}

// List returns every test in creation order.
func (s *ABTestService) List() []domain.ABTest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ABTest, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, copyTest(s.tests[id]))
	}
	return out
}

func copyVariant(v domain.Variant) domain.Variant {
	return domain.Variant{VariantID: v.VariantID, Creative: maps.Clone(v.Creative)}
}

func copyTest(t *domain.ABTest) domain.ABTest {
	out := *t
	out.BaseAd = maps.Clone(t.BaseAd)
	out.Metrics = maps.Clone(t.Metrics)
	out.Variants = make([]domain.Variant, len(t.Variants))
	for i, v := range t.Variants {
		out.Variants[i] = copyVariant(v)
	}
	if t.EndedAt != nil {
		ended := *t.EndedAt
		out.EndedAt = &ended
	}
	return out
}
