package channel

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"adPilot/domain"
	"adPilot/pkg/logger"
	"adPilot/pkg/trace"
)

const (
	highCompatibility = 0.8
	goodCompatibility = 0.6

	// success rate above which a channel is reported as performing well
	performingWellRate = 0.1
)

// ChannelService ranks channels for a campaign and learns from reported outcomes.
type ChannelService struct {
	cfg    Config
	bandit *BanditLayer
}

func NewChannelService(cfg Config, sampler Sampler) *ChannelService {
	cfg = cfg.withDefaults()
	return &ChannelService{
		cfg:    cfg,
		bandit: NewBanditLayer(cfg, sampler),
	}
}

// Recommend scores every known channel and returns them by descending
// confidence. Missing brand, product or audience data falls back to
// general defaults; it never fails on degraded input.
func (s *ChannelService) Recommend(
	ctx context.Context,
	brand domain.Brand,
	product domain.Product,
	audience domain.AudienceAnalysis,
	goal domain.CampaignGoal,
	budget float64,
) (domain.ChannelRecommendationSet, error) {
	if err := ctx.Err(); err != nil {
		return domain.ChannelRecommendationSet{}, fmt.Errorf("context error: %w", err)
	}

	segment := normalizeSegment(audience.Segment)
	engagement := normalizeEngagement(audience.Characteristics.EngagementLevel)

	recs := make([]domain.ChannelRecommendation, 0, len(domain.AllChannels))
	for _, ch := range domain.AllChannels {
		match := evaluateMatch(ch, brand.Tone, product.Category, segment, goal)
		compatibility := match.score()

		ctr, cpc := Estimate(ch, engagement, goal)
		ctr, cpc, _ = s.bandit.Adjust(ch, ctr, cpc)

		recs = append(recs, domain.ChannelRecommendation{
			Channel:         ch,
			ConfidenceScore: s.confidence(compatibility, engagement, budget),
			EstimatedCTR:    ctr,
			EstimatedCPC:    cpc,
			Reasoning:       reasoning(match, compatibility, segment, goal, brand.Tone, product.Category),
		})
	}

	// stable: equal confidence keeps channel enumeration order
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].ConfidenceScore > recs[j].ConfidenceScore
	})

	set := domain.ChannelRecommendationSet{Recommendations: recs}
	if len(recs) > 0 {
		set.BestChannel = recs[0].Channel
		total := 0.0
		for _, r := range recs {
			total += r.ConfidenceScore
		}
		set.TotalConfidence = total / float64(len(recs))
	}

	logger.Debug("channel_recommend",
		"trace_id", trace.TraceIDFromContext(ctx),
		"segment", segment,
		"goal", goal,
		"engagement", engagement,
		"budget", budget,
		"best_channel", set.BestChannel,
		"total_confidence", set.TotalConfidence,
	)

	ChannelRecommendationsTotal.WithLabelValues(string(set.BestChannel), string(goal)).Inc()

	return set, nil
}

func (s *ChannelService) confidence(compatibility float64, engagement string, budget float64) float64 {
	c := compatibility

	switch engagement {
	case "high":
		c *= 1.2
	case "low":
		c *= 0.8
	}

	// budget 0 means none was given
	if budget != 0 {
		if budget > s.cfg.HighBudget {
			c *= 1.1
		} else if budget < s.cfg.LowBudget {
			c *= 0.9
		}
	}

	return clamp01(c)
}

func reasoning(m matchResult, compatibility float64, segment string, goal domain.CampaignGoal, tone, category string) string {
	parts := make([]string, 0, 5)

	if m.audience {
		parts = append(parts, fmt.Sprintf("Perfect match for %s audience", segment))
	}
	if m.goal {
		parts = append(parts, fmt.Sprintf("Optimal for %s campaigns", goal))
	}
	if m.tone {
		parts = append(parts, fmt.Sprintf("Aligns with %s brand tone", strings.ToLower(tone)))
	}
	if m.category {
		parts = append(parts, fmt.Sprintf("Strong performance for %s products", category))
	}

	if compatibility > highCompatibility {
		parts = append(parts, "High compatibility score")
	} else if compatibility > goodCompatibility {
		parts = append(parts, "Good compatibility score")
	}

	if len(parts) == 0 {
		return "Standard performance expected"
	}
	return strings.Join(parts, "; ")
}

// RecordOutcome feeds one performance report into the bandit counters.
// Conversions are accepted for parity with the feedback payload but only
// clicks/impressions decide success.
func (s *ChannelService) RecordOutcome(
	ctx context.Context,
	ch domain.ChannelType,
	clicks, impressions, conversions int64,
) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context error: %w", err)
	}
	if _, ok := channelCharacteristics[ch]; !ok {
		return "", fmt.Errorf("unknown channel %q: %w", ch, domain.ErrInvalidInput)
	}
	if clicks < 0 || impressions < 0 || conversions < 0 {
		return "", fmt.Errorf("counters must be non-negative: %w", domain.ErrInvalidInput)
	}

	outcome, st := s.bandit.UpdateOutcome(ch, clicks, impressions)

	ctr := 0.0
	if impressions > 0 {
		ctr = float64(clicks) / float64(impressions)
	}

	logger.Info("channel_outcome_recorded",
		"trace_id", trace.TraceIDFromContext(ctx),
		"channel", ch,
		"ctr", ctr,
		"outcome", outcome,
		"successes", st.SuccessCount,
		"failures", st.FailureCount,
	)

	ChannelOutcomesTotal.WithLabelValues(string(ch), string(outcome)).Inc()

	return outcome, nil
}

// Performance reports the learned counters for ch. Untracked channels get
// zero counts and the default confidence.
func (s *ChannelService) Performance(ch domain.ChannelType) domain.ChannelPerformance {
	st, ok := s.bandit.Stats(ch)
	if !ok || st.Attempts() == 0 {
		return domain.ChannelPerformance{
			Channel:    ch,
			Confidence: defaultUntrackedConfidence,
		}
	}

	rate := st.SuccessRate()
	return domain.ChannelPerformance{
		Channel:       ch,
		TotalAttempts: st.Attempts(),
		Successes:     st.SuccessCount,
		Failures:      st.FailureCount,
		SuccessRate:   rate,
		Confidence:    rate,
	}
}

// Insights summarizes every channel that has recorded outcomes.
func (s *ChannelService) Insights() domain.ChannelInsights {
	snapshot := s.bandit.Snapshot()

	out := domain.ChannelInsights{
		TotalChannels:      len(snapshot),
		ChannelPerformance: make(map[domain.ChannelType]domain.ChannelInsight, len(snapshot)),
	}

	var top *domain.ChannelPerformance
	for _, st := range snapshot {
		rate := st.SuccessRate()
		status := "needs_improvement"
		if rate > performingWellRate {
			status = "performing_well"
		}
		out.ChannelPerformance[st.Channel] = domain.ChannelInsight{
			SuccessRate:   rate,
			TotalAttempts: st.Attempts(),
			Status:        status,
		}

		if top == nil || rate > top.SuccessRate {
			p := s.Performance(st.Channel)
			top = &p
		}
	}
	out.TopChannel = top

	return out
}

// BestChannelForSegment ranks channels for a bare segment and goal with no
// brand or product context.
func (s *ChannelService) BestChannelForSegment(ctx context.Context, segment string, goal domain.CampaignGoal) (domain.ChannelRecommendation, error) {
	set, err := s.Recommend(ctx, domain.Brand{}, domain.Product{}, domain.AudienceAnalysis{Segment: segment}, goal, 0)
	if err != nil {
		return domain.ChannelRecommendation{}, err
	}
	if len(set.Recommendations) == 0 {
		return domain.ChannelRecommendation{}, fmt.Errorf("no channels configured: %w", domain.ErrNotFound)
	}
	return set.Recommendations[0], nil
}

// StatsSnapshot exposes the bandit counters for reporting.
func (s *ChannelService) StatsSnapshot() []domain.ChannelStats {
	return s.bandit.Snapshot()
}

// SeedStats sets the counters for ch directly.
func (s *ChannelService) SeedStats(ch domain.ChannelType, successes, failures int) {
	s.bandit.Seed(ch, successes, failures)
}

// Reset clears all learned state.
func (s *ChannelService) Reset() {
	s.bandit.Reset()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
