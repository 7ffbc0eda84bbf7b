package adreco

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"adPilot/domain"
	"adPilot/pkg/logger"
	"adPilot/pkg/trace"
)

// TrackInput is one performance report for an ad.
type TrackInput struct {
	AdID            string
	Channel         string
	AudienceSegment string
	Impressions     int64
	Clicks          int64
	Conversions     int64
	Revenue         float64
	Attributes      map[string]any
}

// validate checks the input and returns the normalized channel.
func (in TrackInput) validate() (domain.ChannelType, error) {
	if strings.TrimSpace(in.AdID) == "" {
		return "", fmt.Errorf("ad id is required: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Channel) == "" {
		return "", fmt.Errorf("channel is required: %w", domain.ErrInvalidInput)
	}
	ch, err := domain.ParseChannel(in.Channel)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(in.AudienceSegment) == "" {
		return "", fmt.Errorf("audience segment is required: %w", domain.ErrInvalidInput)
	}
	if in.Impressions < 0 || in.Clicks < 0 || in.Conversions < 0 || in.Revenue < 0 {
		return "", fmt.Errorf("counters and revenue must be non-negative: %w", domain.ErrInvalidInput)
	}
	return ch, nil
}

type aggregateKey struct {
	channel string
	segment string
}

// Engine accumulates ad performance and answers recommendation queries
// over it. All state is in memory and guarded by one lock.
type Engine struct {
	mu sync.RWMutex

	cfg Config
	now func() time.Time

	records      map[string]*domain.AdPerformanceRecord
	aggregates   map[aggregateKey]*domain.ChannelSegmentAggregate
	leaderboards map[string][]domain.LeaderboardEntry
}

func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:          cfg.withDefaults(),
		now:          time.Now,
		records:      make(map[string]*domain.AdPerformanceRecord),
		aggregates:   make(map[aggregateKey]*domain.ChannelSegmentAggregate),
		leaderboards: make(map[string][]domain.LeaderboardEntry),
	}
}

// Track records one performance report. The ad's record follows the
// configured policy; the (channel, segment) aggregate always accumulates.
func (e *Engine) Track(ctx context.Context, in TrackInput) (domain.AdPerformanceRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.AdPerformanceRecord{}, fmt.Errorf("context error: %w", err)
	}
	ch, err := in.validate()
	if err != nil {
		return domain.AdPerformanceRecord{}, err
	}
	in.Channel = string(ch)

	e.mu.Lock()
	rec := e.upsertRecordLocked(in)
	e.addAggregateLocked(in)
	e.placeOnLeaderboardLocked(rec)
	out := copyRecord(rec)
	e.mu.Unlock()

	logger.Info("ad_performance_tracked",
		"trace_id", trace.TraceIDFromContext(ctx),
		"ad_id", out.AdID,
		"channel", out.Channel,
		"segment", out.AudienceSegment,
		"ctr", out.CTR,
		"conversion_rate", out.ConversionRate,
		"performance_score", out.PerformanceScore,
		"policy", e.cfg.Policy,
	)

	AdsTrackedTotal.WithLabelValues(out.Channel, out.AudienceSegment).Inc()
	AdPerformanceScore.WithLabelValues(out.Channel).Observe(out.PerformanceScore)

	return out, nil
}

func (e *Engine) upsertRecordLocked(in TrackInput) *domain.AdPerformanceRecord {
	impressions, clicks, conversions, revenue := in.Impressions, in.Clicks, in.Conversions, in.Revenue
	attrs := maps.Clone(in.Attributes)

	if prev, ok := e.records[in.AdID]; ok && e.cfg.Policy == TrackAccumulate {
		impressions += prev.Impressions
		clicks += prev.Clicks
		conversions += prev.Conversions
		revenue += prev.Revenue
		if attrs == nil {
			attrs = prev.Attributes
		}
	}
	if attrs == nil {
		attrs = map[string]any{}
	}

	ctr, conv, rpi := Rates(impressions, clicks, conversions, revenue)

	rec := &domain.AdPerformanceRecord{
		AdID:                 in.AdID,
		Channel:              in.Channel,
		AudienceSegment:      in.AudienceSegment,
		Impressions:          impressions,
		Clicks:               clicks,
		Conversions:          conversions,
		Revenue:              revenue,
		CTR:                  ctr,
		ConversionRate:       conv,
		RevenuePerImpression: rpi,
		PerformanceScore:     Score(ctr, conv, rpi),
		Attributes:           attrs,
		LastUpdated:          e.now(),
	}
	e.records[in.AdID] = rec
	return rec
}

func (e *Engine) addAggregateLocked(in TrackInput) {
	key := aggregateKey{channel: in.Channel, segment: in.AudienceSegment}
	agg, ok := e.aggregates[key]
	if !ok {
		agg = &domain.ChannelSegmentAggregate{Channel: in.Channel, AudienceSegment: in.AudienceSegment}
		e.aggregates[key] = agg
	}

	agg.TotalImpressions += in.Impressions
	agg.TotalClicks += in.Clicks
	agg.TotalConversions += in.Conversions
	agg.TotalRevenue += in.Revenue
	agg.AdCount++

	agg.AvgCTR, agg.AvgConversionRate, agg.AvgRevenuePerImpression =
		Rates(agg.TotalImpressions, agg.TotalClicks, agg.TotalConversions, agg.TotalRevenue)
}

// placeOnLeaderboardLocked keys entries by ad id so re-tracking replaces the old entry.
func (e *Engine) placeOnLeaderboardLocked(rec *domain.AdPerformanceRecord) {
	board := e.leaderboards[rec.AudienceSegment]

	// a re-tracked ad may have moved segment
	for seg, b := range e.leaderboards {
		if seg != rec.AudienceSegment {
			e.leaderboards[seg] = removeEntry(b, rec.AdID)
		}
	}
	board = removeEntry(board, rec.AdID)

	board = append(board, domain.LeaderboardEntry{
		AdID:                 rec.AdID,
		PerformanceScore:     rec.PerformanceScore,
		CTR:                  rec.CTR,
		ConversionRate:       rec.ConversionRate,
		RevenuePerImpression: rec.RevenuePerImpression,
	})
	sort.SliceStable(board, func(i, j int) bool {
		return board[i].PerformanceScore > board[j].PerformanceScore
	})
	if len(board) > e.cfg.LeaderboardSize {
		board = board[:e.cfg.LeaderboardSize]
	}
	e.leaderboards[rec.AudienceSegment] = board
}

func removeEntry(board []domain.LeaderboardEntry, adID string) []domain.LeaderboardEntry {
	out := board[:0]
	for _, entry := range board {
		if entry.AdID != adID {
			out = append(out, entry)
		}
	}
	return out
}

// Recommend returns the best ads for segment whose latest channel is channel.
func (e *Engine) Recommend(segment, channel string, limit int) []domain.AdRecommendation {
	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]domain.AdRecommendation, 0, limit)
	for _, entry := range e.leaderboards[segment] {
		rec, ok := e.records[entry.AdID]
		if !ok || rec.Channel != channel {
			continue
		}
		out = append(out, domain.AdRecommendation{
			LeaderboardEntry: entry,
			Reasoning:        fmt.Sprintf("High performing ad for %s on %s", segment, channel),
			Attributes:       maps.Clone(rec.Attributes),
		})
		if len(out) == limit {
			break
		}
	}
	return out
}

// ChannelRecommendations ranks channels that have history for segment.
func (e *Engine) ChannelRecommendations(segment string) []domain.ChannelScore {
	e.mu.RLock()
	out := make([]domain.ChannelScore, 0)
	for key, agg := range e.aggregates {
		if key.segment != segment {
			continue
		}
		out = append(out, domain.ChannelScore{
			Channel: agg.Channel,
			Score: ctrWeight*agg.AvgCTR +
				conversionWeight*agg.AvgConversionRate +
				revenueWeight*agg.AvgRevenuePerImpression,
			AvgCTR:                  agg.AvgCTR,
			AvgConversionRate:       agg.AvgConversionRate,
			AvgRevenuePerImpression: agg.AvgRevenuePerImpression,
			AdCount:                 agg.AdCount,
			TotalImpressions:        agg.TotalImpressions,
		})
	}
	e.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Channel < out[j].Channel
	})
	return out
}

// Record returns the latest record for adID.
func (e *Engine) Record(adID string) (domain.AdPerformanceRecord, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rec, ok := e.records[adID]
	if !ok {
		return domain.AdPerformanceRecord{}, fmt.Errorf("ad %q: %w", adID, domain.ErrNotFound)
	}
	return copyRecord(rec), nil
}

// Aggregate returns the accumulated totals for (channel, segment).
func (e *Engine) Aggregate(channel, segment string) (domain.ChannelSegmentAggregate, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	agg, ok := e.aggregates[aggregateKey{channel: channel, segment: segment}]
	if !ok {
		return domain.ChannelSegmentAggregate{Channel: channel, AudienceSegment: segment}, false
	}
	return *agg, true
}

// Leaderboard returns a copy of the ranked entries for segment.
func (e *Engine) Leaderboard(segment string) []domain.LeaderboardEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()

	board := e.leaderboards[segment]
	out := make([]domain.LeaderboardEntry, len(board))
	copy(out, board)
	return out
}

func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.records = make(map[string]*domain.AdPerformanceRecord)
	e.aggregates = make(map[aggregateKey]*domain.ChannelSegmentAggregate)
	e.leaderboards = make(map[string][]domain.LeaderboardEntry)
}

func copyRecord(rec *domain.AdPerformanceRecord) domain.AdPerformanceRecord {
	out := *rec
	out.Attributes = maps.Clone(rec.Attributes)
	return out
}
