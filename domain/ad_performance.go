package domain

import "time"

// AdPerformanceRecord is the latest tracked performance for one ad.
type AdPerformanceRecord struct {
	AdID                 string         `json:"ad_id"`
	Channel              string         `json:"channel"`
	AudienceSegment      string         `json:"audience_segment"`
	Impressions          int64          `json:"impressions"`
	Clicks               int64          `json:"clicks"`
	Conversions          int64          `json:"conversions"`
	Revenue              float64        `json:"revenue"`
	CTR                  float64        `json:"ctr"`
	ConversionRate       float64        `json:"conversion_rate"`
	RevenuePerImpression float64        `json:"revenue_per_impression"`
	PerformanceScore     float64        `json:"performance_score"`
	Attributes           map[string]any `json:"ad_attributes"`
	LastUpdated          time.Time      `json:"last_updated"`
}

// ChannelSegmentAggregate accumulates every tracking call for one (channel, segment) pair.
type ChannelSegmentAggregate struct {
	Channel                 string  `json:"channel"`
	AudienceSegment         string  `json:"audience_segment"`
	TotalImpressions        int64   `json:"total_impressions"`
	TotalClicks             int64   `json:"total_clicks"`
	TotalConversions        int64   `json:"total_conversions"`
	TotalRevenue            float64 `json:"total_revenue"`
	AdCount                 int     `json:"ad_count"`
	AvgCTR                  float64 `json:"avg_ctr"`
	AvgConversionRate       float64 `json:"avg_conversion_rate"`
	AvgRevenuePerImpression float64 `json:"avg_revenue_per_impression"`
}

type LeaderboardEntry struct {
	AdID                 string  `json:"ad_id"`
	PerformanceScore     float64 `json:"performance_score"`
	CTR                  float64 `json:"ctr"`
	ConversionRate       float64 `json:"conversion_rate"`
	RevenuePerImpression float64 `json:"revenue_per_impression"`
}

type AdRecommendation struct {
	LeaderboardEntry
	Reasoning  string         `json:"reasoning"`
	Attributes map[string]any `json:"ad_attributes"`
}

type ChannelScore struct {
	Channel                 string  `json:"channel"`
	Score                   float64 `json:"score"`
	AvgCTR                  float64 `json:"avg_ctr"`
	AvgConversionRate       float64 `json:"avg_conversion_rate"`
	AvgRevenuePerImpression float64 `json:"avg_revenue_per_impression"`
	AdCount                 int     `json:"ad_count"`
	TotalImpressions        int64   `json:"total_impressions"`
}

type CreativePatterns struct {
	HeadlinePatterns   []string `json:"headline_patterns"`
	CTAPatterns        []string `json:"cta_patterns"`
	ChannelPreferences []string `json:"channel_preferences"`
}

type SuccessfulPatterns struct {
	Patterns          CreativePatterns   `json:"patterns"`
	Insights          []string           `json:"insights"`
	TopAds            []LeaderboardEntry `json:"top_ads"`
	CommonWords       []string           `json:"common_words,omitempty"`
	DominantChannel   string             `json:"dominant_channel,omitempty"`
	AvgCTR            float64            `json:"avg_ctr"`
	AvgConversionRate float64            `json:"avg_conversion_rate"`
}

type OverallMetrics struct {
	TotalImpressions      int64   `json:"total_impressions"`
	TotalClicks           int64   `json:"total_clicks"`
	TotalConversions      int64   `json:"total_conversions"`
	TotalRevenue          float64 `json:"total_revenue"`
	OverallCTR            float64 `json:"overall_ctr"`
	OverallConversionRate float64 `json:"overall_conversion_rate"`
}

type RankedAd struct {
	AdID             string  `json:"ad_id"`
	PerformanceScore float64 `json:"performance_score"`
	CTR              float64 `json:"ctr"`
	ConversionRate   float64 `json:"conversion_rate"`
	Channel          string  `json:"channel"`
	AudienceSegment  string  `json:"audience_segment"`
}

type ChannelRollup struct {
	Ads               int     `json:"ads"`
	AvgCTR            float64 `json:"avg_ctr"`
	AvgConversionRate float64 `json:"avg_conversion_rate"`
	AvgRevenue        float64 `json:"avg_revenue"`
	TotalRevenue      float64 `json:"total_revenue"`
}

type SegmentRollup struct {
	Ads                 int     `json:"ads"`
	AvgPerformanceScore float64 `json:"avg_performance_score"`
}

// PerformanceInsights is the global report. HasData is false when nothing was tracked.
type PerformanceInsights struct {
	HasData            bool                     `json:"has_data"`
	Message            string                   `json:"message,omitempty"`
	OverallMetrics     OverallMetrics           `json:"overall_metrics"`
	BestPerformingAds  []RankedAd               `json:"best_performing_ads"`
	ChannelPerformance map[string]ChannelRollup `json:"channel_performance"`
	SegmentPerformance map[string]SegmentRollup `json:"segment_performance"`
}

type Combination struct {
	Combination      string  `json:"combination"`
	PerformanceScore float64 `json:"performance_score"`
	CTR              float64 `json:"ctr"`
	ConversionRate   float64 `json:"conversion_rate"`
}

type TopChannel struct {
	Channel           string  `json:"channel"`
	AvgCTR            float64 `json:"avg_ctr"`
	AvgConversionRate float64 `json:"avg_conversion_rate"`
	AdsCount          int     `json:"ads_count"`
}

type TopSegment struct {
	Segment             string  `json:"segment"`
	AvgPerformanceScore float64 `json:"avg_performance_score"`
	AdsCount            int     `json:"ads_count"`
}

type WhatsWorkingSummary struct {
	HasData          bool          `json:"has_data"`
	Summary          string        `json:"summary"`
	BestCombinations []Combination `json:"best_combinations"`
	TopChannels      []TopChannel  `json:"top_channels"`
	TopSegments      []TopSegment  `json:"top_segments"`
	Recommendations  []string      `json:"recommendations"`
}
