package domain

// ChannelStats holds the bandit success/failure counters for one channel.
type ChannelStats struct {
	Channel      ChannelType `json:"channel"`
	SuccessCount int         `json:"success_count"`
	FailureCount int         `json:"failure_count"`
}

func (s ChannelStats) Attempts() int {
	return s.SuccessCount + s.FailureCount
}

func (s ChannelStats) SuccessRate() float64 {
	n := s.Attempts()
	if n == 0 {
		return 0
	}
	return float64(s.SuccessCount) / float64(n)
}

type ChannelRecommendation struct {
	Channel         ChannelType `json:"channel"`
	ConfidenceScore float64     `json:"confidence_score"`
	EstimatedCTR    float64     `json:"estimated_ctr"`
	EstimatedCPC    float64     `json:"estimated_cpc"`
	Reasoning       string      `json:"reasoning"`
}

type ChannelRecommendationSet struct {
	Recommendations []ChannelRecommendation `json:"recommendations"`
	BestChannel     ChannelType             `json:"best_channel"`
	TotalConfidence float64                 `json:"total_confidence"`
}

type ChannelPerformance struct {
	Channel       ChannelType `json:"channel"`
	TotalAttempts int         `json:"total_attempts"`
	Successes     int         `json:"successes"`
	Failures      int         `json:"failures"`
	SuccessRate   float64     `json:"success_rate"`
	Confidence    float64     `json:"confidence"`
}

type ChannelInsight struct {
	SuccessRate   float64 `json:"success_rate"`
	TotalAttempts int     `json:"total_attempts"`
	Status        string  `json:"status"`
}

type ChannelInsights struct {
	TotalChannels      int                            `json:"total_channels"`
	ChannelPerformance map[ChannelType]ChannelInsight `json:"channel_performance"`
	TopChannel         *ChannelPerformance            `json:"top_performing_channel,omitempty"`
}
