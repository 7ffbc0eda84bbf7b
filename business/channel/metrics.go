package channel

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ChannelOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "channel_outcomes_total",
			Help: "Count of recorded channel outcomes by channel and result.",
		},
		[]string{"channel", "result"},
	)

	ChannelRecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "channel_recommendations_total",
			Help: "Count of channel recommendation sets served by best channel and goal.",
		},
		[]string{"best_channel", "goal"},
	)
)

func init() {
	prometheus.MustRegister(ChannelOutcomesTotal, ChannelRecommendationsTotal)
}
