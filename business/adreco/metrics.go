package adreco

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	AdsTrackedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ads_tracked_total",
			Help: "Count of ad performance tracking calls by channel and audience segment.",
		},
		[]string{"channel", "segment"},
	)

	AdPerformanceScore = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ad_performance_score",
			Help:    "Distribution of computed ad performance scores by channel.",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
		[]string{"channel"},
	)
)

func init() {
	prometheus.MustRegister(AdsTrackedTotal, AdPerformanceScore)
}
