package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the recommend HTTP handlers, by kind (channel, ads)
	RecommendLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "adpilot_recommend_latency_seconds",
		Help:    "Latency of recommendation handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// Total number of HTTP requests served, by route and status code
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "adpilot_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"route", "code"})
)

func Init() {
	prometheus.MustRegister(
		RecommendLatency,
		HTTPRequests,
	)
}
