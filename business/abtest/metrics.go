package abtest

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ABTestsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ab_tests_created_total",
			Help: "Count of A/B tests created by test type.",
		},
		[]string{"test_type"},
	)

	ABTestEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ab_test_events_total",
			Help: "Count of recorded A/B test events by event type and arm.",
		},
		[]string{"event", "arm"},
	)
)

func init() {
	prometheus.MustRegister(ABTestsCreatedTotal, ABTestEventsTotal)
}
