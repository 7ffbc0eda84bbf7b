package feedback

import (
	"github.com/prometheus/client_golang/prometheus"
)

var FeedbackEventsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "feedback_events_total",
		Help: "Count of accepted feedback events by channel.",
	},
	[]string{"channel"},
)

func init() {
	prometheus.MustRegister(FeedbackEventsTotal)
}
