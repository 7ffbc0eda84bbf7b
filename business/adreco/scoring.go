package adreco

const (
	ctrScale        = 100.0 // 1% ctr saturates
	conversionScale = 10.0  // 10% conversion rate saturates
	revenueScale    = 10.0  // $10 per impression saturates

	ctrWeight        = 0.4
	conversionWeight = 0.4
	revenueWeight    = 0.2
)

// Score maps derived rates to a performance score in [0, 1].
// Callers pass 0 for any rate whose denominator was 0.
func Score(ctr, conversionRate, revenuePerImpression float64) float64 {
	ctrScore := saturate(ctr * ctrScale)
	conversionScore := saturate(conversionRate * conversionScale)
	revenueScore := saturate(revenuePerImpression / revenueScale)

	return ctrWeight*ctrScore + conversionWeight*conversionScore + revenueWeight*revenueScore
}

// Rates derives ctr, conversion rate and revenue per impression, guarding zero denominators.
func Rates(impressions, clicks, conversions int64, revenue float64) (ctr, conversionRate, revenuePerImpression float64) {
	if impressions > 0 {
		ctr = float64(clicks) / float64(impressions)
		revenuePerImpression = revenue / float64(impressions)
	}
	if clicks > 0 {
		conversionRate = float64(conversions) / float64(clicks)
	}
	return ctr, conversionRate, revenuePerImpression
}

func saturate(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
