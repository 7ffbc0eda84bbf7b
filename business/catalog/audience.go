package catalog

import (
	"adPilot/domain"
)

const (
	defaultSegment  = "general"
	defaultDevice   = "desktop"
	defaultCategory = "general"

	highEngagementClicks   = 5.0
	mediumEngagementClicks = 2.0
	highIntentPurchases    = 1.0
)

// AnalyzeAudience turns raw audience rows into a segment summary.
func AnalyzeAudience(records []domain.AudienceRecord) domain.AudienceAnalysis {
	if len(records) == 0 {
		return domain.AudienceAnalysis{Segment: defaultSegment}
	}

	var clicks, purchases int
	devices := make([]string, 0, len(records))
	categories := make([]string, 0, len(records))
	segments := make([]string, 0, len(records))

	for _, r := range records {
		clicks += r.ClicksLast30d
		purchases += r.PurchasesLast90d
		devices = append(devices, orDefault(r.Device, defaultDevice))
		categories = append(categories, orDefault(r.FavoriteCategory, defaultCategory))
		segments = append(segments, orDefault(r.Segment, defaultSegment))
	}

	n := float64(len(records))
	avgClicks := float64(clicks) / n
	avgPurchases := float64(purchases) / n

	return domain.AudienceAnalysis{
		Segment: mode(segments),
		Characteristics: domain.AudienceCharacteristics{
			TotalUsers:          len(records),
			AvgClicksPerUser:    avgClicks,
			AvgPurchasesPerUser: avgPurchases,
			EngagementLevel:     engagementLevel(avgClicks),
			PurchaseIntent:      purchaseIntent(avgPurchases),
			PrimaryDevice:       mode(devices),
			PrimaryCategory:     mode(categories),
		},
	}
}

func engagementLevel(avgClicks float64) string {
	switch {
	case avgClicks > highEngagementClicks:
		return "high"
	case avgClicks > mediumEngagementClicks:
		return "medium"
	default:
		return "low"
	}
}

func purchaseIntent(avgPurchases float64) string {
	switch {
	case avgPurchases > highIntentPurchases:
		return "high"
	case avgPurchases > 0:
		return "medium"
	default:
		return "low"
	}
}

// mode returns the most frequent value; ties keep first appearance.
func mode(values []string) string {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	best, bestCount := "", 0
	for _, v := range values {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
