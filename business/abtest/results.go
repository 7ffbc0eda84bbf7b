package abtest

import (
	"math"

	"adPilot/domain"
)

const (
	confidenceLow    = "low"
	confidenceMedium = "medium"
	confidenceHigh   = "high"
)

func computeResults(t *domain.ABTest, cfg Config) domain.TestResults {
	control := armResult(t.Metrics[domain.ArmControl])
	variant := armResult(t.Metrics[domain.ArmVariant])

	winner := domain.ArmControl
	if variant.CTR > control.CTR {
		winner = domain.ArmVariant
	}

	return domain.TestResults{
		TestID:   t.TestID,
		TestName: t.TestName,
		TestType: t.TestType,
		Status:   t.Status,
		Control:  control,
		Variant:  variant,
		Improvements: domain.Improvements{
			CTRPercent:        lift(control.CTR, variant.CTR),
			ConversionPercent: lift(control.ConversionRate, variant.ConversionRate),
			RevenuePercent:    lift(control.RevenuePerImpression, variant.RevenuePerImpression),
		},
		Winner:          winner,
		ConfidenceLevel: confidenceLevel(control, variant, cfg),
	}
}

func armResult(m domain.ArmMetrics) domain.ArmResult {
	r := domain.ArmResult{ArmMetrics: m}
	if m.Impressions > 0 {
		r.CTR = float64(m.Clicks) / float64(m.Impressions)
		r.RevenuePerImpression = m.Revenue / float64(m.Impressions)
	}
	if m.Clicks > 0 {
		r.ConversionRate = float64(m.Conversions) / float64(m.Clicks)
	}
	return r
}

// lift is the percent change of variant over control; 0 without a control baseline.
func lift(control, variant float64) float64 {
	if control <= 0 {
		return 0
	}
	return (variant - control) / control * 100
}

func confidenceLevel(control, variant domain.ArmResult, cfg Config) string {
	total := control.Impressions + variant.Impressions
	switch {
	case total < cfg.LowSampleImpressions:
		return confidenceLow
	case total < cfg.MediumSampleImpressions:
		return confidenceMedium
	}

	gap := math.Abs(variant.CTR - control.CTR)
	switch {
	case gap > cfg.HighCTRGap:
		return confidenceHigh
	case gap > cfg.MediumCTRGap:
		return confidenceMedium
	default:
		return confidenceLow
	}
}
