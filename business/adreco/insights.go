package adreco

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"adPilot/domain"
)

const noDataMessage = "No performance data available"

// Insights aggregates every tracked ad into global totals, the best ads
// and per-channel and per-segment rollups.
func (e *Engine) Insights() domain.PerformanceInsights {
	e.mu.RLock()
	ads := make([]domain.AdPerformanceRecord, 0, len(e.records))
	for _, rec := range e.records {
		ads = append(ads, *rec)
	}
	e.mu.RUnlock()

	if len(ads) == 0 {
		return domain.PerformanceInsights{
			Message:            noDataMessage,
			BestPerformingAds:  []domain.RankedAd{},
			ChannelPerformance: map[string]domain.ChannelRollup{},
			SegmentPerformance: map[string]domain.SegmentRollup{},
		}
	}

	// map order is random; fix it before ranking
	sort.Slice(ads, func(i, j int) bool { return ads[i].AdID < ads[j].AdID })

	var overall domain.OverallMetrics
	for _, ad := range ads {
		overall.TotalImpressions += ad.Impressions
		overall.TotalClicks += ad.Clicks
		overall.TotalConversions += ad.Conversions
		overall.TotalRevenue += ad.Revenue
	}
	overall.OverallCTR, overall.OverallConversionRate, _ =
		Rates(overall.TotalImpressions, overall.TotalClicks, overall.TotalConversions, overall.TotalRevenue)

	ranked := make([]domain.AdPerformanceRecord, len(ads))
	copy(ranked, ads)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PerformanceScore > ranked[j].PerformanceScore
	})
	ranked = ranked[:min(len(ranked), bestAdsInInsights)]

	best := make([]domain.RankedAd, 0, len(ranked))
	for _, ad := range ranked {
		best = append(best, domain.RankedAd{
			AdID:             ad.AdID,
			PerformanceScore: ad.PerformanceScore,
			CTR:              ad.CTR,
			ConversionRate:   ad.ConversionRate,
			Channel:          ad.Channel,
			AudienceSegment:  ad.AudienceSegment,
		})
	}

	return domain.PerformanceInsights{
		HasData:            true,
		OverallMetrics:     overall,
		BestPerformingAds:  best,
		ChannelPerformance: channelRollups(ads),
		SegmentPerformance: segmentRollups(ads),
	}
}

func channelRollups(ads []domain.AdPerformanceRecord) map[string]domain.ChannelRollup {
	type series struct {
		ctr, conv, revenue []float64
	}
	byChannel := make(map[string]*series)
	for _, ad := range ads {
		s, ok := byChannel[ad.Channel]
		if !ok {
			s = &series{}
			byChannel[ad.Channel] = s
		}
		s.ctr = append(s.ctr, ad.CTR)
		s.conv = append(s.conv, ad.ConversionRate)
		s.revenue = append(s.revenue, ad.Revenue)
	}

	out := make(map[string]domain.ChannelRollup, len(byChannel))
	for ch, s := range byChannel {
		total := 0.0
		for _, r := range s.revenue {
			total += r
		}
		out[ch] = domain.ChannelRollup{
			Ads:               len(s.ctr),
			AvgCTR:            stat.Mean(s.ctr, nil),
			AvgConversionRate: stat.Mean(s.conv, nil),
			AvgRevenue:        stat.Mean(s.revenue, nil),
			TotalRevenue:      total,
		}
	}
	return out
}

func segmentRollups(ads []domain.AdPerformanceRecord) map[string]domain.SegmentRollup {
	scores := make(map[string][]float64)
	for _, ad := range ads {
		scores[ad.AudienceSegment] = append(scores[ad.AudienceSegment], ad.PerformanceScore)
	}

	out := make(map[string]domain.SegmentRollup, len(scores))
	for seg, s := range scores {
		out[seg] = domain.SegmentRollup{
			Ads:                 len(s),
			AvgPerformanceScore: stat.Mean(s, nil),
		}
	}
	return out
}

// WhatsWorking condenses Insights into best combinations, top channels,
// top segments and three action sentences.
func (e *Engine) WhatsWorking() domain.WhatsWorkingSummary {
	ins := e.Insights()
	if !ins.HasData {
		return domain.WhatsWorkingSummary{
			Summary:          noDataMessage,
			BestCombinations: []domain.Combination{},
			TopChannels:      []domain.TopChannel{},
			TopSegments:      []domain.TopSegment{},
			Recommendations:  []string{},
		}
	}

	e.mu.RLock()
	adCount := len(e.records)
	e.mu.RUnlock()

	combos := make([]domain.Combination, 0, len(ins.BestPerformingAds))
	for _, ad := range ins.BestPerformingAds {
		combos = append(combos, domain.Combination{
			Combination:      fmt.Sprintf("%s + %s", ad.AudienceSegment, ad.Channel),
			PerformanceScore: ad.PerformanceScore,
			CTR:              ad.CTR,
			ConversionRate:   ad.ConversionRate,
		})
	}

	channels := make([]domain.TopChannel, 0, len(ins.ChannelPerformance))
	for ch, r := range ins.ChannelPerformance {
		channels = append(channels, domain.TopChannel{
			Channel:           ch,
			AvgCTR:            r.AvgCTR,
			AvgConversionRate: r.AvgConversionRate,
			AdsCount:          r.Ads,
		})
	}
	sort.Slice(channels, func(i, j int) bool {
		if channels[i].AvgCTR != channels[j].AvgCTR {
			return channels[i].AvgCTR > channels[j].AvgCTR
		}
		return channels[i].Channel < channels[j].Channel
	})
	channels = channels[:min(len(channels), topRollups)]

	segments := make([]domain.TopSegment, 0, len(ins.SegmentPerformance))
	for seg, r := range ins.SegmentPerformance {
		segments = append(segments, domain.TopSegment{
			Segment:             seg,
			AvgPerformanceScore: r.AvgPerformanceScore,
			AdsCount:            r.Ads,
		})
	}
	sort.Slice(segments, func(i, j int) bool {
		if segments[i].AvgPerformanceScore != segments[j].AvgPerformanceScore {
			return segments[i].AvgPerformanceScore > segments[j].AvgPerformanceScore
		}
		return segments[i].Segment < segments[j].Segment
	})
	segments = segments[:min(len(segments), topRollups)]

	return domain.WhatsWorkingSummary{
		HasData:          true,
		Summary:          fmt.Sprintf("Analyzed %d ads across %d channels", adCount, len(ins.ChannelPerformance)),
		BestCombinations: combos,
		TopChannels:      channels,
		TopSegments:      segments,
		Recommendations: []string{
			fmt.Sprintf("Focus on %s - highest performing combination", combos[0].Combination),
			fmt.Sprintf("Use %s for best CTR (%.3f)", channels[0].Channel, channels[0].AvgCTR),
			fmt.Sprintf("Target %s segment - highest performance score", segments[0].Segment),
		},
	}
}
