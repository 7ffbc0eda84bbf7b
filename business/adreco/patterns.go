package adreco

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"adPilot/domain"
)

// Patterns mines the top leaderboard entries of segment for recurring
// headline words, CTAs and channels.
func (e *Engine) Patterns(segment string) domain.SuccessfulPatterns {
	out := domain.SuccessfulPatterns{
		Patterns: domain.CreativePatterns{
			HeadlinePatterns:   []string{},
			CTAPatterns:        []string{},
			ChannelPreferences: []string{},
		},
		Insights: []string{},
		TopAds:   []domain.LeaderboardEntry{},
	}

	e.mu.RLock()
	board := e.leaderboards[segment]
	if len(board) == 0 {
		e.mu.RUnlock()
		return out
	}
	n := min(len(board), e.cfg.PatternTopN)
	top := make([]domain.LeaderboardEntry, n)
	copy(top, board[:n])

	for _, entry := range top {
		rec, ok := e.records[entry.AdID]
		if !ok {
			continue
		}
		if h, ok := stringAttr(rec.Attributes, "headline"); ok {
			out.Patterns.HeadlinePatterns = append(out.Patterns.HeadlinePatterns, h)
		}
		if c, ok := stringAttr(rec.Attributes, "cta"); ok {
			out.Patterns.CTAPatterns = append(out.Patterns.CTAPatterns, c)
		}
		out.Patterns.ChannelPreferences = append(out.Patterns.ChannelPreferences, rec.Channel)
	}
	e.mu.RUnlock()

	out.TopAds = top

	if len(out.Patterns.HeadlinePatterns) > 0 {
		out.CommonWords = commonWords(out.Patterns.HeadlinePatterns, commonWordCount)
		out.Insights = append(out.Insights,
			fmt.Sprintf("Successful headlines often contain: %s", strings.Join(out.CommonWords, ", ")))
	}

	if len(out.Patterns.CTAPatterns) > 0 {
		out.Insights = append(out.Insights,
			fmt.Sprintf("Top CTAs: %s", strings.Join(distinct(out.Patterns.CTAPatterns), ", ")))
	}

	if len(out.Patterns.ChannelPreferences) > 0 {
		ch, count := mostFrequent(out.Patterns.ChannelPreferences)
		out.DominantChannel = ch
		out.Insights = append(out.Insights,
			fmt.Sprintf("Best performing channel: %s (%d successful ads)", ch, count))
	}

	ctrs := make([]float64, len(top))
	convs := make([]float64, len(top))
	for i, entry := range top {
		ctrs[i] = entry.CTR
		convs[i] = entry.ConversionRate
	}
	out.AvgCTR = stat.Mean(ctrs, nil)
	out.AvgConversionRate = stat.Mean(convs, nil)

	out.Insights = append(out.Insights,
		fmt.Sprintf("Average CTR for successful ads: %.3f", out.AvgCTR),
		fmt.Sprintf("Average conversion rate: %.3f", out.AvgConversionRate),
	)

	return out
}

func stringAttr(attrs map[string]any, key string) (string, bool) {
	v, ok := attrs[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// commonWords ranks lowercased words by frequency; ties keep first appearance.
func commonWords(texts []string, limit int) []string {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, t := range texts {
		for _, w := range strings.Fields(strings.ToLower(t)) {
			if counts[w] == 0 {
				order = append(order, w)
			}
			counts[w]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}
	return order
}

func distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// mostFrequent returns the most common value; ties keep first appearance.
func mostFrequent(values []string) (string, int) {
	counts := make(map[string]int, len(values))
	best, bestCount := "", 0
	for _, v := range values {
		counts[v]++
	}
	for _, v := range values {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best, bestCount
}
