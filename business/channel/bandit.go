package channel

import (
	"sort"
	"sync"

	"adPilot/domain"
)

// Outcome is the classification of one reported channel result.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// BanditLayer keeps per-channel success/failure counts and turns them into
// Beta-sampled CTR estimates.
type BanditLayer struct {
	mu      sync.Mutex
	cfg     Config
	sampler Sampler
	stats   map[domain.ChannelType]*domain.ChannelStats
}

func NewBanditLayer(cfg Config, sampler Sampler) *BanditLayer {
	if sampler == nil {
		sampler = NewBetaSampler()
	}
	return &BanditLayer{
		cfg:     cfg.withDefaults(),
		sampler: sampler,
		stats:   make(map[domain.ChannelType]*domain.ChannelStats),
	}
}

// UpdateOutcome classifies clicks/impressions against the success threshold
// and bumps the matching counter. impressions == 0 counts as ctr 0.
func (b *BanditLayer) UpdateOutcome(ch domain.ChannelType, clicks, impressions int64) (Outcome, domain.ChannelStats) {
	ctr := 0.0
	if impressions > 0 {
		ctr = float64(clicks) / float64(impressions)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.stats[ch]
	if !ok {
		st = &domain.ChannelStats{Channel: ch}
		b.stats[ch] = st
	}

	outcome := OutcomeFailure
	if ctr >= b.cfg.SuccessThreshold {
		outcome = OutcomeSuccess
		st.SuccessCount++
	} else {
		st.FailureCount++
	}

	return outcome, *st
}

// Adjust replaces the static estimate with a posterior draw once the channel
// has history. Draws are stochastic by design; equal state may give different ctr.
func (b *BanditLayer) Adjust(ch domain.ChannelType, baseCTR, baseCPC float64) (float64, float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.stats[ch]
	if !ok || st.Attempts() == 0 {
		return baseCTR, baseCPC, false
	}

	alpha := b.cfg.PriorAlpha + float64(st.SuccessCount)
	beta := b.cfg.PriorBeta + float64(st.FailureCount)

	ctr := b.sampler.Beta(alpha, beta)
	cpc := baseCPC * (2 - st.SuccessRate())

	return ctr, cpc, true
}

// Stats returns a copy of the counters for ch.
func (b *BanditLayer) Stats(ch domain.ChannelType) (domain.ChannelStats, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.stats[ch]
	if !ok {
		return domain.ChannelStats{Channel: ch}, false
	}
	return *st, true
}

// Seed overwrites the counters for ch.
func (b *BanditLayer) Seed(ch domain.ChannelType, successes, failures int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stats[ch] = &domain.ChannelStats{
		Channel:      ch,
		SuccessCount: successes,
		FailureCount: failures,
	}
}

// Snapshot copies every tracked channel's counters, ordered by channel name.
func (b *BanditLayer) Snapshot() []domain.ChannelStats {
	b.mu.Lock()
	out := make([]domain.ChannelStats, 0, len(b.stats))
	for _, st := range b.stats {
		out = append(out, *st)
	}
	b.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Channel < out[j].Channel
	})
	return out
}

// Reset drops all learned counters.
func (b *BanditLayer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stats = make(map[domain.ChannelType]*domain.ChannelStats)
}
