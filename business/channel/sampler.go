package channel

import (
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler draws CTR estimates from a Beta posterior. Implementations are
// called with the bandit lock held and need not be goroutine safe.
type Sampler interface {
	Beta(alpha, beta float64) float64
}

// BetaSampler samples with gonum's Beta distribution over an owned source.
type BetaSampler struct {
	src rand.Source
}

// NewBetaSampler seeds from the clock; use NewSeededSampler for reproducible draws.
func NewBetaSampler() *BetaSampler {
	now := uint64(time.Now().UnixNano())
	return &BetaSampler{src: rand.NewPCG(now, now>>1|1)}
}

func NewSeededSampler(seed uint64) *BetaSampler {
	return &BetaSampler{src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
}

func (s *BetaSampler) Beta(alpha, beta float64) float64 {
	d := distuv.Beta{Alpha: alpha, Beta: beta, Src: s.src}
	return d.Rand()
}

// MeanSampler returns the posterior mean instead of a draw. It removes
// exploration and is meant for deterministic reporting and tests.
type MeanSampler struct{}

func (MeanSampler) Beta(alpha, beta float64) float64 {
	return alpha / (alpha + beta)
}
