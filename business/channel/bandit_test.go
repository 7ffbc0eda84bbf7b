package channel

import (
	"testing"

	"adPilot/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSampler struct {
	value       float64
	alpha, beta float64
}

func (f *fixedSampler) Beta(alpha, beta float64) float64 {
	f.alpha, f.beta = alpha, beta
	return f.value
}

func TestBanditLayer_AdjustWithoutStatsReturnsBase(t *testing.T) {
	b := NewBanditLayer(DefaultConfig(), &fixedSampler{value: 0.9})

	ctr, cpc, adjusted := b.Adjust(domain.ChannelTikTok, 0.025, 4.8)
	assert.False(t, adjusted)
	assert.Equal(t, 0.025, ctr)
	assert.Equal(t, 4.8, cpc)
}

func TestBanditLayer_UpdateOutcomeBelowThresholdIsFailure(t *testing.T) {
	b := NewBanditLayer(DefaultConfig(), nil)
	b.Seed(domain.ChannelFacebook, 8, 2)

	outcome, st := b.UpdateOutcome(domain.ChannelFacebook, 5, 1000)
	assert.Equal(t, OutcomeFailure, outcome)
	assert.Equal(t, 8, st.SuccessCount)
	assert.Equal(t, 3, st.FailureCount)
}

func TestBanditLayer_UpdateOutcomeAtThresholdIsSuccess(t *testing.T) {
	b := NewBanditLayer(DefaultConfig(), nil)

	outcome, st := b.UpdateOutcome(domain.ChannelFacebook, 10, 1000)
	assert.Equal(t, OutcomeSuccess, outcome)
	assert.Equal(t, 1, st.SuccessCount)
	assert.Equal(t, 0, st.FailureCount)
}

func TestBanditLayer_ZeroImpressionsIsFailure(t *testing.T) {
	b := NewBanditLayer(DefaultConfig(), nil)

	outcome, _ := b.UpdateOutcome(domain.ChannelTwitter, 3, 0)
	assert.Equal(t, OutcomeFailure, outcome)
}

func TestBanditLayer_AdjustUsesPosterior(t *testing.T) {
	s := &fixedSampler{value: 0.042}
	b := NewBanditLayer(DefaultConfig(), s)
	b.Seed(domain.ChannelInstagram, 8, 2)

	ctr, cpc, adjusted := b.Adjust(domain.ChannelInstagram, 0.015, 3.2)
	require.True(t, adjusted)
	assert.Equal(t, 0.042, ctr)
	assert.InDelta(t, 9.0, s.alpha, 1e-12)
	assert.InDelta(t, 3.0, s.beta, 1e-12)
	assert.InDelta(t, 3.2*(2-0.8), cpc, 1e-12)
}

func TestBanditLayer_BetaDrawsStayInUnitInterval(t *testing.T) {
	b := NewBanditLayer(DefaultConfig(), NewSeededSampler(7))
	b.Seed(domain.ChannelLinkedIn, 3, 12)

	for i := 0; i < 500; i++ {
		ctr, _, _ := b.Adjust(domain.ChannelLinkedIn, 0.02, 5.5)
		assert.GreaterOrEqual(t, ctr, 0.0)
		assert.LessOrEqual(t, ctr, 1.0)
	}
}

func TestBanditLayer_SnapshotIsCopy(t *testing.T) {
	b := NewBanditLayer(DefaultConfig(), nil)
	b.UpdateOutcome(domain.ChannelTikTok, 50, 1000)
	b.UpdateOutcome(domain.ChannelFacebook, 1, 1000)

	snap := b.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, domain.ChannelFacebook, snap[0].Channel)
	assert.Equal(t, domain.ChannelTikTok, snap[1].Channel)

	snap[1].SuccessCount = 100
	st, ok := b.Stats(domain.ChannelTikTok)
	require.True(t, ok)
	assert.Equal(t, 1, st.SuccessCount)

	b.Reset()
	assert.Empty(t, b.Snapshot())
}
