package energy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimate(t *testing.T) {
	est := NewEstimator(DefaultConfig())

	r := est.Estimate("gpt-4", false)
	assert.InDelta(t, 0.003, r.EnergyKWh, 1e-12)
	assert.InDelta(t, 0.003*0.475, r.CO2Kg, 1e-12)

	cached := est.Estimate("gpt-4", true)
	assert.InDelta(t, 0.0015, cached.EnergyKWh, 1e-12)

	unknown := est.Estimate("llama", false)
	assert.InDelta(t, 0.0006, unknown.EnergyKWh, 1e-12)
}

func TestMemoryCounter(t *testing.T) {
	c := NewMemoryCounter(NewEstimator(DefaultConfig()))
	ctx := context.Background()

	_, err := c.Track(ctx, DefaultModel, false)
	require.NoError(t, err)
	_, err = c.Track(ctx, DefaultModel, false)
	require.NoError(t, err)
	_, err = c.Track(ctx, DefaultModel, true)
	require.NoError(t, err)

	totals, err := c.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), totals.GenerationCount)
	assert.Equal(t, int64(1), totals.CacheHits)
	assert.InDelta(t, 0.0006*2+0.0003, totals.TotalEnergyKWh, 1e-12)
	assert.InDelta(t, 0.475, totals.CarbonIntensity, 1e-9)
	assert.InDelta(t, 0.0015/2, totals.AvgEnergyPerGenerated, 1e-12)
}

func TestTotals_Empty(t *testing.T) {
	totals := Totals(0, 0, 0, 0)
	assert.Zero(t, totals.AvgEnergyPerGenerated)
	assert.Zero(t, totals.CarbonIntensity)
}
