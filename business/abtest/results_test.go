package abtest

import (
	"testing"

	"adPilot/domain"

	"github.com/stretchr/testify/assert"
)

func TestConfidenceLevel(t *testing.T) {
	cfg := DefaultConfig()

	arm := func(impressions, clicks int64) domain.ArmResult {
		return armResult(domain.ArmMetrics{Impressions: impressions, Clicks: clicks})
	}

	tests := []struct {
		name    string
		control domain.ArmResult
		variant domain.ArmResult
		want    string
	}{
		{name: "tiny sample", control: arm(40, 20), variant: arm(40, 0), want: "low"},
		{name: "mid sample", control: arm(400, 4), variant: arm(400, 4), want: "medium"},
		{name: "large sample big gap", control: arm(1000, 10), variant: arm(1000, 40), want: "high"},
		{name: "large sample medium gap", control: arm(1000, 10), variant: arm(1000, 25), want: "medium"},
		{name: "large sample small gap", control: arm(1000, 10), variant: arm(1000, 15), want: "low"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, confidenceLevel(tt.control, tt.variant, cfg))
		})
	}
}

func TestLift_NoControlBaseline(t *testing.T) {
	assert.Zero(t, lift(0, 0.5))
	assert.InDelta(t, 50.0, lift(0.02, 0.03), 1e-9)
}

func TestComputeResults_TieGoesToControl(t *testing.T) {
	test := &domain.ABTest{
		Metrics: map[domain.TestArm]domain.ArmMetrics{
			domain.ArmControl: {Impressions: 100, Clicks: 5},
			domain.ArmVariant: {Impressions: 100, Clicks: 5},
		},
	}
	res := computeResults(test, DefaultConfig())
	assert.Equal(t, domain.ArmControl, res.Winner)
}
