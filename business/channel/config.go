package channel

type Config struct {
	// CTR at or above which a reported outcome counts as a success
	SuccessThreshold float64

	// Beta prior pseudo-counts
	PriorAlpha float64
	PriorBeta  float64

	// budget bounds for confidence scaling
	HighBudget float64
	LowBudget  float64
}

const (
	defaultSuccessThreshold = 0.01
	defaultPriorAlpha       = 1.0
	defaultPriorBeta        = 1.0
	defaultHighBudget       = 1000
	defaultLowBudget        = 100

	// confidence reported for channels with no recorded outcomes
	defaultUntrackedConfidence = 0.5
)

func DefaultConfig() Config {
	return Config{
		SuccessThreshold: defaultSuccessThreshold,
		PriorAlpha:       defaultPriorAlpha,
		PriorBeta:        defaultPriorBeta,
		HighBudget:       defaultHighBudget,
		LowBudget:        defaultLowBudget,
	}
}

// withDefaults fills zero fields so a partially populated Config is usable.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SuccessThreshold <= 0 {
		c.SuccessThreshold = d.SuccessThreshold
	}
	if c.PriorAlpha <= 0 {
		c.PriorAlpha = d.PriorAlpha
	}
	if c.PriorBeta <= 0 {
		c.PriorBeta = d.PriorBeta
	}
	if c.HighBudget <= 0 {
		c.HighBudget = d.HighBudget
	}
	if c.LowBudget <= 0 {
		c.LowBudget = d.LowBudget
	}
	return c
}
