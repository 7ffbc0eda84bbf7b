package abtest

type Config struct {
	// variants generated per test, control included
	NumVariants int

	// total impressions below which results are low confidence
	LowSampleImpressions int64
	// total impressions below which results are at most medium confidence
	MediumSampleImpressions int64

	// absolute ctr gaps for high/medium confidence once the sample is large
	HighCTRGap   float64
	MediumCTRGap float64
}

const (
	defaultNumVariants             = 4
	defaultLowSampleImpressions    = 100
	defaultMediumSampleImpressions = 1000
	defaultHighCTRGap              = 0.02
	defaultMediumCTRGap            = 0.01

	hashBuckets = 100
)

func DefaultConfig() Config {
	return Config{
		NumVariants:             defaultNumVariants,
		LowSampleImpressions:    defaultLowSampleImpressions,
		MediumSampleImpressions: defaultMediumSampleImpressions,
		HighCTRGap:              defaultHighCTRGap,
		MediumCTRGap:            defaultMediumCTRGap,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.NumVariants < 2 {
		c.NumVariants = d.NumVariants
	}
	if c.LowSampleImpressions <= 0 {
		c.LowSampleImpressions = d.LowSampleImpressions
	}
	if c.MediumSampleImpressions <= 0 {
		c.MediumSampleImpressions = d.MediumSampleImpressions
	}
	if c.HighCTRGap <= 0 {
		c.HighCTRGap = d.HighCTRGap
	}
	if c.MediumCTRGap <= 0 {
		c.MediumCTRGap = d.MediumCTRGap
	}
	return c
}
