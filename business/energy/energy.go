package energy

import (
	"context"
	"sync"

	"adPilot/domain"
)

// DefaultModel is the model charged for recommendation and learning calls.
const DefaultModel = "gpt-4o-mini"

type Config struct {
	// kWh per call before efficiency factors, keyed by model
	BaseEnergy map[string]float64

	// applied to every call for using smaller models
	ModelEfficiency float64
	// applied on cache hits
	CacheFactor float64
	// kg CO2 per kWh
	CarbonIntensity float64
}

const (
	defaultModelEfficiency = 0.6
	defaultCacheFactor     = 0.5
	defaultCarbonIntensity = 0.475
	defaultBaseEnergy      = 0.001
)

func DefaultConfig() Config {
	return Config{
		BaseEnergy: map[string]float64{
			"gpt-4o-mini":      0.001,
			"gpt-4":            0.005,
			"dall-e":           0.002,
			"stable-diffusion": 0.0015,
		},
		ModelEfficiency: defaultModelEfficiency,
		CacheFactor:     defaultCacheFactor,
		CarbonIntensity: defaultCarbonIntensity,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if len(c.BaseEnergy) == 0 {
		c.BaseEnergy = d.BaseEnergy
	}
	if c.ModelEfficiency <= 0 {
		c.ModelEfficiency = d.ModelEfficiency
	}
	if c.CacheFactor <= 0 {
		c.CacheFactor = d.CacheFactor
	}
	if c.CarbonIntensity <= 0 {
		c.CarbonIntensity = d.CarbonIntensity
	}
	return c
}

// Estimator prices one call in kWh and kg CO2.
type Estimator struct {
	cfg Config
}

func NewEstimator(cfg Config) Estimator {
	return Estimator{cfg: cfg.withDefaults()}
}

func (e Estimator) CarbonIntensity() float64 {
	return e.cfg.CarbonIntensity
}

func (e Estimator) Estimate(model string, cacheHit bool) domain.EnergyReading {
	base, ok := e.cfg.BaseEnergy[model]
	if !ok {
		base = defaultBaseEnergy
	}

	kwh := base * e.cfg.ModelEfficiency
	if cacheHit {
		kwh *= e.cfg.CacheFactor
	}

	return domain.EnergyReading{
		EnergyKWh: kwh,
		CO2Kg:     kwh * e.cfg.CarbonIntensity,
	}
}

// Totals derives the averaged fields from raw sums.
func Totals(energyKWh, co2Kg float64, cacheHits, generations int64) domain.EnergyTotals {
	t := domain.EnergyTotals{
		TotalEnergyKWh:  energyKWh,
		TotalCO2Kg:      co2Kg,
		CacheHits:       cacheHits,
		GenerationCount: generations,
	}
	if generations > 0 {
		t.AvgEnergyPerGenerated = energyKWh / float64(generations)
	}
	if energyKWh > 0 {
		t.CarbonIntensity = co2Kg / energyKWh
	}
	return t
}

// MemoryCounter keeps totals in process. Used when Redis is not configured.
type MemoryCounter struct {
	mu          sync.Mutex
	est         Estimator
	energyKWh   float64
	co2Kg       float64
	cacheHits   int64
	generations int64
}

func NewMemoryCounter(est Estimator) *MemoryCounter {
	return &MemoryCounter{est: est}
}

func (m *MemoryCounter) Track(ctx context.Context, model string, cacheHit bool) (domain.EnergyReading, error) {
	if err := ctx.Err(); err != nil {
		return domain.EnergyReading{}, err
	}
	r := m.est.Estimate(model, cacheHit)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.energyKWh += r.EnergyKWh
	m.co2Kg += r.CO2Kg
	if cacheHit {
		m.cacheHits++
	} else {
		m.generations++
	}
	return r, nil
}

func (m *MemoryCounter) Totals(ctx context.Context) (domain.EnergyTotals, error) {
	if err := ctx.Err(); err != nil {
		return domain.EnergyTotals{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return Totals(m.energyKWh, m.co2Kg, m.cacheHits, m.generations), nil
}
