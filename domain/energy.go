package domain

// EnergyReading is the cost attributed to one generation or learning call.
type EnergyReading struct {
	EnergyKWh float64 `json:"energy"`
	CO2Kg     float64 `json:"co2"`
}

type EnergyTotals struct {
	TotalEnergyKWh        float64 `json:"total_energy_consumed"`
	TotalCO2Kg            float64 `json:"total_co2_emissions"`
	CacheHits             int64   `json:"cache_hits"`
	GenerationCount       int64   `json:"generation_count"`
	AvgEnergyPerGenerated float64 `json:"average_energy_per_generation"`
	CarbonIntensity       float64 `json:"carbon_intensity"`
}
