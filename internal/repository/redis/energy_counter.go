package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"adPilot/business/energy"
	"adPilot/domain"
)

const (
	defaultKeyPrefix = "adpilot:energy"

	fieldCacheHits   = "cache_hits"
	fieldGenerations = "generations"
)

// EnergyCounter keeps energy and carbon totals in Redis so every replica
// adds to the same counters.
type EnergyCounter struct {
	client *redis.Client
	est    energy.Estimator
	prefix string
}

func NewEnergyCounter(client *redis.Client, est energy.Estimator, prefix string) *EnergyCounter {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &EnergyCounter{
		client: client,
		est:    est,
		prefix: prefix,
	}
}

func (c *EnergyCounter) key(name string) string {
	return fmt.Sprintf("%s:%s", c.prefix, name)
}

// Track prices one call and adds it to the shared totals.
func (c *EnergyCounter) Track(ctx context.Context, model string, cacheHit bool) (domain.EnergyReading, error) {
	if err := ctx.Err(); err != nil {
		return domain.EnergyReading{}, fmt.Errorf("context error: %w", err)
	}

	r := c.est.Estimate(model, cacheHit)

	field := fieldGenerations
	if cacheHit {
		field = fieldCacheHits
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.IncrByFloat(ctx, c.key("kwh"), r.EnergyKWh)
		pipe.IncrByFloat(ctx, c.key("co2"), r.CO2Kg)
		pipe.HIncrByFloat(ctx, c.key("kwh_by_model"), model, r.EnergyKWh)
		pipe.HIncrBy(ctx, c.key("counts"), field, 1)
		return nil
	})
	if err != nil {
		return domain.EnergyReading{}, fmt.Errorf("failed to record energy in Redis: %w", err)
	}

	return r, nil
}

func (c *EnergyCounter) Totals(ctx context.Context) (domain.EnergyTotals, error) {
	if err := ctx.Err(); err != nil {
		return domain.EnergyTotals{}, fmt.Errorf("context error: %w", err)
	}

	kwh, err := c.getFloat(ctx, c.key("kwh"))
	if err != nil {
		return domain.EnergyTotals{}, err
	}
	co2, err := c.getFloat(ctx, c.key("co2"))
	if err != nil {
		return domain.EnergyTotals{}, err
	}

	counts, err := c.client.HGetAll(ctx, c.key("counts")).Result()
	if err != nil {
		return domain.EnergyTotals{}, fmt.Errorf("failed to read energy counts: %w", err)
	}

	hits, err := parseCount(counts[fieldCacheHits])
	if err != nil {
		return domain.EnergyTotals{}, err
	}
	gens, err := parseCount(counts[fieldGenerations])
	if err != nil {
		return domain.EnergyTotals{}, err
	}

	return energy.Totals(kwh, co2, hits, gens), nil
}

// ByModel returns kWh per model.
func (c *EnergyCounter) ByModel(ctx context.Context) (map[string]float64, error) {
	raw, err := c.client.HGetAll(ctx, c.key("kwh_by_model")).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read energy by model: %w", err)
	}

	out := make(map[string]float64, len(raw))
	for model, v := range raw {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid energy value for %s: %w", model, err)
		}
		out[model] = f
	}
	return out, nil
}

func (c *EnergyCounter) getFloat(ctx context.Context, key string) (float64, error) {
	v, err := c.client.Get(ctx, key).Float64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return v, nil
}

func parseCount(v string) (int64, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid energy count %q: %w", v, err)
	}
	return n, nil
}
