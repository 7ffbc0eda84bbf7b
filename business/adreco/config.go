package adreco

import (
	"fmt"
	"strings"

	"adPilot/domain"
)

// TrackPolicy decides what re-tracking an existing ad id does.
type TrackPolicy string

const (
	// TrackOverwrite replaces the ad's record with the latest call.
	TrackOverwrite TrackPolicy = "overwrite"
	// TrackAccumulate adds the new counters to the ad's record and recomputes its rates.
	TrackAccumulate TrackPolicy = "accumulate"
)

func ParseTrackPolicy(s string) (TrackPolicy, error) {
	switch p := TrackPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return TrackOverwrite, nil
	case TrackOverwrite, TrackAccumulate:
		return p, nil
	default:
		return "", fmt.Errorf("unknown track policy %q: %w", s, domain.ErrInvalidInput)
	}
}

type Config struct {
	Policy TrackPolicy

	// max entries kept per segment leaderboard
	LeaderboardSize int

	// leaderboard prefix analysed for creative patterns
	PatternTopN int

	// result size when a caller passes limit <= 0
	DefaultLimit int
}

const (
	defaultLeaderboardSize = 10
	defaultPatternTopN     = 5
	defaultLimit           = 5

	bestAdsInInsights = 5
	topRollups        = 3
	commonWordCount   = 5
)

func DefaultConfig() Config {
	return Config{
		Policy:          TrackOverwrite,
		LeaderboardSize: defaultLeaderboardSize,
		PatternTopN:     defaultPatternTopN,
		DefaultLimit:    defaultLimit,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Policy == "" {
		c.Policy = d.Policy
	}
	if c.LeaderboardSize <= 0 {
		c.LeaderboardSize = d.LeaderboardSize
	}
	if c.PatternTopN <= 0 {
		c.PatternTopN = d.PatternTopN
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = d.DefaultLimit
	}
	return c
}
