package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Learning LearningConfig
	Energy   EnergyConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

// DatabaseConfig is optional: an empty Host keeps all storage in memory.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

type JWTConfig struct {
	SecretKey   string
	AdminRoutes bool
}

// RedisConfig is optional: an empty RedisHost keeps energy counters in memory.
type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

func (r RedisConfig) Enabled() bool {
	return r.RedisHost != ""
}

// LearningConfig tunes the channel bandit and the ad engine. Zero values
// fall back to each package's defaults.
type LearningConfig struct {
	SuccessThreshold float64
	PriorAlpha       float64
	PriorBeta        float64
	LeaderboardSize  int
	TrackPolicy      string
}

type EnergyConfig struct {
	CarbonIntensity float64
	ModelEfficiency float64
	CacheFactor     float64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	adminRoutes, err := getEnvBool("ADMIN_ROUTES", false)
	if err != nil {
		return nil, err
	}

	learning := LearningConfig{TrackPolicy: getEnv("AD_TRACK_POLICY", "overwrite")}
	if learning.SuccessThreshold, err = getEnvFloat("SUCCESS_CTR_THRESHOLD", 0); err != nil {
		return nil, err
	}
	if learning.PriorAlpha, err = getEnvFloat("PRIOR_ALPHA", 0); err != nil {
		return nil, err
	}
	if learning.PriorBeta, err = getEnvFloat("PRIOR_BETA", 0); err != nil {
		return nil, err
	}
	if learning.LeaderboardSize, err = getEnvInt("LEADERBOARD_SIZE", 0); err != nil {
		return nil, err
	}

	var energy EnergyConfig
	if energy.CarbonIntensity, err = getEnvFloat("CARBON_INTENSITY", 0); err != nil {
		return nil, err
	}
	if energy.ModelEfficiency, err = getEnvFloat("MODEL_EFFICIENCY", 0); err != nil {
		return nil, err
	}
	if energy.CacheFactor, err = getEnvFloat("CACHE_FACTOR", 0); err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "adPilot"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "adpilot"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey:   getEnv("JWT_SECRET", ""),
			AdminRoutes: adminRoutes,
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", ""),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
			KeyPrefix:     getEnv("REDIS_KEY_PREFIX", "adpilot:energy"),
		},
		Learning: learning,
		Energy:   energy,
	}

	if cfg.JWT.AdminRoutes && cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Enabled() && cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	cfg.Learning.TrackPolicy = strings.ToLower(strings.TrimSpace(cfg.Learning.TrackPolicy))
	switch cfg.Learning.TrackPolicy {
	case "overwrite", "accumulate":
	default:
		return nil, fmt.Errorf("invalid AD_TRACK_POLICY %q", cfg.Learning.TrackPolicy)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
