package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ProviderSunriseSunset = "sunrise-sunset"
	ProviderAstro         = "astro"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Ephemeris EphemerisConfig `yaml:"ephemeris"`
	Cache     CacheConfig     `yaml:"cache"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Watering  WateringConfig  `yaml:"watering"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address         string          `yaml:"address"`
	ReadTimeout     time.Duration   `yaml:"readTimeout"`
	WriteTimeout    time.Duration   `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration   `yaml:"shutdownTimeout"`
	AllowedOrigins  []string        `yaml:"allowedOrigins"`
	RateLimit       RateLimitConfig `yaml:"rateLimit"`
	Retry           RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures retries of transient upstream failures.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	MaxBackoff  time.Duration `yaml:"maxBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// EphemerisConfig selects and tunes the solar data provider.
type EphemerisConfig struct {
	Provider string        `yaml:"provider"`
	BaseURL  string        `yaml:"baseUrl"`
	Timeout  time.Duration `yaml:"timeout"`
	Breaker  BreakerConfig `yaml:"breaker"`
}

// BreakerConfig controls the circuit breaker around the provider.
type BreakerConfig struct {
	ConsecutiveFailures int           `yaml:"consecutiveFailures"`
	OpenTimeout         time.Duration `yaml:"openTimeout"`
	Interval            time.Duration `yaml:"interval"`
}

// CacheConfig controls ephemeris caching.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
	Valkey  ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for cache storage.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// CatalogConfig configures the species catalog.
type CatalogConfig struct {
	Postgres PostgresConfig  `yaml:"postgres"`
	Species  []SpeciesConfig `yaml:"species"`
}

// SpeciesConfig seeds one catalog entry.
type SpeciesConfig struct {
	Name            string  `yaml:"name"`
	BaseDailyHours  float64 `yaml:"baseDailyHours"`
	MaxIntervalDays int     `yaml:"maxIntervalDays"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// WateringConfig tunes the planner.
type WateringConfig struct {
	ArtificialDailyHours float64 `yaml:"artificialDailyHours"`
	BatchConcurrency     int     `yaml:"batchConcurrency"`
	MaxBatchSize         int     `yaml:"maxBatchSize"`
	MaxForecastDays      int     `yaml:"maxForecastDays"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	setInt(&cfg.HTTP.RateLimit.RequestsPerMinute, "HTTP_RATE_LIMIT_RPM")
	setInt(&cfg.HTTP.RateLimit.Burst, "HTTP_RATE_LIMIT_BURST")
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = parseBool(v)
	}
	setInt(&cfg.HTTP.Retry.MaxAttempts, "HTTP_RETRY_MAX_ATTEMPTS")
	setDuration(&cfg.HTTP.Retry.BaseBackoff, "HTTP_RETRY_BASE_BACKOFF")

	if v := os.Getenv("EPHEMERIS_PROVIDER"); v != "" {
		cfg.Ephemeris.Provider = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("EPHEMERIS_BASE_URL"); v != "" {
		cfg.Ephemeris.BaseURL = v
	}
	setDuration(&cfg.Ephemeris.Timeout, "EPHEMERIS_TIMEOUT")

	if v := os.Getenv("CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = parseBool(v)
	}
	setDuration(&cfg.Cache.TTL, "CACHE_TTL")
	if v := os.Getenv("CACHE_VALKEY_ENABLED"); v != "" {
		cfg.Cache.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("CACHE_VALKEY_ADDR"); v != "" {
		cfg.Cache.Valkey.Addr = v
	}

	if v := os.Getenv("CATALOG_POSTGRES_DSN"); v != "" {
		cfg.Catalog.Postgres.DSN = v
	}
	if v := os.Getenv("CATALOG_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Catalog.Postgres.MaxConns = int32(parsed)
		}
	}

	if v := os.Getenv("WATERING_ARTIFICIAL_DAILY_HOURS"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Watering.ArtificialDailyHours = parsed
		}
	}
	setInt(&cfg.Watering.BatchConcurrency, "WATERING_BATCH_CONCURRENCY")
	setInt(&cfg.Watering.MaxBatchSize, "WATERING_MAX_BATCH_SIZE")
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:         ":8080",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				MaxBackoff:  2 * time.Second,
				Exclude: []string{
					"/api/v1/watering/intervals/batch",
				},
			},
		},
		Ephemeris: EphemerisConfig{
			Provider: ProviderSunriseSunset,
			BaseURL:  "https://api.sunrise-sunset.org/json",
			Timeout:  10 * time.Second,
			Breaker: BreakerConfig{
				ConsecutiveFailures: 5,
				OpenTimeout:         30 * time.Second,
				Interval:            time.Minute,
			},
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     30 * 24 * time.Hour,
			Valkey: ValkeyConfig{
				Prefix: "ephemeris",
			},
		},
		Catalog: CatalogConfig{
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
			Species: []SpeciesConfig{
				{Name: "Cactus", BaseDailyHours: 14, MaxIntervalDays: 90},
				{Name: "Begonia", BaseDailyHours: 4, MaxIntervalDays: 10},
			},
		},
		Watering: WateringConfig{
			ArtificialDailyHours: 8,
			BatchConcurrency:     4,
			MaxBatchSize:         50,
			MaxForecastDays:      120,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	switch c.Ephemeris.Provider {
	case ProviderSunriseSunset:
		if strings.TrimSpace(c.Ephemeris.BaseURL) == "" {
			return errors.New("ephemeris.baseUrl cannot be empty")
		}
	case ProviderAstro:
	default:
		return fmt.Errorf("ephemeris.provider must be %q or %q, got %q", ProviderSunriseSunset, ProviderAstro, c.Ephemeris.Provider)
	}
	if c.Ephemeris.Timeout <= 0 {
		return errors.New("ephemeris.timeout must be positive")
	}
	if c.Ephemeris.Breaker.ConsecutiveFailures <= 0 {
		return errors.New("ephemeris.breaker.consecutiveFailures must be positive")
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl cannot be negative")
	}
	if c.Cache.Valkey.Enabled && strings.TrimSpace(c.Cache.Valkey.Addr) == "" {
		return errors.New("cache.valkey.addr cannot be empty when valkey cache is enabled")
	}
	for i, species := range c.Catalog.Species {
		if strings.TrimSpace(species.Name) == "" {
			return fmt.Errorf("catalog.species[%d].name cannot be empty", i)
		}
		if species.BaseDailyHours < 0 || species.BaseDailyHours > 24 {
			return fmt.Errorf("catalog.species[%d].baseDailyHours must be within [0, 24]", i)
		}
		if species.MaxIntervalDays < 3 {
			return fmt.Errorf("catalog.species[%d].maxIntervalDays must be at least 3", i)
		}
	}
	if c.Watering.ArtificialDailyHours <= 0 || c.Watering.ArtificialDailyHours > 24 {
		return errors.New("watering.artificialDailyHours must be within (0, 24]")
	}
	if c.Watering.BatchConcurrency <= 0 {
		return errors.New("watering.batchConcurrency must be positive")
	}
	if c.Watering.MaxBatchSize <= 0 {
		return errors.New("watering.maxBatchSize must be positive")
	}
	if c.Watering.MaxForecastDays <= 0 {
		return errors.New("watering.maxForecastDays must be positive")
	}
	return nil
}
