package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	require.Error(t, err)

	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, ProviderSunriseSunset, cfg.Ephemeris.Provider)
	require.Len(t, cfg.Catalog.Species, 2)
}

func TestLoadFileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9090"
  allowedOrigins: ["https://plants.example"]
ephemeris:
  provider: astro
  timeout: 3s
cache:
  ttl: 12h
catalog:
  species:
    - name: Fern
      baseDailyHours: 3
      maxIntervalDays: 7
watering:
  artificialDailyHours: 10
`), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("HTTP_ADDRESS", ":7070")
	t.Setenv("WATERING_BATCH_CONCURRENCY", "8")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":7070", cfg.HTTP.Address)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	require.Equal(t, ProviderAstro, cfg.Ephemeris.Provider)
	require.Equal(t, 3*time.Second, cfg.Ephemeris.Timeout)
	require.Equal(t, 12*time.Hour, cfg.Cache.TTL)
	require.Equal(t, []SpeciesConfig{{Name: "Fern", BaseDailyHours: 3, MaxIntervalDays: 7}}, cfg.Catalog.Species)
	require.Equal(t, 10.0, cfg.Watering.ArtificialDailyHours)
	require.Equal(t, 8, cfg.Watering.BatchConcurrency)
	require.Equal(t, 50, cfg.Watering.MaxBatchSize)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"provider":      func(c *Config) { c.Ephemeris.Provider = "sundial" },
		"timeout":       func(c *Config) { c.Ephemeris.Timeout = 0 },
		"valkey addr":   func(c *Config) { c.Cache.Valkey.Enabled = true },
		"species max":   func(c *Config) { c.Catalog.Species[0].MaxIntervalDays = 2 },
		"species name":  func(c *Config) { c.Catalog.Species[0].Name = "" },
		"artificial":    func(c *Config) { c.Watering.ArtificialDailyHours = 30 },
		"concurrency":   func(c *Config) { c.Watering.BatchConcurrency = 0 },
		"rate limit":    func(c *Config) { c.HTTP.RateLimit.Burst = 0 },
		"retry backoff": func(c *Config) { c.HTTP.Retry.BaseBackoff = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := defaultConfig()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
