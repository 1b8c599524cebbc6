package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/watermate/internal/domain/solar"
	"github.com/yanqian/watermate/internal/domain/watering"
	"github.com/yanqian/watermate/internal/infra/catalog"
	"github.com/yanqian/watermate/internal/infra/config"
	"github.com/yanqian/watermate/internal/infra/ephemeris/astro"
	"github.com/yanqian/watermate/internal/infra/ephemeris/sunrisesunset"
	"github.com/yanqian/watermate/internal/infra/ephemeriscache"
	"github.com/yanqian/watermate/pkg/metrics"
)

func provideWateringConfig(cfg *config.Config) watering.Config {
	return watering.Config{
		ArtificialDailyHours: cfg.Watering.ArtificialDailyHours,
		BatchConcurrency:     cfg.Watering.BatchConcurrency,
		MaxBatchSize:         cfg.Watering.MaxBatchSize,
		MaxForecastDays:      cfg.Watering.MaxForecastDays,
	}
}

func provideWateringRecorder(recorder *metrics.Recorder) watering.Recorder {
	return recorder
}

func provideEphemerisProvider(cfg *config.Config, recorder *metrics.Recorder, logger *slog.Logger) solar.EphemerisProvider {
	var upstream solar.EphemerisProvider
	switch cfg.Ephemeris.Provider {
	case config.ProviderAstro:
		logger.Info("using local astronomical ephemeris")
		upstream = astro.NewProvider()
	default:
		upstream = sunrisesunset.NewClient(sunrisesunset.Options{
			BaseURL: cfg.Ephemeris.BaseURL,
			Timeout: cfg.Ephemeris.Timeout,
			Breaker: sunrisesunset.BreakerConfig{
				ConsecutiveFailures: uint32(cfg.Ephemeris.Breaker.ConsecutiveFailures),
				OpenTimeout:         cfg.Ephemeris.Breaker.OpenTimeout,
				Interval:            cfg.Ephemeris.Breaker.Interval,
			},
		}, logger)
	}
	if !cfg.Cache.Enabled {
		return upstream
	}
	return ephemeriscache.NewCachedProvider(upstream, provideEphemerisStore(cfg, logger), cfg.Cache.TTL, recorder, logger)
}

func provideEphemerisStore(cfg *config.Config, logger *slog.Logger) solar.EphemerisStore {
	if cfg.Cache.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg.Cache.Valkey.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return ephemeriscache.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return ephemeriscache.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
		} else {
			logger.Info("ephemeris valkey store enabled", "addr", cfg.Cache.Valkey.Addr)
			return ephemeriscache.NewValkeyStore(client, cfg.Cache.Valkey.Prefix)
		}
	}
	return ephemeriscache.NewMemoryStore()
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideForecaster(provider solar.EphemerisProvider, logger *slog.Logger) solar.Forecaster {
	return solar.NewGenerator(provider, logger)
}

func provideProfileRepository(cfg *config.Config, logger *slog.Logger) (watering.ProfileRepository, error) {
	seed := make([]watering.PlantLightProfile, 0, len(cfg.Catalog.Species))
	for _, s := range cfg.Catalog.Species {
		seed = append(seed, watering.PlantLightProfile{
			Species:         s.Name,
			BaseDailyHours:  s.BaseDailyHours,
			MaxIntervalDays: s.MaxIntervalDays,
		})
	}
	fallback, err := catalog.NewMemoryRepository(seed)
	if err != nil {
		return nil, fmt.Errorf("seed species catalog: %w", err)
	}

	dsn := strings.TrimSpace(cfg.Catalog.Postgres.DSN)
	if dsn == "" {
		logger.Info("catalog postgres dsn not set, using memory repository", "species", len(seed))
		return fallback, nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback, nil
	}
	if cfg.Catalog.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Catalog.Postgres.MaxConns
	}
	if cfg.Catalog.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Catalog.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback, nil
	}
	logger.Info("catalog postgres repository enabled")
	return catalog.NewPostgresRepository(pool), nil
}
