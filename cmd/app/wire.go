//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/watermate/internal/bootstrap"
	"github.com/yanqian/watermate/internal/domain/watering"
	"github.com/yanqian/watermate/internal/infra/config"
	httpiface "github.com/yanqian/watermate/internal/interface/http"
	"github.com/yanqian/watermate/pkg/logger"
	"github.com/yanqian/watermate/pkg/metrics"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		metrics.New,
		provideWateringConfig,
		provideWateringRecorder,
		provideEphemerisProvider,
		provideForecaster,
		provideProfileRepository,
		watering.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
