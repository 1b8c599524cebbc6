package solar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/yanqian/watermate/pkg/errors"
	"github.com/yanqian/watermate/pkg/util"
)

// EphemerisProvider returns the raw solar events of a date at a location.
type EphemerisProvider interface {
	Lookup(ctx context.Context, location GeoCoordinate, date time.Time) (RawEphemeris, error)
}

// ForecastRequest describes the window to forecast. Offsets defaults to
// the longitude approximation when nil.
type ForecastRequest struct {
	Location    GeoCoordinate
	Orientation Orientation
	StartDate   time.Time
	Days        int
	Offsets     OffsetSource
}

// Forecaster produces exposure forecasts.
type Forecaster interface {
	Forecast(ctx context.Context, req ForecastRequest) (ExposureForecast, error)
}

// Generator builds forecasts one provider lookup per day.
type Generator struct {
	provider EphemerisProvider
	logger   *slog.Logger
}

// NewGenerator wires the forecast generator to an ephemeris provider.
func NewGenerator(provider EphemerisProvider, logger *slog.Logger) *Generator {
	return &Generator{
		provider: provider,
		logger:   logger.With("component", "solar.generator"),
	}
}

// Forecast returns exactly req.Days entries for the dates after
// req.StartDate, in order, or an error. A failed lookup fails the whole
// forecast; no day is ever filled with a default.
func (g *Generator) Forecast(ctx context.Context, req ForecastRequest) (ExposureForecast, error) {
	if req.Days <= 0 {
		return nil, apperrors.Wrap(CodeInvalidInterval, fmt.Sprintf("forecast length must be positive, got %d", req.Days), nil)
	}
	if req.Orientation == Artificial || !req.Orientation.Valid() {
		return nil, apperrors.Wrap(CodeUnsupportedOrientation, fmt.Sprintf("cannot forecast solar exposure for %s", req.Orientation), nil)
	}
	offsets := req.Offsets
	if offsets == nil {
		offsets = LongitudeOffset(req.Location.Longitude)
	}

	hemisphere := req.Location.Hemisphere()
	start := util.DateOf(req.StartDate)
	forecast := make(ExposureForecast, 0, req.Days)

	for i := 1; i <= req.Days; i++ {
		date := start.AddDate(0, 0, i)
		if err := ctx.Err(); err != nil {
			return nil, apperrors.Wrap(CodeEphemerisUnavailable, "forecast interrupted", err)
		}

		raw, err := g.provider.Lookup(ctx, req.Location, date)
		if err != nil {
			if apperrors.IsCode(err, CodeEphemerisUnavailable) {
				return nil, err
			}
			return nil, apperrors.Wrap(CodeEphemerisUnavailable, fmt.Sprintf("ephemeris lookup failed for %s", util.FormatDate(date)), err)
		}

		solarDay, err := NewSolarDay(date, raw, offsets.OffsetHours(date))
		if err != nil {
			g.logger.Warn("solar day rejected", "date", util.FormatDate(date), "error", err)
			return nil, err
		}
		exposure, err := Exposure(solarDay, req.Orientation, hemisphere)
		if err != nil {
			return nil, err
		}
		forecast = append(forecast, DailyExposure{Date: date, Exposure: exposure, Day: solarDay})
	}

	g.logger.Debug("exposure forecast built",
		"orientation", req.Orientation.String(),
		"hemisphere", hemisphere.String(),
		"start", util.FormatDate(start),
		"days", len(forecast))
	return forecast, nil
}

var _ Forecaster = (*Generator)(nil)
