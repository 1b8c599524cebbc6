package watering

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/watermate/internal/domain/solar"
	apperrors "github.com/yanqian/watermate/pkg/errors"
	"github.com/yanqian/watermate/pkg/util"
)

const (
	defaultArtificialDailyHours = 8
	defaultBatchConcurrency     = 4
	defaultMaxBatchSize         = 50
	defaultMaxForecastDays      = 120
)

// Service exposes watering interval planning.
type Service interface {
	Plan(ctx context.Context, req PlanRequest) (PlanResponse, error)
	PlanBatch(ctx context.Context, req BatchRequest) (BatchResponse, error)
	Forecast(ctx context.Context, query ForecastQuery) (ForecastResponse, error)
	Species(ctx context.Context) ([]PlantLightProfile, error)
}

// ProfileRepository resolves catalogued species.
type ProfileRepository interface {
	FindBySpecies(ctx context.Context, species string) (PlantLightProfile, error)
	List(ctx context.Context) ([]PlantLightProfile, error)
}

// Recorder receives the outcome of every plan.
type Recorder interface {
	ObservePlan(orientation, outcome string, adjustment int, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObservePlan(string, string, int, time.Duration) {}

type service struct {
	cfg        Config
	forecaster solar.Forecaster
	profiles   ProfileRepository
	metrics    Recorder
	logger     *slog.Logger
	now        func() time.Time
}

// NewService wires up the watering domain.
func NewService(cfg Config, forecaster solar.Forecaster, profiles ProfileRepository, recorder Recorder, logger *slog.Logger) Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &service{
		cfg:        cfg.withDefaults(),
		forecaster: forecaster,
		profiles:   profiles,
		metrics:    recorder,
		logger:     logger.With("component", "watering.service"),
		now:        util.NowUTC,
	}
}

func (c Config) withDefaults() Config {
	if c.ArtificialDailyHours <= 0 {
		c.ArtificialDailyHours = defaultArtificialDailyHours
	}
	if c.BatchConcurrency <= 0 {
		c.BatchConcurrency = defaultBatchConcurrency
	}
	if c.MaxBatchSize <= 0 {
		c.MaxBatchSize = defaultMaxBatchSize
	}
	if c.MaxForecastDays <= 0 {
		c.MaxForecastDays = defaultMaxForecastDays
	}
	return c
}

func (s *service) Plan(ctx context.Context, req PlanRequest) (PlanResponse, error) {
	started := time.Now()
	res, err := s.plan(ctx, req)
	outcome := "ok"
	switch {
	case err != nil:
		outcome = apperrors.CodeOf(err)
		if outcome == "" {
			outcome = "internal_error"
		}
	case res.ManualMode:
		outcome = "manual"
	}
	s.metrics.ObservePlan(req.Orientation.String(), outcome, res.Adjustment, time.Since(started))
	return res, err
}

func (s *service) plan(ctx context.Context, req PlanRequest) (PlanResponse, error) {
	if err := req.Location.Validate(); err != nil {
		return PlanResponse{}, apperrors.Wrap(CodeInvalidInput, "location is invalid", err)
	}
	if !req.Orientation.Valid() {
		return PlanResponse{}, apperrors.Wrap(solar.CodeUnsupportedOrientation, "orientation is missing or unknown", nil)
	}
	if req.CurrentInterval <= 0 {
		return PlanResponse{}, apperrors.Wrap(solar.CodeInvalidInterval, fmt.Sprintf("current interval must be positive, got %d", req.CurrentInterval), nil)
	}
	if req.CurrentInterval > s.cfg.MaxForecastDays {
		return PlanResponse{}, apperrors.Wrap(solar.CodeInvalidInterval,
			fmt.Sprintf("current interval %d exceeds the %d day forecast limit", req.CurrentInterval, s.cfg.MaxForecastDays), nil)
	}
	offsets, err := resolveOffsets(req.Timezone, req.UTCOffset, req.Location)
	if err != nil {
		return PlanResponse{}, err
	}
	lastWater, err := s.resolveDate(req.LastWaterDate, offsets)
	if err != nil {
		return PlanResponse{}, apperrors.Wrap(CodeInvalidInput, "lastWaterDate must be formatted as YYYY-MM-DD", err)
	}

	res := PlanResponse{
		PlantID:         req.PlantID,
		Species:         strings.TrimSpace(req.Species),
		Orientation:     req.Orientation.String(),
		ManualMode:      req.ManualMode,
		CurrentInterval: req.CurrentInterval,
		LastWaterDate:   util.FormatDate(lastWater),
	}

	if req.ManualMode {
		res.NewInterval = req.CurrentInterval
		res.NextWaterDate = util.FormatDate(lastWater.AddDate(0, 0, req.CurrentInterval))
		s.logger.Info("watering plan kept manual interval", "plantId", req.PlantID, "interval", req.CurrentInterval)
		return res, nil
	}

	profile, err := s.resolveProfile(ctx, req)
	if err != nil {
		return PlanResponse{}, err
	}
	res.Species = profile.Species
	res.BaseHours = profile.BaseDailyHours

	forecast, err := s.buildForecast(ctx, req.Location, req.Orientation, lastWater, req.CurrentInterval, offsets)
	if err != nil {
		return PlanResponse{}, err
	}

	decision, err := Evaluate(forecast, profile, req.CurrentInterval)
	if err != nil {
		return PlanResponse{}, err
	}

	res.NewInterval = decision.NewInterval
	res.NextWaterDate = util.FormatDate(lastWater.AddDate(0, 0, decision.NewInterval))
	res.AverageHours = decision.AverageHours
	res.DeviationHours = decision.DeviationHours
	res.Adjustment = decision.Adjustment
	res.Forecast = toDayExposures(forecast)

	s.logger.Info("watering plan computed",
		"plantId", req.PlantID,
		"species", profile.Species,
		"orientation", req.Orientation.String(),
		"currentInterval", req.CurrentInterval,
		"newInterval", decision.NewInterval,
		"averageHours", decision.AverageHours,
		"adjustment", decision.Adjustment)
	return res, nil
}

func (s *service) PlanBatch(ctx context.Context, req BatchRequest) (BatchResponse, error) {
	if len(req.Plans) == 0 {
		return BatchResponse{}, apperrors.Wrap(CodeInvalidInput, "plans must not be empty", nil)
	}
	if len(req.Plans) > s.cfg.MaxBatchSize {
		return BatchResponse{}, apperrors.Wrap(CodeInvalidInput,
			fmt.Sprintf("batch of %d plans exceeds the limit of %d", len(req.Plans), s.cfg.MaxBatchSize), nil)
	}

	results := make([]BatchItem, len(req.Plans))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BatchConcurrency)
	for i, planReq := range req.Plans {
		g.Go(func() error {
			item := BatchItem{Index: i}
			plan, err := s.Plan(gctx, planReq)
			if err != nil {
				item.Error = toItemError(err)
			} else {
				item.Plan = &plan
			}
			results[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BatchResponse{}, err
	}

	res := BatchResponse{Results: results}
	for _, item := range results {
		if item.Error != nil {
			res.Failed++
		} else {
			res.Succeeded++
		}
	}
	s.logger.Info("watering batch computed", "plans", len(results), "failed", res.Failed)
	return res, nil
}

func (s *service) Forecast(ctx context.Context, query ForecastQuery) (ForecastResponse, error) {
	if err := query.Location.Validate(); err != nil {
		return ForecastResponse{}, apperrors.Wrap(CodeInvalidInput, "location is invalid", err)
	}
	if !query.Orientation.Valid() {
		return ForecastResponse{}, apperrors.Wrap(solar.CodeUnsupportedOrientation, "orientation is missing or unknown", nil)
	}
	if query.Days <= 0 || query.Days > s.cfg.MaxForecastDays {
		return ForecastResponse{}, apperrors.Wrap(solar.CodeInvalidInterval,
			fmt.Sprintf("forecast length must be within [1, %d], got %d", s.cfg.MaxForecastDays, query.Days), nil)
	}
	offsets, err := resolveOffsets(query.Timezone, query.UTCOffset, query.Location)
	if err != nil {
		return ForecastResponse{}, err
	}
	start, err := s.resolveDate(query.StartDate, offsets)
	if err != nil {
		return ForecastResponse{}, apperrors.Wrap(CodeInvalidInput, "startDate must be formatted as YYYY-MM-DD", err)
	}

	forecast, err := s.forecaster.Forecast(ctx, solar.ForecastRequest{
		Location:    query.Location,
		Orientation: query.Orientation,
		StartDate:   start,
		Days:        query.Days,
		Offsets:     offsets,
	})
	if err != nil {
		return ForecastResponse{}, err
	}

	var total float64
	for _, day := range forecast {
		total += day.Hours()
	}
	return ForecastResponse{
		Orientation:  query.Orientation.String(),
		Hemisphere:   query.Location.Hemisphere().String(),
		StartDate:    util.FormatDate(start),
		AverageHours: total / float64(len(forecast)),
		Days:         toDayExposures(forecast),
	}, nil
}

func (s *service) Species(ctx context.Context) ([]PlantLightProfile, error) {
	if s.profiles == nil {
		return []PlantLightProfile{}, nil
	}
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(CodeCatalogUnavailable, "failed to list plant profiles", err)
	}
	if profiles == nil {
		profiles = []PlantLightProfile{}
	}
	return profiles, nil
}

func (s *service) resolveProfile(ctx context.Context, req PlanRequest) (PlantLightProfile, error) {
	species := strings.TrimSpace(req.Species)
	var profile PlantLightProfile
	switch {
	case req.Profile != nil:
		profile = PlantLightProfile{
			Species:         species,
			BaseDailyHours:  req.Profile.BaseDailyHours,
			MaxIntervalDays: req.Profile.MaxIntervalDays,
		}
	case species != "":
		if s.profiles == nil {
			return PlantLightProfile{}, apperrors.Wrap(CodeProfileNotFound, fmt.Sprintf("no catalog configured for species %q", species), nil)
		}
		found, err := s.profiles.FindBySpecies(ctx, species)
		if errors.Is(err, ErrProfileNotFound) {
			return PlantLightProfile{}, apperrors.Wrap(CodeProfileNotFound, fmt.Sprintf("unknown species %q", species), err)
		}
		if err != nil {
			return PlantLightProfile{}, apperrors.Wrap(CodeCatalogUnavailable, "failed to load plant profile", err)
		}
		profile = found
	default:
		return PlantLightProfile{}, apperrors.Wrap(CodeInvalidInput, "species or profile is required", nil)
	}
	if err := profile.Validate(); err != nil {
		return PlantLightProfile{}, err
	}
	return profile, nil
}

// buildForecast covers the days after lastWater up to the current
// interval. Artificial light needs no ephemeris: every day receives the
// configured lamp hours.
func (s *service) buildForecast(ctx context.Context, location solar.GeoCoordinate, orientation solar.Orientation, lastWater time.Time, days int, offsets solar.OffsetSource) (solar.ExposureForecast, error) {
	if orientation == solar.Artificial {
		exposure := time.Duration(s.cfg.ArtificialDailyHours * float64(time.Hour))
		forecast := make(solar.ExposureForecast, 0, days)
		for i := 1; i <= days; i++ {
			forecast = append(forecast, solar.DailyExposure{Date: lastWater.AddDate(0, 0, i), Exposure: exposure})
		}
		return forecast, nil
	}
	return s.forecaster.Forecast(ctx, solar.ForecastRequest{
		Location:    location,
		Orientation: orientation,
		StartDate:   lastWater,
		Days:        days,
		Offsets:     offsets,
	})
}

// resolveDate parses input or falls back to today at the plant's offset.
func (s *service) resolveDate(input string, offsets solar.OffsetSource) (time.Time, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		now := s.now().UTC()
		local := now.Add(time.Duration(offsets.OffsetHours(now) * float64(time.Hour)))
		return util.DateOf(local), nil
	}
	return util.ParseDate(trimmed)
}

func resolveOffsets(timezone string, utcOffset *float64, location solar.GeoCoordinate) (solar.OffsetSource, error) {
	if name := strings.TrimSpace(timezone); name != "" {
		zone, err := solar.NewZoneOffset(name)
		if err != nil {
			return nil, apperrors.Wrap(solar.CodeInvalidOffset, fmt.Sprintf("unknown timezone %q", name), err)
		}
		return zone, nil
	}
	if utcOffset != nil {
		if *utcOffset < -12 || *utcOffset > 14 {
			return nil, apperrors.Wrap(solar.CodeInvalidOffset, fmt.Sprintf("utcOffset %v outside [-12, 14] hours", *utcOffset), nil)
		}
		return solar.FixedOffset(*utcOffset), nil
	}
	return solar.LongitudeOffset(location.Longitude), nil
}

func toDayExposures(forecast solar.ExposureForecast) []DayExposure {
	days := make([]DayExposure, 0, len(forecast))
	for _, entry := range forecast {
		day := DayExposure{
			Date:  util.FormatDate(entry.Date),
			Hours: entry.Hours(),
		}
		if !entry.Day.Sunrise.IsZero() {
			day.Sunrise = entry.Day.Sunrise.Format(time.RFC3339)
			day.SolarNoon = entry.Day.SolarNoon.Format(time.RFC3339)
			day.Sunset = entry.Day.Sunset.Format(time.RFC3339)
			day.DayLength = entry.Day.DayLength.String()
		}
		days = append(days, day)
	}
	return days
}

func toItemError(err error) *ItemError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return &ItemError{Code: appErr.Code, Message: appErr.Message}
	}
	return &ItemError{Code: "internal_error", Message: err.Error()}
}
