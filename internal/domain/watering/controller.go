package watering

import (
	"fmt"
	"math"

	"github.com/yanqian/watermate/internal/domain/solar"
	apperrors "github.com/yanqian/watermate/pkg/errors"
)

// SafeFloorDays replaces any interval the adjustment drives to zero or below.
const SafeFloorDays = 3

type bound int

const (
	open bound = iota
	closed
)

// step maps a deviation range (hours of exposure above the species' base)
// to a change of the watering interval in days.
type step struct {
	lower, upper float64
	lowerBound   bound
	upperBound   bound
	adjustment   int
}

func (s step) contains(deviation float64) bool {
	aboveLower := deviation > s.lower || (s.lowerBound == closed && deviation == s.lower)
	belowUpper := deviation < s.upper || (s.upperBound == closed && deviation == s.upper)
	return aboveLower && belowUpper
}

// More light than the plant needs dries the soil faster, so positive
// deviations shorten the interval and negative ones lengthen it.
var steps = []step{
	{lower: 10, upper: math.Inf(1), lowerBound: closed, upperBound: open, adjustment: -20},
	{lower: 6, upper: 10, lowerBound: closed, upperBound: open, adjustment: -7},
	{lower: 3, upper: 6, lowerBound: closed, upperBound: open, adjustment: -2},
	{lower: 1, upper: 3, lowerBound: closed, upperBound: open, adjustment: -1},
	{lower: 0, upper: 1, lowerBound: closed, upperBound: open, adjustment: 0},
	{lower: -1, upper: 0, lowerBound: open, upperBound: open, adjustment: 0},
	{lower: -3, upper: -1, lowerBound: open, upperBound: closed, adjustment: 1},
	{lower: -6, upper: -3, lowerBound: open, upperBound: closed, adjustment: 2},
	{lower: -10, upper: -6, lowerBound: open, upperBound: closed, adjustment: 7},
	{lower: math.Inf(-1), upper: -10, lowerBound: open, upperBound: closed, adjustment: 20},
}

// Validate rejects profiles the controller cannot honor.
func (p PlantLightProfile) Validate() error {
	if math.IsNaN(p.BaseDailyHours) || math.IsInf(p.BaseDailyHours, 0) || p.BaseDailyHours < 0 || p.BaseDailyHours > 24 {
		return apperrors.Wrap(CodeInvalidProfile, fmt.Sprintf("base daily hours must be within [0, 24], got %v", p.BaseDailyHours), nil)
	}
	if p.MaxIntervalDays < SafeFloorDays {
		return apperrors.Wrap(CodeInvalidProfile, fmt.Sprintf("max interval must be at least %d days, got %d", SafeFloorDays, p.MaxIntervalDays), nil)
	}
	return nil
}

// Decision explains how an interval was derived.
type Decision struct {
	AverageHours   float64
	DeviationHours float64
	Adjustment     int
	NewInterval    int
}

// Evaluate averages the forecast exposure, compares it with the profile's
// base hours and moves currentInterval by the matching step. The result is
// capped at the profile maximum and floored at SafeFloorDays.
func Evaluate(forecast solar.ExposureForecast, profile PlantLightProfile, currentInterval int) (Decision, error) {
	if err := profile.Validate(); err != nil {
		return Decision{}, err
	}
	if currentInterval <= 0 {
		return Decision{}, apperrors.Wrap(solar.CodeInvalidInterval, fmt.Sprintf("current interval must be positive, got %d", currentInterval), nil)
	}
	if len(forecast) != currentInterval {
		return Decision{}, apperrors.Wrap(solar.CodeInvalidInterval,
			fmt.Sprintf("forecast covers %d days, interval is %d", len(forecast), currentInterval), nil)
	}

	var total float64
	for _, day := range forecast {
		total += day.Hours()
	}
	average := total / float64(len(forecast))
	deviation := average - profile.BaseDailyHours

	adjustment, ok := adjustmentFor(deviation)
	if !ok {
		return Decision{}, apperrors.Wrap(CodeInvalidInput, fmt.Sprintf("deviation %v matches no step", deviation), nil)
	}

	next := currentInterval + adjustment
	switch {
	case next > profile.MaxIntervalDays:
		next = profile.MaxIntervalDays
	case next <= 0:
		next = SafeFloorDays
	}

	return Decision{
		AverageHours:   average,
		DeviationHours: deviation,
		Adjustment:     adjustment,
		NewInterval:    next,
	}, nil
}

// AdjustInterval returns only the new interval of Evaluate.
func AdjustInterval(forecast solar.ExposureForecast, profile PlantLightProfile, currentInterval int) (int, error) {
	decision, err := Evaluate(forecast, profile, currentInterval)
	if err != nil {
		return 0, err
	}
	return decision.NewInterval, nil
}

func adjustmentFor(deviation float64) (int, bool) {
	for _, s := range steps {
		if s.contains(deviation) {
			return s.adjustment, true
		}
	}
	return 0, false
}
