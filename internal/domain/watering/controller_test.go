package watering

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/watermate/internal/domain/solar"
	apperrors "github.com/yanqian/watermate/pkg/errors"
)

func constantForecast(days int, hours float64) solar.ExposureForecast {
	start := time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC)
	forecast := make(solar.ExposureForecast, 0, days)
	for i := 1; i <= days; i++ {
		forecast = append(forecast, solar.DailyExposure{
			Date:     start.AddDate(0, 0, i),
			Exposure: time.Duration(hours * float64(time.Hour)),
		})
	}
	return forecast
}

var (
	cactus  = PlantLightProfile{Species: "Cactus", BaseDailyHours: 14, MaxIntervalDays: 90}
	begonia = PlantLightProfile{Species: "Begonia", BaseDailyHours: 4, MaxIntervalDays: 10}
)

func TestEvaluateSeattleCactus(t *testing.T) {
	decision, err := Evaluate(constantForecast(10, 12.152347), cactus, 10)
	require.NoError(t, err)
	require.Equal(t, 11, decision.NewInterval)
	require.Equal(t, 1, decision.Adjustment)
	require.InDelta(t, 12.152347, decision.AverageHours, 1e-6)
	require.InDelta(t, -1.847653, decision.DeviationHours, 1e-6)
}

func TestEvaluateBegoniaInBrightWindow(t *testing.T) {
	decision, err := Evaluate(constantForecast(5, 7.213), begonia, 5)
	require.NoError(t, err)
	require.Equal(t, 3, decision.NewInterval)
	require.Equal(t, -2, decision.Adjustment)
}

func TestEvaluateStepBoundaries(t *testing.T) {
	profile := PlantLightProfile{Species: "Fern", BaseDailyHours: 14, MaxIntervalDays: 90}
	cases := []struct {
		deviation float64
		want      int
	}{
		{10, -20},
		{9.9, -7},
		{6, -7},
		{5.9, -2},
		{3, -2},
		{2.5, -1},
		{1, -1},
		{0.5, 0},
		{0, 0},
		{-0.5, 0},
		{-1, 1},
		{-3, 1},
		{-3.5, 2},
		{-6, 2},
		{-6.5, 7},
		{-9.5, 7},
		{-9.9, 7},
		{-10, 20},
		{-14, 20},
	}
	for _, tc := range cases {
		decision, err := Evaluate(constantForecast(30, profile.BaseDailyHours+tc.deviation), profile, 30)
		require.NoError(t, err, "deviation %v", tc.deviation)
		require.Equal(t, tc.want, decision.Adjustment, "deviation %v", tc.deviation)
		require.Equal(t, 30+tc.want, decision.NewInterval, "deviation %v", tc.deviation)
	}
}

func TestEvaluateAveragesUnevenDays(t *testing.T) {
	forecast := constantForecast(4, 0)
	for i, hours := range []float64{10, 12, 14, 16} {
		forecast[i].Exposure = time.Duration(hours * float64(time.Hour))
	}
	decision, err := Evaluate(forecast, PlantLightProfile{BaseDailyHours: 10, MaxIntervalDays: 30}, 4)
	require.NoError(t, err)
	require.Equal(t, 13.0, decision.AverageHours)
	require.Equal(t, 3.0, decision.DeviationHours)
	require.Equal(t, 2, decision.NewInterval)
}

func TestEvaluateCapsAtProfileMaximum(t *testing.T) {
	decision, err := Evaluate(constantForecast(85, 4), cactus, 85)
	require.NoError(t, err)
	require.Equal(t, 20, decision.Adjustment)
	require.Equal(t, 90, decision.NewInterval)
}

func TestEvaluateFloorsNonPositiveInterval(t *testing.T) {
	decision, err := Evaluate(constantForecast(5, 24), begonia, 5)
	require.NoError(t, err)
	require.Equal(t, SafeFloorDays, decision.NewInterval)

	decision, err = Evaluate(constantForecast(1, 6), begonia, 1)
	require.NoError(t, err)
	require.Equal(t, -1, decision.Adjustment)
	require.Equal(t, SafeFloorDays, decision.NewInterval)

	// Reaching one day is allowed; only zero and below are floored.
	decision, err = Evaluate(constantForecast(3, 7.5), begonia, 3)
	require.NoError(t, err)
	require.Equal(t, 1, decision.NewInterval)
}

func TestEvaluateRejectsInvalidInput(t *testing.T) {
	_, err := Evaluate(constantForecast(0, 8), begonia, 0)
	require.True(t, apperrors.IsCode(err, solar.CodeInvalidInterval))

	_, err = Evaluate(constantForecast(3, 8), begonia, -3)
	require.True(t, apperrors.IsCode(err, solar.CodeInvalidInterval))

	_, err = Evaluate(constantForecast(4, 8), begonia, 5)
	require.True(t, apperrors.IsCode(err, solar.CodeInvalidInterval))

	for _, profile := range []PlantLightProfile{
		{BaseDailyHours: 4, MaxIntervalDays: 2},
		{BaseDailyHours: -1, MaxIntervalDays: 10},
		{BaseDailyHours: 25, MaxIntervalDays: 10},
		{BaseDailyHours: math.NaN(), MaxIntervalDays: 10},
	} {
		_, err = Evaluate(constantForecast(5, 8), profile, 5)
		require.True(t, apperrors.IsCode(err, CodeInvalidProfile), "%+v", profile)
	}
}

func TestAdjustIntervalIsIdempotent(t *testing.T) {
	forecast := constantForecast(10, 12.152347)
	first, err := AdjustInterval(forecast, cactus, 10)
	require.NoError(t, err)
	second, err := AdjustInterval(forecast, cactus, 10)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 11, first)

	_, err = AdjustInterval(forecast, cactus, 9)
	require.Error(t, err)
}
