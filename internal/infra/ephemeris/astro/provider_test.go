package astro

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/watermate/internal/domain/solar"
	apperrors "github.com/yanqian/watermate/pkg/errors"
)

func TestLookupMatchesPublishedSeattleTimes(t *testing.T) {
	seattle := solar.GeoCoordinate{Latitude: 47.466748, Longitude: -122.34722}
	date := time.Date(2021, 5, 2, 0, 0, 0, 0, time.UTC)

	raw, err := NewProvider().Lookup(context.Background(), seattle, date)
	require.NoError(t, err)

	day, err := solar.NewSolarDay(date, raw, -7)
	require.NoError(t, err)

	// api.sunrise-sunset.org: sunrise 5:49:00, sunset 20:23:31 local.
	wantRise := time.Date(2021, 5, 2, 12, 49, 0, 0, time.UTC)
	wantSet := time.Date(2021, 5, 3, 3, 23, 31, 0, time.UTC)
	require.WithinDuration(t, wantRise, day.Sunrise, 3*time.Minute)
	require.WithinDuration(t, wantSet, day.Sunset, 3*time.Minute)
	require.InDelta(t, (14*time.Hour + 34*time.Minute).Seconds(), day.DayLength.Seconds(), 300)
	require.Equal(t, day.Sunset.Sub(day.Sunrise), day.DayLength)
}

func TestLookupSouthernHemisphere(t *testing.T) {
	sydney := solar.GeoCoordinate{Latitude: -33.865143, Longitude: 151.2099}
	date := time.Date(2021, 5, 30, 0, 0, 0, 0, time.UTC)

	raw, err := NewProvider().Lookup(context.Background(), sydney, date)
	require.NoError(t, err)

	day, err := solar.NewSolarDay(date, raw, 10)
	require.NoError(t, err)
	require.Equal(t, 6, day.Sunrise.Hour())
	require.Equal(t, 16, day.Sunset.Hour())
}

func TestLookupPolarDayIsUnavailable(t *testing.T) {
	svalbard := solar.GeoCoordinate{Latitude: 78.2232, Longitude: 15.6267}

	_, err := NewProvider().Lookup(context.Background(), svalbard, time.Date(2021, 6, 21, 0, 0, 0, 0, time.UTC))
	require.True(t, apperrors.IsCode(err, solar.CodeEphemerisUnavailable))
}

func TestFormatDayLength(t *testing.T) {
	require.Equal(t, "14:34:31", formatDayLength(14*time.Hour+34*time.Minute+31*time.Second))
	require.Equal(t, "9:05:00", formatDayLength(9*time.Hour+5*time.Minute))
}
