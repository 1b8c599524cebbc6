package solar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/watermate/pkg/errors"
)

func hms(h, m, s int) time.Duration {
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second
}

func dayWithLength(length time.Duration) SolarDay {
	date := time.Date(2021, 5, 2, 0, 0, 0, 0, time.UTC)
	return SolarDay{
		Date:      date,
		Sunrise:   date.Add(6 * time.Hour),
		SolarNoon: date.Add(13 * time.Hour),
		Sunset:    date.Add(20 * time.Hour),
		DayLength: length,
	}
}

func TestExposureFractionsOfDayLength(t *testing.T) {
	cases := []struct {
		name        string
		length      time.Duration
		orientation Orientation
		want        time.Duration
	}{
		{"south", hms(14, 34, 31), South, 45912125 * time.Millisecond},
		{"north", hms(14, 37, 26), North, 3290375 * time.Millisecond},
		{"northeast", hms(14, 40, 19), Northeast, 6602375 * time.Millisecond},
		{"northwest", hms(14, 40, 19), Northwest, 6602375 * time.Millisecond},
		{"southeast", hms(14, 24, 19), Southeast, 38894250 * time.Millisecond},
		{"southwest", hms(14, 24, 19), Southwest, 38894250 * time.Millisecond},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Exposure(dayWithLength(tc.length), tc.orientation, Northern)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestExposureMirrorsAcrossHemispheres(t *testing.T) {
	day := dayWithLength(hms(10, 4, 10))
	pairs := [][2]Orientation{
		{North, South},
		{Northeast, Southeast},
		{Northwest, Southwest},
	}
	for _, pair := range pairs {
		north, err := Exposure(day, pair[0], Northern)
		require.NoError(t, err)
		mirrored, err := Exposure(day, pair[1], Southern)
		require.NoError(t, err)
		require.Equal(t, north, mirrored, "%s/%s", pair[0], pair[1])

		south, err := Exposure(day, pair[1], Northern)
		require.NoError(t, err)
		mirrored, err = Exposure(day, pair[0], Southern)
		require.NoError(t, err)
		require.Equal(t, south, mirrored, "%s/%s", pair[1], pair[0])
	}

	// Equator-facing windows get seven eighths of the day.
	got, err := Exposure(day, North, Southern)
	require.NoError(t, err)
	require.Equal(t, time.Duration(int64(day.DayLength)*7/8), got)
}

func TestExposureEastWestFromNormalizedEvents(t *testing.T) {
	cases := []struct {
		name        string
		date        time.Time
		raw         RawEphemeris
		offset      float64
		orientation Orientation
		want        time.Duration
	}{
		{
			name:        "seattle west",
			date:        time.Date(2021, 5, 2, 0, 0, 0, 0, time.UTC),
			raw:         seattleRaw(),
			offset:      -7,
			orientation: West,
			want:        26236 * time.Second,
		},
		{
			name: "portland east",
			date: time.Date(2021, 5, 2, 0, 0, 0, 0, time.UTC),
			raw: RawEphemeris{
				Sunrise:   "12:55:24 PM",
				SolarNoon: "8:07:34 PM",
				Sunset:    "3:20:00 AM",
				DayLength: "14:24:36",
			},
			offset:      -7,
			orientation: East,
			want:        25930 * time.Second,
		},
		{
			name: "honolulu west",
			date: time.Date(2021, 5, 2, 0, 0, 0, 0, time.UTC),
			raw: RawEphemeris{
				Sunrise:   "3:49:00 PM",
				SolarNoon: "10:29:09 PM",
				Sunset:    "5:09:21 AM",
				DayLength: "13:20:21",
			},
			offset:      -10,
			orientation: West,
			want:        24012 * time.Second,
		},
		{
			name: "multan east",
			date: time.Date(2021, 5, 2, 0, 0, 0, 0, time.UTC),
			raw: RawEphemeris{
				Sunrise:   "12:13:11 AM",
				SolarNoon: "7:11:32 AM",
				Sunset:    "2:10:00 PM",
				DayLength: "13:56:49",
			},
			offset:      5,
			orientation: East,
			want:        25101 * time.Second,
		},
		{
			name: "nanortalik east",
			date: time.Date(2021, 5, 2, 0, 0, 0, 0, time.UTC),
			raw: RawEphemeris{
				Sunrise:   "5:49:55 AM",
				SolarNoon: "2:58:38 PM",
				Sunset:    "12:07:00 AM",
				DayLength: "18:17:05",
			},
			offset:      -2,
			orientation: East,
			want:        32923 * time.Second,
		},
		{
			name:        "sydney west",
			date:        time.Date(2021, 5, 30, 0, 0, 0, 0, time.UTC),
			raw:         sydneyRaw(),
			offset:      10,
			orientation: West,
			want:        18125 * time.Second,
		},
		{
			name:        "sydney east",
			date:        time.Date(2021, 5, 30, 0, 0, 0, 0, time.UTC),
			raw:         sydneyRaw(),
			offset:      10,
			orientation: East,
			want:        18125 * time.Second,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			day, err := NewSolarDay(tc.date, tc.raw, tc.offset)
			require.NoError(t, err)
			for _, hemisphere := range []Hemisphere{Northern, Southern} {
				got, err := Exposure(day, tc.orientation, hemisphere)
				require.NoError(t, err)
				require.Equal(t, tc.want, got)
			}
		})
	}
}

func TestExposureStaysWithinDayLength(t *testing.T) {
	days := []SolarDay{
		dayWithLength(hms(14, 0, 0)),
		dayWithLength(0),
		// Day length shorter than the event span clamps East and West.
		dayWithLength(time.Hour),
	}
	for _, day := range days {
		for o := North; o <= Southwest; o++ {
			for _, hemisphere := range []Hemisphere{Northern, Southern} {
				got, err := Exposure(day, o, hemisphere)
				require.NoError(t, err)
				require.GreaterOrEqual(t, got, time.Duration(0))
				require.LessOrEqual(t, got, day.DayLength)
			}
		}
	}

	got, err := Exposure(dayWithLength(time.Hour), East, Northern)
	require.NoError(t, err)
	require.Equal(t, time.Hour, got)
}

func TestExposureRejectsArtificial(t *testing.T) {
	_, err := Exposure(dayWithLength(hms(12, 0, 0)), Artificial, Northern)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, CodeUnsupportedOrientation))

	_, err = Exposure(dayWithLength(hms(12, 0, 0)), Orientation(0), Northern)
	require.True(t, apperrors.IsCode(err, CodeUnsupportedOrientation))
}

func TestParseOrientation(t *testing.T) {
	got, err := ParseOrientation(" southWest ")
	require.NoError(t, err)
	require.Equal(t, Southwest, got)

	_, err = ParseOrientation("up")
	require.Error(t, err)

	var o Orientation
	require.NoError(t, o.UnmarshalText([]byte("east")))
	require.Equal(t, East, o)
	text, err := o.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "East", string(text))

	_, err = Orientation(0).MarshalText()
	require.Error(t, err)
}

func TestHemisphere(t *testing.T) {
	require.Equal(t, Northern, GeoCoordinate{Latitude: 47.46}.Hemisphere())
	require.Equal(t, Southern, GeoCoordinate{Latitude: -33.86}.Hemisphere())
	require.Equal(t, Southern, GeoCoordinate{Latitude: 0}.Hemisphere())

	require.NoError(t, GeoCoordinate{Latitude: 47.46, Longitude: -122.34}.Validate())
	require.Error(t, GeoCoordinate{Latitude: 91}.Validate())
	require.Error(t, GeoCoordinate{Longitude: -181}.Validate())
}
