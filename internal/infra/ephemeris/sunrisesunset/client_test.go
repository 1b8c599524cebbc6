package sunrisesunset

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/watermate/internal/domain/solar"
	apperrors "github.com/yanqian/watermate/pkg/errors"
)

var seattle = solar.GeoCoordinate{Latitude: 47.466748, Longitude: -122.34722}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLookupDecodesResults(t *testing.T) {
	var query url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":{"sunrise":"12:49:00 PM","sunset":"3:23:31 AM","solar_noon":"8:06:15 PM","day_length":"14:34:31","civil_twilight_begin":"12:15:39 PM"},"status":"OK"}`))
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL}, testLogger())
	raw, err := client.Lookup(context.Background(), seattle, time.Date(2021, 5, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, solar.RawEphemeris{
		Sunrise:   "12:49:00 PM",
		Sunset:    "3:23:31 AM",
		SolarNoon: "8:06:15 PM",
		DayLength: "14:34:31",
	}, raw)
	require.Equal(t, "47.466748", query.Get("lat"))
	require.Equal(t, "-122.34722", query.Get("lng"))
	require.Equal(t, "2021-05-02", query.Get("date"))
}

func TestLookupReportsUpstreamFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"api status", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"results":{},"status":"INVALID_REQUEST"}`))
		}},
		{"garbage", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			client := NewClient(Options{BaseURL: server.URL}, testLogger())
			_, err := client.Lookup(context.Background(), seattle, time.Date(2021, 5, 2, 0, 0, 0, 0, time.UTC))
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, solar.CodeEphemerisUnavailable))
		})
	}
}

func TestLookupOpensBreakerAfterConsecutiveFailures(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Options{
		BaseURL: server.URL,
		Breaker: BreakerConfig{ConsecutiveFailures: 2, OpenTimeout: time.Minute},
	}, testLogger())
	date := time.Date(2021, 5, 2, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		_, err := client.Lookup(context.Background(), seattle, date)
		require.Error(t, err)
	}
	_, err := client.Lookup(context.Background(), seattle, date)
	require.True(t, apperrors.IsCode(err, solar.CodeEphemerisUnavailable))
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	require.Equal(t, int32(2), hits.Load())
}

func TestLookupHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results":{},"status":"OK"}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := NewClient(Options{BaseURL: server.URL}, testLogger())
	_, err := client.Lookup(ctx, seattle, time.Date(2021, 5, 2, 0, 0, 0, 0, time.UTC))
	require.True(t, apperrors.IsCode(err, solar.CodeEphemerisUnavailable))
	require.ErrorIs(t, err, context.Canceled)
}
