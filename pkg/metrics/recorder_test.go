package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecorderCountsPlans(t *testing.T) {
	r := New()
	r.ObservePlan("West", "ok", 1, 20*time.Millisecond)
	r.ObservePlan("West", "ok", -2, 10*time.Millisecond)
	r.ObservePlan("East", "ephemeris_unavailable", 0, time.Second)

	require.Equal(t, 2.0, testutil.ToFloat64(r.plans.WithLabelValues("West", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.plans.WithLabelValues("East", "ephemeris_unavailable")))
	require.Equal(t, 1, testutil.CollectAndCount(r.adjustments))
}

func TestRecorderHandlerExposesMetrics(t *testing.T) {
	r := New()
	r.ObserveEphemeris("cache", "hit")
	r.ObserveHTTP(http.MethodPost, "/api/v1/watering/interval", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `watermate_ephemeris_lookups_total{outcome="hit",source="cache"} 1`)
	require.Contains(t, body, `watermate_http_requests_total{method="POST",route="/api/v1/watering/interval",status="200"} 1`)
	require.Contains(t, body, "go_goroutines")
}
