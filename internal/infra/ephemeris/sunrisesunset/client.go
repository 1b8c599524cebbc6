package sunrisesunset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/yanqian/watermate/internal/domain/solar"
	apperrors "github.com/yanqian/watermate/pkg/errors"
	"github.com/yanqian/watermate/pkg/util"
)

const (
	defaultBaseURL = "https://api.sunrise-sunset.org/json"
	defaultTimeout = 10 * time.Second
)

// BreakerConfig controls when the upstream is considered down.
type BreakerConfig struct {
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
	Interval            time.Duration
}

// Options configure the client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Breaker BreakerConfig
}

// Client fetches daily solar events from api.sunrise-sunset.org.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewClient builds an API client guarded by a circuit breaker.
func NewClient(opts Options, logger *slog.Logger) *Client {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	log := logger.With("component", "ephemeris.sunrisesunset")
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: newBreaker(opts.Breaker, log),
		logger:  log,
	}
}

func newBreaker(cfg BreakerConfig, logger *slog.Logger) *gobreaker.CircuitBreaker {
	fails := cfg.ConsecutiveFailures
	if fails == 0 {
		fails = 5
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "sunrise-sunset",
		Interval: cfg.Interval,
		Timeout:  cfg.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= fails
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}

// Lookup retrieves the solar events of date at location. Every failure is
// reported as ephemeris_unavailable.
func (c *Client) Lookup(ctx context.Context, location solar.GeoCoordinate, date time.Time) (solar.RawEphemeris, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, location, date)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return solar.RawEphemeris{}, apperrors.Wrap(solar.CodeEphemerisUnavailable, "sunrise-sunset upstream is unavailable", err)
		}
		return solar.RawEphemeris{}, apperrors.Wrap(solar.CodeEphemerisUnavailable,
			fmt.Sprintf("sunrise-sunset lookup failed for %s", util.FormatDate(date)), err)
	}
	return result.(solar.RawEphemeris), nil
}

func (c *Client) fetch(ctx context.Context, location solar.GeoCoordinate, date time.Time) (solar.RawEphemeris, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(location.Latitude, 'f', -1, 64))
	query.Set("lng", strconv.FormatFloat(location.Longitude, 'f', -1, 64))
	query.Set("date", util.FormatDate(date))
	endpoint := c.baseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return solar.RawEphemeris{}, fmt.Errorf("build sunrise-sunset request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return solar.RawEphemeris{}, fmt.Errorf("sunrise-sunset request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return solar.RawEphemeris{}, fmt.Errorf("sunrise-sunset request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var raw apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&raw); err != nil {
		return solar.RawEphemeris{}, fmt.Errorf("decode sunrise-sunset response: %w", err)
	}
	if raw.Status != "OK" {
		return solar.RawEphemeris{}, fmt.Errorf("sunrise-sunset api error: status=%s", raw.Status)
	}

	c.logger.Debug("ephemeris fetched", "date", util.FormatDate(date), "lat", location.Latitude, "lng", location.Longitude)
	return raw.Results.toRaw(), nil
}

type apiResponse struct {
	Results apiResults `json:"results"`
	Status  string     `json:"status"`
}

type apiResults struct {
	Sunrise   string `json:"sunrise"`
	Sunset    string `json:"sunset"`
	SolarNoon string `json:"solar_noon"`
	DayLength string `json:"day_length"`
}

func (r apiResults) toRaw() solar.RawEphemeris {
	return solar.RawEphemeris{
		Sunrise:   strings.TrimSpace(r.Sunrise),
		Sunset:    strings.TrimSpace(r.Sunset),
		SolarNoon: strings.TrimSpace(r.SolarNoon),
		DayLength: strings.TrimSpace(r.DayLength),
	}
}

var _ solar.EphemerisProvider = (*Client)(nil)
