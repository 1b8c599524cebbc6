package solar

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// OffsetSource reports the UTC offset, in hours, that applies to a
// location on a given date.
type OffsetSource interface {
	OffsetHours(date time.Time) float64
}

// FixedOffset is a constant offset in hours.
type FixedOffset float64

func (f FixedOffset) OffsetHours(time.Time) float64 {
	return float64(f)
}

// ZoneOffset evaluates an IANA zone at local noon of each date, so
// daylight-saving transitions inside a forecast are honored.
type ZoneOffset struct {
	loc *time.Location
}

// NewZoneOffset loads the named IANA zone.
func NewZoneOffset(name string) (ZoneOffset, error) {
	clean := strings.TrimSpace(name)
	if clean == "" {
		return ZoneOffset{}, fmt.Errorf("timezone name is empty")
	}
	loc, err := time.LoadLocation(clean)
	if err != nil {
		return ZoneOffset{}, fmt.Errorf("load timezone %q: %w", clean, err)
	}
	return ZoneOffset{loc: loc}, nil
}

func (z ZoneOffset) OffsetHours(date time.Time) float64 {
	noon := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, z.loc)
	_, seconds := noon.Zone()
	return float64(seconds) / 3600
}

// Location exposes the underlying zone.
func (z ZoneOffset) Location() *time.Location {
	return z.loc
}

// LongitudeOffset approximates the civil offset as the nautical time zone
// of the longitude: round(lon / 15) hours.
type LongitudeOffset float64

func (l LongitudeOffset) OffsetHours(time.Time) float64 {
	hours := math.Round(float64(l) / 15)
	return math.Max(minOffsetHours, math.Min(12, hours))
}
