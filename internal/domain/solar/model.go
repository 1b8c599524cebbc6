package solar

import (
	"fmt"
	"strings"
	"time"
)

// GeoCoordinate is a resolved location in decimal degrees.
type GeoCoordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Hemisphere reports which side of the equator the coordinate lies on.
// The equator itself counts as Southern.
func (c GeoCoordinate) Hemisphere() Hemisphere {
	if c.Latitude > 0 {
		return Northern
	}
	return Southern
}

// Validate checks the coordinate is within the WGS84 ranges.
func (c GeoCoordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %.6f out of range [-90, 90]", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %.6f out of range [-180, 180]", c.Longitude)
	}
	return nil
}

// Hemisphere selects the exposure fraction table.
type Hemisphere int

const (
	Northern Hemisphere = iota
	Southern
)

func (h Hemisphere) String() string {
	if h == Northern {
		return "northern"
	}
	return "southern"
}

// Orientation is the compass direction a light source faces.
type Orientation int

const (
	Artificial Orientation = iota + 1
	North
	East
	South
	West
	Northeast
	Northwest
	Southeast
	Southwest
)

var orientationNames = map[Orientation]string{
	Artificial: "Artificial",
	North:      "North",
	East:       "East",
	South:      "South",
	West:       "West",
	Northeast:  "Northeast",
	Northwest:  "Northwest",
	Southeast:  "Southeast",
	Southwest:  "Southwest",
}

func (o Orientation) String() string {
	if name, ok := orientationNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Orientation(%d)", int(o))
}

// Valid reports whether o is one of the declared orientations.
func (o Orientation) Valid() bool {
	_, ok := orientationNames[o]
	return ok
}

// ParseOrientation resolves a case-insensitive orientation name.
func ParseOrientation(value string) (Orientation, error) {
	clean := strings.TrimSpace(value)
	for o, name := range orientationNames {
		if strings.EqualFold(name, clean) {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown orientation %q", value)
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("invalid orientation %d", int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(text []byte) error {
	parsed, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// RawEphemeris is one day of provider output. Event times are 12-hour
// UTC clock readings ("1:30:20 PM"); DayLength is "H:MM:SS".
type RawEphemeris struct {
	Sunrise   string `json:"sunrise"`
	Sunset    string `json:"sunset"`
	SolarNoon string `json:"solarNoon"`
	DayLength string `json:"dayLength"`
}

// SolarDay holds the normalized solar events of a single local date.
type SolarDay struct {
	Date      time.Time
	Sunrise   time.Time
	Sunset    time.Time
	SolarNoon time.Time
	DayLength time.Duration
}

// DailyExposure is the modeled usable daylight for one forecast date.
type DailyExposure struct {
	Date     time.Time
	Exposure time.Duration
	Day      SolarDay
}

// Hours returns the exposure as fractional hours.
func (d DailyExposure) Hours() float64 {
	return d.Exposure.Hours()
}

// ExposureForecast is an ordered run of daily exposures.
type ExposureForecast []DailyExposure
