package solar

import (
	"fmt"
	"time"

	apperrors "github.com/yanqian/watermate/pkg/errors"
)

type fraction struct {
	num, den int64
}

func (f fraction) of(d time.Duration) time.Duration {
	return time.Duration(int64(d) * f.num / f.den)
}

// Share of day length reaching a window. Pole-facing windows get the least,
// equator-facing windows the most.
var (
	northernFractions = map[Orientation]fraction{
		North:     {1, 16},
		South:     {7, 8},
		Northeast: {1, 8},
		Northwest: {1, 8},
		Southeast: {3, 4},
		Southwest: {3, 4},
	}
	southernFractions = map[Orientation]fraction{
		North:     {7, 8},
		South:     {1, 16},
		Northeast: {3, 4},
		Northwest: {3, 4},
		Southeast: {1, 8},
		Southwest: {1, 8},
	}
)

// Exposure models the usable daylight a window facing orientation receives
// on day. East sees sunrise to solar noon and West solar noon to sunset in
// both hemispheres; every other orientation gets a fixed share of the day
// length. The result is always within [0, day.DayLength].
func Exposure(day SolarDay, orientation Orientation, hemisphere Hemisphere) (time.Duration, error) {
	var exposure time.Duration
	switch orientation {
	case East:
		exposure = day.SolarNoon.Sub(day.Sunrise)
	case West:
		exposure = day.Sunset.Sub(day.SolarNoon)
	default:
		table := northernFractions
		if hemisphere == Southern {
			table = southernFractions
		}
		share, ok := table[orientation]
		if !ok {
			return 0, apperrors.Wrap(CodeUnsupportedOrientation, fmt.Sprintf("no solar exposure model for %s", orientation), nil)
		}
		exposure = share.of(day.DayLength)
	}
	return clamp(exposure, 0, day.DayLength), nil
}

func clamp(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
