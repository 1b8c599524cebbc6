package solar

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/yanqian/watermate/pkg/errors"
	"github.com/yanqian/watermate/pkg/util"
)

const (
	clockLayout = "3:04:05 PM"

	minOffsetHours = -12
	maxOffsetHours = 14

	oneDay = 24 * time.Hour
)

// ParseClock converts a 12-hour clock reading ("9:55:17 AM") into the
// elapsed time since midnight.
func ParseClock(value string) (time.Duration, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	ts, err := time.Parse(clockLayout, trimmed)
	if err != nil {
		return 0, apperrors.Wrap(CodeParse, fmt.Sprintf("malformed clock time %q", value), err)
	}
	return time.Duration(ts.Hour())*time.Hour +
		time.Duration(ts.Minute())*time.Minute +
		time.Duration(ts.Second())*time.Second, nil
}

// ParseDayLength parses a 24-hour "H:MM:SS" duration.
func ParseDayLength(value string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 3 {
		return 0, apperrors.Wrap(CodeParse, fmt.Sprintf("malformed day length %q", value), nil)
	}
	var fields [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, apperrors.Wrap(CodeParse, fmt.Sprintf("malformed day length %q", value), err)
		}
		fields[i] = n
	}
	if fields[1] > 59 || fields[2] > 59 {
		return 0, apperrors.Wrap(CodeParse, fmt.Sprintf("malformed day length %q", value), nil)
	}
	length := time.Duration(fields[0])*time.Hour +
		time.Duration(fields[1])*time.Minute +
		time.Duration(fields[2])*time.Second
	if length > oneDay {
		return 0, apperrors.Wrap(CodeParse, fmt.Sprintf("day length %q exceeds 24 hours", value), nil)
	}
	return length, nil
}

// Normalize turns a UTC clock reading reported for date into a local
// instant whose local calendar date is date. An event that would land on
// the previous local day is moved one UTC day forward, and one that would
// land on the next local day is moved one UTC day back. West of UTC this
// shifts late events (sunset) forward; east of UTC it shifts early events
// (sunrise) back; near-zero offsets never shift.
func Normalize(date time.Time, utcClock string, offsetHours float64) (time.Time, error) {
	offset, err := offsetDuration(offsetHours)
	if err != nil {
		return time.Time{}, err
	}
	clock, err := ParseClock(utcClock)
	if err != nil {
		return time.Time{}, err
	}

	midnight := util.DateOf(date)
	event := midnight.Add(clock)
	wall := event.Add(offset)
	switch {
	case wall.Before(midnight):
		event = event.AddDate(0, 0, 1)
	case !wall.Before(midnight.Add(oneDay)):
		event = event.AddDate(0, 0, -1)
	}
	return event.In(fixedZone(offset)), nil
}

// NewSolarDay normalizes one day of provider output and checks that
// sunrise < solar noon < sunset. Solar noon is anchored on date's local
// calendar day; sunrise is the last occurrence of its clock before noon and
// sunset the first occurrence after it, so a sunset past local midnight
// stays after sunrise.
func NewSolarDay(date time.Time, raw RawEphemeris, offsetHours float64) (SolarDay, error) {
	noon, err := Normalize(date, raw.SolarNoon, offsetHours)
	if err != nil {
		return SolarDay{}, err
	}
	riseClock, err := ParseClock(raw.Sunrise)
	if err != nil {
		return SolarDay{}, err
	}
	setClock, err := ParseClock(raw.Sunset)
	if err != nil {
		return SolarDay{}, err
	}
	zone := noon.Location()
	sunrise := alignBefore(noon, riseClock).In(zone)
	sunset := alignAfter(noon, setClock).In(zone)
	length, err := ParseDayLength(raw.DayLength)
	if err != nil {
		return SolarDay{}, err
	}

	if !sunrise.Before(noon) || !noon.Before(sunset) {
		msg := fmt.Sprintf("solar events out of order on %s at offset %+.2fh: sunrise=%s solar_noon=%s sunset=%s",
			util.FormatDate(date), offsetHours,
			sunrise.Format(time.RFC3339), noon.Format(time.RFC3339), sunset.Format(time.RFC3339))
		return SolarDay{}, apperrors.Wrap(CodeOrdering, msg, nil)
	}

	return SolarDay{
		Date:      util.DateOf(date),
		Sunrise:   sunrise,
		Sunset:    sunset,
		SolarNoon: noon,
		DayLength: length,
	}, nil
}

// alignBefore places clock on the UTC day of anchor, or the day before,
// so the result lies in (anchor-24h, anchor].
func alignBefore(anchor time.Time, clock time.Duration) time.Time {
	event := util.DateOf(anchor.UTC()).Add(clock)
	if event.After(anchor) {
		event = event.Add(-oneDay)
	}
	return event
}

// alignAfter places clock so the result lies in [anchor, anchor+24h).
func alignAfter(anchor time.Time, clock time.Duration) time.Time {
	event := util.DateOf(anchor.UTC()).Add(clock)
	if event.Before(anchor) {
		event = event.Add(oneDay)
	}
	return event
}

func offsetDuration(hours float64) (time.Duration, error) {
	if math.IsNaN(hours) || hours < minOffsetHours || hours > maxOffsetHours {
		return 0, apperrors.Wrap(CodeInvalidOffset, fmt.Sprintf("utc offset %v outside [%d, %d] hours", hours, minOffsetHours, maxOffsetHours), nil)
	}
	return time.Duration(math.Round(hours*3600)) * time.Second, nil
}

func fixedZone(offset time.Duration) *time.Location {
	seconds := int(offset / time.Second)
	sign := '+'
	abs := seconds
	if seconds < 0 {
		sign = '-'
		abs = -seconds
	}
	name := fmt.Sprintf("UTC%c%02d:%02d", sign, abs/3600, (abs%3600)/60)
	return time.FixedZone(name, seconds)
}
