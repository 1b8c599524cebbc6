package astro

import (
	"context"
	"fmt"
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/yanqian/watermate/internal/domain/solar"
	apperrors "github.com/yanqian/watermate/pkg/errors"
	"github.com/yanqian/watermate/pkg/util"
)

const clockLayout = "3:04:05 PM"

// Provider computes solar events locally instead of calling an API. It
// emits the same strings as api.sunrise-sunset.org so the domain parser
// is exercised identically.
type Provider struct{}

// NewProvider returns an offline ephemeris provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Lookup computes sunrise and sunset for date; solar noon is their midpoint.
func (p *Provider) Lookup(ctx context.Context, location solar.GeoCoordinate, date time.Time) (solar.RawEphemeris, error) {
	if err := ctx.Err(); err != nil {
		return solar.RawEphemeris{}, apperrors.Wrap(solar.CodeEphemerisUnavailable, "ephemeris lookup cancelled", err)
	}
	rise, set := sunrise.SunriseSunset(location.Latitude, location.Longitude, date.Year(), date.Month(), date.Day())
	if rise.IsZero() || set.IsZero() || !set.After(rise) {
		return solar.RawEphemeris{}, apperrors.Wrap(solar.CodeEphemerisUnavailable,
			fmt.Sprintf("no sunrise or sunset at %.4f,%.4f on %s", location.Latitude, location.Longitude, util.FormatDate(date)), nil)
	}

	rise = rise.UTC().Truncate(time.Second)
	set = set.UTC().Truncate(time.Second)
	length := set.Sub(rise)
	noon := rise.Add(length / 2)

	return solar.RawEphemeris{
		Sunrise:   rise.Format(clockLayout),
		Sunset:    set.Format(clockLayout),
		SolarNoon: noon.Format(clockLayout),
		DayLength: formatDayLength(length),
	}, nil
}

func formatDayLength(d time.Duration) string {
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

var _ solar.EphemerisProvider = (*Provider)(nil)
