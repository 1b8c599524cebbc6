package solar

import (
	"context"
	"fmt"
	"time"

	"github.com/yanqian/watermate/pkg/util"
)

// EphemerisStore caches raw provider output keyed by location and date.
type EphemerisStore interface {
	Get(ctx context.Context, key string) (RawEphemeris, bool, error)
	Save(ctx context.Context, key string, raw RawEphemeris, ttl time.Duration) error
}

// EphemerisKey builds the cache key for a lookup. Coordinates are rounded
// to four decimals (about 11 m), far below any change in solar events.
func EphemerisKey(location GeoCoordinate, date time.Time) string {
	return fmt.Sprintf("%.4f:%.4f:%s", location.Latitude, location.Longitude, util.FormatDate(date))
}
