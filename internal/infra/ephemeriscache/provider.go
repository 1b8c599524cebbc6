package ephemeriscache

import (
	"context"
	"log/slog"
	"time"

	"github.com/yanqian/watermate/internal/domain/solar"
)

// Observer is notified of every lookup outcome.
type Observer interface {
	ObserveEphemeris(source, outcome string)
}

type nopObserver struct{}

func (nopObserver) ObserveEphemeris(string, string) {}

// CachedProvider answers lookups from a store before asking the upstream
// provider. Only successful upstream answers are stored, and a store
// failure degrades to an upstream call; a failed upstream call is never
// replaced by cached or default data for another key.
type CachedProvider struct {
	next     solar.EphemerisProvider
	store    solar.EphemerisStore
	ttl      time.Duration
	observer Observer
	logger   *slog.Logger
}

// NewCachedProvider decorates next with store.
func NewCachedProvider(next solar.EphemerisProvider, store solar.EphemerisStore, ttl time.Duration, observer Observer, logger *slog.Logger) *CachedProvider {
	if observer == nil {
		observer = nopObserver{}
	}
	return &CachedProvider{
		next:     next,
		store:    store,
		ttl:      ttl,
		observer: observer,
		logger:   logger.With("component", "ephemeriscache.provider"),
	}
}

func (p *CachedProvider) Lookup(ctx context.Context, location solar.GeoCoordinate, date time.Time) (solar.RawEphemeris, error) {
	key := solar.EphemerisKey(location, date)

	raw, ok, err := p.store.Get(ctx, key)
	switch {
	case err != nil:
		p.logger.Warn("ephemeris cache read failed", "key", key, "error", err)
		p.observer.ObserveEphemeris("cache", "error")
	case ok:
		p.observer.ObserveEphemeris("cache", "hit")
		return raw, nil
	default:
		p.observer.ObserveEphemeris("cache", "miss")
	}

	raw, err = p.next.Lookup(ctx, location, date)
	if err != nil {
		p.observer.ObserveEphemeris("provider", "error")
		return solar.RawEphemeris{}, err
	}
	p.observer.ObserveEphemeris("provider", "ok")

	if err := p.store.Save(ctx, key, raw, p.ttl); err != nil {
		p.logger.Warn("ephemeris cache write failed", "key", key, "error", err)
	}
	return raw, nil
}

var _ solar.EphemerisProvider = (*CachedProvider)(nil)
