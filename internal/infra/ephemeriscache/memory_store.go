package ephemeriscache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/watermate/internal/domain/solar"
)

type entry struct {
	raw       solar.RawEphemeris
	expiresAt time.Time
}

// MemoryStore keeps ephemeris entries in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get implements solar.EphemerisStore.
func (s *MemoryStore) Get(_ context.Context, key string) (solar.RawEphemeris, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return solar.RawEphemeris{}, false, nil
	}
	if s.expired(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return solar.RawEphemeris{}, false, nil
	}
	return e.raw, true, nil
}

// Save stores raw under key; a non-positive ttl never expires.
func (s *MemoryStore) Save(_ context.Context, key string, raw solar.RawEphemeris, ttl time.Duration) error {
	exp := time.Time{}
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[key] = entry{raw: raw, expiresAt: exp}
	s.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) expired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return !ts.After(s.now())
}

var _ solar.EphemerisStore = (*MemoryStore)(nil)
