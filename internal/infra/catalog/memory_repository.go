package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/yanqian/watermate/internal/domain/watering"
)

// DefaultProfiles seeds the catalog when configuration names no species.
var DefaultProfiles = []watering.PlantLightProfile{
	{Species: "Cactus", BaseDailyHours: 14, MaxIntervalDays: 90},
	{Species: "Begonia", BaseDailyHours: 4, MaxIntervalDays: 10},
}

// MemoryRepository keeps species profiles in process memory.
type MemoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]watering.PlantLightProfile
}

// NewMemoryRepository validates and indexes the seed profiles.
func NewMemoryRepository(seed []watering.PlantLightProfile) (*MemoryRepository, error) {
	repo := &MemoryRepository{profiles: make(map[string]watering.PlantLightProfile, len(seed))}
	for _, profile := range seed {
		if err := repo.Put(profile); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

// Put adds or replaces a species profile.
func (r *MemoryRepository) Put(profile watering.PlantLightProfile) error {
	key := speciesKey(profile.Species)
	if key == "" {
		return fmt.Errorf("species name is required")
	}
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("species %q: %w", profile.Species, err)
	}
	profile.Species = strings.TrimSpace(profile.Species)
	r.mu.Lock()
	r.profiles[key] = profile
	r.mu.Unlock()
	return nil
}

// FindBySpecies implements watering.ProfileRepository.
func (r *MemoryRepository) FindBySpecies(_ context.Context, species string) (watering.PlantLightProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[speciesKey(species)]
	if !ok {
		return watering.PlantLightProfile{}, watering.ErrProfileNotFound
	}
	return profile, nil
}

// List returns every profile ordered by species name.
func (r *MemoryRepository) List(_ context.Context) ([]watering.PlantLightProfile, error) {
	r.mu.RLock()
	out := make([]watering.PlantLightProfile, 0, len(r.profiles))
	for _, profile := range r.profiles {
		out = append(out, profile)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].Species < out[j].Species
	})
	return out, nil
}

func speciesKey(species string) string {
	return strings.ToLower(strings.TrimSpace(species))
}

var _ watering.ProfileRepository = (*MemoryRepository)(nil)
