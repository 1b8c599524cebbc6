package catalog

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/watermate/internal/domain/watering"
)

// PostgresRepository reads species profiles from the plant_type table:
//
//	CREATE TABLE plant_type (
//	    id                     SERIAL PRIMARY KEY,
//	    name                   TEXT UNIQUE NOT NULL,
//	    base_daily_hours       DOUBLE PRECISION NOT NULL,
//	    max_days_without_water INTEGER NOT NULL
//	);
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// FindBySpecies matches the species name case-insensitively.
func (r *PostgresRepository) FindBySpecies(ctx context.Context, species string) (watering.PlantLightProfile, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name, base_daily_hours, max_days_without_water
		FROM plant_type
		WHERE lower(name) = lower($1)
		LIMIT 1
	`, strings.TrimSpace(species))
	if err != nil {
		return watering.PlantLightProfile{}, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return watering.PlantLightProfile{}, err
		}
		return watering.PlantLightProfile{}, watering.ErrProfileNotFound
	}
	profile, err := scanProfile(rows)
	if err != nil {
		return watering.PlantLightProfile{}, err
	}
	return profile, rows.Err()
}

// List returns every profile ordered by species name.
func (r *PostgresRepository) List(ctx context.Context) ([]watering.PlantLightProfile, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name, base_daily_hours, max_days_without_water
		FROM plant_type
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []watering.PlantLightProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, profile)
	}
	return out, rows.Err()
}

func scanProfile(row pgx.Row) (watering.PlantLightProfile, error) {
	var profile watering.PlantLightProfile
	if err := row.Scan(&profile.Species, &profile.BaseDailyHours, &profile.MaxIntervalDays); err != nil {
		return watering.PlantLightProfile{}, err
	}
	return profile, nil
}

var _ watering.ProfileRepository = (*PostgresRepository)(nil)
