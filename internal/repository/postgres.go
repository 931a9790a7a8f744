package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/locus/internal/models"
	"github.com/jackc/pgx/v5"
)

const (
	pgCreateSchoolsTable = `
		CREATE TABLE IF NOT EXISTS schools (
			id        BIGSERIAL PRIMARY KEY,
			name      TEXT NOT NULL CHECK (name <> ''),
			address   TEXT NOT NULL CHECK (address <> ''),
			latitude  DOUBLE PRECISION NOT NULL CHECK (latitude BETWEEN -90 AND 90),
			longitude DOUBLE PRECISION NOT NULL CHECK (longitude BETWEEN -180 AND 180)
		);
	`

	pgInsertSchool = `
		INSERT INTO schools (name, address, latitude, longitude)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`

	pgSelectSchools = `
		SELECT id, name, address, latitude, longitude
		FROM schools;
	`

	// The Haversine term is clamped to 1 before ASIN, see geo.Distance.
	pgSelectSchoolsByDistance = `
		SELECT id, name, address, latitude, longitude,
			6371.0 * 2 * ASIN(LEAST(1.0, SQRT(
				POWER(SIN(RADIANS(latitude - $1::double precision) / 2), 2)
				+ COS(RADIANS($1::double precision)) * COS(RADIANS(latitude))
				* POWER(SIN(RADIANS(longitude - $2::double precision) / 2), 2)
			))) AS distance
		FROM schools
		ORDER BY distance ASC;
	`
)

// Migrate creates the schools table if it is absent. It is safe to run on every startup.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, pgCreateSchoolsTable); err != nil {
		return fmt.Errorf("failed to create schools table: %w", err)
	}

	r.log.DebugContext(ctx, "Schools table is ready", "store", "postgres")

	return nil
}

// InsertSchool stores a new school and returns the generated identifier.
func (r *Repository) InsertSchool(ctx context.Context, school models.School) (int64, error) {
	var id int64

	err := r.db.QueryRow(ctx, pgInsertSchool, school.Name, school.Address, school.Latitude, school.Longitude).
		Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert school: %w", err)
	}

	r.log.DebugContext(ctx, "School has been stored", "id", id, "name", school.Name)

	return id, nil
}

// ListSchools returns every stored school. The order is whatever the server produces.
func (r *Repository) ListSchools(ctx context.Context) ([]models.School, error) {
	rows, err := r.db.Query(ctx, pgSelectSchools)
	if err != nil {
		return nil, fmt.Errorf("failed to query schools: %w", err)
	}
	defer rows.Close()

	schools := []models.School{}
	for rows.Next() {
		var school models.School
		if errScan := rows.Scan(
			&school.ID, &school.Name, &school.Address, &school.Latitude, &school.Longitude,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan school: %w", errScan)
		}
		schools = append(schools, school)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return schools, nil
}

// ListSchoolsByDistance evaluates the Haversine formula inside PostgreSQL and returns
// every school ordered by ascending distance to origin. Coordinates are bound as
// query parameters, never interpolated into the statement.
func (r *Repository) ListSchoolsByDistance(
	ctx context.Context,
	origin models.Coordinates,
) ([]models.RankedSchool, error) {
	rows, err := r.db.Query(ctx, pgSelectSchoolsByDistance, origin.Latitude, origin.Longitude)
	if err != nil {
		return nil, fmt.Errorf("failed to query schools by distance: %w", err)
	}

	ranked, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.RankedSchool, error) {
		var school models.RankedSchool
		errScan := row.Scan(
			&school.ID, &school.Name, &school.Address, &school.Latitude, &school.Longitude, &school.Distance,
		)
		return school, errScan
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read ranked schools: %w", err)
	}

	return ranked, nil
}

// Ping checks that the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	return nil
}
