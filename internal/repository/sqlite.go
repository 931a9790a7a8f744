package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"sync"

	"github.com/UnknownOlympus/locus/internal/geo"
	"github.com/UnknownOlympus/locus/internal/models"
	"modernc.org/sqlite"
)

// HaversineFunction is the name of the scalar SQL function registered with the SQLite driver.
const HaversineFunction = "haversine_km"

const (
	sqliteCreateSchoolsTable = `
		CREATE TABLE IF NOT EXISTS schools (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			name      TEXT NOT NULL CHECK (name <> ''),
			address   TEXT NOT NULL CHECK (address <> ''),
			latitude  REAL NOT NULL CHECK (latitude BETWEEN -90 AND 90),
			longitude REAL NOT NULL CHECK (longitude BETWEEN -180 AND 180)
		);
	`

	sqliteInsertSchool = `
		INSERT INTO schools (name, address, latitude, longitude)
		VALUES (?, ?, ?, ?);
	`

	sqliteSelectSchools = `
		SELECT id, name, address, latitude, longitude
		FROM schools;
	`

	sqliteSelectSchoolsByDistance = `
		SELECT id, name, address, latitude, longitude,
			haversine_km(?, ?, latitude, longitude) AS distance
		FROM schools
		ORDER BY distance ASC;
	`
)

var registerOnce sync.Once
var errRegister error

// RegisterFunctions registers the haversine_km scalar function with the SQLite driver.
// Only connections opened after the first call can use it. Subsequent calls are no-ops.
func RegisterFunctions() error {
	registerOnce.Do(func() {
		errRegister = sqlite.RegisterDeterministicScalarFunction(HaversineFunction, 4, haversineImpl)
	})

	return errRegister
}

func haversineImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	const argsCount = 4
	if len(args) != argsCount {
		return nil, fmt.Errorf("%s: expected %d arguments, got %d", HaversineFunction, argsCount, len(args))
	}

	values := make([]float64, argsCount)
	for i, arg := range args {
		switch v := arg.(type) {
		case nil:
			return nil, nil
		case float64:
			values[i] = v
		case int64:
			values[i] = float64(v)
		default:
			return nil, fmt.Errorf("%s: unsupported argument type %T at position %d", HaversineFunction, arg, i)
		}
	}

	return geo.Distance(
		models.Coordinates{Latitude: values[0], Longitude: values[1]},
		models.Coordinates{Latitude: values[2], Longitude: values[3]},
	), nil
}

// OpenSQLite opens a SQLite database with the pure-Go modernc driver and makes the
// haversine_km function available on it. The pool is limited to one connection so
// that ":memory:" databases are shared by every query.
func OpenSQLite(dsn string) (*sql.DB, error) {
	if err := RegisterFunctions(); err != nil {
		return nil, fmt.Errorf("failed to register sqlite functions: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	return db, nil
}

// SQLiteRepository is the SQLite implementation of Interface.
type SQLiteRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewSQLiteRepository wraps an already opened SQLite database. Use OpenSQLite to obtain one.
func NewSQLiteRepository(db *sql.DB, log *slog.Logger) *SQLiteRepository {
	return &SQLiteRepository{db: db, log: log}
}

// Migrate creates the schools table if it is absent.
func (r *SQLiteRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, sqliteCreateSchoolsTable); err != nil {
		return fmt.Errorf("failed to create schools table: %w", err)
	}

	r.log.DebugContext(ctx, "Schools table is ready", "store", "sqlite")

	return nil
}

// InsertSchool stores a new school and returns its row id.
func (r *SQLiteRepository) InsertSchool(ctx context.Context, school models.School) (int64, error) {
	res, err := r.db.ExecContext(ctx, sqliteInsertSchool, school.Name, school.Address, school.Latitude, school.Longitude)
	if err != nil {
		return 0, fmt.Errorf("failed to insert school: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted school id: %w", err)
	}

	r.log.DebugContext(ctx, "School has been stored", "id", id, "name", school.Name)

	return id, nil
}

// ListSchools returns every stored school.
func (r *SQLiteRepository) ListSchools(ctx context.Context) ([]models.School, error) {
	rows, err := r.db.QueryContext(ctx, sqliteSelectSchools)
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

// ListSchoolsByDistance ranks schools inside SQLite through the haversine_km function.
func (r *SQLiteRepository) ListSchoolsByDistance(
	ctx context.Context,
	origin models.Coordinates,
) ([]models.RankedSchool, error) {
	rows, err := r.db.QueryContext(ctx, sqliteSelectSchoolsByDistance, origin.Latitude, origin.Longitude)
	if err != nil {
		return nil, fmt.Errorf("failed to query schools by distance: %w", err)
	}
	defer rows.Close()

	ranked := []models.RankedSchool{}
	for rows.Next() {
		var school models.RankedSchool
		if errScan := rows.Scan(
			&school.ID, &school.Name, &school.Address, &school.Latitude, &school.Longitude, &school.Distance,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan ranked school: %w", errScan)
		}
		ranked = append(ranked, school)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return ranked, nil
}

// Ping checks that the database file can be reached.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping sqlite: %w", err)
	}

	return nil
}
