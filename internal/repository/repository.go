package repository

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/locus/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Interface is the record store contract consumed by the ranking and school services.
type Interface interface {
	// Migrate creates the schools table if it does not exist yet.
	Migrate(ctx context.Context) error
	// InsertSchool persists a school and returns the identifier assigned by the store.
	InsertSchool(ctx context.Context, school models.School) (int64, error)
	// ListSchools returns every stored school in no particular order.
	ListSchools(ctx context.Context) ([]models.School, error)
	// ListSchoolsByDistance returns every stored school annotated with its distance
	// to origin, computed and ordered by the store itself.
	ListSchoolsByDistance(ctx context.Context, origin models.Coordinates) ([]models.RankedSchool, error)
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}

// Database is the subset of *pgxpool.Pool used by Repository. It is satisfied by pgxmock pools in tests.
type Database interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Repository is the PostgreSQL implementation of Interface.
type Repository struct {
	db  Database
	log *slog.Logger
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}
