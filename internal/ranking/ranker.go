package ranking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/locus/internal/models"
)

// Ranker produces every stored school ordered by distance to origin.
type Ranker interface {
	Rank(ctx context.Context, origin models.Coordinates) ([]models.RankedSchool, error)
}

// DistanceQuerier is the part of the record store used by StoreRanker.
type DistanceQuerier interface {
	ListSchoolsByDistance(ctx context.Context, origin models.Coordinates) ([]models.RankedSchool, error)
}

// SchoolLister is the part of the record store used by ServiceRanker.
type SchoolLister interface {
	ListSchools(ctx context.Context) ([]models.School, error)
}

// StoreRanker pushes the distance computation and the ordering into the record store.
// Only the ranked rows cross the wire.
type StoreRanker struct {
	store DistanceQuerier
	log   *slog.Logger
}

// NewStoreRanker creates a ranker that delegates to the store's ranked query.
func NewStoreRanker(store DistanceQuerier, log *slog.Logger) *StoreRanker {
	return &StoreRanker{store: store, log: log}
}

// Rank returns the rows ranked by the store.
func (sr *StoreRanker) Rank(ctx context.Context, origin models.Coordinates) ([]models.RankedSchool, error) {
	ranked, err := sr.store.ListSchoolsByDistance(ctx, origin)
	if err != nil {
		return nil, fmt.Errorf("failed to rank schools in store: %w", err)
	}

	sr.log.DebugContext(ctx, "Schools ranked by store", "count", len(ranked))

	return ranked, nil
}

// ServiceRanker fetches raw rows and ranks them in process with the Haversine distance.
type ServiceRanker struct {
	store SchoolLister
	log   *slog.Logger
}

// NewServiceRanker creates a ranker that computes distances in process.
func NewServiceRanker(store SchoolLister, log *slog.Logger) *ServiceRanker {
	return &ServiceRanker{store: store, log: log}
}

// Rank loads every school and ranks it against origin.
func (sr *ServiceRanker) Rank(ctx context.Context, origin models.Coordinates) ([]models.RankedSchool, error) {
	schools, err := sr.store.ListSchools(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load schools for ranking: %w", err)
	}

	ranked := Rank(origin, schools)
	sr.log.DebugContext(ctx, "Schools ranked in process", "count", len(ranked))

	return ranked, nil
}
