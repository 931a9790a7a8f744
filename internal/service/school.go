package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/locus/internal/metrics"
	"github.com/UnknownOlympus/locus/internal/models"
	"github.com/UnknownOlympus/locus/internal/ranking"
	"github.com/UnknownOlympus/locus/internal/validation"
)

// Operation names used as metric labels.
const (
	OpAddSchool              = "add_school"
	OpListSchools            = "list_schools"
	OpListSchoolsByProximity = "list_schools_by_proximity"
)

// ErrStore marks failures of the record store. Callers should report them as a generic failure.
var ErrStore = errors.New("record store failure")

// Store is the part of the record store used by SchoolService directly.
type Store interface {
	InsertSchool(ctx context.Context, school models.School) (int64, error)
	ListSchools(ctx context.Context) ([]models.School, error)
}

// NewSchool is the input of AddSchool.
type NewSchool struct {
	Name      string   `json:"name"      validate:"required"`
	Address   string   `json:"address"   validate:"required"`
	Latitude  *float64 `json:"latitude"  validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`

	mistyped []mistypedField
}

type mistypedField struct {
	name string
	kind string
}

// UnmarshalJSON decodes every field independently. A value of the wrong JSON type does not
// fail the decode; it is kept aside and reported by AddSchool together with the other violations.
func (ns *NewSchool) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*ns = NewSchool{}
	ns.decodeField(raw, "name", "string", &ns.Name)
	ns.decodeField(raw, "address", "string", &ns.Address)
	ns.decodeField(raw, "latitude", "number", &ns.Latitude)
	ns.decodeField(raw, "longitude", "number", &ns.Longitude)

	return nil
}

func (ns *NewSchool) decodeField(raw map[string]json.RawMessage, name, kind string, dst any) {
	value, ok := raw[name]
	if !ok {
		return
	}

	if err := json.Unmarshal(value, dst); err != nil {
		ns.mistyped = append(ns.mistyped, mistypedField{name: name, kind: kind})
	}
}

// ProximityQuery carries the raw query point of ListSchoolsByProximity. Values are
// coerced to numbers before validation.
type ProximityQuery struct {
	Latitude  string
	Longitude string
}

type queryPoint struct {
	Latitude  *float64 `json:"latitude"  validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

// SchoolService validates requests and dispatches them to the record store and the ranker.
type SchoolService struct {
	log       *slog.Logger          // Logger for logging service activities
	store     Store                 // Record store for inserts and plain listing
	ranker    ranking.Ranker        // Ranker used for proximity queries
	strategy  ranking.Strategy      // Strategy of the ranker, for metrics labeling
	metrics   *metrics.Metrics      // Metrics for tracking service performance
	validator *validation.Validator // Validator for incoming payloads
}

// NewSchoolService creates a new instance of SchoolService.
func NewSchoolService(
	log *slog.Logger,
	store Store,
	ranker ranking.Ranker,
	strategy ranking.Strategy,
	metrics *metrics.Metrics,
	validator *validation.Validator,
) *SchoolService {
	return &SchoolService{
		log:       log,
		store:     store,
		ranker:    ranker,
		strategy:  strategy,
		metrics:   metrics,
		validator: validator,
	}
}

// AddSchool validates input and stores it as a new school, returning its identifier.
// Invalid input is rejected with a *validation.Error and never reaches the store.
func (ss *SchoolService) AddSchool(ctx context.Context, input NewSchool) (int64, error) {
	defer ss.observe(OpAddSchool, time.Now())

	input.Name = strings.TrimSpace(input.Name)
	input.Address = strings.TrimSpace(input.Address)

	vErr := &validation.Error{}
	skip := make([]string, 0, len(input.mistyped))
	for _, field := range input.mistyped {
		vErr.Add("%s must be a %s", field.name, field.kind)
		skip = append(skip, field.name)
	}

	ss.validator.StructInto(input, vErr, skip...)
	if err := vErr.OrNil(); err != nil {
		ss.metrics.Operations.WithLabelValues(OpAddSchool, metrics.StatusInvalid).Inc()
		ss.log.DebugContext(ctx, "Rejected school", "error", err)
		return 0, err
	}

	id, err := ss.store.InsertSchool(ctx, models.School{
		Name:      input.Name,
		Address:   input.Address,
		Latitude:  *input.Latitude,
		Longitude: *input.Longitude,
	})
	if err != nil {
		ss.metrics.Operations.WithLabelValues(OpAddSchool, metrics.StatusFailure).Inc()
		ss.log.ErrorContext(ctx, "Failed to add school", "name", input.Name, "error", err)
		return 0, fmt.Errorf("%w: %w", ErrStore, err)
	}

	ss.metrics.Operations.WithLabelValues(OpAddSchool, metrics.StatusSuccess).Inc()
	ss.log.InfoContext(ctx, "School added", "id", id, "name", input.Name)

	return id, nil
}

// ListSchoolsByProximity returns every school ordered by distance to the query point.
// Missing, non-numeric or out-of-range coordinates are rejected before the store is queried.
func (ss *SchoolService) ListSchoolsByProximity(
	ctx context.Context,
	query ProximityQuery,
) ([]models.RankedSchool, error) {
	defer ss.observe(OpListSchoolsByProximity, time.Now())

	origin, err := ss.ParseQueryPoint(query)
	if err != nil {
		ss.metrics.Operations.WithLabelValues(OpListSchoolsByProximity, metrics.StatusInvalid).Inc()
		ss.log.DebugContext(ctx, "Rejected proximity query", "error", err)
		return nil, err
	}

	startTime := time.Now()
	ranked, err := ss.ranker.Rank(ctx, origin)
	ss.metrics.RankingSeconds.WithLabelValues(string(ss.strategy)).Observe(time.Since(startTime).Seconds())
	if err != nil {
		ss.metrics.Operations.WithLabelValues(OpListSchoolsByProximity, metrics.StatusFailure).Inc()
		ss.log.ErrorContext(ctx, "Failed to rank schools", "strategy", ss.strategy, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}

	ss.metrics.RankedSchools.Observe(float64(len(ranked)))
	ss.metrics.Operations.WithLabelValues(OpListSchoolsByProximity, metrics.StatusSuccess).Inc()

	return ranked, nil
}

// ListSchools returns every stored school without ranking.
func (ss *SchoolService) ListSchools(ctx context.Context) ([]models.School, error) {
	defer ss.observe(OpListSchools, time.Now())

	schools, err := ss.store.ListSchools(ctx)
	if err != nil {
		ss.metrics.Operations.WithLabelValues(OpListSchools, metrics.StatusFailure).Inc()
		ss.log.ErrorContext(ctx, "Failed to list schools", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}

	ss.metrics.Operations.WithLabelValues(OpListSchools, metrics.StatusSuccess).Inc()

	return schools, nil
}

// ParseQueryPoint coerces the raw query values to numbers and validates their ranges.
// All problems are reported together in a single *validation.Error.
func (ss *SchoolService) ParseQueryPoint(query ProximityQuery) (models.Coordinates, error) {
	vErr := &validation.Error{}
	var point queryPoint
	var unparsed []string

	point.Latitude = coerce("latitude", query.Latitude, vErr, &unparsed)
	point.Longitude = coerce("longitude", query.Longitude, vErr, &unparsed)

	ss.validator.StructInto(point, vErr, unparsed...)
	if err := vErr.OrNil(); err != nil {
		return models.Coordinates{}, err
	}

	return models.Coordinates{Latitude: *point.Latitude, Longitude: *point.Longitude}, nil
}

// coerce parses raw into a float. Empty input yields nil so that the required rule reports it.
func coerce(field, raw string, vErr *validation.Error, unparsed *[]string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		vErr.Add("%s must be a number", field)
		*unparsed = append(*unparsed, field)
		return nil
	}

	return &value
}

func (ss *SchoolService) observe(operation string, start time.Time) {
	ss.metrics.OperationSeconds.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
