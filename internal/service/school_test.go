package service_test

import (
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/UnknownOlympus/locus/internal/metrics"
	"github.com/UnknownOlympus/locus/internal/models"
	"github.com/UnknownOlympus/locus/internal/ranking"
	"github.com/UnknownOlympus/locus/internal/service"
	"github.com/UnknownOlympus/locus/internal/validation"
	"github.com/UnknownOlympus/locus/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

type fixture struct {
	store   *mocks.Interface
	ranker  *mocks.Ranker
	metrics *metrics.Metrics
	service *service.SchoolService
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	validator, err := validation.New()
	require.NoError(t, err)

	store := mocks.NewInterface(t)
	ranker := mocks.NewRanker(t)
	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	return fixture{
		store:   store,
		ranker:  ranker,
		metrics: appMetrics,
		service: service.NewSchoolService(logger, store, ranker, ranking.StrategyService, appMetrics, validator),
	}
}

func TestAddSchool(t *testing.T) {
	ctx := t.Context()

	t.Run("success - school stored", func(t *testing.T) {
		f := newFixture(t)
		expected := models.School{Name: "Lyceum", Address: "Main st 1", Latitude: 40.7, Longitude: -73.9}
		f.store.On("InsertSchool", ctx, expected).Return(int64(5), nil).Once()

		id, err := f.service.AddSchool(ctx, service.NewSchool{
			Name: "  Lyceum ", Address: "Main st 1", Latitude: ptr(40.7), Longitude: ptr(-73.9),
		})

		require.NoError(t, err)
		assert.Equal(t, int64(5), id)
		assert.InDelta(t, 1.0, testutil.ToFloat64(
			f.metrics.Operations.WithLabelValues(service.OpAddSchool, metrics.StatusSuccess)), 0)
	})

	t.Run("error - latitude out of range never reaches the store", func(t *testing.T) {
		f := newFixture(t)

		id, err := f.service.AddSchool(ctx, service.NewSchool{
			Name: "Lyceum", Address: "Main st 1", Latitude: ptr(91), Longitude: ptr(0),
		})

		assert.Zero(t, id)
		var vErr *validation.Error
		require.ErrorAs(t, err, &vErr)
		require.Len(t, vErr.Violations, 1)
		assert.Contains(t, vErr.Violations[0], "latitude")
		f.store.AssertNotCalled(t, "InsertSchool", mock.Anything, mock.Anything)
	})

	t.Run("error - every violated field is listed", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.AddSchool(ctx, service.NewSchool{Name: "   ", Longitude: ptr(-200)})

		var vErr *validation.Error
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, []string{
			"name is a required field",
			"address is a required field",
			"latitude is a required field",
			"longitude must be -180 or greater",
		}, vErr.Violations)
		assert.InDelta(t, 1.0, testutil.ToFloat64(
			f.metrics.Operations.WithLabelValues(service.OpAddSchool, metrics.StatusInvalid)), 0)
	})

	t.Run("error - wrongly typed JSON values are listed with the other violations", func(t *testing.T) {
		f := newFixture(t)

		var input service.NewSchool
		require.NoError(t, json.Unmarshal(
			[]byte(`{"name":7,"address":"","latitude":"north","longitude":500}`), &input))

		_, err := f.service.AddSchool(ctx, input)

		var vErr *validation.Error
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, []string{
			"name must be a string",
			"latitude must be a number",
			"address is a required field",
			"longitude must be 180 or less",
		}, vErr.Violations)
		f.store.AssertNotCalled(t, "InsertSchool", mock.Anything, mock.Anything)
	})

	t.Run("success - decoded JSON is stored, unknown keys ignored", func(t *testing.T) {
		f := newFixture(t)
		expected := models.School{Name: "Lyceum", Address: "Main st 1", Latitude: -33.8688, Longitude: 151.2093}
		f.store.On("InsertSchool", ctx, expected).Return(int64(9), nil).Once()

		var input service.NewSchool
		require.NoError(t, json.Unmarshal(
			[]byte(`{"name":"Lyceum","address":"Main st 1","latitude":-33.8688,"longitude":151.2093,"extra":true}`),
			&input))

		id, err := f.service.AddSchool(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, int64(9), id)
	})

	t.Run("error - store failure", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("InsertSchool", ctx, mock.Anything).Return(int64(0), assert.AnError).Once()

		id, err := f.service.AddSchool(ctx, service.NewSchool{
			Name: "Lyceum", Address: "Main st 1", Latitude: ptr(0), Longitude: ptr(0),
		})

		assert.Zero(t, id)
		require.ErrorIs(t, err, service.ErrStore)
		require.ErrorIs(t, err, assert.AnError)
		assert.False(t, validation.IsValidationError(err))
	})
}

func TestListSchoolsByProximity(t *testing.T) {
	ctx := t.Context()

	t.Run("success - numeric strings are coerced", func(t *testing.T) {
		f := newFixture(t)
		origin := models.Coordinates{Latitude: 40.73061, Longitude: -73.935242}
		expected := []models.RankedSchool{{School: models.School{ID: 1}, Distance: 0}}
		f.ranker.On("Rank", ctx, origin).Return(expected, nil).Once()

		ranked, err := f.service.ListSchoolsByProximity(ctx, service.ProximityQuery{
			Latitude: "40.730610", Longitude: " -73.935242",
		})

		require.NoError(t, err)
		assert.Equal(t, expected, ranked)
	})

	t.Run("error - non-numeric latitude issues no store query", func(t *testing.T) {
		f := newFixture(t)

		ranked, err := f.service.ListSchoolsByProximity(ctx, service.ProximityQuery{
			Latitude: "north", Longitude: "10",
		})

		require.Nil(t, ranked)
		var vErr *validation.Error
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, []string{"latitude must be a number"}, vErr.Violations)
		f.ranker.AssertNotCalled(t, "Rank", mock.Anything, mock.Anything)
	})

	t.Run("error - missing and out of range values are reported together", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.ListSchoolsByProximity(ctx, service.ProximityQuery{Longitude: "181"})

		var vErr *validation.Error
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, []string{
			"latitude is a required field",
			"longitude must be 180 or less",
		}, vErr.Violations)
	})

	t.Run("error - NaN is not a number", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.ListSchoolsByProximity(ctx, service.ProximityQuery{Latitude: "NaN", Longitude: "Inf"})

		var vErr *validation.Error
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, []string{"latitude must be a number", "longitude must be a number"}, vErr.Violations)
	})

	t.Run("error - ranking failure", func(t *testing.T) {
		f := newFixture(t)
		f.ranker.On("Rank", ctx, models.Coordinates{Latitude: 1, Longitude: 2}).Return(nil, assert.AnError).Once()

		ranked, err := f.service.ListSchoolsByProximity(ctx, service.ProximityQuery{Latitude: "1", Longitude: "2"})

		require.Nil(t, ranked)
		require.ErrorIs(t, err, service.ErrStore)
		assert.InDelta(t, 1.0, testutil.ToFloat64(
			f.metrics.Operations.WithLabelValues(service.OpListSchoolsByProximity, metrics.StatusFailure)), 0)
	})
}

func TestListSchools(t *testing.T) {
	ctx := t.Context()

	t.Run("success - all schools", func(t *testing.T) {
		f := newFixture(t)
		expected := []models.School{{ID: 1}, {ID: 2}}
		f.store.On("ListSchools", ctx).Return(expected, nil).Once()

		schools, err := f.service.ListSchools(ctx)

		require.NoError(t, err)
		assert.Equal(t, expected, schools)
	})

	t.Run("error - store failure", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("ListSchools", ctx).Return(nil, assert.AnError).Once()

		schools, err := f.service.ListSchools(ctx)

		require.Nil(t, schools)
		require.ErrorIs(t, err, service.ErrStore)
	})
}
