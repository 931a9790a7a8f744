package ranking_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/locus/internal/models"
	"github.com/UnknownOlympus/locus/internal/ranking"
	"github.com/UnknownOlympus/locus/internal/repository"
	"github.com/UnknownOlympus/locus/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRanker(t *testing.T) {
	ctx := t.Context()
	origin := models.Coordinates{Latitude: 40.7306, Longitude: -73.9352}

	t.Run("returns rows ranked by the store", func(t *testing.T) {
		store := mocks.NewInterface(t)
		expected := []models.RankedSchool{
			{School: models.School{ID: 1, Name: "Near"}, Distance: 1},
			{School: models.School{ID: 2, Name: "Far"}, Distance: 2},
		}
		store.On("ListSchoolsByDistance", ctx, origin).Return(expected, nil).Once()

		ranked, err := ranking.NewStoreRanker(store, slog.Default()).Rank(ctx, origin)

		require.NoError(t, err)
		assert.Equal(t, expected, ranked)
	})

	t.Run("store failure", func(t *testing.T) {
		store := mocks.NewInterface(t)
		store.On("ListSchoolsByDistance", ctx, origin).Return(nil, assert.AnError).Once()

		ranked, err := ranking.NewStoreRanker(store, slog.Default()).Rank(ctx, origin)

		require.Nil(t, ranked)
		require.ErrorIs(t, err, assert.AnError)
		assert.ErrorContains(t, err, "failed to rank schools in store")
	})
}

func TestServiceRanker(t *testing.T) {
	ctx := t.Context()
	origin := models.Coordinates{Latitude: 40.7306, Longitude: -73.9352}

	t.Run("ranks raw rows in process", func(t *testing.T) {
		store := mocks.NewInterface(t)
		store.On("ListSchools", ctx).Return([]models.School{
			{ID: 1, Name: "London", Latitude: 51.5074, Longitude: -0.1278},
			{ID: 2, Name: "New York", Latitude: 40.7306, Longitude: -73.9352},
		}, nil).Once()

		ranked, err := ranking.NewServiceRanker(store, slog.Default()).Rank(ctx, origin)

		require.NoError(t, err)
		require.Len(t, ranked, 2)
		assert.Equal(t, "New York", ranked[0].Name)
		assert.InDelta(t, 0.0, ranked[0].Distance, 1e-9)
		assert.InDelta(t, 5570.0, ranked[1].Distance, 10)
	})

	t.Run("store failure", func(t *testing.T) {
		store := mocks.NewInterface(t)
		store.On("ListSchools", ctx).Return(nil, assert.AnError).Once()

		ranked, err := ranking.NewServiceRanker(store, slog.Default()).Rank(ctx, origin)

		require.Nil(t, ranked)
		require.ErrorIs(t, err, assert.AnError)
		assert.ErrorContains(t, err, "failed to load schools for ranking")
	})
}

// Both strategies must agree on the same data set up to floating point rounding.
func TestStrategiesAgree(t *testing.T) {
	ctx := t.Context()

	db, err := repository.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := repository.NewSQLiteRepository(db, slog.Default())
	require.NoError(t, store.Migrate(ctx))

	points := []models.Coordinates{
		{Latitude: 51.5074, Longitude: -0.1278},
		{Latitude: 40.7306, Longitude: -73.9352},
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 35.6762, Longitude: 139.6503},
		{Latitude: 50.4501, Longitude: 30.5234},
		{Latitude: 89.9, Longitude: 12},
	}
	for _, p := range points {
		_, err = store.InsertSchool(ctx, models.School{
			Name: "school", Address: "address", Latitude: p.Latitude, Longitude: p.Longitude,
		})
		require.NoError(t, err)
	}

	storeRanker, err := ranking.NewRanker(ranking.Config{Strategy: ranking.StrategyStore, Store: store})
	require.NoError(t, err)
	serviceRanker, err := ranking.NewRanker(ranking.Config{Strategy: ranking.StrategyService, Store: store})
	require.NoError(t, err)

	origin := models.Coordinates{Latitude: 48.8566, Longitude: 2.3522}
	fromStore, err := storeRanker.Rank(ctx, origin)
	require.NoError(t, err)
	fromService, err := serviceRanker.Rank(ctx, origin)
	require.NoError(t, err)

	require.Len(t, fromService, len(fromStore))
	for i := range fromStore {
		assert.Equal(t, fromStore[i].ID, fromService[i].ID)
		assert.InDelta(t, fromStore[i].Distance, fromService[i].Distance, 1e-6)
	}
}
