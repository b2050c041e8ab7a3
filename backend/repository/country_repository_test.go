package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"country-gdp-service/backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := OpenSQLite(dsn)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func strPtr(s string) *string { return &s }

func gdp(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func seed(t *testing.T, repo CountryRepository, ts time.Time) {
	t.Helper()
	require.NoError(t, repo.UpsertAll(context.Background(), []models.Country{
		{Name: "Nigeria", Region: strPtr("Africa"), CurrencyCode: strPtr("NGN"), Population: 206139589, EstimatedGDP: gdp(500), LastRefreshedAt: ts},
		{Name: "Ghana", Region: strPtr("Africa"), CurrencyCode: strPtr("GHS"), Population: 31072940, EstimatedGDP: gdp(100), LastRefreshedAt: ts},
		{Name: "Antarctica", Region: strPtr("Polar"), Population: 1000, LastRefreshedAt: ts},
	}))
}

func TestUpsertAllInsertsThenUpdatesByName(t *testing.T) {
	repo := NewGormCountryRepository(newTestDB(t))
	ctx := context.Background()
	first := time.Date(2025, 10, 22, 10, 0, 0, 0, time.UTC)
	seed(t, repo, first)

	second := first.Add(time.Hour)
	require.NoError(t, repo.UpsertAll(ctx, []models.Country{
		{Name: "Ghana", Region: strPtr("Africa"), CurrencyCode: strPtr("GHS"), Population: 32000000, EstimatedGDP: gdp(120), LastRefreshedAt: second},
	}))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	ghana, err := repo.FindByName(ctx, "Ghana")
	require.NoError(t, err)
	assert.Equal(t, int64(32000000), ghana.Population)
	assert.True(t, ghana.EstimatedGDP.Decimal.Equal(decimal.NewFromInt(120)))
	assert.True(t, ghana.LastRefreshedAt.Equal(second))

	latest, err := repo.LatestRefresh(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.True(t, latest.Equal(second))
}

func TestUpsertAllEmptyIsNoop(t *testing.T) {
	repo := NewGormCountryRepository(newTestDB(t))
	require.NoError(t, repo.UpsertAll(context.Background(), nil))
}

func TestUpsertAllRollsBackOnFailure(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCountryRepository(db)
	ctx := context.Background()

	ts := time.Now().UTC()
	countries := make([]models.Country, 0, upsertBatchSize+1)
	for i := 0; i < upsertBatchSize; i++ {
		countries = append(countries, models.Country{Name: fmt.Sprintf("Country %03d", i), LastRefreshedAt: ts})
	}
	// The second batch is rejected by a trigger and must undo the first one.
	require.NoError(t, db.Exec("CREATE TRIGGER reject_bad BEFORE INSERT ON countries WHEN NEW.name = 'Bad' BEGIN SELECT RAISE(ABORT, 'rejected'); END").Error)
	countries = append(countries, models.Country{Name: "Bad", LastRefreshedAt: ts})

	err := repo.UpsertAll(ctx, countries)
	require.Error(t, err)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListFiltersAndSorts(t *testing.T) {
	repo := NewGormCountryRepository(newTestDB(t))
	ctx := context.Background()
	seed(t, repo, time.Now().UTC())

	tests := []struct {
		name   string
		filter models.CountryFilter
		want   []string
	}{
		{name: "default sorts by name", filter: models.CountryFilter{}, want: []string{"Antarctica", "Ghana", "Nigeria"}},
		{name: "gdp desc puts nulls last", filter: models.CountryFilter{Sort: models.SortByGDPDesc}, want: []string{"Nigeria", "Ghana", "Antarctica"}},
		{name: "gdp asc puts nulls last", filter: models.CountryFilter{Sort: models.SortByGDPAsc}, want: []string{"Ghana", "Nigeria", "Antarctica"}},
		{name: "region filter", filter: models.CountryFilter{Region: "Africa"}, want: []string{"Ghana", "Nigeria"}},
		{name: "currency filter", filter: models.CountryFilter{Currency: "NGN"}, want: []string{"Nigeria"}},
		{name: "no match", filter: models.CountryFilter{Region: "Europe"}, want: []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			countries, err := repo.List(ctx, tc.filter)
			require.NoError(t, err)

			names := make([]string, 0, len(countries))
			for _, c := range countries {
				names = append(names, c.Name)
			}
			assert.Equal(t, tc.want, names)
		})
	}
}

func TestFindAndDelete(t *testing.T) {
	repo := NewGormCountryRepository(newTestDB(t))
	ctx := context.Background()
	seed(t, repo, time.Now().UTC())

	_, err := repo.FindByName(ctx, "Unknownland")
	assert.ErrorIs(t, err, ErrCountryNotFound)

	ghana, err := repo.FindByName(ctx, "Ghana")
	require.NoError(t, err)
	require.NoError(t, repo.DeleteByID(ctx, ghana.ID))

	_, err = repo.FindByName(ctx, "Ghana")
	assert.ErrorIs(t, err, ErrCountryNotFound)
	assert.ErrorIs(t, repo.DeleteByID(ctx, ghana.ID), ErrCountryNotFound)
}

func TestTopByGDPSkipsNulls(t *testing.T) {
	repo := NewGormCountryRepository(newTestDB(t))
	ctx := context.Background()
	seed(t, repo, time.Now().UTC())

	top, err := repo.TopByGDP(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Nigeria", top[0].Name)
	assert.Equal(t, "Ghana", top[1].Name)
}

func TestLatestRefreshEmptyStore(t *testing.T) {
	repo := NewGormCountryRepository(newTestDB(t))
	latest, err := repo.LatestRefresh(context.Background())
	require.NoError(t, err)
	assert.Nil(t, latest)
}
