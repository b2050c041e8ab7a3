package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"country-gdp-service/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrCountryNotFound is returned by lookups that match no record
var ErrCountryNotFound = errors.New("country not found")

const upsertBatchSize = 200

// upsertColumns are overwritten when a country with the same name exists
var upsertColumns = []string{
	"capital",
	"region",
	"population",
	"currency_code",
	"exchange_rate",
	"estimated_gdp",
	"flag_url",
	"last_refreshed_at",
}

type CountryRepository interface {
	// UpsertAll writes every country keyed by name in a single transaction.
	UpsertAll(ctx context.Context, countries []models.Country) error
	List(ctx context.Context, filter models.CountryFilter) ([]models.Country, error)
	FindByName(ctx context.Context, name string) (*models.Country, error)
	DeleteByID(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	// LatestRefresh returns nil when the store is empty.
	LatestRefresh(ctx context.Context) (*time.Time, error)
	// TopByGDP returns up to limit countries with a known GDP, highest first.
	TopByGDP(ctx context.Context, limit int) ([]models.Country, error)
}

type gormCountryRepository struct {
	db *gorm.DB
}

func NewGormCountryRepository(db *gorm.DB) CountryRepository {
	return &gormCountryRepository{db: db}
}

func (r *gormCountryRepository) UpsertAll(ctx context.Context, countries []models.Country) error {
	if len(countries) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).CreateInBatches(&countries, upsertBatchSize).Error
	})
	if err != nil {
		return fmt.Errorf("upsert %d countries: %w", len(countries), err)
	}
	return nil
}

func (r *gormCountryRepository) List(ctx context.Context, filter models.CountryFilter) ([]models.Country, error) {
	query := r.db.WithContext(ctx).Model(&models.Country{})

	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}
	if filter.Currency != "" {
		query = query.Where("currency_code = ?", filter.Currency)
	}

	switch filter.Sort {
	case models.SortByGDPDesc:
		query = query.Order("estimated_gdp IS NULL").Order("estimated_gdp DESC")
	case models.SortByGDPAsc:
		query = query.Order("estimated_gdp IS NULL").Order("estimated_gdp ASC")
	default:
		query = query.Order("name ASC")
	}

	countries := make([]models.Country, 0)
	if err := query.Find(&countries).Error; err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	return countries, nil
}

func (r *gormCountryRepository) FindByName(ctx context.Context, name string) (*models.Country, error) {
	var country models.Country
	err := r.db.WithContext(ctx).Where("name = ?", name).Take(&country).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCountryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find country %q: %w", name, err)
	}
	return &country, nil
}

func (r *gormCountryRepository) DeleteByID(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Country{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete country %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCountryNotFound
	}
	return nil
}

func (r *gormCountryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Country{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count countries: %w", err)
	}
	return count, nil
}

func (r *gormCountryRepository) LatestRefresh(ctx context.Context) (*time.Time, error) {
	var latest []models.Country
	err := r.db.WithContext(ctx).
		Select("last_refreshed_at").
		Order("last_refreshed_at DESC").
		Limit(1).
		Find(&latest).Error
	if err != nil {
		return nil, fmt.Errorf("latest refresh: %w", err)
	}
	if len(latest) == 0 {
		return nil, nil
	}
	ts := latest[0].LastRefreshedAt
	return &ts, nil
}

func (r *gormCountryRepository) TopByGDP(ctx context.Context, limit int) ([]models.Country, error) {
	countries := make([]models.Country, 0, limit)
	err := r.db.WithContext(ctx).
		Where("estimated_gdp IS NOT NULL").
		Order("estimated_gdp DESC").
		Limit(limit).
		Find(&countries).Error
	if err != nil {
		return nil, fmt.Errorf("top countries by gdp: %w", err)
	}
	return countries, nil
}
