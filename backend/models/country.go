package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Rates and GDP estimates go out as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Country is a merged country record produced by a refresh run
type Country struct {
	ID              uint                `gorm:"primaryKey" json:"id"`
	Name            string              `gorm:"uniqueIndex;not null" json:"name"`
	Capital         *string             `json:"capital"`
	Region          *string             `gorm:"index" json:"region"`
	Population      int64               `gorm:"not null;default:0" json:"population"`
	CurrencyCode    *string             `gorm:"column:currency_code;index" json:"currency_code"`
	ExchangeRate    decimal.NullDecimal `gorm:"column:exchange_rate;type:decimal(24,8)" json:"exchange_rate"`
	EstimatedGDP    decimal.NullDecimal `gorm:"column:estimated_gdp;type:decimal(32,4);index" json:"estimated_gdp"`
	FlagURL         *string             `gorm:"column:flag_url" json:"flag_url"`
	LastRefreshedAt time.Time           `gorm:"column:last_refreshed_at;not null;index" json:"last_refreshed_at"`
}

func (Country) TableName() string { return "countries" }

// SortMode selects the ordering of a country listing
type SortMode string

const (
	SortByName    SortMode = ""
	SortByGDPDesc SortMode = "gdp_desc"
	SortByGDPAsc  SortMode = "gdp_asc"
)

// ParseSortMode maps the ?sort= query value; unknown values sort by name
func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortByGDPDesc, SortByGDPAsc:
		return SortMode(s)
	default:
		return SortByName
	}
}

// CountryFilter narrows a listing. Empty fields are ignored.
type CountryFilter struct {
	Region   string
	Currency string
	Sort     SortMode
}

// RefreshResult is returned by a successful refresh run
type RefreshResult struct {
	Message         string    `json:"message"`
	TotalCountries  int       `json:"total_countries"`
	LastRefreshedAt time.Time `json:"last_refreshed_at"`
}

// Status summarizes the store
type Status struct {
	TotalCountries  int64      `json:"total_countries"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at"`
}

// CountryList is the body of GET /countries
type CountryList struct {
	Total int       `json:"total"`
	Data  []Country `json:"data"`
}
