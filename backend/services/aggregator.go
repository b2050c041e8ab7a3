package services

import (
	"math/rand/v2"
	"strings"
	"time"

	"country-gdp-service/backend/models"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// GDP multiplier bounds, inclusive
const (
	MinGDPMultiplier = 1000
	MaxGDPMultiplier = 2000
)

// RandomMultiplier draws uniformly from [MinGDPMultiplier, MaxGDPMultiplier]
func RandomMultiplier() int64 {
	return MinGDPMultiplier + rand.Int64N(MaxGDPMultiplier-MinGDPMultiplier+1)
}

// Aggregate joins raw country entries to the rate table by their first
// currency code. Entries with a blank name are dropped and duplicate names
// collapse to the last occurrence. Every record carries refreshedAt.
func Aggregate(entries []gjson.Result, rates map[string]decimal.Decimal, refreshedAt time.Time, multiplier func() int64) []models.Country {
	countries := make([]models.Country, 0, len(entries))
	index := make(map[string]int, len(entries))

	for _, entry := range entries {
		country, ok := aggregateOne(entry, rates, multiplier)
		if !ok {
			continue
		}
		country.LastRefreshedAt = refreshedAt

		if i, seen := index[country.Name]; seen {
			countries[i] = country
			continue
		}
		index[country.Name] = len(countries)
		countries = append(countries, country)
	}
	return countries
}

func aggregateOne(entry gjson.Result, rates map[string]decimal.Decimal, multiplier func() int64) (models.Country, bool) {
	name := strings.TrimSpace(countryName(entry))
	if name == "" {
		return models.Country{}, false
	}

	country := models.Country{
		Name:       name,
		Capital:    optionalString(entry.Get("capital")),
		Region:     optionalString(entry.Get("region")),
		Population: entry.Get("population").Int(),
		FlagURL:    optionalString(entry.Get("flag")),
	}

	currencies := entry.Get("currencies")
	if !currencies.IsArray() || len(currencies.Array()) == 0 {
		country.EstimatedGDP = decimal.NewNullDecimal(decimal.Zero)
		return country, true
	}

	country.CurrencyCode = optionalString(currencies.Get("0.code"))
	if country.CurrencyCode == nil {
		return country, true
	}

	rate, ok := rates[*country.CurrencyCode]
	if !ok {
		return country, true
	}
	country.ExchangeRate = decimal.NewNullDecimal(rate)
	if rate.IsZero() {
		return country, true
	}

	gdp := decimal.NewFromInt(country.Population).
		Mul(decimal.NewFromInt(multiplier())).
		Div(rate)
	country.EstimatedGDP = decimal.NewNullDecimal(gdp)
	return country, true
}

// countryName accepts both a plain string and the {"common": ...} object form
func countryName(entry gjson.Result) string {
	name := entry.Get("name")
	switch {
	case name.IsObject():
		return name.Get("common").String()
	case name.IsArray(), name.Type == gjson.Null:
		return ""
	default:
		return name.String()
	}
}

// optionalString returns nil for missing or null values; an empty string is
// kept as is. Arrays yield their first element.
func optionalString(r gjson.Result) *string {
	if r.IsArray() {
		r = r.Get("0")
	}
	switch r.Type {
	case gjson.String, gjson.Number:
		s := r.String()
		return &s
	default:
		return nil
	}
}
