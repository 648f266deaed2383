// Package model holds the relational row types for the bun storage backend
package model

import (
	"time"

	"github.com/damon-houk/country-currency-service/internal/domain/entity"
	"github.com/uptrace/bun"
)

// CountryRow is the countries table. NameKey is the lower-cased name and
// carries the uniqueness constraint.
type CountryRow struct {
	bun.BaseModel `bun:"table:countries,alias:c"`

	ID              int64     `bun:"id,pk,autoincrement"`
	Name            string    `bun:"name,notnull"`
	NameKey         string    `bun:"name_key,unique,notnull"`
	Capital         *string   `bun:"capital"`
	Region          *string   `bun:"region"`
	Population      int64     `bun:"population,notnull"`
	CurrencyCode    *string   `bun:"currency_code,type:varchar(10)"`
	ExchangeRate    *float64  `bun:"exchange_rate"`
	EstimatedGDP    *float64  `bun:"estimated_gdp"`
	FlagURL         *string   `bun:"flag_url"`
	LastRefreshedAt time.Time `bun:"last_refreshed_at,notnull"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// RefreshColumns are overwritten when an existing country is refreshed
var RefreshColumns = []string{
	"capital",
	"region",
	"population",
	"currency_code",
	"exchange_rate",
	"estimated_gdp",
	"flag_url",
	"last_refreshed_at",
	"updated_at",
}

// NewCountryRow converts a domain country into a row
func NewCountryRow(c *entity.Country) *CountryRow {
	now := time.Now().UTC()
	return &CountryRow{
		ID:              c.ID,
		Name:            c.Name,
		NameKey:         c.Key(),
		Capital:         c.Capital,
		Region:          c.Region,
		Population:      c.Population,
		CurrencyCode:    c.CurrencyCode,
		ExchangeRate:    c.ExchangeRate,
		EstimatedGDP:    c.EstimatedGDP,
		FlagURL:         c.FlagURL,
		LastRefreshedAt: c.LastRefreshedAt.UTC(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Apply copies the refreshable fields of c onto the row
func (r *CountryRow) Apply(c *entity.Country) {
	r.Capital = c.Capital
	r.Region = c.Region
	r.Population = c.Population
	r.CurrencyCode = c.CurrencyCode
	r.ExchangeRate = c.ExchangeRate
	r.EstimatedGDP = c.EstimatedGDP
	r.FlagURL = c.FlagURL
	r.LastRefreshedAt = c.LastRefreshedAt.UTC()
	r.UpdatedAt = time.Now().UTC()
}

// ToEntity converts the row back into a domain country
func (r *CountryRow) ToEntity() *entity.Country {
	return &entity.Country{
		ID:              r.ID,
		Name:            r.Name,
		Capital:         r.Capital,
		Region:          r.Region,
		Population:      r.Population,
		CurrencyCode:    r.CurrencyCode,
		ExchangeRate:    r.ExchangeRate,
		EstimatedGDP:    r.EstimatedGDP,
		FlagURL:         r.FlagURL,
		LastRefreshedAt: r.LastRefreshedAt.UTC(),
	}
}

// MetadataRow is one entry of the metadata table
type MetadataRow struct {
	bun.BaseModel `bun:"table:metadata,alias:m"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Key       string    `bun:"key,unique,notnull,type:varchar(50)"`
	Value     *string   `bun:"value"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
