package entity

import (
	"errors"
	"strings"
	"time"
)

// Country represents a reconciled country record
type Country struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Capital         *string   `json:"capital"`
	Region          *string   `json:"region"`
	Population      int64     `json:"population"`
	CurrencyCode    *string   `json:"currency_code"`
	ExchangeRate    *float64  `json:"exchange_rate"`
	EstimatedGDP    *float64  `json:"estimated_gdp"`
	FlagURL         *string   `json:"flag_url"`
	LastRefreshedAt time.Time `json:"last_refreshed_at"`
}

// NameKey normalizes a country name into its case-insensitive lookup key
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Key returns the storage key for the country
func (c *Country) Key() string {
	return NameKey(c.Name)
}

// Validate ensures the country can be persisted
func (c *Country) Validate() error {
	if c.Key() == "" {
		return errors.New("name is required")
	}

	if c.Population < 0 {
		return errors.New("population must not be negative")
	}

	if c.EstimatedGDP != nil && (c.ExchangeRate == nil || *c.ExchangeRate == 0) {
		return errors.New("estimated gdp requires a non-zero exchange rate")
	}

	return nil
}

// ApplyRefresh overwrites every mutable field with the values from src.
// The name is the lookup key and is left untouched.
func (c *Country) ApplyRefresh(src *Country) {
	c.Capital = src.Capital
	c.Region = src.Region
	c.Population = src.Population
	c.CurrencyCode = src.CurrencyCode
	c.ExchangeRate = src.ExchangeRate
	c.EstimatedGDP = src.EstimatedGDP
	c.FlagURL = src.FlagURL
	c.LastRefreshedAt = src.LastRefreshedAt
}

// GDPOrZero returns the estimate, treating an absent one as zero
func (c *Country) GDPOrZero() float64 {
	if c.EstimatedGDP == nil {
		return 0
	}
	return *c.EstimatedGDP
}

// CountryFilter narrows a country listing
type CountryFilter struct {
	Region    string
	Currency  string
	SortByGDP bool
}

// Matches reports whether the country passes the region and currency filters
func (f CountryFilter) Matches(c *Country) bool {
	if f.Region != "" && (c.Region == nil || *c.Region != f.Region) {
		return false
	}
	if f.Currency != "" && (c.CurrencyCode == nil || *c.CurrencyCode != f.Currency) {
		return false
	}
	return true
}
