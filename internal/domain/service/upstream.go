package service

import (
	"context"

	"github.com/damon-houk/country-currency-service/internal/domain/entity"
)

// CountrySource defines the interface for the country-facts provider
type CountrySource interface {
	// FetchCountries retrieves every country record the provider publishes
	FetchCountries(ctx context.Context) ([]entity.RawCountry, error)
}

// ExchangeRateSource defines the interface for the exchange-rate provider
type ExchangeRateSource interface {
	// FetchExchangeRates retrieves the current USD rate table
	FetchExchangeRates(ctx context.Context) (entity.ExchangeRateTable, error)
}

// SummaryRenderer defines the interface for the summary artifact generator
type SummaryRenderer interface {
	// Render produces the summary artifact, replacing any previous one
	Render(ctx context.Context, summary entity.Summary) error
}
