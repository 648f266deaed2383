package repository

import (
	"context"

	"github.com/damon-houk/country-currency-service/internal/domain/entity"
)

// CountryRepository defines the interface for country storage.
// Names are matched case-insensitively everywhere.
type CountryRepository interface {
	// Upsert inserts the country or overwrites the stored one with the same name
	// and returns the stored state
	Upsert(ctx context.Context, country *entity.Country) (*entity.Country, error)

	// FindByName retrieves a country by name
	FindByName(ctx context.Context, name string) (*entity.Country, error)

	// List returns the countries matching filter
	List(ctx context.Context, filter entity.CountryFilter) ([]entity.Country, error)

	// DeleteByName removes a country by name
	DeleteByName(ctx context.Context, name string) error

	// Count returns the number of stored countries
	Count(ctx context.Context) (int, error)
}
