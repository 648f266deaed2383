package api

import (
	"context"
	"net/http"
	"time"

	"github.com/damon-houk/country-currency-service/internal/domain/apperror"
	"github.com/damon-houk/country-currency-service/internal/domain/entity"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/logger"
)

// DefaultCountriesURL lists every country with the fields the refresh consumes
const DefaultCountriesURL = "https://restcountries.com/v2/all?fields=name,capital,region,population,flag,currencies"

// CountriesClient fetches country facts from a REST Countries v2 compatible API
type CountriesClient struct {
	url    string
	getter jsonGetter
}

// NewCountriesClient creates a new country-facts client. An empty url uses the public API.
func NewCountriesClient(url string, httpClient *http.Client, timeout time.Duration, log logger.Logger) *CountriesClient {
	if url == "" {
		url = DefaultCountriesURL
	}

	return &CountriesClient{
		url:    url,
		getter: newJSONGetter(apperror.SourceCountries, httpClient, timeout, log),
	}
}

// FetchCountries retrieves the full country list
func (c *CountriesClient) FetchCountries(ctx context.Context) ([]entity.RawCountry, error) {
	var countries []entity.RawCountry
	if err := c.getter.get(ctx, c.url, &countries); err != nil {
		return nil, err
	}

	c.getter.logger.Info("Fetched countries", logger.Fields{
		"count": len(countries),
	})

	return countries, nil
}
