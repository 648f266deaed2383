package handler

import (
	"github.com/damon-houk/country-currency-service/internal/application/service"
	"github.com/damon-houk/country-currency-service/internal/domain/entity"
)

// CountryResponse represents a stored country in API responses
type CountryResponse struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Capital         *string  `json:"capital"`
	Region          *string  `json:"region"`
	Population      int64    `json:"population"`
	CurrencyCode    *string  `json:"currency_code"`
	ExchangeRate    *float64 `json:"exchange_rate"`
	EstimatedGDP    *float64 `json:"estimated_gdp"`
	FlagURL         *string  `json:"flag_url"`
	LastRefreshedAt string   `json:"last_refreshed_at"`
}

// RefreshResponse represents the response for the refresh endpoint
type RefreshResponse struct {
	Message          string `json:"message"`
	Processed        int    `json:"processed"`
	Skipped          int    `json:"skipped"`
	RefreshedAt      string `json:"refreshed_at"`
	SummaryGenerated bool   `json:"summary_generated"`
}

// MessageResponse represents a plain confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

// StatusResponse represents the response for the status endpoint
type StatusResponse struct {
	TotalCountries  int     `json:"total_countries"`
	LastRefreshedAt *string `json:"last_refreshed_at"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	Status    int    `json:"status"`
	RequestID string `json:"request_id,omitempty"`
}

func newCountryResponse(c *entity.Country) CountryResponse {
	return CountryResponse{
		ID:              c.ID,
		Name:            c.Name,
		Capital:         c.Capital,
		Region:          c.Region,
		Population:      c.Population,
		CurrencyCode:    c.CurrencyCode,
		ExchangeRate:    c.ExchangeRate,
		EstimatedGDP:    c.EstimatedGDP,
		FlagURL:         c.FlagURL,
		LastRefreshedAt: entity.FormatTimestamp(c.LastRefreshedAt),
	}
}

func newRefreshResponse(r *service.RefreshResult) RefreshResponse {
	return RefreshResponse{
		Message:          "Data refreshed successfully",
		Processed:        r.Processed,
		Skipped:          r.Skipped,
		RefreshedAt:      entity.FormatTimestamp(r.RefreshedAt),
		SummaryGenerated: r.SummaryGenerated,
	}
}
