package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/damon-houk/country-currency-service/internal/domain/apperror"
	"github.com/damon-houk/country-currency-service/internal/domain/entity"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/logger"
)

// DefaultExchangeRatesURL returns rates relative to one US dollar
const DefaultExchangeRatesURL = "https://open.er-api.com/v6/latest/USD"

// ExchangeRateResponse represents the response structure from the exchange-rate API
type ExchangeRateResponse struct {
	Result    string             `json:"result"`
	BaseCode  string             `json:"base_code"`
	ErrorType string             `json:"error-type"`
	Rates     map[string]float64 `json:"rates"`
}

// ExchangeRateClient fetches the USD rate table from an open.er-api compatible API
type ExchangeRateClient struct {
	url    string
	getter jsonGetter
}

// NewExchangeRateClient creates a new exchange-rate client. An empty url uses the public API.
func NewExchangeRateClient(url string, httpClient *http.Client, timeout time.Duration, log logger.Logger) *ExchangeRateClient {
	if url == "" {
		url = DefaultExchangeRatesURL
	}

	return &ExchangeRateClient{
		url:    url,
		getter: newJSONGetter(apperror.SourceExchangeRates, httpClient, timeout, log),
	}
}

// FetchExchangeRates retrieves the current rate table
func (c *ExchangeRateClient) FetchExchangeRates(ctx context.Context) (entity.ExchangeRateTable, error) {
	var resp ExchangeRateResponse
	if err := c.getter.get(ctx, c.url, &resp); err != nil {
		return nil, err
	}

	if resp.Result == "error" {
		return nil, apperror.NewUpstreamUnavailable(apperror.SourceExchangeRates, c.url,
			fmt.Errorf("API reported error: %s", resp.ErrorType))
	}

	if resp.Rates == nil {
		return nil, apperror.NewUpstreamUnavailable(apperror.SourceExchangeRates, c.url,
			errors.New("response has no rates"))
	}

	c.getter.logger.Info("Fetched exchange rates", logger.Fields{
		"base":  resp.BaseCode,
		"count": len(resp.Rates),
	})

	return entity.ExchangeRateTable(resp.Rates), nil
}
