// internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/damon-houk/country-currency-service/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockCountrySource mocks the CountrySource interface
type MockCountrySource struct {
	mock.Mock
}

func (m *MockCountrySource) FetchCountries(ctx context.Context) ([]entity.RawCountry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RawCountry), args.Error(1)
}

// MockExchangeRateSource mocks the ExchangeRateSource interface
type MockExchangeRateSource struct {
	mock.Mock
}

func (m *MockExchangeRateSource) FetchExchangeRates(ctx context.Context) (entity.ExchangeRateTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.ExchangeRateTable), args.Error(1)
}

// MockCountryRepository mocks the CountryRepository interface
type MockCountryRepository struct {
	mock.Mock
}

func (m *MockCountryRepository) Upsert(ctx context.Context, country *entity.Country) (*entity.Country, error) {
	args := m.Called(ctx, country)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Country), args.Error(1)
}

func (m *MockCountryRepository) FindByName(ctx context.Context, name string) (*entity.Country, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Country), args.Error(1)
}

func (m *MockCountryRepository) List(ctx context.Context, filter entity.CountryFilter) ([]entity.Country, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Country), args.Error(1)
}

func (m *MockCountryRepository) DeleteByName(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockCountryRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockMetadataRepository mocks the MetadataRepository interface
type MockMetadataRepository struct {
	mock.Mock
}

func (m *MockMetadataRepository) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMetadataRepository) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

// MockSummaryRenderer mocks the SummaryRenderer interface
type MockSummaryRenderer struct {
	mock.Mock
}

func (m *MockSummaryRenderer) Render(ctx context.Context, summary entity.Summary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}
