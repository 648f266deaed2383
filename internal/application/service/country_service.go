package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/damon-houk/country-currency-service/internal/domain/apperror"
	"github.com/damon-houk/country-currency-service/internal/domain/entity"
	"github.com/damon-houk/country-currency-service/internal/domain/repository"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/logger"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/middleware"
)

// Status aggregates the state of the stored dataset
type Status struct {
	TotalCountries  int     `json:"total_countries"`
	LastRefreshedAt *string `json:"last_refreshed_at"`
}

// CountryService handles the read and admin operations over stored countries
type CountryService struct {
	countryRepo  repository.CountryRepository
	metadataRepo repository.MetadataRepository
	imagePath    string
	logger       logger.Logger
}

// NewCountryService creates a new country service
func NewCountryService(countryRepo repository.CountryRepository, metadataRepo repository.MetadataRepository, imagePath string, log logger.Logger) *CountryService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &CountryService{
		countryRepo:  countryRepo,
		metadataRepo: metadataRepo,
		imagePath:    imagePath,
		logger:       log,
	}
}

// List returns the stored countries matching filter
func (s *CountryService) List(ctx context.Context, filter entity.CountryFilter) ([]entity.Country, error) {
	return s.countryRepo.List(ctx, filter)
}

// Get retrieves one country by case-insensitive name
func (s *CountryService) Get(ctx context.Context, name string) (*entity.Country, error) {
	return s.countryRepo.FindByName(ctx, name)
}

// Delete removes one country by case-insensitive name
func (s *CountryService) Delete(ctx context.Context, name string) error {
	if err := s.countryRepo.DeleteByName(ctx, name); err != nil {
		return err
	}

	s.logger.Info("Country deleted", logger.Fields{
		"request_id": middleware.GetRequestID(ctx),
		"name":       name,
	})
	return nil
}

// Status reports the stored count and the last successful refresh time
func (s *CountryService) Status(ctx context.Context) (*Status, error) {
	count, err := s.countryRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count countries: %w", err)
	}

	status := &Status{TotalCountries: count}

	value, found, err := s.metadataRepo.Get(ctx, entity.MetadataLastRefreshedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to read refresh time: %w", err)
	}
	if found {
		status.LastRefreshedAt = &value
	}

	return status, nil
}

// SummaryImagePath returns the cached summary image, or ErrNotFound if no
// refresh has produced one yet
func (s *CountryService) SummaryImagePath() (string, error) {
	info, err := os.Stat(s.imagePath)
	if errors.Is(err, os.ErrNotExist) || (err == nil && info.IsDir()) {
		return "", fmt.Errorf("summary image: %w", apperror.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat summary image: %w", err)
	}

	return s.imagePath, nil
}
