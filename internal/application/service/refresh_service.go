// Package service internal/application/service/refresh_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/damon-houk/country-currency-service/internal/domain/apperror"
	"github.com/damon-houk/country-currency-service/internal/domain/entity"
	"github.com/damon-houk/country-currency-service/internal/domain/repository"
	domain "github.com/damon-houk/country-currency-service/internal/domain/service"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/logger"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/middleware"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const refreshFlightKey = "refresh"

// RefreshResult describes one completed reconciliation cycle
type RefreshResult struct {
	Processed        int       `json:"processed"`
	Skipped          int       `json:"skipped"`
	RefreshedAt      time.Time `json:"refreshed_at"`
	SummaryGenerated bool      `json:"summary_generated"`
	// Shared is set for callers that joined a cycle started by another caller
	Shared bool `json:"shared"`
}

// RefreshService reconciles stored countries against the upstream providers.
// Use one instance per storage backend: overlapping Refresh calls join the
// cycle already in flight instead of interleaving their upserts.
type RefreshService struct {
	countries    domain.CountrySource
	rates        domain.ExchangeRateSource
	countryRepo  repository.CountryRepository
	metadataRepo repository.MetadataRepository
	renderer     domain.SummaryRenderer
	estimator    *GDPEstimator
	logger       logger.Logger
	now          func() time.Time
	flight       singleflight.Group
}

// NewRefreshService creates a new refresh service
func NewRefreshService(
	countries domain.CountrySource,
	rates domain.ExchangeRateSource,
	countryRepo repository.CountryRepository,
	metadataRepo repository.MetadataRepository,
	renderer domain.SummaryRenderer,
	estimator *GDPEstimator,
	log logger.Logger,
) *RefreshService {
	if estimator == nil {
		estimator = NewGDPEstimator(nil)
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RefreshService{
		countries:    countries,
		rates:        rates,
		countryRepo:  countryRepo,
		metadataRepo: metadataRepo,
		renderer:     renderer,
		estimator:    estimator,
		logger:       log,
		now:          time.Now,
	}
}

// Refresh runs one reconciliation cycle, or waits for the one in flight.
// The cycle itself is detached from ctx so it always runs to completion;
// ctx only bounds how long this caller waits.
func (s *RefreshService) Refresh(ctx context.Context) (*RefreshResult, error) {
	cycleCtx := context.WithoutCancel(ctx)

	ch := s.flight.DoChan(refreshFlightKey, func() (interface{}, error) {
		return s.refresh(cycleCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		result := *res.Val.(*RefreshResult)
		result.Shared = res.Shared
		return &result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *RefreshService) refresh(ctx context.Context) (*RefreshResult, error) {
	requestID := middleware.GetRequestID(ctx)
	start := time.Now()

	s.logger.Info("Starting refresh cycle", logger.Fields{
		"request_id": requestID,
	})

	raw, rates, err := s.fetch(ctx)
	if err != nil {
		s.logger.Error("Refresh aborted, upstream unavailable", logger.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		})
		return nil, err
	}

	refreshedAt := s.now().UTC().Truncate(time.Millisecond)
	result := &RefreshResult{RefreshedAt: refreshedAt}
	reconciled := make([]entity.Country, 0, len(raw))

	for i := range raw {
		record := &raw[i]
		if !record.Valid() {
			result.Skipped++
			continue
		}

		country := s.reconcile(record, rates, refreshedAt)

		stored, err := s.countryRepo.Upsert(ctx, country)
		if err != nil {
			s.logger.Error("Refresh aborted, failed to store country", logger.Fields{
				"request_id": requestID,
				"country":    country.Name,
				"committed":  result.Processed,
				"error":      err.Error(),
			})
			return nil, fmt.Errorf("failed to store country %q: %w", country.Name, err)
		}

		reconciled = append(reconciled, *stored)
		result.Processed++
	}

	// only written once every upsert has committed
	if err := s.metadataRepo.Set(ctx, entity.MetadataLastRefreshedAt, entity.FormatTimestamp(refreshedAt)); err != nil {
		s.logger.Error("Failed to record refresh time", logger.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("failed to record refresh time: %w", err)
	}

	result.SummaryGenerated = s.renderSummary(ctx, requestID, reconciled, refreshedAt)

	s.logger.Info("Refresh cycle completed", logger.Fields{
		"request_id":        requestID,
		"processed":         result.Processed,
		"skipped":           result.Skipped,
		"summary_generated": result.SummaryGenerated,
		"refreshed_at":      entity.FormatTimestamp(refreshedAt),
		"duration_ms":       time.Since(start).Milliseconds(),
	})

	return result, nil
}

// fetch pulls both upstream datasets concurrently. Either failure cancels the other.
func (s *RefreshService) fetch(ctx context.Context) ([]entity.RawCountry, entity.ExchangeRateTable, error) {
	var (
		raw   []entity.RawCountry
		rates entity.ExchangeRateTable
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		raw, err = s.countries.FetchCountries(gctx)
		return asUpstream(apperror.SourceCountries, err)
	})
	g.Go(func() error {
		var err error
		rates, err = s.rates.FetchExchangeRates(gctx)
		return asUpstream(apperror.SourceExchangeRates, err)
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return raw, rates, nil
}

// reconcile joins a valid raw record with the rate table
func (s *RefreshService) reconcile(record *entity.RawCountry, rates entity.ExchangeRateTable, refreshedAt time.Time) *entity.Country {
	country := &entity.Country{
		Name:            *record.Name,
		Capital:         record.Capital,
		Region:          record.Region,
		Population:      *record.Population,
		FlagURL:         record.Flag,
		LastRefreshedAt: refreshedAt,
	}

	if code := record.PrimaryCurrency(); code != nil {
		country.CurrencyCode = code
		if rate, ok := rates.Rate(*code); ok {
			country.ExchangeRate = rate
		}
	}

	country.EstimatedGDP = s.estimator.Estimate(country.Population, country.ExchangeRate)
	return country
}

// renderSummary is best-effort: a failure is logged and never fails the cycle
func (s *RefreshService) renderSummary(ctx context.Context, requestID string, countries []entity.Country, refreshedAt time.Time) bool {
	if s.renderer == nil {
		return false
	}

	if err := s.renderer.Render(ctx, entity.NewSummary(countries, refreshedAt)); err != nil {
		s.logger.Error("Failed to generate summary image", logger.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		})
		return false
	}
	return true
}

// asUpstream guarantees fetch failures carry the upstream taxonomy
func asUpstream(source string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperror.IsUpstreamUnavailable(err); ok {
		return err
	}
	return apperror.NewUpstreamUnavailable(source, "", err)
}
