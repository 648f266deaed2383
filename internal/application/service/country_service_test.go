package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/damon-houk/country-currency-service/internal/domain/apperror"
	"github.com/damon-houk/country-currency-service/internal/domain/entity"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/logger"
	"github.com/damon-houk/country-currency-service/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountryServiceLookups(t *testing.T) {
	repo := new(mocks.MockCountryRepository)
	meta := new(mocks.MockMetadataRepository)
	service := NewCountryService(repo, meta, "", logger.Nop())
	ctx := context.Background()

	t.Run("List forwards the filter", func(t *testing.T) {
		filter := entity.CountryFilter{Region: "Africa", SortByGDP: true}
		repo.On("List", ctx, filter).Return([]entity.Country{{ID: 1, Name: "Nigeria"}}, nil).Once()

		countries, err := service.List(ctx, filter)

		assert.NoError(t, err)
		assert.Len(t, countries, 1)
		repo.AssertExpectations(t)
	})

	t.Run("Get not found", func(t *testing.T) {
		repo.On("FindByName", ctx, "Atlantis").Return(nil, apperror.ErrNotFound).Once()

		country, err := service.Get(ctx, "Atlantis")

		assert.Nil(t, country)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		repo.On("DeleteByName", ctx, "testland").Return(nil).Once()
		repo.On("DeleteByName", ctx, "nowhere").Return(apperror.ErrNotFound).Once()

		assert.NoError(t, service.Delete(ctx, "testland"))
		assert.ErrorIs(t, service.Delete(ctx, "nowhere"), apperror.ErrNotFound)
		repo.AssertExpectations(t)
	})
}

func TestCountryServiceStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Never refreshed", func(t *testing.T) {
		repo := new(mocks.MockCountryRepository)
		meta := new(mocks.MockMetadataRepository)
		repo.On("Count", ctx).Return(0, nil)
		meta.On("Get", ctx, entity.MetadataLastRefreshedAt).Return("", false, nil)

		status, err := NewCountryService(repo, meta, "", nil).Status(ctx)

		require.NoError(t, err)
		assert.Equal(t, 0, status.TotalCountries)
		assert.Nil(t, status.LastRefreshedAt)
	})

	t.Run("After refresh", func(t *testing.T) {
		repo := new(mocks.MockCountryRepository)
		meta := new(mocks.MockMetadataRepository)
		repo.On("Count", ctx).Return(250, nil)
		meta.On("Get", ctx, entity.MetadataLastRefreshedAt).Return("2025-10-14T09:15:30.123Z", true, nil)

		status, err := NewCountryService(repo, meta, "", nil).Status(ctx)

		require.NoError(t, err)
		assert.Equal(t, 250, status.TotalCountries)
		require.NotNil(t, status.LastRefreshedAt)
		assert.Equal(t, "2025-10-14T09:15:30.123Z", *status.LastRefreshedAt)
	})

	t.Run("Storage failure", func(t *testing.T) {
		repo := new(mocks.MockCountryRepository)
		meta := new(mocks.MockMetadataRepository)
		repo.On("Count", ctx).Return(0, apperror.NewStorageError("count countries", errors.New("closed")))

		_, err := NewCountryService(repo, meta, "", nil).Status(ctx)

		var se *apperror.StorageError
		assert.ErrorAs(t, err, &se)
		meta.AssertNotCalled(t, "Get", ctx, entity.MetadataLastRefreshedAt)
	})
}

func TestSummaryImagePath(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "summary.png")
	service := NewCountryService(nil, nil, imagePath, nil)

	_, err := service.SummaryImagePath()
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	require.NoError(t, os.WriteFile(imagePath, []byte("png"), 0o644))
	path, err := service.SummaryImagePath()
	require.NoError(t, err)
	assert.Equal(t, imagePath, path)

	_, err = NewCountryService(nil, nil, dir, nil).SummaryImagePath()
	assert.ErrorIs(t, err, apperror.ErrNotFound, "a directory is not an image")
}
