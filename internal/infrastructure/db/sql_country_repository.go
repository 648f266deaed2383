package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/damon-houk/country-currency-service/internal/domain/apperror"
	"github.com/damon-houk/country-currency-service/internal/domain/entity"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/db/model"
	"github.com/uptrace/bun"
)

// SQLCountryRepository implements the country repository interface on a bun database
type SQLCountryRepository struct {
	db *bun.DB
}

// NewSQLCountryRepository creates a new relational country repository
func NewSQLCountryRepository(db *bun.DB) *SQLCountryRepository {
	return &SQLCountryRepository{db: db}
}

// Upsert inserts the country or refreshes the row sharing its name key
func (r *SQLCountryRepository) Upsert(ctx context.Context, country *entity.Country) (*entity.Country, error) {
	if err := country.Validate(); err != nil {
		return nil, fmt.Errorf("invalid country: %w", err)
	}

	var stored model.CountryRow
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().
			Model(&stored).
			Where("name_key = ?", country.Key()).
			Limit(1).
			Scan(ctx)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			row := model.NewCountryRow(country)
			row.ID = 0
			if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
				return err
			}
			// reload to pick up the generated id
			return tx.NewSelect().Model(&stored).Where("name_key = ?", row.NameKey).Limit(1).Scan(ctx)
		case err != nil:
			return err
		}

		stored.Apply(country)
		_, err = tx.NewUpdate().
			Model(&stored).
			Column(model.RefreshColumns...).
			WherePK().
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, apperror.NewStorageError("upsert country", err)
	}

	return stored.ToEntity(), nil
}

// FindByName retrieves a country by case-insensitive name
func (r *SQLCountryRepository) FindByName(ctx context.Context, name string) (*entity.Country, error) {
	var row model.CountryRow
	err := r.db.NewSelect().
		Model(&row).
		Where("name_key = ?", entity.NameKey(name)).
		Limit(1).
		Scan(ctx)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("country %q: %w", name, apperror.ErrNotFound)
	}
	if err != nil {
		return nil, apperror.NewStorageError("find country", err)
	}

	return row.ToEntity(), nil
}

// List returns the countries matching filter
func (r *SQLCountryRepository) List(ctx context.Context, filter entity.CountryFilter) ([]entity.Country, error) {
	var rows []model.CountryRow
	q := r.db.NewSelect().Model(&rows)

	if filter.Region != "" {
		q = q.Where("region = ?", filter.Region)
	}
	if filter.Currency != "" {
		q = q.Where("currency_code = ?", filter.Currency)
	}
	if filter.SortByGDP {
		// absent estimates sort last on every dialect
		q = q.OrderExpr("estimated_gdp IS NULL").OrderExpr("estimated_gdp DESC")
	}
	q = q.Order("id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, apperror.NewStorageError("list countries", err)
	}

	countries := make([]entity.Country, 0, len(rows))
	for i := range rows {
		countries = append(countries, *rows[i].ToEntity())
	}
	return countries, nil
}

// DeleteByName removes a country by case-insensitive name
func (r *SQLCountryRepository) DeleteByName(ctx context.Context, name string) error {
	res, err := r.db.NewDelete().
		Model((*model.CountryRow)(nil)).
		Where("name_key = ?", entity.NameKey(name)).
		Exec(ctx)
	if err != nil {
		return apperror.NewStorageError("delete country", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return apperror.NewStorageError("delete country", err)
	}
	if affected == 0 {
		return fmt.Errorf("country %q: %w", name, apperror.ErrNotFound)
	}

	return nil
}

// Count returns the number of stored countries
func (r *SQLCountryRepository) Count(ctx context.Context) (int, error) {
	n, err := r.db.NewSelect().Model((*model.CountryRow)(nil)).Count(ctx)
	if err != nil {
		return 0, apperror.NewStorageError("count countries", err)
	}
	return n, nil
}
