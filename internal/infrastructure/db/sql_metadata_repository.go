package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/damon-houk/country-currency-service/internal/domain/apperror"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/db/model"
	"github.com/uptrace/bun"
)

// SQLMetadataRepository implements the metadata repository interface on a bun database
type SQLMetadataRepository struct {
	db *bun.DB
}

// NewSQLMetadataRepository creates a new relational metadata repository
func NewSQLMetadataRepository(db *bun.DB) *SQLMetadataRepository {
	return &SQLMetadataRepository{db: db}
}

// Set upserts the value stored under key
func (r *SQLMetadataRepository) Set(ctx context.Context, key, value string) error {
	row := &model.MetadataRow{
		Key:       key,
		Value:     &value,
		UpdatedAt: time.Now().UTC(),
	}

	_, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return apperror.NewStorageError("set metadata", err)
	}

	return nil
}

// Get returns the value stored under key
func (r *SQLMetadataRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var row model.MetadataRow
	err := r.db.NewSelect().
		Model(&row).
		Where("key = ?", key).
		Limit(1).
		Scan(ctx)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, apperror.NewStorageError("get metadata", err)
	}
	if row.Value == nil {
		return "", false, nil
	}

	return *row.Value, true, nil
}
