package db

import (
	"context"
	"errors"

	"github.com/damon-houk/country-currency-service/internal/domain/apperror"
	"github.com/dgraph-io/badger/v3"
)

const metadataKeyPrefix = "meta:"

// BadgerMetadataRepository implements the metadata repository interface using BadgerDB
type BadgerMetadataRepository struct {
	db *badger.DB
}

// NewBadgerMetadataRepository creates a new BadgerDB metadata repository
func NewBadgerMetadataRepository(db *badger.DB) *BadgerMetadataRepository {
	return &BadgerMetadataRepository{db: db}
}

// Set upserts the value stored under key
func (r *BadgerMetadataRepository) Set(ctx context.Context, key, value string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(metadataKeyPrefix+key), []byte(value))
	})
	if err != nil {
		return apperror.NewStorageError("set metadata", err)
	}
	return nil
}

// Get returns the value stored under key
func (r *BadgerMetadataRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value []byte

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(metadataKeyPrefix + key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, apperror.NewStorageError("get metadata", err)
	}

	return string(value), true, nil
}
