package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/damon-houk/country-currency-service/internal/domain/apperror"
	"github.com/damon-houk/country-currency-service/internal/domain/entity"
	"github.com/dgraph-io/badger/v3"
)

const (
	countryKeyPrefix   = "country:"
	countrySequenceKey = "seq:country"
	sequenceBandwidth  = 64
)

func countryKey(name string) []byte {
	return []byte(countryKeyPrefix + entity.NameKey(name))
}

// BadgerCountryRepository implements the country repository interface using BadgerDB.
// Countries are stored as JSON under country:<lower-cased name>.
type BadgerCountryRepository struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewBadgerCountryRepository creates a new BadgerDB country repository
func NewBadgerCountryRepository(db *badger.DB) (*BadgerCountryRepository, error) {
	seq, err := db.GetSequence([]byte(countrySequenceKey), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("failed to open country id sequence: %w", err)
	}

	return &BadgerCountryRepository{db: db, seq: seq}, nil
}

// Close releases the unused part of the id sequence lease
func (r *BadgerCountryRepository) Close() error {
	return r.seq.Release()
}

// Upsert inserts the country or refreshes the entry sharing its name key
func (r *BadgerCountryRepository) Upsert(ctx context.Context, country *entity.Country) (*entity.Country, error) {
	if err := country.Validate(); err != nil {
		return nil, fmt.Errorf("invalid country: %w", err)
	}

	var stored entity.Country
	err := r.db.Update(func(txn *badger.Txn) error {
		key := countryKey(country.Name)

		item, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			id, err := r.seq.Next()
			if err != nil {
				return fmt.Errorf("failed to allocate id: %w", err)
			}
			stored = *country
			stored.ID = int64(id) + 1
		case err != nil:
			return err
		default:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &stored)
			}); err != nil {
				return err
			}
			stored.ApplyRefresh(country)
		}

		stored.LastRefreshedAt = stored.LastRefreshedAt.UTC()
		data, err := json.Marshal(&stored)
		if err != nil {
			return fmt.Errorf("failed to marshal country: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return nil, apperror.NewStorageError("upsert country", err)
	}

	return &stored, nil
}

// FindByName retrieves a country by case-insensitive name
func (r *BadgerCountryRepository) FindByName(ctx context.Context, name string) (*entity.Country, error) {
	var country entity.Country

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(countryKey(name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &country)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("country %q: %w", name, apperror.ErrNotFound)
	}
	if err != nil {
		return nil, apperror.NewStorageError("find country", err)
	}

	return &country, nil
}

// List returns the countries matching filter
func (r *BadgerCountryRepository) List(ctx context.Context, filter entity.CountryFilter) ([]entity.Country, error) {
	countries := []entity.Country{}

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(countryKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var country entity.Country
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &country)
			}); err != nil {
				return err
			}
			if filter.Matches(&country) {
				countries = append(countries, country)
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperror.NewStorageError("list countries", err)
	}

	sort.SliceStable(countries, func(i, j int) bool {
		a, b := &countries[i], &countries[j]
		if filter.SortByGDP {
			switch {
			case a.EstimatedGDP == nil && b.EstimatedGDP != nil:
				return false
			case a.EstimatedGDP != nil && b.EstimatedGDP == nil:
				return true
			case a.EstimatedGDP != nil && *a.EstimatedGDP != *b.EstimatedGDP:
				return *a.EstimatedGDP > *b.EstimatedGDP
			}
		}
		return a.ID < b.ID
	})

	return countries, nil
}

// DeleteByName removes a country by case-insensitive name
func (r *BadgerCountryRepository) DeleteByName(ctx context.Context, name string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		key := countryKey(name)
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("country %q: %w", name, apperror.ErrNotFound)
	}
	if err != nil {
		return apperror.NewStorageError("delete country", err)
	}

	return nil
}

// Count returns the number of stored countries
func (r *BadgerCountryRepository) Count(ctx context.Context) (int, error) {
	count := 0

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(countryKeyPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, apperror.NewStorageError("count countries", err)
	}

	return count, nil
}
