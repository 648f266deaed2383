// Package db internal/infrastructure/db/store.go
package db

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/damon-houk/country-currency-service/internal/domain/repository"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/logger"
	"github.com/dgraph-io/badger/v3"
)

// Storage drivers
const (
	DriverSQL    = "sql"
	DriverBadger = "badger"
)

// StoreConfig selects and configures a storage backend
type StoreConfig struct {
	Driver      string
	DatabaseURL string
	BadgerPath  string
	Debug       bool
}

// Store bundles the repositories of one storage instance
type Store struct {
	Countries repository.CountryRepository
	Metadata  repository.MetadataRepository
	closers   []func() error
}

// Close releases the backend
func (s *Store) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenStore opens the configured backend and its repositories
func OpenStore(ctx context.Context, cfg StoreConfig, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	switch cfg.Driver {
	case DriverSQL, "":
		bunDB, err := OpenSQL(ctx, cfg.DatabaseURL, cfg.Debug, log)
		if err != nil {
			return nil, err
		}

		log.Info("Opened relational store", logger.Fields{
			"dialect": bunDB.Dialect().Name().String(),
		})

		return &Store{
			Countries: NewSQLCountryRepository(bunDB),
			Metadata:  NewSQLMetadataRepository(bunDB),
			closers:   []func() error{bunDB.Close},
		}, nil

	case DriverBadger:
		if err := os.MkdirAll(cfg.BadgerPath, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}

		opts := badger.DefaultOptions(cfg.BadgerPath)
		opts.Logger = nil

		badgerDB, err := badger.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to open badger: %w", err)
		}

		countries, err := NewBadgerCountryRepository(badgerDB)
		if err != nil {
			_ = badgerDB.Close()
			return nil, err
		}

		log.Info("Opened badger store", logger.Fields{"path": cfg.BadgerPath})

		return &Store{
			Countries: countries,
			Metadata:  NewBadgerMetadataRepository(badgerDB),
			closers:   []func() error{badgerDB.Close, countries.Close},
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
