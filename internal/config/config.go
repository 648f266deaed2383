// Package config loads service settings from the environment
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/damon-houk/country-currency-service/internal/infrastructure/api"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/db"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/logger"
	"github.com/joho/godotenv"
)

// Defaults
const (
	DefaultPort             = 5000
	DefaultDatabaseURL      = "file:data/countries.db"
	DefaultBadgerPath       = "data/badger"
	DefaultSummaryImagePath = "cache/summary.png"
)

// EnvFiles are loaded in order before the environment is read. Variables
// already set are never overwritten, so the process environment wins over
// .env.local, which wins over .env.
var EnvFiles = []string{".env.local", ".env"}

// Config holds the service settings
type Config struct {
	Port int

	StorageDriver string
	DatabaseURL   string
	BadgerPath    string
	DBDebug       bool

	CountriesAPIURL     string
	ExchangeRatesAPIURL string
	UpstreamTimeout     time.Duration

	SummaryImagePath string

	RefreshInterval time.Duration
	RefreshOnStart  bool

	LogLevel logger.Level
}

// Load reads the optional env files and then the environment
func Load() (*Config, error) {
	loadEnvFiles(EnvFiles...)
	return FromEnv()
}

// FromEnv builds a Config from environment variables, applying defaults
func FromEnv() (*Config, error) {
	var errs []error

	cfg := &Config{
		StorageDriver:       strings.ToLower(getEnv("STORAGE_DRIVER", db.DriverSQL)),
		DatabaseURL:         getEnv("DATABASE_URL", DefaultDatabaseURL),
		BadgerPath:          getEnv("BADGER_PATH", DefaultBadgerPath),
		CountriesAPIURL:     getEnv("COUNTRIES_API_URL", api.DefaultCountriesURL),
		ExchangeRatesAPIURL: getEnv("EXCHANGE_RATES_API_URL", api.DefaultExchangeRatesURL),
		SummaryImagePath:    getEnv("SUMMARY_IMAGE_PATH", DefaultSummaryImagePath),
	}

	var err error
	if cfg.Port, err = getInt("PORT", DefaultPort); err != nil {
		errs = append(errs, err)
	} else if cfg.Port < 1 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", cfg.Port))
	}

	if cfg.DBDebug, err = getBool("DB_DEBUG", false); err != nil {
		errs = append(errs, err)
	}
	if cfg.RefreshOnStart, err = getBool("REFRESH_ON_START", false); err != nil {
		errs = append(errs, err)
	}

	if cfg.UpstreamTimeout, err = getDuration("UPSTREAM_TIMEOUT", api.DefaultTimeout); err != nil {
		errs = append(errs, err)
	} else if cfg.UpstreamTimeout <= 0 {
		errs = append(errs, fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", cfg.UpstreamTimeout))
	}

	if cfg.RefreshInterval, err = getDuration("REFRESH_INTERVAL", 0); err != nil {
		errs = append(errs, err)
	} else if cfg.RefreshInterval < 0 {
		errs = append(errs, fmt.Errorf("REFRESH_INTERVAL must not be negative, got %s", cfg.RefreshInterval))
	}

	if cfg.LogLevel, err = logger.ParseLevel(getEnv("LOG_LEVEL", string(logger.InfoLevel))); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	switch cfg.StorageDriver {
	case db.DriverSQL:
		if cfg.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the sql driver"))
		}
	case db.DriverBadger:
		if cfg.BadgerPath == "" {
			errs = append(errs, errors.New("BADGER_PATH is required for the badger driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", db.DriverSQL, db.DriverBadger, cfg.StorageDriver))
	}

	if cfg.SummaryImagePath == "" {
		errs = append(errs, errors.New("SUMMARY_IMAGE_PATH must not be empty"))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Store returns the storage settings
func (c *Config) Store() db.StoreConfig {
	return db.StoreConfig{
		Driver:      c.StorageDriver,
		DatabaseURL: c.DatabaseURL,
		BadgerPath:  c.BadgerPath,
		Debug:       c.DBDebug,
	}
}

// loadEnvFiles loads each file that exists; missing files are ignored
func loadEnvFiles(files ...string) {
	for _, file := range files {
		_ = godotenv.Load(file)
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
