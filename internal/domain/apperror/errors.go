// Package apperror defines the error taxonomy shared by every layer
package apperror

import (
	"errors"
	"fmt"
)

// Upstream source identifiers
const (
	SourceCountries     = "countries"
	SourceExchangeRates = "exchange_rates"
)

// ErrNotFound is returned when a lookup by name has no match
var ErrNotFound = errors.New("not found")

// UpstreamUnavailableError reports a failed fetch from an external provider
type UpstreamUnavailableError struct {
	Source string
	URL    string
	Err    error
}

func (e *UpstreamUnavailableError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("upstream %s unavailable: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("upstream %s unavailable (%s): %v", e.Source, e.URL, e.Err)
}

func (e *UpstreamUnavailableError) Unwrap() error {
	return e.Err
}

// Location names the failing upstream for client-facing messages
func (e *UpstreamUnavailableError) Location() string {
	if e.URL != "" {
		return e.URL
	}
	if e.Source != "" {
		return e.Source
	}
	return "API"
}

// NewUpstreamUnavailable wraps err as an upstream failure of source
func NewUpstreamUnavailable(source, url string, err error) *UpstreamUnavailableError {
	return &UpstreamUnavailableError{Source: source, URL: url, Err: err}
}

// StorageError reports a persistence failure
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err as a failure of the storage operation op
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// IsUpstreamUnavailable reports whether err is, or wraps, an upstream failure
func IsUpstreamUnavailable(err error) (*UpstreamUnavailableError, bool) {
	var upstream *UpstreamUnavailableError
	if errors.As(err, &upstream) {
		return upstream, true
	}
	return nil, false
}
