// Package repository internal/domain/repository/metadata_repository.go
package repository

import "context"

// MetadataRepository defines the interface for the key/value metadata store
type MetadataRepository interface {
	// Set upserts the value stored under key
	Set(ctx context.Context, key, value string) error

	// Get returns the value stored under key and whether it exists
	Get(ctx context.Context, key string) (string, bool, error)
}
