// Package migrations versions the relational schema. Each migration lives in
// its own file named <timestamp>_<name>.go, which bun uses as the migration name.
package migrations

import (
	"context"
	"fmt"

	"github.com/damon-houk/country-currency-service/internal/infrastructure/logger"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// Migrations is the registry populated by the migration files
var Migrations = migrate.NewMigrations()

// Run applies every pending migration
func Run(ctx context.Context, db *bun.DB, log logger.Logger) error {
	migrator := migrate.NewMigrator(db, Migrations)

	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}

	if err := migrator.Lock(ctx); err != nil {
		return fmt.Errorf("failed to lock migrations: %w", err)
	}
	defer func() {
		if err := migrator.Unlock(ctx); err != nil {
			log.Warn("Failed to unlock migrations", logger.Fields{"error": err.Error()})
		}
	}()

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	if group.IsZero() {
		log.Debug("No new migrations to run", nil)
		return nil
	}

	log.Info("Database migrated", logger.Fields{"group": group.String()})
	return nil
}
