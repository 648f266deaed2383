package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		indexes := []string{
			"CREATE INDEX IF NOT EXISTS idx_countries_region ON countries(region)",
			"CREATE INDEX IF NOT EXISTS idx_countries_currency_code ON countries(currency_code)",
			"CREATE INDEX IF NOT EXISTS idx_countries_estimated_gdp ON countries(estimated_gdp DESC)",
		}

		for _, idx := range indexes {
			if _, err := db.ExecContext(ctx, idx); err != nil {
				return err
			}
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		indexes := []string{
			"DROP INDEX IF EXISTS idx_countries_estimated_gdp",
			"DROP INDEX IF EXISTS idx_countries_currency_code",
			"DROP INDEX IF EXISTS idx_countries_region",
		}

		for _, idx := range indexes {
			if _, err := db.ExecContext(ctx, idx); err != nil {
				return err
			}
		}
		return nil
	})
}
