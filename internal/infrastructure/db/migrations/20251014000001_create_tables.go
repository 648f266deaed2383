package migrations

import (
	"context"

	"github.com/damon-houk/country-currency-service/internal/infrastructure/db/model"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		for _, m := range []interface{}{(*model.CountryRow)(nil), (*model.MetadataRow)(nil)} {
			if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		for _, m := range []interface{}{(*model.MetadataRow)(nil), (*model.CountryRow)(nil)} {
			if _, err := db.NewDropTable().Model(m).IfExists().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
