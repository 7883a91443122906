package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/leadquote-backend/pkg/config"
	"github.com/angelmondragon/leadquote-backend/pkg/db"
	"github.com/angelmondragon/leadquote-backend/pkg/db/models"
	"github.com/angelmondragon/leadquote-backend/pkg/logger"
)

// MaybeRunDev migrates the discount-source schema when running in dev with auto-migrate on.
// SQLite connections use gorm's AutoMigrate since the goose files are postgres SQL.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dialect": client.Dialect()})

	if client.Dialect() == db.DialectSQLite {
		logg.Info(ctx, "auto-migrating sqlite schema")
		if err := client.DB().WithContext(ctx).AutoMigrate(models.DiscountSourceModels()...); err != nil {
			return fmt.Errorf("sqlite automigrate: %w", err)
		}
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	logg.Info(logg.WithField(ctx, "dir", DefaultDir), "running Goose migrations (dev auto-run)")
	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	logg.Info(ctx, "Goose migrations completed")
	return nil
}
