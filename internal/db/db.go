// Package db opens the gorm connection for the configured engine.
package db

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/marketlink/marketlink/internal/config"
	"github.com/marketlink/marketlink/internal/db/dsn"
	"github.com/marketlink/marketlink/internal/db/models"
	"github.com/marketlink/marketlink/internal/db/pool"
	gormadapter "github.com/marketlink/marketlink/internal/logger/adapter/gorm"
)

// ErrUnknownEngine is returned for a GormEngine other than mysql, postgres or sqlite.
var ErrUnknownEngine = config.ErrUnknownGormEngine

// Dialector returns the gorm dialector for cfg.GormEngine.
func Dialector(cfg *config.DB) (gorm.Dialector, error) {
	switch cfg.GormEngine {
	case "mysql":
		return mysql.Open(dsn.Create(cfg)), nil
	case "postgres":
		return postgres.Open(dsn.Create(cfg)), nil
	case "sqlite":
		return sqlite.Open(dsn.Create(cfg)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, cfg.GormEngine)
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}) //nolint:wrapcheck
}

// Opener returns a pool.Opener that connects with cfg, applies the pool limits,
// pings the server and migrates the schema.
func Opener(cfg config.DB) pool.Opener {
	return func(ctx context.Context) (*gorm.DB, error) {
		dialector, err := Dialector(&cfg)
		if err != nil {
			return nil, err
		}

		db, err := gorm.Open(dialector, &gorm.Config{
			Logger:         gormadapter.New(gormadapter.DefaultSlowThreshold),
			TranslateError: true,
		})
		if err != nil {
			return nil, fmt.Errorf("open %s database: %w", cfg.GormEngine, err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql.DB: %w", err)
		}

		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}

		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}

		if cfg.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}

		if err = sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()

			return nil, fmt.Errorf("ping %s database: %w", cfg.GormEngine, err)
		}

		if err = Migrate(db.WithContext(ctx)); err != nil {
			_ = sqlDB.Close()

			return nil, fmt.Errorf("migrate %s database: %w", cfg.GormEngine, err)
		}

		return db, nil
	}
}
