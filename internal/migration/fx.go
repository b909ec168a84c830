package migration

import (
	checkoutdomain "github.com/innovatun/console/internal/checkout/domain"
	"github.com/innovatun/console/internal/config"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if !cfg.RunMigrations {
			return nil
		}

		// Versioned migrations are postgres-only; the sqlite/mysql dev
		// dialects get the schema straight from the model.
		if cfg.DBType != "postgres" {
			return conn.AutoMigrate(&checkoutdomain.LocalSubscription{})
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
