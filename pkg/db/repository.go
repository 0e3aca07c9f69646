// pkg/db/repository.go
package db

import (
	"errors"
	"strconv"

	"github.com/smith3v/dove-bot/pkg/config"
	"github.com/smith3v/dove-bot/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects using the configured driver and migrates the schema.
func Open(cfg config.DatabaseConfig, gormLevel string) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		logger.Error("failed to select database driver", "driver", cfg.Driver, "error", err)
		return nil, err
	}
	gormLogger, gormErr := newGormLogger(gormLevel)
	if gormErr != nil {
		logger.Error("invalid gorm log level", "value", gormLevel, "error", gormErr)
	}
	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}
	if err := Migrate(gdb); err != nil {
		logger.Error("failed to auto-migrate database", "error", err)
		return nil, err
	}
	return gdb, nil
}

func Migrate(gdb *gorm.DB) error {
	if gdb == nil {
		return errors.New("nil database")
	}
	if err := gdb.AutoMigrate(Models()...); err != nil {
		return err
	}
	return backfillUserSettings(gdb)
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DatabaseDriverSQLite:
		return sqlite.Open(cfg.Path), nil
	case config.DatabaseDriverPostgres, "":
		dsn := "host=" + cfg.Host +
			" user=" + cfg.User +
			" password=" + cfg.Password +
			" dbname=" + cfg.DBName +
			" port=" + strconv.Itoa(cfg.Port) +
			" sslmode=" + cfg.SSLMode
		return postgres.Open(dsn), nil
	default:
		return nil, errors.New("unsupported database driver " + strconv.Quote(cfg.Driver))
	}
}

// backfillUserSettings gives every stored record a settings row so the
// reminder ticker can resolve the user's timezone.
func backfillUserSettings(gdb *gorm.DB) error {
	return gdb.Exec(`
INSERT INTO user_settings (user_id, timezone_offset_hours, created_at, updated_at)
SELECT r.user_id, 0, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP
FROM user_records r
WHERE NOT EXISTS (SELECT 1 FROM user_settings s WHERE s.user_id = r.user_id)
`).Error
}
