package db

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	config "github.com/oskar87/swe2/configs"
	"github.com/oskar87/swe2/internal/models"
)

// Open connects to the configured database and migrates the schema.
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
			cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.TimeZone,
		)
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(withForeignKeys(cfg.SQLitePath))
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	if err := Migrate(gormDB); err != nil {
		return nil, err
	}

	log.Info("Database connected and migrated successfully", zap.String("driver", cfg.Driver))
	return gormDB, nil
}

// OpenSQLite opens a sqlite database with the same settings as Open, e.g.
// "file:shop?mode=memory&cache=shared" for an in-memory database.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	gormDB, err := gorm.Open(sqlite.Open(withForeignKeys(dsn)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := Migrate(gormDB); err != nil {
		return nil, err
	}
	return gormDB, nil
}

// withForeignKeys turns on foreign key enforcement, which sqlite leaves off
// for every new connection.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

func Migrate(gormDB *gorm.DB) error {
	err := gormDB.AutoMigrate(
		&models.Kunde{},
		&models.Adresse{},
		&models.Artikel{},
		&models.Bestellung{},
		&models.Bestellposition{},
		&models.Lieferung{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate DB: %w", err)
	}
	return nil
}
