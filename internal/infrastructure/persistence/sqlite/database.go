// Package sqlite provides SQLite database setup and configuration
package sqlite

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nutrino-ai/nutrino/internal/infrastructure/config"
	gormModels "github.com/nutrino-ai/nutrino/internal/infrastructure/persistence/gorm"
)

// SetupDatabase opens the SQLite database at cfg.Path and migrates the
// schema when auto-migration is enabled. ":memory:" keeps everything in
// process.
func SetupDatabase(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dbPath := cfg.Path
	if dbPath == "" {
		dbPath = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dsn(dbPath)), &gorm.Config{
		Logger: gormModels.NewLogger(log, cfg.LogLevel, cfg.SlowQueryThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// SQLite serialises writers; one connection also keeps an in-memory
	// database alive and shared.
	sqlDB.SetMaxOpenConns(1)

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(gormModels.Models()...); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	log.Info("SQLite database ready",
		zap.String("path", dbPath),
		zap.Bool("auto_migrate", cfg.AutoMigrate))

	return db, nil
}

func dsn(path string) string {
	if path == ":memory:" {
		return path
	}
	return path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
}
