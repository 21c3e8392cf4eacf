package database

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arnold/taskboard/internal/config"
	"github.com/arnold/taskboard/internal/models"
)

// Connect opens the store named by cfg.DatabaseURL.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	return Open(cfg.DatabaseURL, cfg.Debug)
}

// Open connects to PostgreSQL if url starts with postgres, otherwise to the
// SQLite file (or in-memory database) it names.
func Open(url string, debug bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	isSQLite := !strings.HasPrefix(url, "postgres")
	if isSQLite {
		dialector = sqlite.Open(url)
	} else {
		dialector = postgres.Open(url)
	}

	level := logger.Warn
	if debug {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	if isSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "getting database handle")
		}
		// SQLite allows a single writer; one connection serializes statements
		// instead of surfacing "database is locked".
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Task{},
		&models.Completion{},
	); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
