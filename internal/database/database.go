// Package database wires GORM to the configured storage engine: an
// embedded SQLite file by default, PostgreSQL when DATABASE_URL is set.
package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"buildflow/internal/logger"
	"buildflow/internal/models"
)

// allModels is the list of GORM models migrated at startup.
var allModels = []interface{}{
	&models.User{},
	&models.Project{},
	&models.Transaction{},
	&models.ProgressPhoto{},
	&models.ChangeOrder{},
	&models.Task{},
	&models.AuditLog{},
}

// Manager handles database connection and schema setup.
type Manager struct {
	db *gorm.DB
}

// NewManager opens the database. databaseURL selects PostgreSQL; when it
// is empty the embedded SQLite file at sqlitePath is used.
func NewManager(databaseURL, sqlitePath string) (*Manager, error) {
	var (
		db  *gorm.DB
		err error
	)

	if databaseURL != "" {
		logger.Get().Infow("connecting to database", "driver", "postgres")
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  databaseURL,
			PreferSimpleProtocol: true,
		}), &gorm.Config{})
	} else {
		logger.Get().Infow("connecting to database", "driver", "sqlite", "path", sqlitePath)
		db, err = gorm.Open(sqlite.Open(sqlitePath), &gorm.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Manager{db: db}, nil
}

// Migrate creates or verifies the schema for all models.
func (m *Manager) Migrate() error {
	logger.Get().Info("Creating or verifying database schema...")

	if err := m.db.AutoMigrate(allModels...); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	logger.Get().Info("Database schema ready")
	return nil
}

// Reset drops all tables and recreates them. Development use only.
func (m *Manager) Reset() error {
	logger.Get().Warn("Dropping all database tables...")

	if err := m.db.Migrator().DropTable(allModels...); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}

	return m.Migrate()
}

// DB returns the underlying GORM database instance.
func (m *Manager) DB() *gorm.DB {
	return m.db
}
