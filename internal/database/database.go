package database

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"fintrack/internal/logger"
	"fintrack/internal/models"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Manager owns the process-wide database session. The connection is opened
// on first use and reused for the lifetime of the process.
type Manager struct {
	config *Config

	once sync.Once
	db   *gorm.DB
	err  error
}

// NewManager creates a new database manager. No connection is made until DB
// is called.
func NewManager(config *Config) *Manager {
	return &Manager{config: config}
}

// DB returns the shared GORM instance, connecting on the first call.
func (m *Manager) DB() (*gorm.DB, error) {
	m.once.Do(func() {
		m.db, m.err = m.open()
	})
	return m.db, m.err
}

func (m *Manager) open() (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch m.config.Driver {
	case DriverSQLite:
		dialector = sqlite.Open(m.config.DSN())
	default:
		dialector = postgres.New(postgres.Config{
			DSN:                  m.config.DSN(),
			PreferSimpleProtocol: true,
		})
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
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

	logger.Named("database").Infow("database connection established", "driver", m.config.Driver)
	return db, nil
}

// RunMigrations brings the schema up to date. Postgres uses the SQL files in
// migrations/; SQLite is migrated from the GORM models.
func (m *Manager) RunMigrations() error {
	log := logger.Named("database")

	if m.config.Driver != DriverPostgres {
		db, err := m.DB()
		if err != nil {
			return err
		}
		if err := db.AutoMigrate(&models.Document{}); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		log.Info("Database schema migrated")
		return nil
	}

	log.Info("Running database migrations...")

	mig, err := migrate.New("file://migrations", m.config.MigrateURL())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := mig.Close()
		if srcErr != nil {
			log.Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			log.Warnf("migrate database close error: %v", dbErr)
		}
	}()

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Info("Database migrations completed successfully")
	return nil
}

// Close releases the underlying connection pool if one was opened.
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
