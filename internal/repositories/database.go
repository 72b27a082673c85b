package repositories

import (
	"fmt"

	"gudang/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported values for the DB_DRIVER setting.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Stores bundles the repositories the application is built from.
type Stores struct {
	Products ProductRepository
	Ledger   LedgerRepository
	Users    UserRepository
	close    func() error
}

// Close releases the underlying database connection, if any.
func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// NewMemoryStores returns stores backed by process memory.
func NewMemoryStores() *Stores {
	store := NewInMemoryStore()
	return &Stores{
		Products: store,
		Ledger:   store,
		Users:    NewInMemoryUserRepository(),
	}
}

// NewGORMStores returns stores backed by an open, migrated GORM database.
func NewGORMStores(db *gorm.DB) *Stores {
	return &Stores{
		Products: NewGORMProductRepository(db),
		Ledger:   NewGORMLedgerRepository(db),
		Users:    NewGORMUserRepository(db),
		close: func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

// OpenStores opens the store selected by driver.
func OpenStores(driver, dsn string) (*Stores, error) {
	if driver == DriverMemory {
		return NewMemoryStores(), nil
	}
	db, err := OpenDatabase(driver, dsn)
	if err != nil {
		return nil, err
	}
	return NewGORMStores(db), nil
}

// OpenDatabase connects to a sqlite or postgres database and migrates the schema.
func OpenDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	if driver == DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
		}
		// One connection serializes transactions; sqlite would otherwise
		// report "database is locked" under concurrent writers.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&models.Product{}, &models.Sale{}, &models.Purchase{}, &models.StockAdjustment{}, &models.User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}
