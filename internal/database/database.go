package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/til/internal/config"
)

var (
	ErrUnknownDriver = errors.New("unknown database driver")
	ErrMissingDSN    = errors.New("database DSN is required for postgres")
)

// sqliteParams enables foreign keys (cascading pivot deletes) and lets
// concurrent writers wait on each other instead of failing with SQLITE_BUSY.
const sqliteParams = "_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"

type Database struct {
	DB     *gorm.DB
	Driver string
}

// NewDatabase opens a connection for the configured driver. It does not migrate;
// call Migrate once the admin seed is known.
func NewDatabase(cfg config.Database) (*Database, error) {
	dialector, driver, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if cfg.Debug {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == config.DriverSQLite {
		// One connection serializes writers; WAL lock upgrades can fail fast otherwise.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		log.Printf("Database opened at %s", cfg.Path)
	} else {
		log.Printf("Database opened (%s)", driver)
	}

	return &Database{DB: db, Driver: driver}, nil
}

func openDialector(cfg config.Database) (gorm.Dialector, string, error) {
	switch cfg.Driver {
	case "", config.DriverSQLite:
		path := cfg.Path
		if path == "" {
			path = config.DefaultDatabasePath
		}
		return sqlite.Open(SQLiteDSN(path)), config.DriverSQLite, nil
	case config.DriverPostgres:
		if cfg.DSN == "" {
			return nil, "", ErrMissingDSN
		}
		return postgres.Open(cfg.DSN), config.DriverPostgres, nil
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// SQLiteDSN appends the connection parameters the application relies on,
// unless the path already carries its own query string.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?" + sqliteParams
}

func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
